package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"shelf-go/internal/app"
	"shelf-go/internal/config"
	"shelf-go/internal/shelf"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates a ShelfApp. The caller must defer app.Close().
func newApp() (*app.ShelfApp, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewShelfApp(cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

// collectionFlag resolves the --clipboard flag to a collection.
func collectionFlag(cmd *cobra.Command) shelf.Collection {
	if ok, _ := cmd.Flags().GetBool("clipboard"); ok {
		return shelf.CollectionClipboard
	}
	return shelf.CollectionTray
}

var rootCmd = &cobra.Command{
	Use:   "shelf",
	Short: "Drop tray and clipboard history",
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Base Dir: %s\n", defaults["base_dir"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Base Dir:       %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:        %s\n", cfg.LogDir)
		fmt.Printf("Tray Root:      %s (%s)\n", cfg.Tray.Root, cfg.Tray.Layout)
		fmt.Printf("Clipboard Root: %s (%s)\n", cfg.Clipboard.Root, cfg.Clipboard.Layout)
		return nil
	},
}

// add command
var addCmd = &cobra.Command{
	Use:   "add <file>...",
	Short: "Add files to the tray",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		c := collectionFlag(cmd)
		if err := a.Add(c, args); err != nil {
			return fmt.Errorf("adding files: %w", err)
		}

		fmt.Printf("Added %d file(s) to %s\n", len(args), c)
		return nil
	},
}

// list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List items",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		query, _ := cmd.Flags().GetString("search")
		typeNames, _ := cmd.Flags().GetStringSlice("type")
		types := make([]shelf.ItemType, 0, len(typeNames))
		for _, t := range typeNames {
			types = append(types, shelf.ItemType(t))
		}

		items := a.List(collectionFlag(cmd), query, types)
		if len(items) == 0 {
			fmt.Println("No items")
			return nil
		}

		for _, it := range items {
			pin := " "
			if it.Pinned {
				pin = "*"
			}
			labels := ""
			if len(it.Labels) > 0 {
				labels = " [" + strings.Join(it.Labels, ", ") + "]"
			}
			fmt.Printf("%s %-36s  %-6s  %-19s  %s%s\n",
				pin, it.ID, it.Type, it.CopiedAt.Local().Format("2006-01-02 15:04:05"),
				it.FileName, labels)
		}
		return nil
	},
}

// rm command
var rmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove an item and its stored file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		return a.Delete(collectionFlag(cmd), args[0])
	},
}

// clear command
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all items of a collection",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		return a.Clear(collectionFlag(cmd))
	},
}

// pin command
var pinCmd = &cobra.Command{
	Use:   "pin <id>",
	Short: "Toggle an item's pin",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		return a.TogglePin(collectionFlag(cmd), args[0])
	},
}

// label command
var labelCmd = &cobra.Command{
	Use:   "label",
	Short: "Manage item labels",
}

var labelAddCmd = &cobra.Command{
	Use:   "add <id> <label>",
	Short: "Add a label to an item",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		return a.AddLabel(collectionFlag(cmd), args[0], args[1])
	},
}

var labelRmCmd = &cobra.Command{
	Use:   "rm <id> <label>",
	Short: "Remove a label from an item",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		return a.RemoveLabel(collectionFlag(cmd), args[0], args[1])
	},
}

// retention command
var retentionCmd = &cobra.Command{
	Use:   "retention",
	Short: "View or change retention",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		c := collectionFlag(cmd)
		preset, _ := cmd.Flags().GetString("preset")
		value, _ := cmd.Flags().GetInt64("value")
		unit, _ := cmd.Flags().GetString("unit")

		if preset == "" && value == 0 {
			cfg, err := a.Retention(c)
			if err != nil {
				return err
			}
			if cfg.Preset == shelf.RetainCustom {
				fmt.Printf("%s: keep for %d %s\n", c, cfg.CustomValue, cfg.CustomUnit)
			} else {
				fmt.Printf("%s: %s\n", c, cfg.Preset)
			}
			return nil
		}

		cfg := shelf.RetentionConfig{Preset: shelf.RetentionPreset(preset)}
		if value != 0 {
			cfg = shelf.RetentionConfig{
				Preset:      shelf.RetainCustom,
				CustomValue: value,
				CustomUnit:  shelf.RetentionUnit(unit),
			}
		}
		if err := a.SetRetention(c, cfg); err != nil {
			return fmt.Errorf("setting retention: %w", err)
		}
		fmt.Printf("Retention for %s updated\n", c)
		return nil
	},
}

// sweep command
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Remove expired items now",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		total := 0
		for _, c := range []shelf.Collection{shelf.CollectionTray, shelf.CollectionClipboard} {
			n, err := a.Sweep(c)
			if err != nil {
				return fmt.Errorf("sweeping %s: %w", c, err)
			}
			total += n
		}
		fmt.Printf("Removed %d expired item(s)\n", total)
		return nil
	},
}

// watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the clipboard and tray directory until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := a.Watch(ctx); err != nil && ctx.Err() == nil {
			return err
		}
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	labelCmd.AddCommand(labelAddCmd)
	labelCmd.AddCommand(labelRmCmd)

	listCmd.Flags().String("search", "", "filter by file name, preview text, or label")
	listCmd.Flags().StringSlice("type", nil, "filter by item type (file, text, image, link, color)")
	retentionCmd.Flags().String("preset", "", "retention preset (1h, 1d, 2d, 3d, 1w, forever)")
	retentionCmd.Flags().Int64("value", 0, "custom retention value")
	retentionCmd.Flags().String("unit", "days", "custom retention unit (hours, days, weeks, months, years)")

	for _, c := range []*cobra.Command{addCmd, listCmd, rmCmd, clearCmd, pinCmd, labelAddCmd, labelRmCmd, retentionCmd} {
		c.Flags().Bool("clipboard", false, "operate on clipboard history instead of the tray")
	}

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(pinCmd)
	rootCmd.AddCommand(labelCmd)
	rootCmd.AddCommand(retentionCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(watchCmd)
}
