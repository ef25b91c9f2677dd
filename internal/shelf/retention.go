package shelf

import (
	"fmt"
	"time"
)

// RetentionPreset is a user-selectable fixed retention duration.
type RetentionPreset string

const (
	RetainHour      RetentionPreset = "1h"
	RetainDay       RetentionPreset = "1d"
	RetainTwoDays   RetentionPreset = "2d"
	RetainThreeDays RetentionPreset = "3d"
	RetainWeek      RetentionPreset = "1w"
	RetainForever   RetentionPreset = "forever"
	RetainCustom    RetentionPreset = "custom"
)

// RetentionUnit is the unit of a custom retention duration.
type RetentionUnit string

const (
	UnitHours  RetentionUnit = "hours"
	UnitDays   RetentionUnit = "days"
	UnitWeeks  RetentionUnit = "weeks"
	UnitMonths RetentionUnit = "months"
	UnitYears  RetentionUnit = "years"
)

// Calendar-naive unit lengths. Months and years are fixed approximations,
// not calendar-aware.
const (
	hourSeconds  = 3600
	daySeconds   = 86400
	weekSeconds  = 7 * daySeconds
	monthSeconds = 30 * daySeconds
	yearSeconds  = 365 * daySeconds
)

// Seconds returns the unit length in seconds, or 0 for unknown units.
func (u RetentionUnit) Seconds() int64 {
	switch u {
	case UnitHours:
		return hourSeconds
	case UnitDays:
		return daySeconds
	case UnitWeeks:
		return weekSeconds
	case UnitMonths:
		return monthSeconds
	case UnitYears:
		return yearSeconds
	default:
		return 0
	}
}

// RetentionConfig is the user-configured retention for one collection:
// either a fixed preset or a custom (value, unit) pair.
type RetentionConfig struct {
	Preset      RetentionPreset
	CustomValue int64
	CustomUnit  RetentionUnit
}

// DefaultRetention keeps items for three days.
func DefaultRetention() RetentionConfig {
	return RetentionConfig{Preset: RetainThreeDays}
}

// Expiry derives the effective expiry duration. A zero return disables
// age-based expiry entirely: it is produced by RetainForever and, as an
// explicit guard against catastrophic deletion from a misconfigured value,
// by any non-positive custom duration.
func (c RetentionConfig) Expiry() time.Duration {
	switch c.Preset {
	case RetainHour:
		return time.Hour
	case RetainDay:
		return 24 * time.Hour
	case RetainTwoDays:
		return 48 * time.Hour
	case RetainThreeDays:
		return 72 * time.Hour
	case RetainWeek:
		return 7 * 24 * time.Hour
	case RetainForever:
		return 0
	case RetainCustom:
		secs := c.CustomValue * c.CustomUnit.Seconds()
		if secs <= 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	default:
		return 0
	}
}

// Validate checks the configuration for well-formedness. A non-positive
// custom duration is reported here but is still safe to apply: Expiry treats
// it as "no age-based expiry" rather than "expire everything".
func (c RetentionConfig) Validate() error {
	switch c.Preset {
	case RetainHour, RetainDay, RetainTwoDays, RetainThreeDays, RetainWeek, RetainForever:
		return nil
	case RetainCustom:
		if c.CustomUnit.Seconds() == 0 {
			return fmt.Errorf("unknown retention unit %q", c.CustomUnit)
		}
		if c.CustomValue <= 0 {
			return fmt.Errorf("retention value must be positive, got %d", c.CustomValue)
		}
		return nil
	default:
		return fmt.Errorf("unknown retention preset %q", c.Preset)
	}
}

// IsExpired reports whether an item is eligible for automatic removal.
// A missing backing artifact always wins, regardless of the configured
// duration — the safety net against orphaned metadata. Otherwise the item
// expires only when expiry is a positive duration that its age exceeds.
func IsExpired(it *Item, expiry time.Duration, artifactExists bool, now time.Time) bool {
	if !artifactExists {
		return true
	}
	if expiry <= 0 {
		return false
	}
	return now.Sub(it.CopiedAt) > expiry
}

// Expired filters a store snapshot down to the expired items. It is a pure
// filter: it performs no removals and no scheduling. exists reports whether
// an item's backing artifact is on disk.
func Expired(items []*Item, expiry time.Duration, exists func(*Item) bool, now time.Time) []*Item {
	var out []*Item
	for _, it := range items {
		if IsExpired(it, expiry, exists(it), now) {
			out = append(out, it)
		}
	}
	return out
}
