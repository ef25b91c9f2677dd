package dirwatch

import "testing"

func TestIgnoreMatcher(t *testing.T) {
	m := NewIgnoreMatcher([]string{
		"*.tmp",
		"  *.partial  ",
		"",
		"# a comment",
		"Thumbs.db",
		"[bad-pattern",
	})

	tests := []struct {
		name string
		want bool
	}{
		{"download.tmp", true},
		{"movie.mkv.partial", true},
		{"Thumbs.db", true},
		{"document.pdf", false},
		{"tmp", false},
		{"# a comment", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.Match(tt.name); got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestIgnoreMatcherEmpty(t *testing.T) {
	m := NewIgnoreMatcher(nil)
	if m.Match("anything.txt") {
		t.Errorf("empty matcher must not ignore anything")
	}
}
