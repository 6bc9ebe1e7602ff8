package censor

import "testing"

func TestMatch(t *testing.T) {
	patterns := []string{"badword", "free nitro"}

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"clean message", "hello everyone", ""},
		{"exact hit", "badword", "badword"},
		{"hit inside sentence", "that is a badword right there", "badword"},
		{"case insensitive", "BADWORD!!!", "badword"},
		{"multi-word pattern", "click for FREE NITRO today", "free nitro"},
		{"first pattern wins", "badword and free nitro", "badword"},
		{"empty content", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Match(tt.content, patterns); got != tt.want {
				t.Errorf("Match(%q) = %q, want %q", tt.content, got, tt.want)
			}
		})
	}
}

func TestMatchNoPatterns(t *testing.T) {
	if got := Match("anything at all", nil); got != "" {
		t.Errorf("Match with no patterns = %q, want empty", got)
	}
}
