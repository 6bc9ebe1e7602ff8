package feature

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type plainFeature struct{ name string }

func (f *plainFeature) Name() string { return f.name }

type slashFeature struct {
	name    string
	pattern string
}

func (f *slashFeature) Name() string              { return f.name }
func (f *slashFeature) Interaction() *Interaction { return &Interaction{Name: f.pattern} }
func (f *slashFeature) HandleSlash(ctx *InteractionCtx) error {
	return nil
}

type buttonFeature struct {
	name    string
	pattern string
}

func (f *buttonFeature) Name() string              { return f.name }
func (f *buttonFeature) Interaction() *Interaction { return &Interaction{Name: f.pattern} }
func (f *buttonFeature) HandleButton(ctx *InteractionCtx, customID string) error {
	return nil
}

// overloadedFeature wrongly implements two handler variants.
type overloadedFeature struct{ slashFeature }

func (f *overloadedFeature) HandleButton(ctx *InteractionCtx, customID string) error {
	return nil
}

// handlerlessFeature declares an interaction but implements no variant.
type handlerlessFeature struct{ name string }

func (f *handlerlessFeature) Name() string              { return f.name }
func (f *handlerlessFeature) Interaction() *Interaction { return &Interaction{Name: f.name} }

func TestNewRegistryPreservesOrder(t *testing.T) {
	reg, err := NewRegistry(
		&plainFeature{name: "alpha"},
		&plainFeature{name: "beta"},
		&plainFeature{name: "gamma"},
	)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	want := []string{"alpha", "beta", "gamma"}
	for i := 0; i < 3; i++ {
		var got []string
		for _, f := range reg.All() {
			got = append(got, f.Name())
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("call %d: order mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestNewRegistryEmpty(t *testing.T) {
	reg, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	if reg.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", reg.Len())
	}
}

func TestNewRegistryRejects(t *testing.T) {
	tests := []struct {
		name     string
		features []Feature
		wantErr  string
	}{
		{
			name:     "nil feature",
			features: []Feature{nil},
			wantErr:  "nil feature",
		},
		{
			name:     "empty name",
			features: []Feature{&plainFeature{name: ""}},
			wantErr:  "empty name",
		},
		{
			name: "duplicate feature name",
			features: []Feature{
				&plainFeature{name: "dup"},
				&plainFeature{name: "dup"},
			},
			wantErr: "duplicate feature name",
		},
		{
			name: "duplicate interaction name",
			features: []Feature{
				&slashFeature{name: "a", pattern: "shared"},
				&buttonFeature{name: "b", pattern: "shared"},
			},
			wantErr: "both claim interaction name",
		},
		{
			name:     "no handler variant",
			features: []Feature{&handlerlessFeature{name: "hollow"}},
			wantErr:  "no handler variant",
		},
		{
			name: "multiple handler variants",
			features: []Feature{
				&overloadedFeature{slashFeature{name: "greedy", pattern: "greedy"}},
			},
			wantErr: "want exactly one",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.features...)
			if err == nil {
				t.Fatal("NewRegistry succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestNewRegistryAllowsShadowingPrefixes(t *testing.T) {
	// Colliding prefixes are legal; first match wins at resolution time.
	reg, err := NewRegistry(
		&buttonFeature{name: "a", pattern: "foo-*"},
		&slashFeature{name: "b", pattern: "foo-bar"},
	)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	if reg.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", reg.Len())
	}
}

func TestMatches(t *testing.T) {
	tests := []struct {
		pattern string
		name    string
		want    bool
	}{
		{"ping", "ping", true},
		{"ping", "pingg", false},
		{"ping", "pin", false},
		{"warn-clear-*", "warn-clear-123", true},
		{"warn-clear-*", "warn-clear-", true},
		{"warn-clear-*", "warn-clea", false},
		{"*", "anything", true},
		{"", "", true},
		{"", "x", false},
	}
	for _, tt := range tests {
		if got := Matches(tt.pattern, tt.name); got != tt.want {
			t.Errorf("Matches(%q, %q) = %v, want %v", tt.pattern, tt.name, got, tt.want)
		}
	}
}

func TestShadows(t *testing.T) {
	tests := []struct {
		first  string
		second string
		want   bool
	}{
		{"foo-*", "foo-bar", true},
		{"foo-*", "foo-*", true},
		{"foo-*", "fo", false},
		{"foo-bar", "foo-*", false}, // literal first never shadows
		{"*", "anything", true},
	}
	for _, tt := range tests {
		if got := shadows(tt.first, tt.second); got != tt.want {
			t.Errorf("shadows(%q, %q) = %v, want %v", tt.first, tt.second, got, tt.want)
		}
	}
}
