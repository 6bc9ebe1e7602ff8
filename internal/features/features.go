// Package features assembles the closed set of feature modules in dispatch
// order. Order matters twice: message-pipeline features run in this order
// (censor and spam must precede leaderboard so suppressed messages never
// score), and interaction patterns resolve first match wins.
package features

import (
	"github.com/phunanon/uMod-sub000/internal/feature"
	"github.com/phunanon/uMod-sub000/internal/features/audit"
	"github.com/phunanon/uMod-sub000/internal/features/censor"
	"github.com/phunanon/uMod-sub000/internal/features/greet"
	"github.com/phunanon/uMod-sub000/internal/features/leaderboard"
	"github.com/phunanon/uMod-sub000/internal/features/moderation"
	"github.com/phunanon/uMod-sub000/internal/features/note"
	"github.com/phunanon/uMod-sub000/internal/features/permit"
	"github.com/phunanon/uMod-sub000/internal/features/ping"
	"github.com/phunanon/uMod-sub000/internal/features/purge"
	"github.com/phunanon/uMod-sub000/internal/features/roles"
	"github.com/phunanon/uMod-sub000/internal/features/spam"
	"github.com/phunanon/uMod-sub000/internal/features/warn"
)

// NewRegistry builds and validates the full feature set.
func NewRegistry() (*feature.Registry, error) {
	return feature.NewRegistry(
		censor.New(),
		spam.New(),
		leaderboard.New(),
		ping.New(),
		warn.NewCommand(),
		warn.NewClearButton(),
		permit.New(),
		moderation.New(),
		greet.NewWelcome(),
		greet.NewFarewell(),
		audit.New(),
		note.NewMenu(),
		note.NewModal(),
		purge.NewCommand(),
		purge.NewConfirmButton(),
		roles.NewSetup(),
		roles.NewPicker(),
	)
}
