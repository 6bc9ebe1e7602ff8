// Package ping is the smallest possible feature: one unrestricted slash
// command reporting gateway latency.
package ping

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/phunanon/uMod-sub000/internal/discord"
	"github.com/phunanon/uMod-sub000/internal/feature"
)

type Feature struct{}

func New() *Feature { return &Feature{} }

func (f *Feature) Name() string { return "ping" }

func (f *Feature) Interaction() *feature.Interaction {
	return &feature.Interaction{Name: "ping"}
}

func (f *Feature) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "ping",
		Description: "Check that the bot is alive",
	}
}

func (f *Feature) HandleSlash(ctx *feature.InteractionCtx) error {
	latency := ctx.Session.HeartbeatLatency().Milliseconds()
	return discord.Respond(ctx.Session, ctx.Event, fmt.Sprintf("Pong! %dms", latency))
}
