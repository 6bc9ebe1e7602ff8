// Package leaderboard counts messages per user. It sits after the
// moderation features in registry order, so deleted spam and censored
// messages never score.
package leaderboard

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/phunanon/uMod-sub000/internal/discord"
	"github.com/phunanon/uMod-sub000/internal/feature"
)

const topSize = 10

type Feature struct{}

func New() *Feature { return &Feature{} }

func (f *Feature) Name() string { return "leaderboard" }

func (f *Feature) HandleMessage(ctx *feature.MsgCtx) (feature.Verdict, error) {
	if ctx.IsEdit || ctx.IsDelete {
		return feature.Continue, nil
	}
	return feature.Continue, ctx.Store.IncrementScore(ctx.GuildID, ctx.UserID)
}

func (f *Feature) Interaction() *feature.Interaction {
	return &feature.Interaction{Name: "leaderboard"}
}

func (f *Feature) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "leaderboard",
		Description: "Show the most active members",
	}
}

func (f *Feature) HandleSlash(ctx *feature.InteractionCtx) error {
	scores, err := ctx.Store.TopScores(ctx.Event.GuildID, topSize)
	if err != nil {
		return err
	}
	if len(scores) == 0 {
		return discord.RespondEphemeral(ctx.Session, ctx.Event, "No messages counted yet.")
	}

	var sb strings.Builder
	for i, score := range scores {
		fmt.Fprintf(&sb, "%d. <@%s> — %d messages\n", i+1, score.UserID, score.Count)
	}
	return discord.RespondEmbed(ctx.Session, ctx.Event, &discordgo.MessageEmbed{
		Title:       "Leaderboard",
		Description: sb.String(),
	})
}
