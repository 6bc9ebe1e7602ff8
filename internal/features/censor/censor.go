// Package censor removes messages containing banned patterns. It is the
// authoritative pipeline feature: when it deletes a message it returns Stop
// so later features never act on content that no longer exists.
package censor

import (
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/phunanon/uMod-sub000/internal/access"
	"github.com/phunanon/uMod-sub000/internal/discord"
	"github.com/phunanon/uMod-sub000/internal/feature"
)

type Feature struct{}

func New() *Feature { return &Feature{} }

func (f *Feature) Name() string { return "censor" }

func (f *Feature) HandleMessage(ctx *feature.MsgCtx) (feature.Verdict, error) {
	if ctx.IsDelete || ctx.AuthorExempt {
		return feature.Continue, nil
	}

	pattern := Match(ctx.Content, ctx.Store.CensorPatterns(ctx.GuildID))
	if pattern == "" {
		return feature.Continue, nil
	}

	if err := ctx.Session.ChannelMessageDelete(ctx.ChannelID, ctx.MessageID); err != nil {
		return feature.Continue, fmt.Errorf("delete censored message: %w", err)
	}
	notice := fmt.Sprintf("<@%s>, that language isn't allowed here.", ctx.UserID)
	if _, err := ctx.Session.ChannelMessageSend(ctx.ChannelID, notice); err != nil {
		log.Printf("[WARN] Censor notice failed: %v", err)
	}
	return feature.Stop, nil
}

// Match returns the first pattern contained in content (case-insensitive),
// or "" when content is clean.
func Match(content string, patterns []string) string {
	lowered := strings.ToLower(content)
	for _, p := range patterns {
		if p != "" && strings.Contains(lowered, p) {
			return p
		}
	}
	return ""
}

// Slash command managing the pattern list. Guarded by the "censor" permit so
// guilds can delegate list upkeep without handing out moderator rank.

func (f *Feature) Interaction() *feature.Interaction {
	return &feature.Interaction{Name: "censor", Access: access.Permit("censor")}
}

func (f *Feature) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "censor",
		Description: "Manage the banned word list",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "add",
				Description: "Ban a word or phrase",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "pattern",
						Description: "Text to ban (matched case-insensitively)",
						Required:    true,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "remove",
				Description: "Unban a word or phrase",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "pattern",
						Description: "Text to unban",
						Required:    true,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "list",
				Description: "Show the banned word list",
			},
		},
	}
}

func (f *Feature) HandleSlash(ctx *feature.InteractionCtx) error {
	data := ctx.Event.ApplicationCommandData()
	if len(data.Options) == 0 {
		return discord.RespondEphemeral(ctx.Session, ctx.Event, "Nothing to do.")
	}

	sub := data.Options[0]
	guildID := ctx.Event.GuildID

	switch sub.Name {
	case "add":
		pattern := sub.Options[0].StringValue()
		if err := ctx.Store.AddCensorPattern(guildID, pattern); err != nil {
			return err
		}
		return discord.RespondEphemeral(ctx.Session, ctx.Event, fmt.Sprintf("Banned %q.", pattern))

	case "remove":
		pattern := sub.Options[0].StringValue()
		if err := ctx.Store.RemoveCensorPattern(guildID, pattern); err != nil {
			return err
		}
		return discord.RespondEphemeral(ctx.Session, ctx.Event, fmt.Sprintf("Unbanned %q.", pattern))

	case "list":
		patterns := ctx.Store.CensorPatterns(guildID)
		if len(patterns) == 0 {
			return discord.RespondEphemeral(ctx.Session, ctx.Event, "The banned word list is empty.")
		}
		return discord.RespondEmbedEphemeral(ctx.Session, ctx.Event, &discordgo.MessageEmbed{
			Title:       "Banned words",
			Description: strings.Join(patterns, ", "),
		})
	}
	return discord.RespondEphemeral(ctx.Session, ctx.Event, "Unknown subcommand.")
}
