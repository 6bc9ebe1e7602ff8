// Package audit relays guild audit-log entries to a configured channel and
// cleans up configuration that points at deleted channels.
package audit

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/phunanon/uMod-sub000/internal/access"
	"github.com/phunanon/uMod-sub000/internal/discord"
	"github.com/phunanon/uMod-sub000/internal/feature"
)

type Feature struct{}

func New() *Feature { return &Feature{} }

func (f *Feature) Name() string { return "audit" }

func (f *Feature) AuditLogEntry(env *feature.Env, e *discordgo.GuildAuditLogEntryCreate) error {
	channelID := env.Store.AuditChannel(e.GuildID)
	if channelID == "" {
		return nil
	}

	action := "unknown"
	if e.ActionType != nil {
		action = fmt.Sprintf("%d", *e.ActionType)
	}
	description := fmt.Sprintf("Action `%s` by <@%s>", action, e.UserID)
	if e.TargetID != "" {
		description += fmt.Sprintf(" on `%s`", e.TargetID)
	}
	if e.Reason != "" {
		description += "\nReason: " + e.Reason
	}

	_, err := env.Session.ChannelMessageSendEmbed(channelID, &discordgo.MessageEmbed{
		Title:       "Audit log",
		Description: description,
		Color:       discord.EmbedColor,
	})
	return err
}

// ChannelDelete drops configuration referencing the deleted channel so
// greetings and audit relays don't keep targeting a dead ID.
func (f *Feature) ChannelDelete(env *feature.Env, e *discordgo.ChannelDelete) error {
	if e.GuildID == "" {
		return nil
	}
	return env.Store.DropChannelConfig(e.GuildID, e.ID)
}

func (f *Feature) Interaction() *feature.Interaction {
	return &feature.Interaction{Name: "audit", Access: access.Moderator()}
}

func (f *Feature) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "audit",
		Description: "Relay the audit log to a channel",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionChannel,
				Name:        "channel",
				Description: "Channel for audit entries (omit to disable)",
			},
		},
	}
}

func (f *Feature) HandleSlash(ctx *feature.InteractionCtx) error {
	channelID := ""
	for _, opt := range ctx.Event.ApplicationCommandData().Options {
		if opt.Name == "channel" {
			channelID, _ = opt.Value.(string)
		}
	}
	if err := ctx.Store.SetAuditChannel(ctx.Event.GuildID, channelID); err != nil {
		return err
	}
	if channelID == "" {
		return discord.RespondEphemeral(ctx.Session, ctx.Event, "Audit relay disabled.")
	}
	return discord.RespondEphemeral(ctx.Session, ctx.Event,
		fmt.Sprintf("Audit entries will be relayed to <#%s>.", channelID))
}
