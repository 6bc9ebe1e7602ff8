// Package moderation toggles the two flags the dispatch core consults
// before running the message pipeline: unmoderated channels and exempt
// users.
package moderation

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/phunanon/uMod-sub000/internal/access"
	"github.com/phunanon/uMod-sub000/internal/discord"
	"github.com/phunanon/uMod-sub000/internal/feature"
)

type Feature struct{}

func New() *Feature { return &Feature{} }

func (f *Feature) Name() string { return "moderation" }

func (f *Feature) Interaction() *feature.Interaction {
	return &feature.Interaction{Name: "moderation", Access: access.Moderator()}
}

func (f *Feature) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "moderation",
		Description: "Configure what the bot moderates",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "channel",
				Description: "Include or exclude a channel from moderation",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionChannel,
						Name:        "channel",
						Description: "Channel to change",
						Required:    true,
					},
					{
						Type:        discordgo.ApplicationCommandOptionBoolean,
						Name:        "moderated",
						Description: "Whether the bot moderates this channel",
						Required:    true,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "exempt",
				Description: "Exempt a user from moderation, or re-include them",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionUser,
						Name:        "user",
						Description: "User to change",
						Required:    true,
					},
					{
						Type:        discordgo.ApplicationCommandOptionBoolean,
						Name:        "exempt",
						Description: "Whether the user is exempt",
						Required:    true,
					},
				},
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
	case "channel":
		var channelID string
		moderated := true
		for _, opt := range sub.Options {
			switch opt.Name {
			case "channel":
				channelID, _ = opt.Value.(string)
			case "moderated":
				moderated = opt.BoolValue()
			}
		}
		if err := ctx.Store.SetChannelUnmoderated(guildID, channelID, !moderated); err != nil {
			return err
		}
		state := "now moderated"
		if !moderated {
			state = "no longer moderated"
		}
		return discord.RespondEphemeral(ctx.Session, ctx.Event, fmt.Sprintf("<#%s> is %s.", channelID, state))

	case "exempt":
		var userID string
		exempt := true
		for _, opt := range sub.Options {
			switch opt.Name {
			case "user":
				userID, _ = opt.Value.(string)
			case "exempt":
				exempt = opt.BoolValue()
			}
		}
		if err := ctx.Store.SetUserExempt(guildID, userID, exempt); err != nil {
			return err
		}
		state := "exempt from"
		if !exempt {
			state = "subject to"
		}
		return discord.RespondEphemeral(ctx.Session, ctx.Event, fmt.Sprintf("<@%s> is %s moderation.", userID, state))
	}
	return discord.RespondEphemeral(ctx.Session, ctx.Event, "Unknown subcommand.")
}
