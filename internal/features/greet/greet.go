// Package greet posts configurable messages when members join or leave.
// Templates may contain {user}, replaced with a mention (on join) or the
// username (on leave, when the mention would no longer resolve).
package greet

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/phunanon/uMod-sub000/internal/access"
	"github.com/phunanon/uMod-sub000/internal/discord"
	"github.com/phunanon/uMod-sub000/internal/feature"
)

// Welcome greets new members and owns the /welcome configuration command.
type Welcome struct{}

func NewWelcome() *Welcome { return &Welcome{} }

func (w *Welcome) Name() string { return "welcome" }

func (w *Welcome) MemberAdd(env *feature.Env, e *discordgo.GuildMemberAdd) error {
	channelID, message := env.Store.Welcome(e.GuildID)
	if channelID == "" || message == "" {
		return nil
	}
	text := strings.ReplaceAll(message, "{user}", fmt.Sprintf("<@%s>", e.User.ID))
	_, err := env.Session.ChannelMessageSend(channelID, text)
	return err
}

func (w *Welcome) Interaction() *feature.Interaction {
	return &feature.Interaction{Name: "welcome", Access: access.Moderator()}
}

func (w *Welcome) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "welcome",
		Description: "Configure join and leave messages",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionChannel,
				Name:        "channel",
				Description: "Channel for greetings",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "message",
				Description: "Join message; {user} becomes a mention",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "farewell",
				Description: "Leave message; {user} becomes the username",
			},
		},
	}
}

func (w *Welcome) HandleSlash(ctx *feature.InteractionCtx) error {
	var channelID, message, farewell string
	for _, opt := range ctx.Event.ApplicationCommandData().Options {
		switch opt.Name {
		case "channel":
			channelID, _ = opt.Value.(string)
		case "message":
			message = opt.StringValue()
		case "farewell":
			farewell = opt.StringValue()
		}
	}

	guildID := ctx.Event.GuildID
	if err := ctx.Store.SetWelcome(guildID, channelID, message); err != nil {
		return err
	}
	if farewell != "" {
		if err := ctx.Store.SetFarewell(guildID, farewell); err != nil {
			return err
		}
	}
	return discord.RespondEphemeral(ctx.Session, ctx.Event,
		fmt.Sprintf("Greetings will be posted in <#%s>.", channelID))
}

// Farewell posts the configured message when a member leaves.
type Farewell struct{}

func NewFarewell() *Farewell { return &Farewell{} }

func (f *Farewell) Name() string { return "farewell" }

func (f *Farewell) MemberRemove(env *feature.Env, e *discordgo.GuildMemberRemove) error {
	channelID, message := env.Store.Farewell(e.GuildID)
	if channelID == "" || message == "" {
		return nil
	}
	text := strings.ReplaceAll(message, "{user}", e.User.Username)
	_, err := env.Session.ChannelMessageSend(channelID, text)
	return err
}
