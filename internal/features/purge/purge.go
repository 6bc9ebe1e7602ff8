// Package purge bulk-deletes recent messages behind a confirmation button.
// The button's custom ID carries the requested count, so the confirm
// feature registers a prefix pattern.
package purge

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/phunanon/uMod-sub000/internal/access"
	"github.com/phunanon/uMod-sub000/internal/discord"
	"github.com/phunanon/uMod-sub000/internal/feature"
)

const (
	confirmPrefix = "purge-confirm-"
	maxPurge      = 100 // platform bulk-delete ceiling
)

// Command is the /purge slash feature.
type Command struct{}

func NewCommand() *Command { return &Command{} }

func (c *Command) Name() string { return "purge" }

func (c *Command) Interaction() *feature.Interaction {
	return &feature.Interaction{Name: "purge", Access: access.Moderator()}
}

func (c *Command) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "purge",
		Description: "Delete recent messages in this channel",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "count",
				Description: "How many messages to delete (max 100)",
				Required:    true,
			},
		},
	}
}

func (c *Command) HandleSlash(ctx *feature.InteractionCtx) error {
	count := int64(0)
	for _, opt := range ctx.Event.ApplicationCommandData().Options {
		if opt.Name == "count" {
			count = opt.IntValue()
		}
	}
	if count < 1 || count > maxPurge {
		return discord.RespondEphemeral(ctx.Session, ctx.Event,
			fmt.Sprintf("Count must be between 1 and %d.", maxPurge))
	}

	return ctx.Session.InteractionRespond(ctx.Event.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("Delete the last %d messages?", count),
			Flags:   discordgo.MessageFlagsEphemeral,
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    "Delete",
						Style:    discordgo.DangerButton,
						CustomID: confirmPrefix + strconv.FormatInt(count, 10),
					},
				}},
			},
		},
	})
}

// ConfirmButton performs the deletion. Custom IDs look like
// "purge-confirm-<count>".
type ConfirmButton struct{}

func NewConfirmButton() *ConfirmButton { return &ConfirmButton{} }

func (b *ConfirmButton) Name() string { return "purge-confirm" }

func (b *ConfirmButton) Interaction() *feature.Interaction {
	return &feature.Interaction{Name: confirmPrefix + "*", Access: access.Moderator()}
}

func (b *ConfirmButton) HandleButton(ctx *feature.InteractionCtx, customID string) error {
	count, err := strconv.Atoi(strings.TrimPrefix(customID, confirmPrefix))
	if err != nil || count < 1 || count > maxPurge {
		return discord.RespondEphemeral(ctx.Session, ctx.Event, "Malformed button.")
	}

	channelID := ctx.Event.ChannelID
	messages, err := ctx.Session.ChannelMessages(channelID, count, "", "", "")
	if err != nil {
		return fmt.Errorf("list messages: %w", err)
	}

	ids := make([]string, 0, len(messages))
	for _, m := range messages {
		ids = append(ids, m.ID)
	}
	if len(ids) > 0 {
		if err := ctx.Session.ChannelMessagesBulkDelete(channelID, ids); err != nil {
			return fmt.Errorf("bulk delete: %w", err)
		}
	}
	return discord.RespondEphemeral(ctx.Session, ctx.Event,
		fmt.Sprintf("Deleted %d messages.", len(ids)))
}
