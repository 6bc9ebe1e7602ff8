// Package warn records moderation warnings. The slash command and the
// clear button are separate features: each interaction descriptor services
// exactly one UI affordance, and the button's custom ID embeds the target
// user, so it registers a prefix pattern.
package warn

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/phunanon/uMod-sub000/internal/access"
	"github.com/phunanon/uMod-sub000/internal/discord"
	"github.com/phunanon/uMod-sub000/internal/feature"
	"github.com/phunanon/uMod-sub000/internal/storage"
)

const clearPrefix = "warn-clear-"

// Command is the /warn slash feature.
type Command struct{}

func NewCommand() *Command { return &Command{} }

func (c *Command) Name() string { return "warn" }

func (c *Command) Interaction() *feature.Interaction {
	return &feature.Interaction{Name: "warn", Access: access.Moderator()}
}

func (c *Command) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "warn",
		Description: "Warn a member",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "user",
				Description: "Member to warn",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "reason",
				Description: "Why they are being warned",
				Required:    true,
			},
		},
	}
}

func (c *Command) HandleSlash(ctx *feature.InteractionCtx) error {
	data := ctx.Event.ApplicationCommandData()

	var targetID, reason string
	for _, opt := range data.Options {
		switch opt.Name {
		case "user":
			targetID, _ = opt.Value.(string)
		case "reason":
			reason = opt.StringValue()
		}
	}
	if targetID == "" {
		return discord.RespondEphemeral(ctx.Session, ctx.Event, "No member selected.")
	}

	moderatorID := ""
	if ctx.Event.Member != nil && ctx.Event.Member.User != nil {
		moderatorID = ctx.Event.Member.User.ID
	}

	total, err := ctx.Store.AddWarning(ctx.Event.GuildID, targetID, storage.Warning{
		Reason:      reason,
		ModeratorID: moderatorID,
		IssuedAt:    time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	notifyUser(ctx.Session, targetID, reason)

	return discord.RespondEmbedWithButton(ctx.Session, ctx.Event,
		&discordgo.MessageEmbed{
			Title:       "Warning issued",
			Description: fmt.Sprintf("<@%s> warned: %s\nThey now have %d warning(s).", targetID, reason, total),
		},
		discordgo.Button{
			Label:    "Clear warnings",
			Style:    discordgo.DangerButton,
			CustomID: clearPrefix + targetID,
		})
}

// notifyUser DMs the warned member. Closed DMs are a silent best-effort skip.
func notifyUser(s *discordgo.Session, userID, reason string) {
	channel, err := s.UserChannelCreate(userID)
	if err != nil {
		log.Printf("[WARN] Can't open DM with %s: %v", userID, err)
		return
	}
	if _, err := s.ChannelMessageSend(channel.ID, "You have been warned: "+reason); err != nil {
		log.Printf("[WARN] Can't DM %s: %v", userID, err)
	}
}

// ClearButton clears a user's warnings. Custom IDs look like
// "warn-clear-<userID>".
type ClearButton struct{}

func NewClearButton() *ClearButton { return &ClearButton{} }

func (b *ClearButton) Name() string { return "warn-clear" }

func (b *ClearButton) Interaction() *feature.Interaction {
	return &feature.Interaction{Name: clearPrefix + "*", Access: access.Moderator()}
}

func (b *ClearButton) HandleButton(ctx *feature.InteractionCtx, customID string) error {
	targetID := strings.TrimPrefix(customID, clearPrefix)
	if targetID == "" {
		return discord.RespondEphemeral(ctx.Session, ctx.Event, "Malformed button.")
	}
	if err := ctx.Store.ClearWarnings(ctx.Event.GuildID, targetID); err != nil {
		return err
	}
	return discord.Respond(ctx.Session, ctx.Event, fmt.Sprintf("Warnings cleared for <@%s>.", targetID))
}
