// Package note lets moderators attach private notes to users through a
// user context-menu action that opens a modal. The menu action and the
// modal submission are separate features; the modal's custom ID embeds the
// target user, so it registers a prefix pattern.
package note

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/phunanon/uMod-sub000/internal/access"
	"github.com/phunanon/uMod-sub000/internal/discord"
	"github.com/phunanon/uMod-sub000/internal/feature"
	"github.com/phunanon/uMod-sub000/internal/storage"
)

const modalPrefix = "note-"

// Menu is the "Add Note" user context-menu action; it opens the modal.
type Menu struct{}

func NewMenu() *Menu { return &Menu{} }

func (m *Menu) Name() string { return "note-menu" }

func (m *Menu) Interaction() *feature.Interaction {
	return &feature.Interaction{Name: "Add Note", Access: access.Moderator()}
}

func (m *Menu) ContextDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name: "Add Note",
		Type: discordgo.UserApplicationCommand,
	}
}

func (m *Menu) HandleUserMenu(ctx *feature.InteractionCtx, target *discordgo.User) error {
	if target == nil {
		return discord.RespondEphemeral(ctx.Session, ctx.Event, "No user selected.")
	}
	return ctx.Session.InteractionRespond(ctx.Event.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: modalPrefix + target.ID,
			Title:    "Add note for " + target.Username,
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID:  "text",
						Label:     "Note",
						Style:     discordgo.TextInputParagraph,
						Required:  true,
						MaxLength: 500,
					},
				}},
			},
		},
	})
}

// Modal stores the submitted note. Custom IDs look like "note-<userID>".
type Modal struct{}

func NewModal() *Modal { return &Modal{} }

func (m *Modal) Name() string { return "note-modal" }

func (m *Modal) Interaction() *feature.Interaction {
	return &feature.Interaction{Name: modalPrefix + "*", Access: access.Moderator()}
}

func (m *Modal) HandleModal(ctx *feature.InteractionCtx, customID string) error {
	targetID := strings.TrimPrefix(customID, modalPrefix)
	text := modalText(ctx.Event.ModalSubmitData())
	if targetID == "" || text == "" {
		return discord.RespondEphemeral(ctx.Session, ctx.Event, "Nothing to save.")
	}

	authorID := ""
	if ctx.Event.Member != nil && ctx.Event.Member.User != nil {
		authorID = ctx.Event.Member.User.ID
	}

	err := ctx.Store.AddNote(ctx.Event.GuildID, targetID, storage.Note{
		Text:     text,
		AuthorID: authorID,
		AddedAt:  time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return discord.RespondEphemeral(ctx.Session, ctx.Event,
		fmt.Sprintf("Note saved for <@%s>.", targetID))
}

// modalText pulls the first text input out of a modal submission.
func modalText(data discordgo.ModalSubmitInteractionData) string {
	for _, row := range data.Components {
		actionsRow, ok := row.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, comp := range actionsRow.Components {
			if input, ok := comp.(*discordgo.TextInput); ok {
				return strings.TrimSpace(input.Value)
			}
		}
	}
	return ""
}
