// Package roles provides a self-assign role menu: moderators curate the
// entries and post the menu; any member may pick from it. The select menu
// and its management command are separate features.
package roles

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/phunanon/uMod-sub000/internal/access"
	"github.com/phunanon/uMod-sub000/internal/discord"
	"github.com/phunanon/uMod-sub000/internal/feature"
	"github.com/phunanon/uMod-sub000/internal/storage"
)

const pickerID = "roles-pick"

// Setup is the /roles management command.
type Setup struct{}

func NewSetup() *Setup { return &Setup{} }

func (s *Setup) Name() string { return "roles" }

func (s *Setup) Interaction() *feature.Interaction {
	return &feature.Interaction{Name: "roles", Access: access.Moderator()}
}

func (s *Setup) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "roles",
		Description: "Manage the self-assign role menu",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "add",
				Description: "Add a role to the menu",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionRole,
						Name:        "role",
						Description: "Role members may assign themselves",
						Required:    true,
					},
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "label",
						Description: "Menu label (defaults to the role name)",
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "remove",
				Description: "Remove a role from the menu",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionRole,
						Name:        "role",
						Description: "Role to remove",
						Required:    true,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "post",
				Description: "Post the role menu in this channel",
			},
		},
	}
}

func (s *Setup) HandleSlash(ctx *feature.InteractionCtx) error {
	data := ctx.Event.ApplicationCommandData()
	if len(data.Options) == 0 {
		return discord.RespondEphemeral(ctx.Session, ctx.Event, "Nothing to do.")
	}
	sub := data.Options[0]
	guildID := ctx.Event.GuildID

	switch sub.Name {
	case "add":
		var roleID, label string
		for _, opt := range sub.Options {
			switch opt.Name {
			case "role":
				roleID, _ = opt.Value.(string)
			case "label":
				label = opt.StringValue()
			}
		}
		if label == "" {
			if role, err := ctx.Session.State.Role(guildID, roleID); err == nil && role != nil {
				label = role.Name
			} else {
				label = roleID
			}
		}
		if err := ctx.Store.AddSelfRole(guildID, storage.SelfRole{RoleID: roleID, Label: label}); err != nil {
			return err
		}
		return discord.RespondEphemeral(ctx.Session, ctx.Event,
			fmt.Sprintf("<@&%s> added to the menu as %q.", roleID, label))

	case "remove":
		var roleID string
		for _, opt := range sub.Options {
			if opt.Name == "role" {
				roleID, _ = opt.Value.(string)
			}
		}
		if err := ctx.Store.RemoveSelfRole(guildID, roleID); err != nil {
			return err
		}
		return discord.RespondEphemeral(ctx.Session, ctx.Event,
			fmt.Sprintf("<@&%s> removed from the menu.", roleID))

	case "post":
		entries := ctx.Store.SelfRoles(guildID)
		if len(entries) == 0 {
			return discord.RespondEphemeral(ctx.Session, ctx.Event, "The role menu is empty; add roles first.")
		}
		options := make([]discordgo.SelectMenuOption, 0, len(entries))
		for _, e := range entries {
			options = append(options, discordgo.SelectMenuOption{Label: e.Label, Value: e.RoleID})
		}
		return ctx.Session.InteractionRespond(ctx.Event.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content: "Pick your roles:",
				Components: []discordgo.MessageComponent{
					discordgo.ActionsRow{Components: []discordgo.MessageComponent{
						discordgo.SelectMenu{
							MenuType:    discordgo.StringSelectMenu,
							CustomID:    pickerID,
							Placeholder: "Choose a role",
							Options:     options,
						},
					}},
				},
			},
		})
	}
	return discord.RespondEphemeral(ctx.Session, ctx.Event, "Unknown subcommand.")
}

// Picker assigns the chosen role. Unrestricted: the menu only ever offers
// roles a moderator put there.
type Picker struct{}

func NewPicker() *Picker { return &Picker{} }

func (p *Picker) Name() string { return "roles-picker" }

func (p *Picker) Interaction() *feature.Interaction {
	return &feature.Interaction{Name: pickerID}
}

func (p *Picker) HandleSelect(ctx *feature.InteractionCtx, customID string, values []string) error {
	if len(values) == 0 || ctx.Event.Member == nil || ctx.Event.Member.User == nil {
		return discord.RespondEphemeral(ctx.Session, ctx.Event, "Nothing selected.")
	}
	roleID := values[0]
	userID := ctx.Event.Member.User.ID

	// Only roles still in the configured menu may be self-assigned; a stale
	// menu message must not hand out arbitrary roles.
	allowed := false
	for _, e := range ctx.Store.SelfRoles(ctx.Event.GuildID) {
		if e.RoleID == roleID {
			allowed = true
			break
		}
	}
	if !allowed {
		return discord.RespondEphemeral(ctx.Session, ctx.Event, "That role is no longer available.")
	}

	if err := ctx.Session.GuildMemberRoleAdd(ctx.Event.GuildID, userID, roleID); err != nil {
		return fmt.Errorf("assign role: %w", err)
	}
	return discord.RespondEphemeral(ctx.Session, ctx.Event,
		fmt.Sprintf("You now have <@&%s>.", roleID))
}
