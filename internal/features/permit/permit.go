// Package permit manages the named-permission grants consulted by the
// access resolver: per-guild, per-role permission strings, with "*" granting
// a role everything.
package permit

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/phunanon/uMod-sub000/internal/access"
	"github.com/phunanon/uMod-sub000/internal/discord"
	"github.com/phunanon/uMod-sub000/internal/feature"
)

type Feature struct{}

func New() *Feature { return &Feature{} }

func (f *Feature) Name() string { return "permit" }

func (f *Feature) Interaction() *feature.Interaction {
	return &feature.Interaction{Name: "permit", Access: access.Moderator()}
}

func (f *Feature) SlashDefinition() *discordgo.ApplicationCommand {
	roleOpt := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionRole,
		Name:        "role",
		Description: "Role to change",
		Required:    true,
	}
	nameOpt := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "name",
		Description: "Permit name, or * for all features",
		Required:    true,
	}
	return &discordgo.ApplicationCommand{
		Name:        "permit",
		Description: "Delegate feature access to roles",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "grant",
				Description: "Grant a permit to a role",
				Options:     []*discordgo.ApplicationCommandOption{roleOpt, nameOpt},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "revoke",
				Description: "Revoke a permit from a role",
				Options:     []*discordgo.ApplicationCommandOption{roleOpt, nameOpt},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "list",
				Description: "Show all permits in this server",
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
	case "grant", "revoke":
		var roleID, name string
		for _, opt := range sub.Options {
			switch opt.Name {
			case "role":
				roleID, _ = opt.Value.(string)
			case "name":
				name = strings.ToLower(strings.TrimSpace(opt.StringValue()))
			}
		}
		if roleID == "" || name == "" {
			return discord.RespondEphemeral(ctx.Session, ctx.Event, "Role and permit name are required.")
		}

		if sub.Name == "grant" {
			if err := ctx.Store.GrantPermit(guildID, roleID, name); err != nil {
				return err
			}
			return discord.RespondEphemeral(ctx.Session, ctx.Event,
				fmt.Sprintf("Granted %q to <@&%s>.", name, roleID))
		}
		if err := ctx.Store.RevokePermit(guildID, roleID, name); err != nil {
			return err
		}
		return discord.RespondEphemeral(ctx.Session, ctx.Event,
			fmt.Sprintf("Revoked %q from <@&%s>.", name, roleID))

	case "list":
		permits, err := ctx.Store.AllPermits(guildID)
		if err != nil {
			return err
		}
		if len(permits) == 0 {
			return discord.RespondEphemeral(ctx.Session, ctx.Event, "No permits configured.")
		}
		var sb strings.Builder
		for roleID, names := range permits {
			fmt.Fprintf(&sb, "<@&%s>: %s\n", roleID, strings.Join(names, ", "))
		}
		return discord.RespondEmbedEphemeral(ctx.Session, ctx.Event, &discordgo.MessageEmbed{
			Title:       "Permits",
			Description: sb.String(),
		})
	}
	return discord.RespondEphemeral(ctx.Session, ctx.Event, "Unknown subcommand.")
}
