// Package discord wires the gateway session into the dispatch core: it
// subscribes the Dispatcher and Router to live events and registers each
// feature's command surface with the platform at startup.
package discord

import (
	"context"
	"fmt"
	"log"
	"slices"

	"github.com/bwmarrin/discordgo"

	"github.com/phunanon/uMod-sub000/internal/access"
	"github.com/phunanon/uMod-sub000/internal/config"
	"github.com/phunanon/uMod-sub000/internal/dispatch"
	"github.com/phunanon/uMod-sub000/internal/feature"
	"github.com/phunanon/uMod-sub000/internal/storage"
	"github.com/phunanon/uMod-sub000/internal/version"
)

// Bot owns the Discord session and the dispatch core.
type Bot struct {
	dg         *discordgo.Session
	cfg        *config.Config
	store      *storage.Storage
	registry   *feature.Registry
	dispatcher *dispatch.Dispatcher
	router     *dispatch.Router
	registrar  *registrar
}

// NewBot assembles a bot over an already-validated registry.
func NewBot(cfg *config.Config, store *storage.Storage, registry *feature.Registry) *Bot {
	return &Bot{
		cfg:        cfg,
		store:      store,
		registry:   registry,
		dispatcher: dispatch.NewDispatcher(registry, store),
		router:     dispatch.NewRouter(registry, store, access.NewResolver(store), responder{}),
		registrar:  newRegistrar(registry),
	}
}

// Run opens the session and blocks until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	dg, err := discordgo.New("Bot " + b.cfg.DiscordToken)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	b.dg = dg
	b.registrar.dg = dg

	b.configureIntents()
	dg.AddHandler(b.onReady)
	dg.AddHandler(b.onGuildCreate)
	dg.AddHandler(b.onMessageCreate)
	dg.AddHandler(b.onMessageUpdate)
	dg.AddHandler(b.onMessageDelete)
	dg.AddHandler(b.onGuildMemberAdd)
	dg.AddHandler(b.onGuildMemberRemove)
	dg.AddHandler(b.onGuildMemberUpdate)
	dg.AddHandler(b.onChannelDelete)
	dg.AddHandler(b.onAuditLogEntry)
	dg.AddHandler(b.onInteractionCreate)

	if err := dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer dg.Close()

	go b.registrar.run(ctx)

	<-ctx.Done()
	log.Println("[INFO] Shutdown signal received. Cleaning up...")
	return nil
}

func (b *Bot) configureIntents() {
	b.dg.Identify.Intents = discordgo.IntentsAll
}

func (b *Bot) isGuildBlacklisted(guildID string) bool {
	return slices.Contains(b.cfg.GuildBlacklist, guildID)
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	for _, g := range r.Guilds {
		if b.isGuildBlacklisted(g.ID) {
			log.Printf("[INFO] Leaving blacklisted guild: %s", g.ID)
			if err := s.GuildLeave(g.ID); err != nil {
				log.Printf("[ERR] Failed to leave guild %s: %v", g.ID, err)
			}
			continue
		}
		if b.cfg.InitSlashCommands {
			b.registrar.enqueueGuild(g.ID)
		}
	}
	if !b.cfg.InitSlashCommands {
		log.Println("[INFO] Command registration skipped")
	}
	log.Printf("[INFO] %s is running (%d features)", version.AppName, b.registry.Len())
}

func (b *Bot) onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	if b.isGuildBlacklisted(g.Guild.ID) {
		log.Printf("[INFO] Leaving blacklisted guild: %s (%s)", g.Guild.ID, g.Guild.Name)
		if err := s.GuildLeave(g.Guild.ID); err != nil {
			log.Printf("[ERR] Failed to leave guild %s: %v", g.Guild.ID, err)
		}
		return
	}
	if b.cfg.InitSlashCommands {
		b.registrar.enqueueGuild(g.Guild.ID)
	}
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	b.dispatcher.MessageCreate(s, m)
}

func (b *Bot) onMessageUpdate(s *discordgo.Session, m *discordgo.MessageUpdate) {
	b.dispatcher.MessageUpdate(s, m)
}

func (b *Bot) onMessageDelete(s *discordgo.Session, m *discordgo.MessageDelete) {
	b.dispatcher.MessageDelete(s, m)
}

func (b *Bot) onGuildMemberAdd(s *discordgo.Session, e *discordgo.GuildMemberAdd) {
	b.dispatcher.MemberAdd(s, e)
}

func (b *Bot) onGuildMemberRemove(s *discordgo.Session, e *discordgo.GuildMemberRemove) {
	b.dispatcher.MemberRemove(s, e)
}

func (b *Bot) onGuildMemberUpdate(s *discordgo.Session, e *discordgo.GuildMemberUpdate) {
	b.dispatcher.MemberUpdate(s, e)
}

func (b *Bot) onChannelDelete(s *discordgo.Session, e *discordgo.ChannelDelete) {
	b.dispatcher.ChannelDelete(s, e)
}

func (b *Bot) onAuditLogEntry(s *discordgo.Session, e *discordgo.GuildAuditLogEntryCreate) {
	b.dispatcher.AuditLogEntry(s, e)
}

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	b.router.Handle(s, i)
}
