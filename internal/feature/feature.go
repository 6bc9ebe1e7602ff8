// Package feature defines the contracts between the dispatch core and the
// pluggable feature modules: what a feature is, which event capabilities it
// may implement, and how it describes its interaction surface.
package feature

import (
	"github.com/bwmarrin/discordgo"

	"github.com/phunanon/uMod-sub000/internal/access"
	"github.com/phunanon/uMod-sub000/internal/storage"
)

// Feature is one pluggable unit of bot behavior. Everything beyond the name
// is an optional capability interface, checked once when the registry is
// built.
type Feature interface {
	Name() string
}

// Env carries the shared collaborators passed to every handler.
type Env struct {
	Session *discordgo.Session
	Store   *storage.Storage
}

// Verdict is the message-pipeline result. Stop halts dispatch of the event
// to features later in registry order; Continue does not. This is deliberate
// short-circuiting, not an error path.
type Verdict int

const (
	Continue Verdict = iota
	Stop
)

// Fan-out event capabilities. Every feature implementing one of these is
// invoked for the matching event, in registry order, regardless of what
// earlier features did.

type MemberAddHandler interface {
	MemberAdd(env *Env, e *discordgo.GuildMemberAdd) error
}

type MemberRemoveHandler interface {
	MemberRemove(env *Env, e *discordgo.GuildMemberRemove) error
}

type MemberUpdateHandler interface {
	MemberUpdate(env *Env, e *discordgo.GuildMemberUpdate) error
}

type ChannelDeleteHandler interface {
	ChannelDelete(env *Env, e *discordgo.ChannelDelete) error
}

type AuditLogHandler interface {
	AuditLogEntry(env *Env, e *discordgo.GuildAuditLogEntryCreate) error
}

// MsgCtx is the per-event context for the message pipeline, assembled once
// per incoming create/edit/delete and shared by every handler in the chain.
type MsgCtx struct {
	Env

	GuildID   string
	ChannelID string
	UserID    string
	MessageID string

	Channel *discordgo.Channel
	Message *discordgo.Message
	Content string

	// IsEdit and IsDelete distinguish the mutation kind; for deletes,
	// Content holds the original text when the platform still had it.
	IsEdit   bool
	IsDelete bool

	// AuthorExempt is precomputed once per event: the acting user has been
	// excluded from moderation in this guild.
	AuthorExempt bool
}

// MessageHandler is the generic message-pipeline capability, invoked for
// every message create/edit/delete in a moderated channel.
type MessageHandler interface {
	HandleMessage(ctx *MsgCtx) (Verdict, error)
}

// BotMessageHandler opts a feature into messages authored by bots (including
// this one), which the pipeline otherwise skips.
type BotMessageHandler interface {
	HandleBotMessage(ctx *MsgCtx) (Verdict, error)
}

// Interaction describes a feature's single UI affordance. Name is matched
// against the incoming identifying name either literally or, with a trailing
// "*", as a prefix (for custom IDs embedding a dynamic suffix).
type Interaction struct {
	Name   string
	Access access.Access
}

// Interactive marks a feature as owning an interaction. The feature must
// implement exactly one of the handler-variant interfaces below; the
// registry enforces this at construction.
type Interactive interface {
	Feature
	Interaction() *Interaction
}

// InteractionCtx is the per-invocation context handed to interaction
// handlers. Handlers own acknowledgement: the platform expects a response
// within a few seconds, so slow work must defer first.
type InteractionCtx struct {
	Env
	Event *discordgo.InteractionCreate
}

// Handler variants, one per interaction subtype.

type SlashHandler interface {
	HandleSlash(ctx *InteractionCtx) error
}

type ButtonHandler interface {
	HandleButton(ctx *InteractionCtx, customID string) error
}

type SelectHandler interface {
	HandleSelect(ctx *InteractionCtx, customID string, values []string) error
}

type ModalHandler interface {
	HandleModal(ctx *InteractionCtx, customID string) error
}

type UserMenuHandler interface {
	HandleUserMenu(ctx *InteractionCtx, target *discordgo.User) error
}

type MessageMenuHandler interface {
	HandleMessageMenu(ctx *InteractionCtx, target *discordgo.Message) error
}

// SlashProvider supplies the slash-command schema registered with the
// platform at startup. Context-menu features use ContextMenuProvider instead.
type SlashProvider interface {
	SlashDefinition() *discordgo.ApplicationCommand
}

type ContextMenuProvider interface {
	ContextDefinition() *discordgo.ApplicationCommand
}
