// Package dispatch is the event-dispatch and interaction-routing core. The
// Dispatcher fans platform events out to every feature with per-feature
// isolation and runs the short-circuiting message pipeline; the Router
// resolves one interaction to its single owning feature.
package dispatch

import (
	"log"

	"github.com/bwmarrin/discordgo"

	"github.com/phunanon/uMod-sub000/internal/feature"
	"github.com/phunanon/uMod-sub000/internal/storage"
)

// Dispatcher broadcasts platform events to features in registry order.
// Handlers for one event run strictly sequentially; different events may be
// dispatched concurrently relative to each other (discordgo invokes gateway
// handlers on separate goroutines).
type Dispatcher struct {
	registry *feature.Registry
	store    *storage.Storage
}

// NewDispatcher returns a Dispatcher over the given registry and store.
func NewDispatcher(registry *feature.Registry, store *storage.Storage) *Dispatcher {
	return &Dispatcher{registry: registry, store: store}
}

func (d *Dispatcher) env(s *discordgo.Session) *feature.Env {
	return &feature.Env{Session: s, Store: d.store}
}

// safely invokes one handler with per-feature isolation: a returned error or
// a panic is logged and never reaches the remaining features.
func safely(featureName, event string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[ERR] Feature %s panicked on %s: %v", featureName, event, r)
		}
	}()
	if err := fn(); err != nil {
		log.Printf("[ERR] Feature %s failed on %s: %v", featureName, event, err)
	}
}

// MemberAdd fans out a member-joined event to every feature with the
// capability, unconditionally and in registry order.
func (d *Dispatcher) MemberAdd(s *discordgo.Session, e *discordgo.GuildMemberAdd) {
	env := d.env(s)
	for _, f := range d.registry.All() {
		if h, ok := f.(feature.MemberAddHandler); ok {
			safely(f.Name(), "member add", func() error { return h.MemberAdd(env, e) })
		}
	}
}

// MemberRemove fans out a member-left event.
func (d *Dispatcher) MemberRemove(s *discordgo.Session, e *discordgo.GuildMemberRemove) {
	env := d.env(s)
	for _, f := range d.registry.All() {
		if h, ok := f.(feature.MemberRemoveHandler); ok {
			safely(f.Name(), "member remove", func() error { return h.MemberRemove(env, e) })
		}
	}
}

// MemberUpdate fans out a member-updated event.
func (d *Dispatcher) MemberUpdate(s *discordgo.Session, e *discordgo.GuildMemberUpdate) {
	env := d.env(s)
	for _, f := range d.registry.All() {
		if h, ok := f.(feature.MemberUpdateHandler); ok {
			safely(f.Name(), "member update", func() error { return h.MemberUpdate(env, e) })
		}
	}
}

// ChannelDelete fans out a channel-deleted event.
func (d *Dispatcher) ChannelDelete(s *discordgo.Session, e *discordgo.ChannelDelete) {
	env := d.env(s)
	for _, f := range d.registry.All() {
		if h, ok := f.(feature.ChannelDeleteHandler); ok {
			safely(f.Name(), "channel delete", func() error { return h.ChannelDelete(env, e) })
		}
	}
}

// AuditLogEntry fans out an audit-log-entry-created event.
func (d *Dispatcher) AuditLogEntry(s *discordgo.Session, e *discordgo.GuildAuditLogEntryCreate) {
	env := d.env(s)
	for _, f := range d.registry.All() {
		if h, ok := f.(feature.AuditLogHandler); ok {
			safely(f.Name(), "audit log entry", func() error { return h.AuditLogEntry(env, e) })
		}
	}
}

// MessageCreate runs the message pipeline for a new message.
func (d *Dispatcher) MessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	d.runPipeline(s, m.Message, false, false)
}

// MessageUpdate runs the message pipeline for an edit. Partial gateway
// payloads without an author (embed unfurls and the like) are ignored.
func (d *Dispatcher) MessageUpdate(s *discordgo.Session, m *discordgo.MessageUpdate) {
	if m.Author == nil {
		return
	}
	d.runPipeline(s, m.Message, true, false)
}

// MessageDelete runs the message pipeline for a deletion. The delete payload
// carries only IDs; the original message is recovered from session state
// when still cached, and the pipeline runs with whatever survives.
func (d *Dispatcher) MessageDelete(s *discordgo.Session, m *discordgo.MessageDelete) {
	original := m.BeforeDelete
	if original == nil {
		original = m.Message
	}
	d.runPipeline(s, original, false, true)
}

// runPipeline assembles one MsgCtx and walks the registry until a feature
// returns Stop. Handler errors and panics are logged and treated as Continue.
func (d *Dispatcher) runPipeline(s *discordgo.Session, m *discordgo.Message, isEdit, isDelete bool) {
	if m == nil || m.GuildID == "" {
		return
	}

	authorID := ""
	fromBot := false
	if m.Author != nil {
		authorID = m.Author.ID
		fromBot = m.Author.Bot || (s.State.User != nil && m.Author.ID == s.State.User.ID)
	}
	if authorID == "" && !isDelete {
		return
	}

	if d.store.ChannelUnmoderated(m.GuildID, m.ChannelID) {
		return
	}

	channel, err := s.State.Channel(m.ChannelID)
	if err != nil {
		channel, _ = s.Channel(m.ChannelID)
	}

	ctx := &feature.MsgCtx{
		Env:          feature.Env{Session: s, Store: d.store},
		GuildID:      m.GuildID,
		ChannelID:    m.ChannelID,
		UserID:       authorID,
		MessageID:    m.ID,
		Channel:      channel,
		Message:      m,
		Content:      m.Content,
		IsEdit:       isEdit,
		IsDelete:     isDelete,
		AuthorExempt: authorID != "" && d.store.UserExempt(m.GuildID, authorID),
	}

	for _, f := range d.registry.All() {
		var handle func(*feature.MsgCtx) (feature.Verdict, error)
		if fromBot {
			h, ok := f.(feature.BotMessageHandler)
			if !ok {
				continue
			}
			handle = h.HandleBotMessage
		} else {
			h, ok := f.(feature.MessageHandler)
			if !ok {
				continue
			}
			handle = h.HandleMessage
		}

		if pipelineStep(f.Name(), ctx, handle) == feature.Stop {
			return
		}
	}
}

// pipelineStep invokes one message handler with isolation. A panic or error
// never stops the pipeline; only a clean Stop does.
func pipelineStep(featureName string, ctx *feature.MsgCtx, fn func(*feature.MsgCtx) (feature.Verdict, error)) (verdict feature.Verdict) {
	verdict = feature.Continue
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[ERR] Feature %s panicked on message: %v", featureName, r)
			verdict = feature.Continue
		}
	}()

	v, err := fn(ctx)
	if err != nil {
		log.Printf("[ERR] Feature %s failed on message: %v", featureName, err)
		return feature.Continue
	}
	return v
}
