package dispatch

import (
	"log"

	"github.com/bwmarrin/discordgo"

	"github.com/phunanon/uMod-sub000/internal/access"
	"github.com/phunanon/uMod-sub000/internal/feature"
	"github.com/phunanon/uMod-sub000/internal/storage"
)

// Authorizer decides whether a caller may use a matched feature.
// access.Resolver is the production implementation.
type Authorizer interface {
	Allow(s *discordgo.Session, guildID string, member *discordgo.Member, a access.Access) bool
}

// Replier sends the router's own user-facing replies (routing miss,
// authorization denial). Matched handlers acknowledge for themselves; the
// router never replies on their behalf.
type Replier interface {
	Ephemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) error
}

const (
	replyNotFound  = "That command isn't available."
	replyForbidden = "You must be a moderator to do that."
)

// Router resolves a single interaction to exactly one owning feature,
// authorizes it, and invokes the handler variant matching the interaction
// subtype.
type Router struct {
	registry *feature.Registry
	store    *storage.Storage
	auth     Authorizer
	replier  Replier
}

// NewRouter returns a Router over the given registry.
func NewRouter(registry *feature.Registry, store *storage.Storage, auth Authorizer, replier Replier) *Router {
	return &Router{registry: registry, store: store, auth: auth, replier: replier}
}

// Resolve returns the first feature in registry order whose interaction
// pattern matches name, exactly or by prefix. First match wins; colliding
// patterns resolve by registry order alone.
func (r *Router) Resolve(name string) (feature.Interactive, bool) {
	for _, f := range r.registry.All() {
		in, ok := f.(feature.Interactive)
		if !ok {
			continue
		}
		if feature.Matches(in.Interaction().Name, name) {
			return in, true
		}
	}
	return nil, false
}

// Handle routes one incoming interaction. Unrecognized interaction types
// (pings, autocomplete) are ignored.
func (r *Router) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) {
	name, ok := identifyingName(i)
	if !ok {
		return
	}

	owner, found := r.Resolve(name)
	if !found {
		// Expected with stale buttons from removed features; not an error.
		if err := r.replier.Ephemeral(s, i, replyNotFound); err != nil {
			log.Printf("[WARN] Failed to send not-found reply: %v", err)
		}
		return
	}

	if !r.auth.Allow(s, i.GuildID, i.Member, owner.Interaction().Access) {
		if err := r.replier.Ephemeral(s, i, replyForbidden); err != nil {
			log.Printf("[WARN] Failed to send rejection reply: %v", err)
		}
		return
	}

	ctx := &feature.InteractionCtx{
		Env:   feature.Env{Session: s, Store: r.store},
		Event: i,
	}
	r.invoke(owner, ctx, name, i)
}

// invoke calls the handler variant matching the interaction subtype. A
// matched feature lacking the required variant is a programming error:
// logged, no user reply.
func (r *Router) invoke(owner feature.Interactive, ctx *feature.InteractionCtx, name string, i *discordgo.InteractionCreate) {
	var err error
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		data := i.ApplicationCommandData()
		switch data.CommandType {
		case discordgo.UserApplicationCommand:
			h, ok := owner.(feature.UserMenuHandler)
			if !ok {
				r.mismatch(owner, "user context menu", name)
				return
			}
			var target *discordgo.User
			if data.Resolved != nil {
				target = data.Resolved.Users[data.TargetID]
			}
			err = h.HandleUserMenu(ctx, target)
		case discordgo.MessageApplicationCommand:
			h, ok := owner.(feature.MessageMenuHandler)
			if !ok {
				r.mismatch(owner, "message context menu", name)
				return
			}
			var target *discordgo.Message
			if data.Resolved != nil {
				target = data.Resolved.Messages[data.TargetID]
			}
			err = h.HandleMessageMenu(ctx, target)
		default:
			h, ok := owner.(feature.SlashHandler)
			if !ok {
				r.mismatch(owner, "slash command", name)
				return
			}
			err = h.HandleSlash(ctx)
		}

	case discordgo.InteractionMessageComponent:
		data := i.MessageComponentData()
		switch data.ComponentType {
		case discordgo.SelectMenuComponent:
			h, ok := owner.(feature.SelectHandler)
			if !ok {
				r.mismatch(owner, "select menu", name)
				return
			}
			err = h.HandleSelect(ctx, data.CustomID, data.Values)
		default:
			h, ok := owner.(feature.ButtonHandler)
			if !ok {
				r.mismatch(owner, "button", name)
				return
			}
			err = h.HandleButton(ctx, data.CustomID)
		}

	case discordgo.InteractionModalSubmit:
		h, ok := owner.(feature.ModalHandler)
		if !ok {
			r.mismatch(owner, "modal submit", name)
			return
		}
		err = h.HandleModal(ctx, i.ModalSubmitData().CustomID)

	default:
		return
	}

	if err != nil {
		log.Printf("[ERR] Feature %s failed handling %q: %v", owner.Name(), name, err)
	}
}

func (r *Router) mismatch(owner feature.Interactive, subtype, name string) {
	log.Printf("[WARN] Feature %s matched %q but has no %s handler", owner.Name(), name, subtype)
}

// identifyingName extracts the name an interaction is routed by: the command
// name for application commands, the custom ID for components and modals.
func identifyingName(i *discordgo.InteractionCreate) (string, bool) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		return i.ApplicationCommandData().Name, true
	case discordgo.InteractionMessageComponent:
		return i.MessageComponentData().CustomID, true
	case discordgo.InteractionModalSubmit:
		return i.ModalSubmitData().CustomID, true
	default:
		return "", false
	}
}
