// Package spam applies burst and repeat heuristics to the message pipeline.
// Its sliding window of recent messages is private feature state: entries
// older than the window are swept on every insert, so no background task or
// coordination with the core is needed.
package spam

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/phunanon/uMod-sub000/internal/feature"
)

const (
	window        = 10 * time.Second
	burstLimit    = 5 // messages inside the window
	repeatLimit   = 3 // identical messages inside the window
	minRepeatSize = 6 // ignore very short repeats ("ok", "lol")
)

type entry struct {
	content string
	at      time.Time
}

type Feature struct {
	mu     sync.Mutex
	recent map[string][]entry // guildID:userID -> recent messages
	now    func() time.Time
}

func New() *Feature {
	return &Feature{recent: make(map[string][]entry), now: time.Now}
}

func (f *Feature) Name() string { return "spam" }

func (f *Feature) HandleMessage(ctx *feature.MsgCtx) (feature.Verdict, error) {
	if ctx.IsDelete || ctx.IsEdit || ctx.AuthorExempt {
		return feature.Continue, nil
	}

	if !f.record(ctx.GuildID, ctx.UserID, ctx.Content) {
		return feature.Continue, nil
	}

	if err := ctx.Session.ChannelMessageDelete(ctx.ChannelID, ctx.MessageID); err != nil {
		return feature.Continue, fmt.Errorf("delete spam message: %w", err)
	}
	notice := fmt.Sprintf("<@%s>, slow down.", ctx.UserID)
	if _, err := ctx.Session.ChannelMessageSend(ctx.ChannelID, notice); err != nil {
		log.Printf("[WARN] Spam notice failed: %v", err)
	}
	return feature.Stop, nil
}

// record inserts one message into the user's window, sweeps expired entries,
// and reports whether the heuristics tripped.
func (f *Feature) record(guildID, userID, content string) bool {
	key := guildID + ":" + userID
	now := f.now()
	cutoff := now.Add(-window)

	f.mu.Lock()
	defer f.mu.Unlock()

	kept := f.recent[key][:0]
	for _, e := range f.recent[key] {
		if e.at.After(cutoff) {
			kept = append(kept, e)
		}
	}
	kept = append(kept, entry{content: content, at: now})
	f.recent[key] = kept

	if len(kept) >= burstLimit {
		f.recent[key] = nil
		return true
	}
	if len(content) >= minRepeatSize {
		repeats := 0
		for _, e := range kept {
			if e.content == content {
				repeats++
			}
		}
		if repeats >= repeatLimit {
			f.recent[key] = nil
			return true
		}
	}
	return false
}
