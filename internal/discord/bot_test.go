package discord

import (
	"path/filepath"
	"testing"

	"github.com/bwmarrin/discordgo"

	"github.com/phunanon/uMod-sub000/internal/config"
	"github.com/phunanon/uMod-sub000/internal/feature"
	"github.com/phunanon/uMod-sub000/internal/storage"
)

func testBot(t *testing.T, cfg *config.Config) *Bot {
	t.Helper()
	store, err := storage.New(filepath.Join(t.TempDir(), "store.json"))
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	reg, err := feature.NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	b := NewBot(cfg, store, reg)
	b.registrar.cacheDir = t.TempDir()
	return b
}

func TestGuildCreateHonorsRegistrationFlag(t *testing.T) {
	guild := &discordgo.GuildCreate{Guild: &discordgo.Guild{ID: "100"}}

	b := testBot(t, &config.Config{InitSlashCommands: false})
	b.onGuildCreate(&discordgo.Session{}, guild)
	if len(b.registrar.pending) != 0 {
		t.Fatalf("registration scheduled with INIT_SLASH_COMMANDS=false, pending = %v", b.registrar.pending)
	}

	b = testBot(t, &config.Config{InitSlashCommands: true})
	b.onGuildCreate(&discordgo.Session{}, guild)
	if len(b.registrar.pending) != 1 {
		t.Fatalf("registration not scheduled with INIT_SLASH_COMMANDS=true, pending = %v", b.registrar.pending)
	}
}
