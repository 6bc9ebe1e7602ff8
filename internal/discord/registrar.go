package discord

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/time/rate"

	"github.com/phunanon/uMod-sub000/internal/feature"
)

// registrar keeps each guild's registered command set in sync with the
// feature set, one platform call per second so a large feature set never
// trips the API rate limits. Command schemas are fingerprinted and the
// hashes cached on disk: unchanged commands are skipped on restart, and
// commands no feature defines anymore are deleted. Guilds sync once for the
// life of the process; a command whose registration fails is logged and
// skipped without blocking the rest.
type registrar struct {
	dg       *discordgo.Session
	registry *feature.Registry
	limiter  *rate.Limiter
	cacheDir string

	mu      sync.Mutex
	pending []string // guilds awaiting a sync
	queue   []regJob
	done    map[string]bool // guild IDs already scheduled

	// hashes is touched only by the run goroutine after a guild's sync.
	hashes map[string]map[string]string // guildID -> command name -> hash
}

type regJob struct {
	guildID string
	def     *discordgo.ApplicationCommand
	hash    string
}

func newRegistrar(registry *feature.Registry) *registrar {
	return &registrar{
		registry: registry,
		limiter:  rate.NewLimiter(rate.Every(time.Second), 1),
		cacheDir: filepath.Join("data", "commands"),
		done:     make(map[string]bool),
		hashes:   make(map[string]map[string]string),
	}
}

// enqueueGuild schedules a command sync for a guild, once per process.
func (r *registrar) enqueueGuild(guildID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done[guildID] {
		return
	}
	r.done[guildID] = true
	r.pending = append(r.pending, guildID)
}

// run drains syncs and registrations at the limiter's pace. When the
// application handle is not available yet, work stays queued and is retried
// on the next tick.
func (r *registrar) run(ctx context.Context) {
	for {
		if err := r.limiter.Wait(ctx); err != nil {
			return
		}

		appID := r.applicationID()
		if appID == "" {
			// Session not ready; retry on the next tick.
			continue
		}

		if job, ok := r.nextJob(); ok {
			if _, err := r.dg.ApplicationCommandCreate(appID, job.guildID, job.def); err != nil {
				log.Printf("[ERR] [%s] Can't register command %s: %v", job.guildID, job.def.Name, err)
			} else {
				r.recordHash(job.guildID, job.def.Name, job.hash)
				log.Printf("[DONE] [%s] Command registered: %s", job.guildID, job.def.Name)
			}
			continue
		}

		if guildID, ok := r.nextGuild(); ok {
			r.syncGuild(appID, guildID)
		}
	}
}

// syncGuild diffs the guild's commands against the feature set: obsolete
// commands are deleted immediately, changed or new ones are queued for the
// rate-limited create loop, unchanged ones are left alone.
func (r *registrar) syncGuild(appID, guildID string) {
	existing, err := r.dg.ApplicationCommands(appID, guildID)
	if err != nil {
		log.Printf("[WARN] [%s] Can't list registered commands: %v", guildID, err)
	}

	cached := r.loadHashes(guildID)
	jobs, wanted := r.pendingJobs(guildID, cached)

	for _, old := range existing {
		if _, ok := wanted[old.Name]; ok {
			continue
		}
		log.Printf("[INFO] [%s] Deleting obsolete command: %s", guildID, old.Name)
		if err := r.dg.ApplicationCommandDelete(appID, guildID, old.ID); err != nil {
			log.Printf("[ERR] [%s] Can't delete command %s: %v", guildID, old.Name, err)
		}
		delete(cached, old.Name)
	}

	r.hashes[guildID] = cached
	r.saveHashes(guildID, cached)

	if len(jobs) == 0 {
		log.Printf("[INFO] [%s] Commands already up to date", guildID)
		return
	}

	r.mu.Lock()
	r.queue = append(r.queue, jobs...)
	r.mu.Unlock()
	log.Printf("[INFO] [%s] Queued %d command registrations", guildID, len(jobs))
}

// pendingJobs computes the jobs a guild needs: every command definition
// whose hash differs from the cached one. The returned map holds the full
// wanted set, keyed by command name.
func (r *registrar) pendingJobs(guildID string, cached map[string]string) ([]regJob, map[string]string) {
	var jobs []regJob
	wanted := make(map[string]string)
	for _, f := range r.registry.All() {
		def := commandDefinition(f)
		if def == nil {
			continue
		}
		h := hashCommand(def)
		wanted[def.Name] = h
		if cached[def.Name] != h {
			jobs = append(jobs, regJob{guildID: guildID, def: def, hash: h})
		}
	}
	return jobs, wanted
}

func (r *registrar) nextJob() (regJob, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.queue) == 0 {
		return regJob{}, false
	}
	job := r.queue[0]
	r.queue = r.queue[1:]
	return job, true
}

func (r *registrar) nextGuild() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.pending) == 0 {
		return "", false
	}
	guildID := r.pending[0]
	r.pending = r.pending[1:]
	return guildID, true
}

func (r *registrar) recordHash(guildID, name, hash string) {
	m := r.hashes[guildID]
	if m == nil {
		m = make(map[string]string)
		r.hashes[guildID] = m
	}
	m[name] = hash
	r.saveHashes(guildID, m)
}

func (r *registrar) applicationID() string {
	if r.dg == nil || r.dg.State == nil || r.dg.State.User == nil {
		return ""
	}
	return r.dg.State.User.ID
}

func (r *registrar) cachePath(guildID string) string {
	return filepath.Join(r.cacheDir, guildID+".json")
}

func (r *registrar) loadHashes(guildID string) map[string]string {
	hashes := make(map[string]string)
	if data, err := os.ReadFile(r.cachePath(guildID)); err == nil {
		_ = json.Unmarshal(data, &hashes)
	}
	return hashes
}

func (r *registrar) saveHashes(guildID string, hashes map[string]string) {
	if err := os.MkdirAll(r.cacheDir, 0755); err != nil {
		log.Printf("[WARN] [%s] Can't create command cache dir: %v", guildID, err)
		return
	}
	data, _ := json.MarshalIndent(hashes, "", "  ")
	if err := os.WriteFile(r.cachePath(guildID), data, 0644); err != nil {
		log.Printf("[WARN] [%s] Can't write command cache: %v", guildID, err)
	}
}

// commandDefinition extracts the platform schema a feature registers, or nil
// for features without a command surface (buttons, modals, event-only).
func commandDefinition(f feature.Feature) *discordgo.ApplicationCommand {
	if sp, ok := f.(feature.SlashProvider); ok {
		if def := sp.SlashDefinition(); def != nil {
			if def.Type == 0 {
				def.Type = discordgo.ChatApplicationCommand
			}
			return def
		}
	}
	if cp, ok := f.(feature.ContextMenuProvider); ok {
		if def := cp.ContextDefinition(); def != nil {
			if def.Type == 0 {
				def.Type = discordgo.MessageApplicationCommand
			}
			return def
		}
	}
	return nil
}
