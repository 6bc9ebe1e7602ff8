// Package storage is the typed persistence wrapper over the JSON datastore.
// Each guild owns one record keyed by its ID; every mutation rewrites the
// whole record (idempotent upsert, no read-then-check invariants).
package storage

import (
	"encoding/json"
	"fmt"

	"github.com/phunanon/uMod-sub000/datastore"
)

// Storage wraps the datastore with per-guild typed records.
type Storage struct {
	ds *datastore.Store
}

// GuildRecord is everything persisted for one guild.
type GuildRecord struct {
	UnmoderatedChannels map[string]bool      `json:"unmoderated_channels,omitempty"`
	ExemptUsers         map[string]bool      `json:"exempt_users,omitempty"`
	Permits             map[string][]string  `json:"permits,omitempty"`  // roleID -> permit names
	Warnings            map[string][]Warning `json:"warnings,omitempty"` // userID -> warnings
	Notes               map[string][]Note    `json:"notes,omitempty"`    // userID -> notes
	CensorPatterns      []string             `json:"censor_patterns,omitempty"`
	Scores              map[string]int64     `json:"scores,omitempty"` // userID -> message count
	WelcomeChannelID    string               `json:"welcome_channel_id,omitempty"`
	WelcomeMessage      string               `json:"welcome_message,omitempty"`
	FarewellMessage     string               `json:"farewell_message,omitempty"`
	AuditChannelID      string               `json:"audit_channel_id,omitempty"`
	SelfRoles           []SelfRole           `json:"self_roles,omitempty"`
}

// New opens storage at the given file path.
func New(filePath string) (*Storage, error) {
	ds, err := datastore.New(filePath)
	if err != nil {
		return nil, err
	}
	return &Storage{ds: ds}, nil
}

// Close flushes and closes the underlying store.
func (s *Storage) Close() error {
	return s.ds.Close()
}

// guild loads a guild's record, returning an initialized empty record when
// the guild has none yet. Datastore values round-trip through JSON, so the
// stored map is re-decoded into the typed record.
func (s *Storage) guild(guildID string) (*GuildRecord, error) {
	raw, ok := s.ds.Get(guildID)
	if !ok {
		return &GuildRecord{}, nil
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("storage: marshal guild %s: %w", guildID, err)
	}
	var record GuildRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("storage: decode guild %s: %w", guildID, err)
	}
	return &record, nil
}

// put replaces a guild's record.
func (s *Storage) put(guildID string, record *GuildRecord) {
	s.ds.Set(guildID, record)
}

// update applies fn to a guild's record and writes it back.
func (s *Storage) update(guildID string, fn func(*GuildRecord)) error {
	record, err := s.guild(guildID)
	if err != nil {
		return err
	}
	fn(record)
	s.put(guildID, record)
	return nil
}
