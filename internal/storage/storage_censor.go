package storage

import (
	"slices"
	"strings"
)

// Censor patterns are lowercase substrings matched against message content.

// AddCensorPattern adds a pattern to a guild's list. Duplicates are ignored.
func (s *Storage) AddCensorPattern(guildID, pattern string) error {
	pattern = strings.ToLower(strings.TrimSpace(pattern))
	if pattern == "" {
		return nil
	}
	return s.update(guildID, func(r *GuildRecord) {
		if !slices.Contains(r.CensorPatterns, pattern) {
			r.CensorPatterns = append(r.CensorPatterns, pattern)
		}
	})
}

// RemoveCensorPattern removes a pattern from a guild's list.
func (s *Storage) RemoveCensorPattern(guildID, pattern string) error {
	pattern = strings.ToLower(strings.TrimSpace(pattern))
	return s.update(guildID, func(r *GuildRecord) {
		r.CensorPatterns = slices.DeleteFunc(r.CensorPatterns, func(p string) bool { return p == pattern })
	})
}

// CensorPatterns returns a guild's banned patterns.
func (s *Storage) CensorPatterns(guildID string) []string {
	record, err := s.guild(guildID)
	if err != nil {
		return nil
	}
	return record.CensorPatterns
}
