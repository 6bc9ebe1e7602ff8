package storage

import "time"

// Warning is one recorded moderation warning against a user.
type Warning struct {
	Reason      string    `json:"reason"`
	ModeratorID string    `json:"moderator_id"`
	IssuedAt    time.Time `json:"issued_at"`
}

// AddWarning appends a warning to a user's record and returns the new total.
func (s *Storage) AddWarning(guildID, userID string, w Warning) (int, error) {
	total := 0
	err := s.update(guildID, func(r *GuildRecord) {
		if r.Warnings == nil {
			r.Warnings = make(map[string][]Warning)
		}
		r.Warnings[userID] = append(r.Warnings[userID], w)
		total = len(r.Warnings[userID])
	})
	return total, err
}

// Warnings returns a user's warnings, oldest first.
func (s *Storage) Warnings(guildID, userID string) ([]Warning, error) {
	record, err := s.guild(guildID)
	if err != nil {
		return nil, err
	}
	return record.Warnings[userID], nil
}

// ClearWarnings removes every warning recorded against a user.
func (s *Storage) ClearWarnings(guildID, userID string) error {
	return s.update(guildID, func(r *GuildRecord) {
		delete(r.Warnings, userID)
	})
}
