package storage

import "time"

// Note is a moderator note attached to a user.
type Note struct {
	Text     string    `json:"text"`
	AuthorID string    `json:"author_id"`
	AddedAt  time.Time `json:"added_at"`
}

// AddNote appends a note to a user's record.
func (s *Storage) AddNote(guildID, userID string, n Note) error {
	return s.update(guildID, func(r *GuildRecord) {
		if r.Notes == nil {
			r.Notes = make(map[string][]Note)
		}
		r.Notes[userID] = append(r.Notes[userID], n)
	})
}

// Notes returns a user's notes, oldest first.
func (s *Storage) Notes(guildID, userID string) ([]Note, error) {
	record, err := s.guild(guildID)
	if err != nil {
		return nil, err
	}
	return record.Notes[userID], nil
}
