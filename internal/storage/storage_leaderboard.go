package storage

import "sort"

// Score is one leaderboard entry.
type Score struct {
	UserID string
	Count  int64
}

// IncrementScore adds one to a user's message count.
func (s *Storage) IncrementScore(guildID, userID string) error {
	return s.update(guildID, func(r *GuildRecord) {
		if r.Scores == nil {
			r.Scores = make(map[string]int64)
		}
		r.Scores[userID]++
	})
}

// TopScores returns up to limit entries, highest count first. Ties break by
// user ID so the order is stable.
func (s *Storage) TopScores(guildID string, limit int) ([]Score, error) {
	record, err := s.guild(guildID)
	if err != nil {
		return nil, err
	}

	scores := make([]Score, 0, len(record.Scores))
	for userID, count := range record.Scores {
		scores = append(scores, Score{UserID: userID, Count: count})
	}
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Count != scores[j].Count {
			return scores[i].Count > scores[j].Count
		}
		return scores[i].UserID < scores[j].UserID
	})

	if limit > 0 && len(scores) > limit {
		scores = scores[:limit]
	}
	return scores, nil
}
