package storage

// Moderation config: which channels the bot leaves alone, and which users
// are exempt from the message pipeline. Point lookups used by the dispatch
// core swallow read errors as "not configured" so a corrupt record never
// blocks dispatch.

// SetChannelUnmoderated flags or unflags a channel as outside moderation.
func (s *Storage) SetChannelUnmoderated(guildID, channelID string, unmoderated bool) error {
	return s.update(guildID, func(r *GuildRecord) {
		if r.UnmoderatedChannels == nil {
			r.UnmoderatedChannels = make(map[string]bool)
		}
		if unmoderated {
			r.UnmoderatedChannels[channelID] = true
		} else {
			delete(r.UnmoderatedChannels, channelID)
		}
	})
}

// ChannelUnmoderated reports whether a channel is excluded from moderation.
func (s *Storage) ChannelUnmoderated(guildID, channelID string) bool {
	record, err := s.guild(guildID)
	if err != nil {
		return false
	}
	return record.UnmoderatedChannels[channelID]
}

// SetUserExempt flags or unflags a user as exempt from moderation.
func (s *Storage) SetUserExempt(guildID, userID string, exempt bool) error {
	return s.update(guildID, func(r *GuildRecord) {
		if r.ExemptUsers == nil {
			r.ExemptUsers = make(map[string]bool)
		}
		if exempt {
			r.ExemptUsers[userID] = true
		} else {
			delete(r.ExemptUsers, userID)
		}
	})
}

// UserExempt reports whether a user is exempt from moderation in a guild.
func (s *Storage) UserExempt(guildID, userID string) bool {
	record, err := s.guild(guildID)
	if err != nil {
		return false
	}
	return record.ExemptUsers[userID]
}

// DropChannelConfig removes every reference to a deleted channel.
func (s *Storage) DropChannelConfig(guildID, channelID string) error {
	return s.update(guildID, func(r *GuildRecord) {
		delete(r.UnmoderatedChannels, channelID)
		if r.WelcomeChannelID == channelID {
			r.WelcomeChannelID = ""
		}
		if r.AuditChannelID == channelID {
			r.AuditChannelID = ""
		}
	})
}
