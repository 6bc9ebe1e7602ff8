package storage

import "slices"

// Guild-level channel/message configuration used by the greeting and audit
// features, plus the self-assign role menu.

// SelfRole is one entry in the self-assign role menu.
type SelfRole struct {
	RoleID string `json:"role_id"`
	Label  string `json:"label"`
}

// SetWelcome configures the greeting channel and message template.
func (s *Storage) SetWelcome(guildID, channelID, message string) error {
	return s.update(guildID, func(r *GuildRecord) {
		r.WelcomeChannelID = channelID
		r.WelcomeMessage = message
	})
}

// Welcome returns the greeting channel and message template.
func (s *Storage) Welcome(guildID string) (channelID, message string) {
	record, err := s.guild(guildID)
	if err != nil {
		return "", ""
	}
	return record.WelcomeChannelID, record.WelcomeMessage
}

// SetFarewell configures the message posted when a member leaves. Farewell
// messages go to the welcome channel.
func (s *Storage) SetFarewell(guildID, message string) error {
	return s.update(guildID, func(r *GuildRecord) {
		r.FarewellMessage = message
	})
}

// Farewell returns the farewell channel and message template.
func (s *Storage) Farewell(guildID string) (channelID, message string) {
	record, err := s.guild(guildID)
	if err != nil {
		return "", ""
	}
	return record.WelcomeChannelID, record.FarewellMessage
}

// SetAuditChannel configures where audit-log entries are relayed.
func (s *Storage) SetAuditChannel(guildID, channelID string) error {
	return s.update(guildID, func(r *GuildRecord) {
		r.AuditChannelID = channelID
	})
}

// AuditChannel returns the audit relay channel, or "" when unset.
func (s *Storage) AuditChannel(guildID string) string {
	record, err := s.guild(guildID)
	if err != nil {
		return ""
	}
	return record.AuditChannelID
}

// AddSelfRole adds or relabels an entry in the self-assign menu.
func (s *Storage) AddSelfRole(guildID string, role SelfRole) error {
	return s.update(guildID, func(r *GuildRecord) {
		for i, existing := range r.SelfRoles {
			if existing.RoleID == role.RoleID {
				r.SelfRoles[i] = role
				return
			}
		}
		r.SelfRoles = append(r.SelfRoles, role)
	})
}

// RemoveSelfRole removes an entry from the self-assign menu.
func (s *Storage) RemoveSelfRole(guildID, roleID string) error {
	return s.update(guildID, func(r *GuildRecord) {
		r.SelfRoles = slices.DeleteFunc(r.SelfRoles, func(sr SelfRole) bool { return sr.RoleID == roleID })
	})
}

// SelfRoles returns the self-assign menu entries in insertion order.
func (s *Storage) SelfRoles(guildID string) []SelfRole {
	record, err := s.guild(guildID)
	if err != nil {
		return nil
	}
	return record.SelfRoles
}
