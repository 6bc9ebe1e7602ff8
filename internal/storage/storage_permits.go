package storage

import "slices"

// Named permits: per-guild, per-role grants of permission strings. The
// wildcard "*" grants a role every permit.

// GrantPermit adds a permit name to a role. Granting twice is a no-op.
func (s *Storage) GrantPermit(guildID, roleID, name string) error {
	return s.update(guildID, func(r *GuildRecord) {
		if r.Permits == nil {
			r.Permits = make(map[string][]string)
		}
		if !slices.Contains(r.Permits[roleID], name) {
			r.Permits[roleID] = append(r.Permits[roleID], name)
		}
	})
}

// RevokePermit removes a permit name from a role.
func (s *Storage) RevokePermit(guildID, roleID, name string) error {
	return s.update(guildID, func(r *GuildRecord) {
		kept := slices.DeleteFunc(r.Permits[roleID], func(n string) bool { return n == name })
		if len(kept) == 0 {
			delete(r.Permits, roleID)
		} else {
			r.Permits[roleID] = kept
		}
	})
}

// RolePermits returns the permit names granted to a role in a guild.
// Implements access.PermitSource.
func (s *Storage) RolePermits(guildID, roleID string) []string {
	record, err := s.guild(guildID)
	if err != nil {
		return nil
	}
	return record.Permits[roleID]
}

// AllPermits returns the full role -> permit-names mapping for a guild.
func (s *Storage) AllPermits(guildID string) (map[string][]string, error) {
	record, err := s.guild(guildID)
	if err != nil {
		return nil, err
	}
	return record.Permits, nil
}
