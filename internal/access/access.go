// Package access decides whether a caller may invoke a protected operation.
//
// Two mechanisms exist and a feature declares exactly one: a rank check
// (caller holds a role positioned at or above the bot's own highest role) or
// named permits (per-guild, per-role grants of permission strings persisted
// in storage). The permit check falls back to the rank check so a guild that
// never configures permits still works.
package access

import (
	"github.com/bwmarrin/discordgo"
)

// Wildcard grants every permit to a role when stored as its permit name.
const Wildcard = "*"

// Access is a feature's declared authorization requirement. The zero value
// is unrestricted.
type Access struct {
	ModeratorOnly bool
	Permits       []string
}

// Unrestricted requires nothing of the caller.
var Unrestricted = Access{}

// Moderator requires the caller to out-rank (or equal) the bot's highest role.
func Moderator() Access { return Access{ModeratorOnly: true} }

// Permit requires any of the caller's roles to hold one of the named permits,
// falling back to the moderator rank check.
func Permit(names ...string) Access { return Access{Permits: names} }

// Restricted reports whether the access requirement checks anything at all.
func (a Access) Restricted() bool { return a.ModeratorOnly || len(a.Permits) > 0 }

// Evaluate is the pure authorization decision: callerRank and botRank are the
// highest role positions of caller and bot, granted is the set of permit
// names the caller's roles hold in this guild. Same inputs, same answer.
func Evaluate(a Access, callerRank, botRank int, granted map[string]bool) bool {
	if !a.Restricted() {
		return true
	}

	// A caller holding no ranked role never qualifies, even when the bot
	// holds none either.
	isModerator := callerRank >= 0 && callerRank >= botRank
	if a.ModeratorOnly {
		return isModerator
	}

	if granted[Wildcard] {
		return true
	}
	for _, name := range a.Permits {
		if name == Wildcard || granted[name] {
			return true
		}
	}
	return isModerator
}

// PermitSource is the storage lookup the resolver needs: whether a role
// holds a named permit (or the wildcard) in a guild.
type PermitSource interface {
	RolePermits(guildID, roleID string) []string
}

// Resolver authorizes callers against live guild state. Any failure to fetch
// member or role data denies the request.
type Resolver struct {
	permits PermitSource
}

// NewResolver returns a Resolver backed by the given permit store.
func NewResolver(permits PermitSource) *Resolver {
	return &Resolver{permits: permits}
}

// Allow reports whether member may perform an operation guarded by a in the
// given guild. member may be nil (e.g. the caller left, or a DM); restricted
// operations are then denied.
func (r *Resolver) Allow(s *discordgo.Session, guildID string, member *discordgo.Member, a Access) bool {
	if !a.Restricted() {
		return true
	}
	if guildID == "" || member == nil {
		return false
	}

	positions, err := rolePositions(s, guildID)
	if err != nil {
		return false
	}

	botMember, err := guildMember(s, guildID, s.State.User.ID)
	if err != nil {
		return false
	}

	callerRank := highestPosition(positions, member.Roles)
	botRank := highestPosition(positions, botMember.Roles)

	granted := make(map[string]bool)
	if r.permits != nil && len(a.Permits) > 0 {
		for _, roleID := range member.Roles {
			for _, name := range r.permits.RolePermits(guildID, roleID) {
				granted[name] = true
			}
		}
	}

	return Evaluate(a, callerRank, botRank, granted)
}

// rolePositions maps role ID to hierarchy position, preferring session state
// over a REST call.
func rolePositions(s *discordgo.Session, guildID string) (map[string]int, error) {
	var roles []*discordgo.Role
	if guild, err := s.State.Guild(guildID); err == nil && guild != nil {
		roles = guild.Roles
	}
	if roles == nil {
		fetched, err := s.GuildRoles(guildID)
		if err != nil {
			return nil, err
		}
		roles = fetched
	}

	positions := make(map[string]int, len(roles))
	for _, role := range roles {
		positions[role.ID] = role.Position
	}
	return positions, nil
}

func guildMember(s *discordgo.Session, guildID, userID string) (*discordgo.Member, error) {
	if member, err := s.State.Member(guildID, userID); err == nil && member != nil {
		return member, nil
	}
	return s.GuildMember(guildID, userID)
}

// highestPosition returns the highest position among the given role IDs, or
// -1 when the member holds no ranked role.
func highestPosition(positions map[string]int, roleIDs []string) int {
	highest := -1
	for _, id := range roleIDs {
		if pos, ok := positions[id]; ok && pos > highest {
			highest = pos
		}
	}
	return highest
}
