// Package dstate provides helpers for discordgo that first tries the State, and then falls back on an endpoint request.
package dstate

import "github.com/matterbridge/discordgo"

// Member returns a guild member from the state cache, or from the API.
func Member(s *discordgo.Session, guildID, userID string) (*discordgo.Member, error) {
	if s.State != nil {
		if m, err := s.State.Member(guildID, userID); err == nil {
			return m, nil
		}
	}

	return s.GuildMember(guildID, userID)
}

// MemberNick returns the guild nickname of user, falling back on their username.
func MemberNick(s *discordgo.Session, guildID string, user *discordgo.User) string {
	if guildID == "" {
		return user.Username
	}

	m, err := Member(s, guildID, user.ID)
	if err != nil || m.Nick == "" {
		return user.Username
	}

	return m.Nick
}
