package ircnick

import (
	"github.com/mozillazg/go-unidecode"
)

// NickClean transliterates nick to ASCII and replaces characters
// that are not allowed in an IRC nick with an underscore.
func NickClean(nick string) string {
	nick = unidecode.Unidecode(nick)
	if nick == "" {
		return "_"
	}

	// https://github.com/lp0/charybdis/blob/9ced2a7932dddd069636fe6fe8e9faa6db904703/ircd/client.c#L854-L884
	if nick[0] == '-' || IsDigit(nick[0]) {
		nick = "_" + nick
	}

	newNick := []byte(nick)

	// Replace bad characters with underscores
	for i, c := range newNick {
		if !IsNickChar(c) {
			newNick[i] = '_'
		}
	}

	if len(newNick) > MaxLength {
		newNick = newNick[:MaxLength]
	}

	return string(newNick)
}
