package ircnick

// Character classes, loosely following charybdis' include/match.h.
const (
	DIGIT_C = 1 << iota
	NICK_C
)

// MaxLength is the nick length most networks accept.
const MaxLength = 30

var charAttrs [256]int

func init() {
	for c := '0'; c <= '9'; c++ {
		charAttrs[c] |= DIGIT_C | NICK_C
	}
	for c := 'a'; c <= 'z'; c++ {
		charAttrs[c] |= NICK_C
		charAttrs[c-'a'+'A'] |= NICK_C
	}
	for _, c := range "[]\\`_^{|}" {
		charAttrs[c] |= NICK_C
	}
	charAttrs['-'] |= NICK_C
}

func IsDigit(c byte) bool    { return (charAttrs[int(c)] & DIGIT_C) != 0 }
func IsNickChar(c byte) bool { return (charAttrs[int(c)] & NICK_C) != 0 }
