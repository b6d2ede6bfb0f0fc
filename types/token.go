package types

import (
	"strings"
	"unicode"
)

type Token struct {
	// Surface is the text as read from input and is what gets emitted.
	Surface string
	// Normalized is the form handed to the scoring sources.
	Normalized string
	Tag        Tag

	decided bool
}

func NewToken(surface string) *Token {
	return &Token{Surface: surface, Normalized: surface}
}

// Resolve sets the predicted tag. A token is resolved at most once; later calls
// return false and leave the tag untouched.
func (token *Token) Resolve(tag Tag) bool {
	if token.decided {
		return false
	}
	token.Tag = tag
	token.decided = true
	return true
}

func (token *Token) String() string {
	return token.Surface + "/" + token.Tag.String()
}

func GetShape(txt string) string {
	var sb strings.Builder
	for _, r := range txt {
		switch {
		case unicode.IsDigit(r):
			sb.WriteRune('d')
		case unicode.IsUpper(r):
			sb.WriteRune('X')
		default:
			sb.WriteRune('x')
		}
	}

	return sb.String()
}
