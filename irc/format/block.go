package ircf

import "fmt"

// From https://www.npmjs.com/package/irc-formatting 1.0.0-rc3

// A Block is a run of text sharing the same IRC style.
type Block struct {
	Bold, Italic, Underline, Reverse bool
	Strikethrough, Monospace         bool
	Color, Highlight                 int
	Text                             string
}

// Empty is an unstyled block without text.
var Empty = NewBlock("")

// NewBlock returns an uncoloured block with the given style codes enabled.
func NewBlock(text string, fields ...rune) Block {
	return NewColorBlock(text, -1, -1, fields...)
}

// NewColorBlock returns a block with a foreground and background colour.
// -1 means no colour.
func NewColorBlock(text string, color, highlight int, fields ...rune) (b Block) {
	b.Text = text
	b.Color = color
	b.Highlight = highlight

	for _, code := range fields {
		b.SetField(code, true)
	}

	return
}

// Equals reports whether both blocks share the same style, ignoring text.
func (b Block) Equals(other Block) bool {
	return b.Bold == other.Bold &&
		b.Italic == other.Italic &&
		b.Underline == other.Underline &&
		b.Reverse == other.Reverse &&
		b.Strikethrough == other.Strikethrough &&
		b.Monospace == other.Monospace &&
		b.Color == other.Color &&
		b.Highlight == other.Highlight
}

// IsSpoiler is true when the text is drawn in the same colour as its background.
func (b Block) IsSpoiler() bool {
	return b.Color != -1 && b.Color == b.Highlight
}

func (b *Block) codeToField(code rune) *bool {
	switch code {
	case CharBold:
		return &b.Bold
	case CharItalics:
		return &b.Italic
	case CharUnderline:
		return &b.Underline
	case CharReverseColor:
		return &b.Reverse
	case CharStrikethrough:
		return &b.Strikethrough
	case CharMonospace:
		return &b.Monospace
	}
	return nil
}

func (b *Block) SetField(code rune, val bool) {
	if field := b.codeToField(code); field != nil {
		*field = val
		return
	}
	panic(fmt.Sprintf(`Unknown code \x%x`, code))
}

func (b Block) GetField(code rune) bool {
	if field := b.codeToField(code); field != nil {
		return *field
	}
	panic(fmt.Sprintf(`Unknown code \x%x`, code))
}
