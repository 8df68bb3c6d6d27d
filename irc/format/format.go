package ircf

import (
	"regexp"
	"strconv"
	"strings"
)

// This file is based on https://www.npmjs.com/package/irc-formatting 1.0.0-rc3
//
// The main difference is that the regex follows Daniel Oaks' IRC Formatting specification.

// Chars includes all the codes defined in https://modern.ircdocs.horse/formatting.html
const (
	CharBold          rune = '\x02'
	CharItalics       rune = '\x1D'
	CharUnderline     rune = '\x1F'
	CharStrikethrough rune = '\x1E'
	CharMonospace     rune = '\x11'
	CharColor         rune = '\x03'
	CharHex           rune = '\x04'
	CharReverseColor  rune = '\x16'
	CharReset         rune = '\x0F'
)

var colorRegex = regexp.MustCompile(`\x03(\d\d?)?(?:,(\d\d?))?`)
var hexRegex = regexp.MustCompile(`\x04(?:[0-9a-fA-F]{6})?(?:,[0-9a-fA-F]{6})?`)
var replacer = strings.NewReplacer(
	string(CharBold), "",
	string(CharItalics), "",
	string(CharUnderline), "",
	string(CharStrikethrough), "",
	string(CharMonospace), "",
	string(CharColor), "",
	string(CharHex), "",
	string(CharReverseColor), "",
	string(CharReset), "",
)

// StripCodes removes every formatting code from text.
func StripCodes(text string) string {
	return replacer.Replace(StripColor(text))
}

// StripColor removes colour codes (including hex colours) but keeps other styles.
func StripColor(text string) string {
	return colorRegex.ReplaceAllString(hexRegex.ReplaceAllString(text, ""), "")
}

type color struct {
	foreground int
	background int
	strSize    int
}

func getIndexToColorMap(text string) map[int]color {
	indexToColor := make(map[int]color)
	matches := colorRegex.FindAllStringSubmatchIndex(text, -1)
	for _, match := range matches {
		// The index where the entire colour submatch starts/ends
		startIndex := match[0]
		endIndex := match[1]

		c := color{
			foreground: -1,
			background: -1,
			strSize:    endIndex - startIndex,
		}

		// Errors are impossible, our regex only matches numbers
		if match[2] != -1 {
			c.foreground, _ = strconv.Atoi(text[match[2]:match[3]])

			if match[4] != -1 {
				c.background, _ = strconv.Atoi(text[match[4]:match[5]])
			}
		}

		indexToColor[startIndex] = c
	}
	return indexToColor
}

// Parse splits IRC formatted text into styled blocks. Hex colours are dropped.
func Parse(text string) (result []Block) {
	result = []Block{}
	prev := Empty
	startIndex := 0

	text = hexRegex.ReplaceAllString(text, "")
	indexToColor := getIndexToColorMap(text)

	// Append a resetter to simplify code a bit
	text += string(CharReset)

	for i, ch := range text {
		var current Block
		updated := true
		nextStart := -1

		switch ch {
		case CharBold, CharItalics, CharUnderline, CharStrikethrough, CharMonospace:
			current = prev

			// Toggle style
			current.SetField(ch, !prev.GetField(ch))

		case CharColor:
			current = prev
			color := indexToColor[i]
			current.Color = color.foreground
			current.Highlight = color.background
			nextStart = i + color.strSize

		case CharReverseColor:
			current = prev

			if prev.Color != -1 {
				current.Color = prev.Highlight
				current.Highlight = prev.Color

				if current.Color == -1 {
					current.Color = 0
				}
			}

			current.Reverse = !prev.Reverse

		case CharReset:
			current = Empty

		default:
			updated = false
		}

		if !updated {
			continue
		}

		prev.Text = text[startIndex:i]

		if nextStart != -1 {
			startIndex = nextStart
		} else {
			startIndex = i + 1
		}

		if len(prev.Text) > 0 {
			result = append(result, prev)
		}

		prev = current
	}

	return result
}
