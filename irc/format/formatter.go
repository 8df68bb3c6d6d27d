package ircf

// Formatter converts message bodies between IRC and Discord.
// The zero value is ready to use.
type Formatter struct{}

// IRCToDiscord turns IRC control codes into Discord markdown.
func (Formatter) IRCToDiscord(text string) string {
	return BlocksToMarkdown(Parse(text))
}

// DiscordToIRC turns Discord markdown into IRC control codes.
func (Formatter) DiscordToIRC(text string) string {
	return MarkdownToIRC(text)
}
