package domain

import "strings"

// ParseDeclarations scans a games-channel declaration message for lines of
// the form "<emoji> <game name>". Leading "> " quote markers are stripped,
// the first token is the emoji key and the rest of the line is the game
// name. A later line with the same emoji wins.
func ParseDeclarations(text string) map[string]string {
	out := map[string]string{}
	for _, line := range strings.Split(text, "\n") {
		fields := strings.Fields(line)
		for len(fields) > 0 && fields[0] == ">" {
			fields = fields[1:]
		}
		if len(fields) < 2 {
			continue
		}
		emoji := strings.TrimLeft(fields[0], ">")
		if emoji == "" {
			continue
		}
		out[emoji] = strings.Join(fields[1:], " ")
	}
	return out
}

// ResolveGameName looks up a single emoji in a declaration message.
func ResolveGameName(text, emoji string) (string, bool) {
	game, ok := ParseDeclarations(text)[emoji]
	return game, ok
}
