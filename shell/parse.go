package shell

import "strings"

// command is one parsed input line. Verb is lower case; Arg keeps its case
// since criteria expressions and session names may need it.
type command struct {
	Verb string
	Arg  string
}

var verbAliases = map[string]string{
	// Search
	"s":       "search",
	"find":    "search",
	"permute": "search",
	"run":     "search",

	// Replay
	"r":      "replay",
	"follow": "replay",
	"path":   "replay",

	// Results
	"d":      "dump",
	"detail": "show",
	"info":   "show",
	"x":      "show",

	// Setup
	"ls":     "sessions",
	"list":   "sessions",
	"select": "use",
	"switch": "use",
	"filter": "criteria",
	"crit":   "criteria",
	"waves":  "depth",
	"toggle": "raw",
	"?":      "help",
	"/h":     "/help",
	"/q":     "/quit",
	"/s":     "/save",
	"/l":     "/load",
	"/v":     "/verify",
}

// fillers are dropped between the verb and its argument: "show result 3".
var fillers = map[string]bool{
	"result": true, "results": true, "number": true, "session": true, "to": true,
}

// parseCommand splits an input line into verb and argument.
func parseCommand(input string) command {
	input = strings.TrimSpace(input)
	if input == "" {
		return command{}
	}

	words := strings.Fields(input)
	words[0] = strings.ToLower(words[0])
	words = expandPhrases(words)

	if alias, ok := verbAliases[words[0]]; ok {
		words[0] = alias
	}

	rest := words[1:]
	for len(rest) > 0 && fillers[strings.ToLower(rest[0])] {
		rest = rest[1:]
	}
	return command{Verb: words[0], Arg: strings.Join(rest, " ")}
}

// expandPhrases handles "set seed", "list sessions" and the like.
func expandPhrases(words []string) []string {
	if len(words) < 2 {
		return words
	}
	second := strings.ToLower(words[1])

	switch words[0] {
	case "set":
		switch second {
		case "seed", "depth", "criteria":
			return append([]string{second}, words[2:]...)
		}
	case "list":
		if second == "sessions" {
			return append([]string{"sessions"}, words[2:]...)
		}
	case "show":
		switch second {
		case "sessions":
			return append([]string{"sessions"}, words[2:]...)
		case "all":
			return []string{"dump"}
		}
	}
	return words
}
