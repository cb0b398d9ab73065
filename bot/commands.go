package bot

import (
	"sort"
	"strings"

	"github.com/kbukum/quorumbot/backend"
	"github.com/kbukum/quorumbot/errors"
)

// Kind names a routed command. It is also the metrics label.
type Kind string

const (
	KindStartBattle Kind = "start_battle"
	KindStopBattle  Kind = "stop_battle"
	KindSelect      Kind = "q2"
	KindQuorum      Kind = "q1"
	KindArchive     Kind = "archive"
)

const (
	startBattlePrefix = "start_battle"
	stopBattlePrefix  = "stop_battle"
	selectPrefix      = "q2("
	quorumTrigger     = "q1 "
)

// Route classifies text. Prefixes are matched case-sensitively in priority
// order.
func Route(text string) Kind {
	switch {
	case strings.HasPrefix(text, startBattlePrefix):
		return KindStartBattle
	case strings.HasPrefix(text, stopBattlePrefix):
		return KindStopBattle
	case strings.HasPrefix(text, selectPrefix):
		return KindSelect
	case strings.HasPrefix(text, quorumTrigger):
		return KindQuorum
	default:
		return KindArchive
	}
}

// QuorumQuestion returns the question after the q1 trigger.
func QuorumQuestion(text string) string {
	return strings.TrimSpace(strings.TrimPrefix(text, quorumTrigger))
}

// ParseSelect parses "q2(name1,name2) question". Names are matched against
// the catalog aliases case-insensitively. Every failure is a COMMAND_SYNTAX
// AppError whose message is shown to the user as is.
func ParseSelect(text string, catalog *backend.Catalog) ([]backend.Backend, string, error) {
	if !strings.HasPrefix(text, selectPrefix) {
		return nil, "", errors.CommandSyntax("Invalid q2 format")
	}
	end := strings.Index(text, ")")
	if end == -1 {
		return nil, "", errors.CommandSyntax("Missing closing parenthesis in q2 command")
	}
	list := strings.TrimSpace(text[len(selectPrefix):end])
	question := strings.TrimSpace(text[end+1:])

	var names []string
	for _, n := range strings.Split(list, ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	if len(names) == 0 {
		return nil, "", errors.CommandSyntax("No models specified in q2 command")
	}
	if question == "" {
		return nil, "", errors.CommandSyntax("No question provided in q2 command")
	}

	selected, unknown := catalog.Resolve(names)
	if len(unknown) > 0 {
		available := catalog.Aliases()
		sort.Strings(available)
		return nil, "", errors.CommandSyntax("Unknown models: " + strings.Join(unknown, ", ") +
			". Available: " + strings.Join(available, ", "))
	}
	return selected, question, nil
}
