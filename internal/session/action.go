// Package session runs a headless search page for one user: a page, its
// dropdown controller, and the scripted actions applied to them.
package session

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/hyperjump/docsearch/internal/dom"
)

// ActionType names a user action.
type ActionType string

const (
	ActionClick ActionType = "click"
	ActionKey   ActionType = "key"
	ActionText  ActionType = "type"
)

// Action is one user interaction with the page.
type Action struct {
	Type ActionType `json:"type" yaml:"type"`
	// Target is a CSS selector for click actions.
	Target string `json:"target,omitempty" yaml:"target,omitempty"`
	// Key is the DOM key value for key actions, e.g. ArrowDown.
	Key string `json:"key,omitempty" yaml:"key,omitempty"`
	// Text is entered one character at a time for type actions.
	Text string `json:"text,omitempty" yaml:"text,omitempty"`
}

// Validate reports whether the action carries what its type needs.
func (a Action) Validate() error {
	switch a.Type {
	case ActionClick:
		if a.Target == "" {
			return fmt.Errorf("click action requires a target")
		}
	case ActionKey:
		if a.Key == "" {
			return fmt.Errorf("key action requires a key")
		}
	case ActionText:
	default:
		return fmt.Errorf("unknown action type %q", a.Type)
	}
	return nil
}

func (a Action) String() string {
	switch a.Type {
	case ActionClick:
		return "click " + a.Target
	case ActionKey:
		return "key " + a.Key
	default:
		return "type " + a.Text
	}
}

// keyAliases maps script shorthands to DOM key values.
var keyAliases = map[string]dom.Key{
	"down":   dom.KeyArrowDown,
	"up":     dom.KeyArrowUp,
	"esc":    dom.KeyEscape,
	"escape": dom.KeyEscape,
	"enter":  dom.KeyEnter,
}

func normalizeKey(k string) dom.Key {
	if alias, ok := keyAliases[strings.ToLower(k)]; ok {
		return alias
	}
	return dom.Key(k)
}

// ParseScript reads one action per line:
//
//	click <selector>
//	key <key>
//	type <text>
//
// Blank lines and lines starting with # are skipped. The text of a type
// action is everything after the first space, kept verbatim.
func ParseScript(r io.Reader) ([]Action, error) {
	var actions []Action
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		raw := strings.TrimRight(sc.Text(), "\r")
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		verb, rest, _ := strings.Cut(strings.TrimLeft(raw, " \t"), " ")
		var a Action
		switch ActionType(verb) {
		case ActionClick:
			a = Action{Type: ActionClick, Target: strings.TrimSpace(rest)}
		case ActionKey:
			a = Action{Type: ActionKey, Key: strings.TrimSpace(rest)}
		case ActionText:
			a = Action{Type: ActionText, Text: rest}
		default:
			return nil, fmt.Errorf("line %d: unknown action %q", line, verb)
		}
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		actions = append(actions, a)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return actions, nil
}
