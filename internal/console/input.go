package console

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/koscakluka/ema-assist/core/tools"
)

type commandKind int

const (
	commandCall commandKind = iota
	commandSay
	commandTools
	commandState
	commandHelp
	commandQuit
)

type command struct {
	kind commandKind
	call tools.Call
	text string
}

var errEmptyInput = errors.New("nothing to do")

// parseInput reads one console line. Lines starting with a slash are
// console commands; anything else is a tool name optionally followed by a
// JSON arguments object.
func parseInput(line string) (command, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return command{}, errEmptyInput
	}

	if strings.HasPrefix(line, "/") {
		name, rest, _ := strings.Cut(line[1:], " ")
		rest = strings.TrimSpace(rest)
		switch strings.ToLower(name) {
		case "say":
			if rest == "" {
				return command{}, errors.New("usage: /say <text>")
			}
			return command{kind: commandSay, text: rest}, nil
		case "tools":
			return command{kind: commandTools}, nil
		case "state":
			return command{kind: commandState}, nil
		case "help", "?":
			return command{kind: commandHelp}, nil
		case "quit", "exit":
			return command{kind: commandQuit}, nil
		}
		return command{}, fmt.Errorf("unknown command /%s, try /help", name)
	}

	name, arguments, _ := strings.Cut(line, " ")
	arguments = strings.TrimSpace(arguments)
	call := tools.Call{Name: tools.Name(name)}
	if arguments != "" {
		if !json.Valid([]byte(arguments)) {
			return command{}, fmt.Errorf("arguments for %s are not valid JSON", name)
		}
		call.Arguments = json.RawMessage(arguments)
	}
	return command{kind: commandCall, call: call}, nil
}

const helpText = `Type a tool call as: <tool> {"argument": "value"}
  /say <text>   narrate text as the assistant
  /tools        list the assistant's tools
  /state        show the conversation state
  /quit         end the conversation`
