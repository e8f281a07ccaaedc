// Package console is an interactive terminal for driving one conversation
// by hand: the operator plays the language model, issuing tool calls and
// narrating their results.
package console

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	orchestration "github.com/koscakluka/ema-assist/core"
	"github.com/koscakluka/ema-assist/core/tools"
	"github.com/koscakluka/ema-assist/core/voice"
)

const (
	speakerAssistant = "assistant"
	speakerTool      = "tool"
	speakerSystem    = "system"
	speakerOperator  = "you"
)

type styles struct {
	Header    lipgloss.Style
	Footer    lipgloss.Style
	Assistant lipgloss.Style
	Voice     lipgloss.Style
	Tool      lipgloss.Style
	System    lipgloss.Style
	Operator  lipgloss.Style
	Error     lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		Header:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).Padding(0, 1),
		Footer:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Assistant: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Voice:     lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("245")),
		Tool:      lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		System:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		Operator:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
}

type entry struct {
	speaker string
	voice   voice.Voice
	text    string
	isError bool
}

type Model struct {
	ctx          context.Context
	conversation *orchestration.Conversation

	input    textinput.Model
	viewport viewport.Model
	styles   styles
	entries  []entry

	width   int
	busy    bool
	hangup  string
	quitted bool
}

type spokenMsg struct {
	utterance voice.Utterance
	text      string
	err       error
}

type toolResultMsg struct {
	call   tools.Call
	result string
	hangup string
}

type stateMsg struct {
	snapshot orchestration.Snapshot
	err      error
}

func New(ctx context.Context, conversation *orchestration.Conversation) Model {
	input := textinput.New()
	input.Placeholder = `add_to_cart {"item_name":"milk"}`
	input.Prompt = "> "
	input.CharLimit = 2048
	input.Focus()

	return Model{
		ctx:          ctx,
		conversation: conversation,
		input:        input,
		viewport:     viewport.New(80, 20),
		styles:       defaultStyles(),
		width:        80,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.say(m.conversation.Greeting()))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-4, 1)
		m.input.Width = max(msg.Width-4, 10)
		m.refresh()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitted = true
			return m, tea.Quit
		case tea.KeyEnter:
			if m.busy {
				return m, nil
			}
			line := m.input.Value()
			m.input.Reset()
			return m.handleLine(line)
		}

	case toolResultMsg:
		m.append(entry{speaker: speakerTool, text: fmt.Sprintf("%s -> %s", m.describeCall(msg.call), msg.result)})
		m.hangup = msg.hangup
		return m, m.say(msg.result)

	case spokenMsg:
		m.busy = false
		if msg.err != nil {
			m.append(entry{speaker: speakerSystem, text: msg.err.Error(), isError: true})
			break
		}
		m.append(entry{speaker: speakerAssistant, voice: msg.utterance.Voice, text: msg.text})
		if m.hangup != "" {
			m.append(entry{speaker: speakerSystem, text: "The assistant ended the call (" + m.hangup + "). Press Esc to leave."})
		}

	case stateMsg:
		m.busy = false
		if msg.err != nil {
			m.append(entry{speaker: speakerSystem, text: msg.err.Error(), isError: true})
			break
		}
		data, err := json.MarshalIndent(msg.snapshot, "", "  ")
		if err != nil {
			m.append(entry{speaker: speakerSystem, text: err.Error(), isError: true})
			break
		}
		m.append(entry{speaker: speakerSystem, text: string(data)})
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) handleLine(line string) (tea.Model, tea.Cmd) {
	cmd, err := parseInput(line)
	if err == errEmptyInput {
		return m, nil
	} else if err != nil {
		m.append(entry{speaker: speakerSystem, text: err.Error(), isError: true})
		return m, nil
	}

	switch cmd.kind {
	case commandQuit:
		m.quitted = true
		return m, tea.Quit
	case commandHelp:
		m.append(entry{speaker: speakerSystem, text: helpText})
		return m, nil
	case commandTools:
		m.append(entry{speaker: speakerSystem, text: m.describeTools()})
		return m, nil
	case commandState:
		m.busy = true
		return m, m.state()
	case commandSay:
		m.busy = true
		m.append(entry{speaker: speakerOperator, text: "/say " + cmd.text})
		return m, m.say(cmd.text)
	default:
		m.busy = true
		m.append(entry{speaker: speakerOperator, text: strings.TrimSpace(line)})
		return m, m.callTool(cmd.call)
	}
}

// callTool runs off the UI loop. Calls are serialized by the conversation.
func (m Model) callTool(call tools.Call) tea.Cmd {
	conversation, ctx := m.conversation, m.ctx
	return func() tea.Msg {
		result := conversation.CallTool(ctx, call)
		hangup, _ := conversation.HangupRequested()
		return toolResultMsg{call: call, result: result, hangup: hangup}
	}
}

func (m Model) say(text string) tea.Cmd {
	conversation, ctx := m.conversation, m.ctx
	return func() tea.Msg {
		utterance, err := conversation.Say(ctx, text)
		return spokenMsg{utterance: utterance, text: text, err: err}
	}
}

func (m Model) state() tea.Cmd {
	conversation, ctx := m.conversation, m.ctx
	return func() tea.Msg {
		snapshot, err := conversation.Snapshot(ctx)
		return stateMsg{snapshot: snapshot, err: err}
	}
}

func (m Model) describeCall(call tools.Call) string {
	if len(call.Arguments) == 0 {
		return string(call.Name)
	}
	return string(call.Name) + " " + string(call.Arguments)
}

func (m Model) describeTools() string {
	var b strings.Builder
	for i, definition := range m.conversation.Tools() {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s: %s", definition.Name, definition.Description)
	}
	return b.String()
}

func (m *Model) append(e entry) {
	m.entries = append(m.entries, e)
	m.refresh()
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.render())
	m.viewport.GotoBottom()
}

func (m Model) render() string {
	width := max(m.width-2, 20)
	var b strings.Builder
	for i, e := range m.entries {
		if i > 0 {
			b.WriteString("\n")
		}
		var label string
		switch e.speaker {
		case speakerAssistant:
			label = m.styles.Assistant.Render("assistant") + " " + m.styles.Voice.Render("["+string(e.voice)+"]")
		case speakerTool:
			label = m.styles.Tool.Render("tool")
		case speakerOperator:
			label = m.styles.Operator.Render("you")
		default:
			label = m.styles.System.Render("system")
		}
		text := wordwrap.String(e.text, width)
		if e.isError {
			text = m.styles.Error.Render(text)
		}
		b.WriteString(label + "\n" + text + "\n")
	}
	return b.String()
}

func (m Model) View() string {
	if m.quitted {
		return ""
	}
	header := m.styles.Header.Render(fmt.Sprintf("ema-assist · %s · %s", m.conversation.Kind(), m.conversation.Voice()))
	footer := m.styles.Footer.Render("enter: send · /help · esc: quit")
	if m.busy {
		footer = m.styles.Footer.Render("working...")
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, m.viewport.View(), m.input.View(), footer)
}

// Run drives conversation in the terminal until the operator quits.
func Run(ctx context.Context, conversation *orchestration.Conversation) error {
	program := tea.NewProgram(New(ctx, conversation), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}
