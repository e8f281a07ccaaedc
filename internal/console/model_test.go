package console

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	orchestration "github.com/koscakluka/ema-assist/core"
	"github.com/koscakluka/ema-assist/core/assistants"
	"github.com/koscakluka/ema-assist/core/texttospeech"
)

func newTestModel(t *testing.T, kind assistants.Kind) (Model, *texttospeech.Transcript) {
	t.Helper()
	transcript := texttospeech.NewTranscript()
	o := orchestration.NewOrchestrator(orchestration.WithTextToSpeechClient(transcript))
	t.Cleanup(o.Close)

	conversation, err := o.StartConversation(context.Background(), kind)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return New(context.Background(), conversation), transcript
}

// submitLine types line and presses enter.
func submitLine(t *testing.T, m Model, line string) (Model, tea.Cmd) {
	t.Helper()
	m.input.SetValue(line)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return next.(Model), cmd
}

// drain runs cmd and feeds its message back until nothing is left.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for cmd != nil {
		msg := cmd()
		if msg == nil {
			return m
		}
		next, nextCmd := m.Update(msg)
		m = next.(Model)
		cmd = nextCmd
		if _, ok := msg.(spokenMsg); ok {
			return m
		}
		if _, ok := msg.(stateMsg); ok {
			return m
		}
	}
	return m
}

func lastEntry(t *testing.T, m Model) entry {
	t.Helper()
	if len(m.entries) == 0 {
		t.Fatalf("expected entries")
	}
	return m.entries[len(m.entries)-1]
}

func TestToolCallIsNarratedInTheNextVoice(t *testing.T) {
	m, transcript := newTestModel(t, assistants.Tutor)

	m, cmd := submitLine(t, m, `switch_mode {"mode":"quiz"}`)
	if !m.busy {
		t.Fatalf("expected the model to be busy while the tool runs")
	}
	if m.input.Value() != "" {
		t.Fatalf("expected the input to be cleared, got %q", m.input.Value())
	}
	m = drain(t, m, cmd)

	if m.busy {
		t.Fatalf("expected the model to be idle after narration")
	}
	got := lastEntry(t, m)
	if got.speaker != speakerAssistant || got.voice != "aura-asteria-en" {
		t.Fatalf("unexpected entry %+v", got)
	}
	if !strings.HasPrefix(got.text, "Switched to quiz mode.") {
		t.Fatalf("unexpected narration %q", got.text)
	}

	spoken, ok := transcript.Last()
	if !ok || spoken.Text != got.text {
		t.Fatalf("expected the transcript to hold the narration, got %+v", spoken)
	}
}

func TestEnterIsIgnoredWhileBusy(t *testing.T) {
	m, _ := newTestModel(t, assistants.Grocery)
	m.busy = true

	m, cmd := submitLine(t, m, "get_cart")
	if cmd != nil {
		t.Fatalf("expected no command while busy")
	}
	if len(m.entries) != 0 {
		t.Fatalf("expected no entries, got %+v", m.entries)
	}
}

func TestConsoleCommands(t *testing.T) {
	m, _ := newTestModel(t, assistants.Grocery)

	m, cmd := submitLine(t, m, "/tools")
	if cmd != nil {
		t.Fatalf("expected /tools to answer inline")
	}
	if got := lastEntry(t, m).text; !strings.Contains(got, "add_to_cart:") || !strings.Contains(got, "track_order:") {
		t.Fatalf("unexpected tool listing %q", got)
	}

	m, _ = submitLine(t, m, "/dance")
	if got := lastEntry(t, m); !got.isError || !strings.Contains(got.text, "/dance") {
		t.Fatalf("unexpected entry %+v", got)
	}

	m, cmd = submitLine(t, m, "/state")
	m = drain(t, m, cmd)
	if got := lastEntry(t, m).text; !strings.Contains(got, `"assistant": "grocery"`) {
		t.Fatalf("unexpected state %q", got)
	}

	_, cmd = submitLine(t, m, "/quit")
	if cmd == nil {
		t.Fatalf("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func TestHangupIsAnnounced(t *testing.T) {
	m, _ := newTestModel(t, assistants.SDR)

	m, cmd := submitLine(t, m, "end_call_summary")
	m = drain(t, m, cmd)

	if m.hangup == "" {
		t.Fatalf("expected a hangup reason")
	}
	if got := lastEntry(t, m); got.speaker != speakerSystem || !strings.Contains(got.text, "ended the call") {
		t.Fatalf("unexpected entry %+v", got)
	}
}

func TestWindowResizeWrapsText(t *testing.T) {
	m, _ := newTestModel(t, assistants.Barista)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 30, Height: 12})
	m = next.(Model)
	m.append(entry{speaker: speakerSystem, text: strings.Repeat("word ", 20)})

	for _, line := range strings.Split(m.render(), "\n") {
		if len(line) > 28 && !strings.Contains(line, "\x1b") {
			t.Fatalf("line not wrapped: %q", line)
		}
	}
	if m.viewport.Height != 8 {
		t.Fatalf("got=%d want=%d", m.viewport.Height, 8)
	}
}
