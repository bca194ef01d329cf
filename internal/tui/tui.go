// Package tui provides the interactive terminal pieces used by the CLI:
// a list chooser (notebook picker, action menu), a one-line text prompt and
// styled notification boxes.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrNoItems is returned when Choose is called with nothing to choose from.
var ErrNoItems = errors.New("nothing to choose from")

// Default list dimensions until the terminal reports its size.
const (
	defaultWidth  = 72
	defaultHeight = 14
)

var (
	labelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#007ACC"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

// Item is one entry of a chooser.
type Item struct {
	Label  string
	Detail string
}

func (i Item) Title() string       { return i.Label }
func (i Item) Description() string { return i.Detail }
func (i Item) FilterValue() string { return i.Label }

// ---------------------------------------------------------------------------
// Chooser
// ---------------------------------------------------------------------------

type chooserModel struct {
	list     list.Model
	chosen   int
	canceled bool
}

func newChooser(title string, items []Item, filtering bool) chooserModel {
	entries := make([]list.Item, len(items))
	for i, it := range items {
		entries[i] = it
	}
	delegate := list.NewDefaultDelegate()
	delegate.SetSpacing(0)

	l := list.New(entries, delegate, defaultWidth, defaultHeight)
	l.Title = title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(filtering)

	return chooserModel{list: l, chosen: -1}
}

func (m chooserModel) Init() tea.Cmd { return nil }

func (m chooserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, min(msg.Height, defaultHeight+6))
		return m, nil
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.Type {
		case tea.KeyEnter:
			m.chosen = m.list.Index()
			return m, tea.Quit
		case tea.KeyEsc, tea.KeyCtrlC:
			m.canceled = true
			return m, tea.Quit
		}
		if msg.String() == "q" {
			m.canceled = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m chooserModel) View() string {
	return m.list.View()
}

// Choose shows items and returns the chosen index. ok is false when the user
// backs out with esc, q or ctrl+c.
func Choose(ctx context.Context, in io.Reader, out io.Writer, title string, items []Item) (index int, ok bool, err error) {
	if len(items) == 0 {
		return -1, false, ErrNoItems
	}
	final, err := run(ctx, in, out, newChooser(title, items, len(items) > 8))
	if err != nil {
		return -1, false, err
	}
	m := final.(chooserModel)
	if m.canceled || m.chosen < 0 {
		return -1, false, nil
	}
	return m.chosen, true, nil
}

// ---------------------------------------------------------------------------
// Prompt
// ---------------------------------------------------------------------------

type promptModel struct {
	label    string
	input    textinput.Model
	done     bool
	canceled bool
}

func newPrompt(label, value, placeholder string) promptModel {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.SetValue(value)
	ti.CursorEnd()
	ti.Width = defaultWidth - 4
	ti.Focus()
	return promptModel{label: label, input: ti}
}

func (m promptModel) Init() tea.Cmd { return textinput.Blink }

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			m.done = true
			return m, tea.Quit
		case tea.KeyEsc, tea.KeyCtrlC:
			m.canceled = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m promptModel) View() string {
	if m.done || m.canceled {
		return ""
	}
	return fmt.Sprintf("%s\n%s\n%s\n",
		labelStyle.Render(m.label),
		m.input.View(),
		helpStyle.Render("enter to confirm • esc to cancel"),
	)
}

// Prompt asks for one line of text pre-filled with value. ok is false when
// the user cancels.
func Prompt(ctx context.Context, in io.Reader, out io.Writer, label, value, placeholder string) (answer string, ok bool, err error) {
	final, err := run(ctx, in, out, newPrompt(label, value, placeholder))
	if err != nil {
		return "", false, err
	}
	m := final.(promptModel)
	if m.canceled {
		return "", false, nil
	}
	return m.input.Value(), true, nil
}

func run(ctx context.Context, in io.Reader, out io.Writer, model tea.Model) (tea.Model, error) {
	p := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)
	final, err := p.Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("running terminal UI: %w", err)
	}
	return final, nil
}
