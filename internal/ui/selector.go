// Package ui contains the interactive terminal prompts: a fuzzy-filterable
// selector and a yes/no confirmation.
package ui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

var (
	selectedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("78")).Bold(true)
	unselectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	dimStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	cursorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
)

const maxVisibleItems = 10

// selectorModel is the bubbletea model for picking one string out of a
// candidate list with fuzzy filtering.
type selectorModel struct {
	prompt     string
	candidates []string
	filtered   []string
	textInput  textinput.Model
	cursor     int
	choice     string
	chosen     bool
	cancelled  bool
}

func newSelectorModel(prompt string, candidates []string) selectorModel {
	ti := textinput.New()
	ti.Placeholder = "Type to filter..."
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 40
	ti.PromptStyle = cursorStyle

	return selectorModel{
		prompt:     prompt,
		candidates: candidates,
		filtered:   candidates,
		textInput:  ti,
	}
}

func (m selectorModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m selectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit
		case "enter":
			if len(m.filtered) > 0 {
				m.choice = m.filtered[m.cursor]
				m.chosen = true
			} else {
				m.cancelled = true
			}
			return m, tea.Quit
		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case "down", "ctrl+n":
			if m.cursor < len(m.filtered)-1 {
				m.cursor++
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	m.filtered = filterCandidates(m.candidates, m.textInput.Value())
	if m.cursor >= len(m.filtered) {
		m.cursor = max(0, len(m.filtered)-1)
	}
	return m, cmd
}

func (m selectorModel) View() string {
	if m.chosen || m.cancelled {
		return ""
	}

	s := m.prompt + "\n" + m.textInput.View() + "\n\n"

	visible := m.filtered
	offset := 0
	if m.cursor >= maxVisibleItems {
		offset = m.cursor - maxVisibleItems + 1
	}
	if offset+maxVisibleItems < len(visible) {
		visible = visible[offset : offset+maxVisibleItems]
	} else {
		visible = visible[offset:]
	}

	for i, item := range visible {
		if offset+i == m.cursor {
			s += selectedStyle.Render("> "+item) + "\n"
		} else {
			s += unselectedStyle.Render("  "+item) + "\n"
		}
	}
	if len(m.filtered) == 0 {
		s += dimStyle.Render("  no matches") + "\n"
	}
	s += "\n" + dimStyle.Render("↑/↓ navigate • enter select • esc cancel") + "\n"
	return s
}

// filterCandidates ranks candidates against the query, keeping the original
// order when the query is empty.
func filterCandidates(candidates []string, query string) []string {
	if query == "" {
		return candidates
	}
	matches := fuzzy.Find(query, candidates)
	filtered := make([]string, len(matches))
	for i, match := range matches {
		filtered[i] = candidates[match.Index]
	}
	return filtered
}

// Select shows the selector and returns the choice. ok is false when the
// user cancelled or nothing matched; that is a valid outcome, not an error.
func Select(prompt string, candidates []string) (choice string, ok bool, err error) {
	if len(candidates) == 0 {
		return "", false, nil
	}
	p := tea.NewProgram(newSelectorModel(prompt, candidates), tea.WithOutput(os.Stderr))
	final, err := p.Run()
	if err != nil {
		return "", false, fmt.Errorf("selection failed: %w", err)
	}
	m := final.(selectorModel)
	if m.cancelled || !m.chosen {
		return "", false, nil
	}
	return m.choice, true, nil
}
