// Package ui implements the interactive terminal views: a catalog browser
// with infinite scroll and debounced search, plus simple pickers for
// seasons, episodes and saved items.
package ui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrCancelled is returned when the user backs out of a view without
// choosing anything.
var ErrCancelled = errors.New("selection cancelled")

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
)

// pickItem adapts a display string to the list component.
type pickItem string

func (i pickItem) FilterValue() string { return string(i) }

// pickDelegate renders one single-line row.
type pickDelegate struct{}

func (d pickDelegate) Height() int { return 1 }
func (d pickDelegate) Spacing() int { return 0 }
func (d pickDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }
func (d pickDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	label := string(item.(pickItem))
	if index == m.Index() {
		fmt.Fprint(w, selectedStyle.Render("> "+label))
		return
	}
	fmt.Fprint(w, "  "+label)
}

type pickModel struct {
	list   list.Model
	choice int
}

func (m pickModel) Init() tea.Cmd { return nil }

func (m pickModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			m.choice = m.list.Index()
			return m, tea.Quit
		case "q", "esc", "ctrl+c":
			m.choice = -1
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m pickModel) View() string { return m.list.View() }

// Select presents items and returns the chosen index, or ErrCancelled.
func Select(prompt string, items []string) (int, error) {
	if len(items) == 0 {
		return -1, fmt.Errorf("no items to select from")
	}

	listItems := make([]list.Item, len(items))
	for i, it := range items {
		listItems[i] = pickItem(it)
	}

	l := list.New(listItems, pickDelegate{}, 0, 0)
	l.Title = prompt
	l.Styles.Title = titleStyle
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)

	final, err := tea.NewProgram(pickModel{list: l, choice: -1}).Run()
	if err != nil {
		return -1, fmt.Errorf("running picker: %w", err)
	}

	choice := final.(pickModel).choice
	if choice < 0 {
		return -1, ErrCancelled
	}
	return choice, nil
}

// Confirm asks the user a yes/no question.
func Confirm(prompt string) (bool, error) {
	idx, err := Select(prompt, []string{"Yes", "No"})
	if err != nil {
		return false, err
	}
	return idx == 0, nil
}

type inputModel struct {
	input     textinput.Model
	prompt    string
	submitted bool
}

func (m inputModel) Init() tea.Cmd { return textinput.Blink }

func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			m.submitted = true
			return m, tea.Quit
		case "esc", "ctrl+c":
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m inputModel) View() string {
	return fmt.Sprintf("%s\n\n%s\n\n%s",
		titleStyle.Render(m.prompt),
		m.input.View(),
		dimStyle.Render("enter to confirm, esc to cancel"))
}

// Input prompts the user for free-text input.
func Input(prompt string) (string, error) {
	ti := textinput.New()
	ti.Placeholder = "type here"
	ti.Focus()
	ti.CharLimit = 128

	final, err := tea.NewProgram(inputModel{input: ti, prompt: prompt}).Run()
	if err != nil {
		return "", fmt.Errorf("running input: %w", err)
	}

	m := final.(inputModel)
	value := strings.TrimSpace(m.input.Value())
	if !m.submitted || value == "" {
		return "", ErrCancelled
	}
	return value, nil
}
