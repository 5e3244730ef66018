package main

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	markStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	ownStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Strikethrough(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// outputLines is how much of the event log the TUI keeps on screen.
const outputLines = 14

type modelState int

const (
	stateStepping modelState = iota
	stateNaming
)

type interactiveModel struct {
	scn   *scenario
	out   *bytes.Buffer
	input textinput.Model
	state modelState
}

func newInteractiveModel() *interactiveModel {
	out := &bytes.Buffer{}

	ti := textinput.New()
	ti.Placeholder = "Pluto"
	ti.Prompt = "name: "
	ti.CharLimit = 32
	ti.Width = 32

	return &interactiveModel{
		scn:   newScenario(out, func(s string) string { return markStyle.Render(s) }),
		out:   out,
		input: ti,
		state: stateStepping,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.state == stateNaming {
		switch key.String() {
		case "enter":
			name := strings.TrimSpace(m.input.Value())
			if name == "" {
				name = m.input.Placeholder
			}
			m.scn.say("Adopting " + name + " via ResetTo()")
			m.scn.dog.ResetTo(m.scn.newDog(name))
			m.input.Reset()
			m.input.Blur()
			m.state = stateStepping
			return m, nil
		case "esc":
			m.input.Reset()
			m.input.Blur()
			m.state = stateStepping
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch key.String() {
	case "ctrl+c", "q":
		_ = m.scn.dog.Close()
		return m, tea.Quit

	case "enter", " ", "j", "down":
		m.scn.step()

	case "n":
		m.state = stateNaming
		return m, m.input.Focus()

	case "d":
		if m.scn.dog.DeletesPointer() {
			m.scn.say("Calling DisableDelete()")
			m.scn.dog.DisableDelete()
		} else {
			m.scn.say("Calling EnableDelete()")
			m.scn.dog.EnableDelete()
		}

	case "r":
		m.scn.say("Calling Release()")
		m.scn.dog.Release()

	case "x":
		m.scn.say("Calling Reset()")
		m.scn.dog.Reset()
	}

	return m, nil
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("managed.Ptr[Dog]"))
	b.WriteString(" ")
	b.WriteString(m.status())
	b.WriteString("\n\n")

	for i, st := range steps {
		switch {
		case i < m.scn.next:
			b.WriteString("  " + doneStyle.Render(st.title))
		case i == m.scn.next:
			b.WriteString(selectedStyle.Render("> " + st.title))
		default:
			b.WriteString("  " + st.title)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	lines := strings.Split(strings.TrimSuffix(m.out.String(), "\n"), "\n")
	if len(lines) > outputLines {
		lines = lines[len(lines)-outputLines:]
	}
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n\n")

	if m.state == stateNaming {
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter adopt • esc cancel"))
	} else {
		b.WriteString(helpStyle.Render("enter step • n new dog • d toggle delete • r release • x reset • q quit"))
	}

	return b.String()
}

func (m *interactiveModel) status() string {
	policy := "deletes"
	if !m.scn.dog.DeletesPointer() {
		policy = "keeps"
	}
	if !m.scn.dog.Valid() {
		return emptyStyle.Render(fmt.Sprintf("empty (%s)", policy))
	}
	return ownStyle.Render(fmt.Sprintf("owns %s (%s)", m.scn.dog.Get().Name(), policy))
}

func runInteractive() error {
	p := tea.NewProgram(newInteractiveModel(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
