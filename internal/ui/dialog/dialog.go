// Package dialog is the confirm/reason modal used before mutations.
//
// States: Closed -> Open -> Submitting -> Closed on success, or back to
// Open with the error shown. A required reason keeps the dialog Open
// until one is typed. Cancel does nothing while Submitting.
package dialog

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// State is the dialog lifecycle.
type State int

const (
	Closed State = iota
	Open
	Submitting
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case Submitting:
		return "submitting"
	}
	return "unknown"
}

// Submitted is emitted when the user confirms.
type Submitted struct {
	Reason  string
	Payload any
}

// Cancelled is emitted when the user backs out.
type Cancelled struct {
	Payload any
}

var (
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2)
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Model is the dialog. The zero value is Closed and unusable until New.
type Model struct {
	state   State
	title   string
	prompt  string
	reason  bool // show the text area
	require bool // reason must be non-blank
	input   textarea.Model
	err     string
	payload any
}

// New returns a closed dialog.
func New() Model {
	ta := textarea.New()
	ta.Placeholder = "Reason"
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.SetWidth(48)
	ta.CharLimit = 500
	ta.KeyMap.InsertNewline.SetEnabled(false)
	return Model{input: ta}
}

// Confirm opens a yes/no dialog.
func (m *Model) Confirm(title, prompt string, payload any) {
	m.open(title, prompt, false, false, payload)
}

// AskReason opens a dialog with a reason field. required makes a blank
// reason refuse submission.
func (m *Model) AskReason(title, prompt string, required bool, payload any) tea.Cmd {
	m.open(title, prompt, true, required, payload)
	return m.input.Focus()
}

func (m *Model) open(title, prompt string, reason, required bool, payload any) {
	m.state = Open
	m.title = title
	m.prompt = prompt
	m.reason = reason
	m.require = required
	m.payload = payload
	m.err = ""
	m.input.Reset()
}

// Submit moves Open to Submitting. It refuses when a required reason is
// blank and records why.
func (m *Model) Submit() (Submitted, bool) {
	if m.state != Open {
		return Submitted{}, false
	}
	reason := strings.TrimSpace(m.input.Value())
	if m.require && reason == "" {
		m.err = "A reason is required"
		return Submitted{}, false
	}
	m.state = Submitting
	m.err = ""
	m.input.Blur()
	return Submitted{Reason: reason, Payload: m.payload}, true
}

// Cancel closes an Open dialog. It is ignored while Submitting.
func (m *Model) Cancel() bool {
	if m.state != Open {
		return false
	}
	m.close()
	return true
}

// Finish ends a submission: Closed on success, Open with err otherwise.
func (m *Model) Finish(err error) {
	if m.state != Submitting {
		return
	}
	if err == nil {
		m.close()
		return
	}
	m.state = Open
	m.err = err.Error()
	if m.reason {
		m.input.Focus()
	}
}

func (m *Model) close() {
	m.state = Closed
	m.payload = nil
	m.err = ""
	m.input.Blur()
	m.input.Reset()
}

// State returns the lifecycle state.
func (m Model) State() State { return m.state }

// Active reports whether the dialog should capture input.
func (m Model) Active() bool { return m.state != Closed }

// Err is the message shown after a failed submission or blank reason.
func (m Model) Err() string { return m.err }

// Payload is what the dialog was opened with.
func (m Model) Payload() any { return m.payload }

// Forward passes non-key messages (cursor blinks) to the reason field.
func (m Model) Forward(msg tea.Msg) (Model, tea.Cmd) {
	if !m.reason || m.state == Closed {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// Update handles keys while the dialog is open.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || m.state == Closed {
		return m, nil
	}

	switch key.String() {
	case "esc":
		payload := m.payload
		if m.Cancel() {
			return m, func() tea.Msg { return Cancelled{Payload: payload} }
		}
		return m, nil
	case "enter":
		if s, ok := m.Submit(); ok {
			return m, func() tea.Msg { return s }
		}
		return m, nil
	case "y":
		if !m.reason {
			if s, ok := m.Submit(); ok {
				return m, func() tea.Msg { return s }
			}
			return m, nil
		}
	case "n":
		if !m.reason {
			payload := m.payload
			if m.Cancel() {
				return m, func() tea.Msg { return Cancelled{Payload: payload} }
			}
			return m, nil
		}
	}

	if m.state != Open || !m.reason {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.err != "" && strings.TrimSpace(m.input.Value()) != "" {
		m.err = ""
	}
	return m, cmd
}

// View renders the box, or "" when closed.
func (m Model) View() string {
	if m.state == Closed {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")
	b.WriteString(m.prompt)
	b.WriteString("\n")
	if m.reason {
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}
	if m.err != "" {
		b.WriteString("\n")
		b.WriteString(errStyle.Render(m.err))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	switch {
	case m.state == Submitting:
		b.WriteString(hintStyle.Render("Working..."))
	case m.reason:
		b.WriteString(hintStyle.Render("enter: submit  esc: cancel"))
	default:
		b.WriteString(hintStyle.Render("y/enter: confirm  n/esc: cancel"))
	}
	return boxStyle.Render(b.String())
}
