// Package console renders simulation and audit events for a terminal, with a
// distinct colour per agent so interleaved traces stay readable.
package console

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"justact/pkg/justact"
)

var palette = []lipgloss.Color{
	lipgloss.Color("3"),  // yellow
	lipgloss.Color("2"),  // green
	lipgloss.Color("6"),  // cyan
	lipgloss.Color("5"),  // magenta
	lipgloss.Color("4"),  // blue
	lipgloss.Color("1"),  // red
}

var (
	passStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).PaddingLeft(1).PaddingRight(1)
	faintStyle = lipgloss.NewStyle().Faint(true)
)

// Interface writes styled event lines to a single output. It is the demo
// counterpart of an auditor's notebook: every statement, enactment and
// verdict passes through here.
type Interface struct {
	mu     sync.Mutex
	out    io.Writer
	styles map[string]lipgloss.Style
}

// New builds an Interface writing to out.
func New(out io.Writer) *Interface {
	return &Interface{out: out, styles: make(map[string]lipgloss.Style)}
}

// Register assigns the next palette colour to an agent. Unregistered agents
// render unstyled.
func (i *Interface) Register(agent string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if _, ok := i.styles[agent]; ok {
		return
	}
	colour := palette[len(i.styles)%len(palette)]
	i.styles[agent] = lipgloss.NewStyle().Foreground(colour).Bold(true)
}

func (i *Interface) style(agent string) lipgloss.Style {
	if s, ok := i.styles[agent]; ok {
		return s
	}
	return lipgloss.NewStyle()
}

// LogState records that an agent stated a message, printing its policy in a
// box below the header.
func (i *Interface) LogState(agent string, msg justact.Message) {
	i.mu.Lock()
	defer i.mu.Unlock()
	fmt.Fprintf(i.out, "%s states message '%s':\n%s\n",
		i.style(agent).Render(agent), msg.ID, boxStyle.Render(strings.TrimRight(string(msg.Payload), "\n")))
}

// LogAgree records that a message became an agreement.
func (i *Interface) LogAgree(agent string, agr justact.Agreement) {
	i.mu.Lock()
	defer i.mu.Unlock()
	fmt.Fprintf(i.out, "%s agrees on '%s' valid at time %d\n",
		i.style(agent).Render(agent), agr.Message.ID, agr.ValidAt)
}

// LogEnact records that an agent enacted an action.
func (i *Interface) LogEnact(agent string, act justact.Action) {
	i.mu.Lock()
	defer i.mu.Unlock()
	just := act.FullJustification().IDs()
	fmt.Fprintf(i.out, "%s enacts '%s' (basis '%s' at %d, justified by %s)\n",
		i.style(agent).Render(agent), act.Enacts.ID, act.Basis.Message.ID, act.TakenAt,
		faintStyle.Render("{"+strings.Join(just, ", ")+"}"))
}

// LogAuditPass records a passed audit.
func (i *Interface) LogAuditPass(auditor, actionID string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	fmt.Fprintf(i.out, "%s audits '%s': %s\n",
		i.style(auditor).Render(auditor), actionID, passStyle.Render("OK"))
}

// LogAuditFail records a failed audit together with its explanation.
func (i *Interface) LogAuditFail(auditor, actionID string, explanation error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	fmt.Fprintf(i.out, "%s audits '%s': %s %s\n",
		i.style(auditor).Render(auditor), actionID, failStyle.Render("FAIL"), explanation)
}
