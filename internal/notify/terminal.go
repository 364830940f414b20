package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#16a34a"))
	destructiveStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#dc2626"))
	descStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
)

// TerminalNotifier prints notifications as styled lines. An update is
// printed as a new line prefixed by the same marker as its creation.
type TerminalNotifier struct {
	mu  sync.Mutex
	out io.Writer
}

// NewTerminal returns a notifier writing to out.
func NewTerminal(out io.Writer) *TerminalNotifier {
	return &TerminalNotifier{out: out}
}

func (n *TerminalNotifier) Create(msg Message) Handle {
	h := newHandle()
	n.print("…", msg)
	return h
}

func (n *TerminalNotifier) Update(_ Handle, msg Message) {
	marker := "✔"
	if msg.Variant == VariantDestructive {
		marker = "✘"
	}
	n.print(marker, msg)
}

func (n *TerminalNotifier) print(marker string, msg Message) {
	n.mu.Lock()
	defer n.mu.Unlock()

	style := titleStyle
	if msg.Variant == VariantDestructive {
		style = destructiveStyle
	}
	fmt.Fprintf(n.out, "%s %s  %s\n", marker, style.Render(msg.Title), descStyle.Render(msg.Description))
}
