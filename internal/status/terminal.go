package status

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"

	"github.com/ytget/ytmp3/internal/model"
)

const clearLine = "\r\033[K"

// Terminal prints status messages and prompts to a writer. On a terminal
// the status line is redrawn in place.
type Terminal struct {
	mu          sync.Mutex
	out         io.Writer
	interactive bool
	pending     bool
	enabled     map[model.JobKind]bool
}

// NewTerminal creates a terminal adapter writing to out
func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{
		out:         out,
		interactive: isTerminal(out),
		enabled:     make(map[model.JobKind]bool),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Message shows msg as the current status line
func (t *Terminal) Message(kind model.JobKind, msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.interactive {
		fmt.Fprintln(t.out, msg)
		return
	}

	// multi-line messages are final and stay on screen
	if strings.Contains(msg, "\n") {
		fmt.Fprint(t.out, clearLine+msg+"\n")
		t.pending = false
		return
	}
	fmt.Fprint(t.out, clearLine+msg)
	t.pending = true
}

// Prompt prints a titled notice on its own line
func (t *Terminal) Prompt(kind model.JobKind, title, msg string, severity model.Severity) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.endLine()
	switch severity {
	case model.SeverityError:
		fmt.Fprintf(t.out, "ERROR %s: %s\n", title, msg)
	case model.SeverityWarning:
		fmt.Fprintf(t.out, "WARNING %s: %s\n", title, msg)
	default:
		fmt.Fprintf(t.out, "%s: %s\n", title, msg)
	}
}

// SetEnabled records whether a new job of kind may be started
func (t *Terminal) SetEnabled(kind model.JobKind, enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.enabled[kind] = enabled
	if enabled {
		t.endLine()
	}
}

// Enabled reports the last enabled state of kind. Kinds never seen are
// enabled.
func (t *Terminal) Enabled(kind model.JobKind) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	enabled, ok := t.enabled[kind]
	return !ok || enabled
}

func (t *Terminal) endLine() {
	if t.pending {
		fmt.Fprintln(t.out)
		t.pending = false
	}
}
