package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/client/models"
	"github.com/fatih/color"
	"golang.org/x/term"
)

// isTerminal is a test seam for terminal detection.
var isTerminal = term.IsTerminal

const listDateLayout = "2006-01-02 15:04"

var severityAttrs = map[models.Severity]color.Attribute{
	models.SeveritySuccess: color.FgGreen,
	models.SeverityInfo:    color.FgCyan,
	models.SeverityWarning: color.FgYellow,
	models.SeverityDanger:  color.FgRed,
}

// Notifier prints user-facing notifications, coloured by severity when
// writing to a terminal and NO_COLOR is unset. It is safe for concurrent
// use; the playback engine notifies from its own goroutines.
type Notifier struct {
	mu     sync.Mutex
	out    io.Writer
	colors map[models.Severity]*color.Color
}

func NewNotifier(out io.Writer) *Notifier {
	enabled := false
	if f, ok := out.(*os.File); ok {
		_, noColor := os.LookupEnv("NO_COLOR")
		enabled = !noColor && isTerminal(int(f.Fd()))
	}

	n := &Notifier{out: out, colors: make(map[models.Severity]*color.Color, len(severityAttrs))}
	for sev, attr := range severityAttrs {
		c := color.New(attr)
		// the package-wide color.NoColor looks at os.Stdout, not at out
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		n.colors[sev] = c
	}
	return n
}

// Notify implements playback.Notifier.
func (n *Notifier) Notify(msg string, sev models.Severity) {
	n.mu.Lock()
	defer n.mu.Unlock()

	tag := "[" + string(sev) + "]"
	if c, ok := n.colors[sev]; ok {
		tag = c.Sprint(tag)
	}
	fmt.Fprintf(n.out, "%s %s\n", tag, msg)
}

func formatListDate(t time.Time) string {
	return t.Local().Format(listDateLayout)
}

// renderList writes one line per entry, or the empty-journal placeholder.
func renderList(w io.Writer, items []models.EntrySummary) {
	if len(items) == 0 {
		fmt.Fprintln(w, models.EmptyJournalPlaceholder)
		return
	}
	for _, it := range items {
		fmt.Fprintf(w, "%4d  %s  %s\n", it.ID, formatListDate(it.Date), it.Title)
	}
}

func renderEntry(w io.Writer, v *models.EntryView) {
	fmt.Fprintf(w, "# %s\n", v.Title)
	fmt.Fprintf(w, "%s\n\n", formatListDate(v.Date))
	fmt.Fprintln(w, strings.TrimRight(v.Content, "\n"))
}
