package annotations

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
)

// OutputFormatter formats events for human-readable display.
type OutputFormatter struct {
	useColor bool
	writer   io.Writer
}

// NewOutputFormatter creates a formatter that colors its output only when w
// is a terminal.
func NewOutputFormatter(w io.Writer) *OutputFormatter {
	if w == nil {
		w = os.Stdout
	}

	useColor := false
	if f, ok := w.(*os.File); ok && (f == os.Stdout || f == os.Stderr) {
		useColor = !color.NoColor
	}

	return &OutputFormatter{useColor: useColor, writer: w}
}

// Handle prints events as they occur. It is a Handler.
func (f *OutputFormatter) Handle(event Event) {
	output := f.Format(event)
	if output != "" {
		fmt.Fprintln(f.writer, output)
	}
}

// Format converts an event to a human-readable string.
func (f *OutputFormatter) Format(event Event) string {
	latency := f.formatLatency(event.Latency)

	switch event.Name {
	case CompileInvoked:
		return fmt.Sprintf("%s %s Compile %s %s: %s",
			latency,
			f.colorize("===", color.FgYellow),
			shortID(event.CompileID),
			event.Data["query.kind"],
			truncate(fmt.Sprint(event.Data["query"])))

	case WhereMapped:
		return fmt.Sprintf("%s Mapped WHERE with %s and %s",
			latency,
			f.colorizeCount("graph variables", event.Data["graph.variables"]),
			f.colorizeCount("graph IRIs", event.Data["graph.iris"]))

	case NamedGraphsBound:
		return fmt.Sprintf("%s Bound %v to %s",
			latency,
			event.Data["graph.variables"],
			f.colorizeCount("named graphs", event.Data["named.count"]))

	case WhereSimplified:
		if changed, _ := event.Data["changed"].(bool); !changed {
			return fmt.Sprintf("%s Simplified WHERE (unchanged)", latency)
		}
		return fmt.Sprintf("%s Simplified WHERE", latency)

	case GraphsResolved:
		return fmt.Sprintf("%s Resolved %s from %s (union depth %v)",
			latency,
			f.colorizeCount("default graphs", event.Data["default.count"]),
			f.colorize(fmt.Sprint(event.Data["source"]), color.FgCyan),
			event.Data["union.depth"])

	case CompileComplete:
		if success, _ := event.Data["success"].(bool); !success {
			return fmt.Sprintf("%s %s Compile failed: %v",
				latency,
				f.colorize("✗", color.FgRed),
				event.Data["error"])
		}
		return fmt.Sprintf("%s %s Compile done: %s command",
			latency,
			f.colorize("===", color.FgGreen),
			event.Data["query.kind"])

	case ErrorStructural, ErrorUnsupported, ErrorCatalog:
		return fmt.Sprintf("%s %s %s [%v]: %v",
			latency,
			f.colorize("✗", color.FgRed),
			strings.TrimPrefix(event.Name, "error/"),
			event.Data["code"],
			event.Data["error"])

	default:
		// Generic format for unknown events
		return fmt.Sprintf("%s %s %v", latency, event.Name, event.Data)
	}
}

// formatLatency formats a duration as [XXXms] or [XXXµs] with color coding.
func (f *OutputFormatter) formatLatency(d time.Duration) string {
	if d < time.Millisecond {
		s := fmt.Sprintf("[%dµs]", d.Microseconds())
		if !f.useColor {
			return s
		}
		return color.GreenString(s)
	}

	ms := float64(d.Microseconds()) / 1000.0
	s := fmt.Sprintf("[%.1fms]", ms)
	if !f.useColor {
		return s
	}

	switch {
	case ms < 5:
		return color.GreenString(s)
	case ms < 50:
		return color.YellowString(s)
	default:
		return color.RedString(s)
	}
}

// colorizeCount formats a count with a label.
func (f *OutputFormatter) colorizeCount(label string, count any) string {
	text := fmt.Sprintf("%v %s", count, label)
	if !f.useColor {
		return text
	}
	return color.MagentaString(text)
}

// colorize applies color if enabled.
func (f *OutputFormatter) colorize(text string, attrs ...color.Attribute) string {
	if !f.useColor {
		return text
	}
	return color.New(attrs...).Sprint(text)
}

// truncate shortens long queries for display.
func truncate(query string) string {
	query = strings.Join(strings.Fields(query), " ")

	const maxLen = 80
	if len(query) <= maxLen {
		return query
	}
	return query[:maxLen-3] + "..."
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
