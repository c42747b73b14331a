package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"smc-analyst/internal/config"
)

// TerminalNotifier prints notifications to the terminal with a type
// indicator, an optional bell for setup and error notifications, and
// optional ANSI colors.
type TerminalNotifier struct {
	cfg    config.TerminalConfig
	writer io.Writer
}

// NewTerminalNotifier creates a terminal notification channel.
func NewTerminalNotifier(cfg config.TerminalConfig) *TerminalNotifier {
	return &TerminalNotifier{cfg: cfg, writer: os.Stdout}
}

// Name returns the channel name.
func (t *TerminalNotifier) Name() string {
	return "terminal"
}

// IsEnabled returns whether terminal notifications are enabled.
func (t *TerminalNotifier) IsEnabled() bool {
	return t.cfg.Enabled
}

// Send prints the notification. Setup and error notifications ring the
// bell when enabled; info notifications stay silent.
func (t *TerminalNotifier) Send(ctx context.Context, n Notification) error {
	if t.cfg.Bell && n.Type != NotificationInfo {
		fmt.Fprint(t.writer, "\a")
	}
	fmt.Fprintln(t.writer, formatTerminal(n, t.cfg.Color))
	return nil
}

// formatTerminal renders one notification as a timestamped header line
// followed by the indented message body.
func formatTerminal(n Notification, colorEnabled bool) string {
	var indicator, color, reset string
	if colorEnabled {
		reset = "\033[0m"
	}

	switch n.Type {
	case NotificationSetup:
		indicator = "SETUP"
		if colorEnabled {
			color = "\033[32m" // green
		}
	case NotificationError:
		indicator = "ERROR"
		if colorEnabled {
			color = "\033[31m" // red
		}
	default:
		indicator = "INFO"
		if colorEnabled {
			color = "\033[36m" // cyan
		}
	}

	ts := n.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s[%s] %s%s | %s", color, ts.Format("15:04:05"), indicator, reset, n.Title))
	for _, line := range strings.Split(strings.TrimRight(n.Message, "\n"), "\n") {
		sb.WriteString("\n    ")
		sb.WriteString(line)
	}
	return sb.String()
}
