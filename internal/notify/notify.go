// Package notify provides notification delivery for analysis results.
package notify

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"smc-analyst/internal/config"
	"smc-analyst/internal/models"
)

// Notifier defines the interface for sending notifications.
type Notifier interface {
	Send(ctx context.Context, n Notification) error
	SendSetups(ctx context.Context, results []*models.AnalysisResult) error
	SendError(ctx context.Context, err error, context string) error
}

// NotificationChannel defines the interface for a notification channel.
type NotificationChannel interface {
	Name() string
	Send(ctx context.Context, n Notification) error
	IsEnabled() bool
}

// Notification represents a notification message.
type Notification struct {
	Type      NotificationType
	Title     string
	Message   string
	Timestamp time.Time
}

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationSetup NotificationType = "setup"
	NotificationError NotificationType = "error"
	NotificationInfo  NotificationType = "info"
)

// MultiNotifier sends notifications to multiple channels.
type MultiNotifier struct {
	channels []NotificationChannel
	mu       sync.RWMutex
}

// NewMultiNotifier creates a new MultiNotifier with the given configuration.
func NewMultiNotifier(cfg *config.NotificationConfig) *MultiNotifier {
	mn := &MultiNotifier{channels: make([]NotificationChannel, 0)}
	if cfg.Terminal.Enabled {
		mn.channels = append(mn.channels, NewTerminalNotifier(cfg.Terminal))
	}
	if cfg.Email.Enabled {
		mn.channels = append(mn.channels, NewEmailNotifier(cfg.Email))
	}
	return mn
}

// AddChannel adds a notification channel.
func (mn *MultiNotifier) AddChannel(ch NotificationChannel) {
	mn.mu.Lock()
	defer mn.mu.Unlock()
	mn.channels = append(mn.channels, ch)
}

// Send sends a notification to all enabled channels.
func (mn *MultiNotifier) Send(ctx context.Context, n Notification) error {
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now()
	}

	mn.mu.RLock()
	channels := mn.channels
	mn.mu.RUnlock()

	var errs []string
	for _, ch := range channels {
		if ch.IsEnabled() {
			if err := ch.Send(ctx, n); err != nil {
				errs = append(errs, fmt.Sprintf("%s: %v", ch.Name(), err))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("notification errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

// SendSetups sends one consolidated notification covering all valid
// setups from a batch run. Runs with no valid setups send nothing.
func (mn *MultiNotifier) SendSetups(ctx context.Context, results []*models.AnalysisResult) error {
	var valid []*models.AnalysisResult
	for _, r := range results {
		if r.Verdict == models.VerdictValidSetup && r.Plan != nil {
			valid = append(valid, r)
		}
	}
	if len(valid) == 0 {
		return nil
	}

	title := fmt.Sprintf("SMC Analyst: %d valid setup(s)", len(valid))

	var sb strings.Builder
	for _, r := range valid {
		plan := r.Plan
		sb.WriteString(fmt.Sprintf("%s %s\n", plan.Direction, plan.Instrument))
		sb.WriteString(fmt.Sprintf("  Entry: %.5f - %.5f\n", plan.EntryZoneStart, plan.EntryZoneEnd))
		sb.WriteString(fmt.Sprintf("  Stop: %.5f\n", plan.StopLoss))
		sb.WriteString(fmt.Sprintf("  Target 1: %.5f | Target 2: %.5f\n", plan.Target1, plan.Target2))
		sb.WriteString(fmt.Sprintf("  R:R %.1f | Probability %.0f%%\n", plan.EstimatedRR, plan.Probability))
		if r.Setup != nil {
			sb.WriteString(fmt.Sprintf("  Zone: %s (%.2f) | Trend: %s | Event: %s\n",
				r.Setup.Zone, r.Setup.ZonePosition, r.Setup.HTFTrend, r.Setup.LiquidityEvent))
		}
		sb.WriteString("\n")
	}

	return mn.Send(ctx, Notification{
		Type:    NotificationSetup,
		Title:   title,
		Message: sb.String(),
	})
}

// SendError sends an error notification.
func (mn *MultiNotifier) SendError(ctx context.Context, err error, errContext string) error {
	return mn.Send(ctx, Notification{
		Type:  NotificationError,
		Title: "SMC Analyst: error",
		Message: fmt.Sprintf("Context: %s\nError: %v\nTime: %s",
			errContext, err, time.Now().Format("15:04:05")),
	})
}

// NoOpNotifier is a notifier that does nothing (for testing or disabled
// notifications).
type NoOpNotifier struct{}

// NewNoOpNotifier creates a new NoOpNotifier.
func NewNoOpNotifier() *NoOpNotifier {
	return &NoOpNotifier{}
}

// Send does nothing.
func (n *NoOpNotifier) Send(ctx context.Context, notif Notification) error {
	return nil
}

// SendSetups does nothing.
func (n *NoOpNotifier) SendSetups(ctx context.Context, results []*models.AnalysisResult) error {
	return nil
}

// SendError does nothing.
func (n *NoOpNotifier) SendError(ctx context.Context, err error, context string) error {
	return nil
}
