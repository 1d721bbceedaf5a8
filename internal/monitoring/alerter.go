package monitoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/triage-cli/internal/config"
	"github.com/sells-group/triage-cli/internal/resilience"
)

// AlertType identifies the kind of alert.
type AlertType string

const (
	AlertHumanReviewRate AlertType = "human_review_rate"
	AlertUnknownRate     AlertType = "unknown_rate"
)

// Alert represents a single alert to be sent.
type Alert struct {
	Type      AlertType      `json:"type"`
	Severity  string         `json:"severity"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Alerter evaluates a MetricsSnapshot against configured thresholds
// and sends alerts via webhook when thresholds are breached.
type Alerter struct {
	cfg     config.MonitoringConfig
	client  *http.Client
	backoff resilience.Backoff
}

// NewAlerter creates a new Alerter with the given monitoring config.
func NewAlerter(cfg config.MonitoringConfig) *Alerter {
	return &Alerter{
		cfg:     cfg,
		client:  &http.Client{Timeout: 10 * time.Second},
		backoff: resilience.DefaultBackoff(),
	}
}

// Evaluate checks the snapshot against thresholds and returns any alerts.
// Nothing fires until MinSamples tickets have been recorded.
func (a *Alerter) Evaluate(snap *MetricsSnapshot) []Alert {
	if snap == nil || snap.Total == 0 || snap.Total < a.cfg.MinSamples {
		return nil
	}

	var alerts []Alert
	now := time.Now().UTC()

	if a.cfg.HumanReviewRateThreshold > 0 && snap.HumanReviewRate > a.cfg.HumanReviewRateThreshold {
		alerts = append(alerts, Alert{
			Type:     AlertHumanReviewRate,
			Severity: "medium",
			Message: fmt.Sprintf(
				"Human review rate %.1f%% exceeds threshold %.1f%% (%d of %d tickets)",
				snap.HumanReviewRate*100, a.cfg.HumanReviewRateThreshold*100,
				snap.HumanReview, snap.Total,
			),
			Details: map[string]any{
				"human_review_rate": snap.HumanReviewRate,
				"threshold":         a.cfg.HumanReviewRateThreshold,
				"human_review":      snap.HumanReview,
				"total":             snap.Total,
			},
			Timestamp: now,
		})
	}

	if a.cfg.UnknownRateThreshold > 0 && snap.UnknownRate > a.cfg.UnknownRateThreshold {
		alerts = append(alerts, Alert{
			Type:     AlertUnknownRate,
			Severity: "low",
			Message: fmt.Sprintf(
				"Unclassified rate %.1f%% exceeds threshold %.1f%%; keyword tables may need tuning",
				snap.UnknownRate*100, a.cfg.UnknownRateThreshold*100,
			),
			Details: map[string]any{
				"unknown_rate": snap.UnknownRate,
				"threshold":    a.cfg.UnknownRateThreshold,
				"unknown":      snap.Unknown,
				"total":        snap.Total,
			},
			Timestamp: now,
		})
	}

	return alerts
}

// SendAlerts delivers alerts to the configured webhook URL.
// Returns the number of alerts successfully sent.
func (a *Alerter) SendAlerts(ctx context.Context, alerts []Alert) int {
	if a.cfg.WebhookURL == "" || len(alerts) == 0 {
		return 0
	}

	sent := 0
	for _, alert := range alerts {
		err := resilience.Retry(ctx, a.backoff, "monitoring.webhook", func(ctx context.Context) error {
			return a.sendWebhook(ctx, alert)
		})
		if err != nil {
			zap.L().Error("monitoring: failed to send alert",
				zap.String("type", string(alert.Type)),
				zap.Error(err),
			)
			continue
		}
		zap.L().Info("monitoring: alert sent",
			zap.String("type", string(alert.Type)),
			zap.String("severity", alert.Severity),
		)
		sent++
	}
	return sent
}

// sendWebhook posts a single alert to the webhook URL.
func (a *Alerter) sendWebhook(ctx context.Context, alert Alert) error {
	payload, err := json.Marshal(alert)
	if err != nil {
		return eris.Wrap(err, "monitoring: marshal alert")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.WebhookURL, bytes.NewReader(payload))
	if err != nil {
		return eris.Wrap(err, "monitoring: create webhook request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return eris.Wrap(err, "monitoring: webhook request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= 400 {
		return &resilience.StatusError{Code: resp.StatusCode}
	}
	return nil
}
