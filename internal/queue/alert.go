package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/vitalixdb/vitalix/internal/analytics/anomaly"
	"github.com/vitalixdb/vitalix/internal/logging"
	"github.com/vitalixdb/vitalix/internal/utils"
)

// AlertSubjectPrefix is the subject namespace for anomaly alert events.
// The severity is appended, e.g. alerts.anomaly.critical.
const AlertSubjectPrefix = "alerts.anomaly"

// AlertEvent is the wire format for a published anomaly alert
type AlertEvent struct {
	UserID     string            `json:"user_id"`
	Detection  anomaly.Detection `json:"detection"`
	EmittedAt  time.Time         `json:"emitted_at"`
	ServiceTag string            `json:"service_tag"`
}

// AlertNotifier publishes high and critical anomaly detections to a queue.
// Lower severities are never published.
type AlertNotifier struct {
	publisher Publisher
	logger    *logging.Logger
}

// NewAlertNotifier creates an alert notifier over a publisher
func NewAlertNotifier(publisher Publisher, logger *logging.Logger) *AlertNotifier {
	return &AlertNotifier{
		publisher: publisher,
		logger:    logger,
	}
}

// AlertSubject returns the publish subject for a severity
func AlertSubject(severity anomaly.Severity) string {
	return fmt.Sprintf("%s.%s", AlertSubjectPrefix, severity)
}

// NotifyDetections publishes alert events for the high and critical
// detections in the batch. Returns the number of alerts published.
// Publish failures are logged and do not fail the detection request.
func (n *AlertNotifier) NotifyDetections(ctx context.Context, userID string, detections []anomaly.Detection) int {
	now := time.Now().UTC()

	messages := make([]BatchMessage, 0, len(detections))
	for _, d := range detections {
		if d.Severity != anomaly.SeverityHigh && d.Severity != anomaly.SeverityCritical {
			continue
		}

		event := AlertEvent{
			UserID:     userID,
			Detection:  d,
			EmittedAt:  now,
			ServiceTag: "vitalix-analytics",
		}

		data, err := json.Marshal(event)
		if err != nil {
			n.logger.Error("Failed to marshal alert event",
				"error", err,
				"user_id", userID,
				"metric", d.Metric)
			continue
		}

		messages = append(messages, BatchMessage{
			Subject: AlertSubject(d.Severity),
			Data:    data,
		})
	}

	if len(messages) == 0 {
		return 0
	}

	publishCtx, cancel := context.WithTimeout(ctx, utils.AlertPublishTimeout)
	defer cancel()

	published, err := n.publisher.PublishBatch(publishCtx, messages)
	if err != nil {
		n.logger.Error("Failed to publish anomaly alerts",
			"error", err,
			"user_id", userID,
			"attempted", len(messages),
			"published", published)
		return published
	}

	n.logger.Info("Published anomaly alerts",
		"user_id", userID,
		"count", published)

	return published
}
