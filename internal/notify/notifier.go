package notify

import (
	"context"
	"log"
)

// Notifier defines the interface for announcing lifecycle milestones. Delivery
// channels live behind this seam; the core only fires events after commit.
type Notifier interface {
	NotifyProjectEvaluated(ctx context.Context, e ProjectEvaluatedEvent) error
	NotifyDecision(ctx context.Context, e DecisionEvent) error
	NotifyProjectFinished(ctx context.Context, e ProjectFinishedEvent) error
}

// NoopNotifier is used when notifications are disabled.
type NoopNotifier struct{}

func (NoopNotifier) NotifyProjectEvaluated(context.Context, ProjectEvaluatedEvent) error { return nil }
func (NoopNotifier) NotifyDecision(context.Context, DecisionEvent) error                 { return nil }
func (NoopNotifier) NotifyProjectFinished(context.Context, ProjectFinishedEvent) error   { return nil }

// LogNotifier writes lifecycle milestones to the process log.
type LogNotifier struct{}

func (LogNotifier) NotifyProjectEvaluated(_ context.Context, e ProjectEvaluatedEvent) error {
	log.Printf("[notify] project %d (%s) evaluated, score=%.2f", e.ProjectID, e.ProjectName, e.Score)
	return nil
}

func (LogNotifier) NotifyDecision(_ context.Context, e DecisionEvent) error {
	log.Printf("[notify] project %d (%s) decision: %s by %s", e.ProjectID, e.ProjectName, e.Decision, e.DeciderName)
	return nil
}

func (LogNotifier) NotifyProjectFinished(_ context.Context, e ProjectFinishedEvent) error {
	if e.Score != nil {
		log.Printf("[notify] project %d (%s) finished, score=%.2f", e.ProjectID, e.ProjectName, *e.Score)
	} else {
		log.Printf("[notify] project %d (%s) finished", e.ProjectID, e.ProjectName)
	}
	return nil
}

var _ Notifier = NoopNotifier{}
var _ Notifier = LogNotifier{}
