package notify

// ProjectEvaluatedEvent is sent when the last criterion is scored and the
// project reaches EVALUATED.
type ProjectEvaluatedEvent struct {
	ProjectID     uint
	ProjectName   string
	PortfolioName string
	Score         float64
}

// DecisionEvent is sent when an evaluated project is approved, rejected or
// sent back for more information.
type DecisionEvent struct {
	ProjectID   uint
	ProjectName string
	Decision    string // new status name
	DeciderName string
}

// ProjectFinishedEvent is sent when a running project completes.
type ProjectFinishedEvent struct {
	ProjectID   uint
	ProjectName string
	Score       *float64
}
