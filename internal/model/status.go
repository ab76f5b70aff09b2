package model

import "time"

// StatusCode is the closed set of lifecycle states a project may occupy. The
// numeric values match the seeded statuses reference table.
type StatusCode uint

const (
	StatusRegistered StatusCode = iota + 1
	StatusEvaluated
	StatusApproved
	StatusNeedsInfo
	StatusRejected
	StatusRunning
	StatusStopped
	StatusFinished
	StatusCancelled
)

var statusNames = map[StatusCode]string{
	StatusRegistered: "REGISTERED",
	StatusEvaluated:  "EVALUATED",
	StatusApproved:   "APPROVED",
	StatusNeedsInfo:  "NEEDS_INFO",
	StatusRejected:   "REJECTED",
	StatusRunning:    "RUNNING",
	StatusStopped:    "STOPPED",
	StatusFinished:   "FINISHED",
	StatusCancelled:  "CANCELLED",
}

func (s StatusCode) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

func (s StatusCode) Valid() bool {
	_, ok := statusNames[s]
	return ok
}

func ParseStatus(name string) (StatusCode, bool) {
	for code, n := range statusNames {
		if n == name {
			return code, true
		}
	}
	return 0, false
}

func AllStatuses() []StatusCode {
	codes := make([]StatusCode, 0, len(statusNames))
	for c := StatusRegistered; c <= StatusCancelled; c++ {
		codes = append(codes, c)
	}
	return codes
}

// Status is the reference table row backing StatusCode. Fixed cardinality,
// seeded at migration.
type Status struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"type:varchar(20);not null;uniqueIndex:idx_status_name" json:"name"`
}

func (Status) TableName() string { return "statuses" }

// ProjectStatus is one row of the append-only transition ledger. Never updated
// or deleted.
type ProjectStatus struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PersonID    uint      `gorm:"not null;index:idx_history_person" json:"person_id"`
	ProjectID   uint      `gorm:"not null;index:idx_history_project" json:"project_id"`
	StatusID    uint      `gorm:"not null" json:"status_id"`
	ChangedTime time.Time `gorm:"not null;index:idx_history_changed" json:"changed_time"`

	Person  *Person  `gorm:"foreignKey:PersonID" json:"person,omitempty"`
	Project *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Status  *Status  `gorm:"foreignKey:StatusID" json:"status,omitempty"`
}

func (ProjectStatus) TableName() string { return "project_statuses" }
