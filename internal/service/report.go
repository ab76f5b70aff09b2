package service

import (
	"time"

	"github.com/CHFernandes/Opus-Fenestra-sub000/internal/apperr"
	"github.com/CHFernandes/Opus-Fenestra-sub000/internal/model"
	"gorm.io/gorm"
)

// DefaultAtRiskThreshold is how many percentage points completion may trail
// elapsed planned time before a running project counts as at risk.
const DefaultAtRiskThreshold = 15.0

// ReportService answers the query-only views over the lifecycle: per-status
// counts and the "overdue" / "at risk" virtual categories. These are filters,
// not states.
type ReportService struct {
	db              *gorm.DB
	atRiskThreshold float64
}

func NewReportService(db *gorm.DB, atRiskThreshold float64) *ReportService {
	if atRiskThreshold <= 0 {
		atRiskThreshold = DefaultAtRiskThreshold
	}
	return &ReportService{db: db, atRiskThreshold: atRiskThreshold}
}

func (s *ReportService) StatusCounts(portfolioID uint) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, code := range model.AllStatuses() {
		var count int64
		if err := s.db.Model(&model.Project{}).
			Where("portfolio_id = ? AND status_id = ?", portfolioID, uint(code)).
			Count(&count).Error; err != nil {
			return nil, apperr.Storage(err)
		}
		counts[code.String()] = count
	}
	var total int64
	if err := s.db.Model(&model.Project{}).Where("portfolio_id = ?", portfolioID).Count(&total).Error; err != nil {
		return nil, apperr.Storage(err)
	}
	counts["total"] = total
	return counts, nil
}

// Overdue lists running projects past their planned end date.
func (s *ReportService) Overdue(portfolioID uint) ([]model.Project, error) {
	var projects []model.Project
	if err := s.db.Preload("Responsible").
		Where("portfolio_id = ? AND status_id = ? AND planned_end_date < ?",
			portfolioID, uint(model.StatusRunning), time.Now().UTC()).
		Order("planned_end_date asc").
		Find(&projects).Error; err != nil {
		return nil, apperr.Storage(err)
	}
	return projects, nil
}

// AtRisk lists running projects whose completion trails the elapsed share of
// the planned window by more than the threshold. The time math runs in Go to
// stay portable across databases.
func (s *ReportService) AtRisk(portfolioID uint) ([]model.Project, error) {
	var running []model.Project
	if err := s.db.Preload("Responsible").
		Where("portfolio_id = ? AND status_id = ?", portfolioID, uint(model.StatusRunning)).
		Find(&running).Error; err != nil {
		return nil, apperr.Storage(err)
	}

	now := time.Now().UTC()
	atRisk := make([]model.Project, 0)
	for _, p := range running {
		if expected := expectedProgress(p.PlannedStartDate, p.PlannedEndDate, now); expected-float64(p.Completion) > s.atRiskThreshold {
			atRisk = append(atRisk, p)
		}
	}
	return atRisk, nil
}

// expectedProgress is the elapsed fraction of the planned window, in percent,
// clamped to [0, 100].
func expectedProgress(start, end, now time.Time) float64 {
	window := end.Sub(start)
	if window <= 0 {
		return 100
	}
	elapsed := now.Sub(start)
	if elapsed <= 0 {
		return 0
	}
	if elapsed >= window {
		return 100
	}
	return float64(elapsed) / float64(window) * 100
}
