package handler

import (
	"github.com/CHFernandes/Opus-Fenestra-sub000/internal/middleware"
	"github.com/CHFernandes/Opus-Fenestra-sub000/internal/model"
	"github.com/CHFernandes/Opus-Fenestra-sub000/internal/service"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type DashboardHandler struct {
	db             *gorm.DB
	historyService *service.HistoryService
}

func NewDashboardHandler(db *gorm.DB, historyService *service.HistoryService) *DashboardHandler {
	return &DashboardHandler{db: db, historyService: historyService}
}

// GET /dashboard/stats
func (h *DashboardHandler) GetStats(c *gin.Context) {
	orgID := middleware.GetCurrentPerson(c).OrganizationID

	var portfolios int64
	h.db.Model(&model.Portfolio{}).Where("organization_id = ?", orgID).Count(&portfolios)

	orgProjects := h.db.Model(&model.Project{}).
		Where("portfolio_id IN (SELECT id FROM portfolios WHERE organization_id = ?)", orgID)

	var totalProjects int64
	orgProjects.Session(&gorm.Session{}).Count(&totalProjects)

	var awaitingDecision int64
	orgProjects.Session(&gorm.Session{}).
		Where("status_id = ?", int(model.StatusEvaluated)).Count(&awaitingDecision)

	var running int64
	orgProjects.Session(&gorm.Session{}).
		Where("status_id = ?", int(model.StatusRunning)).Count(&running)

	var needsInfo int64
	orgProjects.Session(&gorm.Session{}).
		Where("status_id = ?", int(model.StatusNeedsInfo)).Count(&needsInfo)

	recent, err := h.historyService.Recent(orgID, 10)
	if err != nil {
		renderError(c, err)
		return
	}

	Success(c, gin.H{
		"portfolios":        portfolios,
		"total_projects":    totalProjects,
		"awaiting_decision": awaitingDecision,
		"running":           running,
		"needs_info":        needsInfo,
		"recent_activity":   historyList(recent),
	})
}

// GET /dashboard/my-projects
func (h *DashboardHandler) GetMyProjects(c *gin.Context) {
	personID := middleware.GetCurrentPersonID(c)

	var submitted []model.Project
	if err := h.db.Preload("Submitter").Preload("Responsible").
		Where("submitter_id = ?", personID).
		Order("created_at desc").Limit(20).Find(&submitted).Error; err != nil {
		InternalError(c, "failed to load submitted projects")
		return
	}

	var responsible []model.Project
	if err := h.db.Preload("Submitter").Preload("Responsible").
		Where("responsible_id = ? AND status_id IN ?", personID,
			[]int{int(model.StatusRunning), int(model.StatusStopped)}).
		Order("updated_at desc").Limit(20).Find(&responsible).Error; err != nil {
		InternalError(c, "failed to load responsible projects")
		return
	}

	Success(c, gin.H{
		"submitted":   projectBriefList(submitted),
		"responsible": projectBriefList(responsible),
	})
}
