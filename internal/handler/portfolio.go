package handler

import (
	"github.com/CHFernandes/Opus-Fenestra-sub000/internal/middleware"
	"github.com/CHFernandes/Opus-Fenestra-sub000/internal/service"
	"github.com/gin-gonic/gin"
)

type PortfolioHandler struct {
	portfolioService *service.PortfolioService
	criterionService *service.CriterionService
	reportService    *service.ReportService
}

func NewPortfolioHandler(portfolioService *service.PortfolioService, criterionService *service.CriterionService, reportService *service.ReportService) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
		criterionService: criterionService,
		reportService:    reportService,
	}
}

// POST /portfolios
func (h *PortfolioHandler) Create(c *gin.Context) {
	var req struct {
		OrganizationID uint   `json:"organization_id"`
		Name           string `json:"name" binding:"required,max=128"`
		Description    string `json:"description" binding:"max=5000"`
		Objective      string `json:"objective" binding:"max=5000"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "invalid request body: "+err.Error())
		return
	}
	if req.OrganizationID == 0 {
		req.OrganizationID = middleware.GetCurrentPerson(c).OrganizationID
	}

	portfolio, err := h.portfolioService.Create(req.OrganizationID, req.Name, req.Description, req.Objective)
	if err != nil {
		renderError(c, err)
		return
	}
	Success(c, portfolio)
}

// GET /portfolios
func (h *PortfolioHandler) List(c *gin.Context) {
	organizationID := middleware.GetCurrentPerson(c).OrganizationID
	if s := c.Query("organization_id"); s != "" && middleware.GetCurrentPersonIsAdmin(c) {
		organizationID = parseID(s)
	}

	portfolios, err := h.portfolioService.ListByOrganization(organizationID)
	if err != nil {
		renderError(c, err)
		return
	}
	Success(c, portfolios)
}

// GET /portfolios/:id
func (h *PortfolioHandler) GetDetail(c *gin.Context) {
	id := parseID(c.Param("id"))

	portfolio, err := h.portfolioService.GetByID(id)
	if err != nil {
		renderError(c, err)
		return
	}

	sum, ready, err := h.criterionService.SumWeights(id)
	if err != nil {
		renderError(c, err)
		return
	}

	Success(c, gin.H{
		"id":                   portfolio.ID,
		"organization_id":      portfolio.OrganizationID,
		"name":                 portfolio.Name,
		"description":          portfolio.Description,
		"objective":            portfolio.Objective,
		"weight_sum":           sum,
		"ready_for_evaluation": ready,
		"created_at":           portfolio.CreatedAt,
		"updated_at":           portfolio.UpdatedAt,
	})
}

// PUT /portfolios/:id
func (h *PortfolioHandler) Update(c *gin.Context) {
	id := parseID(c.Param("id"))
	var req struct {
		Name        string `json:"name" binding:"required,max=128"`
		Description string `json:"description" binding:"max=5000"`
		Objective   string `json:"objective" binding:"max=5000"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "invalid request body: "+err.Error())
		return
	}

	portfolio, err := h.portfolioService.Update(id, req.Name, req.Description, req.Objective)
	if err != nil {
		renderError(c, err)
		return
	}
	Success(c, portfolio)
}

// DELETE /portfolios/:id
func (h *PortfolioHandler) Delete(c *gin.Context) {
	if err := h.portfolioService.Delete(parseID(c.Param("id"))); err != nil {
		renderError(c, err)
		return
	}
	Success(c, gin.H{"message": "portfolio deleted"})
}

// GET /portfolios/:id/report
func (h *PortfolioHandler) GetReport(c *gin.Context) {
	id := parseID(c.Param("id"))

	counts, err := h.reportService.StatusCounts(id)
	if err != nil {
		renderError(c, err)
		return
	}
	overdue, err := h.reportService.Overdue(id)
	if err != nil {
		renderError(c, err)
		return
	}
	atRisk, err := h.reportService.AtRisk(id)
	if err != nil {
		renderError(c, err)
		return
	}

	Success(c, gin.H{
		"status_counts": counts,
		"overdue":       projectBriefList(overdue),
		"at_risk":       projectBriefList(atRisk),
	})
}
