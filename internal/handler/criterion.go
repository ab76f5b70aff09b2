package handler

import (
	"github.com/CHFernandes/Opus-Fenestra-sub000/internal/service"
	"github.com/gin-gonic/gin"
)

type CriterionHandler struct {
	criterionService *service.CriterionService
}

func NewCriterionHandler(criterionService *service.CriterionService) *CriterionHandler {
	return &CriterionHandler{criterionService: criterionService}
}

// POST /portfolios/:id/criteria
func (h *CriterionHandler) Create(c *gin.Context) {
	portfolioID := parseID(c.Param("id"))
	var req struct {
		Description string  `json:"description" binding:"required,max=256"`
		Weight      float64 `json:"weight" binding:"required"`
		UnitID      uint    `json:"unit_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "invalid request body: "+err.Error())
		return
	}

	criterion, err := h.criterionService.Create(portfolioID, req.Description, req.Weight, req.UnitID)
	if err != nil {
		renderError(c, err)
		return
	}
	Success(c, criterion)
}

// GET /portfolios/:id/criteria
func (h *CriterionHandler) ListByPortfolio(c *gin.Context) {
	criteria, err := h.criterionService.ListByPortfolio(parseID(c.Param("id")))
	if err != nil {
		renderError(c, err)
		return
	}

	sum, ready, err := h.criterionService.SumWeights(parseID(c.Param("id")))
	if err != nil {
		renderError(c, err)
		return
	}

	Success(c, gin.H{
		"list":                 criteria,
		"weight_sum":           sum,
		"ready_for_evaluation": ready,
	})
}

// PUT /criteria/:id
func (h *CriterionHandler) Update(c *gin.Context) {
	id := parseID(c.Param("id"))
	var req struct {
		Description string  `json:"description" binding:"required,max=256"`
		Weight      float64 `json:"weight" binding:"required"`
		UnitID      uint    `json:"unit_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "invalid request body: "+err.Error())
		return
	}

	criterion, err := h.criterionService.Update(id, req.Description, req.Weight, req.UnitID)
	if err != nil {
		renderError(c, err)
		return
	}
	Success(c, criterion)
}

// DELETE /criteria/:id
func (h *CriterionHandler) Delete(c *gin.Context) {
	if err := h.criterionService.Delete(parseID(c.Param("id"))); err != nil {
		renderError(c, err)
		return
	}
	Success(c, gin.H{"message": "criterion deleted"})
}
