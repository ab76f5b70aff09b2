package handler

import (
	"github.com/CHFernandes/Opus-Fenestra-sub000/internal/service"
	"github.com/gin-gonic/gin"
)

type UnitHandler struct {
	unitService *service.UnitService
}

func NewUnitHandler(unitService *service.UnitService) *UnitHandler {
	return &UnitHandler{unitService: unitService}
}

// POST /units
func (h *UnitHandler) Create(c *gin.Context) {
	var req struct {
		Description string `json:"description" binding:"required,max=128"`
		IsManual    *bool  `json:"is_manual" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "invalid request body: "+err.Error())
		return
	}

	unit, err := h.unitService.Create(req.Description, *req.IsManual)
	if err != nil {
		renderError(c, err)
		return
	}
	Success(c, unit)
}

// GET /units
func (h *UnitHandler) List(c *gin.Context) {
	units, err := h.unitService.List()
	if err != nil {
		renderError(c, err)
		return
	}
	Success(c, units)
}

// GET /units/:id
func (h *UnitHandler) GetDetail(c *gin.Context) {
	id := parseID(c.Param("id"))

	unit, err := h.unitService.GetByID(id)
	if err != nil {
		renderError(c, err)
		return
	}

	data := gin.H{
		"id":             unit.ID,
		"description":    unit.Description,
		"is_manual":      unit.IsManual,
		"best_value":     unit.BestValue,
		"worst_value":    unit.WorstValue,
		"best_grade_id":  unit.BestGradeID,
		"worst_grade_id": unit.WorstGradeID,
	}
	if !unit.IsManual {
		grades, err := h.unitService.ListGrades(id)
		if err != nil {
			renderError(c, err)
			return
		}
		data["grades"] = grades
	}
	Success(c, data)
}

// PUT /units/:id
func (h *UnitHandler) Update(c *gin.Context) {
	id := parseID(c.Param("id"))
	var req struct {
		Description string `json:"description" binding:"required,max=128"`
		IsManual    *bool  `json:"is_manual" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "invalid request body: "+err.Error())
		return
	}

	unit, err := h.unitService.Update(id, req.Description, *req.IsManual)
	if err != nil {
		renderError(c, err)
		return
	}
	Success(c, unit)
}

// DELETE /units/:id
func (h *UnitHandler) Delete(c *gin.Context) {
	if err := h.unitService.Delete(parseID(c.Param("id"))); err != nil {
		renderError(c, err)
		return
	}
	Success(c, gin.H{"message": "unit deleted"})
}

// POST /units/:id/grades
func (h *UnitHandler) AddGrade(c *gin.Context) {
	unitID := parseID(c.Param("id"))
	var req struct {
		Description  string   `json:"description" binding:"required,max=128"`
		NumericValue *float64 `json:"numeric_value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "invalid request body: "+err.Error())
		return
	}

	grade, err := h.unitService.AddGrade(unitID, req.Description, *req.NumericValue)
	if err != nil {
		renderError(c, err)
		return
	}
	Success(c, grade)
}

// DELETE /units/:id/grades/:grade_id
func (h *UnitHandler) RemoveGrade(c *gin.Context) {
	unitID := parseID(c.Param("id"))
	gradeID := parseID(c.Param("grade_id"))

	if err := h.unitService.RemoveGrade(unitID, gradeID); err != nil {
		renderError(c, err)
		return
	}
	Success(c, gin.H{"message": "grade removed, recompute best/worst before evaluating"})
}

// POST /units/:id/recompute
func (h *UnitHandler) RecomputeBestWorst(c *gin.Context) {
	unit, err := h.unitService.RecomputeBestWorst(parseID(c.Param("id")))
	if err != nil {
		renderError(c, err)
		return
	}
	Success(c, unit)
}
