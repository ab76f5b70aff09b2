package handler

import (
	"github.com/CHFernandes/Opus-Fenestra-sub000/internal/service"
	"github.com/gin-gonic/gin"
)

type OrganizationHandler struct {
	orgService *service.OrganizationService
}

func NewOrganizationHandler(orgService *service.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{orgService: orgService}
}

// POST /organizations
func (h *OrganizationHandler) Create(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required,max=128"`
		Description string `json:"description" binding:"max=5000"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "invalid request body: "+err.Error())
		return
	}

	org, err := h.orgService.Create(req.Name, req.Description)
	if err != nil {
		renderError(c, err)
		return
	}
	Success(c, org)
}

// GET /organizations
func (h *OrganizationHandler) List(c *gin.Context) {
	orgs, err := h.orgService.List()
	if err != nil {
		renderError(c, err)
		return
	}
	Success(c, orgs)
}

// GET /organizations/:id
func (h *OrganizationHandler) GetDetail(c *gin.Context) {
	org, err := h.orgService.GetByID(parseID(c.Param("id")))
	if err != nil {
		renderError(c, err)
		return
	}
	Success(c, org)
}

// PUT /organizations/:id
func (h *OrganizationHandler) Update(c *gin.Context) {
	id := parseID(c.Param("id"))
	var req struct {
		Name        string `json:"name" binding:"required,max=128"`
		Description string `json:"description" binding:"max=5000"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "invalid request body: "+err.Error())
		return
	}

	org, err := h.orgService.Update(id, req.Name, req.Description)
	if err != nil {
		renderError(c, err)
		return
	}
	Success(c, org)
}

// DELETE /organizations/:id
func (h *OrganizationHandler) Delete(c *gin.Context) {
	if err := h.orgService.Delete(parseID(c.Param("id"))); err != nil {
		renderError(c, err)
		return
	}
	Success(c, gin.H{"message": "organization deleted"})
}
