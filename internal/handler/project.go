package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/CHFernandes/Opus-Fenestra-sub000/internal/middleware"
	"github.com/CHFernandes/Opus-Fenestra-sub000/internal/model"
	"github.com/CHFernandes/Opus-Fenestra-sub000/internal/service"
	"github.com/CHFernandes/Opus-Fenestra-sub000/internal/stream"
	"github.com/gin-gonic/gin"
)

type ProjectHandler struct {
	projectService   *service.ProjectService
	lifecycleService *service.LifecycleService
	evalService      *service.EvaluationService
	historyService   *service.HistoryService
	hub              *stream.Hub
}

func NewProjectHandler(projectService *service.ProjectService, lifecycleService *service.LifecycleService, evalService *service.EvaluationService, historyService *service.HistoryService, hub *stream.Hub) *ProjectHandler {
	return &ProjectHandler{
		projectService:   projectService,
		lifecycleService: lifecycleService,
		evalService:      evalService,
		historyService:   historyService,
		hub:              hub,
	}
}

// POST /projects
func (h *ProjectHandler) Register(c *gin.Context) {
	var req struct {
		PortfolioID      uint      `json:"portfolio_id" binding:"required"`
		Name             string    `json:"name" binding:"required,max=128"`
		Description      string    `json:"description" binding:"max=5000"`
		Document         string    `json:"document" binding:"max=512"`
		PlannedStartDate time.Time `json:"planned_start_date" binding:"required"`
		PlannedEndDate   time.Time `json:"planned_end_date" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "invalid request body: "+err.Error())
		return
	}

	submitterID := middleware.GetCurrentPersonID(c)
	project, err := h.projectService.Register(req.PortfolioID, submitterID, req.Name, req.Description, req.Document, req.PlannedStartDate, req.PlannedEndDate)
	if err != nil {
		renderError(c, err)
		return
	}
	Success(c, projectBrief(project))
}

// GET /projects
func (h *ProjectHandler) List(c *gin.Context) {
	page, pageSize := parsePage(c)
	status := c.Query("status")
	keyword := c.Query("keyword")

	var portfolioID *uint
	if s := c.Query("portfolio_id"); s != "" {
		v := parseID(s)
		portfolioID = &v
	}

	projects, total, err := h.projectService.List(portfolioID, status, keyword, page, pageSize)
	if err != nil {
		renderError(c, err)
		return
	}
	SuccessPaged(c, projectBriefList(projects), total, page, pageSize)
}

// GET /portfolios/:id/projects
func (h *ProjectHandler) ListByPortfolio(c *gin.Context) {
	page, pageSize := parsePage(c)
	portfolioID := parseID(c.Param("id"))

	projects, total, err := h.projectService.List(&portfolioID, c.Query("status"), c.Query("keyword"), page, pageSize)
	if err != nil {
		renderError(c, err)
		return
	}
	SuccessPaged(c, projectBriefList(projects), total, page, pageSize)
}

// GET /projects/:id
func (h *ProjectHandler) GetDetail(c *gin.Context) {
	id := parseID(c.Param("id"))

	project, err := h.projectService.GetByID(id)
	if err != nil {
		renderError(c, err)
		return
	}
	evaluations, err := h.evalService.ListByProject(id)
	if err != nil {
		renderError(c, err)
		return
	}
	history, err := h.historyService.ForProject(id)
	if err != nil {
		renderError(c, err)
		return
	}

	data := projectBrief(project)
	data["tasks"] = project.Tasks
	data["evaluations"] = evaluations
	data["history"] = historyList(history)
	if project.Portfolio != nil {
		data["portfolio"] = gin.H{"id": project.Portfolio.ID, "name": project.Portfolio.Name}
	}
	Success(c, data)
}

// PUT /projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	id := parseID(c.Param("id"))
	var req struct {
		Name             *string    `json:"name"`
		Description      *string    `json:"description"`
		Document         *string    `json:"document"`
		PlannedStartDate *time.Time `json:"planned_start_date"`
		PlannedEndDate   *time.Time `json:"planned_end_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "invalid request body: "+err.Error())
		return
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Document != nil {
		updates["document"] = *req.Document
	}
	if req.PlannedStartDate != nil {
		updates["planned_start_date"] = *req.PlannedStartDate
	}
	if req.PlannedEndDate != nil {
		updates["planned_end_date"] = *req.PlannedEndDate
	}

	project, err := h.projectService.Update(id, updates)
	if err != nil {
		renderError(c, err)
		return
	}
	Success(c, projectBrief(project))
}

// PUT /projects/:id/progress
func (h *ProjectHandler) UpdateProgress(c *gin.Context) {
	id := parseID(c.Param("id"))
	var req struct {
		Completion *int `json:"completion" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "invalid request body: "+err.Error())
		return
	}

	project, err := h.projectService.UpdateProgress(id, *req.Completion)
	if err != nil {
		renderError(c, err)
		return
	}
	Success(c, gin.H{"id": project.ID, "completion": project.Completion})
}

// POST /projects/:id/evaluations
func (h *ProjectHandler) Evaluate(c *gin.Context) {
	id := parseID(c.Param("id"))
	var req struct {
		CriterionID    uint       `json:"criterion_id" binding:"required"`
		Value          *float64   `json:"value" binding:"required"`
		EvaluationDate *time.Time `json:"evaluation_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "invalid request body: "+err.Error())
		return
	}

	date := time.Now().UTC()
	if req.EvaluationDate != nil {
		date = *req.EvaluationDate
	}

	evaluation, err := h.evalService.Evaluate(id, req.CriterionID, middleware.GetCurrentPersonID(c), date, *req.Value)
	if err != nil {
		renderError(c, err)
		return
	}

	project, err := h.projectService.GetByID(id)
	if err != nil {
		renderError(c, err)
		return
	}
	Success(c, gin.H{
		"evaluation": evaluation,
		"status":     project.Status().String(),
		"score":      project.Score,
	})
}

// GET /projects/:id/evaluations
func (h *ProjectHandler) ListEvaluations(c *gin.Context) {
	evaluations, err := h.evalService.ListByProject(parseID(c.Param("id")))
	if err != nil {
		renderError(c, err)
		return
	}
	Success(c, evaluations)
}

// --- lifecycle actions ---

func (h *ProjectHandler) action(c *gin.Context, apply func(projectID, personID uint) (*model.Project, error)) {
	project, err := apply(parseID(c.Param("id")), middleware.GetCurrentPersonID(c))
	if err != nil {
		renderError(c, err)
		return
	}
	Success(c, projectBrief(project))
}

// POST /projects/:id/approve
func (h *ProjectHandler) Approve(c *gin.Context) {
	h.action(c, h.lifecycleService.Approve)
}

// POST /projects/:id/ask-info
func (h *ProjectHandler) AskMoreInfo(c *gin.Context) {
	h.action(c, h.lifecycleService.AskMoreInfo)
}

// POST /projects/:id/reject
func (h *ProjectHandler) Reject(c *gin.Context) {
	h.action(c, h.lifecycleService.Reject)
}

// POST /projects/:id/re-register
func (h *ProjectHandler) ReRegister(c *gin.Context) {
	h.action(c, h.lifecycleService.ReRegister)
}

// POST /projects/:id/begin
func (h *ProjectHandler) Begin(c *gin.Context) {
	id := parseID(c.Param("id"))
	var req struct {
		ResponsibleID uint `json:"responsible_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "invalid request body: "+err.Error())
		return
	}

	project, err := h.lifecycleService.Begin(id, middleware.GetCurrentPersonID(c), req.ResponsibleID)
	if err != nil {
		renderError(c, err)
		return
	}
	Success(c, projectBrief(project))
}

// POST /projects/:id/stop
func (h *ProjectHandler) Stop(c *gin.Context) {
	h.action(c, h.lifecycleService.Stop)
}

// POST /projects/:id/restart
func (h *ProjectHandler) Restart(c *gin.Context) {
	h.action(c, h.lifecycleService.Restart)
}

// POST /projects/:id/finish
func (h *ProjectHandler) Finish(c *gin.Context) {
	h.action(c, h.lifecycleService.Finish)
}

// POST /projects/:id/cancel
func (h *ProjectHandler) Cancel(c *gin.Context) {
	h.action(c, h.lifecycleService.Cancel)
}

// GET /projects/:id/history
func (h *ProjectHandler) GetHistory(c *gin.Context) {
	history, err := h.historyService.ForProject(parseID(c.Param("id")))
	if err != nil {
		renderError(c, err)
		return
	}
	Success(c, historyList(history))
}

// --- tasks ---

// POST /projects/:id/tasks
func (h *ProjectHandler) AddTask(c *gin.Context) {
	id := parseID(c.Param("id"))
	var req struct {
		Description string `json:"description" binding:"required,max=256"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "invalid request body: "+err.Error())
		return
	}

	task, err := h.projectService.AddTask(id, req.Description)
	if err != nil {
		renderError(c, err)
		return
	}
	Success(c, task)
}

// GET /projects/:id/tasks
func (h *ProjectHandler) ListTasks(c *gin.Context) {
	tasks, err := h.projectService.ListTasks(parseID(c.Param("id")))
	if err != nil {
		renderError(c, err)
		return
	}
	Success(c, tasks)
}

// PUT /tasks/:id
func (h *ProjectHandler) SetTaskDone(c *gin.Context) {
	id := parseID(c.Param("id"))
	var req struct {
		Done *bool `json:"done" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "invalid request body: "+err.Error())
		return
	}

	task, err := h.projectService.SetTaskDone(id, *req.Done)
	if err != nil {
		renderError(c, err)
		return
	}
	Success(c, task)
}

// DELETE /tasks/:id
func (h *ProjectHandler) DeleteTask(c *gin.Context) {
	if err := h.projectService.DeleteTask(parseID(c.Param("id"))); err != nil {
		renderError(c, err)
		return
	}
	Success(c, gin.H{"message": "task deleted"})
}

// GET /projects/:id/stream
func (h *ProjectHandler) Stream(c *gin.Context) {
	projectID := parseID(c.Param("id"))

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		InternalError(c, "streaming not supported")
		return
	}

	lastEventID := stream.ParseLastEventID(c.GetHeader("Last-Event-ID"))

	// Replay history
	history, _ := h.hub.ReplayFrom(projectID, lastEventID)
	eventID := lastEventID
	for _, ev := range history {
		data, _ := json.Marshal(ev.Data)
		fmt.Fprintf(c.Writer, "id: %d\nevent: %s\ndata: %s\n\n", eventID, ev.Type, string(data))
		eventID++
		flusher.Flush()
	}

	ch, unsub := h.hub.Subscribe(projectID)
	defer unsub()

	ctx := c.Request.Context()
	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case ev, open := <-ch:
			if !open {
				return
			}
			data, _ := json.Marshal(ev.Data)
			fmt.Fprintf(c.Writer, "id: %d\nevent: %s\ndata: %s\n\n", eventID, ev.Type, string(data))
			eventID++
			flusher.Flush()
		case <-heartbeat.C:
			fmt.Fprintf(c.Writer, ": heartbeat\n\n")
			flusher.Flush()
		case <-ctx.Done():
			return
		}
	}
}

// --- projections ---

func projectBrief(p *model.Project) gin.H {
	data := gin.H{
		"id":                 p.ID,
		"portfolio_id":       p.PortfolioID,
		"name":               p.Name,
		"description":        p.Description,
		"status":             p.Status().String(),
		"score":              p.Score,
		"completion":         p.Completion,
		"document":           p.Document,
		"planned_start_date": p.PlannedStartDate,
		"planned_end_date":   p.PlannedEndDate,
		"actual_start_date":  p.ActualStartDate,
		"actual_end_date":    p.ActualEndDate,
		"created_at":         p.CreatedAt,
		"updated_at":         p.UpdatedAt,
	}
	if p.Submitter != nil {
		data["submitter"] = p.Submitter.Brief()
	}
	if p.Responsible != nil {
		data["responsible"] = p.Responsible.Brief()
	}
	return data
}

func projectBriefList(projects []model.Project) []gin.H {
	list := make([]gin.H, 0, len(projects))
	for i := range projects {
		list = append(list, projectBrief(&projects[i]))
	}
	return list
}

func historyList(history []model.ProjectStatus) []gin.H {
	list := make([]gin.H, 0, len(history))
	for _, h := range history {
		item := gin.H{
			"id":           h.ID,
			"project_id":   h.ProjectID,
			"status_id":    h.StatusID,
			"status":       model.StatusCode(h.StatusID).String(),
			"changed_time": h.ChangedTime,
		}
		if h.Person != nil {
			item["person"] = gin.H{"id": h.Person.ID, "name": h.Person.Name}
		}
		if h.Project != nil {
			item["project"] = gin.H{"id": h.Project.ID, "name": h.Project.Name}
		}
		list = append(list, item)
	}
	return list
}
