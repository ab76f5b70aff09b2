package router

import (
	"github.com/CHFernandes/Opus-Fenestra-sub000/internal/handler"
	"github.com/CHFernandes/Opus-Fenestra-sub000/internal/middleware"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Deps struct {
	DB                  *gorm.DB
	JWTSecret           string
	AuthHandler         *handler.AuthHandler
	PersonHandler       *handler.PersonHandler
	OrganizationHandler *handler.OrganizationHandler
	PortfolioHandler    *handler.PortfolioHandler
	CriterionHandler    *handler.CriterionHandler
	UnitHandler         *handler.UnitHandler
	ProjectHandler      *handler.ProjectHandler
	DashboardHandler    *handler.DashboardHandler
}

func Setup(r *gin.Engine, deps Deps) {
	r.Use(middleware.CORSMiddleware())

	api := r.Group("/api/v1")

	// Public routes (no auth)
	auth := api.Group("/auth")
	{
		auth.POST("/login", deps.AuthHandler.Login)
	}

	// Authenticated routes
	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(deps.JWTSecret, deps.DB))
	{
		// Auth
		authed.GET("/auth/me", deps.AuthHandler.GetMe)
		authed.POST("/auth/refresh", deps.AuthHandler.RefreshToken)

		// Admin routes
		admin := authed.Group("/admin")
		admin.Use(middleware.RequireAdmin())
		{
			admin.POST("/persons", deps.PersonHandler.Create)
			admin.GET("/persons", deps.PersonHandler.List)
			admin.PUT("/persons/:id/role", deps.PersonHandler.UpdateRole)
			admin.PUT("/persons/:id/status", deps.PersonHandler.UpdateStatus)
			admin.PUT("/persons/:id/admin", deps.PersonHandler.ToggleAdmin)
		}

		// Organizations
		orgs := authed.Group("/organizations")
		{
			orgs.POST("", middleware.RequireAdmin(), deps.OrganizationHandler.Create)
			orgs.GET("", deps.OrganizationHandler.List)
			orgs.GET("/:id", deps.OrganizationHandler.GetDetail)
			orgs.PUT("/:id", middleware.RequireAdmin(), deps.OrganizationHandler.Update)
			orgs.DELETE("/:id", middleware.RequireAdmin(), deps.OrganizationHandler.Delete)
		}

		// Portfolios
		portfolios := authed.Group("/portfolios")
		{
			portfolios.POST("", middleware.RequireRole("manager"), deps.PortfolioHandler.Create)
			portfolios.GET("", deps.PortfolioHandler.List)
			portfolios.GET("/:id", deps.PortfolioHandler.GetDetail)
			portfolios.PUT("/:id", middleware.RequireRole("manager"), deps.PortfolioHandler.Update)
			portfolios.DELETE("/:id", middleware.RequireRole("manager"), deps.PortfolioHandler.Delete)
			portfolios.GET("/:id/report", deps.PortfolioHandler.GetReport)

			// Criteria under portfolios
			portfolios.POST("/:id/criteria", middleware.RequireRole("manager"), deps.CriterionHandler.Create)
			portfolios.GET("/:id/criteria", deps.CriterionHandler.ListByPortfolio)

			// Projects under portfolios
			portfolios.GET("/:id/projects", deps.ProjectHandler.ListByPortfolio)
		}

		// Criteria (standalone)
		criteria := authed.Group("/criteria")
		{
			criteria.PUT("/:id", middleware.RequireRole("manager"), deps.CriterionHandler.Update)
			criteria.DELETE("/:id", middleware.RequireRole("manager"), deps.CriterionHandler.Delete)
		}

		// Units
		units := authed.Group("/units")
		{
			units.POST("", middleware.RequireRole("manager"), deps.UnitHandler.Create)
			units.GET("", deps.UnitHandler.List)
			units.GET("/:id", deps.UnitHandler.GetDetail)
			units.PUT("/:id", middleware.RequireRole("manager"), deps.UnitHandler.Update)
			units.DELETE("/:id", middleware.RequireRole("manager"), deps.UnitHandler.Delete)
			units.POST("/:id/grades", middleware.RequireRole("manager"), deps.UnitHandler.AddGrade)
			units.DELETE("/:id/grades/:grade_id", middleware.RequireRole("manager"), deps.UnitHandler.RemoveGrade)
			units.POST("/:id/recompute", middleware.RequireRole("manager"), deps.UnitHandler.RecomputeBestWorst)
		}

		// Projects
		projects := authed.Group("/projects")
		{
			projects.POST("", deps.ProjectHandler.Register)
			projects.GET("", deps.ProjectHandler.List)
			projects.GET("/:id", deps.ProjectHandler.GetDetail)
			projects.PUT("/:id", deps.ProjectHandler.Update)
			projects.PUT("/:id/progress", deps.ProjectHandler.UpdateProgress)
			projects.GET("/:id/history", deps.ProjectHandler.GetHistory)
			projects.GET("/:id/stream", deps.ProjectHandler.Stream)

			// Evaluations
			projects.POST("/:id/evaluations", middleware.RequireRole("manager"), deps.ProjectHandler.Evaluate)
			projects.GET("/:id/evaluations", deps.ProjectHandler.ListEvaluations)

			// Lifecycle decisions (manager only)
			projects.POST("/:id/approve", middleware.RequireRole("manager"), deps.ProjectHandler.Approve)
			projects.POST("/:id/ask-info", middleware.RequireRole("manager"), deps.ProjectHandler.AskMoreInfo)
			projects.POST("/:id/reject", middleware.RequireRole("manager"), deps.ProjectHandler.Reject)
			projects.POST("/:id/begin", middleware.RequireRole("manager"), deps.ProjectHandler.Begin)
			projects.POST("/:id/cancel", middleware.RequireRole("manager"), deps.ProjectHandler.Cancel)

			// Execution-phase actions
			projects.POST("/:id/re-register", deps.ProjectHandler.ReRegister)
			projects.POST("/:id/stop", deps.ProjectHandler.Stop)
			projects.POST("/:id/restart", deps.ProjectHandler.Restart)
			projects.POST("/:id/finish", deps.ProjectHandler.Finish)

			// Tasks under projects
			projects.POST("/:id/tasks", deps.ProjectHandler.AddTask)
			projects.GET("/:id/tasks", deps.ProjectHandler.ListTasks)
		}

		// Tasks (standalone)
		tasks := authed.Group("/tasks")
		{
			tasks.PUT("/:id", deps.ProjectHandler.SetTaskDone)
			tasks.DELETE("/:id", deps.ProjectHandler.DeleteTask)
		}

		// Dashboard
		dashboard := authed.Group("/dashboard")
		{
			dashboard.GET("/stats", deps.DashboardHandler.GetStats)
			dashboard.GET("/my-projects", deps.DashboardHandler.GetMyProjects)
		}
	}
}
