package main

import (
	"fmt"
	"log"
	"os"

	"github.com/CHFernandes/Opus-Fenestra-sub000/internal/config"
	"github.com/CHFernandes/Opus-Fenestra-sub000/internal/handler"
	"github.com/CHFernandes/Opus-Fenestra-sub000/internal/model"
	"github.com/CHFernandes/Opus-Fenestra-sub000/internal/notify"
	"github.com/CHFernandes/Opus-Fenestra-sub000/internal/router"
	"github.com/CHFernandes/Opus-Fenestra-sub000/internal/service"
	"github.com/CHFernandes/Opus-Fenestra-sub000/internal/stream"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func main() {
	// Load config
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Database. TranslateError turns driver duplicate-key errors into
	// gorm.ErrDuplicatedKey, which the evaluation path relies on.
	db, err := gorm.Open(mysql.Open(cfg.Database.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}

	if err := model.AutoMigrate(db); err != nil {
		log.Fatalf("auto migrate: %v", err)
	}

	// Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Core components
	hub := stream.NewHub(rdb)

	var notifier notify.Notifier
	if cfg.Notify.Enabled {
		notifier = notify.LogNotifier{}
	} else {
		notifier = notify.NoopNotifier{}
	}

	// Services
	authService := service.NewAuthService(db, cfg.JWT.Secret, cfg.JWT.ExpireHours)
	personService := service.NewPersonService(db)
	orgService := service.NewOrganizationService(db)
	portfolioService := service.NewPortfolioService(db)
	criterionService := service.NewCriterionService(db)
	unitService := service.NewUnitService(db)
	projectService := service.NewProjectService(db)
	lifecycleService := service.NewLifecycleService(db, hub)
	evalService := service.NewEvaluationService(db, hub)
	historyService := service.NewHistoryService(db)
	reportService := service.NewReportService(db, cfg.Report.AtRiskThreshold)

	// Inject notifiers
	lifecycleService.SetNotifier(notifier)
	evalService.SetNotifier(notifier)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	personHandler := handler.NewPersonHandler(personService)
	orgHandler := handler.NewOrganizationHandler(orgService)
	portfolioHandler := handler.NewPortfolioHandler(portfolioService, criterionService, reportService)
	criterionHandler := handler.NewCriterionHandler(criterionService)
	unitHandler := handler.NewUnitHandler(unitService)
	projectHandler := handler.NewProjectHandler(projectService, lifecycleService, evalService, historyService, hub)
	dashboardHandler := handler.NewDashboardHandler(db, historyService)

	// Gin engine
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	// Setup routes
	router.Setup(r, router.Deps{
		DB:                  db,
		JWTSecret:           cfg.JWT.Secret,
		AuthHandler:         authHandler,
		PersonHandler:       personHandler,
		OrganizationHandler: orgHandler,
		PortfolioHandler:    portfolioHandler,
		CriterionHandler:    criterionHandler,
		UnitHandler:         unitHandler,
		ProjectHandler:      projectHandler,
		DashboardHandler:    dashboardHandler,
	})

	// Start server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server run: %v", err)
	}
}
