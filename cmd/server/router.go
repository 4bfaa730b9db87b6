package main

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/edcellence/edpex-engine/internal/assessment"
	"github.com/edcellence/edpex-engine/internal/cache"
	"github.com/edcellence/edpex-engine/internal/database"
	apperrors "github.com/edcellence/edpex-engine/internal/errors"
	"github.com/edcellence/edpex-engine/internal/monitoring"
	"github.com/edcellence/edpex-engine/internal/rankings"
	"github.com/edcellence/edpex-engine/internal/ratelimit"
	"github.com/edcellence/edpex-engine/internal/security"
	"github.com/edcellence/edpex-engine/internal/types"
)

// serverDeps bundles everything the router needs. Tests construct it
// directly against a temporary database.
type serverDeps struct {
	weights  assessment.Config
	db       *database.DB
	repo     *database.Repository
	rankings *rankings.Service
	cache    *cache.Cache
	metrics  *monitoring.Metrics
	logger   *monitoring.Logger
	limiter  *ratelimit.RateLimiter
}

// setupRouter builds the HTTP API with the full middleware chain
func setupRouter(deps *serverDeps) *gin.Engine {
	r := gin.New()

	r.Use(monitoring.MonitoringMiddleware(deps.metrics, deps.logger))
	r.Use(apperrors.ErrorHandler())
	r.Use(apperrors.RecoveryHandler())
	r.Use(security.HeadersMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"X-RateLimit-Limit", "X-RateLimit-Remaining"},
		MaxAge:        12 * time.Hour,
	}))

	if deps.limiter != nil {
		r.Use(ratelimit.Middleware(deps.limiter))
	}
	if deps.cache != nil {
		r.Use(deps.cache.Middleware(deps.metrics))
	}

	r.POST("/assess", deps.handleAssess)
	r.GET("/assessments/:id", deps.handleGetAssessment)
	r.GET("/rankings/:cycle", deps.handleGetRankings)

	r.GET("/health", deps.handleHealth)

	r.GET("/metrics", func(c *gin.Context) {
		c.JSON(http.StatusOK, deps.metrics.GetStats())
	})

	r.GET("/cache/stats", func(c *gin.Context) {
		stats := gin.H{"rankings": deps.rankings.GetCacheStats()}
		if deps.cache != nil {
			stats["responses"] = deps.cache.Stats()
		}
		c.JSON(http.StatusOK, stats)
	})

	r.GET("/pools/database", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"pool":  "database",
			"stats": deps.db.GetPoolStats(),
		})
	})

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// handleAssess runs a full assessment and persists the result.
//
// @Summary Run an assessment
// @Accept json
// @Produce json
// @Param request body types.AssessRequest true "Assessment input"
// @Success 200 {object} map[string]interface{}
// @Router /assess [post]
func (d *serverDeps) handleAssess(c *gin.Context) {
	start := time.Now()

	var req types.AssessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		appErr := apperrors.NewValidationError(err.Error())
		apperrors.LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	builder := assessment.NewBuilder(req.Department, req.Cycle,
		assessment.WithConfig(d.weights))
	for _, item := range req.ProcessItems {
		builder.AddProcessItem(item)
	}
	for _, item := range req.ResultsItems {
		builder.AddResultsItem(item)
	}

	result, err := builder.Finalize()
	if err != nil {
		appErr := apperrors.ToAppError(err)
		apperrors.LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	d.metrics.IncrementAssessments()

	record, err := d.repo.SaveAssessment(result)
	if err != nil {
		appErr := apperrors.NewInternalError("failed to persist assessment", err)
		apperrors.LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	d.rankings.Invalidate()

	d.logger.AssessmentLogger(
		result.Department, result.Cycle,
		result.OrganizationalScore, result.IHI,
		string(result.Maturity.Band),
		result.ProcessItemCount+result.ResultsItemCount,
		time.Since(start),
	)

	c.JSON(http.StatusOK, gin.H{
		"assessment_id": record.ID,
		"result":        result,
	})
}

// handleGetAssessment loads one persisted assessment by ID.
//
// @Summary Get a persisted assessment
// @Produce json
// @Param id path string true "Assessment ID"
// @Success 200 {object} database.AssessmentRecord
// @Router /assessments/{id} [get]
func (d *serverDeps) handleGetAssessment(c *gin.Context) {
	id := c.Param("id")

	record, err := d.repo.GetAssessment(id)
	if errors.Is(err, database.ErrNotFound) {
		appErr := apperrors.NewNotFoundError("assessment not found: " + id)
		apperrors.LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}
	if err != nil {
		appErr := apperrors.NewInternalError("failed to load assessment", err)
		apperrors.LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	c.JSON(http.StatusOK, record)
}

// handleGetRankings returns the department standings for a cycle.
//
// @Summary Department rankings for a cycle
// @Produce json
// @Param cycle path string true "Assessment cycle"
// @Param limit query int false "Maximum entries" default(50)
// @Success 200 {object} rankings.Response
// @Router /rankings/{cycle} [get]
func (d *serverDeps) handleGetRankings(c *gin.Context) {
	cycle := c.Param("cycle")

	limit := 50
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	response, err := d.rankings.GetRankings(cycle, limit)
	if err != nil {
		appErr := apperrors.NewInternalError("failed to load rankings", err)
		apperrors.LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (d *serverDeps) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
		"metrics":   d.metrics.GetStats(),
	})
}
