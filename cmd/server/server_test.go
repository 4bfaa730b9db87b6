package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edcellence/edpex-engine/internal/assessment"
	"github.com/edcellence/edpex-engine/internal/cache"
	"github.com/edcellence/edpex-engine/internal/database"
	"github.com/edcellence/edpex-engine/internal/monitoring"
	"github.com/edcellence/edpex-engine/internal/rankings"
	"github.com/edcellence/edpex-engine/internal/scoring"
	"github.com/edcellence/edpex-engine/internal/types"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewDB(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := database.NewRepository(db)

	return setupRouter(&serverDeps{
		weights:  assessment.DefaultConfig(),
		db:       db,
		repo:     repo,
		rankings: rankings.NewServiceWithTTL(repo, time.Millisecond),
		cache:    cache.NewCache(time.Minute),
		metrics:  monitoring.NewMetrics(),
		logger:   monitoring.NewLogger(),
	})
}

func fullRequest(department, cycle string) types.AssessRequest {
	req := types.AssessRequest{Department: department, Cycle: cycle}
	for _, cat := range scoring.Categories {
		if cat == scoring.CategoryResults {
			req.ResultsItems = append(req.ResultsItems, types.ResultsItem{
				ID:         "r-" + cat,
				Category:   cat,
				PointValue: 450,
				Indicators: scoring.ResultsIndicators{
					Level: 0.8, Trend: 0.7, Comparison: 0.6, Integration: 0.65,
				},
				DeploymentGap: 0.8,
				RawValue:      92.5,
				RawUnit:       "percent",
			})
			continue
		}
		req.ProcessItems = append(req.ProcessItems, types.ProcessItem{
			ID:         "p-" + cat,
			Category:   cat,
			PointValue: 100,
			Indicators: scoring.ProcessIndicators{
				Approach: 0.7, Deployment: 0.6, Learning: 0.8, Integration: 0.75,
			},
			DeploymentGap: 0.5,
		})
	}
	return req
}

func postAssess(t *testing.T, router *gin.Engine, req types.AssessRequest) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(req)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	httpReq := httptest.NewRequest(http.MethodPost, "/assess", bytes.NewReader(body))
	httpReq.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, httpReq)
	return w
}

func TestAssessEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := postAssess(t, router, fullRequest("Engineering", "2026"))
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		AssessmentID string            `json:"assessment_id"`
		Result       assessment.Result `json:"result"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	assert.NotEmpty(t, response.AssessmentID)
	assert.Equal(t, "Engineering", response.Result.Department)
	assert.GreaterOrEqual(t, response.Result.OrganizationalScore, 0.0)
	assert.LessOrEqual(t, response.Result.OrganizationalScore, 100.0)
	assert.Len(t, response.Result.CategoryScores, 7)
	assert.NotEmpty(t, response.Result.Maturity.Band)
}

func TestAssessRejectsInvalidIndicator(t *testing.T) {
	router := newTestRouter(t)

	req := fullRequest("Engineering", "2026")
	req.ProcessItems[0].Indicators.Approach = 1.5

	w := postAssess(t, router, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAssessRejectsMissingCategory(t *testing.T) {
	router := newTestRouter(t)

	req := fullRequest("Engineering", "2026")
	req.ResultsItems = nil // Results category absent

	w := postAssess(t, router, req)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestAssessRejectsMalformedBody(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	httpReq := httptest.NewRequest(http.MethodPost, "/assess", bytes.NewBufferString("{not json"))
	httpReq.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, httpReq)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetAssessment(t *testing.T) {
	router := newTestRouter(t)

	w := postAssess(t, router, fullRequest("Engineering", "2026"))
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		AssessmentID string `json:"assessment_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	getW := httptest.NewRecorder()
	router.ServeHTTP(getW, httptest.NewRequest(http.MethodGet, "/assessments/"+response.AssessmentID, nil))
	require.Equal(t, http.StatusOK, getW.Code)

	var record database.AssessmentRecord
	require.NoError(t, json.Unmarshal(getW.Body.Bytes(), &record))
	assert.Equal(t, "Engineering", record.Department)
	assert.Len(t, record.ItemScores, 7)
	assert.Len(t, record.GapPriorities, 7)
}

func TestGetAssessmentNotFound(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/assessments/no-such-id", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRankingsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	require.Equal(t, http.StatusOK, postAssess(t, router, fullRequest("Engineering", "2026")).Code)
	require.Equal(t, http.StatusOK, postAssess(t, router, fullRequest("Medicine", "2026")).Code)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/rankings/2026", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var response rankings.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "2026", response.Cycle)
	assert.Equal(t, 2, response.Total)
	assert.Equal(t, 1, response.Entries[0].Rank)
}

func TestHealthAndMetrics(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAssessResponseCached(t *testing.T) {
	router := newTestRouter(t)

	req := fullRequest("Engineering", "2026")
	first := postAssess(t, router, req)
	require.Equal(t, http.StatusOK, first.Code)

	// An identical request is served from cache with the same body
	second := postAssess(t, router, req)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
}
