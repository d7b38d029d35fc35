package stats

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-analyzer/internal/analyses"
	"resume-analyzer/internal/documents"
	"resume-analyzer/internal/score"
	"resume-analyzer/internal/shared/server/middleware"
)

func TestStatsEndpointReturnsSnapshot(t *testing.T) {
	gin.SetMode(gin.TestMode)
	docRepo := documents.NewMemoryRepo()
	jobRepo := analyses.NewMemoryRepo()
	seedDocument(t, docRepo, "doc-1", "application/pdf", documents.StatusExtracted)
	seedJob(t, jobRepo, analyses.Analysis{
		ID:         "an-1",
		DocumentID: "doc-1",
		Status:     analyses.StatusCompleted,
		Mode:       analyses.ModeBasic,
		Result:     &analyses.Result{Score: score.Report{TotalScore: 87.5}},
	})

	router := gin.New()
	router.Use(middleware.RequestID())
	rg := router.Group("/api/v1")
	NewHandler(NewService(docRepo, jobRepo)).RegisterRoutes(rg)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var snap Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if snap.Documents.Total != 1 || snap.Documents.ByFormat["pdf"] != 1 {
		t.Fatalf("documents = %+v", snap.Documents)
	}
	if snap.Analyses.AverageScore == nil || *snap.Analyses.AverageScore != 87.5 {
		t.Fatalf("analyses = %+v", snap.Analyses)
	}
}
