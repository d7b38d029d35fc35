package analyses

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resume-analyzer/internal/documents"
	"resume-analyzer/internal/shared/server/middleware"
	"resume-analyzer/internal/shared/server/respond"
)

const maxJobDescriptionLen = 50000

// Handler wires HTTP handlers to the analyses service.
type Handler struct {
	Svc     *Service
	DocRepo documents.DocumentsRepo
	Poll    *pollLimiter
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, docRepo documents.DocumentsRepo) *Handler {
	return &Handler{
		Svc:     svc,
		DocRepo: docRepo,
		Poll:    newPollLimiter(pollLimitWindow, nil),
	}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents/:id/analyze", h.startAnalysis)
	rg.GET("/analyses", h.listAnalyses)
	rg.GET("/analyses/:id", h.getAnalysis)
}

type startAnalysisRequest struct {
	Mode           string   `json:"mode"`
	Keywords       []string `json:"keywords"`
	JobDescription string   `json:"jobDescription"`
	Retry          bool     `json:"retry"`
}

func (h *Handler) startAnalysis(c *gin.Context) {
	documentID := c.Param("id")
	if documentID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "document id is required", nil)
		return
	}

	var req startAnalysisRequest
	if c.Request.Body != nil && c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
			return
		}
	}
	if len(req.JobDescription) > maxJobDescriptionLen {
		respond.Error(c, http.StatusBadRequest, "validation_error", "job description is too long", []map[string]string{
			{"field": "jobDescription", "issue": "max_length"},
		})
		return
	}
	mode, err := ModeFor(req.Mode, req.JobDescription)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), []map[string]string{
			{"field": "mode", "issue": "invalid"},
		})
		return
	}

	doc, err := h.DocRepo.GetByID(c.Request.Context(), documentID)
	if err != nil {
		switch {
		case errors.Is(err, documents.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to start analysis", nil)
		}
		return
	}

	ctx := WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))
	analysis, created, err := h.Svc.StartOrReuse(ctx, doc.ID, mode, req.Keywords, req.JobDescription, req.Retry)
	if err != nil {
		switch {
		case errors.Is(err, ErrRetryRequired):
			respond.Error(c, http.StatusConflict, "retry_required", "Previous analysis failed. Pass retry to run it again.", []map[string]string{
				{"field": "retry", "issue": "required"},
			})
		case errors.Is(err, ErrJobQueueNotConfigured):
			respond.Error(c, http.StatusInternalServerError, "internal_error", "analysis queue is not configured", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to start analysis", nil)
		}
		return
	}

	if !created && analysis.Status == StatusCompleted {
		respond.JSON(c, http.StatusOK, gin.H{
			"analysisId": analysis.ID,
			"status":     analysis.Status,
			"result":     analysis.Result,
		})
		return
	}

	respond.JSON(c, http.StatusAccepted, gin.H{
		"analysisId": analysis.ID,
		"status":     analysis.Status,
	})
}

func (h *Handler) getAnalysis(c *gin.Context) {
	analysisID := c.Param("id")
	if analysisID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "analysis id is required", nil)
		return
	}

	analysis, err := h.Svc.Get(c.Request.Context(), analysisID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "analysis not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch analysis", nil)
		}
		return
	}

	if !h.Poll.Allow(analysis.DocumentID) {
		c.Header("Retry-After", strconv.Itoa(h.Poll.RetryAfterSeconds()))
		respond.Error(c, http.StatusTooManyRequests, "rate_limited", "Polling too frequently. Retry shortly.", nil)
		return
	}

	resp := gin.H{
		"id":         analysis.ID,
		"documentId": analysis.DocumentID,
		"status":     analysis.Status,
		"mode":       analysis.Mode,
	}
	if analysis.Status == StatusCompleted && analysis.Result != nil {
		resp["result"] = analysis.Result
	}
	if analysis.Status == StatusFailed {
		resp["error"] = gin.H{
			"code":      analysis.ErrorCode,
			"message":   analysis.ErrorMessage,
			"retryable": analysis.ErrorRetryable,
		}
	}

	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) listAnalyses(c *gin.Context) {
	limit := 20
	offset := 0

	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit < 0 {
		limit = 0
	}

	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}
	if offset < 0 {
		offset = 0
	}

	analyses, err := h.Svc.List(c.Request.Context(), limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list analyses", nil)
		return
	}

	resp := make([]gin.H, 0, len(analyses))
	for _, a := range analyses {
		item := gin.H{
			"analysisId": a.ID,
			"documentId": a.DocumentID,
			"status":     a.Status,
			"mode":       a.Mode,
			"createdAt":  a.CreatedAt,
		}
		if a.Status == StatusCompleted && a.Result != nil {
			item["totalScore"] = a.Result.Score.TotalScore
			if a.Result.Breakdown != nil {
				item["finalScore"] = a.Result.Breakdown.FinalScore
			}
		}
		if a.Status == StatusFailed {
			item["errorCode"] = a.ErrorCode
		}
		resp = append(resp, item)
	}

	respond.JSON(c, http.StatusOK, resp)
}
