package handler

import (
	"errors"
	"net/http"
	"time"

	"nutriplan/internal/repositories"
	"nutriplan/internal/service"
	"nutriplan/pkg/logger"
)

type AnalyticsHandler struct {
	analyticsService service.AnalyticsServiceInterface
	logger           *logger.Logger
}

func NewAnalyticsHandler(analyticsService service.AnalyticsServiceInterface, logger *logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		logger:           logger.WithComponent("analytics_handler"),
	}
}

// GetPlanCalories handles GET /analytics/calories?planId=...
func (h *AnalyticsHandler) GetPlanCalories(w http.ResponseWriter, r *http.Request) {
	reqCtx := &logger.RequestContext{
		Method:     r.Method,
		Path:       r.URL.Path,
		RemoteAddr: r.RemoteAddr,
		StartTime:  time.Now(),
	}
	h.logger.LogRequest(reqCtx)

	if r.Method != http.MethodGet {
		writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		reqCtx.StatusCode = http.StatusMethodNotAllowed
		h.logger.LogResponse(reqCtx)
		return
	}

	planID := r.URL.Query().Get("planId")
	if planID == "" {
		h.logger.Warn("Missing planId in calories request")
		writeErrorResponse(w, http.StatusBadRequest, "planId is required")
		reqCtx.StatusCode = http.StatusBadRequest
		h.logger.LogResponse(reqCtx)
		return
	}

	report, err := h.analyticsService.GetPlanCalories(planID)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrPlanNotFound) {
			statusCode = http.StatusNotFound
		}
		h.logger.Warn("Failed to build calorie report", "plan_id", planID, "error", err)
		writeErrorResponse(w, statusCode, err.Error())
		reqCtx.StatusCode = statusCode
		h.logger.LogResponse(reqCtx)
		return
	}

	writeJSONResponse(w, http.StatusOK, report)
	reqCtx.StatusCode = http.StatusOK
	h.logger.LogResponse(reqCtx)
}
