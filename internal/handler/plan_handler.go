package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"nutriplan/internal/auth"
	"nutriplan/internal/repositories"
	"nutriplan/internal/service"
	"nutriplan/pkg/logger"
	"nutriplan/pkg/schedule"
)

type PlanHandler struct {
	planService service.PlanServiceInterface
	logger      *logger.Logger
}

func NewPlanHandler(planService service.PlanServiceInterface, logger *logger.Logger) *PlanHandler {
	return &PlanHandler{
		planService: planService,
		logger:      logger.WithComponent("plan_handler"),
	}
}

// ListPlans handles GET /plans. With templates=true it lists template
// plans; with userId it lists that user's plans.
func (h *PlanHandler) ListPlans(w http.ResponseWriter, r *http.Request) {
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

	query := r.URL.Query()

	if query.Get("templates") == "true" {
		plans, err := h.planService.GetTemplates()
		if err != nil {
			h.logger.Error("Failed to list template plans", "error", err)
			writeErrorResponse(w, http.StatusInternalServerError, "Failed to fetch templates")
			reqCtx.StatusCode = http.StatusInternalServerError
			h.logger.LogResponse(reqCtx)
			return
		}
		writeJSONResponse(w, http.StatusOK, plans)
		reqCtx.StatusCode = http.StatusOK
		h.logger.LogResponse(reqCtx)
		return
	}

	userID := query.Get("userId")
	if userID == "" {
		h.logger.Warn("ListPlans called without templates=true or userId")
		writeErrorResponse(w, http.StatusBadRequest, "userId or templates=true is required")
		reqCtx.StatusCode = http.StatusBadRequest
		h.logger.LogResponse(reqCtx)
		return
	}

	plans, err := h.planService.GetUserPlans(userID)
	if err != nil {
		h.logger.Error("Failed to list user plans", "error", err, "user_id", userID)
		writeErrorResponse(w, http.StatusInternalServerError, "Failed to fetch plans")
		reqCtx.StatusCode = http.StatusInternalServerError
		h.logger.LogResponse(reqCtx)
		return
	}

	writeJSONResponse(w, http.StatusOK, plans)
	reqCtx.StatusCode = http.StatusOK
	h.logger.LogResponse(reqCtx)
}

// PlanByID handles GET and DELETE on /plans/{id}
func (h *PlanHandler) PlanByID(w http.ResponseWriter, r *http.Request) {
	reqCtx := &logger.RequestContext{
		Method:     r.Method,
		Path:       r.URL.Path,
		RemoteAddr: r.RemoteAddr,
		StartTime:  time.Now(),
	}
	h.logger.LogRequest(reqCtx)

	id := h.extractIDFromPath(r)
	if id == "" {
		h.logger.Warn("Missing plan ID in path", "path", r.URL.Path)
		writeErrorResponse(w, http.StatusBadRequest, "Plan ID is required")
		reqCtx.StatusCode = http.StatusBadRequest
		h.logger.LogResponse(reqCtx)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getPlanTree(w, id, reqCtx)
	case http.MethodDelete:
		h.deletePlan(w, r, id, reqCtx)
	default:
		writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		reqCtx.StatusCode = http.StatusMethodNotAllowed
		h.logger.LogResponse(reqCtx)
	}
}

func (h *PlanHandler) getPlanTree(w http.ResponseWriter, id string, reqCtx *logger.RequestContext) {
	plan, err := h.planService.GetPlanTree(id)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrPlanNotFound) {
			statusCode = http.StatusNotFound
		}
		h.logger.Warn("Failed to get plan tree", "plan_id", id, "error", err)
		writeErrorResponse(w, statusCode, err.Error())
		reqCtx.StatusCode = statusCode
		h.logger.LogResponse(reqCtx)
		return
	}

	writeJSONResponse(w, http.StatusOK, plan)
	reqCtx.StatusCode = http.StatusOK
	h.logger.LogResponse(reqCtx)
}

func (h *PlanHandler) deletePlan(w http.ResponseWriter, r *http.Request, id string, reqCtx *logger.RequestContext) {
	identity, ok := auth.FromContext(r.Context())
	if !ok {
		writeErrorResponse(w, http.StatusUnauthorized, "authentication required")
		reqCtx.StatusCode = http.StatusUnauthorized
		h.logger.LogResponse(reqCtx)
		return
	}

	err := h.planService.DeletePlan(id, identity.UserID)
	if err != nil {
		statusCode := http.StatusInternalServerError
		switch {
		case errors.Is(err, repositories.ErrPlanNotFound):
			statusCode = http.StatusNotFound
		case errors.Is(err, service.ErrTemplateImmutable), errors.Is(err, service.ErrNotPlanOwner):
			statusCode = http.StatusConflict
		}
		h.logger.Warn("Failed to delete plan", "plan_id", id, "error", err)
		writeErrorResponse(w, statusCode, err.Error())
		reqCtx.StatusCode = statusCode
		h.logger.LogResponse(reqCtx)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Plan deleted",
	})
	reqCtx.StatusCode = http.StatusOK
	h.logger.LogResponse(reqCtx)
}

// GetWeekDay handles GET /week-day, deriving the current slot in the
// two-week cycle from an optional startDate query parameter.
func (h *PlanHandler) GetWeekDay(w http.ResponseWriter, r *http.Request) {
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

	slot := schedule.CurrentWeekAndDayFrom(r.URL.Query().Get("startDate"), time.Now())

	writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"week": slot.Week,
		"day":  slot.Day,
		"key":  slot.Key(),
	})
	reqCtx.StatusCode = http.StatusOK
	h.logger.LogResponse(reqCtx)
}

// extractIDFromPath extracts the ID from /plans/{id}
func (h *PlanHandler) extractIDFromPath(r *http.Request) string {
	path := strings.TrimPrefix(r.URL.Path, "/plans/")
	parts := strings.Split(path, "/")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return ""
}
