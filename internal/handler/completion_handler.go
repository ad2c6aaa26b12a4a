package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"nutriplan/internal/repositories"
	"nutriplan/internal/service"
	"nutriplan/pkg/logger"
)

type CompletionHandler struct {
	completionService service.CompletionServiceInterface
	logger            *logger.Logger
}

func NewCompletionHandler(completionService service.CompletionServiceInterface, logger *logger.Logger) *CompletionHandler {
	return &CompletionHandler{
		completionService: completionService,
		logger:            logger.WithComponent("completion_handler"),
	}
}

// SetMealCompletion handles POST /meal-completion
func (h *CompletionHandler) SetMealCompletion(w http.ResponseWriter, r *http.Request) {
	reqCtx := &logger.RequestContext{
		Method:     r.Method,
		Path:       r.URL.Path,
		RemoteAddr: r.RemoteAddr,
		StartTime:  time.Now(),
	}
	h.logger.LogRequest(reqCtx)

	if r.Method != http.MethodPost {
		writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		reqCtx.StatusCode = http.StatusMethodNotAllowed
		h.logger.LogResponse(reqCtx)
		return
	}

	var req service.MealCompletionRequest
	if err := parseRequestBody(r, &req); err != nil {
		h.logger.Warn("Invalid request body for meal completion", "error", err)
		writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		reqCtx.StatusCode = http.StatusBadRequest
		h.logger.LogResponse(reqCtx)
		return
	}

	if err := h.completionService.SetMealCompletion(req); err != nil {
		statusCode := h.completionStatusCode(err)
		h.logger.Warn("Failed to set meal completion", "error", err)
		writeErrorResponse(w, statusCode, err.Error())
		reqCtx.StatusCode = statusCode
		h.logger.LogResponse(reqCtx)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Meal completion updated",
	})
	reqCtx.StatusCode = http.StatusOK
	h.logger.LogResponse(reqCtx)
}

// SetFoodCompletion handles POST /food-completion. The completed flag
// is also written through to the food_items row.
func (h *CompletionHandler) SetFoodCompletion(w http.ResponseWriter, r *http.Request) {
	reqCtx := &logger.RequestContext{
		Method:     r.Method,
		Path:       r.URL.Path,
		RemoteAddr: r.RemoteAddr,
		StartTime:  time.Now(),
	}
	h.logger.LogRequest(reqCtx)

	if r.Method != http.MethodPost {
		writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		reqCtx.StatusCode = http.StatusMethodNotAllowed
		h.logger.LogResponse(reqCtx)
		return
	}

	var req service.FoodCompletionRequest
	if err := parseRequestBody(r, &req); err != nil {
		h.logger.Warn("Invalid request body for food completion", "error", err)
		writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		reqCtx.StatusCode = http.StatusBadRequest
		h.logger.LogResponse(reqCtx)
		return
	}

	if err := h.completionService.SetFoodCompletion(req); err != nil {
		statusCode := h.completionStatusCode(err)
		h.logger.Warn("Failed to set food completion", "error", err)
		writeErrorResponse(w, statusCode, err.Error())
		reqCtx.StatusCode = statusCode
		h.logger.LogResponse(reqCtx)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Food completion updated",
	})
	reqCtx.StatusCode = http.StatusOK
	h.logger.LogResponse(reqCtx)
}

func (h *CompletionHandler) completionStatusCode(err error) int {
	switch {
	case errors.Is(err, repositories.ErrFoodItemNotFound):
		return http.StatusNotFound
	case strings.Contains(err.Error(), "cannot be empty"),
		strings.Contains(err.Error(), "invalid"):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
