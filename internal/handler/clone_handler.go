package handler

import (
	"errors"
	"net/http"
	"time"

	"nutriplan/internal/auth"
	"nutriplan/internal/service"
	"nutriplan/pkg/logger"
)

type CloneHandler struct {
	cloneService service.CloneServiceInterface
	logger       *logger.Logger
}

func NewCloneHandler(cloneService service.CloneServiceInterface, logger *logger.Logger) *CloneHandler {
	return &CloneHandler{
		cloneService: cloneService,
		logger:       logger.WithComponent("clone_handler"),
	}
}

type cloneRequest struct {
	TemplateID string `json:"templateId"`
}

// Clone handles POST /clone. Requires a bearer token; the requesting
// user becomes the owner of the cloned plan. Partial success (the plan
// exists but some branches failed to copy) returns 207 with the branch
// error list so the caller can decide what to retry.
func (h *CloneHandler) Clone(w http.ResponseWriter, r *http.Request) {
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

	identity, ok := auth.FromContext(r.Context())
	if !ok {
		h.logger.Error("Clone reached without identity; route is misconfigured")
		writeErrorResponse(w, http.StatusUnauthorized, "authentication required")
		reqCtx.StatusCode = http.StatusUnauthorized
		h.logger.LogResponse(reqCtx)
		return
	}

	var req cloneRequest
	if err := parseRequestBody(r, &req); err != nil {
		h.logger.Warn("Invalid request body for clone", "error", err)
		writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		reqCtx.StatusCode = http.StatusBadRequest
		h.logger.LogResponse(reqCtx)
		return
	}

	if req.TemplateID == "" {
		h.logger.Warn("Missing templateId in clone request")
		writeErrorResponse(w, http.StatusBadRequest, "templateId is required")
		reqCtx.StatusCode = http.StatusBadRequest
		h.logger.LogResponse(reqCtx)
		return
	}

	result, err := h.cloneService.Clone(req.TemplateID, identity.UserID)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, service.ErrTemplateNotFound) {
			statusCode = http.StatusNotFound
		}

		h.logger.Warn("Clone failed", "template_id", req.TemplateID, "error", err)
		writeErrorResponse(w, statusCode, err.Error())
		reqCtx.StatusCode = statusCode
		h.logger.LogResponse(reqCtx)
		return
	}

	response := map[string]interface{}{
		"success":    true,
		"dietPlanId": result.NewPlanID,
	}

	statusCode := http.StatusOK
	if result.Partial() {
		statusCode = http.StatusMultiStatus
		response["partial"] = true
		response["errors"] = result.Errors
	}

	writeJSONResponse(w, statusCode, response)
	reqCtx.StatusCode = statusCode
	h.logger.LogResponse(reqCtx)
}
