package handler

import (
	"net/http"
	"time"

	"nutriplan/internal/service"
	"nutriplan/pkg/logger"
)

type MigrationHandler struct {
	migrationService service.MigrationServiceInterface
	logger           *logger.Logger
}

func NewMigrationHandler(migrationService service.MigrationServiceInterface, logger *logger.Logger) *MigrationHandler {
	return &MigrationHandler{
		migrationService: migrationService,
		logger:           logger.WithComponent("migration_handler"),
	}
}

// MigrateToTwoWeek handles POST /migrate-to-two-week. Admin only; the
// route is wrapped with the admin auth middleware. Safe to re-run:
// already-migrated groups come back as skipped.
func (h *MigrationHandler) MigrateToTwoWeek(w http.ResponseWriter, r *http.Request) {
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

	results, err := h.migrationService.MigrateToTwoWeek()
	if err != nil {
		h.logger.Error("Two-week migration failed", "error", err)
		writeErrorResponse(w, http.StatusInternalServerError, err.Error())
		reqCtx.StatusCode = http.StatusInternalServerError
		h.logger.LogResponse(reqCtx)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"results": results,
	})
	reqCtx.StatusCode = http.StatusOK
	h.logger.LogResponse(reqCtx)
}
