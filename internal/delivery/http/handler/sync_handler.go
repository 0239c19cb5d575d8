package handler

import (
	"context"
	"errors"
	"net/http"

	"healthmon-backend/internal/delivery/dto"
	"healthmon-backend/internal/service"
	"healthmon-backend/pkg/response"
)

// SyncTrigger starts a sheet sync on demand.
type SyncTrigger interface {
	Trigger(ctx context.Context) (*dto.SyncResponse, error)
}

type SyncHandler struct {
	trigger SyncTrigger
}

// NewSyncHandler accepts a nil trigger when no spreadsheet is configured.
func NewSyncHandler(trigger SyncTrigger) *SyncHandler {
	return &SyncHandler{trigger: trigger}
}

func (h *SyncHandler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	if h.trigger == nil {
		response.ServiceUnavailable(w, "Google Sheets sync is not configured")
		return
	}

	report, err := h.trigger.Trigger(r.Context())
	if err != nil {
		if errors.Is(err, service.ErrSyncInProgress) {
			response.Conflict(w, "Sync already in progress")
			return
		}
		response.InternalServerError(w, "Sync failed")
		return
	}

	response.Success(w, http.StatusOK, "Sync completed", report)
}
