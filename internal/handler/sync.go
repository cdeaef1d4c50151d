package handler

import (
	"net/http"

	"github.com/wpk-/aapi-versioned/internal/logger"
	"github.com/wpk-/aapi-versioned/internal/worker"
)

// Enqueuer accepts jobs without blocking.
type Enqueuer interface {
	Enqueue(job worker.Job) bool
}

// HandleTriggerSync queues one synchronization pass. It answers 409 when a
// pass is already waiting.
// @Summary Trigger a synchronization pass
// @Tags sync
// @Produce json
// @Security ApiKeyAuth
// @Success 202 {object} SuccessResponse
// @Failure 401 {string} string
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/sync [post]
func HandleTriggerSync(pool Enqueuer, job worker.Job) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())
		if !pool.Enqueue(job) {
			log.Warn(LogMsgSyncNotQueued)
			respondError(w, http.StatusConflict, ErrMsgSyncBusy)
			return
		}
		log.Info(LogMsgSyncTriggered)
		respondJSON(w, http.StatusAccepted, SuccessResponse{Message: MsgSyncQueued})
	}
}
