package api

import (
	"net/http"

	"github.com/phrazzld/skillpath-api/internal/api/shared"
	"github.com/phrazzld/skillpath-api/internal/gateway"
)

// HealthHandler reports liveness along with the gateway's queue depth.
func HealthHandler(queue *gateway.Queue) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{
			Status: "ok",
			Gateway: GatewayStats{
				Active:   queue.Active(),
				Waiting:  queue.Waiting(),
				Capacity: queue.Capacity(),
			},
		})
	}
}
