package handlers

import (
	"net/http"
	"time"

	"github.com/think3er/ippo-backend/internal/handlers/render"
)

func health(w http.ResponseWriter, _ *http.Request) {
	type HealthResponse struct {
		Status    string `json:"status"`
		Timestamp string `json:"timestamp"`
	}

	render.JSON(w, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
