// internal/handlers/server.go
package handlers

import (
	"net/http"

	"github.com/Crayxus/crayxus-game/internal/game"
	"github.com/Crayxus/crayxus-game/internal/middleware"
	"github.com/sirupsen/logrus"
)

const healthText = "Crayxus Server is Running! 🟢 Status: Online"

// NewRouter wires the health check and the game socket behind request logging.
func NewRouter(logger *logrus.Logger, rooms *game.RoomStore) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", HealthHandler)
	mux.HandleFunc("/ws", GameWSHandler(logger, rooms))
	return middleware.LogMiddleware(logger)(mux)
}

// HealthHandler reports that the process is up.
func HealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(healthText))
}
