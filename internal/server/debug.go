package server

import (
	"encoding/json"
	"net/http"

	"pursuit-server/internal/engine"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// DebugHandler предоставляет доступ к внутреннему состоянию движка
type DebugHandler struct {
	Service *engine.GameService
}

func NewDebugHandler(s *engine.GameService) *DebugHandler {
	return &DebugHandler{Service: s}
}

// RegisterRoutes регистрирует debug-эндпоинты
func (h *DebugHandler) RegisterRoutes(r chi.Router) {
	r.Route("/debug", func(r chi.Router) {
		r.Get("/sessions", h.handleListSessions)
		r.Get("/sessions/{id}", h.handleSession)
		r.Get("/sessions/{id}/map", h.handleSessionMap)
		r.Mount("/pprof", middleware.Profiler())
	})
}

// /debug/sessions - список активных сессий
func (h *DebugHandler) handleListSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Service.Sessions())
}

// /debug/sessions/{id} - последний полный снимок сессии
func (h *DebugHandler) handleSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.Service.Session(chi.URLParam(r, "id"))
	if !ok || sess.Latest() == nil {
		http.Error(w, "Session not found or not active", http.StatusNotFound)
		return
	}
	writeJSON(w, sess.Latest())
}

// /debug/sessions/{id}/map - карта сессии в ASCII (игрок '@', агенты 'A')
func (h *DebugHandler) handleSessionMap(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.Service.Session(chi.URLParam(r, "id"))
	if !ok || sess.Latest() == nil {
		http.Error(w, "Session not found or not active", http.StatusNotFound)
		return
	}
	snap := sess.Latest()

	grid := make([][]byte, len(snap.Map))
	for y, row := range snap.Map {
		grid[y] = []byte(row)
	}
	mark := func(x, y int, symbol byte) {
		if y >= 0 && y < len(grid) && x >= 0 && x < len(grid[y]) {
			grid[y][x] = symbol
		}
	}
	for _, a := range snap.Agents {
		mark(a.Cell.X, a.Cell.Y, 'A')
	}
	mark(snap.Player.X, snap.Player.Y, '@')

	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	for _, row := range grid {
		w.Write(row)
		w.Write([]byte("\n"))
	}
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	// Разрешаем запросы с любого источника (нужно для локального debug-клиента)
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	w.Header().Set("Content-Type", "application/json")

	// Если data == nil, возвращаем пустой массив [], а не null
	if data == nil {
		w.Write([]byte("[]"))
		return
	}

	json.NewEncoder(w).Encode(data)
}
