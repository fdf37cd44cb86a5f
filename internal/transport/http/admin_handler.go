package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"clock-tutor-service/internal/app"
	"clock-tutor-service/internal/domain"
	"clock-tutor-service/internal/logging"
	"github.com/go-playground/validator/v10"
)

const maxImportBytes = 4 << 20

// AdminHandler serves the guardian JSON API.
type AdminHandler struct {
	admin    *app.AdminService
	sessions app.SessionRepository
	log      *logging.Logger
	validate *validator.Validate
}

func NewAdminHandler(admin *app.AdminService, sessions app.SessionRepository, log *logging.Logger) *AdminHandler {
	if log == nil {
		log = logging.Nop()
	}
	return &AdminHandler{admin: admin, sessions: sessions, log: log, validate: validator.New()}
}

// Register mounts the admin, leaderboard, and health routes.
func (h *AdminHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /admin/players", h.listPlayers)
	mux.HandleFunc("POST /admin/players", h.addPlayer)
	mux.HandleFunc("DELETE /admin/players/{id}", h.deletePlayer)
	mux.HandleFunc("DELETE /admin/players", h.clearPlayers)
	mux.HandleFunc("POST /admin/players/reset", h.resetPlayers)
	mux.HandleFunc("GET /admin/questions", h.listQuestions)
	mux.HandleFunc("GET /admin/questions/export", h.exportQuestions)
	mux.HandleFunc("POST /admin/questions/import", h.importQuestions)
	mux.HandleFunc("GET /admin/sessions", h.liveSessions)
	mux.HandleFunc("GET /leaderboard", h.leaderboard)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
}

type addPlayerRequest struct {
	Name string `json:"name" validate:"required,max=40"`
}

type messageResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count,omitempty"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

func (h *AdminHandler) listPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := h.admin.ListPlayers(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, players)
}

func (h *AdminHandler) addPlayer(w http.ResponseWriter, r *http.Request) {
	var req addPlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body", Detail: err.Error()})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: domain.UserMessage(domain.ErrEmptyName), Detail: err.Error()})
		return
	}
	player, err := h.admin.AddPlayer(r.Context(), req.Name)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.log.Info("player added", "player", player.ID)
	writeJSON(w, http.StatusCreated, player)
}

func (h *AdminHandler) deletePlayer(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.admin.DeletePlayer(r.Context(), id, confirmed(r)); err != nil {
		h.fail(w, err)
		return
	}
	h.log.Info("player deleted", "player", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) clearPlayers(w http.ResponseWriter, r *http.Request) {
	if err := h.admin.ClearPlayers(r.Context(), confirmed(r)); err != nil {
		h.fail(w, err)
		return
	}
	h.log.Info("players cleared")
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) resetPlayers(w http.ResponseWriter, r *http.Request) {
	if err := h.admin.ResetPlayers(r.Context(), confirmed(r)); err != nil {
		h.fail(w, err)
		return
	}
	h.log.Info("players reset")
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) listQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := h.admin.Questions(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, questions)
}

func (h *AdminHandler) exportQuestions(w http.ResponseWriter, r *http.Request) {
	data, err := h.admin.ExportQuestions(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="questions.json"`)
	_, _ = w.Write(data)
}

func (h *AdminHandler) importQuestions(w http.ResponseWriter, r *http.Request) {
	n, err := h.admin.ImportQuestions(r.Context(), http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		h.fail(w, err)
		return
	}
	h.log.Info("questions imported", "count", n)
	writeJSON(w, http.StatusOK, messageResponse{Message: "Import thành công!", Count: n})
}

func (h *AdminHandler) liveSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int{"live": h.sessions.Count()})
}

func (h *AdminHandler) leaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 3
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid limit"})
			return
		}
		limit = n
	}
	top, err := h.admin.Leaderboard(r.Context(), limit)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, top)
}

func (h *AdminHandler) fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrConfirmationRequired):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrMalformedImport), errors.Is(err, domain.ErrEmptyName):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrPlayerNotFound):
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		h.log.Error("admin request failed", "err", err)
	}
	writeJSON(w, status, errorResponse{Error: domain.UserMessage(err), Detail: err.Error()})
}

func confirmed(r *http.Request) bool {
	ok, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	return ok
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
