package conversation

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/wolfman30/flight-intent/internal/extraction"
	"github.com/wolfman30/flight-intent/pkg/logging"
)

const maxBodyBytes = 16 << 10

// TurnRequest is the body of POST /v1/sessions/{id}/turns.
type TurnRequest struct {
	Text string `json:"text" validate:"max=2000"`
}

// ExtractRequest is the body of POST /v1/extract. Prior makes the call a
// follow-up turn against that record.
type ExtractRequest struct {
	Text         string                 `json:"text" validate:"required,max=2000"`
	Prior        *extraction.SlotRecord `json:"prior,omitempty"`
	Modification bool                   `json:"modification,omitempty"`
}

// Handler wires HTTP requests to the conversation service.
type Handler struct {
	service   Service
	extractor Extractor
	validate  *validator.Validate
	logger    *logging.Logger
}

// NewHandler creates a conversation handler.
func NewHandler(service Service, extractor Extractor, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		service:   service,
		extractor: extractor,
		validate:  validator.New(),
		logger:    logger,
	}
}

// Routes mounts the session endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/extract", h.Extract)
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", h.Start)
		r.Get("/{sessionID}", h.Get)
		r.Delete("/{sessionID}", h.Delete)
		r.Post("/{sessionID}/turns", h.Turn)
		r.Post("/{sessionID}/restart", h.Restart)
	})
}

// Extract handles POST /v1/extract.
func (h *Handler) Extract(w http.ResponseWriter, r *http.Request) {
	var req ExtractRequest
	if !h.decode(w, r, &req) {
		return
	}
	res, err := h.extractor.ExtractTurn(r.Context(), req.Text, extraction.ConversationContext{
		Prior:        req.Prior,
		Modification: req.Modification,
	})
	if err != nil {
		h.logger.Warn("extraction aborted", "error", err)
		http.Error(w, "Request cancelled", http.StatusServiceUnavailable)
		return
	}
	h.writeJSON(w, http.StatusOK, res)
}

// Start handles POST /v1/sessions.
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	reply, err := h.service.Start(r.Context())
	if err != nil {
		h.logger.Error("failed to start session", "error", err)
		http.Error(w, "Failed to start session", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusCreated, reply)
}

// Turn handles POST /v1/sessions/{sessionID}/turns.
func (h *Handler) Turn(w http.ResponseWriter, r *http.Request) {
	var req TurnRequest
	if !h.decode(w, r, &req) {
		return
	}
	reply, err := h.service.Turn(r.Context(), chi.URLParam(r, "sessionID"), req.Text)
	if err != nil {
		h.writeError(w, "failed to process turn", err)
		return
	}
	h.writeJSON(w, http.StatusOK, reply)
}

// Get handles GET /v1/sessions/{sessionID}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.Get(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.writeError(w, "failed to load session", err)
		return
	}
	h.writeJSON(w, http.StatusOK, session)
}

// Restart handles POST /v1/sessions/{sessionID}/restart.
func (h *Handler) Restart(w http.ResponseWriter, r *http.Request) {
	reply, err := h.service.Restart(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.writeError(w, "failed to restart session", err)
		return
	}
	h.writeJSON(w, http.StatusOK, reply)
}

// Delete handles DELETE /v1/sessions/{sessionID}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		h.writeError(w, "failed to delete session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.logger.Warn("failed to decode request", "path", r.URL.Path, "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		http.Error(w, "Invalid request: "+err.Error(), http.StatusUnprocessableEntity)
		return false
	}
	return true
}

func (h *Handler) writeError(w http.ResponseWriter, msg string, err error) {
	if errors.Is(err, ErrSessionNotFound) {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	h.logger.Error(msg, "error", err)
	http.Error(w, "Internal error", http.StatusInternalServerError)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", "error", err)
	}
}
