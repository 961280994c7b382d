package contact

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
)

// maxRequestBytes caps the size of a submission body.
const maxRequestBytes = 64 << 10

// Relay error messages, as returned in the "error" field.
const (
	msgMethodNotAllowed = "Method not allowed"
	msgRequired         = "Email and message are required"
	msgInvalidEmail     = "Invalid email address"
	msgSendFailed       = "Failed to send message"
	msgSent             = "Message sent successfully"
)

// Handler is the mail relay endpoint. It accepts a POSTed Submission and
// hands it to Mailer.
type Handler struct {
	Mailer Mailer
	Logger *slog.Logger
}

// NewHandler creates a relay handler. A nil logger uses slog.Default().
func NewHandler(m Mailer, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{Mailer: m, Logger: logger}
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, Response{Error: msgMethodNotAllowed})
		return
	}

	var sub Submission
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&sub); err != nil {
		h.Logger.Debug("contact: malformed request body", "error", err)
		writeJSON(w, http.StatusBadRequest, Response{Error: msgRequired})
		return
	}
	if sub.Email == "" || strings.TrimSpace(sub.Message) == "" {
		writeJSON(w, http.StatusBadRequest, Response{Error: msgRequired})
		return
	}
	if err := sub.Validate(); errors.Is(err, ErrInvalidEmail) {
		writeJSON(w, http.StatusBadRequest, Response{Error: msgInvalidEmail})
		return
	}

	if err := h.Mailer.Deliver(r.Context(), sub); err != nil {
		h.Logger.Error("contact: delivery failed", "reply_to", sub.Email, "error", err)
		writeJSON(w, http.StatusInternalServerError, Response{Error: msgSendFailed, Details: err.Error()})
		return
	}
	h.Logger.Info("contact: message delivered", "reply_to", sub.Email, "bytes", len(sub.Message))
	writeJSON(w, http.StatusOK, Response{Success: true, Message: msgSent})
}

func writeJSON(w http.ResponseWriter, code int, v Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
