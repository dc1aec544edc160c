package http

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/Karlson54/TelegramBot/internal/session"
)

type SessionHandler struct {
	tracker *session.Tracker
}

func NewSessionHandler(tracker *session.Tracker) *SessionHandler {
	return &SessionHandler{tracker: tracker}
}

type AdvanceRequestDTO struct {
	Step    string `json:"step"`
	OrderID string `json:"order_id,omitempty"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Method  string `json:"method,omitempty"`
}

func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUserID(w, r)
	if !ok {
		return
	}

	sess := h.tracker.Start(r.Context(), userID)
	respondJSON(w, http.StatusCreated, sess)
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUserID(w, r)
	if !ok {
		return
	}

	sess, err := h.tracker.Get(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sess)
}

// Advance moves the wizard one step forward, folding any provided draft
// fields into the session.
func (h *SessionHandler) Advance(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUserID(w, r)
	if !ok {
		return
	}

	var req AdvanceRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	var orderID uuid.UUID
	if req.OrderID != "" {
		parsed, err := uuid.Parse(req.OrderID)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_order_id", "order_id must be a UUID")
			return
		}
		orderID = parsed
	}

	sess, err := h.tracker.Advance(r.Context(), userID, session.Step(req.Step), func(d *session.Draft) {
		if orderID != uuid.Nil {
			d.OrderID = orderID
		}
		if req.Address != "" {
			d.Address = req.Address
		}
		if req.Phone != "" {
			d.Phone = req.Phone
		}
		if req.Method != "" {
			d.Method = req.Method
		}
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sess)
}

func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUserID(w, r)
	if !ok {
		return
	}

	h.tracker.Reset(r.Context(), userID)
	w.WriteHeader(http.StatusNoContent)
}
