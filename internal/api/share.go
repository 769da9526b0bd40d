package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MikeSquared-Agency/Resilience/internal/scoring"
	"github.com/MikeSquared-Agency/Resilience/internal/session"
	"github.com/MikeSquared-Agency/Resilience/internal/store"
)

type ShareHandler struct {
	session *session.Session
	baseURL string
}

func NewShareHandler(s *session.Session, baseURL string) *ShareHandler {
	return &ShareHandler{session: s, baseURL: baseURL}
}

type ShareResponse struct {
	Token string `json:"token"`
	URL   string `json:"url"`
}

// PreviewRequest carries either a bare token or a full share link.
type PreviewRequest struct {
	Token string `json:"token,omitempty"`
	URL   string `json:"url,omitempty"`
}

type PreviewResponse struct {
	Snapshot store.Snapshot `json:"snapshot"`
	Result   scoring.Result `json:"result"`
}

func (h *ShareHandler) Share(w http.ResponseWriter, r *http.Request) {
	token := h.session.ShareToken()
	writeJSON(w, http.StatusOK, ShareResponse{Token: token, URL: store.ShareURL(h.baseURL, token)})
}

func (h *ShareHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req PreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	token := req.Token
	if token == "" && req.URL != "" {
		token = store.TokenFromURL(req.URL)
	}
	if token == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "token or url required"})
		return
	}

	snap, result, err := h.session.Preview(token)
	if errors.Is(err, store.ErrDecodeFailure) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, PreviewResponse{Snapshot: snap, Result: result})
}
