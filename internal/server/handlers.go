package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "orianna-agent/internal/common/errors"
	"orianna-agent/internal/preferences"
)

const readyTimeout = 2 * time.Second

type processRequest struct {
	Text   string `json:"text" validate:"required"`
	UserID string `json:"user_id" validate:"omitempty,max=128"`
}

type preferenceRequest struct {
	UserID    string      `json:"user_id" validate:"required,max=128"`
	PrefKey   string      `json:"pref_key" validate:"required,max=128,excludesall=.$"`
	PrefValue interface{} `json:"pref_value"`
}

type preferenceResponse struct {
	UserID    string      `json:"user_id"`
	PrefKey   string      `json:"pref_key"`
	PrefValue interface{} `json:"pref_value"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleWelcome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, messageResponse{Message: "Welcome to Orianna Agent API"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()
	if err := s.prefs.Ping(ctx); err != nil {
		s.logger.Warn("Preference store not ready", map[string]interface{}{"error": err.Error()})
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	raw, err := s.readBody(r)
	if err != nil {
		s.errHandler.HandleHTTPError(w, r, err)
		return
	}

	req, err := parseUtterance(raw)
	if err != nil {
		s.errHandler.HandleHTTPError(w, r, err)
		return
	}

	userID := firstNonEmpty(r.URL.Query().Get("user_id"), r.Header.Get(headerUserID), req.UserID, s.processor.DefaultUser())
	resp, err := s.processor.Process(r.Context(), userID, req.Text)
	if err != nil {
		s.errHandler.HandleHTTPError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// parseUtterance accepts plain text, a JSON string or a JSON object with a
// text field. Bodies that look like JSON but fail to decode are read as text.
func parseUtterance(raw []byte) (processRequest, error) {
	var req processRequest
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return req, apperrors.NewInvalidRequestError("empty utterance")
	}

	switch trimmed[0] {
	case '"':
		var text string
		if err := json.Unmarshal(trimmed, &text); err == nil {
			req.Text = text
		} else {
			req.Text = string(trimmed)
		}
	case '{':
		if err := json.Unmarshal(trimmed, &req); err != nil {
			req = processRequest{Text: string(trimmed)}
		}
	default:
		req.Text = string(trimmed)
	}

	req.Text = strings.TrimSpace(req.Text)
	req.UserID = strings.TrimSpace(req.UserID)
	if err := validateStruct(&req); err != nil {
		return req, err
	}
	return req, nil
}

func (s *Server) handleSetPreference(w http.ResponseWriter, r *http.Request) {
	raw, err := s.readBody(r)
	if err != nil {
		s.errHandler.HandleHTTPError(w, r, err)
		return
	}

	var req preferenceRequest
	if body := bytes.TrimSpace(raw); len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			s.errHandler.HandleHTTPError(w, r, apperrors.NewInvalidRequestError(fmt.Sprintf("invalid JSON: %v", err)))
			return
		}
	}

	q := r.URL.Query()
	req.UserID = firstNonEmpty(req.UserID, q.Get("user_id"))
	req.PrefKey = firstNonEmpty(req.PrefKey, q.Get("pref_key"))
	if req.PrefValue == nil && q.Has("pref_value") {
		req.PrefValue = q.Get("pref_value")
	}

	if err := validateStruct(&req); err != nil {
		s.errHandler.HandleHTTPError(w, r, err)
		return
	}
	if req.PrefValue == nil {
		s.errHandler.HandleHTTPError(w, r, apperrors.NewInvalidRequestError("pref_value is a required field").
			WithMetadata("field", "pref_value"))
		return
	}
	if str, ok := req.PrefValue.(string); ok {
		req.PrefValue = preferences.ParseValue(str)
	}

	if err := s.prefs.Set(r.Context(), req.UserID, req.PrefKey, req.PrefValue); err != nil {
		s.errHandler.HandleHTTPError(w, r, preferenceError(err))
		return
	}

	s.logger.Info("Preference updated", map[string]interface{}{
		"userId":  req.UserID,
		"prefKey": req.PrefKey,
	})
	writeJSON(w, http.StatusOK, messageResponse{Message: "Preference updated!"})
}

func (s *Server) handleGetPreference(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := preferenceRequest{UserID: q.Get("user_id"), PrefKey: q.Get("pref_key")}
	if err := validateStruct(&req); err != nil {
		s.errHandler.HandleHTTPError(w, r, err)
		return
	}

	value, found, err := s.prefs.Get(r.Context(), req.UserID, req.PrefKey)
	if err != nil {
		s.errHandler.HandleHTTPError(w, r, preferenceError(err))
		return
	}
	if !found {
		s.errHandler.HandleHTTPError(w, r, apperrors.NewNotFoundError(fmt.Sprintf("preference '%s' for user '%s'", req.PrefKey, req.UserID)))
		return
	}
	writeJSON(w, http.StatusOK, preferenceResponse{UserID: req.UserID, PrefKey: req.PrefKey, PrefValue: value})
}

func (s *Server) readBody(r *http.Request) ([]byte, error) {
	defer r.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(r.Body, s.config.MaxBodyBytes+1))
	if err != nil {
		return nil, apperrors.NewInvalidRequestError(fmt.Sprintf("read body: %v", err))
	}
	if int64(len(raw)) > s.config.MaxBodyBytes {
		return nil, apperrors.NewInvalidRequestError("request body too large")
	}
	return raw, nil
}

func preferenceError(err error) error {
	if errors.Is(err, preferences.ErrInvalidKey) || errors.Is(err, preferences.ErrUnsupportedValue) {
		return apperrors.NewInvalidRequestError(err.Error())
	}
	return apperrors.NewPreferenceStoreError(err)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
