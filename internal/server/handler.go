// Package server implements the intake backend HTTP API: the
// conversation pipeline, report translation, and the password check.
package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Hcrab/clinicAI/internal/backend"
	"github.com/Hcrab/clinicAI/internal/conversation"
)

// Handler serves the intake API.
type Handler struct {
	llm    ChatCompleter
	secret string
}

// New creates the handler around the upstream model client.
func New(llm ChatCompleter, secret string) *Handler {
	return &Handler{llm: llm, secret: secret}
}

// RegisterRoutes mounts the intake endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/conversation", h.handleConversation)
	r.Post("/translate_report", h.handleTranslateReport)
	r.Post("/check_password", h.handleCheckPassword)
}

func (h *Handler) handleConversation(w http.ResponseWriter, r *http.Request) {
	var req backend.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Lang == "" {
		req.Lang = "zh_CN"
	}

	resp, err := h.decideNextStep(r.Context(), req.History, req.Lang, req.Approval, req.RefusalTimes)
	if err != nil {
		log.Printf("[conversation] pipeline error: %v", err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleCheckPassword(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if h.secret != "" && payload.Password == h.secret {
		respondJSON(w, http.StatusOK, map[string]bool{"valid": true})
		return
	}
	respondJSON(w, http.StatusUnauthorized, map[string]bool{"valid": false})
}

// historyMessages converts stored turns to upstream chat messages.
// Hidden analysis stays client-side diagnostic and is not replayed.
func historyMessages(history conversation.History) []Message {
	messages := make([]Message, 0, len(history))
	for _, t := range history {
		messages = append(messages, Message{Role: string(t.Role), Content: t.Content})
	}
	return messages
}

func (h *Handler) complete(ctx context.Context, system string, history conversation.History) (string, error) {
	messages := append([]Message{{Role: "system", Content: system}}, historyMessages(history)...)
	return h.llm.Complete(ctx, messages)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
