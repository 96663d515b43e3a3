package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/Hcrab/clinicAI/internal/backend"
)

type translateRequest struct {
	MedicalSummary         string                   `json:"medical_summary"`
	PlainSummary           string                   `json:"plain_summary"`
	RecommendedSpecialties []backend.SpecialtyScore `json:"recommended_specialties"`
	TargetLang             string                   `json:"targetLang"`
}

type translateResult struct {
	MedicalSummary string `json:"medical_summary_translated"`
	PlainSummary   string `json:"plain_summary_translated"`
}

// handleTranslateReport re-renders a finalized report in the target
// language. Specialties pass through untouched.
func (h *Handler) handleTranslateReport(w http.ResponseWriter, r *http.Request) {
	var req translateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.TargetLang == "" {
		req.TargetLang = "en"
	}

	prompt := fmt.Sprintf("You are a medical translator. Translate the text to %s in the same medical style.\n\n"+
		"Output JSON:\n{\n  \"medical_summary_translated\": \"...\",\n  \"plain_summary_translated\": \"...\"\n}",
		langLabel(req.TargetLang))
	source := fmt.Sprintf("medical_summary:\n%s\n\nplain_summary:\n%s", req.MedicalSummary, req.PlainSummary)

	reply, err := h.llm.Complete(r.Context(), []Message{
		{Role: "system", Content: prompt},
		{Role: "user", Content: source},
	})
	if err != nil {
		log.Printf("[translate] upstream error: %v", err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var parsed translateResult
	if err := decodeModelJSON(reply, &parsed); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"medical_summary":         parsed.MedicalSummary,
		"plain_summary":           parsed.PlainSummary,
		"recommended_specialties": req.RecommendedSpecialties,
	})
}
