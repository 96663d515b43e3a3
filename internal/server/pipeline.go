package server

import (
	"context"
	"fmt"

	"github.com/Hcrab/clinicAI/internal/backend"
	"github.com/Hcrab/clinicAI/internal/conversation"
)

type analysisResult struct {
	AnalysisText    string  `json:"analysis_text"`
	ConfidenceLevel float64 `json:"confidence_level"`
	NextQuestion    string  `json:"next_question"`
}

type plainResult struct {
	PlainSummary string `json:"plain_summary"`
}

type professionalResult struct {
	MedicalSummary         string                   `json:"medical_summary"`
	PlainSummary           string                   `json:"plain_summary"`
	RecommendedSpecialties []backend.SpecialtyScore `json:"recommended_specialties"`
}

// decideNextStep runs the staged intake pipeline: analysis produces a
// confidence and the next question; once confidence clears the
// threshold the session moves to the approval gate and, on approval,
// to the professional summary. The model's 0-100 confidence is
// normalized to 0..1 on the wire.
func (h *Handler) decideNextStep(ctx context.Context, history conversation.History, lang string, approval *bool, refusals int) (backend.Response, error) {
	prompts := buildPrompts(lang)

	var analysis analysisResult
	if len(history) > analysisSkipTurns {
		// Long sessions stop asking and move straight to
		// summarization.
		analysis = analysisResult{ConfidenceLevel: confidenceThreshold}
	} else {
		reply, err := h.complete(ctx, prompts.Analysis, history)
		if err != nil {
			return backend.Response{}, fmt.Errorf("analysis stage: %w", err)
		}
		if err := decodeModelJSON(reply, &analysis); err != nil {
			return backend.Response{}, fmt.Errorf("analysis stage: %w", err)
		}
	}

	confidence := analysis.ConfidenceLevel / 100
	resp := backend.Response{
		HiddenAnalysis:  analysis.AnalysisText,
		ConfidenceLevel: &confidence,
		NextQuestion:    analysis.NextQuestion,
		RefusalTimes:    refusals,
	}

	if analysis.ConfidenceLevel < confidenceThreshold {
		return resp, nil
	}

	switch {
	case approval == nil:
		// First time over the threshold: propose a plain summary and
		// ask for approval. No next question travels with it.
		resp.PlainSummary = h.plainSummary(ctx, prompts.Plain, history)
		resp.NeedsApproval = true
		resp.NextQuestion = ""

	case *approval:
		professional := h.professionalSummary(ctx, prompts.Professional, history)
		resp.MedicalSummary = professional.MedicalSummary
		resp.PlainSummary = professional.PlainSummary
		resp.RecommendedSpecialties = professional.RecommendedSpecialties
		resp.Done = true
		resp.NeedsApproval = false
		resp.NextQuestion = ""

	default: // rejected
		refusals++
		resp.RefusalTimes = refusals
		if refusals <= maxRefusals {
			resp.PlainSummary = h.plainSummary(ctx, prompts.Plain, history)
			resp.NeedsApproval = true
			resp.NextQuestion = reconfirmQuestion(lang)
		} else {
			// Treated as a hard refusal: back to questioning.
			zero := 0.0
			resp.ConfidenceLevel = &zero
			resp.NeedsApproval = false
		}
	}

	return resp, nil
}

// plainSummary generates the patient-friendly summary, falling back to
// a fixed failure string so the approval gate still has something to
// show.
func (h *Handler) plainSummary(ctx context.Context, prompt string, history conversation.History) string {
	reply, err := h.complete(ctx, prompt, history)
	if err != nil {
		return "生成简易总结失败"
	}
	var parsed plainResult
	if err := decodeModelJSON(reply, &parsed); err != nil {
		return "生成简易总结失败"
	}
	return parsed.PlainSummary
}

// professionalSummary generates the final report content, degrading to
// failure markers rather than aborting an approved session.
func (h *Handler) professionalSummary(ctx context.Context, prompt string, history conversation.History) professionalResult {
	fallback := professionalResult{MedicalSummary: "生成失败", PlainSummary: "生成失败"}

	reply, err := h.complete(ctx, prompt, history)
	if err != nil {
		return fallback
	}
	var parsed professionalResult
	if err := decodeModelJSON(reply, &parsed); err != nil {
		return fallback
	}
	return parsed
}
