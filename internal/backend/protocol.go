// Package backend provides the client and protocol types for the
// remote intake reasoning endpoint (POST /api/conversation).
package backend

import "github.com/Hcrab/clinicAI/internal/conversation"

// Request is the body sent for every conversational round trip. The
// full turn history travels each time; Approval is nil except when
// resolving a pending approval.
type Request struct {
	History      conversation.History `json:"history"`
	Approval     *bool                `json:"approval"`
	Lang         string               `json:"lang"`
	Debug        bool                 `json:"debug"`
	RefusalTimes int                  `json:"refusal_times,omitempty"`
}

// SpecialtyScore is one recommended department with its share of
// confidence. The wire keys match the upstream model output.
type SpecialtyScore struct {
	Specialty  string  `json:"科目"`
	Confidence float64 `json:"置信度"`
}

// Response is the structured reply from the conversation endpoint.
// Every field is optional; absence is meaningful (no next_question
// when needsApproval is set, and so on).
type Response struct {
	ConfidenceLevel        *float64         `json:"confidence_level,omitempty"`
	NeedsApproval          bool             `json:"needsApproval,omitempty"`
	PlainSummary           string           `json:"plain_summary,omitempty"`
	NextQuestion           string           `json:"next_question,omitempty"`
	HiddenAnalysis         string           `json:"hidden_analysis,omitempty"`
	Done                   bool             `json:"done,omitempty"`
	MedicalSummary         string           `json:"medical_summary,omitempty"`
	RecommendedSpecialties []SpecialtyScore `json:"recommended_specialties,omitempty"`
	RefusalTimes           int              `json:"refusal_times,omitempty"`
	Error                  string           `json:"error,omitempty"`
}

// FinalReport is the payload handed to the report view once a session
// finalizes. Produced exactly once, on an approved done response.
type FinalReport struct {
	MedicalSummary         string           `json:"medicalSummary"`
	PlainSummary           string           `json:"plainSummary"`
	RecommendedSpecialties []SpecialtyScore `json:"recommendedSpecialties"`
}

// BoolPtr returns a pointer to a bool value. Convenience for building
// approval requests.
func BoolPtr(b bool) *bool { return &b }
