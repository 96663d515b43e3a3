package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Hcrab/clinicAI/internal/backend"
	"github.com/Hcrab/clinicAI/internal/conversation"
)

// fakeLLM replays canned replies keyed by call order and records the
// system prompts it saw.
type fakeLLM struct {
	replies []string
	calls   int
	systems []string
	err     error
}

func (f *fakeLLM) Complete(_ context.Context, messages []Message) (string, error) {
	if len(messages) > 0 && messages[0].Role == "system" {
		f.systems = append(f.systems, messages[0].Content)
	}
	if f.err != nil {
		return "", f.err
	}
	if f.calls >= len(f.replies) {
		return "", fmt.Errorf("unexpected call %d", f.calls)
	}
	reply := f.replies[f.calls]
	f.calls++
	return reply, nil
}

func postConversation(t *testing.T, h http.Handler, req backend.Request) (*httptest.ResponseRecorder, backend.Response) {
	t.Helper()

	body, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/conversation", bytes.NewReader(body)))

	var resp backend.Response
	if rec.Code == http.StatusOK {
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return rec, resp
}

func userHistory(contents ...string) conversation.History {
	var h conversation.History
	for _, c := range contents {
		h = h.Append(conversation.NewTurn(conversation.RoleUser, c))
	}
	return h
}

func TestConversationLowConfidenceAsksNextQuestion(t *testing.T) {
	llm := &fakeLLM{replies: []string{
		`{"analysis_text":"probably a cold","confidence_level":40,"next_question":"Do you have a fever?"}`,
	}}
	router := NewRouter(New(llm, ""))

	rec, resp := postConversation(t, router, backend.Request{History: userHistory("I have a cough"), Lang: "en"})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if resp.NextQuestion != "Do you have a fever?" {
		t.Errorf("next question = %q", resp.NextQuestion)
	}
	if resp.NeedsApproval {
		t.Error("low confidence must not request approval")
	}
	if resp.ConfidenceLevel == nil || *resp.ConfidenceLevel != 0.4 {
		t.Errorf("confidence = %v, want 0.4", resp.ConfidenceLevel)
	}
	if resp.HiddenAnalysis != "probably a cold" {
		t.Errorf("hidden analysis = %q", resp.HiddenAnalysis)
	}
}

func TestConversationHighConfidenceRequestsApproval(t *testing.T) {
	llm := &fakeLLM{replies: []string{
		`{"analysis_text":"flu likely","confidence_level":90,"next_question":"unused"}`,
		`{"plain_summary":"You likely have the flu."}`,
	}}
	router := NewRouter(New(llm, ""))

	_, resp := postConversation(t, router, backend.Request{History: userHistory("fever and aches"), Lang: "en"})

	if !resp.NeedsApproval {
		t.Fatal("should request approval")
	}
	if resp.PlainSummary != "You likely have the flu." {
		t.Errorf("plain summary = %q", resp.PlainSummary)
	}
	if resp.NextQuestion != "" {
		t.Error("no next question may travel with an approval request")
	}
	if resp.Done {
		t.Error("approval request is not done")
	}
}

func TestConversationApprovedProducesFinalReport(t *testing.T) {
	llm := &fakeLLM{replies: []string{
		`{"analysis_text":"","confidence_level":95,"next_question":""}`,
		"```json\n{\"medical_summary\":\"Influenza A suspected\",\"plain_summary\":\"Likely the flu\",\"recommended_specialties\":[{\"科目\":\"内科\",\"置信度\":60},{\"科目\":\"家庭医学\",\"置信度\":40}]}\n```",
	}}
	router := NewRouter(New(llm, ""))

	_, resp := postConversation(t, router, backend.Request{
		History:  userHistory("fever", "aches"),
		Approval: backend.BoolPtr(true),
		Lang:     "en",
	})

	if !resp.Done {
		t.Fatal("approved response should be done")
	}
	if resp.MedicalSummary != "Influenza A suspected" {
		t.Errorf("medical summary = %q", resp.MedicalSummary)
	}
	if len(resp.RecommendedSpecialties) != 2 || resp.RecommendedSpecialties[0].Specialty != "内科" {
		t.Errorf("specialties = %+v", resp.RecommendedSpecialties)
	}
	if resp.NeedsApproval || resp.NextQuestion != "" {
		t.Error("done response carries no further prompts")
	}
}

func TestConversationRejectedReasksWithinLimit(t *testing.T) {
	llm := &fakeLLM{replies: []string{
		`{"analysis_text":"","confidence_level":80,"next_question":""}`,
		`{"plain_summary":"Second attempt summary"}`,
	}}
	router := NewRouter(New(llm, ""))

	_, resp := postConversation(t, router, backend.Request{
		History:      userHistory("symptoms"),
		Approval:     backend.BoolPtr(false),
		Lang:         "en",
		RefusalTimes: 3,
	})

	if !resp.NeedsApproval {
		t.Fatal("rejection within the limit should re-ask")
	}
	if resp.RefusalTimes != 4 {
		t.Errorf("refusal count = %d, want 4", resp.RefusalTimes)
	}
	if resp.PlainSummary != "Second attempt summary" {
		t.Errorf("plain summary = %q", resp.PlainSummary)
	}
}

func TestConversationRejectedPastLimitGivesUp(t *testing.T) {
	llm := &fakeLLM{replies: []string{
		`{"analysis_text":"","confidence_level":80,"next_question":""}`,
	}}
	router := NewRouter(New(llm, ""))

	_, resp := postConversation(t, router, backend.Request{
		History:      userHistory("symptoms"),
		Approval:     backend.BoolPtr(false),
		Lang:         "en",
		RefusalTimes: maxRefusals,
	})

	if resp.NeedsApproval {
		t.Error("past the refusal limit the server must stop re-asking")
	}
	if resp.ConfidenceLevel == nil || *resp.ConfidenceLevel != 0 {
		t.Errorf("confidence = %v, want 0", resp.ConfidenceLevel)
	}
}

func TestConversationSkipsAnalysisOnLongHistory(t *testing.T) {
	llm := &fakeLLM{replies: []string{
		`{"plain_summary":"Long session summary"}`,
	}}
	router := NewRouter(New(llm, ""))

	// More than analysisSkipTurns turns: the analysis stage is skipped
	// and confidence pinned to the threshold.
	history := userHistory("1", "2", "3", "4", "5", "6", "7", "8")
	_, resp := postConversation(t, router, backend.Request{History: history, Lang: "en"})

	if !resp.NeedsApproval {
		t.Fatal("pinned confidence should reach the approval gate")
	}
	if llm.calls != 1 {
		t.Errorf("llm calls = %d, want 1 (analysis skipped)", llm.calls)
	}
}

func TestConversationUpstreamFailureIs500(t *testing.T) {
	llm := &fakeLLM{err: fmt.Errorf("upstream unavailable")}
	router := NewRouter(New(llm, ""))

	rec, _ := postConversation(t, router, backend.Request{History: userHistory("hi"), Lang: "en"})

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var envelope map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if envelope["error"] == "" {
		t.Error("error body should carry a message")
	}
}

func TestConversationPromptLanguage(t *testing.T) {
	llm := &fakeLLM{replies: []string{
		`{"analysis_text":"","confidence_level":10,"next_question":"q"}`,
	}}
	router := NewRouter(New(llm, ""))

	postConversation(t, router, backend.Request{History: userHistory("halo"), Lang: "id"})

	if len(llm.systems) != 1 {
		t.Fatalf("system prompts = %d", len(llm.systems))
	}
	if !bytes.Contains([]byte(llm.systems[0]), []byte("Bahasa Indonesia")) {
		t.Error("analysis prompt should carry the target language")
	}
}

func TestCheckPassword(t *testing.T) {
	router := NewRouter(New(&fakeLLM{}, "hunter2"))

	post := func(password string) *httptest.ResponseRecorder {
		body, _ := json.Marshal(map[string]string{"password": password})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/check_password", bytes.NewReader(body)))
		return rec
	}

	if rec := post("hunter2"); rec.Code != http.StatusOK {
		t.Errorf("correct password: status = %d", rec.Code)
	}
	if rec := post("wrong"); rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong password: status = %d", rec.Code)
	}
}

func TestCheckPasswordMethodNotAllowed(t *testing.T) {
	router := NewRouter(New(&fakeLLM{}, "hunter2"))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/check_password", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestTranslateReportPassesSpecialtiesThrough(t *testing.T) {
	llm := &fakeLLM{replies: []string{
		`{"medical_summary_translated":"translated med","plain_summary_translated":"translated plain"}`,
	}}
	router := NewRouter(New(llm, ""))

	body, _ := json.Marshal(translateRequest{
		MedicalSummary: "med",
		PlainSummary:   "plain",
		RecommendedSpecialties: []backend.SpecialtyScore{
			{Specialty: "内科", Confidence: 100},
		},
		TargetLang: "en",
	})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/translate_report", bytes.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp struct {
		MedicalSummary         string                   `json:"medical_summary"`
		PlainSummary           string                   `json:"plain_summary"`
		RecommendedSpecialties []backend.SpecialtyScore `json:"recommended_specialties"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.MedicalSummary != "translated med" {
		t.Errorf("medical summary = %q", resp.MedicalSummary)
	}
	if len(resp.RecommendedSpecialties) != 1 || resp.RecommendedSpecialties[0].Specialty != "内科" {
		t.Errorf("specialties = %+v", resp.RecommendedSpecialties)
	}
}
