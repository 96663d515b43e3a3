package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Hcrab/clinicAI/internal/conversation"
)

func TestConverseSendsFullHistory(t *testing.T) {
	var got Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/api/conversation" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(Response{NextQuestion: "How old are you?"})
	}))
	defer srv.Close()

	history := conversation.History{
		conversation.NewTurn(conversation.RoleUser, "hello"),
	}

	c := NewClient(srv.URL)
	resp, err := c.Converse(context.Background(), Request{History: history, Lang: "en"})
	if err != nil {
		t.Fatalf("Converse: %v", err)
	}

	if resp.NextQuestion != "How old are you?" {
		t.Errorf("next question = %q", resp.NextQuestion)
	}
	if len(got.History) != 1 || got.History[0].Content != "hello" {
		t.Errorf("server saw history %+v", got.History)
	}
	if got.Approval != nil {
		t.Error("approval should be absent on a normal submission")
	}
	if got.Lang != "en" {
		t.Errorf("lang = %q", got.Lang)
	}
}

func TestConverseCarriesApprovalFlag(t *testing.T) {
	var rawBody map[string]json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&rawBody)
		json.NewEncoder(w).Encode(Response{Done: true})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Converse(context.Background(), Request{Approval: BoolPtr(true), Lang: "zh_CN"})
	if err != nil {
		t.Fatalf("Converse: %v", err)
	}

	if string(rawBody["approval"]) != "true" {
		t.Errorf("approval on the wire = %s, want true", rawBody["approval"])
	}
}

func TestConverseErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "analysis stage failed"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Converse(context.Background(), Request{Lang: "en"})
	if err == nil {
		t.Fatal("expected error on 500")
	}
	if !strings.Contains(err.Error(), "analysis stage failed") {
		t.Errorf("error should carry the server message, got %q", err.Error())
	}
}

func TestConverseTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	c := NewClient(srv.URL)
	_, err := c.Converse(context.Background(), Request{Lang: "en"})
	if err == nil {
		t.Fatal("expected transport error")
	}
}

func TestSpecialtyScoreWireKeys(t *testing.T) {
	raw := `{"done":true,"recommended_specialties":[{"科目":"心脏科","置信度":60},{"科目":"内科","置信度":40}]}`

	var resp Response
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if len(resp.RecommendedSpecialties) != 2 {
		t.Fatalf("specialties = %d, want 2", len(resp.RecommendedSpecialties))
	}
	if resp.RecommendedSpecialties[0].Specialty != "心脏科" {
		t.Errorf("first specialty = %q", resp.RecommendedSpecialties[0].Specialty)
	}
	if resp.RecommendedSpecialties[1].Confidence != 40 {
		t.Errorf("second confidence = %v", resp.RecommendedSpecialties[1].Confidence)
	}
}
