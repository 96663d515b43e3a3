package conversation

import "testing"

func TestAppendPreservesOrder(t *testing.T) {
	var h History
	h = h.Append(NewTurn(RoleUser, "first"))
	h = h.Append(NewAssistantTurn("second", ""))
	h = h.Append(NewTurn(RoleUser, "third"))

	if len(h) != 3 {
		t.Fatalf("len = %d, want 3", len(h))
	}
	want := []string{"first", "second", "third"}
	for i, w := range want {
		if h[i].Content != w {
			t.Errorf("h[%d].Content = %q, want %q", i, h[i].Content, w)
		}
	}
}

func TestTurnIDsAreUnique(t *testing.T) {
	a := NewTurn(RoleUser, "same")
	b := NewTurn(RoleUser, "same")
	if a.ID == b.ID {
		t.Error("two turns share an id")
	}
	if a.ID == "" {
		t.Error("turn id is empty")
	}
}

func TestLastAssistantIndex(t *testing.T) {
	var h History
	if got := h.LastAssistantIndex(); got != -1 {
		t.Errorf("empty history: index = %d, want -1", got)
	}

	h = h.Append(NewTurn(RoleUser, "u1"))
	if got := h.LastAssistantIndex(); got != -1 {
		t.Errorf("no assistant: index = %d, want -1", got)
	}

	h = h.Append(NewAssistantTurn("a1", ""))
	h = h.Append(NewTurn(RoleUser, "u2"))
	h = h.Append(NewAssistantTurn("a2", ""))
	if got := h.LastAssistantIndex(); got != 3 {
		t.Errorf("index = %d, want 3", got)
	}
}

func TestTruncateBeforeLastAssistant(t *testing.T) {
	h := History{
		NewTurn(RoleUser, "u1"),
		NewAssistantTurn("a1", ""),
		NewTurn(RoleUser, "u2"),
		NewAssistantTurn("a2", ""),
	}

	got := h.TruncateBeforeLastAssistant()
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[2].Content != "u2" {
		t.Errorf("got[2].Content = %q, want %q", got[2].Content, "u2")
	}
}

func TestTruncateWithoutAssistantIsNoop(t *testing.T) {
	h := History{
		NewTurn(RoleUser, "u1"),
		NewTurn(RoleUser, "u2"),
	}

	got := h.TruncateBeforeLastAssistant()
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
}

func TestCloneIsIndependent(t *testing.T) {
	h := History{NewTurn(RoleUser, "u1")}
	c := h.Clone()
	c[0].Content = "changed"
	if h[0].Content != "u1" {
		t.Error("clone shares backing storage with original")
	}
}
