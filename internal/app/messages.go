package app

import (
	"github.com/Hcrab/clinicAI/internal/backend"
	"github.com/Hcrab/clinicAI/internal/conversation"
	"github.com/Hcrab/clinicAI/internal/store"
)

// SessionRestoredMsg carries the store handle and whatever history was
// still fresh at startup.
type SessionRestoredMsg struct {
	Store   *store.Store
	History conversation.History
}

// ConverseResultMsg carries the outcome of one backend round trip.
// Generation tags the session state the request was sent under; a
// result whose generation no longer matches is discarded.
type ConverseResultMsg struct {
	Generation int
	Approval   *bool
	Response   backend.Response
	Err        error
}

// RevealTickMsg advances the incremental reveal of one assistant turn.
// Ticks for any turn other than the current reveal target are dropped,
// which is how a superseded reveal gets cancelled.
type RevealTickMsg struct {
	TurnID string
}

// ReportSavedMsg signals that the final report reached the handoff
// slot and the report view can take over.
type ReportSavedMsg struct {
	Report backend.FinalReport
	Err    error
}
