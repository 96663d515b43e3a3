// Package app implements the conversation orchestrator: the bubbletea
// model that owns the session, drives backend round trips, gates
// finalization behind user approval, and plays out assistant replies
// one rune at a time.
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"github.com/Hcrab/clinicAI/internal/backend"
	"github.com/Hcrab/clinicAI/internal/conversation"
	"github.com/Hcrab/clinicAI/internal/store"
	"github.com/Hcrab/clinicAI/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
)

// RevealInterval is the delay between revealed runes of a new
// assistant turn. The full text is already known when reveal starts;
// this is perceived responsiveness, not a network stream.
const RevealInterval = 35 * time.Millisecond

// converseTimeout bounds a single backend round trip.
const converseTimeout = 120 * time.Second

// Converser is the backend surface the orchestrator drives.
type Converser interface {
	Converse(ctx context.Context, req backend.Request) (backend.Response, error)
}

// Phase tracks where the session is in its lifecycle.
type Phase int

const (
	PhaseInput      Phase = iota // awaiting user input
	PhaseSubmitting              // one request in flight, input disabled
	PhaseApproval                // paused on the approval gate
	PhaseReport                  // finalized, report view showing
)

// Model is the root bubbletea model for the intake client.
type Model struct {
	conv      Converser
	store     *store.Store
	storePath string

	// Session state. The orchestrator is the only writer.
	phase          Phase
	history        conversation.History
	pendingSummary string // PendingApproval; empty unless phase == PhaseApproval
	confidence     float64
	generation     int // bumped on submit/regenerate/clear; stale results are dropped

	// Reveal state for the newest assistant turn.
	revealTurnID string
	revealRunes  []rune
	revealPos    int

	// UI state
	locale       Locale
	debugMode    bool
	lastAnalysis string
	showInput    bool
	input        textinput.Model
	spinner      spinner.Model
	report       backend.FinalReport
	errorMessage string
	width        int
	height       int
}

// New creates a model wired to the given backend. The session store is
// opened (and the previous session restored) asynchronously in Init.
func New(conv Converser, storePath string) Model {
	input := textinput.New()
	input.Prompt = "❯ "
	input.CharLimit = 2000
	input.Placeholder = Text(LocaleZhCN).InputPlaceholder

	sp := spinner.New()
	sp.Spinner = spinner.Points
	sp.Style = ui.ThinkingStyle

	return Model{
		conv:      conv,
		storePath: storePath,
		locale:    LocaleZhCN,
		input:     input,
		spinner:   sp,
	}
}

// History exposes the current turn sequence, mostly for tests.
func (m Model) History() conversation.History { return m.history }

// Phase exposes the current lifecycle phase.
func (m Model) CurrentPhase() Phase { return m.phase }

// Init opens the store and restores any fresh session.
func (m Model) Init() tea.Cmd {
	return restoreSessionCmd(m.storePath)
}

// restoreSessionCmd opens the sqlite store and loads whatever session
// is still inside the freshness window. A store that cannot be opened
// degrades to an unpersisted session rather than blocking the UI.
func restoreSessionCmd(path string) tea.Cmd {
	return func() tea.Msg {
		st, err := store.Open(path)
		if err != nil {
			return SessionRestoredMsg{}
		}
		return SessionRestoredMsg{Store: st, History: st.Load()}
	}
}

// converseCmd runs one backend round trip tagged with the generation
// it was sent under.
func converseCmd(conv Converser, req backend.Request, generation int, approval *bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), converseTimeout)
		defer cancel()

		resp, err := conv.Converse(ctx, req)
		return ConverseResultMsg{
			Generation: generation,
			Approval:   approval,
			Response:   resp,
			Err:        err,
		}
	}
}

// persistCmd writes the history after a mutation. Store failures are
// ignored; persistence is best effort.
func persistCmd(st *store.Store, history conversation.History) tea.Cmd {
	if st == nil {
		return nil
	}
	h := history.Clone()
	return func() tea.Msg {
		st.Save(h)
		return nil
	}
}

// revealTickCmd schedules the next reveal step for one turn.
func revealTickCmd(turnID string) tea.Cmd {
	return tea.Tick(RevealInterval, func(time.Time) tea.Msg {
		return RevealTickMsg{TurnID: turnID}
	})
}

// saveReportCmd writes the finalized report to the handoff slot.
// Persisting and switching to the report view are one transition.
func saveReportCmd(st *store.Store, report backend.FinalReport) tea.Cmd {
	return func() tea.Msg {
		if st == nil {
			return ReportSavedMsg{Report: report}
		}
		return ReportSavedMsg{Report: report, Err: st.SaveReport(report)}
	}
}

// Update processes messages and returns the updated model and any commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(20, m.width-6)
		return m, nil

	case SessionRestoredMsg:
		m.store = msg.Store
		m.history = msg.History
		return m, nil

	case ConverseResultMsg:
		if msg.Generation != m.generation {
			// A rolled-back or superseded request; its result must not
			// resurrect truncated turns.
			return m, nil
		}
		return m.applyResult(msg)

	case RevealTickMsg:
		return m.advanceReveal(msg.TurnID)

	case ReportSavedMsg:
		m.phase = PhaseReport
		m.report = msg.Report
		if msg.Err != nil {
			m.errorMessage = msg.Err.Error()
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.showInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// applyResult maps a backend response (or failure) onto the next
// session state. Precedence: finalize, then approval, then next
// question; a reply with neither signal leaves the session awaiting
// input.
func (m Model) applyResult(msg ConverseResultMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		// The only recovery path: surface the failure as a visible
		// assistant turn and let the user re-drive the conversation.
		turn := conversation.NewAssistantTurn(fmt.Sprintf("Error: %v", msg.Err), "")
		m.history = m.history.Append(turn)
		m.phase = PhaseInput
		return m, persistCmd(m.store, m.history)
	}

	resp := msg.Response

	if resp.ConfidenceLevel != nil {
		m.confidence = *resp.ConfidenceLevel
	}
	if m.debugMode {
		m.lastAnalysis = resp.HiddenAnalysis
	}

	if msg.Approval != nil && *msg.Approval && resp.Done {
		report := backend.FinalReport{
			MedicalSummary:         resp.MedicalSummary,
			PlainSummary:           resp.PlainSummary,
			RecommendedSpecialties: resp.RecommendedSpecialties,
		}
		return m, saveReportCmd(m.store, report)
	}

	if resp.NeedsApproval {
		// The proposed summary is materialized as a turn only once the
		// user responds to it.
		m.pendingSummary = resp.PlainSummary
		m.phase = PhaseApproval
		return m, nil
	}

	if resp.NextQuestion != "" {
		turn := conversation.NewAssistantTurn(resp.NextQuestion, resp.HiddenAnalysis)
		m.history = m.history.Append(turn)
		m.phase = PhaseInput
		m.startReveal(turn)
		return m, tea.Batch(persistCmd(m.store, m.history), revealTickCmd(turn.ID))
	}

	// Degenerate but valid reply: no transition signal of any kind.
	m.phase = PhaseInput
	return m, nil
}

// startReveal points the reveal timer at a freshly appended assistant
// turn, implicitly cancelling any reveal still running.
func (m *Model) startReveal(turn conversation.Turn) {
	m.revealTurnID = turn.ID
	m.revealRunes = []rune(turn.Content)
	m.revealPos = 0
}

// advanceReveal shows one more rune of the current reveal target.
func (m Model) advanceReveal(turnID string) (tea.Model, tea.Cmd) {
	if turnID != m.revealTurnID {
		return m, nil // stale timer
	}

	m.revealPos++
	if m.revealPos >= len(m.revealRunes) {
		m.revealTurnID = ""
		m.revealRunes = nil
		m.revealPos = 0
		return m, nil
	}
	return m, revealTickCmd(turnID)
}

// submit appends a user turn and starts a round trip. Empty or
// whitespace-only input is rejected locally with no network call.
func (m Model) submit(text string) (tea.Model, tea.Cmd) {
	text = strings.TrimSpace(text)
	if text == "" {
		return m, nil
	}

	m.history = m.history.Append(conversation.NewTurn(conversation.RoleUser, text))
	m.input.Reset()
	m.showInput = false
	m.phase = PhaseSubmitting
	m.errorMessage = ""
	m.generation++

	req := backend.Request{
		History: m.history.Clone(),
		Lang:    string(m.locale),
		Debug:   m.debugMode,
	}
	return m, tea.Batch(
		persistCmd(m.store, m.history),
		converseCmd(m.conv, req, m.generation, nil),
		m.spinner.Tick,
	)
}

// resolveApproval materializes the pending summary as an assistant
// turn and sends the user's decision.
func (m Model) resolveApproval(approved bool) (tea.Model, tea.Cmd) {
	summary := m.pendingSummary
	m.pendingSummary = ""

	m.history = m.history.Append(conversation.NewAssistantTurn(summary, ""))
	m.phase = PhaseSubmitting
	m.generation++

	approval := backend.BoolPtr(approved)
	req := backend.Request{
		History:  m.history.Clone(),
		Approval: approval,
		Lang:     string(m.locale),
		Debug:    m.debugMode,
	}
	return m, tea.Batch(
		persistCmd(m.store, m.history),
		converseCmd(m.conv, req, m.generation, approval),
		m.spinner.Tick,
	)
}

// regenerate discards the last assistant turn and asks the backend for
// a different reply from the same prior context.
func (m Model) regenerate() (tea.Model, tea.Cmd) {
	if m.history.LastAssistantIndex() < 0 {
		return m, nil
	}

	m.history = m.history.TruncateBeforeLastAssistant()
	m.revealTurnID = "" // cancel any running reveal
	m.phase = PhaseSubmitting
	m.generation++

	req := backend.Request{
		History: m.history.Clone(),
		Lang:    string(m.locale),
		Debug:   m.debugMode,
	}
	return m, tea.Batch(
		persistCmd(m.store, m.history),
		converseCmd(m.conv, req, m.generation, nil),
		m.spinner.Tick,
	)
}

// clearChat destroys the session.
func (m Model) clearChat() (tea.Model, tea.Cmd) {
	m.history = nil
	m.pendingSummary = ""
	m.confidence = 0
	m.lastAnalysis = ""
	m.errorMessage = ""
	m.revealTurnID = ""
	m.phase = PhaseInput
	m.generation++ // any in-flight result is now stale

	st := m.store
	if st == nil {
		return m, nil
	}
	return m, func() tea.Msg {
		st.Clear()
		return nil
	}
}

// handleKey processes key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == KeyCtrlC {
		return m, tea.Quit
	}

	switch m.phase {
	case PhaseSubmitting:
		// Input is disabled while a request is outstanding; no
		// duplicate submissions.
		return m, nil

	case PhaseApproval:
		switch key {
		case KeyYes:
			return m.resolveApproval(true)
		case KeyNo:
			return m.resolveApproval(false)
		}
		return m, nil

	case PhaseReport:
		switch key {
		case KeyQuit:
			return m, tea.Quit
		case KeyClear:
			return m.clearChat()
		}
		return m, nil
	}

	// PhaseInput
	if m.showInput {
		switch key {
		case KeyEnter:
			return m.submit(m.input.Value())
		case KeyEsc:
			m.showInput = false
			m.input.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	text := Text(m.locale)
	switch key {
	case KeyQuit:
		return m, tea.Quit
	case KeyYes:
		return m.submit(text.Yes)
	case KeyNo:
		return m.submit(text.No)
	case KeyElse:
		// Reveals the free-text input without submitting anything.
		m.showInput = true
		m.input.Placeholder = text.InputPlaceholder
		return m, m.input.Focus()
	case KeyRegenerate:
		return m.regenerate()
	case KeyClear:
		return m.clearChat()
	case KeyDebug:
		m.debugMode = !m.debugMode
		if !m.debugMode {
			m.lastAnalysis = ""
		}
		return m, nil
	case KeyLocale:
		m.locale = NextLocale(m.locale)
		m.input.Placeholder = Text(m.locale).InputPlaceholder
		return m, nil
	}

	return m, nil
}

// displayedContent returns what the chat window shows for a turn:
// the partial reveal buffer for the turn being revealed, the full
// content for everything else.
func (m Model) displayedContent(t conversation.Turn) string {
	if t.ID == m.revealTurnID {
		return string(m.revealRunes[:m.revealPos]) + "▌"
	}
	return t.Content
}

// View renders the full TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}
	if m.phase == PhaseReport {
		return m.renderReport()
	}

	text := Text(m.locale)
	var sections []string

	sections = append(sections, ui.TitleStyle.Render("CLINIC AI")+
		ui.DimStyle.Render("  "+text.SelectLang+string(m.locale)))
	sections = append(sections, ui.DividerStyle.Render(strings.Repeat("─", m.width)))
	sections = append(sections, m.renderChatWindow())

	if m.phase == PhaseSubmitting {
		sections = append(sections, m.spinner.View()+" "+ui.ThinkingStyle.Render(text.Thinking))
	}

	if m.debugMode {
		sections = append(sections, m.renderDebugPanel(text))
	}

	if m.errorMessage != "" {
		sections = append(sections, ui.ErrorStyle.Render("Error: ")+ui.ErrorTextStyle.Render(m.errorMessage))
	}

	if m.phase == PhaseApproval {
		sections = append(sections, m.renderApprovalModal(text))
	} else if m.showInput {
		sections = append(sections, m.input.View())
	}

	sections = append(sections, ui.DividerStyle.Render(strings.Repeat("─", m.width)))
	sections = append(sections, m.renderFooter(text))

	return strings.Join(sections, "\n")
}

func (m Model) renderChatWindow() string {
	textWidth := max(20, m.width-10)

	var lines []string
	for _, t := range m.history {
		content := m.displayedContent(t)

		var prefix string
		var style lipgloss.Style
		switch t.Role {
		case conversation.RoleUser:
			prefix = "You "
			style = ui.UserBubbleStyle
		case conversation.RoleAssistant:
			prefix = " AI "
			style = ui.AssistantBubbleStyle
		default:
			prefix = "SYS "
			style = ui.DimStyle
		}

		wrapped := wrapText(content, textWidth)
		lines = append(lines, style.Render(prefix)+wrapped[0])
		for _, wl := range wrapped[1:] {
			lines = append(lines, "    "+wl)
		}

		if m.debugMode && t.HiddenAnalysis != "" {
			for _, wl := range wrapText(t.HiddenAnalysis, textWidth) {
				lines = append(lines, ui.DebugBoxStyle.Render("    » "+wl))
			}
		}
	}

	// Tail window: keep the newest lines on screen.
	visible := m.chatVisibleLines()
	if len(lines) > visible {
		lines = lines[len(lines)-visible:]
	}
	for len(lines) < visible {
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}

func (m Model) chatVisibleLines() int {
	if m.height == 0 {
		return 20
	}
	// Reserve: header(1) + dividers(2) + thinking/debug/input(3) + footer(1)
	reserved := 7
	return max(5, m.height-reserved)
}

func (m Model) renderDebugPanel(text UIText) string {
	panel := ui.ConfidenceStyle.Render(fmt.Sprintf("%s%.1f%%", text.Confidence, m.confidence*100))
	if m.lastAnalysis != "" {
		panel += "\n" + ui.DebugBoxStyle.Render(m.lastAnalysis)
	}
	return panel
}

func (m Model) renderApprovalModal(text UIText) string {
	body := ui.ModalTitleStyle.Render(text.ConfirmSummary) + "\n\n" +
		strings.Join(wrapText(m.pendingSummary, max(20, m.width-12)), "\n") + "\n\n" +
		ui.FooterKeyStyle.Render(KeyYes) + ui.FooterDescStyle.Render(" "+text.ApprovalYes) + "  " +
		ui.FooterKeyStyle.Render(KeyNo) + ui.FooterDescStyle.Render(" "+text.ApprovalNo)
	return ui.ModalBorderStyle.Render(body)
}

func (m Model) renderFooter(text UIText) string {
	var parts []string

	switch m.phase {
	case PhaseInput:
		if !m.showInput {
			parts = append(parts, ui.FooterKeyStyle.Render(KeyYes)+ui.FooterDescStyle.Render(" "+text.Yes))
			parts = append(parts, ui.FooterKeyStyle.Render(KeyNo)+ui.FooterDescStyle.Render(" "+text.No))
			parts = append(parts, ui.FooterKeyStyle.Render(KeyElse)+ui.FooterDescStyle.Render(" "+text.Else))
			parts = append(parts, ui.FooterKeyStyle.Render(KeyRegenerate)+ui.FooterDescStyle.Render(" "+text.Regenerate))
			parts = append(parts, ui.FooterKeyStyle.Render(KeyClear)+ui.FooterDescStyle.Render(" "+text.ClearChat))
			parts = append(parts, ui.FooterKeyStyle.Render(KeyLocale)+ui.FooterDescStyle.Render(" "+text.SelectLang))
			if m.debugMode {
				parts = append(parts, ui.FooterKeyStyle.Render(KeyDebug)+ui.FooterDescStyle.Render(" "+text.HideDebug))
			} else {
				parts = append(parts, ui.FooterKeyStyle.Render(KeyDebug)+ui.FooterDescStyle.Render(" "+text.ShowDebug))
			}
			parts = append(parts, ui.FooterKeyStyle.Render(KeyQuit)+ui.FooterDescStyle.Render(" Quit"))
		} else {
			parts = append(parts, ui.FooterKeyStyle.Render("Enter")+ui.FooterDescStyle.Render(" Send"))
			parts = append(parts, ui.FooterKeyStyle.Render("Esc")+ui.FooterDescStyle.Render(" Back"))
		}
	case PhaseApproval:
		parts = append(parts, ui.FooterKeyStyle.Render(KeyYes)+ui.FooterDescStyle.Render(" "+text.ApprovalYes))
		parts = append(parts, ui.FooterKeyStyle.Render(KeyNo)+ui.FooterDescStyle.Render(" "+text.ApprovalNo))
	case PhaseSubmitting:
		parts = append(parts, ui.ThinkingStyle.Render(text.Thinking))
	}

	return strings.Join(parts, "  ")
}

// renderReport shows the finalized session. The specialty names are
// what would be forwarded to the facility map as a query parameter.
func (m Model) renderReport() string {
	text := Text(m.locale)
	textWidth := max(20, m.width-6)

	var sections []string
	sections = append(sections, ui.TitleStyle.Render(text.ReportTitle))
	sections = append(sections, ui.DividerStyle.Render(strings.Repeat("─", m.width)))

	sections = append(sections, ui.ReportHeadingStyle.Render(text.MedicalSummary))
	sections = append(sections, strings.Join(wrapText(m.report.MedicalSummary, textWidth), "\n"))
	sections = append(sections, "")
	sections = append(sections, ui.ReportHeadingStyle.Render(text.PlainSummary))
	sections = append(sections, strings.Join(wrapText(m.report.PlainSummary, textWidth), "\n"))
	sections = append(sections, "")
	sections = append(sections, ui.ReportHeadingStyle.Render(text.RecommendedDepts))
	for _, s := range m.report.RecommendedSpecialties {
		sections = append(sections, ui.SpecialtyStyle.Render(fmt.Sprintf("  %s", s.Specialty))+
			ui.DimStyle.Render(fmt.Sprintf("  %.0f%%", s.Confidence)))
	}
	if q := m.mapQuery(); q != "" {
		sections = append(sections, "")
		sections = append(sections, ui.DimStyle.Render(text.Map+": /map?departments="+q))
	}

	sections = append(sections, ui.DividerStyle.Render(strings.Repeat("─", m.width)))
	sections = append(sections, ui.FooterKeyStyle.Render(KeyClear)+ui.FooterDescStyle.Render(" "+text.NewSession)+"  "+
		ui.FooterKeyStyle.Render(KeyQuit)+ui.FooterDescStyle.Render(" Quit"))

	return strings.Join(sections, "\n")
}

// mapQuery joins the recommended specialty names for the facility map
// collaborator. No data flows back from it.
func (m Model) mapQuery() string {
	if len(m.report.RecommendedSpecialties) == 0 {
		return ""
	}
	names := make([]string, 0, len(m.report.RecommendedSpecialties))
	for _, s := range m.report.RecommendedSpecialties {
		names = append(names, s.Specialty)
	}
	return strings.Join(names, ",")
}

// Helpers

func wrapText(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}

	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		var current string
		var count int
		for _, r := range paragraph {
			current += string(r)
			count++
			if count >= width {
				lines = append(lines, current)
				current = ""
				count = 0
			}
		}
		lines = append(lines, current)
	}
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}
