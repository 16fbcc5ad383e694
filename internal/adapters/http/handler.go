package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/kongmeng/sages/internal/adapters/storage/memory"
	"github.com/kongmeng/sages/internal/app/chat"
	"github.com/kongmeng/sages/internal/app/debate"
	"github.com/kongmeng/sages/internal/app/export"
	"github.com/kongmeng/sages/internal/domain"
)

// Server is the boundary the presentation shell talks to. It exposes the
// core operations only; rendering stays on the shell's side.
type Server struct {
	chat   *chat.Service
	debate *debate.Orchestrator
	now    func() time.Time
}

func NewServer(chatSvc *chat.Service, debateSvc *debate.Orchestrator) http.Handler {
	s := &Server{
		chat:   chatSvc,
		debate: debateSvc,
		now:    time.Now,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/presets", s.handlePresets)
	mux.HandleFunc("/sessions", s.handleSessions)

	// /sessions/{id}                                → GET snapshot
	// /sessions/{id}/clear                          → POST clear both threads
	// /sessions/{id}/personas/{p}/messages          → POST blocking send
	// /sessions/{id}/personas/{p}/stream            → GET websocket send
	// /sessions/{id}/personas/{p}/clear             → POST clear one thread
	// /sessions/{id}/personas/{p}/export            → GET download
	// /sessions/{id}/debate/{start|continue|clear}  → POST
	// /sessions/{id}/debate/export                  → GET download
	mux.HandleFunc("/sessions/", s.handleSessionWithID)

	return chainMiddlewares(mux, withLogging, withCORS, withRequestID)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type createSessionRequest struct {
	ResponseLength string `json:"response_length,omitempty"`
}

type sessionResponse struct {
	ID             string    `json:"id"`
	ResponseLength string    `json:"response_length"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type turnResponse struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type debateEntryResponse struct {
	Kind    string `json:"kind"`
	Speaker string `json:"speaker,omitempty"`
	Content string `json:"content"`
}

type debateResponse struct {
	Active  bool                  `json:"active"`
	Entries []debateEntryResponse `json:"entries"`
}

type sessionSnapshotResponse struct {
	Session sessionResponse           `json:"session"`
	Threads map[string][]turnResponse `json:"threads"`
	Debate  debateResponse            `json:"debate"`
}

type sendMessageRequest struct {
	Text string `json:"text"`
}

type sendMessageResponse struct {
	UserTurn      turnResponse `json:"user_turn"`
	AssistantTurn turnResponse `json:"assistant_turn"`
}

type startDebateRequest struct {
	Topic string `json:"topic"`
}

type personaResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type presetGroupResponse struct {
	Theme     string   `json:"theme"`
	Questions []string `json:"questions"`
}

type presetsResponse struct {
	Personas []personaResponse     `json:"personas"`
	Groups   []presetGroupResponse `json:"groups"`
}

// ─────────────────────────────────────────────
// Routing
// ─────────────────────────────────────────────

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	resp := presetsResponse{}
	for _, p := range domain.Personas() {
		resp.Personas = append(resp.Personas, personaResponse{
			ID:          string(p.ID),
			DisplayName: p.DisplayName,
		})
	}
	for _, g := range domain.PresetQuestions() {
		resp.Groups = append(resp.Groups, presetGroupResponse{
			Theme:     g.Theme,
			Questions: g.Questions,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req createSessionRequest
	if r.Body != nil {
		// Body is optional; ignore decode errors on an empty body.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	// Leave the length empty when the request omits it so the service's
	// configured default applies.
	var length domain.ResponseLength
	if req.ResponseLength != "" {
		length = domain.ParseResponseLength(req.ResponseLength)
	}

	session, err := s.chat.StartSession(r.Context(), chat.StartSessionInput{
		ResponseLength: length,
	})
	if err != nil {
		internalError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toSessionResponse(session))
}

func (s *Server) handleSessionWithID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/sessions/")
	if path == "" {
		http.NotFound(w, r)
		return
	}

	parts := strings.Split(path, "/")
	id := domain.SessionID(parts[0])
	if id == "" {
		http.NotFound(w, r)
		return
	}

	switch {
	case len(parts) == 1:
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		s.handleGetSession(w, r, id)

	case len(parts) == 2 && parts[1] == "clear":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		s.handleClearAll(w, r, id)

	case parts[1] == "debate" && len(parts) == 3:
		s.handleDebate(w, r, id, parts[2])

	case parts[1] == "personas" && len(parts) == 4:
		personaID, ok := domain.ParsePersonaID(parts[2])
		if !ok {
			http.NotFound(w, r)
			return
		}
		s.handlePersona(w, r, id, personaID, parts[3])

	default:
		http.NotFound(w, r)
	}
}

// ─────────────────────────────────────────────
// Session handlers
// ─────────────────────────────────────────────

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	session, err := s.chat.GetSession(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	threads := make(map[string][]turnResponse)
	for _, p := range domain.Personas() {
		thread, ok := session.Thread(p.ID)
		if !ok {
			continue
		}
		threads[string(p.ID)] = toTurnsResponse(thread.Turns())
	}

	resp := sessionSnapshotResponse{
		Session: toSessionResponse(session),
		Threads: threads,
		Debate: debateResponse{
			Active:  session.Debate().Active(),
			Entries: toDebateEntriesResponse(session.Debate().Entries()),
		},
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleClearAll(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	if err := s.chat.ClearAll(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// ─────────────────────────────────────────────
// Persona thread handlers
// ─────────────────────────────────────────────

func (s *Server) handlePersona(w http.ResponseWriter, r *http.Request, id domain.SessionID, personaID domain.PersonaID, action string) {
	switch action {
	case "messages":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		s.handleSendMessage(w, r, id, personaID)

	case "stream":
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		s.handleStream(w, r, id, personaID)

	case "clear":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		if err := s.chat.Clear(r.Context(), id, personaID); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})

	case "export":
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		s.handleExport(w, r, id, personaID)

	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request, id domain.SessionID, personaID domain.PersonaID) {
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	out, err := s.chat.Send(r.Context(), chat.SendInput{
		SessionID: id,
		Persona:   personaID,
		Text:      req.Text,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sendMessageResponse{
		UserTurn:      toTurnResponse(out.UserTurn),
		AssistantTurn: toTurnResponse(out.AssistantTurn),
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request, id domain.SessionID, personaID domain.PersonaID) {
	format, ok := export.ParseFormat(r.URL.Query().Get("format"))
	if !ok {
		badRequest(w, "unknown export format")
		return
	}

	session, err := s.chat.GetSession(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	persona, ok := domain.GetPersona(personaID)
	if !ok {
		http.NotFound(w, r)
		return
	}
	thread, _ := session.Thread(persona.ID)

	content := export.Render(thread.Turns(), persona.DisplayName, format, s.now())
	writeDownload(w, content, export.FileName(persona.DisplayName, format), format.MIMEType())
}

// ─────────────────────────────────────────────
// Debate handlers
// ─────────────────────────────────────────────

func (s *Server) handleDebate(w http.ResponseWriter, r *http.Request, id domain.SessionID, action string) {
	switch action {
	case "start":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		var req startDebateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			badRequest(w, "invalid JSON body")
			return
		}
		if strings.TrimSpace(req.Topic) == "" {
			badRequest(w, "topic is required")
			return
		}
		entries, err := s.debate.Start(r.Context(), id, req.Topic)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, debateResponse{
			Active:  true,
			Entries: toDebateEntriesResponse(entries),
		})

	case "continue":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		entries, err := s.debate.Continue(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		if entries == nil {
			badRequest(w, "no active debate to continue")
			return
		}
		writeJSON(w, http.StatusOK, debateResponse{
			Active:  true,
			Entries: toDebateEntriesResponse(entries),
		})

	case "clear":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		if err := s.debate.Clear(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})

	case "export":
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		s.handleDebateExport(w, r, id)

	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleDebateExport(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	format, ok := export.ParseFormat(r.URL.Query().Get("format"))
	if !ok {
		badRequest(w, "unknown export format")
		return
	}

	session, err := s.chat.GetSession(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	entries := session.Debate().Entries()
	topic := ""
	if len(entries) > 0 && entries[0].Kind == domain.EntryTopic {
		topic = entries[0].Content
	}

	content := export.RenderDebate(entries, format, s.now())
	writeDownload(w, content, export.DebateFileName(topic, format), format.MIMEType())
}

// ─────────────────────────────────────────────
// Response helpers
// ─────────────────────────────────────────────

func toSessionResponse(s *domain.Session) sessionResponse {
	return sessionResponse{
		ID:             string(s.ID),
		ResponseLength: string(s.ResponseLength()),
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt(),
	}
}

func toTurnResponse(t domain.Turn) turnResponse {
	return turnResponse{
		ID:        string(t.ID),
		Role:      string(t.Role),
		Content:   t.Content,
		CreatedAt: t.CreatedAt,
	}
}

func toTurnsResponse(turns []domain.Turn) []turnResponse {
	out := make([]turnResponse, 0, len(turns))
	for _, t := range turns {
		out = append(out, toTurnResponse(t))
	}
	return out
}

func toDebateEntriesResponse(entries []domain.DebateEntry) []debateEntryResponse {
	out := make([]debateEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, debateEntryResponse{
			Kind:    string(e.Kind),
			Speaker: string(e.Speaker),
			Content: e.Content,
		})
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDownload(w http.ResponseWriter, content, fileName, mimeType string) {
	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(content))
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, memory.ErrSessionNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
	case errors.Is(err, chat.ErrUnknownPersona):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown persona"})
	case errors.Is(err, chat.ErrEmptyMessage):
		badRequest(w, "text is required")
	case errors.Is(err, chat.ErrBusy):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		internalError(w, err)
	}
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}

func internalError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
}
