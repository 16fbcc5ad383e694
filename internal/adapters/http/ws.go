package httpadapter

import (
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/kongmeng/sages/internal/app/chat"
	"github.com/kongmeng/sages/internal/domain"
	"github.com/kongmeng/sages/internal/observability"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// The shell runs on its own origin.
		return true
	},
}

// streamEvent is one websocket message in a streamed exchange. The shell
// renders fragments incrementally; "done" carries the committed assistant
// turn it must replace the buffered fragments with.
type streamEvent struct {
	Type     string        `json:"type"` // "user_turn", "fragment", "done", "error"
	Fragment string        `json:"fragment,omitempty"`
	Turn     *turnResponse `json:"turn,omitempty"`
	Error    string        `json:"error,omitempty"`
}

// handleStream runs one streamed exchange over a websocket. The input text
// travels as a query parameter; the reply is pushed fragment by fragment.
// Once opened, the generation runs to completion: client disconnects do not
// cancel it, and the drained reply is committed to the thread either way.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request, id domain.SessionID, personaID domain.PersonaID) {
	text := r.URL.Query().Get("text")
	if strings.TrimSpace(text) == "" {
		badRequest(w, "text is required")
		return
	}

	result, err := s.chat.SendStreaming(r.Context(), chat.SendInput{
		SessionID: id,
		Persona:   personaID,
		Text:      text,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error. Finish the exchange so the
		// user turn does not stay unanswered.
		result.Commit(drain(result.Fragments, nil))
		return
	}
	defer conn.Close()

	log := observability.LoggerFromContext(r.Context()).With(
		"session_id", id,
		"persona", personaID,
	)

	userTurn := toTurnResponse(result.UserTurn)
	if err := conn.WriteJSON(streamEvent{Type: "user_turn", Turn: &userTurn}); err != nil {
		log.Error("websocket write failed", "error", err)
		result.Commit(drain(result.Fragments, nil))
		return
	}

	full := drain(result.Fragments, func(fragment string) {
		if err := conn.WriteJSON(streamEvent{Type: "fragment", Fragment: fragment}); err != nil {
			log.Error("websocket write failed", "error", err)
		}
	})

	assistantTurn := toTurnResponse(result.Commit(full))
	if err := conn.WriteJSON(streamEvent{Type: "done", Turn: &assistantTurn}); err != nil {
		log.Error("websocket write failed", "error", err)
	}
}

// drain consumes a fragment stream to completion, invoking onFragment for
// each piece, and returns the concatenated reply.
func drain(stream domain.TextStream, onFragment func(string)) string {
	defer stream.Close()

	var b strings.Builder
	for {
		fragment, err := stream.Recv()
		if err == io.EOF {
			return b.String()
		}
		if err != nil {
			// The adapter absorbs provider errors, so this only happens for
			// local iteration faults; keep whatever arrived.
			return b.String()
		}
		b.WriteString(fragment)
		if onFragment != nil {
			onFragment(fragment)
		}
	}
}
