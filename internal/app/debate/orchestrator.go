package debate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kongmeng/sages/internal/domain"
	"github.com/kongmeng/sages/internal/observability"
)

// debateMaxTokens caps each debate round. Smaller than normal chat replies
// to keep rounds readable.
const debateMaxTokens = 400

// Orchestrator sequences the shared two-party debate: Confucius opens every
// round, Mencius answers with Confucius's fresh remark as context. The two
// generation calls of a round are strictly sequential because the second
// depends on the first's output.
type Orchestrator struct {
	gen      domain.Generator
	sessions domain.SessionStore
	now      func() time.Time
}

func NewOrchestrator(gen domain.Generator, sessions domain.SessionStore) *Orchestrator {
	return &Orchestrator{
		gen:      gen,
		sessions: sessions,
		now:      time.Now,
	}
}

// Start seeds the debate with a topic and produces the opening round: one
// Confucius response (initial thoughts, no opposing remark) and one Mencius
// response to it. Any previous exchange is discarded. An empty topic is a
// silent no-op.
func (o *Orchestrator) Start(ctx context.Context, sessionID domain.SessionID, topic string) ([]domain.DebateEntry, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, nil
	}

	session, err := o.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	log := observability.LoggerFromContext(ctx).With("session_id", session.ID)
	log.Info("debate started", "topic", topic)

	debateLog := session.Debate()
	debateLog.Reset(topic)

	opening := o.respond(ctx, domain.PersonaConfucius, topic, "")
	debateLog.AppendResponse(domain.PersonaConfucius, opening)

	counter := o.respond(ctx, domain.PersonaMencius, topic, opening)
	debateLog.AppendResponse(domain.PersonaMencius, counter)

	session.Touch(o.now())
	return debateLog.Entries(), nil
}

// Continue produces the next round: Confucius answers Mencius's latest
// remark, then Mencius answers the fresh Confucius remark. Appends exactly
// one pair. A no-op unless the debate is active and Mencius has spoken.
func (o *Orchestrator) Continue(ctx context.Context, sessionID domain.SessionID) ([]domain.DebateEntry, error) {
	session, err := o.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	debateLog := session.Debate()
	if !debateLog.Active() {
		return nil, nil
	}

	lastMencius, ok := debateLog.LastResponseBy(domain.PersonaMencius)
	if !ok {
		return nil, nil
	}
	topic, _ := debateLog.Topic()

	log := observability.LoggerFromContext(ctx).With("session_id", session.ID)
	log.Info("debate continued", "topic", topic)

	reply := o.respond(ctx, domain.PersonaConfucius, topic, lastMencius)
	debateLog.AppendResponse(domain.PersonaConfucius, reply)

	counter := o.respond(ctx, domain.PersonaMencius, topic, reply)
	debateLog.AppendResponse(domain.PersonaMencius, counter)

	session.Touch(o.now())
	return debateLog.Entries(), nil
}

// Clear empties the debate log and deactivates the debate. Always succeeds,
// idempotent.
func (o *Orchestrator) Clear(ctx context.Context, sessionID domain.SessionID) error {
	session, err := o.sessions.Get(sessionID)
	if err != nil {
		return err
	}

	session.Debate().Clear()
	session.Touch(o.now())

	observability.LoggerFromContext(ctx).Info("debate cleared", "session_id", session.ID)
	return nil
}

// respond asks one persona for a debate reply. The contextual preamble is
// the request input; the persona's own system instruction stays the system
// role. Adapter failures come back as ordinary content.
func (o *Orchestrator) respond(ctx context.Context, speaker domain.PersonaID, topic, opposingRemark string) string {
	persona, _ := domain.GetPersona(speaker)

	return o.gen.Generate(ctx, domain.GenerationRequest{
		SystemInstruction: persona.SystemInstruction,
		Input:             buildPreamble(persona, topic, opposingRemark),
		MaxTokens:         debateMaxTokens,
	})
}

// buildPreamble frames the debate for one speaker: who they are talking to,
// what the student asked, and the opponent's latest remark quoted verbatim.
// The very first remark of a debate has no opposing remark to quote.
func buildPreamble(speaker domain.Persona, topic, opposingRemark string) string {
	opponent, _ := domain.GetPersona(domain.Opponent(speaker.ID))

	var b strings.Builder
	fmt.Fprintf(&b, "You are in a respectful philosophical dialogue with %s. ", opponent.DisplayName)
	fmt.Fprintf(&b, "A student has asked: '%s'. ", topic)

	if opposingRemark != "" {
		fmt.Fprintf(&b, "\n\n%s just said:\n\"%s\"\n\n", opponent.DisplayName, opposingRemark)
		b.WriteString("Respond thoughtfully, building on or respectfully contrasting with their view. Keep your response concise (2-3 paragraphs).")
	} else {
		b.WriteString("Please share your initial thoughts on this matter.")
	}

	return b.String()
}
