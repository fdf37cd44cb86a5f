package http

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"clock-tutor-service/internal/app"
	"clock-tutor-service/internal/domain"
	"clock-tutor-service/internal/logging"
	"clock-tutor-service/internal/narrator"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const outboxSize = 32

var errUnsupportedMessage = errors.New("unsupported message type")

type WSHandler struct {
	lessons  *app.LessonService
	sessions app.SessionRepository
	narrator *narrator.Narrator
	log      *logging.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(lessons *app.LessonService, sessions app.SessionRepository, narr *narrator.Narrator, log *logging.Logger) *WSHandler {
	if log == nil {
		log = logging.Nop()
	}
	return &WSHandler{
		lessons:  lessons,
		sessions: sessions,
		narrator: narr,
		log:      log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type actionPayload struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Stage    int    `json:"stage"`
	Index    int    `json:"index"`
	ItemID   string `json:"itemId"`
}

type outboundMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type speechPayload struct {
	Text       string `json:"text"`
	Mime       string `json:"mime"`
	SampleRate int    `json:"sampleRate"`
	Audio      string `json:"audio"`
}

// outbox serializes writes to one connection. Pushes after close, or into
// a full buffer, are dropped.
type outbox struct {
	mu     sync.Mutex
	ch     chan outboundMessage
	closed bool
}

func newOutbox() *outbox {
	return &outbox{ch: make(chan outboundMessage, outboxSize)}
}

func (o *outbox) push(msg outboundMessage) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return false
	}
	select {
	case o.ch <- msg:
		return true
	default:
		return false
	}
}

func (o *outbox) close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.closed = true
	close(o.ch)
}

// connPresenter routes a session's narration and async views to its socket.
type connPresenter struct {
	out      *outbox
	narrator *narrator.Narrator
	log      *logging.Logger
}

func (p *connPresenter) Speak(text string) {
	p.narrator.Say(p, text)
}

func (p *connPresenter) Play(clip narrator.Clip) {
	msg := outboundMessage{Type: "speech", Payload: speechPayload{
		Text:       clip.Text,
		Mime:       "audio/wav",
		SampleRate: clip.SampleRate,
		Audio:      base64.StdEncoding.EncodeToString(clip.WAV()),
	}}
	if !p.out.push(msg) {
		p.log.Debug("speech dropped", "text", clip.Text)
	}
}

func (p *connPresenter) Render(view app.View) {
	if !p.out.push(outboundMessage{Type: "state", Payload: view}) {
		p.log.Warn("state update dropped", "phase", view.Phase)
	}
}

// ServeWS upgrades the request and runs one lesson session for the lifetime
// of the connection.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	id := uuid.NewString()
	log := h.log.With("session", id)
	out := newOutbox()
	presenter := &connPresenter{out: out, narrator: h.narrator, log: log}
	session := h.lessons.NewSession(id, presenter)
	h.sessions.Put(session)
	log.Info("session opened", "remote", r.RemoteAddr)

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for msg := range out.ch {
			if err := conn.WriteJSON(msg); err != nil {
				log.Debug("ws write error", "err", err)
				// keep draining so pushers never block on a dead socket
				for range out.ch {
				}
				return
			}
		}
	}()

	ctx := r.Context()
	view, err := session.Start(ctx)
	h.reply(out, view, err)

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		view, err := h.dispatch(ctx, session, inbound)
		if err != nil && !errors.Is(err, errUnsupportedMessage) {
			log.Debug("action rejected", "type", inbound.Type, "err", err)
		}
		h.reply(out, view, err)
	}

	session.Close()
	h.sessions.Delete(id)
	out.close()
	<-writerDone
	log.Info("session closed")
}

func (h *WSHandler) reply(out *outbox, view app.View, err error) {
	if err != nil {
		msg := domain.UserMessage(err)
		if errors.Is(err, errUnsupportedMessage) {
			msg = err.Error()
		}
		out.push(outboundMessage{Type: "error", Payload: errorPayload{Message: msg}})
	}
	out.push(outboundMessage{Type: "state", Payload: view})
}

func (h *WSHandler) dispatch(ctx context.Context, s *app.Session, in inboundMessage) (app.View, error) {
	var p actionPayload
	if len(in.Payload) > 0 {
		if err := json.Unmarshal(in.Payload, &p); err != nil {
			return s.View(), domain.ErrWrongPhase
		}
	}
	switch in.Type {
	case "selectPlayer":
		return s.SelectPlayer(ctx, p.PlayerID)
	case "createPlayer":
		return s.CreatePlayer(ctx, p.Name)
	case "leavePlayer":
		return s.LeavePlayer(ctx)
	case "startStage":
		return s.StartStage(ctx, p.Stage)
	case "exitStage":
		return s.ExitStage()
	case "adjustHour":
		return s.AdjustHour()
	case "toggleMinute":
		return s.ToggleMinute()
	case "checkClock":
		return s.SubmitClock()
	case "choose":
		return s.Choose(p.Index)
	case "matchClick":
		return s.ClickMatch(p.ItemID)
	case "replay":
		return s.ReplayPrompt()
	case "speakOption":
		return s.SpeakOption(p.Index)
	default:
		return s.View(), errUnsupportedMessage
	}
}
