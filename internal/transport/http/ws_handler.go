package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"blitz-quiz-service/internal/app"
	"blitz-quiz-service/internal/domain"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

// Settings tune the handler. CommandsPerSecond and Burst bound how fast one connection may send commands.
type Settings struct {
	DefaultBank       string
	CommandsPerSecond float64
	Burst             int
}

type WSHandler struct {
	service  *app.QuizService
	settings Settings
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService, settings Settings) *WSHandler {
	if settings.DefaultBank == "" {
		settings.DefaultBank = domain.DefaultBankID
	}
	if settings.CommandsPerSecond <= 0 {
		settings.CommandsPerSecond = 5
	}
	if settings.Burst <= 0 {
		settings.Burst = 10
	}
	return &WSHandler{
		service:  service,
		settings: settings,
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

type selectPayload struct {
	Option string `json:"option"`
}

type openedPayload struct {
	SessionID string `json:"sessionId"`
	BestScore int    `json:"bestScore"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type bestScorePayload struct {
	InstallID string `json:"installId"`
	BestScore int    `json:"bestScore"`
}

// ServeWS upgrades HTTP requests to websockets and wires them into one quiz session.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	installID := r.URL.Query().Get("installId")
	bankID := r.URL.Query().Get("bank")
	if bankID == "" {
		bankID = h.settings.DefaultBank
	}
	if installID == "" {
		http.Error(w, "missing installId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx := r.Context()
	session := h.service.Open(ctx, installID, bankID)
	defer h.service.Close(ctx, session.ID())

	updates, cancel, err := h.service.Subscribe(ctx, session.ID())
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer cancel()

	best, err := h.service.BestScore(ctx, installID)
	if err != nil {
		log.Printf("read best score for %s: %v", installID, err)
	}

	send := make(chan outboundMessage[any], 64)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case event, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: event.EventType(), Payload: event}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	send <- outboundMessage[any]{Type: "opened", Payload: openedPayload{SessionID: session.ID(), BestScore: best}}

	limiter := rate.NewLimiter(rate.Limit(h.settings.CommandsPerSecond), h.settings.Burst)
	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		if !limiter.Allow() {
			send <- errorMessage("too many commands")
			continue
		}
		if msg, ok := h.dispatch(r, session.ID(), inbound); ok {
			send <- msg
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

// dispatch runs one command. Results travel on the event stream; only failures and state replies come back here.
func (h *WSHandler) dispatch(r *http.Request, sessionID string, inbound inboundMessage) (outboundMessage[any], bool) {
	ctx := r.Context()
	switch inbound.Type {
	case "start":
		if err := h.service.Start(ctx, sessionID); err != nil && !errors.Is(err, domain.ErrNoQuestionsAvailable) {
			return errorMessage(err.Error()), true
		}
	case "playAgain":
		if err := h.service.PlayAgain(ctx, sessionID); err != nil && !errors.Is(err, domain.ErrNoQuestionsAvailable) {
			return errorMessage(err.Error()), true
		}
	case "select":
		var payload selectPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return errorMessage("invalid select payload"), true
		}
		if _, err := h.service.SelectAnswer(ctx, sessionID, payload.Option); err != nil {
			return errorMessage(err.Error()), true
		}
	case "skip":
		if _, err := h.service.Skip(ctx, sessionID); err != nil {
			return errorMessage(err.Error()), true
		}
	case "state":
		snap, err := h.service.State(ctx, sessionID)
		if err != nil {
			return errorMessage(err.Error()), true
		}
		return outboundMessage[any]{Type: "state", Payload: snap}, true
	default:
		return errorMessage("unsupported message type"), true
	}
	return outboundMessage[any]{}, false
}

// ServeBestScore reports the stored best score of an installation.
func (h *WSHandler) ServeBestScore(w http.ResponseWriter, r *http.Request) {
	installID := r.URL.Query().Get("installId")
	if installID == "" {
		http.Error(w, "missing installId", http.StatusBadRequest)
		return
	}
	best, err := h.service.BestScore(r.Context(), installID)
	if err != nil {
		log.Printf("read best score for %s: %v", installID, err)
		http.Error(w, "best score unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(bestScorePayload{InstallID: installID, BestScore: best})
}

func errorMessage(message string) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: message}}
}
