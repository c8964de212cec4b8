package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"blitz-quiz-service/internal/app"
	"blitz-quiz-service/internal/domain"
	"blitz-quiz-service/internal/infra/memory"
	"github.com/gorilla/websocket"
)

func TestWebSocketSessionFlow(t *testing.T) {
	server := newTestServer()
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "/ws?installId=install-1"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Expect opened event first.
	_, payload := readNext(conn, t, "opened")
	if payload["sessionId"] == "" {
		t.Fatalf("expected session id, got %v", payload)
	}

	send(t, conn, map[string]any{"type": "start"})
	_, question := readUntil(conn, t, "questionDisplayed")
	if question["text"] != "What is 2 + 2?" || question["total"].(float64) != 1 {
		t.Fatalf("unexpected question %v", question)
	}

	send(t, conn, map[string]any{"type": "select", "payload": map[string]any{"option": "4"}})
	_, eval := readUntil(conn, t, "answerEvaluated")
	if eval["correct"] != true {
		t.Fatalf("expected correct answer, got %v", eval)
	}

	_, summary := readUntil(conn, t, "sessionEnded")
	if summary["score"].(float64) != 10 || summary["coins"].(float64) != 5 || summary["isNewBest"] != true {
		t.Fatalf("unexpected summary %v", summary)
	}

	send(t, conn, map[string]any{"type": "state"})
	_, state := readUntil(conn, t, "state")
	if state["phase"] != string(domain.PhaseEnded) {
		t.Fatalf("expected ended state, got %v", state)
	}

	resp, err := http.Get(server.URL + "/best?installId=install-1")
	if err != nil {
		t.Fatalf("get best: %v", err)
	}
	defer resp.Body.Close()
	var best bestScorePayload
	if err := json.NewDecoder(resp.Body).Decode(&best); err != nil {
		t.Fatalf("decode best: %v", err)
	}
	if best.BestScore != 10 {
		t.Fatalf("expected best 10, got %+v", best)
	}
}

func TestWebSocketRejectsUnknownCommands(t *testing.T) {
	server := newTestServer()
	defer server.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+server.URL[len("http"):]+"/ws?installId=install-1", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	readNext(conn, t, "opened")

	send(t, conn, map[string]any{"type": "dance"})
	if _, payload := readNext(conn, t, "error"); payload["message"] != "unsupported message type" {
		t.Fatalf("unexpected error %v", payload)
	}
}

func TestWebSocketRequiresInstallID(t *testing.T) {
	server := newTestServer()
	defer server.Close()

	resp, err := http.Get(server.URL + "/ws")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func newTestServer() *httptest.Server {
	store := memory.NewSessionStore()
	banks := memory.NewBankRepository(memory.NewStaticBankLoader(sampleBanks()), time.Minute)
	opts := app.DefaultOptions()
	opts.RevealDelay = 10 * time.Millisecond
	service := app.NewQuizService(store, banks, memory.NewBestScoreStore(), opts)
	wsHandler := NewWSHandler(service, Settings{})

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	mux.HandleFunc("/best", wsHandler.ServeBestScore)
	return httptest.NewServer(mux)
}

func send(t *testing.T, conn *websocket.Conn, msg map[string]any) {
	t.Helper()
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write %v: %v", msg["type"], err)
	}
}

func readNext(conn *websocket.Conn, t *testing.T, expect string) (string, map[string]any) {
	t.Helper()
	var msg struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if expect != "" && msg.Type != expect {
		t.Fatalf("expected type %s, got %s", expect, msg.Type)
	}
	return msg.Type, msg.Payload
}

// readUntil skips events (sounds, stats, ticks) until one of the wanted type arrives.
func readUntil(conn *websocket.Conn, t *testing.T, expect string) (string, map[string]any) {
	t.Helper()
	for i := 0; i < 50; i++ {
		typ, payload := readNext(conn, t, "")
		if typ == expect {
			return typ, payload
		}
	}
	t.Fatalf("no %s message within 50 reads", expect)
	return "", nil
}

func sampleBanks() map[string]domain.Bank {
	return map[string]domain.Bank{
		domain.DefaultBankID: {
			ID: domain.DefaultBankID,
			Questions: []domain.Question{
				{Prompt: "What is 2 + 2?", Options: []string{"3", "4", "5"}, Answer: "4"},
			},
		},
	}
}
