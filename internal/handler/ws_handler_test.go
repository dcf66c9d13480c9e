package handler

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/stemsi/smartexam/internal/engine"
	"github.com/stemsi/smartexam/internal/model"
	"github.com/stemsi/smartexam/internal/repository"
	"github.com/stemsi/smartexam/internal/service"
	"github.com/stemsi/smartexam/internal/store"
	ws "github.com/stemsi/smartexam/internal/websocket"
)

type streamEvent struct {
	Event   ws.Event            `json:"event"`
	Code    string              `json:"code"`
	Session *model.SessionState `json:"session"`
	Result  *model.ExamResult   `json:"result"`
	Level   model.TimerLevel    `json:"level"`
}

func newStreamServer(t *testing.T) (*httptest.Server, *service.ExamSessionService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := store.NewMemoryStore()
	n := 0
	sessions := service.NewExamSessionService(
		repository.NewExamRepository(st),
		repository.NewQuestionRepository(st),
		nil,
		service.SessionOptions{
			Shuffler:     engine.ShufflerFunc(func(int, func(i, j int)) {}),
			NewID:        func() string { n++; return fmt.Sprintf("sess-%d", n) },
			ManualTimers: true,
		},
		zerolog.Nop(),
	)
	t.Cleanup(sessions.Shutdown)

	h := NewWSHandler(sessions, 10*time.Millisecond, zerolog.Nop(), nil)
	r := gin.New()
	r.GET("/ws/v1/sessions/:session_id/stream", h.SessionStream)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, sessions
}

func dial(t *testing.T, srv *httptest.Server, sessionID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/v1/sessions/" + sessionID + "/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// next reads until an event other than a tick arrives.
func next(t *testing.T, conn *websocket.Conn) streamEvent {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		var ev streamEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			t.Fatalf("decode %s: %v", raw, err)
		}
		if ev.Event != ws.EventTick {
			return ev
		}
	}
}

func TestStreamAnswerSubmitGraded(t *testing.T) {
	srv, sessions := newStreamServer(t)

	state, err := sessions.Start(t.Context(), "upsc-prelims-1")
	if err != nil {
		t.Fatal(err)
	}
	conn := dial(t, srv, state.SessionID)

	ev := next(t, conn)
	if ev.Event != ws.EventState || ev.Session.SessionID != state.SessionID {
		t.Fatalf("first event = %+v", ev)
	}

	first := ev.Session.CurrentQuestion.ID
	conn.WriteJSON(ws.RequestPayload{Action: ws.ActionAnswer, QuestionID: first, SelectedOptionIndex: intPtr(0)})
	ev = next(t, conn)
	if ev.Event != ws.EventState || ev.Session.AnsweredCount != 1 {
		t.Fatalf("after answer = %+v", ev)
	}

	conn.WriteJSON(ws.RequestPayload{Action: ws.ActionGoTo, Index: intPtr(42)})
	ev = next(t, conn)
	if ev.Event != ws.EventError || ev.Code != "INDEX_OUT_OF_RANGE" {
		t.Fatalf("bad goto = %+v", ev)
	}

	conn.WriteJSON(ws.RequestPayload{Action: ws.ActionPing})
	if ev = next(t, conn); ev.Event != ws.EventPong {
		t.Fatalf("ping = %+v", ev)
	}

	conn.WriteJSON(ws.RequestPayload{Action: ws.ActionSubmit})
	ev = next(t, conn)
	if ev.Event != ws.EventGraded || ev.Result == nil {
		t.Fatalf("after submit = %+v", ev)
	}
	if ev.Result.TotalQuestions != 6 || ev.Result.CompletionReason != model.CompletionSubmitted {
		t.Fatalf("result = %+v", ev.Result)
	}
}

func TestStreamTicksUntilGradedElsewhere(t *testing.T) {
	srv, sessions := newStreamServer(t)

	state, err := sessions.Start(t.Context(), "upsc-prelims-2")
	if err != nil {
		t.Fatal(err)
	}
	conn := dial(t, srv, state.SessionID)
	next(t, conn)

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var tick streamEvent
	if err := conn.ReadJSON(&tick); err != nil {
		t.Fatal(err)
	}
	if tick.Event != ws.EventTick || tick.Level != model.TimerLevelNormal {
		t.Fatalf("tick = %+v", tick)
	}

	// Another client ends the attempt; the stream still delivers the grade.
	if _, err := sessions.Submit(t.Context(), state.SessionID); err != nil {
		t.Fatal(err)
	}
	ev := next(t, conn)
	if ev.Event != ws.EventGraded || ev.Result.SessionID != state.SessionID {
		t.Fatalf("graded = %+v", ev)
	}
}

func TestStreamUnknownSession(t *testing.T) {
	srv, _ := newStreamServer(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/v1/sessions/missing/stream"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("dial succeeded for unknown session")
	}
	if resp == nil || resp.StatusCode != 404 {
		t.Fatalf("response = %+v", resp)
	}
}

func intPtr(v int) *int { return &v }
