package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Huy11042003/IELTS-WEB/internal/catalog"
	"github.com/Huy11042003/IELTS-WEB/internal/exam"
	"github.com/Huy11042003/IELTS-WEB/internal/render"
	"github.com/Huy11042003/IELTS-WEB/internal/store"
	"github.com/Huy11042003/IELTS-WEB/internal/timer"
)

type idleTicker struct{ ch chan time.Time }

func (t idleTicker) C() <-chan time.Time { return t.ch }
func (idleTicker) Stop()                 {}

const catalogDoc = `[
	{"file":"cam18-test2.pdf","title":"Cambridge 18 Test 2","timeLimit":3600},
	{"file":"empty.pdf","title":"No questions yet","timeLimit":600},
	{"file":"broken.pdf","title":"No time limit"}
]`

const questionsDoc = `{"questions":[
	{"number":1,"type":"gap-filling","prompt":"First city mentioned","wordLimit":"ONE WORD ONLY"},
	{"number":2,"type":"gap-filling","prompt":"Second city mentioned"},
	{"number":3,"type":"multiple-choice","prompt":"Pick one","section":2,"options":["A. Paris","B. London"]}
]}`

type env struct {
	router chi.Router
	kv     store.KV
}

func newEnv(t *testing.T, kv store.KV) *env {
	t.Helper()
	cat, err := catalog.Parse(strings.NewReader(catalogDoc))
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "cam18-test2.json"), []byte(questionsDoc), 0o644); err != nil {
		t.Fatal(err)
	}
	bank := catalog.NewDirBank(dir)
	if kv == nil {
		kv = store.NewMemoryKV()
	}

	hub := NewHub(cat, bank, kv, "/review.html")
	hub.newCountdown = func(string) *timer.Countdown {
		return timer.NewWithTicker(nil, nil, func(time.Duration) timer.Ticker {
			return idleTicker{ch: make(chan time.Time)}
		})
	}

	r := chi.NewRouter()
	r.Get("/tests", ListTestsHandler(cat))
	r.Get("/tests/{testID}", GetTestHandler(bank))
	r.Get("/tests/{testID}/html", GetTestHTMLHandler(bank))
	hub.Mount(r)
	return &env{router: r, kv: kv}
}

func (e *env) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(buf)
	} else {
		rd = bytes.NewReader([]byte("{}"))
	}
	req := httptest.NewRequest(method, path, rd)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decoding %q: %v", w.Body.String(), err)
	}
}

func (e *env) newSession(t *testing.T) string {
	t.Helper()
	w := e.do(t, "POST", "/sessions", nil)
	var v sessionView
	decode(t, w, &v)
	if v.Session.ID == "" {
		t.Fatal("create returned no session id")
	}
	return v.Session.ID
}

func TestListTests(t *testing.T) {
	e := newEnv(t, nil)
	w := e.do(t, "GET", "/tests", nil)
	var entries []catalog.Entry
	decode(t, w, &entries)
	if len(entries) != 3 || entries[0].ID != "cam18-test2" {
		t.Fatalf("entries = %+v", entries)
	}
}

func TestGetTestPanels(t *testing.T) {
	e := newEnv(t, nil)

	var resp struct {
		Panel render.QuestionPanel   `json:"panel"`
		Nav   render.NavigationPanel `json:"nav"`
	}
	decode(t, e.do(t, "GET", "/tests/cam18-test2", nil), &resp)
	if len(resp.Panel.Cards) != 3 {
		t.Fatalf("cards = %d, want 3", len(resp.Panel.Cards))
	}
	if len(resp.Nav.Sections) != 2 {
		t.Fatalf("sections = %d, want 2", len(resp.Nav.Sections))
	}

	// Unknown test id serves the placeholder, not an error.
	decode(t, e.do(t, "GET", "/tests/unknown", nil), &resp)
	if resp.Panel.Placeholder == "" || len(resp.Panel.Cards) != 0 {
		t.Fatalf("unknown test: %+v", resp.Panel)
	}

	html := e.do(t, "GET", "/tests/cam18-test2/html", nil)
	if !strings.Contains(html.Body.String(), `name="q1"`) {
		t.Fatal("html fragment missing widgets")
	}
}

func TestSelectNoOps(t *testing.T) {
	e := newEnv(t, nil)
	id := e.newSession(t)

	var v sessionView
	// Unknown id.
	decode(t, e.do(t, "POST", "/sessions/"+id+"/select", map[string]string{"test_id": "nope"}), &v)
	if v.Session.Phase != exam.PhaseIdle || v.StartEnabled {
		t.Fatalf("unknown id should be a no-op: %+v", v)
	}
	// Entry without a time limit.
	decode(t, e.do(t, "POST", "/sessions/"+id+"/select", map[string]string{"test_id": "broken"}), &v)
	if v.Session.Phase != exam.PhaseIdle {
		t.Fatalf("entry without time limit should be a no-op: %+v", v)
	}
}

func TestFullAttemptFlow(t *testing.T) {
	e := newEnv(t, nil)
	id := e.newSession(t)

	var v sessionView
	decode(t, e.do(t, "POST", "/sessions/"+id+"/select", map[string]string{"test_id": "cam18-test2"}), &v)
	if v.Session.Phase != exam.PhaseSelected || !v.StartEnabled {
		t.Fatalf("after select: %+v", v)
	}
	if v.PDFURL != "/pdf/cam18-test2.pdf" {
		t.Fatalf("pdf url = %q", v.PDFURL)
	}

	var started struct {
		View  sessionView            `json:"view"`
		Panel render.QuestionPanel   `json:"panel"`
		Nav   render.NavigationPanel `json:"nav"`
	}
	decode(t, e.do(t, "POST", "/sessions/"+id+"/start", nil), &started)
	if started.View.Session.Phase != exam.PhaseStarted || !started.View.SubmitEnabled {
		t.Fatalf("after start: %+v", started.View)
	}
	if !started.View.SelectorLocked {
		t.Fatal("start must lock the selector")
	}
	if len(started.Panel.Cards) != 3 {
		t.Fatalf("panel cards = %d", len(started.Panel.Cards))
	}
	if started.View.TimerDisplay != "60:00" {
		t.Fatalf("timer display = %q, want 60:00", started.View.TimerDisplay)
	}

	// Re-selection while started is rejected by the lock.
	decode(t, e.do(t, "POST", "/sessions/"+id+"/select", map[string]string{"test_id": "empty"}), &v)
	if v.Session.PendingTestID != "cam18-test2" {
		t.Fatalf("locked selection changed pending test: %+v", v)
	}

	// Answer-change events mark questions exactly once.
	var marked struct {
		Answered []int `json:"answered"`
	}
	decode(t, e.do(t, "POST", "/sessions/"+id+"/answers",
		map[string]interface{}{"values": map[string]string{"q1": "Paris", "q2": ""}}), &marked)
	if len(marked.Answered) != 1 || marked.Answered[0] != 1 {
		t.Fatalf("answered = %v, want [1]", marked.Answered)
	}
	decode(t, e.do(t, "POST", "/sessions/"+id+"/answers",
		map[string]interface{}{"values": map[string]string{"q1": "Paris again", "q3": "B"}}), &marked)
	if len(marked.Answered) != 2 {
		t.Fatalf("answered = %v, want [1 3]", marked.Answered)
	}

	// Declining the confirmation changes nothing.
	w := e.do(t, "POST", "/sessions/"+id+"/submit",
		map[string]interface{}{"confirm": false, "values": map[string]string{"q1": "Paris"}})
	if w.Code != http.StatusNoContent {
		t.Fatalf("decline status = %d, want 204", w.Code)
	}
	decode(t, e.do(t, "GET", "/sessions/"+id, nil), &v)
	if v.Session.Phase != exam.PhaseStarted {
		t.Fatalf("after decline: phase = %s", v.Session.Phase)
	}
	if _, err := e.kv.Get(context.Background(), store.KeyLastTestID); !errors.Is(err, store.ErrNotFound) {
		t.Fatal("decline must not persist anything")
	}

	// Confirmed submit persists and hands off to review.
	var done struct {
		ReviewURL string `json:"review_url"`
	}
	decode(t, e.do(t, "POST", "/sessions/"+id+"/submit",
		map[string]interface{}{"confirm": true, "values": map[string]string{"q1": "Paris", "q2": ""}}), &done)
	if done.ReviewURL != "/review.html?test=cam18-test2" {
		t.Fatalf("review url = %q", done.ReviewURL)
	}

	ctx := context.Background()
	if v, _ := e.kv.Get(ctx, store.KeyLastTestID); v != "cam18-test2" {
		t.Fatalf("lastTestId = %q", v)
	}
	if v, _ := e.kv.Get(ctx, store.KeyLastFile); v != "cam18-test2.pdf" {
		t.Fatalf("lastFile = %q", v)
	}
	raw, err := e.kv.Get(ctx, store.AnswersKey("cam18-test2"))
	if err != nil {
		t.Fatal(err)
	}
	var rec exam.AnswerRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		t.Fatal(err)
	}
	if len(rec) != 1 || rec["1"][0] != "Paris" {
		t.Fatalf("persisted record = %v, want only q1", rec)
	}

	// Submitted is terminal.
	decode(t, e.do(t, "POST", "/sessions/"+id+"/submit",
		map[string]interface{}{"confirm": true}), &v)
	if v.Session.Phase != exam.PhaseSubmitted {
		t.Fatalf("after terminal submit: %+v", v.Session)
	}
}

func TestStartWithoutQuestionsRendersPlaceholder(t *testing.T) {
	e := newEnv(t, nil)
	id := e.newSession(t)
	e.do(t, "POST", "/sessions/"+id+"/select", map[string]string{"test_id": "empty"})

	var started struct {
		View  sessionView          `json:"view"`
		Panel render.QuestionPanel `json:"panel"`
	}
	decode(t, e.do(t, "POST", "/sessions/"+id+"/start", nil), &started)
	if started.View.Session.Phase != exam.PhaseStarted {
		t.Fatal("missing question file must not fail the start transition")
	}
	if started.Panel.Placeholder == "" {
		t.Fatal("missing questions should render the placeholder panel")
	}
}

type failingKV struct{}

func (failingKV) Put(context.Context, string, string) error { return errors.New("disk full") }
func (failingKV) Get(context.Context, string) (string, error) {
	return "", store.ErrNotFound
}

func TestSubmitSwallowsStorageFailure(t *testing.T) {
	e := newEnv(t, failingKV{})
	id := e.newSession(t)
	e.do(t, "POST", "/sessions/"+id+"/select", map[string]string{"test_id": "cam18-test2"})
	e.do(t, "POST", "/sessions/"+id+"/start", nil)

	var done struct {
		ReviewURL string `json:"review_url"`
	}
	decode(t, e.do(t, "POST", "/sessions/"+id+"/submit",
		map[string]interface{}{"confirm": true, "values": map[string]string{"q1": "Paris"}}), &done)
	if done.ReviewURL == "" {
		t.Fatal("storage failure must not block the hand-off to review")
	}
}

func TestSessionNotFound(t *testing.T) {
	e := newEnv(t, nil)
	if w := e.do(t, "GET", "/sessions/nope", nil); w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if w := e.do(t, "POST", "/sessions/nope/start", nil); w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestTimerEndpoint(t *testing.T) {
	e := newEnv(t, nil)
	id := e.newSession(t)
	e.do(t, "POST", "/sessions/"+id+"/select", map[string]string{"test_id": "cam18-test2"})
	e.do(t, "POST", "/sessions/"+id+"/start", nil)

	var ts struct {
		Display   string `json:"display"`
		Remaining int    `json:"remaining"`
		Expired   bool   `json:"expired"`
	}
	decode(t, e.do(t, "GET", "/sessions/"+id+"/timer", nil), &ts)
	if ts.Display != "60:00" || ts.Remaining != 3600 || ts.Expired {
		t.Fatalf("timer state = %+v", ts)
	}
}
