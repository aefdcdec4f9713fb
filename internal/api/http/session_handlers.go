package http

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/Huy11042003/IELTS-WEB/internal/catalog"
	"github.com/Huy11042003/IELTS-WEB/internal/exam"
	"github.com/Huy11042003/IELTS-WEB/internal/render"
	"github.com/Huy11042003/IELTS-WEB/internal/store"
	"github.com/Huy11042003/IELTS-WEB/internal/timer"
)

// Hub owns the live attempt sessions. Each session holds its own state
// machine, countdown and answered tracker; the hub is the only shared map.
type Hub struct {
	mu       sync.Mutex
	sessions map[string]*playerSession

	cat        *catalog.Catalog
	bank       catalog.Bank
	kv         store.KV
	reviewPath string

	newCountdown func(sessionID string) *timer.Countdown
}

func NewHub(cat *catalog.Catalog, bank catalog.Bank, kv store.KV, reviewPath string) *Hub {
	h := &Hub{
		sessions:   map[string]*playerSession{},
		cat:        cat,
		bank:       bank,
		kv:         kv,
		reviewPath: reviewPath,
	}
	h.newCountdown = func(sessionID string) *timer.Countdown {
		return timer.New(nil, func() {
			log.Printf("session %s: time is up", sessionID)
		})
	}
	return h
}

type playerSession struct {
	mu        sync.Mutex
	state     exam.Session
	countdown *timer.Countdown
	tracker   *render.Tracker
	test      *exam.Test
}

func (h *Hub) Mount(r chi.Router) {
	r.Post("/sessions", h.create)
	r.Get("/sessions/{sessionID}", h.get)
	r.Post("/sessions/{sessionID}/select", h.selectTest)
	r.Post("/sessions/{sessionID}/start", h.start)
	r.Post("/sessions/{sessionID}/answers", h.answers)
	r.Post("/sessions/{sessionID}/submit", h.submit)
	r.Get("/sessions/{sessionID}/timer", h.timerState)
}

func (h *Hub) lookup(r *http.Request) *playerSession {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sessions[chi.URLParam(r, "sessionID")]
}

// sessionView is the control-surface state the page needs to enable and
// disable its widgets.
type sessionView struct {
	Session        exam.Session `json:"session"`
	SelectorLocked bool         `json:"selector_locked"`
	StartEnabled   bool         `json:"start_enabled"`
	SubmitEnabled  bool         `json:"submit_enabled"`
	PDFURL         string       `json:"pdf_url,omitempty"`
	TimerDisplay   string       `json:"timer_display"`
	TimerExpired   bool         `json:"timer_expired"`
}

// view assumes ps.mu is held.
func (ps *playerSession) view() sessionView {
	v := sessionView{
		Session:        ps.state,
		SelectorLocked: ps.state.SelectorLocked(),
		StartEnabled:   ps.state.Phase == exam.PhaseSelected,
		SubmitEnabled:  ps.state.Phase == exam.PhaseStarted,
		TimerDisplay:   ps.countdown.Display(),
		TimerExpired:   ps.countdown.Expired(),
	}
	if ps.state.PendingFile != "" {
		v.PDFURL = "/pdf/" + ps.state.PendingFile
	}
	return v
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Hub) create(w http.ResponseWriter, r *http.Request) {
	s := exam.NewSession()
	ps := &playerSession{state: s, countdown: h.newCountdown(s.ID)}
	h.mu.Lock()
	h.sessions[s.ID] = ps
	h.mu.Unlock()

	ps.mu.Lock()
	defer ps.mu.Unlock()
	writeJSON(w, ps.view())
}

func (h *Hub) get(w http.ResponseWriter, r *http.Request) {
	ps := h.lookup(r)
	if ps == nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	ps.mu.Lock()
	defer ps.mu.Unlock()
	writeJSON(w, ps.view())
}

// selectTest records a catalog choice. Unresolvable ids, placeholder entries
// and selection while started are all silent no-ops: the response is simply
// the unchanged view.
func (h *Hub) selectTest(w http.ResponseWriter, r *http.Request) {
	ps := h.lookup(r)
	if ps == nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	var req struct {
		TestID string `json:"test_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	ps.mu.Lock()
	defer ps.mu.Unlock()
	if entry, ok := h.cat.Lookup(req.TestID); ok {
		ps.state.Select(entry.ID, entry.File, entry.TimeLimitSec)
	}
	writeJSON(w, ps.view())
}

func (h *Hub) start(w http.ResponseWriter, r *http.Request) {
	ps := h.lookup(r)
	if ps == nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	ps.mu.Lock()
	defer ps.mu.Unlock()
	order, ok := ps.state.Start()
	if !ok {
		writeJSON(w, ps.view())
		return
	}
	ps.countdown.Start(order.TimeLimitSec)
	ps.test = &exam.Test{ID: order.TestID, Questions: h.bank.Questions(order.TestID)}
	ps.tracker = render.NewTracker()
	panel, nav := render.RenderAll(ps.test, ps.tracker.Answered)
	writeJSON(w, struct {
		View  sessionView            `json:"view"`
		Panel render.QuestionPanel   `json:"panel"`
		Nav   render.NavigationPanel `json:"nav"`
	}{ps.view(), panel, nav})
}

// answers feeds change/input events into the answered tracker. Marking is
// idempotent; the response carries the refreshed navigation panel.
func (h *Hub) answers(w http.ResponseWriter, r *http.Request) {
	ps := h.lookup(r)
	if ps == nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	var req struct {
		Values map[string]string `json:"values"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ps.state.Phase != exam.PhaseStarted || ps.tracker == nil {
		writeJSON(w, ps.view())
		return
	}
	for numKey := range exam.Collect(req.Values) {
		if n, err := strconv.Atoi(numKey); err == nil {
			ps.tracker.Mark(n)
		}
	}
	_, nav := render.RenderAll(ps.test, ps.tracker.Answered)
	writeJSON(w, struct {
		Answered []int                  `json:"answered"`
		Nav      render.NavigationPanel `json:"nav"`
	}{ps.tracker.Numbers(), nav})
}

// submit finishes the attempt. A declined confirmation is a 204 with no side
// effects. On success the answers and the last-test keys are persisted
// best-effort: a storage failure is logged and swallowed, never blocking the
// hand-off to review.
func (h *Hub) submit(w http.ResponseWriter, r *http.Request) {
	ps := h.lookup(r)
	if ps == nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	var req struct {
		Confirm bool              `json:"confirm"`
		Values  map[string]string `json:"values"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	ps.mu.Lock()
	defer ps.mu.Unlock()
	order, ok := ps.state.Submit(req.Confirm)
	if !ok {
		if ps.state.Phase == exam.PhaseStarted && !req.Confirm {
			// user declined the confirmation prompt
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, ps.view())
		return
	}

	ps.countdown.Stop()
	rec := exam.Collect(req.Values)
	if buf, err := json.Marshal(rec); err == nil {
		h.putBestEffort(r, store.AnswersKey(order.TestID), string(buf))
	}
	h.putBestEffort(r, store.KeyLastTestID, order.TestID)
	h.putBestEffort(r, store.KeyLastFile, order.File)

	writeJSON(w, struct {
		ReviewURL string `json:"review_url"`
	}{h.reviewPath + "?test=" + url.QueryEscape(order.TestID)})
}

func (h *Hub) putBestEffort(r *http.Request, key, value string) {
	if err := h.kv.Put(r.Context(), key, value); err != nil {
		log.Printf("state save %s failed: %v", key, err)
	}
}

func (h *Hub) timerState(w http.ResponseWriter, r *http.Request) {
	ps := h.lookup(r)
	if ps == nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	ps.mu.Lock()
	defer ps.mu.Unlock()
	writeJSON(w, struct {
		Display   string `json:"display"`
		Remaining int    `json:"remaining"`
		Expired   bool   `json:"expired"`
	}{ps.countdown.Display(), ps.countdown.Remaining(), ps.countdown.Expired()})
}
