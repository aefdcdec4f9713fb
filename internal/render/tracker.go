package render

import (
	"sort"
	"sync"
)

// Tracker records which questions have been answered during one rendering
// pass. Marking is set-once: a marker is never cleared, and re-marking an
// answered question reports false so callers can update navigation state
// exactly once. A fresh tracker is built for every RenderAll pass.
type Tracker struct {
	mu       sync.Mutex
	answered map[int]bool
}

func NewTracker() *Tracker {
	return &Tracker{answered: map[int]bool{}}
}

// Mark flags a question as answered. It returns true only the first time.
func (t *Tracker) Mark(number int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.answered[number] {
		return false
	}
	t.answered[number] = true
	return true
}

func (t *Tracker) Answered(number int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.answered[number]
}

// Numbers returns the answered question numbers in ascending order.
func (t *Tracker) Numbers() []int {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]int, 0, len(t.answered))
	for n := range t.answered {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}
