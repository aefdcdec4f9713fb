package render

import (
	"fmt"
	"sort"

	"github.com/Huy11042003/IELTS-WEB/internal/exam"
)

// Card is one rendered question: header metadata plus the answer-area widget.
type Card struct {
	Number    int      `json:"number"`
	TypeLabel string   `json:"type_label"`
	Prompt    string   `json:"prompt"`
	Anchor    string   `json:"anchor"`
	Widget    Widget   `json:"widget"`
	Keys      []string `json:"keys"`
}

type QuestionPanel struct {
	Placeholder string `json:"placeholder,omitempty"`
	Cards       []Card `json:"cards,omitempty"`
}

// NavEntry points at one card; activating it scrolls the card into view.
type NavEntry struct {
	Number   int    `json:"number"`
	Anchor   string `json:"anchor"`
	Answered bool   `json:"answered"`
}

type NavSection struct {
	Section int        `json:"section"`
	Entries []NavEntry `json:"entries"`
}

type NavigationPanel struct {
	Sections []NavSection `json:"sections,omitempty"`
}

const comingSoon = "Questions for this test are coming soon."

var typeLabels = map[exam.QuestionType]string{
	exam.TypeGapFilling:        "Gap filling",
	exam.TypeMultipleChoice:    "Multiple choice",
	exam.TypeMatching:          "Matching",
	exam.TypeTrueFalseNotGiven: "True / False / Not Given",
	exam.TypeYesNoNotGiven:     "Yes / No / Not Given",
}

// TypeLabel is the human-readable name of a question type; unrecognised types
// show their raw type string.
func TypeLabel(t exam.QuestionType) string {
	if l, ok := typeLabels[t]; ok {
		return l
	}
	return string(t)
}

// RenderAll builds the full question panel and the section-grouped navigation
// panel for a test. A nil test or one without questions yields a placeholder
// card and empty navigation; that is the normal "no questions available"
// outcome, not an error. answered reports per-question answered state for the
// navigation entries; nil means nothing answered.
func RenderAll(t *exam.Test, answered func(number int) bool) (QuestionPanel, NavigationPanel) {
	if t == nil || len(t.Questions) == 0 {
		return QuestionPanel{Placeholder: comingSoon}, NavigationPanel{}
	}
	if answered == nil {
		answered = func(int) bool { return false }
	}

	panel := QuestionPanel{Cards: make([]Card, 0, len(t.Questions))}
	bySection := map[int][]NavEntry{}
	for _, q := range t.Questions {
		widget, keys := Render(q)
		anchor := fmt.Sprintf("question-%d", q.Number)
		panel.Cards = append(panel.Cards, Card{
			Number:    q.Number,
			TypeLabel: TypeLabel(q.Type),
			Prompt:    q.Prompt,
			Anchor:    anchor,
			Widget:    widget,
			Keys:      keys,
		})
		sec := q.Section
		if sec <= 0 {
			sec = 1
		}
		bySection[sec] = append(bySection[sec], NavEntry{
			Number:   q.Number,
			Anchor:   anchor,
			Answered: answered(q.Number),
		})
	}

	sections := make([]int, 0, len(bySection))
	for s := range bySection {
		sections = append(sections, s)
	}
	sort.Ints(sections)

	nav := NavigationPanel{Sections: make([]NavSection, 0, len(sections))}
	for _, s := range sections {
		nav.Sections = append(nav.Sections, NavSection{Section: s, Entries: bySection[s]})
	}
	return panel, nav
}
