package render

import (
	"fmt"
	"strconv"
	"unicode"

	"github.com/Huy11042003/IELTS-WEB/internal/exam"
)

// AnswerArea renders one question type into its widget tree. Implementations
// are pure: they read the definition and touch no shared state.
type AnswerArea interface {
	Render(q exam.Question) Widget
}

// Registered answer areas by question type. New question types are added by
// registering a variant, not by growing a branch chain.
var areas = map[exam.QuestionType]AnswerArea{}

func RegisterArea(t exam.QuestionType, a AnswerArea) {
	if t == "" || a == nil {
		return
	}
	areas[t] = a
}

func init() {
	RegisterArea(exam.TypeGapFilling, gapFill{})
	RegisterArea(exam.TypeMultipleChoice, multipleChoice{})
	RegisterArea(exam.TypeMatching, matching{})
	RegisterArea(exam.TypeTrueFalseNotGiven, statements{values: []string{"TRUE", "FALSE", "NOT GIVEN"}})
	RegisterArea(exam.TypeYesNoNotGiven, statements{values: []string{"YES", "NO", "NOT GIVEN"}})
}

// Render maps a question to its widget tree and the form keys its answers are
// submitted under. Unknown types fall back to a free-text field.
func Render(q exam.Question) (Widget, []string) {
	a, ok := areas[q.Type]
	if !ok {
		a = gapFill{}
	}
	w := a.Render(q)
	return w, w.Keys()
}

func answerKey(number int) string { return "q" + strconv.Itoa(number) }

func subAnswerKey(number, pos int) string {
	return fmt.Sprintf("q%d_%d", number, pos)
}

// gapFill is both the gap-filling widget and the fallback for unknown types
// or definitions missing their auxiliary data.
type gapFill struct{}

func (gapFill) Render(q exam.Question) Widget {
	placeholder := q.WordLimit
	if placeholder == "" {
		placeholder = "Your answer"
	}
	return Widget{
		Kind:        KindTextInput,
		Name:        answerKey(q.Number),
		Placeholder: placeholder,
	}
}

type multipleChoice struct{}

func (multipleChoice) Render(q exam.Question) Widget {
	if len(q.Options) == 0 {
		return gapFill{}.Render(q)
	}
	choices := make([]Choice, 0, len(q.Options))
	for i, opt := range q.Options {
		choices = append(choices, Choice{Value: optionValue(opt, i), Label: opt})
	}
	return Widget{
		Kind:    KindChoiceGroup,
		Name:    answerKey(q.Number),
		Choices: choices,
	}
}

// optionValue derives the stored value for one multiple-choice option: the
// leading letter, capitalised, when the text starts with "<letter><separator>"
// (e.g. "A. Paris", "b – Berlin"); otherwise a letter synthesised from the
// option's position.
func optionValue(text string, pos int) string {
	r := []rune(text)
	if len(r) >= 2 && unicode.IsLetter(r[0]) && isOptionSeparator(r[1]) {
		return string(unicode.ToUpper(r[0]))
	}
	return string(rune('A' + pos))
}

func isOptionSeparator(r rune) bool {
	switch r {
	case ' ', '.', '-', '–', ':':
		return true
	}
	return false
}

// statements renders true/false/not-given and yes/no/not-given blocks: one
// exclusive choice group per statement.
type statements struct {
	values []string
}

func (s statements) choices() []Choice {
	out := make([]Choice, 0, len(s.values))
	for _, v := range s.values {
		out = append(out, Choice{Value: v, Label: v})
	}
	return out
}

func (s statements) Render(q exam.Question) Widget {
	// No explicit items: the question itself is the single statement.
	if len(q.Items) == 0 {
		return Widget{Kind: KindChoiceGroup, Name: answerKey(q.Number), Choices: s.choices()}
	}
	if len(q.Items) == 1 {
		w := Widget{Kind: KindChoiceGroup, Name: answerKey(q.Number), Choices: s.choices()}
		// A lone item restating the parent prompt would just repeat itself.
		if it := q.Items[0]; it.Prompt != "" && it.Prompt != q.Prompt {
			w.Label = itemLabel(it, 1)
		}
		return w
	}
	group := Widget{Kind: KindGroup}
	for i, it := range q.Items {
		group.Children = append(group.Children, Widget{
			Kind:    KindChoiceGroup,
			Name:    subAnswerKey(q.Number, i+1),
			Label:   itemLabel(it, i+1),
			Choices: s.choices(),
		})
	}
	return group
}

type matching struct{}

func (matching) Render(q exam.Question) Widget {
	if len(q.Items) == 0 || len(q.MatchOptions) == 0 {
		return gapFill{}.Render(q)
	}
	choices := make([]Choice, 0, len(q.MatchOptions)+1)
	choices = append(choices, Choice{Value: "", Label: "Select"})
	for _, opt := range q.MatchOptions {
		choices = append(choices, Choice{Value: opt, Label: opt})
	}
	group := Widget{Kind: KindGroup}
	for i, it := range q.Items {
		group.Children = append(group.Children, Widget{
			Kind:    KindSelect,
			Name:    subAnswerKey(q.Number, i+1),
			Label:   itemLabel(it, i+1),
			Choices: choices,
		})
	}
	return group
}

// itemLabel prefixes the statement with its explicit number, or its 1-indexed
// position when the definition carries none.
func itemLabel(it exam.Item, pos int) string {
	n := it.Number
	if n == 0 {
		n = pos
	}
	return fmt.Sprintf("%d. %s", n, it.Prompt)
}
