package exam

// QuestionType identifies one of the supported question renderings.
type QuestionType string

const (
	TypeGapFilling        QuestionType = "gap-filling"
	TypeMultipleChoice    QuestionType = "multiple-choice"
	TypeMatching          QuestionType = "matching"
	TypeTrueFalseNotGiven QuestionType = "true-false-not-given"
	TypeYesNoNotGiven     QuestionType = "yes-no-not-given"
)

// Item is one statement inside a matching or grouped true/false question.
type Item struct {
	Number int    `json:"number,omitempty"` // explicit item number; 0 means "use position"
	Prompt string `json:"prompt"`
}

type Question struct {
	Number       int          `json:"number"` // unique within a test; joins widget, nav and answer
	Type         QuestionType `json:"type"`
	Prompt       string       `json:"prompt"`
	Section      int          `json:"section,omitempty"` // defaults to 1 when absent
	WordLimit    string       `json:"wordLimit,omitempty"`
	Options      []string     `json:"options,omitempty"`      // multiple-choice
	Items        []Item       `json:"items,omitempty"`        // matching / grouped true-false
	MatchOptions []string     `json:"matchOptions,omitempty"` // matching
}

type Test struct {
	ID        string     `json:"id"`
	Questions []Question `json:"questions"`
}

// AnswerRecord maps a question number (as string key) to the ordered list of
// submitted values. Multi-sub-answer questions (matching rows, grouped
// true/false statements) contribute one value per sub-answer.
type AnswerRecord map[string][]string
