// Package render turns typed question definitions into widget trees the
// player page can display, and assembles the full question panel with its
// navigation panel.
package render

// Kind discriminates widget nodes.
type Kind string

const (
	KindTextInput   Kind = "text_input"
	KindChoiceGroup Kind = "choice_group" // exclusive choice (radio semantics)
	KindSelect      Kind = "select"       // drop-down
	KindGroup       Kind = "group"        // labelled container of child widgets
)

// Choice is one selectable entry of a choice group or select. Value is what a
// submitted answer carries; Label is what the user sees.
type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Widget is one node of a rendered answer area. Interactive nodes carry Name,
// the form key their value is submitted under.
type Widget struct {
	Kind        Kind     `json:"kind"`
	Name        string   `json:"name,omitempty"`
	Label       string   `json:"label,omitempty"`
	Placeholder string   `json:"placeholder,omitempty"`
	Choices     []Choice `json:"choices,omitempty"`
	Children    []Widget `json:"children,omitempty"`
}

// Keys lists every form key reachable in the widget tree, in document order.
func (w Widget) Keys() []string {
	var out []string
	w.walk(func(n Widget) {
		if n.Name != "" {
			out = append(out, n.Name)
		}
	})
	return out
}

func (w Widget) walk(fn func(Widget)) {
	fn(w)
	for _, c := range w.Children {
		c.walk(fn)
	}
}
