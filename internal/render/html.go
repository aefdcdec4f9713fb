package render

import (
	"fmt"
	"html"
	"strings"
)

// PanelHTML encodes the question panel and navigation panel as an HTML
// fragment the player page injects verbatim. Navigation entries are anchors;
// the page's smooth-scroll handler takes it from there.
func PanelHTML(p QuestionPanel, nav NavigationPanel) string {
	var b strings.Builder
	b.WriteString(`<div class="question-panel">`)
	if p.Placeholder != "" {
		fmt.Fprintf(&b, `<p class="placeholder">%s</p>`, html.EscapeString(p.Placeholder))
	}
	for _, c := range p.Cards {
		fmt.Fprintf(&b, `<section class="question-card" id="%s">`, html.EscapeString(c.Anchor))
		fmt.Fprintf(&b, `<h3>%d <span class="question-type">%s</span></h3>`, c.Number, html.EscapeString(c.TypeLabel))
		if c.Prompt != "" {
			fmt.Fprintf(&b, `<p class="prompt">%s</p>`, html.EscapeString(c.Prompt))
		}
		writeWidget(&b, c.Widget)
		b.WriteString(`</section>`)
	}
	b.WriteString(`</div>`)

	b.WriteString(`<nav class="question-nav">`)
	for _, s := range nav.Sections {
		fmt.Fprintf(&b, `<div class="nav-section"><h4>Section %d</h4>`, s.Section)
		for _, e := range s.Entries {
			cls := "nav-entry"
			if e.Answered {
				cls += " answered"
			}
			fmt.Fprintf(&b, `<a class="%s" href="#%s">%d</a>`, cls, html.EscapeString(e.Anchor), e.Number)
		}
		b.WriteString(`</div>`)
	}
	b.WriteString(`</nav>`)
	return b.String()
}

func writeWidget(b *strings.Builder, w Widget) {
	switch w.Kind {
	case KindTextInput:
		fmt.Fprintf(b, `<input type="text" name="%s" placeholder="%s">`,
			html.EscapeString(w.Name), html.EscapeString(w.Placeholder))
	case KindChoiceGroup:
		b.WriteString(`<fieldset class="choice-group">`)
		if w.Label != "" {
			fmt.Fprintf(b, `<legend>%s</legend>`, html.EscapeString(w.Label))
		}
		for _, c := range w.Choices {
			fmt.Fprintf(b, `<label><input type="radio" name="%s" value="%s"> %s</label>`,
				html.EscapeString(w.Name), html.EscapeString(c.Value), html.EscapeString(c.Label))
		}
		b.WriteString(`</fieldset>`)
	case KindSelect:
		b.WriteString(`<label class="match-row">`)
		if w.Label != "" {
			fmt.Fprintf(b, `<span>%s</span>`, html.EscapeString(w.Label))
		}
		fmt.Fprintf(b, `<select name="%s">`, html.EscapeString(w.Name))
		for _, c := range w.Choices {
			fmt.Fprintf(b, `<option value="%s">%s</option>`,
				html.EscapeString(c.Value), html.EscapeString(c.Label))
		}
		b.WriteString(`</select></label>`)
	case KindGroup:
		b.WriteString(`<div class="widget-group">`)
		if w.Label != "" {
			fmt.Fprintf(b, `<p>%s</p>`, html.EscapeString(w.Label))
		}
		for _, c := range w.Children {
			writeWidget(b, c)
		}
		b.WriteString(`</div>`)
	}
}
