package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Huy11042003/IELTS-WEB/internal/catalog"
	"github.com/Huy11042003/IELTS-WEB/internal/exam"
	"github.com/Huy11042003/IELTS-WEB/internal/render"
)

// ListTestsHandler serves the catalog the selector is populated from.
func ListTestsHandler(cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(cat.Entries())
	}
}

// GetTestHandler serves a test's rendered question panel and navigation
// panel. An unknown id or empty question set serves the placeholder panel;
// that is not an error.
func GetTestHandler(bank catalog.Bank) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		testID := chi.URLParam(r, "testID")
		t := &exam.Test{ID: testID, Questions: bank.Questions(testID)}
		panel, nav := render.RenderAll(t, nil)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(struct {
			TestID string                 `json:"test_id"`
			Panel  render.QuestionPanel   `json:"panel"`
			Nav    render.NavigationPanel `json:"nav"`
		}{testID, panel, nav})
	}
}

// GetTestHTMLHandler serves the same panels as a ready-to-inject HTML
// fragment for the player page.
func GetTestHTMLHandler(bank catalog.Bank) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		testID := chi.URLParam(r, "testID")
		t := &exam.Test{ID: testID, Questions: bank.Questions(testID)}
		panel, nav := render.RenderAll(t, nil)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(render.PanelHTML(panel, nav)))
	}
}
