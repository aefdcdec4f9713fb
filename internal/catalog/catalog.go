// Package catalog loads the selectable-test list and the question bank. Both
// sources degrade to empty on load or parse failure: a missing catalog means
// an empty selector, a missing question file means a placeholder panel. No
// failure here is surfaced to the user.
package catalog

import (
	"encoding/json"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// Entry is one selectable test from the catalog document.
type Entry struct {
	File         string `json:"file"`
	Title        string `json:"title"`
	TimeLimitSec int    `json:"timeLimit"`
	ID           string `json:"id,omitempty"`
}

type Catalog struct {
	entries []Entry
	byID    map[string]Entry
}

// Load reads the catalog document from disk. Any failure yields an empty
// catalog and a log line, never an error to the caller.
func Load(path string) *Catalog {
	f, err := os.Open(path)
	if err != nil {
		log.Printf("catalog: %s unavailable: %v", path, err)
		return &Catalog{byID: map[string]Entry{}}
	}
	defer f.Close()
	c, err := Parse(f)
	if err != nil {
		log.Printf("catalog: parsing %s failed: %v", path, err)
		return &Catalog{byID: map[string]Entry{}}
	}
	return c
}

// Parse decodes an ordered list of entries. An entry without an explicit id
// gets the filename stem. When two entries resolve to the same id the first
// wins; later duplicates are skipped so the selector label and the loaded
// test can never disagree.
func Parse(r io.Reader) (*Catalog, error) {
	var raw []Entry
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, err
	}
	c := &Catalog{entries: make([]Entry, 0, len(raw)), byID: make(map[string]Entry, len(raw))}
	for _, e := range raw {
		if e.ID == "" {
			e.ID = FileStem(e.File)
		}
		if e.ID != "" {
			if _, dup := c.byID[e.ID]; dup {
				log.Printf("catalog: duplicate test id %q (file %s) skipped", e.ID, e.File)
				continue
			}
			c.byID[e.ID] = e
		}
		c.entries = append(c.entries, e)
	}
	return c, nil
}

// Entries returns the catalog in document order.
func (c *Catalog) Entries() []Entry { return c.entries }

func (c *Catalog) Lookup(id string) (Entry, bool) {
	e, ok := c.byID[id]
	return e, ok
}

// FileStem derives the default test id from a catalog file name:
// "cam18-test2.pdf" -> "cam18-test2".
func FileStem(file string) string {
	base := filepath.Base(file)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}
