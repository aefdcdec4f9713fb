package catalog

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/Huy11042003/IELTS-WEB/internal/exam"
)

// Bank resolves the question set for a test id. A bank never fails: an
// unknown id, a missing file or a malformed document all resolve to an empty
// list, which the renderer turns into the coming-soon placeholder.
type Bank interface {
	Questions(testID string) []exam.Question
}

// BulkBank is the bulk-metadata shape: one document, loaded up front, holding
// every test's questions.
type BulkBank struct {
	byID map[string][]exam.Question
}

type bulkEntry struct {
	ID        string          `json:"id"`
	Questions []exam.Question `json:"questions"`
}

// LoadBulk reads the bulk question document. Failures degrade to an empty
// bank. Duplicate ids keep the first occurrence, matching the catalog rule.
func LoadBulk(path string) *BulkBank {
	b := &BulkBank{byID: map[string][]exam.Question{}}
	buf, err := os.ReadFile(path)
	if err != nil {
		log.Printf("question bank: %s unavailable: %v", path, err)
		return b
	}
	var entries []bulkEntry
	if err := json.Unmarshal(buf, &entries); err != nil {
		log.Printf("question bank: parsing %s failed: %v", path, err)
		return b
	}
	for _, e := range entries {
		if e.ID == "" {
			continue
		}
		if _, dup := b.byID[e.ID]; dup {
			log.Printf("question bank: duplicate test id %q skipped", e.ID)
			continue
		}
		b.byID[e.ID] = normalize(e.Questions)
	}
	return b
}

func (b *BulkBank) Questions(testID string) []exam.Question {
	return b.byID[testID]
}

// DirBank is the per-test-file shape: questions/<testId>.json fetched on
// demand.
type DirBank struct {
	dir string
}

func NewDirBank(dir string) *DirBank { return &DirBank{dir: dir} }

func (b *DirBank) Questions(testID string) []exam.Question {
	if testID == "" || strings.ContainsAny(testID, `/\`) || strings.Contains(testID, "..") {
		return nil
	}
	buf, err := os.ReadFile(filepath.Join(b.dir, testID+".json"))
	if err != nil {
		// Absent file is the normal "no questions yet" case.
		return nil
	}
	var doc struct {
		Questions []exam.Question `json:"questions"`
	}
	if err := json.Unmarshal(buf, &doc); err != nil {
		log.Printf("question bank: malformed %s.json: %v", testID, err)
		return nil
	}
	return normalize(doc.Questions)
}

// normalize applies schema defaults after decoding.
func normalize(qs []exam.Question) []exam.Question {
	for i := range qs {
		if qs[i].Section <= 0 {
			qs[i].Section = 1
		}
	}
	return qs
}
