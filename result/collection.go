package result

import (
	"cmp"
	"slices"
	"sync"
)

// Collection holds the findings of every open document, keyed by document
// id. It is safe for concurrent use; the owner creates one and passes it to
// each validation run.
type Collection struct {
	mu   sync.Mutex
	docs map[string]*docFindings
}

type docFindings struct {
	generation uint64
	findings   []Finding
}

// NewCollection creates an empty collection.
func NewCollection() *Collection {
	return &Collection{docs: make(map[string]*docFindings)}
}

func (c *Collection) entry(docID string) *docFindings {
	d, ok := c.docs[docID]
	if !ok {
		d = &docFindings{}
		c.docs[docID] = d
	}
	return d
}

// Add appends a finding to the document's current run.
func (c *Collection) Add(docID string, f Finding) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d := c.entry(docID)
	d.findings = append(d.findings, f)
}

// Reset clears a document's findings and starts a new generation. Findings
// added later with AddRun for an older generation are dropped.
func (c *Collection) Reset(docID string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	d := c.entry(docID)
	d.generation++
	d.findings = nil
	return d.generation
}

// AddRun appends a finding if generation is still the document's current
// one. It reports whether the finding was kept.
func (c *Collection) AddRun(docID string, generation uint64, f Finding) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.docs[docID]
	if !ok || d.generation != generation {
		return false
	}
	d.findings = append(d.findings, f)
	return true
}

// Clear empties a document's findings, keeping the document registered.
func (c *Collection) Clear(docID string) {
	c.Reset(docID)
}

// Remove tears down all state for a document.
func (c *Collection) Remove(docID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.docs, docID)
}

// Findings returns a copy of a document's findings in insertion order.
func (c *Collection) Findings(docID string) []Finding {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.docs[docID]
	if !ok {
		return nil
	}
	return slices.Clone(d.findings)
}

// Documents returns the registered document ids, sorted.
func (c *Collection) Documents() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := make([]string, 0, len(c.docs))
	for id := range c.docs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// SortFindings orders findings by severity, then by source position.
func SortFindings(findings []Finding) {
	slices.SortStableFunc(findings, func(a, b Finding) int {
		return cmp.Or(
			cmp.Compare(a.Severity, b.Severity),
			cmp.Compare(a.Range.Start.Line, b.Range.Start.Line),
			cmp.Compare(a.Range.Start.Column, b.Range.Start.Column),
		)
	})
}
