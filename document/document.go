// Package document provides the parsed view of an HTML document that the
// link checker works on: every <a> element with its source range, and an
// index of element ids for anchor resolution.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Position is a zero-based line and rune column in the source text.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Range spans the opening tag of an element.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// String renders the start of the range as a 1-based "line:col" pair.
func (r Range) String() string {
	return fmt.Sprintf("%d:%d", r.Start.Line+1, r.Start.Column+1)
}

// Link is a single <a> element. It is never mutated after parsing.
type Link struct {
	Href      string // Raw href attribute value
	HasHref   bool   // Whether the href attribute was present at all
	Text      string // Visible text, whitespace collapsed
	InnerHTML string // Raw markup between the opening and closing tag
	Rel       string // Raw rel attribute value
	ID        string // id attribute, if any
	Range     Range  // Location of the opening tag
}

// Document is a tokenized HTML document.
type Document struct {
	links []Link
	ids   map[string]int
}

// Parse reads a whole HTML document.
func Parse(r io.Reader) (*Document, error) {
	return ParseAt(r, Position{})
}

// ParseAt reads an HTML fragment that starts at origin inside a larger file.
// Link ranges are reported in the coordinates of the larger file.
func ParseAt(r io.Reader, origin Position) (*Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	dom, err := goquery.NewDocumentFromReader(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	doc := &Document{ids: indexIDs(dom)}
	links, err := extractLinks(src, newLocator(src, origin))
	if err != nil {
		return nil, err
	}
	doc.links = links
	return doc, nil
}

// Links returns the <a> elements in document order.
func (d *Document) Links() []Link {
	out := make([]Link, len(d.links))
	copy(out, d.links)
	return out
}

// CountID reports how many elements carry the given id attribute.
func (d *Document) CountID(id string) int {
	return d.ids[id]
}

func indexIDs(dom *goquery.Document) map[string]int {
	ids := make(map[string]int)
	dom.Find("[id]").Each(func(_ int, s *goquery.Selection) {
		if id, ok := s.Attr("id"); ok {
			ids[id]++
		}
	})
	return ids
}

// extractLinks walks the token stream and records every anchor element with
// the byte span of its start tag.
func extractLinks(src []byte, loc *locator) ([]Link, error) {
	tokenizer := html.NewTokenizer(bytes.NewReader(src))
	var links []Link
	var current *Link
	var text, inner strings.Builder
	offset := 0

	closeCurrent := func() {
		if current == nil {
			return
		}
		current.Text = strings.Join(strings.Fields(text.String()), " ")
		current.InnerHTML = inner.String()
		links = append(links, *current)
		current = nil
		text.Reset()
		inner.Reset()
	}

	for {
		tokenType := tokenizer.Next()
		// Raw is overwritten by Token and Text, so keep a copy.
		raw := append([]byte(nil), tokenizer.Raw()...)
		start := offset
		offset += len(raw)

		switch tokenType {
		case html.ErrorToken:
			closeCurrent()
			if err := tokenizer.Err(); err != nil && !errors.Is(err, io.EOF) {
				return links, fmt.Errorf("tokenize document: %w", err)
			}
			return links, nil
		case html.StartTagToken, html.SelfClosingTagToken:
			token := tokenizer.Token()
			if token.DataAtom == atom.A {
				// An <a> cannot nest; a new one implicitly closes the previous.
				closeCurrent()
				link := Link{Range: Range{Start: loc.at(start), End: loc.at(offset)}}
				for _, attr := range token.Attr {
					switch attr.Key {
					case "href":
						link.Href = attr.Val
						link.HasHref = true
					case "rel":
						link.Rel = attr.Val
					case "id":
						link.ID = attr.Val
					}
				}
				if tokenType == html.SelfClosingTagToken {
					links = append(links, link)
					continue
				}
				current = &link
				continue
			}
			if current != nil {
				inner.Write(raw)
			}
		case html.EndTagToken:
			token := tokenizer.Token()
			if token.DataAtom == atom.A {
				closeCurrent()
				continue
			}
			if current != nil {
				inner.Write(raw)
			}
		case html.TextToken:
			if current != nil {
				text.Write(tokenizer.Text())
				inner.Write(raw)
			}
		default:
			if current != nil {
				inner.Write(raw)
			}
		}
	}
}

// locator converts byte offsets into line/column positions.
type locator struct {
	src        []byte
	lineStarts []int
	origin     Position
}

func newLocator(src []byte, origin Position) *locator {
	starts := []int{0}
	for i, b := range src {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &locator{src: src, lineStarts: starts, origin: origin}
}

func (l *locator) at(offset int) Position {
	line := sort.Search(len(l.lineStarts), func(i int) bool {
		return l.lineStarts[i] > offset
	}) - 1
	col := utf8.RuneCount(l.src[l.lineStarts[line]:offset])
	if line == 0 {
		col += l.origin.Column
	}
	return Position{Line: line + l.origin.Line, Column: col}
}
