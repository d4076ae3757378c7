package serp

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Page is one parsed results page. An empty or partial body parses
// fine and simply yields no related questions and no snippet.
type Page struct {
	Query string

	doc *goquery.Document
}

// Parse builds a Page from a raw results body.
func Parse(query string, body []byte) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse results page: %w", err)
	}
	return &Page{Query: query, doc: doc}, nil
}

// RelatedQuestions extracts the "people also ask" suggestions in
// document order, deduplicated. The question text comes from the
// block's data-q attribute, falling back to the first span. A block
// that yields no text at all means the markup shifted under us, which
// is reported as an error rather than silently dropped.
func (p *Page) RelatedQuestions() ([]string, error) {
	var out []string
	seen := map[string]struct{}{}
	var failed bool

	p.doc.Find("div.related-question-pair").Each(func(_ int, s *goquery.Selection) {
		q := condense(s.AttrOr("data-q", ""))
		if q == "" {
			q = condense(s.Find("span").First().Text())
		}
		if q == "" {
			failed = true
			return
		}
		if _, dup := seen[q]; dup {
			return
		}
		seen[q] = struct{}{}
		out = append(out, q)
	})

	if failed {
		return nil, errors.New("related question block without question text")
	}
	return out, nil
}

// FeaturedSnippet extracts the answer box when the page has one. The
// boolean reports presence of the block itself; a present block with
// missing pieces still comes back so the caller can surface the
// malformed structure through Fields.
func (p *Page) FeaturedSnippet() (*Snippet, bool) {
	block := p.doc.Find("div.g.wF4fFd.JnwWd.g-blk").First()
	if block.Length() == 0 {
		// Newer layout wraps the box in xpdopen.
		p.doc.Find("div.xpdopen").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if s.Find("span.hgKElc").Length() > 0 {
				block = s
				return false
			}
			return true
		})
		if block.Length() == 0 {
			return nil, false
		}
	}

	snip := &Snippet{
		Query:     p.Query,
		Response:  condense(block.Find("span.hgKElc").First().Text()),
		Title:     condense(block.Find("h2.bNg8Rb").First().Text()),
		Source:    condense(block.Find("div.CA5RN div.VuuXrf").First().Text()),
		SourceURL: condense(block.Find("div.CA5RN cite.qLRx3b").First().Text()),
	}
	return snip, true
}

// Snippet is a featured answer box lifted off a results page.
type Snippet struct {
	Query     string
	Response  string
	Title     string
	Source    string
	SourceURL string
}

// Fields flattens the snippet into a field map. A snippet without
// response text is malformed and fails instead of producing an empty
// answer.
func (s *Snippet) Fields() (map[string]string, error) {
	if s.Response == "" {
		return nil, errors.New("snippet missing response text")
	}
	fields := map[string]string{
		"question": s.Query,
		"response": s.Response,
	}
	if s.Title != "" {
		fields["title"] = s.Title
	}
	if s.Source != "" {
		fields["source"] = s.Source
	}
	if s.SourceURL != "" {
		fields["source_url"] = s.SourceURL
	}
	return fields, nil
}

// condense collapses runs of whitespace to single spaces and trims.
func condense(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
