package feed

import (
	"bytes"
	"errors"
	"time"

	"github.com/mmcdole/gofeed/atom"
	"github.com/mmcdole/gofeed/rss"
)

// ErrUnrecognized is returned when the document parses under neither format.
var ErrUnrecognized = errors.New("unrecognized feed format")

const (
	fallbackTitle = "Untitled"
	fallbackLink  = "https://example.com"
)

// Parser normalizes RSS and Atom documents into a format-agnostic metadata
// and item shape. Format selection is by trial parse, RSS first, never by
// content sniffing; there is no partial extraction from a corrupt document.
type Parser struct {
	rss  *rss.Parser
	atom *atom.Parser
}

// NewParser creates a new feed parser
func NewParser() *Parser {
	return &Parser{
		rss:  &rss.Parser{},
		atom: &atom.Parser{},
	}
}

// Run parses feed data and returns metadata and normalized items in
// document order.
func (p *Parser) Run(data []byte) (*Metadata, []Item, error) {
	if rssFeed, err := p.rss.Parse(bytes.NewReader(data)); err == nil {
		return p.normalizeRSS(rssFeed)
	}

	if atomFeed, err := p.atom.Parse(bytes.NewReader(data)); err == nil {
		return p.normalizeAtom(atomFeed)
	}

	return nil, nil, ErrUnrecognized
}

func (p *Parser) normalizeRSS(f *rss.Feed) (*Metadata, []Item, error) {
	metadata := &Metadata{
		Title: f.Title,
		Link:  f.Link,
	}

	items := make([]Item, 0, len(f.Items))
	for _, item := range f.Items {
		items = append(items, p.normalizeRSSItem(item))
	}

	return metadata, items, nil
}

func (p *Parser) normalizeRSSItem(item *rss.Item) Item {
	normalized := Item{
		Title:   item.Title,
		Link:    item.Link,
		PubDate: time.Now().UTC(),
	}

	if item.GUID != nil {
		normalized.GUID = item.GUID.Value
	}
	if normalized.Title == "" {
		normalized.Title = fallbackTitle
	}
	if normalized.Link == "" {
		normalized.Link = fallbackLink
	}
	if item.Comments != "" {
		comments := item.Comments
		normalized.CommentsLink = &comments
	}
	// An absent or unparsable pubDate keeps the current instant, so the
	// unread ordering of such items depends on fetch time.
	if item.PubDateParsed != nil {
		normalized.PubDate = item.PubDateParsed.UTC()
	}

	return normalized
}

func (p *Parser) normalizeAtom(f *atom.Feed) (*Metadata, []Item, error) {
	metadata := &Metadata{
		Title: f.Title,
		Link:  firstLink(f.Links),
	}

	items := make([]Item, 0, len(f.Entries))
	for _, entry := range f.Entries {
		items = append(items, p.normalizeAtomEntry(entry))
	}

	return metadata, items, nil
}

func (p *Parser) normalizeAtomEntry(entry *atom.Entry) Item {
	normalized := Item{
		GUID:    entry.ID,
		Title:   entry.Title,
		Link:    firstLink(entry.Links),
		PubDate: time.Now().UTC(),
	}

	if entry.PublishedParsed != nil {
		normalized.PubDate = entry.PublishedParsed.UTC()
	}

	return normalized
}

func firstLink(links []*atom.Link) string {
	for _, link := range links {
		if link != nil && link.Href != "" {
			return link.Href
		}
	}
	return fallbackLink
}
