package digest

import (
	_ "embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"feedmail/app/database"
)

//go:embed mail.html.tmpl
var mailTemplate string

var tmpl = template.Must(template.New("mail").Parse(mailTemplate))

// FeedItems pairs one stored feed with its unread backlog, oldest first.
type FeedItems struct {
	Feed  database.Feed
	Items []database.Item
}

// Digest is the assembled mail content for one delivery.
type Digest struct {
	Subject string
	Feeds   []FeedItems
}

// Build assembles the digest for the configured feed URLs. URLs that were
// never successfully fetched have no feed row and are skipped.
func Build(feedRepo database.FeedRepository, itemRepo database.ItemRepository, feedURLs []string) (*Digest, error) {
	digest := &Digest{
		Subject: "Feed digest for " + time.Now().Format(time.RFC1123),
	}

	for _, url := range feedURLs {
		feed, err := feedRepo.GetByURL(url)
		if err != nil {
			return nil, err
		}
		if feed == nil {
			continue
		}

		items, err := itemRepo.GetUnread(url)
		if err != nil {
			return nil, err
		}

		digest.Feeds = append(digest.Feeds, FeedItems{Feed: *feed, Items: items})
	}

	return digest, nil
}

// Render produces the HTML body for the digest.
func Render(digest *Digest) (string, error) {
	var buf strings.Builder
	if err := tmpl.Execute(&buf, digest); err != nil {
		return "", fmt.Errorf("failed to render digest: %w", err)
	}
	return buf.String(), nil
}
