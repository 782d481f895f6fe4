package database

import (
	"time"
)

// Feed is one subscribed source. The row is fully replaced on every
// successful fetch; ETag and LastModified mirror the most recent response
// headers and are nil when the response omitted them.
type Feed struct {
	URL          string
	Link         string
	Title        string
	ETag         *string
	LastModified *string
}

// Item is one feed entry, deduplicated by (FeedURL, GUID). IsRead is set
// only by MarkRead; a re-fetch never changes it.
type Item struct {
	FeedURL      string
	GUID         string
	Link         string
	CommentsLink *string
	Title        string
	PubDate      time.Time
	IsRead       bool
}
