package feed

import "time"

// Metadata contains the feed-level fields of the parsed document
type Metadata struct {
	Title string
	Link  string
}

// Item represents a normalized feed entry, independent of wire format
type Item struct {
	GUID         string
	Title        string
	Link         string
	CommentsLink *string
	PubDate      time.Time
}
