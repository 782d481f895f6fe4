package database

type FeedRepository interface {
	GetByURL(url string) (*Feed, error)

	Upsert(feed Feed) error
}

type ItemRepository interface {
	GetUnread(feedURL string) ([]Item, error)

	Upsert(item Item) error

	// MarkRead flips is_read for every item belonging to one of the given
	// feed URLs. Items of feeds no longer configured are left untouched.
	MarkRead(feedURLs []string) error
}
