package database

import (
	"database/sql"
	"errors"
	"fmt"
)

// SQLFeedRepository handles database operations for feeds
type SQLFeedRepository struct {
	db *DB
}

var _ FeedRepository = (*SQLFeedRepository)(nil)

// NewFeedRepository creates a new feed repository
func NewFeedRepository(db *DB) *SQLFeedRepository {
	return &SQLFeedRepository{db: db}
}

// Upsert fully replaces the feed row keyed by URL. Caching headers are
// overwritten with whatever the caller supplies, including nil.
func (r *SQLFeedRepository) Upsert(feed Feed) error {
	_, err := r.db.conn.Exec(`
		REPLACE INTO feeds (url, link, title, etag, last_modified)
		VALUES (?, ?, ?, ?, ?)
	`, feed.URL, feed.Link, feed.Title, feed.ETag, feed.LastModified)

	if err != nil {
		return fmt.Errorf("failed to upsert feed: %w", err)
	}

	return nil
}

// GetByURL retrieves a feed by its URL. A missing row is not an error; the
// result is nil.
func (r *SQLFeedRepository) GetByURL(url string) (*Feed, error) {
	feed := Feed{URL: url}
	err := r.db.conn.QueryRow(`
		SELECT link, title, etag, last_modified
		FROM feeds
		WHERE url = ?
	`, url).Scan(&feed.Link, &feed.Title, &feed.ETag, &feed.LastModified)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get feed by URL: %w", err)
	}

	return &feed, nil
}
