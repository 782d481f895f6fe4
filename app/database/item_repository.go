package database

import (
	"fmt"
	"strings"
)

// SQLItemRepository handles database operations for feed items
type SQLItemRepository struct {
	db *DB
}

var _ ItemRepository = (*SQLItemRepository)(nil)

// NewItemRepository creates a new item repository
func NewItemRepository(db *DB) *SQLItemRepository {
	return &SQLItemRepository{db: db}
}

// Upsert inserts the item as unread. When the (feed_url, guid) key already
// exists only link, title and pub_date are updated; is_read keeps whatever
// value it had, so a re-fetch never resurrects a read item.
func (r *SQLItemRepository) Upsert(item Item) error {
	_, err := r.db.conn.Exec(`
		INSERT INTO items (feed_url, guid, link, comments_link, title, pub_date, is_read)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (feed_url, guid) DO UPDATE SET
			link = excluded.link,
			title = excluded.title,
			pub_date = excluded.pub_date
	`, item.FeedURL, item.GUID, item.Link, item.CommentsLink, item.Title,
		item.PubDate.UTC(), item.IsRead)

	if err != nil {
		return fmt.Errorf("failed to upsert item: %w", err)
	}

	return nil
}

// GetUnread returns the unread items of one feed, oldest first.
func (r *SQLItemRepository) GetUnread(feedURL string) ([]Item, error) {
	rows, err := r.db.conn.Query(`
		SELECT feed_url, guid, link, comments_link, title, pub_date, is_read
		FROM items
		WHERE feed_url = ? AND is_read = 0
		ORDER BY pub_date ASC
	`, feedURL)
	if err != nil {
		return nil, fmt.Errorf("failed to get unread items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var item Item
		err := rows.Scan(
			&item.FeedURL, &item.GUID, &item.Link, &item.CommentsLink,
			&item.Title, &item.PubDate, &item.IsRead,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item row: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating item rows: %w", err)
	}

	return items, nil
}

// MarkRead marks every item of the given feeds as read. Scoping to the
// configured feed URLs keeps items of dropped subscriptions unread.
func (r *SQLItemRepository) MarkRead(feedURLs []string) error {
	if len(feedURLs) == 0 {
		return nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(feedURLs)), ", ")
	args := make([]any, len(feedURLs))
	for i, url := range feedURLs {
		args[i] = url
	}

	query := fmt.Sprintf("UPDATE items SET is_read = 1 WHERE feed_url IN (%s)", placeholders)
	if _, err := r.db.conn.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to mark items read: %w", err)
	}

	return nil
}
