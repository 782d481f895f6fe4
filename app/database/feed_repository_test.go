package database

import (
	"testing"
)

func strPtr(s string) *string {
	return &s
}

func TestFeedUpsertAndGet(t *testing.T) {
	db := openTestDB(t)
	repo := NewFeedRepository(db)

	feed := Feed{
		URL:          "https://example.org/feed",
		Link:         "https://example.org",
		Title:        "Example",
		ETag:         strPtr(`"abc123"`),
		LastModified: strPtr("Mon, 03 Jul 2023 10:00:00 GMT"),
	}
	if err := repo.Upsert(feed); err != nil {
		t.Fatalf("Failed to upsert feed: %v", err)
	}

	got, err := repo.GetByURL(feed.URL)
	if err != nil {
		t.Fatalf("Failed to get feed: %v", err)
	}
	if got == nil {
		t.Fatal("Expected feed, got nil")
	}
	if got.Link != feed.Link || got.Title != feed.Title {
		t.Errorf("Expected %q/%q, got: %q/%q", feed.Link, feed.Title, got.Link, got.Title)
	}
	if got.ETag == nil || *got.ETag != `"abc123"` {
		t.Errorf("Expected etag to round-trip, got: %v", got.ETag)
	}
	if got.LastModified == nil || *got.LastModified != "Mon, 03 Jul 2023 10:00:00 GMT" {
		t.Errorf("Expected last modified to round-trip, got: %v", got.LastModified)
	}
}

func TestFeedGetMissing(t *testing.T) {
	db := openTestDB(t)
	repo := NewFeedRepository(db)

	got, err := repo.GetByURL("https://example.org/absent")
	if err != nil {
		t.Fatalf("Expected no error for missing feed, got: %v", err)
	}
	if got != nil {
		t.Errorf("Expected nil for missing feed, got: %+v", got)
	}
}

func TestFeedUpsertReplacesWholeRow(t *testing.T) {
	db := openTestDB(t)
	repo := NewFeedRepository(db)

	url := "https://example.org/feed"
	if err := repo.Upsert(Feed{URL: url, Link: "old", Title: "Old", ETag: strPtr("e1"), LastModified: strPtr("lm1")}); err != nil {
		t.Fatalf("Failed to upsert feed: %v", err)
	}

	// A response without caching headers clears the stored values.
	if err := repo.Upsert(Feed{URL: url, Link: "new", Title: "New"}); err != nil {
		t.Fatalf("Failed to upsert feed: %v", err)
	}

	got, err := repo.GetByURL(url)
	if err != nil {
		t.Fatalf("Failed to get feed: %v", err)
	}
	if got.Link != "new" || got.Title != "New" {
		t.Errorf("Expected replaced link/title, got: %q/%q", got.Link, got.Title)
	}
	if got.ETag != nil {
		t.Errorf("Expected etag cleared, got: %v", *got.ETag)
	}
	if got.LastModified != nil {
		t.Errorf("Expected last modified cleared, got: %v", *got.LastModified)
	}
}
