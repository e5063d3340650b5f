package model

import "time"

// News is an admin-authored announcement shown to all visitors,
// listed by recency.  This struct corresponds to a row in the
// `news` table.
//
// Fields:
//  ID      – primary key identifier.
//  Title   – headline of the announcement.
//  Content – body text.
//  Time    – publish timestamp.
type News struct {
	ID      uint64    // news.id
	Title   string    // news.title
	Content string    // news.content
	Time    time.Time // news.time
}
