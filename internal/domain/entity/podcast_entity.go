package entity

import "time"

// Podcast is the aggregate root for the catalog domain. It exclusively owns
// its episodes: deleting a podcast cascades to them in the persistence layer.
//
// Rating is 0 while unset; whenever set it lies in [1,5].
type Podcast struct {
	ID        string
	Title     string
	Category  string
	Rating    int
	CoverURL  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Episode belongs to exactly one podcast and is only ever addressed through
// it, by the (PodcastID, ID) pair.
type Episode struct {
	ID        string
	PodcastID string
	Title     string
	Category  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
