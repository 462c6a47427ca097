package models

import "time"

// Author describes who published a reel.
type Author struct {
	Name      string `json:"name,omitempty"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// Reel is a single published video along with its metadata and engagement
// counters. Once loaded into a feed session a Reel is treated as an
// immutable value; counters change only through explicit update operations.
type Reel struct {
	ID           string    `json:"id"`
	VideoURL     string    `json:"videoUrl"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	Title        string    `json:"title,omitempty"`
	Description  string    `json:"description,omitempty"`
	Author       Author    `json:"author"`
	Tags         []string  `json:"tags,omitempty"`
	Likes        int       `json:"likes"`
	Comments     int       `json:"comments"`
	Shares       int       `json:"shares"`
	Views        int       `json:"views"`
	IsLiked      bool      `json:"isLiked"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
