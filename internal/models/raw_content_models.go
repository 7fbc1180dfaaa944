package models

import "time"

// RawComment is a top-level comment as returned by the comment source.
type RawComment struct {
	CommentID   string    `json:"commentId,omitempty"`
	Author      string    `json:"author,omitempty"`
	Text        string    `json:"text"`
	LikeCount   int       `json:"likeCount"`
	PublishedAt time.Time `json:"publishedAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type VideoMetadata struct {
	VideoID      string    `json:"videoId"`
	Title        string    `json:"title"`
	ChannelTitle string    `json:"channelTitle,omitempty"`
	PublishedAt  time.Time `json:"publishedAt"`
}
