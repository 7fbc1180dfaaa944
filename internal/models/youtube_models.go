package models

import "time"

type (
	YouTubeCommentThreadsResponse struct {
		NextPageToken string                 `json:"nextPageToken"`
		Items         []YouTubeCommentThread `json:"items"`
	}
	YouTubeCommentThread struct {
		ID      string                      `json:"id"`
		Snippet YouTubeCommentThreadSnippet `json:"snippet"`
	}
	YouTubeCommentThreadSnippet struct {
		VideoID         string         `json:"videoId"`
		TopLevelComment YouTubeComment `json:"topLevelComment"`
		TotalReplyCount int            `json:"totalReplyCount"`
	}
	YouTubeComment struct {
		ID      string                `json:"id"`
		Snippet YouTubeCommentSnippet `json:"snippet"`
	}
	YouTubeCommentSnippet struct {
		TextDisplay       string    `json:"textDisplay"`
		TextOriginal      string    `json:"textOriginal"`
		AuthorDisplayName string    `json:"authorDisplayName"`
		LikeCount         int       `json:"likeCount"`
		PublishedAt       time.Time `json:"publishedAt"`
		UpdatedAt         time.Time `json:"updatedAt"`
	}
)

type (
	YouTubeVideosResponse struct {
		Items []YouTubeVideo `json:"items"`
	}
	YouTubeVideo struct {
		ID      string              `json:"id"`
		Snippet YouTubeVideoSnippet `json:"snippet"`
	}
	YouTubeVideoSnippet struct {
		Title        string    `json:"title"`
		ChannelTitle string    `json:"channelTitle"`
		PublishedAt  time.Time `json:"publishedAt"`
	}
)

type (
	YouTubeErrorResponse struct {
		Error YouTubeError `json:"error"`
	}
	YouTubeError struct {
		Code    int                  `json:"code"`
		Message string               `json:"message"`
		Errors  []YouTubeErrorDetail `json:"errors"`
	}
	YouTubeErrorDetail struct {
		Reason  string `json:"reason"`
		Message string `json:"message"`
	}
)

// ToRawComment maps a comment thread to the RawComment the scorer consumes.
func (t YouTubeCommentThread) ToRawComment() RawComment {
	s := t.Snippet.TopLevelComment.Snippet
	text := s.TextDisplay
	if text == "" {
		text = s.TextOriginal
	}
	return RawComment{
		CommentID:   t.Snippet.TopLevelComment.ID,
		Author:      s.AuthorDisplayName,
		Text:        text,
		LikeCount:   max(s.LikeCount, 0),
		PublishedAt: s.PublishedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
