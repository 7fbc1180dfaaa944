package clients

import "errors"

var (
	ErrVideoNotFound       = errors.New("video not found")
	ErrCommentsDisabled    = errors.New("comments are disabled for this video")
	ErrUpstreamUnavailable = errors.New("youtube api unavailable")
)
