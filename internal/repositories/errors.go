package repositories

import "errors"

// Sentinel errors returned by repositories. Handlers translate these to HTTP
// status codes with errors.Is, so no string matching happens at the route layer.
var (
	ErrInvalidID       = errors.New("invalid id format")
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrNotCommentOwner = errors.New("not the comment owner")
	ErrUserNotFound    = errors.New("user not found")
	ErrDuplicateUser   = errors.New("username or email already taken")
)
