package domain

import "errors"

var (
	ErrPollNotFound  = errors.New("poll not found")
	ErrInvalidPollID = errors.New("invalid poll id")
	ErrInvalidInput  = errors.New("invalid input")
	ErrPollExpired   = errors.New("poll expired")
	ErrDuplicateVote = errors.New("already voted on this poll")
	ErrUnauthorized  = errors.New("unauthorized")
)
