package util

import "errors"

var (
	ErrChallengeNotFound = errors.New("no coding challenge configured for this topic")
	ErrAttemptNotFound   = errors.New("attempt not found")
	ErrEmptyAnswers      = errors.New("answers must not be empty")
	ErrEmptyCode         = errors.New("code must not be empty")
	ErrAttemptConflict   = errors.New("could not allocate attempt number, please retry")
)
