package service

import "errors"

// Custom errors for giveaway service
var (
	ErrNotFound            = errors.New("giveaway not found")
	ErrInvalidInput        = errors.New("invalid giveaway input")
	ErrInvalidDuration     = errors.New("giveaway duration is outside the allowed window")
	ErrInvalidWinnerCount  = errors.New("winner count must be between 1 and 10")
	ErrAlreadyClosed       = errors.New("giveaway is closed for entries")
	ErrAlreadyEntered      = errors.New("user has already entered this giveaway")
	ErrNotEntered          = errors.New("user has not entered this giveaway")
	ErrNotEnded            = errors.New("giveaway has not ended yet")
	ErrInsufficientEntries = errors.New("not enough entries to draw the configured number of winners")
	ErrNotificationFailed  = errors.New("giveaway notification failed")
	ErrArtifactNotFound    = errors.New("announcement message not found")
)
