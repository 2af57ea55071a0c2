package http

import (
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"giveaway-bot/internal/common/errors"
	"giveaway-bot/internal/features/giveaway/repository"
	"giveaway-bot/internal/features/giveaway/service"
)

// parseDuration accepts Go durations plus a trailing "d" for whole days.
func parseDuration(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if days, ok := strings.CutSuffix(raw, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("invalid duration %q", raw)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", raw)
	}
	return d, nil
}

// toAppError maps service errors onto API error codes.
func toAppError(err error, giveawayID string) *errors.AppError {
	if appErr, ok := errors.AsAppError(err); ok {
		return appErr
	}

	switch {
	case stderrors.Is(err, service.ErrNotFound):
		return errors.NewGiveawayNotFoundError(giveawayID)
	case stderrors.Is(err, service.ErrInvalidDuration):
		return errors.Wrap(err, errors.ErrCodeInvalidDuration, "Duration is out of range")
	case stderrors.Is(err, service.ErrInvalidWinnerCount):
		return errors.Wrap(err, errors.ErrCodeInvalidWinners, "Winners count is out of range")
	case stderrors.Is(err, service.ErrInvalidInput):
		return errors.Wrap(err, errors.ErrCodeValidation, err.Error())
	case stderrors.Is(err, service.ErrAlreadyClosed):
		return errors.Wrap(err, errors.ErrCodeAlreadyClosed, "Giveaway is closed")
	case stderrors.Is(err, service.ErrAlreadyEntered):
		return errors.Wrap(err, errors.ErrCodeAlreadyJoined, "Already entered")
	case stderrors.Is(err, service.ErrNotEntered):
		return errors.Wrap(err, errors.ErrCodeNotJoined, "Not entered")
	case stderrors.Is(err, service.ErrNotEnded):
		return errors.Wrap(err, errors.ErrCodeNotEnded, "Giveaway has not ended")
	case stderrors.Is(err, service.ErrInsufficientEntries):
		return errors.Wrap(err, errors.ErrCodeInsufficientEntries, "Not enough entries to reroll")
	case stderrors.Is(err, repository.ErrStoreUnavailable):
		return errors.Wrap(err, errors.ErrCodeStoreUnavailable, "Storage is unavailable")
	case stderrors.Is(err, service.ErrNotificationFailed):
		return errors.Wrap(err, errors.ErrCodeGatewayError, "Messaging platform request failed")
	default:
		return errors.Wrap(err, errors.ErrCodeInternal, "Internal server error")
	}
}
