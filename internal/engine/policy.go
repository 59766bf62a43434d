package engine

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"

	"cashtag-trader/internal/feed/twitter"
	"cashtag-trader/internal/store"
)

// Class groups cycle errors for logging and metrics.
type Class string

const (
	ClassConfig    Class = "config"
	ClassCanceled  Class = "canceled"
	ClassRejected  Class = "rejected"
	ClassTransient Class = "transient"
)

// Classify maps an error returned by Step to its Class. Anything it does not
// recognise is treated as transient.
func Classify(err error) Class {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ClassCanceled
	}

	var cfgErr *store.ConfigError
	if errors.As(err, &cfgErr) {
		return ClassConfig
	}

	var twErr *twitter.APIError
	if errors.As(err, &twErr) {
		switch {
		case twErr.IsAuth():
			return ClassConfig
		case twErr.IsRetryable():
			return ClassTransient
		default:
			return ClassRejected
		}
	}

	// Alpaca answers 403 for orders it refuses (buying power, halted
	// symbol), so only 401 counts as a credentials problem.
	var alpErr *alpaca.APIError
	if errors.As(err, &alpErr) {
		switch {
		case alpErr.StatusCode == http.StatusUnauthorized:
			return ClassConfig
		case alpErr.StatusCode == http.StatusTooManyRequests || alpErr.StatusCode >= 500:
			return ClassTransient
		case alpErr.StatusCode >= 400:
			return ClassRejected
		}
	}

	return ClassTransient
}

// RetryPolicy controls the run loop. Every class of error is retried after
// Interval; MaxConsecutiveFailures of 0 retries forever.
type RetryPolicy struct {
	Interval               time.Duration
	MaxConsecutiveFailures int
}

func PolicyFromConfig(cfg *store.Config) RetryPolicy {
	return RetryPolicy{
		Interval:               cfg.PollInterval(),
		MaxConsecutiveFailures: cfg.Retry.MaxConsecutiveFailures,
	}
}
