// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Mining outcomes. All of them are recoverable and are reported to the
// caller rather than treated as crashes.
var (
	// ErrEmptyInput means there were zero transactions to mine.
	ErrEmptyInput = errors.New("no data to analyze")
	// ErrNoEligibleFeatures means no configured feature matched the dataset.
	ErrNoEligibleFeatures = errors.New("not enough columns to build rules")
	// ErrNoFrequentItemsets means nothing met the minimum support.
	ErrNoFrequentItemsets = errors.New("no frequent itemsets found")
	// ErrNoRules means frequent itemsets exist but none met the minimum confidence.
	ErrNoRules = errors.New("no rules found")
	// ErrPartialResult means mining stopped on a budget before converging.
	ErrPartialResult = errors.New("mining stopped before convergence")
)

// Faults.
var (
	// ErrInvalidConfig means thresholds or discretization settings are unusable.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrInconsistentResult means a frequent itemset is missing a subset's support.
	ErrInconsistentResult = errors.New("inconsistent mining result")
	// ErrUnsupportedSource means the input file type is not recognized.
	ErrUnsupportedSource = errors.New("unsupported data source")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// InvalidConfigf formats a configuration error that wraps ErrInvalidConfig.
func InvalidConfigf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

// IsRetryable reports whether a run could succeed with relaxed thresholds.
// Empty outcomes are retryable; faults and missing data are not.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrNoFrequentItemsets) || errors.Is(err, ErrNoRules)
}
