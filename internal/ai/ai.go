// Package ai defines the contract between the evaluation engine and the
// remote scorer backends.
package ai

import (
	"context"
	"errors"
)

// ErrThrottled marks a remote call rejected because of rate limiting. The
// evaluator retries calls that fail with this error and treats every other
// failure as terminal for the affected paper.
var ErrThrottled = errors.New("remote scorer throttled")

// Generator produces a free-text completion for the given system instruction
// and prompt.
type Generator interface {
	GenerateContent(ctx context.Context, system, prompt string) (string, error)
	Provider() string
	Model() string
}

// IsThrottled reports whether the error originates from rate limiting.
func IsThrottled(err error) bool {
	return errors.Is(err, ErrThrottled)
}
