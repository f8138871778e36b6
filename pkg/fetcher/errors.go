package fetcher

import "errors"

var (
	ErrAuthFailed   = errors.New("authentication failed")
	ErrPageNotFound = errors.New("page not found")
	ErrNoSource     = errors.New("page has no wiki text")
	ErrEmptyContent = errors.New("page content is empty")
	ErrEncode       = errors.New("failed to encode document")
	ErrUnexpected   = errors.New("unexpected site client failure")
)

// Outcome is the tagged result of a fetch, used for logs and fetch history.
type Outcome string

const (
	OutcomeOK           Outcome = "ok"
	OutcomeAuthFailed   Outcome = "auth_failed"
	OutcomeNotFound     Outcome = "not_found"
	OutcomeNoContent    Outcome = "no_content"
	OutcomeEncodeFailed Outcome = "encode_failed"
	OutcomeError        Outcome = "error"
)

// Classify maps a fetch error to its outcome. A nil error is OutcomeOK.
func Classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, ErrAuthFailed):
		return OutcomeAuthFailed
	case errors.Is(err, ErrPageNotFound):
		return OutcomeNotFound
	case errors.Is(err, ErrNoSource), errors.Is(err, ErrEmptyContent):
		return OutcomeNoContent
	case errors.Is(err, ErrEncode):
		return OutcomeEncodeFailed
	default:
		return OutcomeError
	}
}
