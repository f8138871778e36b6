package wikidot

import (
	"errors"
	"fmt"
)

var (
	ErrLoginFailed  = errors.New("wikidot: login failed")
	ErrSiteNotFound = errors.New("wikidot: site not found")
	ErrPageNotFound = errors.New("wikidot: page not found")
	ErrClosed       = errors.New("wikidot: session closed")
)

// StatusError is returned when the ajax module connector answers with a
// status other than "ok".
type StatusError struct {
	Module  string
	Status  string
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("wikidot: module %s returned status %q", e.Module, e.Status)
	}
	return fmt.Sprintf("wikidot: module %s returned status %q: %s", e.Module, e.Status, e.Message)
}
