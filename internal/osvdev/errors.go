package osvdev

import (
	"errors"
	"fmt"
)

// ErrMaxRetriesExceeded is returned once every attempt of a request has failed
var ErrMaxRetriesExceeded = errors.New("max retries exceeded")

type ErrDuringPaging struct {
	PageDepth int
	Inner     error
}

func (e *ErrDuringPaging) Error() string {
	return fmt.Sprintf("error during paging at depth %d - %s", e.PageDepth, e.Inner)
}

func (e *ErrDuringPaging) Unwrap() error {
	return e.Inner
}
