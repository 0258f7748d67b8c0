package download

import (
	"errors"
	"fmt"
)

// Error categories of a failed job
var (
	ErrResolution     = errors.New("resolution failed")
	ErrStreamNotFound = errors.New("stream not found")
	ErrTransfer       = errors.New("transfer failed")
	ErrRename         = errors.New("rename failed")
)

// StatusMessageLimit is how much of an error text the status line shows
const StatusMessageLimit = 50

// DownloadError ties a failure category to the URL being processed and the
// underlying cause. errors.Is matches both the category and the cause.
type DownloadError struct {
	Op  error
	URL string
	Err error
}

func (e *DownloadError) Error() string {
	if e.Err == nil {
		return e.Op.Error()
	}
	return fmt.Sprintf("%v: %v", e.Op, e.Err)
}

func (e *DownloadError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Op}
	}
	return []error{e.Op, e.Err}
}

func newDownloadError(op error, url string, err error) *DownloadError {
	return &DownloadError{Op: op, URL: url, Err: err}
}

// Truncate returns at most limit characters of msg
func Truncate(msg string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(msg)
	if len(runes) <= limit {
		return msg
	}
	return string(runes[:limit])
}
