package youtube

import (
	"errors"
	"fmt"

	kkdai "github.com/kkdai/youtube/v2"
)

// ErrorCategory classifies fetch failures
type ErrorCategory string

const (
	CategoryRestricted ErrorCategory = "restricted"
	CategoryInvalidURL ErrorCategory = "invalid_url"
	CategoryNetwork    ErrorCategory = "network"
)

// Category sentinels, matchable with errors.Is
var (
	ErrRestricted = errors.New("restricted content (login/age/private)")
	ErrInvalidURL = errors.New("invalid URL or playlist ID")
)

// categoryForError maps kkdai errors onto a category
func categoryForError(err error) ErrorCategory {
	switch {
	case errors.Is(err, kkdai.ErrLoginRequired),
		errors.Is(err, kkdai.ErrVideoPrivate),
		errors.Is(err, kkdai.ErrNotPlayableInEmbed):
		return CategoryRestricted
	case errors.Is(err, kkdai.ErrInvalidPlaylist),
		errors.Is(err, kkdai.ErrInvalidCharactersInVideoID),
		errors.Is(err, kkdai.ErrVideoIDMinLength):
		return CategoryInvalidURL
	}

	var statusErr *kkdai.ErrPlayabiltyStatus
	if errors.As(err, &statusErr) {
		return CategoryRestricted
	}
	var playlistErr kkdai.ErrPlaylistStatus
	if errors.As(err, &playlistErr) {
		return CategoryInvalidURL
	}

	return CategoryNetwork
}

func wrapFetchError(err error, context string) error {
	switch categoryForError(err) {
	case CategoryRestricted:
		return fmt.Errorf("%w: %s: %w", ErrRestricted, context, err)
	case CategoryInvalidURL:
		return fmt.Errorf("%w: %s: %w", ErrInvalidURL, context, err)
	}
	return fmt.Errorf("%s: %w", context, err)
}
