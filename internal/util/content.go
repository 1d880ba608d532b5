package util

import (
	"errors"
	"strings"
	"unicode/utf8"

	"chirp/internal/model"
)

var (
	ErrEmptyContent = errors.New("content is empty")
	ErrTooLong      = errors.New("content exceeds 280 characters")
)

// ValidateContent trims a tweet or comment body and rejects empty or
// over-length input before any network call is made.
func ValidateContent(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmptyContent
	}
	if utf8.RuneCountInString(s) > model.MaxContentLength {
		return "", ErrTooLong
	}
	return s, nil
}

// Remaining reports how many characters are left before the limit. It can
// go negative while the user types past it.
func Remaining(s string) int {
	return model.MaxContentLength - utf8.RuneCountInString(s)
}
