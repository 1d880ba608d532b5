package util

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateContentTrims(t *testing.T) {
	got, err := ValidateContent("  hello world \n")
	if err != nil || got != "hello world" {
		t.Fatalf("got %q err %v", got, err)
	}
}

func TestValidateContentRejectsEmpty(t *testing.T) {
	if _, err := ValidateContent("   \t "); !errors.Is(err, ErrEmptyContent) {
		t.Fatalf("expected ErrEmptyContent, got %v", err)
	}
}

func TestValidateContentRejectsOverLength(t *testing.T) {
	if _, err := ValidateContent(strings.Repeat("a", 281)); !errors.Is(err, ErrTooLong) {
		t.Fatalf("expected ErrTooLong, got %v", err)
	}
	if _, err := ValidateContent(strings.Repeat("a", 280)); err != nil {
		t.Fatalf("280 chars should pass: %v", err)
	}
}

func TestRemainingCountsRunes(t *testing.T) {
	if Remaining("héllo") != 275 {
		t.Fatalf("got %d", Remaining("héllo"))
	}
}
