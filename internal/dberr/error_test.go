package dberr

import (
	"errors"
	"testing"
)

func TestIOWrapsAndUnwraps(t *testing.T) {
	cause := errors.New("disk full")
	err := IO("bitcask.Set", cause)

	if !Is(err, KindIO) {
		t.Fatalf("expected KindIO, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected Unwrap to expose cause, got %v", err)
	}
}

func TestIONilIsNil(t *testing.T) {
	if IO("op", nil) != nil {
		t.Fatal("expected nil error for nil cause")
	}
}

func TestValueKind(t *testing.T) {
	err := Value("bitcask.Set", "value too large")
	if !Is(err, KindValue) {
		t.Fatalf("expected KindValue, got %v", err)
	}
	if Is(err, KindIO) {
		t.Fatal("did not expect KindIO")
	}
}
