package logger

import (
	"errors"
	"testing"
	"time"
)

func TestStatus(t *testing.T) {
	if got := Status(nil); got != "ok" {
		t.Fatalf("Status(nil) = %q", got)
	}
	if got := Status(errors.New("boom")); got != "error" {
		t.Fatalf("Status(err) = %q", got)
	}
}

func TestRoundMS(t *testing.T) {
	if got := RoundMS(-time.Second); got != 0 {
		t.Fatalf("RoundMS(-1s) = %v", got)
	}
	if got := RoundMS(1499 * time.Microsecond); got != time.Millisecond {
		t.Fatalf("RoundMS(1.499ms) = %v", got)
	}
}

func TestSanitize(t *testing.T) {
	in := "a\x00b\tc\nd\x7f"
	want := "ab\tc\nd"
	if got := Sanitize(in); got != want {
		t.Fatalf("Sanitize = %q, expected %q", got, want)
	}
}

func TestSanitizeLimit(t *testing.T) {
	if got := SanitizeLimit("абвгд", 3); got != "абв" {
		t.Fatalf("SanitizeLimit = %q", got)
	}
	if got := SanitizeLimit("abc", 0); got != "" {
		t.Fatalf("SanitizeLimit(max=0) = %q", got)
	}
}

func TestBuildRID(t *testing.T) {
	rid := BuildRID(42, 7, 9)
	if rid == "" {
		t.Fatal("expected non-empty rid")
	}
	if rid != BuildRID(42, 7, 9) {
		t.Fatal("rid must be deterministic for the same update")
	}
	if rid == BuildRID(43, 7, 9) {
		t.Fatal("rid must vary with update id")
	}
}
