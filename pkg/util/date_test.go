package util

import "testing"

func TestParseDateISO(t *testing.T) {
	got, ok := ParseDate("2024-12-17")
	if !ok {
		t.Fatalf("expected ok")
	}
	if FormatDate(got) != "2024-12-17" {
		t.Fatalf("unexpected date %v", got)
	}
}

func TestParseDateUSShort(t *testing.T) {
	got, ok := ParseDate("12/17/24")
	if !ok {
		t.Fatalf("expected ok")
	}
	if FormatDate(got) != "2024-12-17" {
		t.Fatalf("unexpected date %v", got)
	}
}

func TestParseDateInvalid(t *testing.T) {
	if _, ok := ParseDate("not-a-date"); ok {
		t.Fatalf("expected parse failure")
	}
	if _, ok := ParseDate(""); ok {
		t.Fatalf("expected parse failure for empty string")
	}
}

func TestParseDateTimestamp(t *testing.T) {
	got, ok := ParseDate("2024-12-17 00:00:00")
	if !ok {
		t.Fatalf("expected ok")
	}
	if FormatDate(got) != "2024-12-17" {
		t.Fatalf("unexpected date %v", got)
	}
}
