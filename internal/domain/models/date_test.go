package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2016-01-04")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Year() != 2016 || d.Month() != time.January || d.Day() != 4 {
		t.Fatalf("unexpected date %v", d)
	}
	if d.String() != "2016-01-04" {
		t.Fatalf("unexpected string %q", d.String())
	}
}

func TestParseDateInvalid(t *testing.T) {
	if _, err := ParseDate("04/01/2016"); err == nil {
		t.Fatalf("expected error")
	}
	if _, err := ParseDate(""); err == nil {
		t.Fatalf("expected error")
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2017, time.March, 15)
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2017-03-15"` {
		t.Fatalf("unexpected json %s", b)
	}

	var got Date
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !got.Equal(d.Time) {
		t.Fatalf("round trip mismatch: %v != %v", got, d)
	}
}

func TestDateJSONZero(t *testing.T) {
	var d Date
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != "null" {
		t.Fatalf("zero date should encode as null, got %s", b)
	}

	var got Date
	if err := json.Unmarshal([]byte("null"), &got); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if !got.IsZero() {
		t.Fatalf("expected zero date")
	}
}

func TestDateScan(t *testing.T) {
	var d Date
	if err := d.Scan(time.Date(2015, 6, 1, 13, 45, 0, 0, time.FixedZone("X", 3600))); err != nil {
		t.Fatalf("scan time: %v", err)
	}
	if d.String() != "2015-06-01" {
		t.Fatalf("scan should truncate to the day, got %v", d)
	}

	if err := d.Scan("2015-07-02"); err != nil {
		t.Fatalf("scan string: %v", err)
	}
	if d.String() != "2015-07-02" {
		t.Fatalf("unexpected date %v", d)
	}

	if err := d.Scan(42); err == nil {
		t.Fatalf("expected error for int source")
	}
}
