package series

import (
	"testing"
	"time"
)

type report struct {
	date  string
	value string
}

func reportedAt(r report) time.Time { return ParseStamp(r.date) }

func TestLatest_NewestWins_RegardlessOfOrder(t *testing.T) {
	in := []report{
		{date: "2024-01-25", value: "q4"},
		{date: "2024-07-24", value: "q2"},
		{date: "2024-04-24", value: "q1"},
	}
	got, ok := Latest(in, reportedAt)
	if !ok || got.value != "q2" {
		t.Fatalf("unexpected: %+v ok=%v", got, ok)
	}
}

func TestLatest_EqualTimestamps_LaterInputWins(t *testing.T) {
	in := []report{
		{date: "2024-07-24", value: "first"},
		{date: "2024-07-24", value: "second"},
	}
	got, _ := Latest(in, reportedAt)
	if got.value != "second" {
		t.Fatalf("want later input, got %+v", got)
	}
}

func TestLatest_ZeroTimestamps_Lose(t *testing.T) {
	in := []report{
		{date: "", value: "undated"},
		{date: "2023-10-25", value: "dated"},
		{date: "garbage", value: "bad"},
	}
	got, _ := Latest(in, reportedAt)
	if got.value != "dated" {
		t.Fatalf("want dated entry, got %+v", got)
	}

	only := []report{{date: "", value: "a"}, {date: "", value: "b"}}
	got, ok := Latest(only, reportedAt)
	if !ok || got.value != "a" {
		t.Fatalf("want first undated entry, got %+v", got)
	}
}

func TestLatest_Empty(t *testing.T) {
	if _, ok := Latest([]report{}, reportedAt); ok {
		t.Fatalf("empty input must report !ok")
	}
}

func TestLatestKey_IntradaySeries(t *testing.T) {
	points := map[string]string{
		"2024-01-02 19:57:00": "185.10",
		"2024-01-02 19:59:00": "185.64",
		"2024-01-02 19:58:00": "185.40",
	}
	k, v, ok := LatestKey(points)
	if !ok || k != "2024-01-02 19:59:00" || v != "185.64" {
		t.Fatalf("unexpected: %s %s %v", k, v, ok)
	}
}

func TestLatestKey_UnparseableKeysRankLast(t *testing.T) {
	points := map[string]int{"zzz": 1, "2020-01-01": 2, "aaa": 3}
	k, v, _ := LatestKey(points)
	if k != "2020-01-01" || v != 2 {
		t.Fatalf("unexpected: %s %d", k, v)
	}

	k, _, _ = LatestKey(map[string]int{"b": 1, "c": 2, "a": 3})
	if k != "c" {
		t.Fatalf("lexical fallback: got %s", k)
	}

	if _, _, ok := LatestKey(map[string]int{}); ok {
		t.Fatalf("empty series must report !ok")
	}
}

func TestParseStamp_Formats(t *testing.T) {
	want := time.Date(2024, 7, 24, 0, 0, 0, 0, time.UTC)
	if got := ParseStamp("2024-07-24"); !got.Equal(want) {
		t.Fatalf("date: %v", got)
	}
	if got := ParseStamp("1721779200"); !got.Equal(want) {
		t.Fatalf("epoch seconds: %v", got)
	}
	if got := ParseStamp("1721779200000"); !got.Equal(want) {
		t.Fatalf("epoch millis: %v", got)
	}
	if got := ParseStamp("2024-07-24T00:00:00Z"); !got.Equal(want) {
		t.Fatalf("rfc3339: %v", got)
	}
	if got := ParseStamp("None"); !got.IsZero() {
		t.Fatalf("placeholder should be zero: %v", got)
	}
}
