// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package hazard

import (
	"strings"
	"testing"
)

func TestNoOpLogger_NeverEnabled(t *testing.T) {
	var l NoOpLogger
	for _, lvl := range []Level{LevelDebug, LevelInfo, LevelWarn, LevelError} {
		if l.IsEnabled(lvl) {
			t.Fatalf("expected NoOpLogger to report disabled for %s", lvl)
		}
	}
	l.Log(Entry{Level: LevelError, Message: "should be discarded"})
}

func TestWriterLogger_FiltersBelowMinLevel(t *testing.T) {
	var buf strings.Builder
	l := NewWriterLogger(&buf, LevelWarn)

	if l.IsEnabled(LevelDebug) {
		t.Fatal("expected debug to be filtered at min level warn")
	}
	l.Log(Entry{Level: LevelDebug, Category: "load", Message: "ignored"})
	if buf.Len() != 0 {
		t.Fatalf("expected nothing written for a filtered entry, got %q", buf.String())
	}

	l.Log(Entry{Level: LevelError, Category: "retire", Message: "boom"})
	if !strings.Contains(buf.String(), "boom") {
		t.Fatalf("expected entry to be written, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "ERROR") {
		t.Fatalf("expected level name in output, got %q", buf.String())
	}
}

func TestWriterLogger_IncludesFields(t *testing.T) {
	var buf strings.Builder
	l := NewWriterLogger(&buf, LevelDebug)

	l.Log(Entry{
		Level:    LevelInfo,
		Category: "cleanup",
		Message:  "reclaimed",
		Fields:   map[string]any{"count": 3},
	})

	out := buf.String()
	if !strings.Contains(out, "count=3") {
		t.Fatalf("expected field to be rendered, got %q", out)
	}
}

func TestLevel_String(t *testing.T) {
	cases := map[Level]string{
		LevelDebug: "DEBUG",
		LevelInfo:  "INFO",
		LevelWarn:  "WARN",
		LevelError: "ERROR",
	}
	for lvl, want := range cases {
		if got := lvl.String(); got != want {
			t.Errorf("Level(%d).String() = %q, want %q", lvl, got, want)
		}
	}
}
