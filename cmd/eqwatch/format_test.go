package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/eqwatch/eqwatch-go/pkg/eqwatch/event"
)

func sampleEvent() event.Event {
	return event.Event{
		Character:   "Azleep",
		DetectorID:  1,
		Description: "Vessel Drozlin spawn!",
		LocalTime:   time.Date(2022, 9, 18, 15, 22, 41, 0, time.Local),
		UTCTime:     time.Date(2022, 9, 18, 19, 22, 41, 0, time.UTC),
		RawLine:     "[Sun Sep 18 15:22:41 2022] Vessel Drozlin begins to cast a spell.",
	}
}

func TestOutputJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := OutputJSON(sampleEvent(), &buf); err != nil {
		t.Fatalf("OutputJSON() error = %v", err)
	}

	// Verify it's valid JSON
	var decoded event.Event
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("OutputJSON() produced invalid JSON: %v", err)
	}
	if decoded.Character != "Azleep" {
		t.Errorf("decoded.Character = %q, want %q", decoded.Character, "Azleep")
	}
	if decoded.DetectorID != 1 {
		t.Errorf("decoded.DetectorID = %d, want 1", decoded.DetectorID)
	}
}

func TestOutputPretty(t *testing.T) {
	var buf bytes.Buffer
	if err := OutputPretty(sampleEvent(), &buf); err != nil {
		t.Fatalf("OutputPretty() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "#1 Vessel Drozlin spawn! (Azleep)") {
		t.Errorf("unexpected output: %q", out)
	}
	if !strings.Contains(out, "[15:22:41]") {
		t.Errorf("missing timestamp: %q", out)
	}
}

func TestOutputRecord(t *testing.T) {
	var buf bytes.Buffer
	if err := OutputRecord(sampleEvent(), &buf); err != nil {
		t.Fatalf("OutputRecord() error = %v", err)
	}

	want := "EQ__|Azleep|1|Vessel Drozlin spawn!|2022-09-18 19:22:41+00:00|[Sun Sep 18 15:22:41 2022] Vessel Drozlin begins to cast a spell.\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestOutputEvent_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := OutputEvent("xml", sampleEvent(), &buf); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestValidFormats(t *testing.T) {
	for _, f := range []string{"jsonl", "pretty", "record"} {
		if !ValidFormats[f] {
			t.Errorf("format %q should be valid", f)
		}
	}
	if ValidFormats["xml"] {
		t.Error("xml should not be valid")
	}
}
