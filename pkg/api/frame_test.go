package api

import (
	"cognitive-mapview/internal/domain"
	"errors"
	"testing"
)

func TestDecodeFrame(t *testing.T) {
	var w FrameWriter
	w.Glyph(domain.GlyphUpdate{Col: 4, Row: 5, Glyph: 2378, Char: '.', Fg: 7, Flags: domain.FlagDetected})
	w.Message("Hello, adventurer.")
	w.Status(StatusRecord{HP: 10, HPMax: 10})
	w.Control(domain.EventTurnComplete)
	w.Control(domain.EventFlush)

	frame, err := w.Bytes()
	if err != nil {
		t.Fatal(err)
	}

	events, err := DecodeFrame(frame)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantTypes := []domain.EventType{
		domain.EventGlyph, domain.EventMessage, domain.EventStatus,
		domain.EventTurnComplete, domain.EventFlush,
	}
	if len(events) != len(wantTypes) {
		t.Fatalf("got %d events, want %d", len(events), len(wantTypes))
	}
	for i, ev := range events {
		if ev.Type != wantTypes[i] {
			t.Errorf("event %d type = %s, want %s", i, ev.Type, wantTypes[i])
		}
	}

	g := events[0].Glyph
	if g.Col != 4 || g.Row != 5 || g.Glyph != 2378 || g.Char != '.' || !g.Flags.Has(domain.FlagDetected) {
		t.Errorf("glyph = %+v", g)
	}
	text, err := DecodeCString(events[1].Payload.Bytes())
	if err != nil || text != "Hello, adventurer." {
		t.Errorf("message = %q, %v", text, err)
	}
}

func TestDecodeFrame_Truncated(t *testing.T) {
	var w FrameWriter
	w.Glyph(domain.GlyphUpdate{Col: 1, Row: 1, Char: '#'})
	w.Glyph(domain.GlyphUpdate{Col: 2, Row: 1, Char: '#'})
	frame, _ := w.Bytes()

	events, err := DecodeFrame(frame[:len(frame)-2])
	if !errors.Is(err, ErrMalformedPayload) {
		t.Fatalf("expected ErrMalformedPayload, got %v", err)
	}
	if len(events) != 1 {
		t.Errorf("expected the intact first record to survive, got %d events", len(events))
	}
}

func TestDecodeFrame_UnknownTypePassesThrough(t *testing.T) {
	frame := []byte{99, 0, 0}
	events, err := DecodeFrame(frame)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].Type.String() != "UNKNOWN" {
		t.Errorf("events = %+v", events)
	}
}

func TestDecodeFrame_BadGlyphSkipped(t *testing.T) {
	var w FrameWriter
	w.Glyph(domain.GlyphUpdate{Col: 1, Row: 1, Glyph: 2346, Char: '.'})
	w.Glyph(domain.GlyphUpdate{Col: 2, Row: 1, Glyph: -5, Char: '.'})
	w.Glyph(domain.GlyphUpdate{Col: 3, Row: 1, Glyph: 2346, Char: '.'})
	w.Message("You hear a door open.")
	w.Control(domain.EventTurnComplete)
	frame, err := w.Bytes()
	if err != nil {
		t.Fatal(err)
	}

	events, err := DecodeFrame(frame)
	if !errors.Is(err, ErrMalformedPayload) {
		t.Errorf("expected ErrMalformedPayload for the bad glyph, got %v", err)
	}

	wantTypes := []domain.EventType{
		domain.EventGlyph, domain.EventGlyph, domain.EventMessage, domain.EventTurnComplete,
	}
	if len(events) != len(wantTypes) {
		t.Fatalf("got %d events, want %d", len(events), len(wantTypes))
	}
	for i, ev := range events {
		if ev.Type != wantTypes[i] {
			t.Errorf("event %d type = %s, want %s", i, ev.Type, wantTypes[i])
		}
	}
	if events[1].Glyph.Col != 3 {
		t.Errorf("second glyph col = %d, want 3", events[1].Glyph.Col)
	}
	events[2].Payload.Release()
}
