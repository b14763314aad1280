package api

import (
	"errors"
	"testing"
)

func TestDecodeCString(t *testing.T) {
	tests := []struct {
		name    string
		buf     []byte
		want    string
		wantErr bool
	}{
		{name: "plain", buf: []byte("Hello\x00"), want: "Hello"},
		{name: "trailing garbage after NUL", buf: []byte("You see here a dagger.\x00\xff\xfe"), want: "You see here a dagger."},
		{name: "empty string", buf: []byte{0}, want: ""},
		{name: "missing terminator", buf: []byte("Welcome"), wantErr: true},
		{name: "nil buffer", buf: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeCString(tt.buf)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedPayload) {
					t.Fatalf("expected ErrMalformedPayload, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("DecodeCString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeStatus(t *testing.T) {
	rec := StatusRecord{HP: 12, HPMax: 16, XPLevel: 3, Gold: 42, Moves: 1200, Alignment: -1, Conditions: 0x21}
	rec.SetTitle("Agent the Stripling")

	got, err := DecodeStatus(EncodeStatus(rec))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != rec {
		t.Errorf("decoded %+v, want %+v", got, rec)
	}
	if got.TitleString() != "Agent the Stripling" {
		t.Errorf("title = %q", got.TitleString())
	}
}

func TestDecodeStatus_Malformed(t *testing.T) {
	good := EncodeStatus(StatusRecord{HP: 1, HPMax: 1})

	// Титул без NUL: все 32 байта заняты
	var noNul StatusRecord
	for i := range noNul.Title {
		noNul.Title[i] = 'x'
	}

	tests := []struct {
		name string
		buf  []byte
	}{
		{"short", good[:len(good)-3]},
		{"long", append(append([]byte{}, good...), 0)},
		{"empty", nil},
		{"title without terminator", EncodeStatus(noNul)},
		{"negative max", EncodeStatus(StatusRecord{HPMax: -5})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeStatus(tt.buf); !errors.Is(err, ErrMalformedPayload) {
				t.Errorf("expected ErrMalformedPayload, got %v", err)
			}
		})
	}
}

func TestSetTitle_Truncates(t *testing.T) {
	var rec StatusRecord
	rec.SetTitle("A very long title that certainly does not fit the buffer")
	if got := rec.TitleString(); len(got) != TitleLen-1 {
		t.Errorf("title length = %d, want %d", len(got), TitleLen-1)
	}
}

func TestDecodeLevelInfo(t *testing.T) {
	info := LevelInfo{
		Depth:   4,
		Doors:   []NativePoint{{X: 10, Y: 3}, {X: 22, Y: 7}},
		Enemies: []NativePoint{{X: 5, Y: 5}},
	}
	buf, err := EncodeLevelInfo(info)
	if err != nil {
		t.Fatal(err)
	}

	got, err := DecodeLevelInfo(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Depth != 4 || len(got.Doors) != 2 || len(got.Enemies) != 1 {
		t.Fatalf("decoded %+v", got)
	}
	if got.Doors[1] != (NativePoint{X: 22, Y: 7}) {
		t.Errorf("door[1] = %+v", got.Doors[1])
	}
}

// Заявленный счетчик больше емкости массива: копировать нельзя
func TestDecodeLevelInfo_CountExceedsCapacity(t *testing.T) {
	buf, err := EncodeLevelInfo(LevelInfo{Depth: 1})
	if err != nil {
		t.Fatal(err)
	}
	buf[4] = MaxDoors + 1 // DoorCount сразу после Depth (int32)

	if _, err := DecodeLevelInfo(buf); !errors.Is(err, ErrMalformedPayload) {
		t.Fatalf("expected ErrMalformedPayload, got %v", err)
	}

	buf[4] = 0
	buf[5] = 0xFF // EnemyCount
	if _, err := DecodeLevelInfo(buf); !errors.Is(err, ErrMalformedPayload) {
		t.Fatalf("expected ErrMalformedPayload for enemies, got %v", err)
	}
}

func TestEncodeLevelInfo_RejectsOverflow(t *testing.T) {
	if _, err := EncodeLevelInfo(LevelInfo{Doors: make([]NativePoint, MaxDoors+1)}); err == nil {
		t.Error("expected error for too many doors")
	}
}

func TestNativePayload_Release(t *testing.T) {
	p := NewPayload([]byte("abc\x00"))
	if string(p.Bytes()) != "abc\x00" {
		t.Fatalf("Bytes() = %q", p.Bytes())
	}

	p.Release()
	if p.Bytes() != nil {
		t.Error("Bytes() after Release must be nil")
	}
	p.Release()
	if p.Releases() != 2 {
		t.Errorf("Releases() = %d, want 2", p.Releases())
	}
}
