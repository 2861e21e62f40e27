package rw

import (
	"errors"
	"testing"
)

func TestByteStream_Reads(t *testing.T) {
	s := NewByteStream([]byte{
		0x01,
		0x02, 0x03,
		0x04, 0x05, 0x06, 0x07,
		0xFF,
		0x00, 0x00, 0x80, 0x3F,
	})

	if v, err := s.ReadU8(); err != nil || v != 0x01 {
		t.Fatalf("ReadU8 = %d, %v", v, err)
	}
	if v, err := s.ReadU16(); err != nil || v != 0x0302 {
		t.Fatalf("ReadU16 = %#x, %v", v, err)
	}
	if v, err := s.ReadU32(); err != nil || v != 0x07060504 {
		t.Fatalf("ReadU32 = %#x, %v", v, err)
	}
	if v, err := s.ReadI8(); err != nil || v != -1 {
		t.Fatalf("ReadI8 = %d, %v", v, err)
	}
	if v, err := s.ReadF32(); err != nil || v != 1.0 {
		t.Fatalf("ReadF32 = %f, %v", v, err)
	}
	if s.Remaining() != 0 {
		t.Fatalf("Remaining = %d, want 0", s.Remaining())
	}
}

func TestByteStream_Truncation(t *testing.T) {
	s := NewByteStream([]byte{0x01, 0x02})
	if _, err := s.ReadU32(); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
	// A failed read must not advance the position.
	if s.Pos() != 0 {
		t.Fatalf("Pos = %d after failed read, want 0", s.Pos())
	}
	if v, err := s.ReadU16(); err != nil || v != 0x0201 {
		t.Fatalf("ReadU16 = %#x, %v", v, err)
	}
}

func TestByteStream_SkipAndSeek(t *testing.T) {
	s := NewByteStream(make([]byte, 8))

	s.Skip(4)
	if s.Pos() != 4 {
		t.Fatalf("Pos = %d, want 4", s.Pos())
	}
	s.Skip(-2)
	if s.Pos() != 2 {
		t.Fatalf("Pos = %d, want 2", s.Pos())
	}
	// Backward skips clamp at the start of the buffer.
	s.Skip(-100)
	if s.Pos() != 0 {
		t.Fatalf("Pos = %d, want 0", s.Pos())
	}

	// Seeking past the end is allowed but reads there fail.
	s.SetPos(100)
	if s.Remaining() != 0 {
		t.Fatalf("Remaining = %d, want 0", s.Remaining())
	}
	if _, err := s.ReadU8(); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}

func TestByteStream_ReadString(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		n    uint64
		want string
	}{
		{"nul terminated", []byte("abc\x00xyz"), 7, "abc"},
		{"length truncated", []byte("abcdef"), 4, "abcd"},
		{"empty", []byte{0, 0, 0, 0}, 4, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewByteStream(tt.data)
			got, err := s.ReadString(tt.n)
			if err != nil {
				t.Fatalf("ReadString: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
			if s.Pos() != tt.n {
				t.Errorf("Pos = %d, want %d", s.Pos(), tt.n)
			}
		})
	}
}

func TestByteStream_ReadBytesCopies(t *testing.T) {
	data := []byte{1, 2, 3, 4}
	s := NewByteStream(data)
	b, err := s.ReadBytes(4)
	if err != nil {
		t.Fatalf("ReadBytes: %v", err)
	}
	b[0] = 99
	if data[0] != 1 {
		t.Fatal("ReadBytes aliased the input buffer")
	}
}

func TestByteStream_CheckCount(t *testing.T) {
	tests := []struct {
		name     string
		count    uint64
		elemSize uint64
		wantErr  bool
	}{
		{"fits exactly", 5, 2, false},
		{"fits with room", 2, 4, false},
		{"one too many", 6, 2, true},
		{"huge count", 1 << 40, 4, true},
		{"zero elem size", 1 << 40, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewByteStream(make([]byte, 10))
			err := s.checkCount(tt.count, tt.elemSize)
			if (err != nil) != tt.wantErr {
				t.Errorf("checkCount(%d, %d) error = %v, wantErr %v", tt.count, tt.elemSize, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrTruncated) {
				t.Errorf("error %v is not ErrTruncated", err)
			}
		})
	}
}
