// Package rw provides decoders for RenderWare binary asset files:
// DFF model clumps, TXD texture dictionaries and IFP animation packages.
package rw

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// ErrTruncated is returned when a read requires more bytes than remain
// in the input buffer.
var ErrTruncated = errors.New("unexpected end of input")

// ByteStream is a bounds-checked little-endian reader over an immutable
// byte slice. The position may be moved past the end of the buffer for
// bookkeeping, but any read at such a position fails with ErrTruncated.
type ByteStream struct {
	data []byte
	pos  uint64
}

// NewByteStream creates a ByteStream over data. The slice is not copied;
// callers must not mutate it while decoding.
func NewByteStream(data []byte) *ByteStream {
	return &ByteStream{data: data}
}

// Size returns the total buffer length.
func (s *ByteStream) Size() uint64 {
	return uint64(len(s.data))
}

// Pos returns the current absolute position.
func (s *ByteStream) Pos() uint64 {
	return s.pos
}

// SetPos moves to an absolute position. Positions beyond the buffer end
// are allowed; subsequent reads there fail with ErrTruncated.
func (s *ByteStream) SetPos(pos uint64) {
	s.pos = pos
}

// Skip moves the position forward (or backward for negative n).
func (s *ByteStream) Skip(n int64) {
	if n < 0 && uint64(-n) > s.pos {
		s.pos = 0
		return
	}
	s.pos = uint64(int64(s.pos) + n)
}

// Remaining returns the number of unread bytes, or 0 when the position
// is at or past the end of the buffer.
func (s *ByteStream) Remaining() uint64 {
	if s.pos >= uint64(len(s.data)) {
		return 0
	}
	return uint64(len(s.data)) - s.pos
}

func (s *ByteStream) take(n uint64) ([]byte, error) {
	if n > s.Remaining() {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrTruncated, n, s.pos, s.Remaining())
	}
	b := s.data[s.pos : s.pos+n]
	s.pos += n
	return b, nil
}

// ReadU8 reads an unsigned 8-bit integer.
func (s *ByteStream) ReadU8() (uint8, error) {
	b, err := s.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadU16 reads a little-endian unsigned 16-bit integer.
func (s *ByteStream) ReadU16() (uint16, error) {
	b, err := s.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadU32 reads a little-endian unsigned 32-bit integer.
func (s *ByteStream) ReadU32() (uint32, error) {
	b, err := s.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadI8 reads a signed 8-bit integer.
func (s *ByteStream) ReadI8() (int8, error) {
	v, err := s.ReadU8()
	return int8(v), err
}

// ReadI16 reads a little-endian signed 16-bit integer.
func (s *ByteStream) ReadI16() (int16, error) {
	v, err := s.ReadU16()
	return int16(v), err
}

// ReadI32 reads a little-endian signed 32-bit integer.
func (s *ByteStream) ReadI32() (int32, error) {
	v, err := s.ReadU32()
	return int32(v), err
}

// ReadF32 reads a little-endian 32-bit float.
func (s *ByteStream) ReadF32() (float32, error) {
	v, err := s.ReadU32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// ReadBytes reads n bytes into a freshly allocated slice.
func (s *ByteStream) ReadBytes(n uint64) ([]byte, error) {
	b, err := s.take(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

// ReadString reads an n-byte run and interprets it as a NUL-terminated
// (or length-truncated) string.
func (s *ByteStream) ReadString(n uint64) (string, error) {
	b, err := s.take(n)
	if err != nil {
		return "", err
	}
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b), nil
}

// checkCount validates that count elements of elemSize bytes each could
// still be read from the stream. Decoders call it before sizing any
// allocation from an untrusted count field, so a corrupt count fails
// fast with ErrTruncated instead of driving an unbounded allocation.
func (s *ByteStream) checkCount(count uint64, elemSize uint64) error {
	if elemSize == 0 {
		return nil
	}
	if count > s.Remaining()/elemSize {
		return fmt.Errorf("%w: %d elements of %d bytes declared at offset %d, %d bytes remain",
			ErrTruncated, count, elemSize, s.pos, s.Remaining())
	}
	return nil
}
