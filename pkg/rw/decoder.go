package rw

import "github.com/Faultbox/rwkit/pkg/dxt"

// dxtDecoder decompresses BC blocks with the built-in dxt package.
type dxtDecoder struct{}

func (dxtDecoder) Decompress(format BlockFormat, data []byte, width, height int) []byte {
	switch format {
	case BC1:
		return dxt.DecodeBC1(data, width, height)
	case BC2:
		return dxt.DecodeBC2(data, width, height)
	case BC3:
		return dxt.DecodeBC3(data, width, height)
	default:
		return nil
	}
}

var defaultBlockDecoder BlockDecoder = dxtDecoder{}
