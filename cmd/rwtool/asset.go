package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Faultbox/rwkit/pkg/rw"
)

// decodeAsset parses a DFF, TXD or IFP file, dispatching on extension.
func decodeAsset(path string, decodePixels bool) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return decodeAssetData(path, data, decodePixels)
}

func decodeAssetData(path string, data []byte, decodePixels bool) (any, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".dff":
		return rw.ParseDFF(data)
	case ".txd":
		if !decodePixels {
			return rw.ParseTXDWithDecoder(data, nil)
		}
		return rw.ParseTXD(data)
	case ".ifp":
		return rw.ParseIFP(data)
	default:
		return nil, fmt.Errorf("unsupported asset type: %s", path)
	}
}
