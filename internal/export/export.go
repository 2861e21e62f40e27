// Package export serializes decoded assets to JSON files.
package export

import (
	"fmt"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"

	"github.com/Faultbox/rwkit/pkg/rw"
)

// JSON serializes v, optionally indented for human consumption.
func JSON(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

// WriteJSON serializes v to a file, creating parent directories as
// needed.
func WriteJSON(path string, v any, pretty bool) error {
	data, err := JSON(v, pretty)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// StripPixels returns a copy of the dictionary with decoded mip pixels
// removed, keeping exports small when only metadata is wanted.
func StripPixels(txd *rw.TXD) *rw.TXD {
	out := &rw.TXD{
		TextureCount:   txd.TextureCount,
		TextureNatives: make([]rw.TextureNative, len(txd.TextureNatives)),
	}
	copy(out.TextureNatives, txd.TextureNatives)
	for i := range out.TextureNatives {
		out.TextureNatives[i].Mipmaps = nil
	}
	return out
}
