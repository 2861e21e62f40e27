// Package img provides reading functionality for IMG asset archives,
// in both the split .img/.dir layout (version 1) and the single-file
// VER2 layout.
package img

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	ver2Magic  = "VER2"
	sectorSize = 2048

	dirEntrySize = 32
)

// ErrNotFound is returned when a named file is not in the archive.
var ErrNotFound = errors.New("file not found in archive")

// Version identifies the archive layout.
type Version int

const (
	// V1 is the split layout: directory entries in a companion .dir
	// file, data in the .img file.
	V1 Version = 1
	// V2 is the single-file layout with a VER2 header.
	V2 Version = 2
)

// Archive represents an opened IMG archive.
type Archive struct {
	file    *os.File
	version Version
	entries map[string]*Entry
	order   []string
}

// Entry describes one archived file. Offset and Size are measured in
// 2048-byte sectors.
type Entry struct {
	Name   string
	Offset uint32
	Size   uint32
}

// Open opens an IMG archive for reading, detecting the layout from the
// leading magic. Version 1 archives need their .dir companion next to
// the .img file.
func Open(path string) (*Archive, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}

	archive := &Archive{
		file:    file,
		entries: make(map[string]*Entry),
	}

	magic := make([]byte, 4)
	if _, err := io.ReadFull(file, magic); err != nil {
		file.Close()
		return nil, fmt.Errorf("reading magic: %w", err)
	}

	if string(magic) == ver2Magic {
		archive.version = V2
		err = archive.readV2Directory()
	} else {
		archive.version = V1
		err = archive.readV1Directory(dirPathFor(path))
	}
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("reading directory: %w", err)
	}

	return archive, nil
}

// Close closes the archive.
func (a *Archive) Close() error {
	if a.file != nil {
		return a.file.Close()
	}
	return nil
}

// Version returns the detected archive layout.
func (a *Archive) Version() Version {
	return a.version
}

func dirPathFor(imgPath string) string {
	if i := strings.LastIndexByte(imgPath, '.'); i >= 0 {
		return imgPath[:i] + ".dir"
	}
	return imgPath + ".dir"
}

func (a *Archive) readV1Directory(dirPath string) error {
	table, err := os.ReadFile(dirPath)
	if err != nil {
		return fmt.Errorf("reading directory file: %w", err)
	}

	for offset := 0; offset+dirEntrySize <= len(table); offset += dirEntrySize {
		a.addEntry(&Entry{
			Offset: binary.LittleEndian.Uint32(table[offset:]),
			Size:   binary.LittleEndian.Uint32(table[offset+4:]),
			Name:   entryName(table[offset+8 : offset+32]),
		})
	}

	return nil
}

func (a *Archive) readV2Directory() error {
	var count uint32
	if err := binary.Read(a.file, binary.LittleEndian, &count); err != nil {
		return fmt.Errorf("reading entry count: %w", err)
	}

	table := make([]byte, int(count)*dirEntrySize)
	if _, err := io.ReadFull(a.file, table); err != nil {
		return fmt.Errorf("reading entry table: %w", err)
	}

	for i := uint32(0); i < count; i++ {
		raw := table[i*dirEntrySize:]
		size := uint32(binary.LittleEndian.Uint16(raw[4:]))
		// Older tools stored the size in the second half-word.
		if size == 0 {
			size = uint32(binary.LittleEndian.Uint16(raw[6:]))
		}
		a.addEntry(&Entry{
			Offset: binary.LittleEndian.Uint32(raw),
			Size:   size,
			Name:   entryName(raw[8:32]),
		})
	}

	return nil
}

func (a *Archive) addEntry(entry *Entry) {
	key := normalizeName(entry.Name)
	if _, exists := a.entries[key]; !exists {
		a.order = append(a.order, entry.Name)
	}
	a.entries[key] = entry
}

// List returns all file names in directory order.
func (a *Archive) List() []string {
	result := make([]string, len(a.order))
	copy(result, a.order)
	return result
}

// Contains checks if a file exists. Lookup is case-insensitive.
func (a *Archive) Contains(name string) bool {
	_, ok := a.entries[normalizeName(name)]
	return ok
}

// Stat returns the directory entry for a file, or nil.
func (a *Archive) Stat(name string) *Entry {
	return a.entries[normalizeName(name)]
}

// Read reads a file from the archive. The returned data spans the
// entry's full sector run; trailing sector padding is included, as the
// directory does not record exact byte lengths.
func (a *Archive) Read(name string) ([]byte, error) {
	entry, ok := a.entries[normalizeName(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	data := make([]byte, int64(entry.Size)*sectorSize)
	if _, err := a.file.ReadAt(data, int64(entry.Offset)*sectorSize); err != nil {
		return nil, fmt.Errorf("reading %s: %w", entry.Name, err)
	}
	return data, nil
}

func entryName(raw []byte) string {
	if i := bytes.IndexByte(raw, 0); i >= 0 {
		raw = raw[:i]
	}
	return string(raw)
}

func normalizeName(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, "\\", "/"))
}
