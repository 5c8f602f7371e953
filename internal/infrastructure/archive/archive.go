// Package archive reads and writes backup files. Files are zstd-compressed
// JSON; plain JSON is accepted on read.
package archive

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"

	"kopikeliling/internal/domain/records"
)

// Extension is appended to backup files written by WriteFile.
const Extension = ".json.zst"

// zstdMagic starts every zstd frame.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Write encodes b as compressed JSON into w.
func Write(w io.Writer, b *records.Backup) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return fmt.Errorf("create zstd encoder: %w", err)
	}
	if err := json.NewEncoder(enc).Encode(b); err != nil {
		_ = enc.Close()
		return fmt.Errorf("encode backup: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("flush backup: %w", err)
	}
	return nil
}

// Read decodes a backup from r, compressed or not.
func Read(r io.Reader) (*records.Backup, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read backup: %w", err)
	}
	if bytes.HasPrefix(data, zstdMagic) {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("create zstd decoder: %w", err)
		}
		defer dec.Close()
		data, err = dec.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("decompress backup: %w", err)
		}
	}
	return records.ParseBackup(data)
}

// WriteFile writes b to path.
func WriteFile(path string, b *records.Backup) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(f, b); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// ReadFile reads the backup at path.
func ReadFile(path string) (*records.Backup, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}
