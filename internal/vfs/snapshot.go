package vfs

import (
	"bytes"
	"fmt"
	"io"

	"github.com/bytedance/sonic"
	"github.com/klauspost/compress/gzip"
)

// EncodeSnapshot serializes a state dump into a gzip-compressed JSON
// payload suitable for export.
func EncodeSnapshot(state *State) ([]byte, error) {
	data, err := sonic.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("vfs: encode snapshot: %w", err)
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, fmt.Errorf("vfs: compress snapshot: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("vfs: compress snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeSnapshot parses a payload produced by EncodeSnapshot.
func DecodeSnapshot(payload []byte) (*State, error) {
	zr, err := gzip.NewReader(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("vfs: decompress snapshot: %w", err)
	}
	defer zr.Close()

	data, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("vfs: decompress snapshot: %w", err)
	}

	var state State
	if err := sonic.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("vfs: decode snapshot: %w", err)
	}
	state.normalize()
	return &state, nil
}
