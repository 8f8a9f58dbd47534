// Package imaging provides the compression envelope for article thumbnails.
//
// Images are stored as zlib-compressed blobs. Compression happens exactly
// once, at the HTTP boundary where raw upload bytes enter the system; the
// service and the store only ever see compressed bytes.
package imaging

import (
	"bytes"
	"compress/zlib"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrCorruptImage indicates a stored blob that is not valid zlib data.
	ErrCorruptImage = errors.New("corrupt image payload")
	// ErrImageTooLarge indicates an upload exceeding the configured cap.
	ErrImageTooLarge = errors.New("image exceeds maximum allowed size")
)

// Compress encodes raw image bytes with zlib at best compression.
// The empty input round-trips to an empty output.
func Compress(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return nil, fmt.Errorf("create compressor: %w", err)
	}
	if _, err := w.Write(raw); err != nil {
		w.Close()
		return nil, fmt.Errorf("compress image: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("flush compressor: %w", err)
	}
	return buf.Bytes(), nil
}

// Decompress reverses Compress exactly. Malformed input fails with
// ErrCorruptImage; the caller decides how to surface it.
func Decompress(compressed []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, ErrCorruptImage
	}
	defer r.Close()

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrCorruptImage
	}
	return raw, nil
}

// CheckSize validates a raw upload against the configured byte cap.
// A cap of zero disables the check.
func CheckSize(raw []byte, maxBytes int64) error {
	if maxBytes > 0 && int64(len(raw)) > maxBytes {
		return ErrImageTooLarge
	}
	return nil
}
