package compression

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"fmt"
	"io"
)

// Content-Encoding values understood by the platform.
const (
	EncodingGzip    = "gzip"
	EncodingDeflate = "deflate"
)

// DefaultThreshold is the request size in bytes below which compression
// is skipped.
const DefaultThreshold = 1400

// Compressor handles request body compression and response body decoding.
type Compressor struct {
	compressionLevel int
}

// NewCompressor creates a new compressor with default compression level.
func NewCompressor() *Compressor {
	return &Compressor{
		compressionLevel: gzip.DefaultCompression,
	}
}

// NewCompressorWithLevel creates a new compressor with specified compression level.
func NewCompressorWithLevel(level int) *Compressor {
	return &Compressor{
		compressionLevel: level,
	}
}

// Compress compresses data using GZIP.
func (c *Compressor) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer

	writer, err := gzip.NewWriterLevel(&buf, c.compressionLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip writer: %w", err)
	}

	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return nil, fmt.Errorf("failed to write data: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close gzip writer: %w", err)
	}

	return buf.Bytes(), nil
}

// Decompress decompresses GZIP data.
func (c *Compressor) Decompress(data []byte) ([]byte, error) {
	reader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer reader.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		return nil, fmt.Errorf("failed to read compressed data: %w", err)
	}

	return buf.Bytes(), nil
}

// Inflate decompresses raw DEFLATE data.
func (c *Compressor) Inflate(data []byte) ([]byte, error) {
	reader := flate.NewReader(bytes.NewReader(data))
	defer reader.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		return nil, fmt.Errorf("failed to inflate data: %w", err)
	}

	return buf.Bytes(), nil
}

// Decode decompresses a response body according to the Content-Encoding
// value the server reported. An empty encoding returns the data unchanged.
func (c *Compressor) Decode(encoding string, data []byte) ([]byte, error) {
	switch encoding {
	case "":
		return data, nil
	case EncodingGzip:
		return c.Decompress(data)
	case EncodingDeflate:
		return c.Inflate(data)
	default:
		return nil, fmt.Errorf("unsupported content encoding %q", encoding)
	}
}

// AboveThreshold reports whether a body of the given size should be
// compressed. A threshold of zero disables compression entirely.
func AboveThreshold(size, threshold int) bool {
	if threshold <= 0 {
		return false
	}
	return size >= threshold
}
