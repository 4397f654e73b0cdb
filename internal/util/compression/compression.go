// Package compression wraps the codecs used for stored document payloads.
package compression

import "fmt"

type Compressor interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
	// Name is recorded next to the payload so readers pick the right codec.
	Name() string
}

// ByName returns the codec for a stored payload. "" and "none" mean uncompressed.
func ByName(name string) (Compressor, error) {
	switch name {
	case "zstd":
		return ZstdCompressor{}, nil
	case "gzip":
		return GzipCompressor{}, nil
	case "", "none":
		return None{}, nil
	default:
		return nil, fmt.Errorf("unknown compression %q", name)
	}
}

type None struct{}

func (None) Compress(data []byte) ([]byte, error) { return data, nil }

func (None) Decompress(data []byte) ([]byte, error) { return data, nil }

func (None) Name() string { return "none" }
