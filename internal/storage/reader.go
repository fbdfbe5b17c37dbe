package storage

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/coffersTech/nanolog/convertdates/internal/engine"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Magic bytes of the compressed formats recognized on input.
var (
	GzipMagic = []byte{0x1f, 0x8b}
	ZstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// StdioPath selects stdin or stdout instead of a file.
const StdioPath = "-"

// OpenInput opens the log file at path for reading. Gzip and zstd files are
// decompressed transparently. A path of "-" reads stdin.
func OpenInput(path string) (io.ReadCloser, error) {
	if path == StdioPath {
		return Decompress(io.NopCloser(os.Stdin))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %w", engine.ErrIO, path, err)
	}
	rc, err := Decompress(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return rc, nil
}

// Decompress sniffs the first bytes of rc and wraps it with the matching
// decoder. Plain input is passed through. Closing the result closes rc.
func Decompress(rc io.ReadCloser) (io.ReadCloser, error) {
	br := bufio.NewReader(rc)
	head, err := br.Peek(len(ZstdMagic))
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("%w: reading input header: %w", engine.ErrIO, err)
	}

	switch {
	case bytes.HasPrefix(head, ZstdMagic):
		dec, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("%w: zstd input: %w", engine.ErrIO, err)
		}
		return &decodedReader{Reader: dec, close: func() error {
			dec.Close()
			return rc.Close()
		}}, nil
	case bytes.HasPrefix(head, GzipMagic):
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("%w: gzip input: %w", engine.ErrIO, err)
		}
		return &decodedReader{Reader: zr, close: func() error {
			zerr := zr.Close()
			if err := rc.Close(); err != nil {
				return err
			}
			return zerr
		}}, nil
	}
	return &decodedReader{Reader: br, close: rc.Close}, nil
}

type decodedReader struct {
	io.Reader
	close func() error
}

func (r *decodedReader) Close() error {
	return r.close()
}
