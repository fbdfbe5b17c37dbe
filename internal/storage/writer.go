package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/coffersTech/nanolog/convertdates/internal/engine"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Codec selects the compression applied to the output.
type Codec int

const (
	CodecAuto Codec = iota // chosen from the output file extension
	CodecNone
	CodecGzip
	CodecZstd
)

func (c Codec) String() string {
	switch c {
	case CodecNone:
		return "none"
	case CodecGzip:
		return "gzip"
	case CodecZstd:
		return "zstd"
	default:
		return "auto"
	}
}

// ParseCodec maps auto, none, gzip or zstd to a Codec.
func ParseCodec(s string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return CodecAuto, nil
	case "none", "plain":
		return CodecNone, nil
	case "gzip", "gz":
		return CodecGzip, nil
	case "zstd", "zst":
		return CodecZstd, nil
	}
	return CodecAuto, fmt.Errorf("unknown compression %q (want auto, none, gzip or zstd)", s)
}

// CodecForPath picks a codec from the extension of path.
func CodecForPath(path string) Codec {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz", ".gzip":
		return CodecGzip
	case ".zst", ".zstd":
		return CodecZstd
	}
	return CodecNone
}

// CheckDistinct fails with ErrIO when out names the same file as in, since
// creating the output would truncate the input before it is read. Stdio and
// an output that does not exist yet never conflict.
func CheckDistinct(in, out string) error {
	if in == StdioPath || out == "" || out == StdioPath {
		return nil
	}
	inInfo, err := os.Stat(in)
	if err != nil {
		return nil
	}
	outInfo, err := os.Stat(out)
	if err != nil {
		return nil
	}
	if os.SameFile(inInfo, outInfo) {
		return fmt.Errorf("%w: output %s is the input file %s", engine.ErrIO, out, in)
	}
	return nil
}

// CreateOutput creates the file at path for the converted records. An empty
// path or "-" writes to stdout, which is left open on Close. With CodecAuto
// the compression follows the file extension.
func CreateOutput(path string, codec Codec) (io.WriteCloser, error) {
	var (
		w       io.Writer
		closeFn func() error
	)
	if path == "" || path == StdioPath {
		w, closeFn = os.Stdout, func() error { return nil }
	} else {
		f, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("%w: creating %s: %w", engine.ErrIO, path, err)
		}
		w, closeFn = f, f.Close
	}

	if codec == CodecAuto {
		codec = CodecForPath(path)
	}
	return Compress(w, codec, closeFn)
}

// Compress wraps w with an encoder for codec. Closing the result flushes the
// encoder and then calls closeFn.
func Compress(w io.Writer, codec Codec, closeFn func() error) (io.WriteCloser, error) {
	switch codec {
	case CodecGzip:
		zw := gzip.NewWriter(w)
		return &encodedWriter{Writer: zw, closers: []func() error{zw.Close, closeFn}}, nil
	case CodecZstd:
		enc, err := zstd.NewWriter(w)
		if err != nil {
			closeFn()
			return nil, err
		}
		return &encodedWriter{Writer: enc, closers: []func() error{enc.Close, closeFn}}, nil
	}
	return &encodedWriter{Writer: w, closers: []func() error{closeFn}}, nil
}

type encodedWriter struct {
	io.Writer
	closers []func() error
}

// Close runs every closer and returns the first error.
func (w *encodedWriter) Close() error {
	var first error
	for _, c := range w.closers {
		if err := c(); err != nil && first == nil {
			first = fmt.Errorf("%w: closing output: %w", engine.ErrIO, err)
		}
	}
	return first
}
