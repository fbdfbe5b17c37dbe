package engine

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/coffersTech/nanolog/convertdates/internal/model"
	"github.com/valyala/fastjson"
)

// Transformer rewrites NDJSON log records, replacing an epoch-seconds field
// with an ISO-8601 timestamp field.
//
// A Transformer may be shared between goroutines; each Run uses its own
// parser and arena from the pools.
type Transformer struct {
	opts   Options
	parser fastjson.ParserPool
	arena  fastjson.ArenaPool
}

// NewTransformer creates a Transformer. Empty option fields take the values
// of DefaultOptions.
func NewTransformer(opts Options) *Transformer {
	return &Transformer{opts: opts.withDefaults()}
}

// Options returns the effective options.
func (t *Transformer) Options() Options {
	return t.opts
}

// Run reads all of r, converts every non-blank line and writes one record
// per line to w. The first failing line aborts the run; records written
// before it are flushed to w.
func (t *Transformer) Run(ctx context.Context, r io.Reader, w io.Writer) (Stats, error) {
	start := time.Now()
	var stats Stats

	data, err := io.ReadAll(r)
	if err != nil {
		return stats, ioError("read input", err)
	}
	stats.BytesIn = int64(len(data))

	data = bytes.TrimFunc(data, isSpace)
	if len(data) == 0 {
		stats.Duration = time.Since(start)
		return stats, nil
	}

	bw := bufio.NewWriter(w)
	err = t.runLines(ctx, data, bw, &stats)
	if ferr := bw.Flush(); ferr != nil && err == nil {
		err = ioError("write output", ferr)
	}
	stats.Duration = time.Since(start)
	return stats, err
}

func (t *Transformer) runLines(ctx context.Context, data []byte, w io.Writer, stats *Stats) error {
	p := t.parser.Get()
	defer t.parser.Put(p)
	a := t.arena.Get()
	defer t.arena.Put(a)

	var (
		rec  model.LogRecord
		out  []byte
		sep  = []byte(t.opts.LineSeparator)
		hist = NewHistogram(24 * time.Hour)
	)
	defer func() {
		stats.Daily = hist.Points()
		if first, last, ok := hist.Span(); ok {
			stats.Earliest, stats.Latest = FormatISO(first), FormatISO(last)
		}
	}()

	for lineNo, rest := 1, data; ; lineNo++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, tail, more := bytes.Cut(rest, sep)
		stats.LinesRead++

		if len(bytes.TrimFunc(line, isSpace)) == 0 {
			stats.BlankLines++
		} else {
			var (
				res converted
				err error
			)
			out, res, err = t.convert(p, a, &rec, out[:0], line)
			if err != nil {
				var le *LineError
				if errors.As(err, &le) {
					le.Line = lineNo
				}
				return err
			}
			if res.valid {
				hist.Add(res.millis)
			} else {
				stats.InvalidTimestamps++
			}

			out = append(out, '\n')
			n, err := w.Write(out)
			stats.BytesOut += int64(n)
			if err != nil {
				return ioError("write output", err)
			}
			stats.RecordsWritten++
		}

		if !more {
			return nil
		}
		rest = tail
	}
}

// TransformLine converts a single NDJSON line and appends the resulting
// record, without a trailing newline, to dst. Errors are *LineError values
// with a zero Line.
func (t *Transformer) TransformLine(dst, line []byte) ([]byte, error) {
	p := t.parser.Get()
	defer t.parser.Put(p)
	a := t.arena.Get()
	defer t.arena.Put(a)

	var rec model.LogRecord
	out, _, err := t.convert(p, a, &rec, dst, line)
	return out, err
}

// converted describes the timestamp written for one record.
type converted struct {
	millis int64
	valid  bool // false when the invalid policy filled the target field
}

func (t *Transformer) convert(p *fastjson.Parser, a *fastjson.Arena, rec *model.LogRecord, dst, line []byte) ([]byte, converted, error) {
	// The parser is lenient about string escapes and numbers, so validate first.
	if err := fastjson.ValidateBytes(line); err != nil {
		return dst, converted{}, &LineError{Kind: ErrParse, Err: err}
	}
	v, err := p.ParseBytes(line)
	if err != nil {
		return dst, converted{}, &LineError{Kind: ErrParse, Err: err}
	}
	obj, err := v.Object()
	if err != nil {
		return dst, converted{}, &LineError{Kind: ErrParse, Err: fmt.Errorf("expected a JSON object, got %s", v.Type())}
	}

	// Duplicate keys collapse onto their first position with the last value.
	rec.Reset()
	var src *fastjson.Value
	obj.Visit(func(key []byte, val *fastjson.Value) {
		if string(key) == t.opts.SourceKey {
			src = val
			return
		}
		rec.Set(string(key), val)
	})

	a.Reset()
	var (
		target *fastjson.Value
		res    converted
	)
	ms, err := t.timestamp(src)
	switch {
	case err == nil:
		target = a.NewString(FormatISO(ms))
		res = converted{millis: ms, valid: true}
	case t.opts.OnInvalid == InvalidString:
		target = a.NewString(InvalidDate)
	case t.opts.OnInvalid == InvalidNull:
		target = a.NewNull()
	default:
		return dst, res, &LineError{Kind: ErrTimestamp, Err: err}
	}
	rec.Set(t.opts.TargetKey, target)

	return rec.MarshalTo(dst), res, nil
}

func (t *Transformer) timestamp(src *fastjson.Value) (int64, error) {
	if src == nil {
		return 0, fmt.Errorf("field %q is missing", t.opts.SourceKey)
	}
	ms, err := EpochMillis(EpochSeconds(src))
	if err != nil {
		return 0, fmt.Errorf("field %q: %w", t.opts.SourceKey, err)
	}
	return ms, nil
}
