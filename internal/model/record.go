package model

import (
	"unicode/utf8"

	"github.com/valyala/fastjson"
)

// Field is a single key/value pair of a log record.
type Field struct {
	Key   string
	Value *fastjson.Value
}

// LogRecord represents one NDJSON log line as an ordered list of fields.
// Values are kept as parsed fastjson values so untouched fields are
// written back exactly as they were read.
//
// Key lookups scan the list, which assumes records with a few dozen fields
// at most; building a record is quadratic in its field count.
type LogRecord struct {
	Fields []Field
}

// Reset clears the record for reuse.
func (r *LogRecord) Reset() {
	for i := range r.Fields {
		r.Fields[i] = Field{}
	}
	r.Fields = r.Fields[:0]
}

// Len returns the number of fields.
func (r *LogRecord) Len() int {
	return len(r.Fields)
}

// Index returns the position of key, or -1.
func (r *LogRecord) Index(key string) int {
	for i, f := range r.Fields {
		if f.Key == key {
			return i
		}
	}
	return -1
}

// Get returns the value stored under key, or nil.
func (r *LogRecord) Get(key string) *fastjson.Value {
	if i := r.Index(key); i >= 0 {
		return r.Fields[i].Value
	}
	return nil
}

// Append adds a field at the end without checking for duplicates.
func (r *LogRecord) Append(key string, v *fastjson.Value) {
	r.Fields = append(r.Fields, Field{Key: key, Value: v})
}

// Set replaces the value of an existing key in place, keeping its position,
// or appends a new field.
func (r *LogRecord) Set(key string, v *fastjson.Value) {
	if i := r.Index(key); i >= 0 {
		r.Fields[i].Value = v
		return
	}
	r.Append(key, v)
}

// MarshalTo appends the record as a single-line JSON object to dst.
func (r *LogRecord) MarshalTo(dst []byte) []byte {
	dst = append(dst, '{')
	for i, f := range r.Fields {
		if i > 0 {
			dst = append(dst, ',')
		}
		dst = AppendQuoted(dst, f.Key)
		dst = append(dst, ':')
		dst = f.Value.MarshalTo(dst)
	}
	return append(dst, '}')
}

const hexDigits = "0123456789abcdef"

// AppendQuoted appends s as a JSON string literal using the escaping rules
// of JSON.stringify: only quote, backslash and control characters are
// escaped, everything else is written as UTF-8.
func AppendQuoted(dst []byte, s string) []byte {
	dst = append(dst, '"')
	start := 0
	for i := 0; i < len(s); {
		c := s[i]
		if c >= utf8.RuneSelf {
			i++
			continue
		}
		if c >= 0x20 && c != '"' && c != '\\' {
			i++
			continue
		}
		dst = append(dst, s[start:i]...)
		switch c {
		case '"', '\\':
			dst = append(dst, '\\', c)
		case '\b':
			dst = append(dst, '\\', 'b')
		case '\f':
			dst = append(dst, '\\', 'f')
		case '\n':
			dst = append(dst, '\\', 'n')
		case '\r':
			dst = append(dst, '\\', 'r')
		case '\t':
			dst = append(dst, '\\', 't')
		default:
			dst = append(dst, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xf])
		}
		i++
		start = i
	}
	dst = append(dst, s[start:]...)
	return append(dst, '"')
}
