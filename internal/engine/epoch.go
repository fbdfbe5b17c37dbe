package engine

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/valyala/fastjson"
)

// maxEpochMillis bounds the time values a date may hold (±100,000,000 days).
const maxEpochMillis = 8.64e15

// InvalidDate is the text a date without a time value renders as.
const InvalidDate = "Invalid Date"

// EpochSeconds reads a whole number of seconds from v with the semantics of
// JavaScript's parseInt(String(v)). The value is rendered as text first
// (numbers in their shortest form, arrays joined with commas), then the
// leading integer is taken: leading white space, an optional sign, an
// optional 0x prefix and as many digits as follow. Anything without a
// leading integer, as well as a nil value, yields NaN.
func EpochSeconds(v *fastjson.Value) float64 {
	if v == nil {
		return math.NaN()
	}
	return parseLeadingInt(valueText(v))
}

// ConvertSeconds returns the ISO-8601 form of the instant sec seconds after
// the epoch.
func ConvertSeconds(sec float64) (string, error) {
	ms, err := EpochMillis(sec)
	if err != nil {
		return "", err
	}
	return FormatISO(ms), nil
}

// EpochMillis converts sec to milliseconds since the epoch, rejecting NaN
// and instants more than 8.64e15 ms away from it.
func EpochMillis(sec float64) (int64, error) {
	if math.IsNaN(sec) {
		return 0, errors.New("value is not a number")
	}
	ms := sec * 1000
	if math.Abs(ms) > maxEpochMillis {
		return 0, fmt.Errorf("%s seconds is out of the supported date range", jsNumberText(sec))
	}
	return int64(ms), nil
}

// FormatISO renders ms milliseconds since the epoch as
// YYYY-MM-DDTHH:mm:ss.sssZ. Years outside 0..9999 use the six digit signed
// form (+YYYYYY / -YYYYYY).
func FormatISO(ms int64) string {
	t := time.UnixMilli(ms).UTC()

	b := make([]byte, 0, 27)
	switch year := t.Year(); {
	case year < 0:
		b = append(b, '-')
		b = appendPadded(b, -year, 6)
	case year > 9999:
		b = append(b, '+')
		b = appendPadded(b, year, 6)
	default:
		b = appendPadded(b, year, 4)
	}
	b = append(b, '-')
	b = appendPadded(b, int(t.Month()), 2)
	b = append(b, '-')
	b = appendPadded(b, t.Day(), 2)
	b = append(b, 'T')
	b = appendPadded(b, t.Hour(), 2)
	b = append(b, ':')
	b = appendPadded(b, t.Minute(), 2)
	b = append(b, ':')
	b = appendPadded(b, t.Second(), 2)
	b = append(b, '.')
	b = appendPadded(b, t.Nanosecond()/int(time.Millisecond), 3)
	b = append(b, 'Z')
	return string(b)
}

func appendPadded(b []byte, v, width int) []byte {
	s := strconv.Itoa(v)
	for i := len(s); i < width; i++ {
		b = append(b, '0')
	}
	return append(b, s...)
}

// valueText renders v the way String(v) does for a parsed JSON value.
func valueText(v *fastjson.Value) string {
	switch v.Type() {
	case fastjson.TypeString:
		b, _ := v.StringBytes()
		return string(b)
	case fastjson.TypeNumber:
		f, err := strconv.ParseFloat(string(v.MarshalTo(nil)), 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return "NaN"
		}
		return jsNumberText(f)
	case fastjson.TypeArray:
		items, _ := v.Array()
		parts := make([]string, len(items))
		for i, item := range items {
			if item.Type() == fastjson.TypeNull {
				continue
			}
			parts[i] = valueText(item)
		}
		return strings.Join(parts, ",")
	case fastjson.TypeObject:
		return "[object Object]"
	case fastjson.TypeTrue:
		return "true"
	case fastjson.TypeFalse:
		return "false"
	default:
		return "null"
	}
}

// jsNumberText formats f like Number.prototype.toString: plain decimal
// between 1e-6 and 1e21, exponent form outside it.
func jsNumberText(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	if abs := math.Abs(f); abs >= 1e21 || abs < 1e-6 {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func parseLeadingInt(s string) float64 {
	s = strings.TrimLeftFunc(s, isSpace)

	sign := 1.0
	if s != "" && (s[0] == '-' || s[0] == '+') {
		if s[0] == '-' {
			sign = -1
		}
		s = s[1:]
	}

	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
		n := 0
		var v float64
		for ; n < len(s); n++ {
			d := hexValue(s[n])
			if d < 0 {
				break
			}
			v = v*16 + float64(d)
		}
		if n == 0 {
			return math.NaN()
		}
		return sign * v
	}

	n := 0
	for n < len(s) && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	// Overflow rounds to ±Inf, which ConvertSeconds rejects.
	v, _ := strconv.ParseFloat(s[:n], 64)
	return sign * v
}

func hexValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return -1
}

// isSpace matches the white space and line terminators JavaScript trims:
// Unicode spaces and the byte order mark, but not NEL (U+0085).
func isSpace(r rune) bool {
	return r == '\uFEFF' || (r != '\u0085' && unicode.IsSpace(r))
}
