package model

import (
	"testing"

	"github.com/valyala/fastjson"
)

func TestLogRecordSet(t *testing.T) {
	var r LogRecord
	r.Append("a", fastjson.MustParse(`1`))
	r.Append("b", fastjson.MustParse(`"two"`))

	r.Set("a", fastjson.MustParse(`3`))
	r.Set("c", fastjson.MustParse(`null`))

	if got := string(r.MarshalTo(nil)); got != `{"a":3,"b":"two","c":null}` {
		t.Errorf("unexpected record %s", got)
	}
	if r.Len() != 3 || r.Index("c") != 2 || r.Get("missing") != nil {
		t.Errorf("unexpected lookups on %+v", r.Fields)
	}

	r.Reset()
	if got := string(r.MarshalTo(nil)); got != `{}` {
		t.Errorf("expected an empty object after Reset, got %s", got)
	}
}

func TestAppendQuoted(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", `"plain"`},
		{`say "hi"`, `"say \"hi\""`},
		{`back\slash`, `"back\\slash"`},
		{"tab\tnew\nline\r", `"tab\tnew\nline\r"`},
		{"\b\f", `"\b\f"`},
		{"\x00\x1f", `"\u0000\u001f"`},
		{"<html>&", `"<html>&"`},
		{"日本 ", "\"日本 \""},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := string(AppendQuoted(nil, tt.in)); got != tt.want {
				t.Errorf("AppendQuoted(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}
