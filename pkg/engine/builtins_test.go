package engine

import (
	"testing"

	zygo "github.com/glycerine/zygomys/zygo"
)

func TestPreprocessSource(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "KeywordConversion",
			in:   `(resolve "duct-1" :size "12x8")`,
			want: `(resolve "duct-1" "__kw_size" "12x8")`,
		},
		{
			name: "KebabCaseIdentifier",
			in:   `(tag-horizontal :category "Ducts")`,
			want: `(tag_horizontal "__kw_category" "Ducts")`,
		},
		{
			name: "KeywordWithHyphen",
			in:   `(shadow :run-length 4)`,
			want: `(shadow "__kw_run-length" 4)`,
		},
		{
			name: "StringsUntouched",
			in:   `(emit "tag-horizontal :size done")`,
			want: `(emit "tag-horizontal :size done")`,
		},
		{
			name: "EscapedQuoteInString",
			in:   `(emit "say \"hi-there\"")`,
			want: `(emit "say \"hi-there\"")`,
		},
		{
			name: "SemicolonComment",
			in:   "(emit \"x\") ; trailing note\n(emit \"y\")",
			want: "(emit \"x\") // trailing note\n(emit \"y\")",
		},
		{
			name: "DoubleSemicolon",
			in:   ";; header comment\n(emit \"x\")",
			want: "// header comment\n(emit \"x\")",
		},
		{
			name: "AssignmentPreserved",
			in:   `(def n := 4)`,
			want: `(def n := 4)`,
		},
		{
			name: "SubtractionPreserved",
			in:   `(- 5 3)`,
			want: `(- 5 3)`,
		},
		{
			name: "BacktickString",
			in:   "(emit `raw :kw a-b`)",
			want: "(emit `raw :kw a-b`)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := preprocessSource(tt.in); got != tt.want {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseArgs(t *testing.T) {
	args := []zygo.Sexp{
		&zygo.SexpStr{S: "duct-1"},
		&zygo.SexpStr{S: kwPrefix + "size"},
		&zygo.SexpStr{S: "12x8"},
		&zygo.SexpInt{Val: 7},
		&zygo.SexpStr{S: kwPrefix + "flag"},
	}

	pa := parseArgs(args)

	if len(pa.positional) != 2 {
		t.Fatalf("positional = %d, want 2", len(pa.positional))
	}
	if s, _ := toString(pa.positional[0]); s != "duct-1" {
		t.Errorf("positional[0] = %q", s)
	}
	if f, _ := toFloat64(pa.positional[1]); f != 7 {
		t.Errorf("positional[1] = %v", f)
	}

	if v, ok := pa.kw["size"]; !ok {
		t.Error("size keyword missing")
	} else if s, _ := toString(v); s != "12x8" {
		t.Errorf("size = %q", s)
	}
	// A trailing keyword without a value parses as a nil-valued flag.
	if v, ok := pa.kw["flag"]; !ok || v != zygo.SexpNull {
		t.Errorf("flag = %v, ok=%v", v, ok)
	}
}

func TestToFloat64(t *testing.T) {
	if f, err := toFloat64(&zygo.SexpFloat{Val: 2.5}); err != nil || f != 2.5 {
		t.Errorf("toFloat64(float) = %v, %v", f, err)
	}
	if f, err := toFloat64(&zygo.SexpInt{Val: 3}); err != nil || f != 3 {
		t.Errorf("toFloat64(int) = %v, %v", f, err)
	}
	if _, err := toFloat64(&zygo.SexpStr{S: "nope"}); err == nil {
		t.Error("toFloat64(string) must fail")
	}
}

func TestParseZygoError(t *testing.T) {
	tests := []struct {
		name     string
		msg      string
		wantLine int
	}{
		{"WithLine", "Error on line 3: undefined symbol", 3},
		{"ShortForm", "line 12: unexpected token", 12},
		{"NoLine", "something broke", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := parseZygoError(errTest(tt.msg))
			if len(errs) != 1 {
				t.Fatalf("parseZygoError = %d errors, want 1", len(errs))
			}
			if errs[0].Line != tt.wantLine {
				t.Errorf("Line = %d, want %d", errs[0].Line, tt.wantLine)
			}
			if errs[0].Message == "" {
				t.Error("empty message")
			}
		})
	}
}

type errTest string

func (e errTest) Error() string { return string(e) }
