package feed

import "testing"

func TestParseValue(t *testing.T) {
	str := func(s string) *string { return &s }

	tests := []struct {
		name string
		in   *string
		want *float64
	}{
		{"absent", nil, nil},
		{"empty", str(""), nil},
		{"null token", str("null"), nil},
		{"None token", str("None"), nil},
		{"garbage", str("abc"), nil},
		{"plain", str("21.5"), f(21.5)},
		{"zero", f2s("0"), f(0)},
		{"negative", str("-3.2"), f(-3.2)},
		{"integer", str("42"), f(42)},
		{"padded", str(" 18.0 "), f(18.0)},
	}

	for _, tt := range tests {
		got := ParseValue(tt.in)
		switch {
		case tt.want == nil && got != nil:
			t.Errorf("%s: ParseValue = %v, want no value", tt.name, *got)
		case tt.want != nil && got == nil:
			t.Errorf("%s: ParseValue = no value, want %v", tt.name, *tt.want)
		case tt.want != nil && got != nil && *got != *tt.want:
			t.Errorf("%s: ParseValue = %v, want %v", tt.name, *got, *tt.want)
		}
	}
}

// Zero parses to a real 0.0 value; treating it as invalid is the merge
// layer's call, not the parser's.
func TestParseValueZeroIsAValue(t *testing.T) {
	got := ParseValue(f2s("0"))
	if got == nil {
		t.Fatal("ParseValue(\"0\") should yield a value")
	}
	if *got != 0 {
		t.Errorf("got %v, want 0", *got)
	}
}

func f(v float64) *float64 { return &v }

func f2s(s string) *string { return &s }
