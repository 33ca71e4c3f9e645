package browser

import "testing"

func TestParseInt(t *testing.T) {
	cases := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"443", 443, true},
		{"  42", 42, true},
		{"-3", -3, true},
		{"+7", 7, true},
		{"12abc", 12, true},
		{"3.9", 3, true},
		{"0x10", 0, true},
		{"", 0, false},
		{"abc", 0, false},
		{"-", 0, false},
		{" ", 0, false},
		{"99999999999999999999999", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseInt(tc.in)
		if ok != tc.wantOK || got != tc.want {
			t.Fatalf("ParseInt(%q) = %d, %v; want %d, %v", tc.in, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestParseStrictBool(t *testing.T) {
	for in, want := range map[string][2]bool{
		"true":  {true, true},
		"false": {false, true},
		"TRUE":  {false, false},
		"1":     {false, false},
		"":      {false, false},
		"maybe": {false, false},
	} {
		got, ok := parseStrictBool(in)
		if got != want[0] || ok != want[1] {
			t.Fatalf("parseStrictBool(%q) = %v, %v; want %v, %v", in, got, ok, want[0], want[1])
		}
	}
}
