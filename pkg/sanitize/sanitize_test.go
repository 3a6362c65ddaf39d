package sanitize

import "testing"

func TestText(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "Coastal", want: "Coastal"},
		{name: "trims", in: "  Coastal  ", want: "Coastal"},
		{name: "accents survive", in: "Características", want: "Características"},
		{name: "strips tags", in: `<b>Coastal</b>`, want: "Coastal"},
		{name: "drops scripts", in: `Geo<script>alert(1)</script>`, want: "Geo"},
		{name: "keeps ampersand", in: "Rivers & lakes", want: "Rivers & lakes"},
		{name: "empty", in: "   ", want: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Text(tc.in); got != tc.want {
				t.Fatalf("Text(%q): want %q, got %q", tc.in, tc.want, got)
			}
		})
	}
}

func TestControl(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "angle brackets survive", in: "use <lat> and <lon> fields", want: "use <lat> and <lon> fields"},
		{name: "markup survives", in: "<b>Coastal</b>", want: "<b>Coastal</b>"},
		{name: "newlines flatten", in: "line one\nline\ttwo", want: "line one line two"},
		{name: "drops control runes", in: "bell\x07 and nul\x00", want: "bell and nul"},
		{name: "trims", in: "  Coastal \r\n", want: "Coastal"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Control(tc.in); got != tc.want {
				t.Fatalf("Control(%q): want %q, got %q", tc.in, tc.want, got)
			}
		})
	}
}
