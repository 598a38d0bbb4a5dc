package callbacks

import (
	"testing"
)

func TestTokenFromData(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"select_3", "select_3"},
		{"next", "next"},
		{"\fnext", "next"},
		{" prev \n", "prev"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := tokenFromData(tc.in); got != tc.want {
			t.Fatalf("tokenFromData(%q) = %q, expected %q", tc.in, got, tc.want)
		}
	}
}
