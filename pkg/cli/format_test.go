package cli_test

import (
	"testing"

	"github.com/chalktalk/chalktalk/pkg/cli"
)

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		ms   int
		want string
	}{
		{500, "500ms"},
		{8000, "8.0s"},
		{7500, "7.5s"},
		{90000, "1m30.0s"},
	}
	for _, c := range cases {
		if got := cli.FormatDuration(c.ms); got != c.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", c.ms, got, c.want)
		}
	}
}

func TestFormatProgress(t *testing.T) {
	cases := []struct {
		p    float64
		want string
	}{
		{0, "0%"},
		{0.42, "42%"},
		{1, "100%"},
	}
	for _, c := range cases {
		if got := cli.FormatProgress(c.p); got != c.want {
			t.Errorf("FormatProgress(%v) = %q, want %q", c.p, got, c.want)
		}
	}
}
