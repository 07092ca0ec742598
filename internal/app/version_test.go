package app

import (
	"bytes"
	"strings"
	"testing"
)

func TestHasVersionFlag(t *testing.T) {
	t.Parallel()
	tests := []struct {
		args []string
		want bool
	}{
		{nil, false},
		{[]string{"--version"}, true},
		{[]string{"-version"}, true},
		{[]string{"--iters", "10", "--version=true"}, true},
		{[]string{"--", "--version"}, false},
		{[]string{"--verbose"}, false},
	}
	for _, tt := range tests {
		if got := HasVersionFlag(tt.args); got != tt.want {
			t.Errorf("HasVersionFlag(%v) = %v, want %v", tt.args, got, tt.want)
		}
	}
}

func TestPrintVersion(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	PrintVersion(&buf)
	out := buf.String()
	for _, want := range []string{"integbench " + Version, "commit:", "go version:"} {
		if !strings.Contains(out, want) {
			t.Errorf("PrintVersion output missing %q:\n%s", want, out)
		}
	}
}
