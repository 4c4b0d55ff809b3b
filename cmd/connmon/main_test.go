package main

import (
	"bytes"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("connmon %v: %v\n%s", args, err, out.String())
	}
	return out.String()
}

func TestVersion(t *testing.T) {
	if out := run(t, "version"); !strings.HasPrefix(out, "connmon dev") {
		t.Fatalf("version output %q", out)
	}
}

func TestDemo(t *testing.T) {
	t.Setenv("CONNMON_LOG_LEVEL", "error")
	out := run(t, "demo", "--clients", "3", "--messages", "5", "--timeout", "20s")
	for _, want := range []string{"echoed 15 messages", "server: ", "client: ", "disconnected"} {
		if !strings.Contains(out, want) {
			t.Errorf("demo output missing %q:\n%s", want, out)
		}
	}
}
