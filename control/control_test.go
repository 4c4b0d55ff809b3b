package control_test

import (
	"testing"

	"github.com/momentics/hioload-collator/control"
)

func TestMetricsRegistry(t *testing.T) {
	mr := control.NewMetricsRegistry()
	if !mr.UpdatedAt().IsZero() {
		t.Fatal("fresh registry has update time")
	}
	mr.Set("collator.push.events", uint64(3))
	mr.SetMany(map[string]any{"collator.push.connections": 1, "collator.pull.connections": 2})

	if v, ok := mr.Get("collator.push.events"); !ok || v != uint64(3) {
		t.Fatalf("Get=%v,%v", v, ok)
	}
	keys := mr.Keys()
	if len(keys) != 3 || keys[0] != "collator.pull.connections" {
		t.Fatalf("Keys=%v", keys)
	}
	snap := mr.GetSnapshot()
	snap["collator.push.events"] = 0
	if v, _ := mr.Get("collator.push.events"); v != uint64(3) {
		t.Fatal("snapshot aliases registry")
	}
	if mr.UpdatedAt().IsZero() {
		t.Fatal("update time not set")
	}
}

func TestDebugProbes(t *testing.T) {
	dp := control.NewDebugProbes()
	control.RegisterPlatformProbes(dp)
	calls := 0
	dp.RegisterProbe("collator.push.snapshot", func() any {
		calls++
		return calls
	})

	state := dp.DumpState()
	if state["collator.push.snapshot"] != 1 {
		t.Fatalf("probe output=%v", state["collator.push.snapshot"])
	}
	if _, ok := state["platform.cpus"]; !ok {
		t.Fatal("platform probe missing")
	}
	if _, ok := state["platform.readiness"]; !ok {
		t.Fatal("readiness probe missing")
	}

	dp.UnregisterProbe("collator.push.snapshot")
	if _, ok := dp.DumpState()["collator.push.snapshot"]; ok {
		t.Fatal("probe still registered")
	}
}
