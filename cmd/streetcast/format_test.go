package main

import "testing"

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1500, "2K"},
		{48_000, "48K"},
		{2_345_000, "2.35M"},
		{-2_000_000, "-2.00M"},
		{7_125_000_000, "7.13B"},
	}
	for _, tt := range tests {
		if got := formatMoney(tt.in); got != tt.want {
			t.Errorf("formatMoney(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResolveScenarioFallsBack(t *testing.T) {
	sc, err := resolveScenario("no-such-scenario", "")
	if err != nil {
		t.Fatalf("resolveScenario: %v", err)
	}
	if sc.Name != "Scenario 1" {
		t.Errorf("fallback scenario = %q, want Scenario 1", sc.Name)
	}

	sc, err = resolveScenario("baseline", "")
	if err != nil || sc.Name != "Baseline" {
		t.Errorf("baseline = %v, %v", sc, err)
	}

	if _, err := resolveScenario("baseline", "/does/not/exist.yaml"); err == nil {
		t.Error("expected error for missing scenario file")
	}
}

func TestDBPathOrEnv(t *testing.T) {
	t.Setenv(dbEnv, "/tmp/env.db")
	if got := dbPathOrEnv(""); got != "/tmp/env.db" {
		t.Errorf("env fallback = %q", got)
	}
	if got := dbPathOrEnv("flag.db"); got != "flag.db" {
		t.Errorf("flag = %q", got)
	}
}
