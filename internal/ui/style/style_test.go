package style

import (
	"strings"
	"testing"
)

func TestFlowAccent(t *testing.T) {
	p := DefaultPalette()
	cases := map[string]string{
		FlowToken:  string(p.Token),
		FlowMarket: string(p.Market),
		FlowPool:   string(p.Pool),
		"unknown":  string(p.Primary),
	}
	for flow, want := range cases {
		if got := string(p.FlowAccent(flow)); got != want {
			t.Errorf("FlowAccent(%q) = %s, want %s", flow, got, want)
		}
	}
	if p.Token == p.Market || p.Market == p.Pool {
		t.Error("flows should have distinct accents")
	}
}

func TestStatusIcon(t *testing.T) {
	if !strings.Contains(StatusIcon(StatusConfirmed), "✔") {
		t.Error("confirmed icon missing")
	}
	if !strings.Contains(StatusIcon(StatusFailed), "✖") {
		t.Error("failed icon missing")
	}
	if !strings.Contains(StatusIcon(StatusStarted), "…") {
		t.Error("started icon missing")
	}
}

func TestColumnsStacksOnNarrowScreens(t *testing.T) {
	narrow := Columns(80, "a", "b")
	if narrow != "a\nb" {
		t.Errorf("narrow layout = %q", narrow)
	}
	wide := Columns(120, "a", "b")
	if wide != "ab" {
		t.Errorf("wide layout = %q", wide)
	}
}

func TestFormWidth(t *testing.T) {
	if got := FormWidth(80); got != 76 {
		t.Errorf("FormWidth(80) = %d", got)
	}
	if got := FormWidth(200); got != 120 {
		t.Errorf("FormWidth(200) = %d", got)
	}
}
