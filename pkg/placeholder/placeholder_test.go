package placeholder

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRenderReplacesKnownTokens(t *testing.T) {
	got := Render("run <model> under <scenario> (<model>)", Values{
		"model":    "X",
		"scenario": "y45",
	})
	if want := "run X under y45 (X)"; got != want {
		t.Fatalf("Render() = %q, want %q", got, want)
	}
}

func TestRenderLeavesUnknownTokensAndShellSyntax(t *testing.T) {
	text := "cat < in.txt > <logdir>/out 2>&1 <unknown> <> <a b>"
	got := Render(text, Values{"logdir": "/logs"})
	want := "cat < in.txt > /logs/out 2>&1 <unknown> <> <a b>"
	if got != want {
		t.Fatalf("Render() = %q, want %q", got, want)
	}
}

func TestRenderIsSimultaneous(t *testing.T) {
	// A value containing another token must not be expanded again, and a
	// token whose name extends another's is matched whole.
	got := Render("<cass><cassconfigdir>", Values{
		"cass":          "<cassconfigdir>",
		"cassconfigdir": "/cfg",
	})
	if want := "<cassconfigdir>/cfg"; got != want {
		t.Fatalf("Render() = %q, want %q", got, want)
	}
}

func TestValuesReplacer(t *testing.T) {
	values := Values{"model": "GFDL-ESM2M", "scenario": "rcp45", "task": "<model>"}
	r := values.Replacer()

	got := r.Replace("<model>_<scenario>_<task> <Model> <scenario")
	if want := "GFDL-ESM2M_rcp45_<model> <Model> <scenario"; got != want {
		t.Fatalf("Replace() = %q, want %q", got, want)
	}
	if again := r.Replace("<task>"); again != "<model>" {
		t.Fatalf("replacer reused across calls gave %q", again)
	}
}

func TestRenderEmptyValues(t *testing.T) {
	if got := Render("<model>", nil); got != "<model>" {
		t.Fatalf("expected text unchanged, got %q", got)
	}
	if got := Render("<model>_<task>", Values{"model": "", "task": "0"}); got != "_0" {
		t.Fatalf("expected empty substitution, got %q", got)
	}
}

func TestScanAndRemaining(t *testing.T) {
	text := "<model> <scenario> <model> <other> a<b"
	if diff := cmp.Diff([]string{"model", "scenario", "other"}, Scan(text)); diff != "" {
		t.Fatalf("Scan mismatch (-want +got):\n%s", diff)
	}
	remaining := Remaining(Render(text, Values{"model": "M"}), []string{"model", "scenario"})
	if diff := cmp.Diff([]string{"scenario"}, remaining); diff != "" {
		t.Fatalf("Remaining mismatch (-want +got):\n%s", diff)
	}
	if got := Remaining(text, nil); got != nil {
		t.Fatalf("expected nil for empty known set, got %v", got)
	}
}

func TestValuesValidate(t *testing.T) {
	if err := (Values{"model": "x", "mp.weight": "1"}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := (Values{"bad name": "x"}).Validate(); err == nil {
		t.Fatalf("expected error for name containing a space")
	}
	if err := (Values{"": "x"}).Validate(); err == nil {
		t.Fatalf("expected error for empty name")
	}
}

func TestToken(t *testing.T) {
	if Token("model") != "<model>" {
		t.Fatalf("unexpected token form %q", Token("model"))
	}
	names := (Values{"b": "", "a": ""}).Names()
	if diff := cmp.Diff([]string{"a", "b"}, names); diff != "" {
		t.Fatalf("Names mismatch (-want +got):\n%s", diff)
	}
}
