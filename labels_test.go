package openmetricz_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/zoobzio/openmetricz"
	metricstesting "github.com/zoobzio/openmetricz/testing"
)

func TestMakeKey_PermutationInvariant(t *testing.T) {
	a := openmetricz.MakeKey(HTTPRequestsKey, labels("method", "GET", "endpoint", "/", "code", "200"), openmetricz.KindCounter)
	b := openmetricz.MakeKey(HTTPRequestsKey, labels("code", "200", "endpoint", "/", "method", "GET"), openmetricz.KindCounter)
	if a != b {
		t.Errorf("Keys differ for permuted labels: %s vs %s", a, b)
	}
	if a != `http_requests{code="200",endpoint="/",method="GET"}` {
		t.Errorf("Unexpected key %s", a)
	}
}

func TestMakeKey_InfoMarker(t *testing.T) {
	info := openmetricz.MakeKey(BuildKey, nil, openmetricz.KindInfo)
	plain := openmetricz.MakeKey(BuildKey, nil, openmetricz.KindGauge)
	if info == plain {
		t.Error("Info keys should differ from other kinds")
	}
	if info >= plain {
		t.Errorf("Info key %q should sort before %q", info, plain)
	}
}

func TestMakeNameWithSuffixAndLabels(t *testing.T) {
	got := openmetricz.MakeNameWithSuffixAndLabels(HTTPRequestsKey, "total", labels("b", "2", "a", "1"), false)
	// Order is preserved as given
	if got != `http_requests_total{b="2",a="1"}` {
		t.Errorf("Unexpected name %s", got)
	}
	if got := openmetricz.MakeNameWithSuffixAndLabels(HTTPRequestsKey, "", nil, false); got != "http_requests" {
		t.Errorf("Unexpected bare name %s", got)
	}
}

func TestLabels_Escaping(t *testing.T) {
	got := openmetricz.MakeNameWithSuffixAndLabels(TestGaugeKey, "", labels("path", `C:\tmp "x"`+"\nend"), false)
	want := `test_gauge{path="C:\\tmp \"x\"\nend"}`
	if got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}

func TestLabels_HelpEscaping(t *testing.T) {
	registry := metricstesting.NewTestRegistry(t)
	if _, err := registry.AddGauge(TestGaugeKey, "first line\nsecond \\ line", "", nil); err != nil {
		t.Fatalf("AddGauge failed: %v", err)
	}

	out := metricstesting.Snapshot(t, registry)
	if !strings.Contains(out, `# HELP test_gauge first line\nsecond \\ line`+"\n") {
		t.Errorf("HELP text should be escaped, got:\n%s", out)
	}
}

func TestLabels_EqualAndGet(t *testing.T) {
	a := labels("x", "1", "y", "2")
	b := labels("y", "2", "x", "1")
	if !a.Equal(b) {
		t.Error("Label sets with the same pairs should be equal")
	}
	if a.Equal(labels("x", "1")) {
		t.Error("Label sets of different size should differ")
	}

	if v, ok := a.Get("y"); !ok || v != "2" {
		t.Errorf("Get(y) = %q, %v", v, ok)
	}
	if _, ok := a.Get("z"); ok {
		t.Error("Get should miss absent keys")
	}
}

func TestLabels_NormalizeCopies(t *testing.T) {
	original := labels("b", "2", "a", "1")
	normalized := original.Normalize()

	if normalized[0].Key != "a" {
		t.Errorf("Normalize should sort by key, got %v", normalized)
	}
	if original[0].Key != "b" {
		t.Error("Normalize should not reorder the receiver")
	}
}

func TestLabels_ValidationAggregatesErrors(t *testing.T) {
	registry := metricstesting.NewTestRegistry(t)

	_, err := registry.AddHistogram(TestHistKey, "help", "", labels("bad-key", "1", "le", "2", "le", "3"), nil)
	if !errors.Is(err, openmetricz.ErrInvalidArgument) {
		t.Fatalf("Expected ErrInvalidArgument, got %v", err)
	}

	msg := err.Error()
	for _, part := range []string{"bad-key", "duplicate", "reserved"} {
		if !strings.Contains(msg, part) {
			t.Errorf("Error should mention %q: %s", part, msg)
		}
	}
}
