package smoke

import (
	"strings"
	"testing"
)

func TestShapeOfListsTypedPaths(t *testing.T) {
	t.Parallel()

	shape, err := ShapeOf(`{"id":"x","choices":[{"index":0,"message":{"content":"hi"}}],"usage":{},"tags":[],"done":true,"extra":null}`)
	if err != nil {
		t.Fatalf("ShapeOf returned error: %v", err)
	}

	expected := []string{
		"$.choices[].index:number",
		"$.choices[].message.content:string",
		"$.done:bool",
		"$.extra:null",
		"$.id:string",
		"$.tags:array",
		"$.usage:object",
	}

	if strings.Join(shape.Paths, ",") != strings.Join(expected, ",") {
		t.Fatalf("expected paths %v, got %v", expected, shape.Paths)
	}

	if len(shape.Fingerprint) != 64 {
		t.Fatalf("expected hex sha256 fingerprint, got %q", shape.Fingerprint)
	}
}

func TestShapeIgnoresValuesAndKeyOrder(t *testing.T) {
	t.Parallel()

	first, err := ShapeOf(`{"id":"a","choices":[{"message":{"content":"This is a test!"}}],"created":1}`)
	if err != nil {
		t.Fatalf("ShapeOf returned error: %v", err)
	}

	second, err := ShapeOf(`{"created":2,"choices":[{"message":{"content":"Something else"}},{"message":{"content":"again"}}],"id":"b"}`)
	if err != nil {
		t.Fatalf("ShapeOf returned error: %v", err)
	}

	if !first.Equal(second) {
		t.Fatalf("expected equal shapes, got %v and %v", first.Paths, second.Paths)
	}
}

func TestShapeDetectsStructuralChange(t *testing.T) {
	t.Parallel()

	first, err := ShapeOf(`{"usage":{"total_tokens":3}}`)
	if err != nil {
		t.Fatalf("ShapeOf returned error: %v", err)
	}

	second, err := ShapeOf(`{"usage":{"total_tokens":"3"}}`)
	if err != nil {
		t.Fatalf("ShapeOf returned error: %v", err)
	}

	if first.Equal(second) {
		t.Fatalf("expected a kind change to alter the shape")
	}
}

func TestShapeOfRejectsInvalidJSON(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "   ", `{"choices": [`} {
		if _, err := ShapeOf(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}
