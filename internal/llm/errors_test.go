package llm

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"

	"github.com/openai/openai-go/v2"
	"github.com/rotisserie/eris"
)

func TestClassifyMapsErrorsToKinds(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		err    error
		kind   Kind
		status int
	}{
		{name: "api error", err: &openai.Error{StatusCode: 503}, kind: KindServer, status: 503},
		{name: "url error", err: &url.Error{Op: "Post", URL: "http://127.0.0.1:1", Err: errors.New("connection refused")}, kind: KindConnection},
		{name: "canceled", err: context.Canceled, kind: KindConnection},
		{name: "deadline", err: fmt.Errorf("waiting: %w", context.DeadlineExceeded), kind: KindConnection},
		{name: "decode", err: errors.New("error parsing response json"), kind: KindServer},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			classified := classify(tc.err)
			if KindOf(classified) != tc.kind {
				t.Fatalf("expected kind %q, got %q", tc.kind, KindOf(classified))
			}
			if StatusCodeOf(classified) != tc.status {
				t.Fatalf("expected status %d, got %d", tc.status, StatusCodeOf(classified))
			}
			if !errors.Is(classified, tc.err) {
				t.Fatalf("expected classified error to wrap the original")
			}
		})
	}
}

func TestClassifyKeepsExistingProbeError(t *testing.T) {
	t.Parallel()

	original := clientError("model is required")
	if classify(original) != original {
		t.Fatalf("expected probe errors to pass through unchanged")
	}

	if classify(nil) != nil {
		t.Fatalf("expected nil to stay nil")
	}
}

func TestProbeErrorMatchesOnlyItsSentinel(t *testing.T) {
	t.Parallel()

	err := eris.Wrap(&ProbeError{Kind: KindConnection, Err: errors.New("refused")}, "running probe")

	if !errors.Is(err, ErrConnection) {
		t.Fatalf("expected connection sentinel to match")
	}
	if errors.Is(err, ErrServer) || errors.Is(err, ErrClient) {
		t.Fatalf("expected other sentinels not to match")
	}
	if KindOf(err) != KindConnection {
		t.Fatalf("expected kind to survive wrapping, got %q", KindOf(err))
	}
}

func TestKindOfUnclassifiedError(t *testing.T) {
	t.Parallel()

	if kind := KindOf(errors.New("boom")); kind != "" {
		t.Fatalf("expected empty kind, got %q", kind)
	}
}
