package errors_test

import (
	stderrs "errors"
	"fmt"
	"net/http"
	"testing"

	perr "genslang/internal/platform/errors"
)

func TestHTTPStatusCode_Table(t *testing.T) {
	tests := []struct {
		code perr.Code
		want int
	}{
		{perr.CodeValidation, http.StatusBadRequest},
		{perr.CodeInvalidInput, http.StatusBadRequest},
		{perr.CodeInputTooLong, http.StatusBadRequest},
		{perr.CodeTooManyWords, http.StatusBadRequest},
		{perr.CodeRateLimited, http.StatusTooManyRequests},
		{perr.CodeServiceDisabled, http.StatusServiceUnavailable},
		{perr.CodeMethodNotAllowed, http.StatusMethodNotAllowed},
		{perr.CodeParse, http.StatusBadGateway},
		{perr.CodeIncompleteResponse, http.StatusBadGateway},
		{perr.CodeUpstream, http.StatusBadGateway},
		{perr.CodeMissingAPIKey, http.StatusInternalServerError},
		{perr.CodeUnknown, http.StatusInternalServerError},
		{perr.Code("NO_SUCH_CODE"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := perr.HTTPStatusCode(tt.code); got != tt.want {
			t.Fatalf("HTTPStatusCode(%s) got %d want %d", tt.code, got, tt.want)
		}
	}
}

func TestWrap_And_Unwrap(t *testing.T) {
	cause := stderrs.New("connection refused")
	err := perr.Wrap(cause, perr.CodeUpstream, "upstream call failed")

	if got := perr.CodeOf(err); got != perr.CodeUpstream {
		t.Fatalf("CodeOf got %s want %s", got, perr.CodeUpstream)
	}
	if !stderrs.Is(err, cause) {
		t.Fatal("wrapped cause should be reachable via errors.Is")
	}
	if got := perr.Root(err); got != cause {
		t.Fatalf("Root got %v want %v", got, cause)
	}
	want := "upstream call failed: connection refused"
	if err.Error() != want {
		t.Fatalf("Error() got %q want %q", err.Error(), want)
	}
}

func TestWireFrom_ProjectError(t *testing.T) {
	err := perr.RateLimitedf(42, "rate limit exceeded, please wait")
	w := perr.WireFrom(err)

	if w.Code != perr.CodeRateLimited {
		t.Fatalf("wire code got %s want %s", w.Code, perr.CodeRateLimited)
	}
	if w.Message != "rate limit exceeded, please wait" {
		t.Fatalf("wire message got %q", w.Message)
	}
	if w.RetryAfter != 42 {
		t.Fatalf("wire retryAfter got %d want 42", w.RetryAfter)
	}
}

func TestWireFrom_ForeignErrorDoesNotLeak(t *testing.T) {
	err := fmt.Errorf("pq: password authentication failed for user %q", "svc")
	w := perr.WireFrom(err)

	if w.Code != perr.CodeUnknown {
		t.Fatalf("wire code got %s want %s", w.Code, perr.CodeUnknown)
	}
	if w.Message == err.Error() {
		t.Fatal("foreign error text must not be forwarded to clients")
	}
}

func TestWithRetryAfter(t *testing.T) {
	err := perr.Upstreamf("provider overloaded")
	err = perr.WithRetryAfter(err, 30)

	if got := perr.RetryAfterOf(err); got != 30 {
		t.Fatalf("RetryAfterOf got %d want 30", got)
	}

	// foreign errors pass through unchanged
	foreign := stderrs.New("nope")
	if got := perr.WithRetryAfter(foreign, 30); got != foreign {
		t.Fatal("WithRetryAfter should not touch foreign errors")
	}
}

func TestRetryable(t *testing.T) {
	if perr.Retryable(perr.InvalidInputf("blank")) {
		t.Fatal("input errors are not retryable without changing input")
	}
	if perr.Retryable(perr.ServiceDisabledf("disabled")) {
		t.Fatal("kill switch is not retryable by the user")
	}
	if !perr.Retryable(perr.Upstreamf("boom")) {
		t.Fatal("upstream failures are retryable")
	}
	if !perr.Retryable(perr.RateLimitedf(1, "wait")) {
		t.Fatal("throttling is retryable after the window")
	}
}

func TestIsCode_And_WrapIf(t *testing.T) {
	if perr.WrapIf(nil, perr.CodeUpstream, "x") != nil {
		t.Fatal("WrapIf(nil) should be nil")
	}
	err := perr.WrapIf(stderrs.New("y"), perr.CodeParse, "bad json")
	if !perr.IsCode(err, perr.CodeParse) {
		t.Fatalf("IsCode got false for %v", err)
	}
}
