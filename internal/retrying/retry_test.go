package retrying

import (
	"errors"
	"testing"
)

func TestClassifyRetryableError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		statusCode int
		wantRetry  bool
		wantNil    bool
	}{
		{"nil error", nil, 0, false, true},
		{"400 bad request", errors.New("bad request"), 400, false, false},
		{"404 not found", errors.New("not found"), 404, false, false},
		{"429 rate limit", errors.New("rate limited"), 429, true, false},
		{"500 server error", errors.New("server error"), 500, true, false},
		{"502 bad gateway", errors.New("bad gateway"), 502, true, false},
		{"timeout", errors.New("connection timeout"), 0, true, false},
		{"connection refused", errors.New("connection refused"), 0, true, false},
		{"no such host", errors.New("dial tcp: no such host"), 0, true, false},
		{"generic error", errors.New("some other error"), 0, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyRetryableError(tt.err, tt.statusCode)
			if tt.wantNil {
				if got != nil {
					t.Errorf("expected nil, got %v", got)
				}
				return
			}
			if got == nil {
				t.Fatal("expected non-nil RetryableError")
			}
			if got.ShouldRetry != tt.wantRetry {
				t.Errorf("ShouldRetry = %v, want %v", got.ShouldRetry, tt.wantRetry)
			}
		})
	}
}

func TestDoStopsOnNonRetryable(t *testing.T) {
	attempts := 0
	err := Do(5, func() error {
		attempts++
		return errors.New("bad request")
	}, func(error) int { return 400 })

	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 (non-retryable should stop immediately)", attempts)
	}
	if err == nil {
		t.Error("expected an error")
	}
}

func TestDoSucceedsEventually(t *testing.T) {
	attempts := 0
	err := Do(5, func() error {
		attempts++
		if attempts < 3 {
			return errors.New("server error")
		}
		return nil
	}, func(error) int { return 500 })

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}
