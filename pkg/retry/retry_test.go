package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDo(t *testing.T) {
	transient := errors.New("connection refused")
	permanent := errors.New("access denied")

	tests := []struct {
		name      string
		failures  int
		err       error
		attempts  int
		wantCalls int
		wantErr   error
	}{
		{"first try", 0, nil, 3, 1, nil},
		{"recovers", 2, Retryable(transient), 3, 3, nil},
		{"exhausted", 5, Retryable(transient), 3, 3, transient},
		{"permanent stops", 5, permanent, 3, 1, permanent},
		{"zero attempts means one", 5, Retryable(transient), 0, 1, transient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			retried := 0
			p := Policy{
				Attempts: tt.attempts,
				Delay:    time.Millisecond,
				OnRetry:  func(int, error) { retried++ },
			}
			err := Do(context.Background(), p, func() error {
				calls++
				if calls <= tt.failures {
					return tt.err
				}
				return nil
			})
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if retried != max(tt.wantCalls-1, 0) {
				t.Errorf("OnRetry called %d times, want %d", retried, tt.wantCalls-1)
			}
			if tt.wantErr == nil && err != nil {
				t.Errorf("err = %v, want nil", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDoCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Do(ctx, Policy{Attempts: 3, Delay: time.Hour}, func() error {
		return Retryable(errors.New("refused"))
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestRetryableNil(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should be nil")
	}
	if IsRetryable(errors.New("x")) {
		t.Error("plain error should not be retryable")
	}
}
