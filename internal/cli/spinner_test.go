package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestSpinnerDrawsAndClears(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(context.Background(), &buf, "Fetching summercamp...").Start()
	time.Sleep(3 * spinnerInterval)
	s.Update("Rendering 12 records...")
	time.Sleep(3 * spinnerInterval)
	s.Stop()

	out := buf.String()
	for _, want := range []string{"Fetching summercamp...", "Rendering 12 records..."} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if s.Cancelled() {
		t.Error("Stop must not count as cancellation")
	}
}

func TestSpinnerCancelledByParent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinner(ctx, &bytes.Buffer{}, "Testing...").Start()

	cancel()
	s.Stop()

	if !s.Cancelled() {
		t.Error("spinner should report cancellation of its parent")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner(context.Background(), &bytes.Buffer{}, "Testing...").Start()
	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopWithoutStart(t *testing.T) {
	s := newSpinner(context.Background(), &bytes.Buffer{}, "never drawn")
	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked on a spinner that was never started")
	}
}

func TestSpinnerStopWithSuccess(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(context.Background(), &buf, "Testing...").Start()
	s.StopWithSuccess("Wrote %d pages", 5)

	if !strings.Contains(buf.String(), "Wrote 5 pages") {
		t.Errorf("output %q missing success line", buf.String())
	}
}
