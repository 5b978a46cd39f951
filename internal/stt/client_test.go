package stt

import (
	"context"
	"errors"
	"testing"
	"time"
)

// scriptedProvider returns canned outcomes in order, recording calls.
type scriptedProvider struct {
	outcomes []error
	result   *Result
	calls    int
}

func (p *scriptedProvider) Transcribe(ctx context.Context, filePath string) (*Result, error) {
	p.calls++
	if p.calls <= len(p.outcomes) && p.outcomes[p.calls-1] != nil {
		return nil, p.outcomes[p.calls-1]
	}
	if p.result != nil {
		return p.result, nil
	}
	return &Result{Text: "ok"}, nil
}

func (p *scriptedProvider) Name() string { return "scripted" }
func (p *scriptedProvider) Close() error { return nil }

func newTestClient(p Provider) (*Client, *[]time.Duration) {
	c := NewClient(p)
	var delays []time.Duration
	c.sleep = func(ctx context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}
	return c, &delays
}

func TestTranscribeFirstTry(t *testing.T) {
	p := &scriptedProvider{result: &Result{Text: "hello", Language: "en", Duration: 10}}
	c, delays := newTestClient(p)

	result, attempts, err := c.Transcribe(context.Background(), "a.mp3")
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if attempts != 1 || p.calls != 1 {
		t.Errorf("attempts = %d, calls = %d, want 1/1", attempts, p.calls)
	}
	if result.Text != "hello" {
		t.Errorf("Text = %q", result.Text)
	}
	if len(*delays) != 0 {
		t.Errorf("slept %v with no retries", *delays)
	}
}

func TestTranscribeRetriesThenSucceeds(t *testing.T) {
	transient := &TransientError{Err: errors.New("connection reset")}
	p := &scriptedProvider{
		outcomes: []error{transient, transient},
		result:   &Result{Text: "recovered"},
	}
	c, delays := newTestClient(p)

	result, attempts, err := c.Transcribe(context.Background(), "a.mp3")
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if attempts != 3 || p.calls != 3 {
		t.Errorf("attempts = %d, calls = %d, want 3/3", attempts, p.calls)
	}
	if result.Text != "recovered" {
		t.Errorf("Text = %q", result.Text)
	}

	// Exponential backoff: base, then doubled.
	want := []time.Duration{2 * time.Second, 4 * time.Second}
	if len(*delays) != len(want) {
		t.Fatalf("delays = %v, want %v", *delays, want)
	}
	for i := range want {
		if (*delays)[i] != want[i] {
			t.Errorf("delay[%d] = %v, want %v", i, (*delays)[i], want[i])
		}
	}
}

func TestTranscribeExhaustsRetries(t *testing.T) {
	transient := &TransientError{Err: errors.New("upstream 503")}
	p := &scriptedProvider{outcomes: []error{transient, transient, transient}}
	c, _ := newTestClient(p)

	_, attempts, err := c.Transcribe(context.Background(), "a.mp3")
	if attempts != 3 || p.calls != 3 {
		t.Errorf("attempts = %d, calls = %d, want 3/3", attempts, p.calls)
	}

	var exhausted *ExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("err = %v, want ExhaustedError", err)
	}
	if exhausted.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", exhausted.Attempts)
	}
	if !errors.Is(err, transient.Err) {
		t.Error("terminal error does not carry the last cause")
	}
}

func TestTranscribePermanentShortCircuits(t *testing.T) {
	permanent := &PermanentError{Err: errors.New("invalid api key")}
	p := &scriptedProvider{outcomes: []error{permanent}}
	c, delays := newTestClient(p)

	_, attempts, err := c.Transcribe(context.Background(), "a.mp3")
	if p.calls != 1 || attempts != 1 {
		t.Errorf("attempts = %d, calls = %d, want 1/1", attempts, p.calls)
	}

	var perm *PermanentError
	if !errors.As(err, &perm) {
		t.Fatalf("err = %v, want PermanentError", err)
	}
	var exhausted *ExhaustedError
	if errors.As(err, &exhausted) {
		t.Error("permanent failure consumed the retry budget")
	}
	if len(*delays) != 0 {
		t.Errorf("slept %v for a permanent failure", *delays)
	}
}

func TestTranscribeHonorsDeadlineDuringBackoff(t *testing.T) {
	transient := &TransientError{Err: errors.New("timeout")}
	p := &scriptedProvider{outcomes: []error{transient, transient, transient}}
	c := NewClient(p)
	c.sleep = func(ctx context.Context, d time.Duration) error {
		return context.DeadlineExceeded
	}

	_, attempts, err := c.Transcribe(context.Background(), "a.mp3")
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
	var exhausted *ExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("err = %v, want ExhaustedError", err)
	}
}

func TestTranscribeCanceledBeforeFirstAttempt(t *testing.T) {
	p := &scriptedProvider{}
	c, delays := newTestClient(p)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, attempts, err := c.Transcribe(ctx, "a.mp3")
	if p.calls != 0 || attempts != 0 {
		t.Errorf("attempts = %d, calls = %d, want 0/0", attempts, p.calls)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	// No attempts were made, so the terminal error is the context's own,
	// not an exhaustion report.
	var exhausted *ExhaustedError
	if errors.As(err, &exhausted) {
		t.Errorf("err = %v, want plain context error", err)
	}
	if len(*delays) != 0 {
		t.Errorf("slept %v with no attempts", *delays)
	}
}

func TestIsTransientClassification(t *testing.T) {
	if !IsTransient(&TransientError{Err: errors.New("x")}) {
		t.Error("TransientError not recognized")
	}
	if IsTransient(&PermanentError{Err: errors.New("x")}) {
		t.Error("PermanentError misclassified as transient")
	}
	if IsTransient(nil) {
		t.Error("nil misclassified as transient")
	}
}
