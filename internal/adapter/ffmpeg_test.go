package adapter

import (
	"context"
	"testing"
	"time"

	"github.com/go-loudnorm/loudnorm/pkg/audio"
)

func TestBytesToFloat32RoundTrip(t *testing.T) {
	samples := []float32{0, 0.5, -0.5, 1.0, -1.0}
	raw := float32ToBytes(samples)

	got, err := bytesToFloat32(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != len(samples) {
		t.Fatalf("got %d samples, want %d", len(got), len(samples))
	}
	for i := range samples {
		if got[i] != samples[i] {
			t.Errorf("sample %d = %f, want %f", i, got[i], samples[i])
		}
	}
}

func TestBytesToFloat32RejectsMisalignedLength(t *testing.T) {
	if _, err := bytesToFloat32([]byte{0, 1, 2}); err == nil {
		t.Error("expected an error for a length not divisible by 4")
	}
}

// blockingWriter never drains, so writeWithBackpressure must observe
// cancellation instead of hanging.
type blockingWriter struct{}

func (blockingWriter) Write(p []byte) (int, error) {
	return 0, nil
}

func TestWriteWithBackpressureObservesCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := writeWithBackpressure(ctx, blockingWriter{}, []byte{1, 2, 3, 4})
	if err == nil {
		t.Fatal("expected writeWithBackpressure to return the cancellation error")
	}
}

// countingWriter records every chunk handed to it and accepts everything
// immediately, so writeChunked should report monotonically increasing
// progress with no back-pressure retries.
type countingWriter struct {
	written int
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.written += len(p)
	return len(p), nil
}

func TestWriteChunkedReportsMonotonicProgress(t *testing.T) {
	buf := audio.Buffer{Samples: make([]float32, chunkFrames*3+100), SampleRate: 48000, Channels: 1}

	var last float64
	err := writeChunked(context.Background(), &countingWriter{}, buf, func(fraction float64) {
		if fraction < last {
			t.Errorf("progress went backwards: %f after %f", fraction, last)
		}
		last = fraction
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if last != 1.0 {
		t.Errorf("final progress = %f, want 1.0", last)
	}
}

func TestWriteChunkedStopsAtCancellation(t *testing.T) {
	buf := audio.Buffer{Samples: make([]float32, chunkFrames*10), SampleRate: 48000, Channels: 1}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := writeChunked(ctx, &countingWriter{}, buf, nil)
	if err == nil {
		t.Fatal("expected an error from an already-cancelled context")
	}
}

func TestDecodeReportsMissingBinary(t *testing.T) {
	// This test only exercises the LookPath failure path deterministically
	// when ffmpeg is absent; if it is present in the test environment the
	// call instead fails on the nonexistent input path, which Decode also
	// reports as an error.
	_, err := Decode(context.Background(), "/nonexistent/input.wav", 48000, 1)
	if err == nil {
		t.Fatal("expected an error for a nonexistent input file")
	}
}
