// Package adapter wraps the external ffmpeg binary for container decode and
// encode, and carries the only I/O-facing state in the module: the DSP core
// in pkg/dsp and the façade in pkg/audio stay pure and never touch a file or
// a process.
package adapter

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os/exec"
	"strconv"
	"time"

	"github.com/go-loudnorm/loudnorm/pkg/audio"
)

const (
	binaryName    = "ffmpeg"
	pcmCodec      = "pcm_f32le"
	decodeTimeout = 5 * time.Minute
	encodeTimeout = 5 * time.Minute

	// chunkFrames bounds how much PCM is handed to the encoder per
	// back-pressure cycle (see Encode).
	chunkFrames = 4096

	// backpressurePoll is how long the encode loop yields when the
	// encoder's stdin is not ready to accept the next chunk.
	backpressurePoll = 10 * time.Millisecond
)

var ErrFFmpegNotFound = errors.New("ffmpeg binary not found in PATH")

// ProgressFunc is invoked with a monotonically increasing fraction in
// [0, 1]. Thread-affinity is the caller's responsibility.
type ProgressFunc func(fraction float64)

// Decode extracts path's audio into a single interleaved f32 buffer at the
// requested sample rate, resampling and downmixing/upmixing channels as
// ffmpeg sees fit for the target channel count.
func Decode(ctx context.Context, path string, sampleRate, channels int) (audio.Buffer, error) {
	slog.Debug("adapter.Decode", "path", path, "stage", "start")

	ffmpegPath, err := exec.LookPath(binaryName)
	if err != nil {
		return audio.Buffer{}, fmt.Errorf("%w", ErrFFmpegNotFound)
	}

	ctx, cancel := context.WithTimeout(ctx, decodeTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, ffmpegPath,
		"-i", path,
		"-ar", strconv.Itoa(sampleRate),
		"-ac", strconv.Itoa(channels),
		"-f", "f32le",
		"-acodec", pcmCodec,
		"-v", "quiet",
		"-",
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			slog.Debug("adapter.Decode", "path", path, "stage", "timeout")
			return audio.Buffer{}, audio.NewProcessingError("decode", fmt.Errorf("timed out after %v", decodeTimeout))
		}
		slog.Debug("adapter.Decode", "path", path, "stage", "error")
		return audio.Buffer{}, audio.NewProcessingError("decode", fmt.Errorf("%s: %w", stderr.String(), err))
	}

	samples, err := bytesToFloat32(stdout.Bytes())
	if err != nil {
		return audio.Buffer{}, audio.NewProcessingError("decode", err)
	}

	slog.Debug("adapter.Decode", "path", path, "stage", "done", "samples", len(samples))

	return audio.Buffer{Samples: samples, SampleRate: float64(sampleRate), Channels: channels}, nil
}

// Encode writes buf to path via ffmpeg, re-containerizing raw PCM with the
// codec ffmpeg chooses for path's extension. Progress is reported per chunk; the loop is cancellable
// at chunk boundaries, per the back-pressure and cancellation rules: a
// cancellation mid-stream leaves path unspecified and is the caller's to
// clean up.
func Encode(ctx context.Context, path string, buf audio.Buffer, progress ProgressFunc) error {
	slog.Debug("adapter.Encode", "path", path, "stage", "start")

	ffmpegPath, err := exec.LookPath(binaryName)
	if err != nil {
		return fmt.Errorf("%w", ErrFFmpegNotFound)
	}

	ctx, cancel := context.WithTimeout(ctx, encodeTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, ffmpegPath,
		"-f", "f32le",
		"-ar", strconv.Itoa(int(buf.SampleRate)),
		"-ac", strconv.Itoa(buf.Channels),
		"-i", "-",
		"-y",
		"-v", "quiet",
		path,
	)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return audio.NewProcessingError("encode", err)
	}

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return audio.NewProcessingError("encode", err)
	}

	writeErr := writeChunked(ctx, stdin, buf, progress)
	stdin.Close()

	waitErr := cmd.Wait()

	switch {
	case writeErr != nil:
		if errors.Is(writeErr, context.Canceled) || errors.Is(writeErr, context.DeadlineExceeded) {
			slog.Debug("adapter.Encode", "path", path, "stage", "cancelled")
			return writeErr
		}
		slog.Debug("adapter.Encode", "path", path, "stage", "error")
		return audio.NewProcessingError("encode", writeErr)
	case waitErr != nil:
		slog.Debug("adapter.Encode", "path", path, "stage", "error")
		return audio.NewProcessingError("encode", fmt.Errorf("%s: %w", stderr.String(), waitErr))
	}

	slog.Debug("adapter.Encode", "path", path, "stage", "done")
	return nil
}

// writeChunked is the only throttling mechanism in the encode path: it
// writes fixed-size chunks to the encoder's stdin pipe and checks for
// cancellation before each chunk. A Write that accepts no bytes is treated
// as "encoder not ready" (see writeWithBackpressure); a Write that blocks
// is not interrupted by cancellation.
func writeChunked(ctx context.Context, w io.Writer, buf audio.Buffer, progress ProgressFunc) error {
	chunkSamples := chunkFrames * buf.Channels
	total := len(buf.Samples)

	for offset := 0; offset < total; offset += chunkSamples {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		end := offset + chunkSamples
		if end > total {
			end = total
		}

		raw := float32ToBytes(buf.Samples[offset:end])

		if _, err := writeWithBackpressure(ctx, w, raw); err != nil {
			return err
		}

		if progress != nil {
			progress(math.Min(1.0, float64(end)/float64(total)))
		}
	}

	return nil
}

// writeWithBackpressure writes raw to w, checking for cancellation before
// every attempt. When a Write accepts zero bytes without an error, it
// sleeps for backpressurePoll and retries. Each Write is a plain call with
// no deadline, so one that blocks is waited out.
func writeWithBackpressure(ctx context.Context, w io.Writer, raw []byte) (int, error) {
	written := 0
	for written < len(raw) {
		select {
		case <-ctx.Done():
			return written, ctx.Err()
		default:
		}

		n, err := w.Write(raw[written:])
		written += n
		if err != nil {
			return written, err
		}
		if n == 0 {
			time.Sleep(backpressurePoll)
		}
	}
	return written, nil
}

func bytesToFloat32(raw []byte) ([]float32, error) {
	if len(raw)%4 != 0 {
		return nil, fmt.Errorf("decoded byte stream length %d is not a multiple of 4", len(raw))
	}
	out := make([]float32, len(raw)/4)
	for i := range out {
		bits := binary.LittleEndian.Uint32(raw[i*4 : i*4+4])
		out[i] = math.Float32frombits(bits)
	}
	return out, nil
}

func float32ToBytes(samples []float32) []byte {
	out := make([]byte, len(samples)*4)
	for i, s := range samples {
		binary.LittleEndian.PutUint32(out[i*4:i*4+4], math.Float32bits(s))
	}
	return out
}
