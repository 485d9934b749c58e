package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/alkime/fader/internal/mp3"
)

// Sentinel errors for limit detection.
var (
	ErrMaxDurationReached = errors.New("max duration reached")
	ErrMaxBytesReached    = errors.New("max bytes reached")
)

// RecorderConfig configures a Recorder.
type RecorderConfig struct {
	// MP3Path is the output file. Created (truncated) on Start.
	MP3Path string

	// SampleRate and Channels describe the incoming PCM.
	SampleRate int
	Channels   int

	// MaxDuration and MaxBytes bound the recording. Zero means no limit.
	MaxDuration time.Duration
	MaxBytes    int64
}

// Recorder streams capture packets into an MP3 file, so a session can be
// kept while it is being monitored. It wraps the mp3 streaming encoder
// with a file target and size/duration limits.
type Recorder struct {
	conf  RecorderConfig
	input <-chan []byte

	enc     *mp3.StreamingEncoder
	file    *os.File
	written atomic.Int64

	startedAt time.Time
	cancel    context.CancelFunc
	limitErr  atomic.Value // error
}

// NewRecorder builds a recorder reading PCM packets from input.
func NewRecorder(conf RecorderConfig, input <-chan []byte) (*Recorder, error) {
	if conf.MP3Path == "" {
		return nil, errors.New("MP3Path cannot be empty")
	}

	if input == nil {
		return nil, errors.New("input channel cannot be nil")
	}

	return &Recorder{conf: conf, input: input}, nil
}

// BytesWritten returns the number of MP3 bytes written so far.
func (r *Recorder) BytesWritten() int64 {
	return r.written.Load()
}

// Elapsed returns how long the recorder has been running.
func (r *Recorder) Elapsed() time.Duration {
	if r.startedAt.IsZero() {
		return 0
	}

	return time.Since(r.startedAt)
}

// Start opens the output file and begins encoding. Must be called once.
func (r *Recorder) Start(ctx context.Context) error {
	if r.enc != nil {
		return errors.New("recorder already started")
	}

	file, err := os.Create(r.conf.MP3Path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	r.file = file

	encCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	enc, err := mp3.NewStreamingEncoder(mp3.EncoderConfig{
		SampleRate: r.conf.SampleRate,
		Channels:   r.conf.Channels,
	}.WithDefaults(), r.input, r.countingWriter())
	if err != nil {
		file.Close()
		cancel()

		return fmt.Errorf("failed to create MP3 encoder: %w", err)
	}

	r.enc = enc
	r.startedAt = time.Now()

	if err := r.enc.Start(encCtx); err != nil {
		file.Close()
		cancel()

		return fmt.Errorf("failed to start MP3 encoder: %w", err)
	}

	return nil
}

// Wait blocks until encoding finishes (input closed, context cancelled,
// or a limit hit) and closes the output file. Limit stops report their
// sentinel error.
func (r *Recorder) Wait() error {
	if r.enc == nil {
		return errors.New("recorder not started")
	}

	encErr := r.enc.Wait()
	closeErr := r.file.Close()

	if limit, ok := r.limitErr.Load().(error); ok {
		return limit
	}

	if encErr != nil {
		return fmt.Errorf("encoder failed: %w", encErr)
	}

	if closeErr != nil {
		return fmt.Errorf("failed to close output file: %w", closeErr)
	}

	return nil
}

// countingWriter tracks written bytes and stops the encoder when a limit
// trips. Limits are checked after each write, so the file may slightly
// overshoot MaxBytes by one MP3 batch.
func (r *Recorder) countingWriter() *limitWriter {
	return &limitWriter{rec: r}
}

type limitWriter struct {
	rec *Recorder
}

func (w *limitWriter) Write(p []byte) (int, error) {
	n, err := w.rec.file.Write(p)
	w.rec.written.Add(int64(n))

	if err != nil {
		return n, err
	}

	if w.rec.conf.MaxBytes > 0 && w.rec.written.Load() >= w.rec.conf.MaxBytes {
		w.rec.limitErr.Store(ErrMaxBytesReached)
		w.rec.cancel()
	}

	if w.rec.conf.MaxDuration > 0 && time.Since(w.rec.startedAt) >= w.rec.conf.MaxDuration {
		w.rec.limitErr.Store(ErrMaxDurationReached)
		w.rec.cancel()
	}

	return n, nil
}
