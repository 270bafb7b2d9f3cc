package transport

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/Garsondee/linewar-client/internal/snapshot"
)

// Recorder wraps a Source and appends every snapshot it returns to a
// zstd-compressed JSONL file.
type Recorder struct {
	src Source

	mu  sync.Mutex
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
}

// NewRecorder creates (or truncates) path and records src into it.
func NewRecorder(src Source, path string) (*Recorder, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("recorder: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("recorder: %w", err)
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("recorder: %w", err)
	}
	return &Recorder{src: src, f: f, enc: enc, w: bufio.NewWriterSize(enc, 128*1024)}, nil
}

func (r *Recorder) State(ctx context.Context) (*snapshot.Snapshot, error) {
	return r.keep(r.src.State(ctx))
}

func (r *Recorder) StartGame(ctx context.Context, req StartRequest) (*snapshot.Snapshot, error) {
	return r.keep(r.src.StartGame(ctx, req))
}

func (r *Recorder) NextAction(ctx context.Context) (*snapshot.Snapshot, error) {
	return r.keep(r.src.NextAction(ctx))
}

func (r *Recorder) Restart(ctx context.Context) (*snapshot.Snapshot, error) {
	return r.keep(r.src.Restart(ctx))
}

func (r *Recorder) Reset(ctx context.Context) (*snapshot.Snapshot, error) {
	return r.keep(r.src.Reset(ctx))
}

func (r *Recorder) keep(s *snapshot.Snapshot, err error) (*snapshot.Snapshot, error) {
	if err != nil || s == nil {
		return s, err
	}
	if werr := r.Write(s); werr != nil {
		return s, fmt.Errorf("record snapshot: %w", werr)
	}
	return s, nil
}

// Write appends one snapshot as a JSON line.
func (r *Recorder) Write(s *snapshot.Snapshot) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.w == nil {
		return os.ErrClosed
	}
	if _, err := r.w.Write(b); err != nil {
		return err
	}
	if err := r.w.WriteByte('\n'); err != nil {
		return err
	}
	return r.w.Flush()
}

// Close flushes the stream and closes the file.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var err error
	if r.w != nil {
		err = r.w.Flush()
		r.w = nil
	}
	if r.enc != nil {
		if cerr := r.enc.Close(); err == nil {
			err = cerr
		}
		r.enc = nil
	}
	if r.f != nil {
		if cerr := r.f.Close(); err == nil {
			err = cerr
		}
		r.f = nil
	}
	return err
}

// ReplaySource serves a recorded session in order. NextAction advances;
// Restart and Reset rewind to the first snapshot.
type ReplaySource struct {
	mu    sync.Mutex
	snaps []*snapshot.Snapshot
	pos   int
}

// OpenReplay loads every snapshot recorded in path.
func OpenReplay(path string) (*ReplaySource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open replay: %w", err)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("open replay: %w", err)
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)

	var snaps []*snapshot.Snapshot
	for line := 1; sc.Scan(); line++ {
		s, err := snapshot.Decode(sc.Bytes())
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", filepath.Base(path), line, err)
		}
		snaps = append(snaps, s)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read replay: %w", err)
	}
	return NewReplaySource(snaps), nil
}

// NewReplaySource serves snaps in order.
func NewReplaySource(snaps []*snapshot.Snapshot) *ReplaySource {
	return &ReplaySource{snaps: snaps}
}

// Len returns the number of recorded snapshots.
func (r *ReplaySource) Len() int { return len(r.snaps) }

// Position returns the index of the snapshot last served.
func (r *ReplaySource) Position() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pos
}

func (r *ReplaySource) State(context.Context) (*snapshot.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.snaps) == 0 {
		return nil, ErrEndOfReplay
	}
	return r.snaps[r.pos], nil
}

// StartGame ignores the request: the recording already fixes the setup.
func (r *ReplaySource) StartGame(ctx context.Context, _ StartRequest) (*snapshot.Snapshot, error) {
	return r.Restart(ctx)
}

func (r *ReplaySource) NextAction(context.Context) (*snapshot.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pos+1 >= len(r.snaps) {
		return nil, ErrEndOfReplay
	}
	r.pos++
	return r.snaps[r.pos], nil
}

func (r *ReplaySource) Restart(ctx context.Context) (*snapshot.Snapshot, error) {
	r.mu.Lock()
	r.pos = 0
	r.mu.Unlock()
	return r.State(ctx)
}

func (r *ReplaySource) Reset(ctx context.Context) (*snapshot.Snapshot, error) {
	return r.Restart(ctx)
}
