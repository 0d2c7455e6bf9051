package usecase

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"ad-video-pipeline/internal/domain"
	"ad-video-pipeline/internal/domain/model"
	"ad-video-pipeline/internal/domain/ports/adapter"
)

func testLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// -----------------------------
// Mock ObjectStore
// -----------------------------

type memObjectStore struct {
	mu      sync.Mutex
	objects map[string][]byte // "bucket/key" -> body
	types   map[string]string // "bucket/key" -> content type

	PutFunc        func(ctx context.Context, art model.Artifact, body []byte, contentType string) error
	GetFunc        func(ctx context.Context, art model.Artifact) ([]byte, error)
	DownloadToFunc func(ctx context.Context, art model.Artifact, path string) error
	ListFunc       func(ctx context.Context, bucket, prefix string) ([]string, error)
}

var _ adapter.ObjectStore = (*memObjectStore)(nil)

func newMemObjectStore() *memObjectStore {
	return &memObjectStore{
		objects: map[string][]byte{},
		types:   map[string]string{},
	}
}

func (m *memObjectStore) key(art model.Artifact) string { return art.Bucket + "/" + art.Key }

func (m *memObjectStore) EnsureBucket(ctx context.Context, bucket string) error { return nil }

func (m *memObjectStore) Put(ctx context.Context, art model.Artifact, body []byte, contentType string) error {
	if m.PutFunc != nil {
		return m.PutFunc(ctx, art, body, contentType)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[m.key(art)] = body
	m.types[m.key(art)] = contentType
	return nil
}

func (m *memObjectStore) Get(ctx context.Context, art model.Artifact) ([]byte, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, art)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.objects[m.key(art)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return b, nil
}

func (m *memObjectStore) DownloadTo(ctx context.Context, art model.Artifact, path string) error {
	if m.DownloadToFunc != nil {
		return m.DownloadToFunc(ctx, art, path)
	}
	b, err := m.Get(ctx, art)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

func (m *memObjectStore) List(ctx context.Context, bucket, prefix string) ([]string, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, bucket, prefix)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var keys []string
	for k := range m.objects {
		b, key, _ := strings.Cut(k, "/")
		if b == bucket && strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *memObjectStore) PresignGet(ctx context.Context, art model.Artifact, expiry time.Duration) (string, error) {
	return "https://example.test/" + m.key(art), nil
}

func (m *memObjectStore) contentType(art model.Artifact) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.types[m.key(art)]
}

func (m *memObjectStore) allKeys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var keys []string
	for k := range m.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// -----------------------------
// Mock TextGenerator
// -----------------------------

type stubTextGen struct {
	response string
	err      error
}

var _ adapter.TextGenerator = (*stubTextGen)(nil)

func (s *stubTextGen) Complete(ctx context.Context, prompt string) (string, error) {
	return s.response, s.err
}

// -----------------------------
// Mock ImageGenerator
// -----------------------------

type stubImageGen struct {
	image []byte
	err   error
}

var _ adapter.ImageGenerator = (*stubImageGen)(nil)

func (s *stubImageGen) Generate(ctx context.Context, prompt string) ([]byte, error) {
	return s.image, s.err
}

// -----------------------------
// Mock SpeechSynthesizer
// -----------------------------

type stubSpeech struct {
	audio []byte
	err   error
}

var _ adapter.SpeechSynthesizer = (*stubSpeech)(nil)

func (s *stubSpeech) Synthesize(ctx context.Context, script string) ([]byte, error) {
	return s.audio, s.err
}

// -----------------------------
// Mock VideoGenerator
// -----------------------------

// pollResult scripts one Status() observation.
type pollResult struct {
	state adapter.JobState
	err   error
}

type scriptedVideoGen struct {
	mu         sync.Mutex
	submitted  []adapter.VideoJobSpec
	polls      []pollResult
	pollCalls  int
	SubmitFunc func(ctx context.Context, spec adapter.VideoJobSpec) (string, error)
}

var _ adapter.VideoGenerator = (*scriptedVideoGen)(nil)

func inProgress() pollResult {
	return pollResult{state: adapter.JobState{Status: model.JobStatusInProgress}}
}

func withStatus(s model.JobStatus) pollResult {
	return pollResult{state: adapter.JobState{Status: s}}
}

func jobFailure(msg string) adapter.JobState {
	return adapter.JobState{Status: model.JobStatusFailed, FailureMessage: msg}
}

func (g *scriptedVideoGen) Submit(ctx context.Context, spec adapter.VideoJobSpec) (string, error) {
	g.mu.Lock()
	g.submitted = append(g.submitted, spec)
	g.mu.Unlock()
	if g.SubmitFunc != nil {
		return g.SubmitFunc(ctx, spec)
	}
	return fmt.Sprintf("invocation-%d", len(g.submitted)), nil
}

func (g *scriptedVideoGen) Status(ctx context.Context, invocationID string) (adapter.JobState, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	i := g.pollCalls
	g.pollCalls++
	if i >= len(g.polls) {
		// Past the script, hold the last observation.
		i = len(g.polls) - 1
	}
	r := g.polls[i]
	return r.state, r.err
}

func (g *scriptedVideoGen) lastSubmitted() adapter.VideoJobSpec {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.submitted[len(g.submitted)-1]
}

// -----------------------------
// Mock Muxer
// -----------------------------

type fakeMuxer struct {
	MuxFunc      func(ctx context.Context, videoPath, audioPath, outPath string) error
	DurationFunc func(ctx context.Context, path string) (float64, error)
}

var _ adapter.Muxer = (*fakeMuxer)(nil)

func (f *fakeMuxer) Duration(ctx context.Context, path string) (float64, error) {
	if f.DurationFunc != nil {
		return f.DurationFunc(ctx, path)
	}
	return 6.0, nil
}

func (f *fakeMuxer) Mux(ctx context.Context, videoPath, audioPath, outPath string) error {
	if f.MuxFunc != nil {
		return f.MuxFunc(ctx, videoPath, audioPath, outPath)
	}
	return os.WriteFile(outPath, []byte("muxed"), 0o644)
}

// noSleep replaces the poll loop's sleeper so tests run instantly.
func noSleep(ctx context.Context, d time.Duration) error { return nil }
