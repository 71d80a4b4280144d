package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/pvoronin/quotecheck/internal/model"
	"github.com/pvoronin/quotecheck/internal/segment"
)

// stubResponse is the scripted oracle behavior for one chunk call
type stubResponse struct {
	items []model.VerificationItem
	err   error
}

// stubProvider plays back scripted responses in call order
type stubProvider struct {
	responses []stubResponse
	received  []string       // annotated chunk texts, in call order
	onCall    func(call int) // optional hook, runs before responding
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) IsAvailable(ctx context.Context) bool { return true }

func (s *stubProvider) Verify(ctx context.Context, chunkText string) ([]model.VerificationItem, error) {
	call := len(s.received)
	s.received = append(s.received, chunkText)
	if s.onCall != nil {
		s.onCall(call)
	}
	if call >= len(s.responses) {
		return nil, nil
	}
	r := s.responses[call]
	return r.items, r.err
}

func item(loc, quote string, status model.Status) model.VerificationItem {
	return model.VerificationItem{Location: loc, QuoteText: quote, ClaimedSource: "unspecified", Status: status}
}

func newTestPipeline(provider *stubProvider, maxChunk int) *Pipeline {
	cfg := &model.Config{}
	cfg.Chunk.MaxSize = maxChunk
	return New(provider, cfg)
}

func TestRun_EmptyDocument(t *testing.T) {
	p := newTestPipeline(&stubProvider{}, 100)

	_, err := p.Run(context.Background(), "   \n\t ", nil)

	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Expected *ConfigError for empty document, got %v", err)
	}
}

func TestRun_NilProvider(t *testing.T) {
	cfg := &model.Config{}
	cfg.Chunk.MaxSize = 100
	p := New(nil, cfg)

	_, err := p.Run(context.Background(), "some text", nil)

	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Expected *ConfigError for missing provider, got %v", err)
	}
}

func TestRun_AppendsInDocumentOrder(t *testing.T) {
	text := "[P1]\n" + strings.Repeat("alpha beta. ", 10) + "\n[P2]\n" + strings.Repeat("gamma delta. ", 10)
	chunkCount := len(segment.Split(text, 100))
	if chunkCount < 2 {
		t.Fatalf("Test text must split into multiple chunks, got %d", chunkCount)
	}

	provider := &stubProvider{}
	for i := 0; i < chunkCount; i++ {
		provider.responses = append(provider.responses, stubResponse{
			items: []model.VerificationItem{item("Page 1", "q", model.StatusAccurate)},
		})
	}

	p := newTestPipeline(provider, 100)
	res, err := p.Run(context.Background(), text, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if res.ChunkCount != chunkCount || res.ChunksDone != chunkCount {
		t.Errorf("Expected %d/%d chunks done, got %d/%d", chunkCount, chunkCount, res.ChunksDone, res.ChunkCount)
	}
	if len(res.Items) != chunkCount {
		t.Errorf("Expected %d items, got %d", chunkCount, len(res.Items))
	}
	if res.Stats.Total != len(res.Items) {
		t.Errorf("Stats total %d != item count %d", res.Stats.Total, len(res.Items))
	}
	if len(provider.received) != chunkCount {
		t.Errorf("Expected %d sequential oracle calls, got %d", chunkCount, len(provider.received))
	}
}

func TestRun_AnnotatesLaterChunks(t *testing.T) {
	text := "[P1]\n" + strings.Repeat("a", 80) + "\n[P2]\n" + strings.Repeat("b", 80)

	provider := &stubProvider{}
	p := newTestPipeline(provider, 100)

	if _, err := p.Run(context.Background(), text, nil); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(provider.received) < 2 {
		t.Fatalf("Expected at least 2 chunks, got %d", len(provider.received))
	}

	if strings.HasPrefix(provider.received[0], "(Context:") {
		t.Errorf("First chunk must not be annotated: %q", provider.received[0][:40])
	}
	for i, sent := range provider.received[1:] {
		if !strings.HasPrefix(sent, "(Context: Continued from [P") {
			t.Errorf("Chunk %d missing continuation annotation: %q", i+1, sent[:min(40, len(sent))])
		}
	}
}

func TestRun_PartialFailurePreservation(t *testing.T) {
	// Oracle succeeds on chunk 1, fails on chunk 2: the run aborts, the one
	// item from chunk 1 is retained, and progress stays at 1 of total.
	text := strings.Repeat("first part. ", 10) + "\n" + strings.Repeat("second part. ", 10)
	chunkCount := len(segment.Split(text, 130))
	if chunkCount < 2 {
		t.Fatalf("Test text must split into at least 2 chunks, got %d", chunkCount)
	}

	oracleDown := errors.New("connection refused")
	provider := &stubProvider{
		responses: []stubResponse{
			{items: []model.VerificationItem{item("Page 1, Para 1", "first", model.StatusAccurate)}},
			{err: oracleDown},
		},
	}

	p := newTestPipeline(provider, 130)
	res, err := p.Run(context.Background(), text, nil)

	var chunkErr *ChunkError
	if !errors.As(err, &chunkErr) {
		t.Fatalf("Expected *ChunkError, got %v", err)
	}
	if !errors.Is(err, oracleDown) {
		t.Errorf("Expected wrapped oracle error, got %v", err)
	}
	if chunkErr.Chunk != 1 {
		t.Errorf("Expected failure at chunk index 1, got %d", chunkErr.Chunk)
	}

	if len(res.Items) != 1 || res.Items[0].QuoteText != "first" {
		t.Errorf("Expected exactly the chunk-1 item preserved, got %+v", res.Items)
	}
	if res.ChunksDone != 1 {
		t.Errorf("Expected current progress 1, got %d", res.ChunksDone)
	}
	if res.ChunkCount != chunkCount {
		t.Errorf("Expected total %d, got %d", chunkCount, res.ChunkCount)
	}
}

func TestRun_MalformedChunkContributesNothing(t *testing.T) {
	// A chunk whose oracle output was unparsable surfaces here as an empty
	// item list: the run completes all chunks with no run-level error.
	text := strings.Repeat("one. ", 25) + "\n" + strings.Repeat("two. ", 25) + "\n" + strings.Repeat("three. ", 15)
	chunkCount := len(segment.Split(text, 130))
	if chunkCount != 3 {
		t.Fatalf("Test expects 3 chunks, got %d", chunkCount)
	}

	provider := &stubProvider{
		responses: []stubResponse{
			{items: []model.VerificationItem{item("Page 1", "one", model.StatusAccurate)}},
			{items: []model.VerificationItem{}},
			{items: []model.VerificationItem{item("Page 1", "three", model.StatusParaphrased)}},
		},
	}

	p := newTestPipeline(provider, 130)
	res, err := p.Run(context.Background(), text, nil)
	if err != nil {
		t.Fatalf("Expected run to complete, got %v", err)
	}

	if res.ChunksDone != 3 {
		t.Errorf("Expected all 3 chunks processed, got %d", res.ChunksDone)
	}
	if len(res.Items) != 2 {
		t.Errorf("Expected 2 items (middle chunk empty), got %d", len(res.Items))
	}
}

func TestRun_EmitsProgressEvents(t *testing.T) {
	text := strings.Repeat("words here. ", 30)
	chunkCount := len(segment.Split(text, 100))

	provider := &stubProvider{}
	p := newTestPipeline(provider, 100)

	events := make(chan Event, chunkCount+1)
	if _, err := p.Run(context.Background(), text, events); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	close(events)

	var got []Event
	for ev := range events {
		got = append(got, ev)
	}

	if len(got) != chunkCount {
		t.Fatalf("Expected %d events, got %d", chunkCount, len(got))
	}
	for i, ev := range got {
		if ev.Progress.Current != i+1 {
			t.Errorf("Event %d: expected current %d, got %d", i, i+1, ev.Progress.Current)
		}
		if ev.Progress.Total != chunkCount {
			t.Errorf("Event %d: expected total %d, got %d", i, chunkCount, ev.Progress.Total)
		}
	}
}

func TestRun_RateLimiterPacesChunks(t *testing.T) {
	// The pipeline owns its rate limiter. With burst 1 and a near-zero rate,
	// chunk 1 proceeds on the burst token and chunk 2 must wait far beyond
	// the deadline, so the run aborts at the second chunk boundary.
	text := strings.Repeat("alpha. ", 20) + "\n" + strings.Repeat("beta. ", 20)
	chunkCount := len(segment.Split(text, 100))
	if chunkCount < 2 {
		t.Fatalf("Test text must split into at least 2 chunks, got %d", chunkCount)
	}

	provider := &stubProvider{
		responses: []stubResponse{
			{items: []model.VerificationItem{item("Page 1", "kept", model.StatusAccurate)}},
		},
	}

	cfg := &model.Config{}
	cfg.Chunk.MaxSize = 100
	cfg.RateLimit.RequestsPerSecond = 0.001
	cfg.RateLimit.Burst = 1
	p := New(provider, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	res, err := p.Run(ctx, text, nil)

	var chunkErr *ChunkError
	if !errors.As(err, &chunkErr) {
		t.Fatalf("Expected *ChunkError from rate-limited wait, got %v", err)
	}
	if chunkErr.Chunk != 1 {
		t.Errorf("Expected abort at chunk index 1, got %d", chunkErr.Chunk)
	}

	if len(provider.received) != 1 {
		t.Errorf("Expected only the burst-funded oracle call, got %d", len(provider.received))
	}
	if res.ChunksDone != 1 || len(res.Items) != 1 {
		t.Errorf("Expected chunk-1 results preserved, got done=%d items=%d", res.ChunksDone, len(res.Items))
	}
}

func TestNew_NoRateLimitDisablesPacing(t *testing.T) {
	cfg := &model.Config{}
	cfg.Chunk.MaxSize = 100

	if p := New(&stubProvider{}, cfg); p.limiter != nil {
		t.Error("Expected no limiter when requests_per_second is 0")
	}
}

func TestRun_CancellationAtChunkBoundary(t *testing.T) {
	// Cancel while chunk 1 is in flight: it finishes, chunk 2 never starts.
	text := strings.Repeat("alpha. ", 20) + "\n" + strings.Repeat("beta. ", 20)
	chunkCount := len(segment.Split(text, 100))
	if chunkCount < 2 {
		t.Fatalf("Test text must split into at least 2 chunks, got %d", chunkCount)
	}

	ctx, cancel := context.WithCancel(context.Background())

	provider := &stubProvider{
		responses: []stubResponse{
			{items: []model.VerificationItem{item("Page 1", "kept", model.StatusAccurate)}},
		},
	}
	provider.onCall = func(call int) {
		if call == 0 {
			cancel()
		}
	}

	p := newTestPipeline(provider, 100)
	res, err := p.Run(ctx, text, nil)

	var chunkErr *ChunkError
	if !errors.As(err, &chunkErr) {
		t.Fatalf("Expected *ChunkError after cancellation, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled in chain, got %v", err)
	}

	if len(provider.received) != 1 {
		t.Errorf("Expected exactly 1 oracle call before cancellation took effect, got %d", len(provider.received))
	}
	if len(res.Items) != 1 {
		t.Errorf("Expected the in-flight chunk's item retained, got %d items", len(res.Items))
	}
	if res.ChunksDone != 1 {
		t.Errorf("Expected progress 1 after cancellation, got %d", res.ChunksDone)
	}
}
