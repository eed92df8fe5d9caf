package queue

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/snipbox/snippet-api/internal/core/authz"
	"github.com/snipbox/snippet-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stub repository
// ---------------------------------------------------------------------------

type stubDecisionRepo struct {
	mu      sync.Mutex
	records []ports.DecisionRecord
	err     error
	block   chan struct{}
}

func (s *stubDecisionRepo) Insert(_ context.Context, rec ports.DecisionRecord) error {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, rec)
	return nil
}

func (s *stubDecisionRepo) byActor(id int64) []ports.DecisionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []ports.DecisionRecord
	for _, r := range s.records {
		if r.Actor.ID == id {
			out = append(out, r)
		}
	}
	return out
}

func record(actorID int64, kind authz.ActionKind) ports.DecisionRecord {
	return ports.DecisionRecord{
		Actor:  authz.Authenticated(actorID, "User"),
		Action: authz.Action{Kind: kind},
	}
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestDispatcher_FlushesOnClose(t *testing.T) {
	repo := &stubDecisionRepo{}
	d := NewDispatcher(3, repo, zerolog.Nop())
	d.Start(context.Background())

	kinds := []authz.ActionKind{authz.KindCreateSnippet, authz.KindUpdateSnippet, authz.KindDeleteSnippet}
	for actor := int64(1); actor <= 5; actor++ {
		for _, k := range kinds {
			d.Record(record(actor, k))
		}
	}
	d.Close()

	for actor := int64(1); actor <= 5; actor++ {
		got := repo.byActor(actor)
		if len(got) != len(kinds) {
			t.Fatalf("actor %d: expected %d records, got %d", actor, len(kinds), len(got))
		}
		for i, k := range kinds {
			if got[i].Action.Kind != k {
				t.Errorf("actor %d: record %d out of order: %s", actor, i, got[i].Action.Kind)
			}
		}
	}
}

func TestDispatcher_RecordAfterCloseIsIgnored(t *testing.T) {
	repo := &stubDecisionRepo{}
	d := NewDispatcher(1, repo, zerolog.Nop())
	d.Start(context.Background())
	d.Close()
	d.Close()

	d.Record(record(1, authz.KindCreateSnippet))

	if n := len(repo.byActor(1)); n != 0 {
		t.Errorf("expected no records after close, got %d", n)
	}
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	repo := &stubDecisionRepo{block: make(chan struct{})}
	d := NewDispatcher(1, repo, zerolog.Nop())
	d.Start(context.Background())

	// One record is held by the blocked worker, the buffer takes the rest.
	for i := 0; i < channelBuffer+10; i++ {
		d.Record(record(1, authz.KindReadSnippet))
	}

	close(repo.block)
	d.Close()

	got := len(repo.byActor(1))
	if got > channelBuffer+1 {
		t.Errorf("expected at most %d records, got %d", channelBuffer+1, got)
	}
	if got < channelBuffer {
		t.Errorf("expected the buffered records to be written, got %d", got)
	}
}

func TestDispatcher_WriteErrorsDoNotStopWorker(t *testing.T) {
	repo := &stubDecisionRepo{err: errors.New("mongo down")}
	d := NewDispatcher(1, repo, zerolog.Nop())
	d.Start(context.Background())

	d.Record(record(1, authz.KindCreateRole))
	d.Record(record(1, authz.KindDeleteRole))
	d.Close()

	if n := len(repo.byActor(1)); n != 0 {
		t.Errorf("expected nothing persisted, got %d", n)
	}
}

func TestShardIndex(t *testing.T) {
	d := NewDispatcher(4, &stubDecisionRepo{}, zerolog.Nop())
	if d.shardIndex(0) != 0 {
		t.Error("anonymous actors must map to worker 0")
	}
	if d.shardIndex(6) != 2 {
		t.Errorf("unexpected shard for 6: %d", d.shardIndex(6))
	}
	if d.shardIndex(-3) < 0 {
		t.Error("shard index must not be negative")
	}
}

func TestNewDispatcher_DefaultWorkers(t *testing.T) {
	d := NewDispatcher(0, &stubDecisionRepo{}, zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Errorf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
}
