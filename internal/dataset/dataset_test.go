package dataset

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"funding/internal/core"
	"funding/internal/normalize"
)

type stubSource struct {
	mu      sync.Mutex
	records []core.RawRecord
	err     error
	calls   atomic.Int32
	gate    chan struct{}
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) LoadRecords(ctx context.Context) ([]core.RawRecord, error) {
	s.calls.Add(1)
	if s.gate != nil {
		<-s.gate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records, s.err
}

func TestBuildNormalizesAndDerives(t *testing.T) {
	raw := []core.RawRecord{
		{Date: "2017-03-14", Startup: "Flipkart.com", Investors: "Accel Partners", Amount: "10"},
		{Date: "garbage", Startup: "Ola Cabs", Amount: "n/a"},
	}
	tbl := Build(raw, normalize.Default(), "stub", time.Unix(0, 0))

	if tbl.Len() != 2 || tbl.Source != "stub" {
		t.Fatalf("unexpected table: %+v", tbl)
	}
	first := tbl.Records[0]
	if first.Startup.Value != "flipkart" || first.Investors.Value != "accel" {
		t.Fatalf("names not normalized: %+v", first)
	}
	if !first.HasPeriod || first.Year != 2017 || first.Month != 3 {
		t.Fatalf("period not derived: %+v", first)
	}
	second := tbl.Records[1]
	if second.HasPeriod || second.Amount.Valid || second.Investors.Valid {
		t.Fatalf("undefined cells should stay undefined: %+v", second)
	}
}

func TestDeriveDoesNotMutateInput(t *testing.T) {
	in := []core.FundingRecord{{Date: core.NewDate(2016, 12, 1)}}
	out := Derive(in)
	if in[0].HasPeriod {
		t.Fatalf("input mutated")
	}
	if out[0].Year != 2016 || out[0].Month != 12 {
		t.Fatalf("unexpected derived period: %+v", out[0])
	}
}

func TestStoreLoadAndReload(t *testing.T) {
	src := &stubSource{records: []core.RawRecord{{Startup: "oyo"}}}
	s := NewStore(src, nil)

	if s.Ready() || s.Snapshot() != nil {
		t.Fatalf("store should start empty")
	}
	if _, err := s.Table(); !errors.Is(err, ErrNotLoaded) {
		t.Fatalf("expected ErrNotLoaded, got %v", err)
	}

	first, err := s.Load(context.Background())
	if err != nil || first.Len() != 1 {
		t.Fatalf("load: %v", err)
	}

	src.mu.Lock()
	src.records = append(src.records, core.RawRecord{Startup: "ola"})
	src.mu.Unlock()

	second, err := s.Reload(context.Background())
	if err != nil || second.Len() != 2 {
		t.Fatalf("reload: %v", err)
	}
	if first.Len() != 1 {
		t.Fatalf("earlier snapshot changed after reload")
	}
	if s.Snapshot() != second {
		t.Fatalf("store did not publish the new table")
	}
}

func TestReloadFailureKeepsPreviousTable(t *testing.T) {
	src := &stubSource{records: []core.RawRecord{{Startup: "oyo"}}}
	s := NewStore(src, nil)
	prev, _ := s.Load(context.Background())

	src.mu.Lock()
	src.err = errors.New("disk gone")
	src.mu.Unlock()

	if _, err := s.Reload(context.Background()); err == nil {
		t.Fatalf("expected reload error")
	}
	if s.Snapshot() != prev {
		t.Fatalf("failed reload replaced the table")
	}
}

func TestConcurrentReloadsAreCoalesced(t *testing.T) {
	src := &stubSource{records: []core.RawRecord{{Startup: "oyo"}}, gate: make(chan struct{})}
	s := NewStore(src, nil)

	const n = 8
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Reload(context.Background()); err != nil {
				t.Errorf("reload: %v", err)
			}
		}()
	}
	// Let every goroutine reach the singleflight group before releasing.
	time.Sleep(50 * time.Millisecond)
	close(src.gate)
	wg.Wait()

	if got := src.calls.Load(); got >= n {
		t.Fatalf("expected coalesced loads, source called %d times", got)
	}
	if !s.Ready() {
		t.Fatalf("store not ready after reload")
	}
}

func TestStaticStore(t *testing.T) {
	tbl := &core.Table{Records: []core.FundingRecord{{}}}
	s := NewStaticStore(tbl)
	if s.Snapshot() != tbl || !s.Ready() {
		t.Fatalf("static store should serve its table")
	}
	if _, err := s.Reload(context.Background()); err == nil {
		t.Fatalf("reload without source should fail")
	}
}
