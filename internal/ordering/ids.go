package ordering

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Sequencer hands out order numbers that increase per outlet and day
type Sequencer interface {
	NextOrderSeq(ctx context.Context, outletID string, day time.Time) (int64, error)
}

// MemorySequencer keeps its counters in process
type MemorySequencer struct {
	mu  sync.Mutex
	seq map[string]int64
}

func NewMemorySequencer() *MemorySequencer {
	return &MemorySequencer{seq: make(map[string]int64)}
}

func (s *MemorySequencer) NextOrderSeq(ctx context.Context, outletID string, day time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := outletID + "/" + day.Format("2006-01-02")
	s.seq[key]++
	return s.seq[key], nil
}

// IDGenerator formats order ids as <OUTLET>-<yyyymmdd>-<seq>
type IDGenerator struct {
	seq Sequencer
	now func() time.Time
}

func NewIDGenerator(seq Sequencer) *IDGenerator {
	return &IDGenerator{seq: seq, now: time.Now}
}

func (g *IDGenerator) Next(ctx context.Context, outletID string) (string, error) {
	day := g.now().UTC()
	n, err := g.seq.NextOrderSeq(ctx, outletID, day)
	if err != nil {
		return "", fmt.Errorf("generate order seq: %w", err)
	}
	return fmt.Sprintf("%s-%s-%03d", strings.ToUpper(outletID), day.Format("20060102"), n), nil
}
