package rtree

import (
	"testing"
	"time"

	"github.com/tormol/rstartree/rlog"
)

func TestWithConsistencyCheckCatchesNothingOnAHealthyTree(t *testing.T) {
	tr, err := NewWithOptions(4, 2, WithConsistencyCheck())
	if err != nil {
		t.Fatalf("NewWithOptions: %v", err)
	}
	if !tr.consistencyCheckEnabled {
		t.Fatal("expected consistencyCheckEnabled to be set")
	}
	if problems := tr.checkInvariants(); len(problems) != 0 {
		t.Fatalf("fresh tree should have no invariant violations, got %v", problems)
	}
}

func TestWithLoggerIsStored(t *testing.T) {
	l := rlog.Discard()
	tr, err := NewWithOptions(4, 2, WithLogger(l))
	if err != nil {
		t.Fatalf("NewWithOptions: %v", err)
	}
	if tr.logger != l {
		t.Fatal("expected WithLogger's logger to be stored on the tree")
	}
}

func TestDefaultLoggerIsDiscard(t *testing.T) {
	tr, err := New(4, 2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if tr.logger != rlog.Discard() {
		t.Fatal("expected the default logger to be the shared Discard() instance")
	}
}

func TestWithPeriodicStatsRegistersWithoutPanicking(t *testing.T) {
	l := rlog.New(discardCloser{}, rlog.Info)
	defer l.Close()
	_, err := NewWithOptions(4, 2, WithLogger(l), WithPeriodicStats(10*time.Millisecond, time.Second))
	if err != nil {
		t.Fatalf("NewWithOptions: %v", err)
	}
}

type discardCloser struct{}

func (discardCloser) Write(p []byte) (int, error) { return len(p), nil }
func (discardCloser) Close() error                { return nil }
