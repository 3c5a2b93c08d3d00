package bench

import (
	"bytes"
	"errors"
	"math/rand"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"

	"widgetdb/pkg/store"
	"widgetdb/pkg/widget"
)

// storeAPI drives the store in-process.
type storeAPI struct{ s *store.Store }

func (a storeAPI) Create(p widget.CreateParams) (uuid.UUID, error) {
	w, err := a.s.Insert(p)
	return w.ID, err
}

func (a storeAPI) Get(id uuid.UUID) error {
	_, err := a.s.GetByID(id)
	return err
}

func (a storeAPI) Update(id uuid.UUID, p widget.UpdateParams) error {
	_, err := a.s.Update(id, p)
	return err
}

func TestRun_CountsEveryOperation(t *testing.T) {
	var calls atomic.Int64
	res := Run(func(*rand.Rand) error {
		if calls.Add(1)%4 == 0 {
			return errors.New("boom")
		}
		return nil
	}, 103, 10)

	if res.TotalOps != 103 || calls.Load() != 103 {
		t.Fatalf("expected 103 ops, got total=%d calls=%d", res.TotalOps, calls.Load())
	}
	if res.SuccessfulOps+res.FailedOps != 103 || res.FailedOps != 25 {
		t.Fatalf("unexpected split %d/%d", res.SuccessfulOps, res.FailedOps)
	}
	if res.MinLatency > res.AvgLatency || res.AvgLatency > res.MaxLatency {
		t.Fatalf("inconsistent latencies %+v", res)
	}
}

func TestScenarios_AgainstStore(t *testing.T) {
	s := store.New(nil)
	var out bytes.Buffer

	for _, sc := range Scenarios(storeAPI{s}, 20) {
		res := Run(sc.Op, 50, 5)
		if res.FailedOps != 0 {
			t.Fatalf("%s: %d operations failed", sc.Name, res.FailedOps)
		}
		Print(&out, sc.Name, res)
	}

	if err := s.Check(); err != nil {
		t.Fatalf("store inconsistent after workload: %v", err)
	}
	if s.Stats().Widgets != 100 {
		t.Fatalf("expected 100 widgets, got %d", s.Stats().Widgets)
	}
	if !strings.Contains(out.String(), "insert with cascade") {
		t.Fatalf("missing scenario in output %q", out.String())
	}
}
