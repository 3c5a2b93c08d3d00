package store

import (
	"math/rand"
	"testing"

	"widgetdb/pkg/widget"
)

func preload(b *testing.B, s *Store, n int) {
	b.Helper()
	for i := 0; i < n; i++ {
		if _, err := s.Insert(widget.CreateParams{Width: 1, Height: 1}); err != nil {
			b.Fatalf("Insert failed: %v", err)
		}
	}
}

func BenchmarkStoreInsertOnTop(b *testing.B) {
	s := New(nil)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := s.Insert(widget.CreateParams{Width: 1, Height: 1}); err != nil {
			b.Fatalf("Insert failed: %v", err)
		}
	}
}

// BenchmarkStoreMoveDown moves the top widget one slot down, which the
// bounded cascade resolves by touching a single neighbour.
func BenchmarkStoreMoveDown(b *testing.B) {
	s := New(nil)
	const preloaded = 10_000
	preload(b, s, preloaded)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		top, err := s.GetByZ(preloaded - 1)
		if err != nil {
			b.Fatalf("GetByZ failed: %v", err)
		}
		if _, err := s.Update(top.ID, widget.UpdateParams{Z: widget.Int32(preloaded - 2)}); err != nil {
			b.Fatalf("Update failed: %v", err)
		}
	}
}

func BenchmarkStoreGetRange(b *testing.B) {
	s := New(nil)
	const preloaded = 10_000
	preload(b, s, preloaded)

	b.ReportAllocs()
	b.ResetTimer()

	rng := rand.New(rand.NewSource(42))

	for i := 0; i < b.N; i++ {
		if _, err := s.GetRange(rng.Intn(preloaded/100), 100); err != nil {
			b.Fatalf("GetRange failed: %v", err)
		}
	}
}
