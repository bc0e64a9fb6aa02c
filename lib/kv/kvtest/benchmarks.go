package kvtest

import (
	"fmt"
	"testing"

	"github.com/tkvdb/tkv/lib/kv"
)

// RunStoreBenchmarks runs a standardized benchmark suite against a store
// implementation.
func RunStoreBenchmarks(b *testing.B, name string, factory StoreFactory) {
	b.Run(name, func(b *testing.B) {
		b.Run("Set", func(b *testing.B) {
			benchWithStore(b, factory, func(b *testing.B, store kv.IStore) {
				view := store.Strings()
				b.ResetTimer()
				for i := 0; i < b.N; i++ {
					if err := view.Set(fmt.Sprintf("key-%d", i), "value"); err != nil {
						b.Fatal(err)
					}
				}
			})
		})

		b.Run("SetExisting", func(b *testing.B) {
			benchWithStore(b, factory, func(b *testing.B, store kv.IStore) {
				view := store.Strings()
				if err := view.Set("key", "value"); err != nil {
					b.Fatal(err)
				}
				b.ResetTimer()
				for i := 0; i < b.N; i++ {
					if err := view.Set("key", "value"); err != nil {
						b.Fatal(err)
					}
				}
			})
		})

		b.Run("Get", func(b *testing.B) {
			benchWithStore(b, factory, func(b *testing.B, store kv.IStore) {
				view := store.Strings()
				if err := view.Set("key", "value"); err != nil {
					b.Fatal(err)
				}
				b.ResetTimer()
				for i := 0; i < b.N; i++ {
					if _, _, err := view.Get("key"); err != nil {
						b.Fatal(err)
					}
				}
			})
		})

		b.Run("Has", func(b *testing.B) {
			benchWithStore(b, factory, func(b *testing.B, store kv.IStore) {
				view := store.Strings()
				if err := view.Set("key", "value"); err != nil {
					b.Fatal(err)
				}
				b.ResetTimer()
				for i := 0; i < b.N; i++ {
					if _, err := view.Has("key"); err != nil {
						b.Fatal(err)
					}
				}
			})
		})

		b.Run("Delete", func(b *testing.B) {
			benchWithStore(b, factory, func(b *testing.B, store kv.IStore) {
				view := store.Strings()
				b.ResetTimer()
				for i := 0; i < b.N; i++ {
					if err := view.Delete("key"); err != nil {
						b.Fatal(err)
					}
				}
			})
		})

		b.Run("JSONRoundTrip", func(b *testing.B) {
			benchWithStore(b, factory, func(b *testing.B, store kv.IStore) {
				view := store.JSON()
				value := map[string]any{"bar": "baz", "n": 1.0}
				b.ResetTimer()
				for i := 0; i < b.N; i++ {
					if err := view.Set("key", value); err != nil {
						b.Fatal(err)
					}
					if _, _, err := view.Get("key"); err != nil {
						b.Fatal(err)
					}
				}
			})
		})

		b.Run("Entries", func(b *testing.B) {
			benchWithStore(b, factory, func(b *testing.B, store kv.IStore) {
				view := store.Strings()
				for i := 0; i < 1000; i++ {
					if err := view.Set(fmt.Sprintf("key-%d", i), "value"); err != nil {
						b.Fatal(err)
					}
				}
				b.ResetTimer()
				for i := 0; i < b.N; i++ {
					if err := view.ForEach(func(string, string) error { return nil }); err != nil {
						b.Fatal(err)
					}
				}
			})
		})
	})
}

// benchWithStore opens a fresh store for one benchmark and closes it after.
func benchWithStore(b *testing.B, factory StoreFactory, run func(*testing.B, kv.IStore)) {
	store, err := factory()
	if err != nil {
		b.Fatalf("factory failed: %v", err)
	}
	defer store.Close()
	run(b, store)
}
