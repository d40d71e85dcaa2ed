package pipeline_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/kiran-kumarb/automated-meeting-minutes-generator/internal/pipeline"
	"github.com/kiran-kumarb/automated-meeting-minutes-generator/internal/services"
	"github.com/kiran-kumarb/automated-meeting-minutes-generator/internal/testsupport"
)

func newRecord(id, filename string) *pipeline.Record {
	return &pipeline.Record{
		ID:       id,
		Filename: filename,
		Stage:    pipeline.StageUploaded,
	}
}

func openStores(t *testing.T) map[string]pipeline.Store {
	t.Helper()
	stores := map[string]pipeline.Store{
		"memory": testsupport.MustOpenStore(t, testsupport.NewConfig(t)),
		"sqlite": testsupport.MustOpenStore(t, testsupport.NewConfig(t, testsupport.WithStoreBackend("sqlite"))),
	}
	return stores
}

func TestStoreCreateAndGet(t *testing.T) {
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			created, err := store.Create(ctx, newRecord("rec-1", "1-a.mp3"))
			if err != nil {
				t.Fatalf("Create: %v", err)
			}
			if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
				t.Fatal("Create did not stamp timestamps")
			}

			got, err := store.Get(ctx, "rec-1")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if got == nil || got.Filename != "1-a.mp3" {
				t.Fatalf("Get returned %+v", got)
			}

			missing, err := store.Get(ctx, "nope")
			if err != nil || missing != nil {
				t.Fatalf("Get(missing) = %+v, %v; want nil, nil", missing, err)
			}
		})
	}
}

func TestStoreRejectsDuplicates(t *testing.T) {
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if _, err := store.Create(ctx, newRecord("rec-1", "1-a.mp3")); err != nil {
				t.Fatalf("Create: %v", err)
			}
			if _, err := store.Create(ctx, newRecord("rec-1", "2-b.mp3")); !errors.Is(err, services.ErrDuplicateRecording) {
				t.Fatalf("duplicate id error = %v, want ErrDuplicateRecording", err)
			}
			if _, err := store.Create(ctx, newRecord("rec-2", "1-a.mp3")); !errors.Is(err, services.ErrDuplicateRecording) {
				t.Fatalf("duplicate filename error = %v, want ErrDuplicateRecording", err)
			}
		})
	}
}

func TestStoreFindByFilename(t *testing.T) {
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if _, err := store.Create(ctx, newRecord("rec-1", "1-a.mp3")); err != nil {
				t.Fatalf("Create: %v", err)
			}

			got, err := store.FindByFilename(ctx, "1-a.mp3")
			if err != nil || got == nil || got.ID != "rec-1" {
				t.Fatalf("FindByFilename = %+v, %v", got, err)
			}
			missing, err := store.FindByFilename(ctx, "2-b.mp3")
			if err != nil || missing != nil {
				t.Fatalf("FindByFilename(missing) = %+v, %v; want nil, nil", missing, err)
			}
		})
	}
}

func TestStoreUpdateAppliesMutation(t *testing.T) {
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if _, err := store.Create(ctx, newRecord("rec-1", "1-a.mp3")); err != nil {
				t.Fatalf("Create: %v", err)
			}

			updated, err := store.Update(ctx, "rec-1", func(r *pipeline.Record) error {
				r.RawTranscript = "hello"
				r.Advance(pipeline.StageTranscribed)
				return nil
			})
			if err != nil {
				t.Fatalf("Update: %v", err)
			}
			if updated.RawTranscript != "hello" || updated.Stage != pipeline.StageTranscribed {
				t.Fatalf("Update returned %+v", updated)
			}

			got, err := store.Get(ctx, "rec-1")
			if err != nil || got.RawTranscript != "hello" {
				t.Fatalf("Get after update = %+v, %v", got, err)
			}
		})
	}
}

func TestStoreUpdateMutationErrorLeavesRecord(t *testing.T) {
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if _, err := store.Create(ctx, newRecord("rec-1", "1-a.mp3")); err != nil {
				t.Fatalf("Create: %v", err)
			}

			boom := errors.New("boom")
			if _, err := store.Update(ctx, "rec-1", func(r *pipeline.Record) error {
				r.RawTranscript = "partial"
				return boom
			}); !errors.Is(err, boom) {
				t.Fatalf("Update error = %v, want boom", err)
			}

			got, err := store.Get(ctx, "rec-1")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if got.RawTranscript != "" {
				t.Fatalf("mutation error leaked into store: %+v", got)
			}
		})
	}
}

func TestStoreUpdateMissingRecord(t *testing.T) {
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Update(context.Background(), "nope", func(r *pipeline.Record) error { return nil })
			if !errors.Is(err, services.ErrNotFound) {
				t.Fatalf("Update(missing) error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestStoreListAndStats(t *testing.T) {
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for _, rec := range []*pipeline.Record{
				newRecord("rec-1", "1-a.mp3"),
				newRecord("rec-2", "2-b.wav"),
			} {
				if _, err := store.Create(ctx, rec); err != nil {
					t.Fatalf("Create: %v", err)
				}
			}
			if _, err := store.Update(ctx, "rec-2", func(r *pipeline.Record) error {
				r.RawTranscript = "text"
				r.Advance(pipeline.StageTranscribed)
				return nil
			}); err != nil {
				t.Fatalf("Update: %v", err)
			}

			records, err := store.List(ctx)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(records) != 2 {
				t.Fatalf("List returned %d records", len(records))
			}

			stats, err := store.Stats(ctx)
			if err != nil {
				t.Fatalf("Stats: %v", err)
			}
			if stats[pipeline.StageUploaded] != 1 || stats[pipeline.StageTranscribed] != 1 {
				t.Fatalf("Stats = %v", stats)
			}
		})
	}
}

func TestStorePreservesActionItemDistinction(t *testing.T) {
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if _, err := store.Create(ctx, newRecord("rec-1", "1-a.mp3")); err != nil {
				t.Fatalf("Create: %v", err)
			}

			got, err := store.Get(ctx, "rec-1")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if got.ActionItems != nil {
				t.Fatalf("fresh record should have nil action items, got %v", got.ActionItems)
			}

			if _, err := store.Update(ctx, "rec-1", func(r *pipeline.Record) error {
				r.ActionItems = []string{}
				return nil
			}); err != nil {
				t.Fatalf("Update: %v", err)
			}

			got, err = store.Get(ctx, "rec-1")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if got.ActionItems == nil {
				t.Fatal("extracted-but-empty action items should round-trip as empty, not nil")
			}
		})
	}
}

func TestStoreUpdateSerializesPerRecord(t *testing.T) {
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if _, err := store.Create(ctx, newRecord("rec-1", "1-a.mp3")); err != nil {
				t.Fatalf("Create: %v", err)
			}

			const workers = 50
			var wg sync.WaitGroup
			wg.Add(workers)
			for i := 0; i < workers; i++ {
				go func(n int) {
					defer wg.Done()
					_, err := store.Update(ctx, "rec-1", func(r *pipeline.Record) error {
						r.ActionItems = append(r.ActionItems, fmt.Sprintf("item-%d", n))
						return nil
					})
					if err != nil {
						t.Errorf("Update: %v", err)
					}
				}(i)
			}
			wg.Wait()

			got, err := store.Get(ctx, "rec-1")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			// Every mutation must land exactly once; interleaved partial
			// writes would drop appends.
			if len(got.ActionItems) != workers {
				t.Fatalf("action items = %d, want %d", len(got.ActionItems), workers)
			}
			seen := make(map[string]struct{}, workers)
			for _, item := range got.ActionItems {
				if _, dup := seen[item]; dup {
					t.Fatalf("duplicate append %q", item)
				}
				seen[item] = struct{}{}
			}
		})
	}
}

func TestStageOrdering(t *testing.T) {
	stages := pipeline.AllStages()
	for i := 1; i < len(stages); i++ {
		if !stages[i].AtLeast(stages[i-1]) {
			t.Fatalf("stage %s should be at least %s", stages[i], stages[i-1])
		}
		if stages[i-1].AtLeast(stages[i]) {
			t.Fatalf("stage %s should not be at least %s", stages[i-1], stages[i])
		}
	}

	rec := &pipeline.Record{Stage: pipeline.StageEdited}
	rec.Advance(pipeline.StageTranscribed)
	if rec.Stage != pipeline.StageEdited {
		t.Fatalf("Advance moved stage backwards to %s", rec.Stage)
	}
	rec.Advance(pipeline.StageMinutesGenerated)
	if rec.Stage != pipeline.StageMinutesGenerated {
		t.Fatalf("Advance did not raise stage, got %s", rec.Stage)
	}
}
