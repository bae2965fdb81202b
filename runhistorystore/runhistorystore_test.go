package runhistorystore

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/sandeepkv93/mergesort-visualizer/mergesortengine"
)

func newTestStore(t *testing.T, maxRuns int) *Store {
	t.Helper()
	store, err := OpenStore(StoreConfig{
		Path:    filepath.Join(t.TempDir(), "runs.db"),
		MaxRuns: maxRuns,
	})
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sortRun(t *testing.T, values []int) *mergesortengine.RunResult {
	t.Helper()
	engine := mergesortengine.NewEngine(mergesortengine.DefaultEngineConfig())
	result, err := mergesortengine.SortInts(engine, values)
	if err != nil {
		t.Fatalf("Sort failed: %v", err)
	}
	return result
}

func TestDefaultStoreConfig(t *testing.T) {
	config := DefaultStoreConfig()

	if config.MaxRuns != 100 {
		t.Errorf("Expected max runs 100, got %d", config.MaxRuns)
	}
	if config.Path == "" {
		t.Error("Expected a default database path")
	}
}

func TestOpenStoreRequiresPath(t *testing.T) {
	if _, err := OpenStore(StoreConfig{}); err == nil {
		t.Error("Expected error for empty path")
	}
}

func TestSaveAndGetRun(t *testing.T) {
	store := newTestStore(t, 10)
	result := sortRun(t, []int{3, 1, 2})

	id, err := store.SaveRun(result)
	if err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}
	if id == "" {
		t.Fatal("Expected a non-empty run ID")
	}

	run, err := store.GetRun(id)
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if run.ID != id {
		t.Errorf("Expected ID %s, got %s", id, run.ID)
	}
	if run.InputSize != 3 {
		t.Errorf("Expected input size 3, got %d", run.InputSize)
	}
	if run.CreatedAt.IsZero() {
		t.Error("Expected a creation timestamp")
	}
	if len(run.Result.Sorted) != 3 || run.Result.Sorted[0].Value != 1 {
		t.Errorf("Stored result corrupted: %v", run.Result.Sorted)
	}
	if run.Result.Stats.Comparisons != result.Stats.Comparisons {
		t.Errorf("Expected %d comparisons, got %d", result.Stats.Comparisons, run.Result.Stats.Comparisons)
	}
}

func TestSaveNilRun(t *testing.T) {
	store := newTestStore(t, 10)

	if _, err := store.SaveRun(nil); err == nil {
		t.Error("Expected error for nil result")
	}
}

func TestGetRunNotFound(t *testing.T) {
	store := newTestStore(t, 10)

	_, err := store.GetRun("no-such-run")
	if !errors.Is(err, ErrRunNotFound) {
		t.Errorf("Expected ErrRunNotFound, got %v", err)
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	store := newTestStore(t, 10)

	var ids []string
	for _, values := range [][]int{{2, 1}, {3, 2, 1}, {4, 3, 2, 1}} {
		id, err := store.SaveRun(sortRun(t, values))
		if err != nil {
			t.Fatalf("SaveRun failed: %v", err)
		}
		ids = append(ids, id)
		time.Sleep(2 * time.Millisecond)
	}

	summaries, err := store.ListRuns()
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(summaries) != 3 {
		t.Fatalf("Expected 3 runs, got %d", len(summaries))
	}

	if summaries[0].ID != ids[2] || summaries[2].ID != ids[0] {
		t.Errorf("Expected newest first ordering, got %v (saved %v)", summaries, ids)
	}
	if summaries[0].InputSize != 4 {
		t.Errorf("Expected newest run to have input size 4, got %d", summaries[0].InputSize)
	}
	if summaries[0].Steps == 0 || summaries[0].Comparisons == 0 {
		t.Errorf("Summary should carry statistics, got %+v", summaries[0])
	}
}

func TestEvictionKeepsNewestRuns(t *testing.T) {
	store := newTestStore(t, 2)

	var ids []string
	for i := 0; i < 4; i++ {
		id, err := store.SaveRun(sortRun(t, []int{2, 1}))
		if err != nil {
			t.Fatalf("SaveRun failed: %v", err)
		}
		ids = append(ids, id)
		time.Sleep(2 * time.Millisecond)
	}

	summaries, err := store.ListRuns()
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("Expected history capped at 2 runs, got %d", len(summaries))
	}
	if summaries[0].ID != ids[3] || summaries[1].ID != ids[2] {
		t.Errorf("Expected the two newest runs to survive, got %v", summaries)
	}

	// Evicted runs are gone from the index too.
	if _, err := store.GetRun(ids[0]); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("Expected evicted run to be gone, got %v", err)
	}
}

func TestDeleteRun(t *testing.T) {
	store := newTestStore(t, 10)

	id, err := store.SaveRun(sortRun(t, []int{2, 1}))
	if err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}

	if err := store.DeleteRun(id); err != nil {
		t.Fatalf("DeleteRun failed: %v", err)
	}
	if _, err := store.GetRun(id); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("Expected ErrRunNotFound after delete, got %v", err)
	}
	if err := store.DeleteRun(id); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("Expected ErrRunNotFound for double delete, got %v", err)
	}

	summaries, err := store.ListRuns()
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(summaries) != 0 {
		t.Errorf("Expected empty history, got %d runs", len(summaries))
	}
}

func TestStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")

	store, err := OpenStore(StoreConfig{Path: path, MaxRuns: 10})
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	id, err := store.SaveRun(sortRun(t, []int{3, 1, 2}))
	if err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := OpenStore(StoreConfig{Path: path, MaxRuns: 10})
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	defer reopened.Close()

	run, err := reopened.GetRun(id)
	if err != nil {
		t.Fatalf("GetRun after reopen failed: %v", err)
	}
	if run.InputSize != 3 {
		t.Errorf("Expected input size 3 after reopen, got %d", run.InputSize)
	}
}
