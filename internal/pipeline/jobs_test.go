package pipeline

import (
	"testing"
	"time"

	"github.com/bookstruct/bookstruct/internal/book"
)

func TestContentHashHex_Consistency(t *testing.T) {
	data := []byte("hello world")
	h1 := ContentHashHex(data)
	h2 := ContentHashHex(data)
	if h1 != h2 {
		t.Errorf("expected identical hashes, got %q and %q", h1, h2)
	}
	// SHA-256 of "hello world" is well-known.
	want := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if h1 != want {
		t.Errorf("expected hash %q, got %q", want, h1)
	}
}

func TestContentHashHex_DifferentInputs(t *testing.T) {
	h1 := ContentHashHex([]byte("aaa"))
	h2 := ContentHashHex([]byte("bbb"))
	if h1 == h2 {
		t.Error("expected different hashes for different inputs")
	}
}

func TestJob_StateTransitions(t *testing.T) {
	job := &Job{
		ID:        "test-1",
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	transitions := []struct {
		status JobStatus
		phase  string
	}{
		{StatusExtracting, "extracting runs"},
		{StatusClassifying, "classifying"},
		{StatusCompleted, "done"},
	}

	for _, tr := range transitions {
		before := job.UpdatedAt
		// Small sleep to ensure time difference is detectable.
		time.Sleep(time.Millisecond)
		job.SetStatus(tr.status, tr.phase)

		if job.Status != tr.status {
			t.Errorf("expected status %q, got %q", tr.status, job.Status)
		}
		if job.Phase != tr.phase {
			t.Errorf("expected phase %q, got %q", tr.phase, job.Phase)
		}
		if !job.UpdatedAt.After(before) {
			t.Errorf("expected UpdatedAt to advance after SetStatus(%q)", tr.status)
		}
	}
}

func TestJob_AddError(t *testing.T) {
	job := &Job{ID: "err-test", UpdatedAt: time.Now()}
	job.AddError("page 3 unreadable")
	job.AddError("page 7 unreadable")

	snap := job.Snapshot()
	if len(snap.Progress.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(snap.Progress.Errors))
	}
	if snap.Progress.Errors[0] != "page 3 unreadable" {
		t.Errorf("expected first error %q, got %q", "page 3 unreadable", snap.Progress.Errors[0])
	}
}

func TestJob_SetExtracted(t *testing.T) {
	job := &Job{ID: "extract-test", UpdatedAt: time.Now()}
	job.SetExtracted(320, 15000)

	snap := job.Snapshot()
	if snap.Progress.Pages != 320 {
		t.Errorf("expected 320 pages, got %d", snap.Progress.Pages)
	}
	if snap.Progress.Runs != 15000 {
		t.Errorf("expected 15000 runs, got %d", snap.Progress.Runs)
	}
}

func TestJob_SetOutcome(t *testing.T) {
	root := &book.Node{Kind: book.KindRoot}
	ch := &book.Node{Kind: book.KindChapter, Title: "One", Number: 1}
	ch.AddChild(&book.Node{Kind: book.KindBlock, Block: &book.Block{Role: book.RoleBody, Text: "x"}})
	root.AddChild(ch)

	job := &Job{ID: "outcome-test", UpdatedAt: time.Now()}
	job.SetOutcome(&Result{
		Root:      root,
		Warnings:  []book.Warning{{Code: book.WarnNoChapters}},
		FromCache: true,
	})

	snap := job.Snapshot()
	if snap.Progress.Chapters != 1 {
		t.Errorf("expected 1 chapter, got %d", snap.Progress.Chapters)
	}
	if snap.Progress.Blocks != 1 {
		t.Errorf("expected 1 block, got %d", snap.Progress.Blocks)
	}
	if snap.Progress.Warnings != 1 {
		t.Errorf("expected 1 warning, got %d", snap.Progress.Warnings)
	}
	if !snap.Progress.FromCache {
		t.Error("expected from_cache to be set")
	}
	if job.Result() == nil {
		t.Error("expected result to be retained")
	}
}

func TestJob_FileData(t *testing.T) {
	job := &Job{ID: "data-test"}
	data := []byte("file content here")
	job.SetFileData(data)
	got := job.FileData()
	if string(got) != string(data) {
		t.Errorf("expected file data %q, got %q", data, got)
	}
}

func TestJob_SnapshotErrorsNotNil(t *testing.T) {
	// Snapshot should always return non-nil errors slice.
	job := &Job{ID: "snap-test", UpdatedAt: time.Now()}
	snap := job.Snapshot()
	if snap.Progress.Errors == nil {
		t.Error("expected non-nil errors slice in snapshot")
	}
	if len(snap.Progress.Errors) != 0 {
		t.Errorf("expected empty errors, got %d", len(snap.Progress.Errors))
	}
}

func TestJobStore_PutGet(t *testing.T) {
	store := NewJobStore(time.Hour)
	job := &Job{ID: "store-1", UpdatedAt: time.Now()}
	store.Put(job)

	got := store.Get("store-1")
	if got == nil {
		t.Fatal("expected to get job back")
	}
	if got.ID != "store-1" {
		t.Errorf("expected ID %q, got %q", "store-1", got.ID)
	}
}

func TestJobStore_GetMissing(t *testing.T) {
	store := NewJobStore(time.Hour)
	if store.Get("nonexistent") != nil {
		t.Error("expected nil for missing job")
	}
}

func TestJobStore_ByBookReturnsLatest(t *testing.T) {
	store := NewJobStore(time.Hour)
	old := &Job{ID: "j1", BookID: "b", UpdatedAt: time.Now().Add(-time.Minute)}
	fresh := &Job{ID: "j2", BookID: "b", UpdatedAt: time.Now()}
	other := &Job{ID: "j3", BookID: "other", UpdatedAt: time.Now()}
	store.Put(old)
	store.Put(fresh)
	store.Put(other)

	got := store.ByBook("b")
	if got == nil || got.ID != "j2" {
		t.Fatalf("expected latest job j2, got %+v", got)
	}
	if store.ByBook("unknown") != nil {
		t.Error("expected nil for unknown book")
	}
}

func TestJobStore_TTLCleanup(t *testing.T) {
	store := NewJobStore(50 * time.Millisecond)

	expired := &Job{ID: "old", UpdatedAt: time.Now()}
	store.Put(expired)

	// Wait for the TTL to pass.
	time.Sleep(100 * time.Millisecond)

	// Add a fresh job.
	fresh := &Job{ID: "new", UpdatedAt: time.Now()}
	store.Put(fresh)

	store.Cleanup()

	if store.Get("old") != nil {
		t.Error("expected expired job to be cleaned up")
	}
	if store.Get("new") == nil {
		t.Error("expected fresh job to survive cleanup")
	}
}
