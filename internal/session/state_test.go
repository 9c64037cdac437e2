package session_test

import (
	"sync"
	"testing"

	"pastforward/internal/era"
	"pastforward/internal/session"
)

func TestApplyReturnsConsistentSnapshot(t *testing.T) {
	state := session.NewState(session.NewBatchItems([]era.Key{era.Era1950s, era.Era1980s}))

	snapshot := state.Apply(era.Era1950s, session.ItemRecord{
		Status:   session.StatusDone,
		ImageRef: "media/1950s.png",
	})

	if snapshot[era.Era1950s].Status != session.StatusDone {
		t.Fatalf("snapshot missing applied update: %+v", snapshot[era.Era1950s])
	}
	if snapshot[era.Era1980s].Status != session.StatusPending {
		t.Fatalf("snapshot lost untouched record: %+v", snapshot[era.Era1980s])
	}

	// Mutating the snapshot must not affect the state.
	snapshot[era.Era1980s] = session.ItemRecord{Status: session.StatusError}
	if rec, _ := state.Get(era.Era1980s); rec.Status != session.StatusPending {
		t.Fatalf("state mutated through snapshot: %+v", rec)
	}
}

func TestBeginRefusesBusyEra(t *testing.T) {
	state := session.NewState(session.NewBatchItems([]era.Key{era.Era1960s}))

	if !state.Begin(era.Era1960s) {
		t.Fatal("first Begin should succeed")
	}
	if state.Begin(era.Era1960s) {
		t.Fatal("second Begin on busy era should be refused")
	}
	state.End(era.Era1960s)
	if !state.Begin(era.Era1960s) {
		t.Fatal("Begin after End should succeed")
	}
}

func TestConcurrentApplyKeepsAllRecords(t *testing.T) {
	keys := era.All()
	state := session.NewState(session.NewBatchItems(keys))

	var wg sync.WaitGroup
	for _, key := range keys {
		wg.Add(1)
		go func(key era.Key) {
			defer wg.Done()
			state.Apply(key, session.ItemRecord{Status: session.StatusDone, ImageRef: "media/" + string(key) + ".png"})
		}(key)
	}
	wg.Wait()

	snapshot := state.Snapshot()
	for _, key := range keys {
		if snapshot[key].Status != session.StatusDone {
			t.Fatalf("%s: expected done, got %+v", key, snapshot[key])
		}
	}
}
