/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeList struct {
	mu      sync.Mutex
	keys    []string
	entries [][]byte
	closed  int
}

func (f *fakeList) push(_ context.Context, key string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.keys = append(f.keys, key)
	f.entries = append(f.entries, data)

	return nil
}

func (f *fakeList) close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed++

	return nil
}

func TestJournalPushesRecordsInOrder(t *testing.T) {
	list := &fakeList{}
	j := startRedisJournal(quietConfig(), "empire:test", list.push, list.close)

	j.Record(ActionRecord{Code: "ABCDEF", Action: "join", ActorID: "p1", Details: map[string]any{"name": "Alice"}})
	j.Record(ActionRecord{Code: "ABCDEF", Action: "start", Timestamp: 42})

	require.NoError(t, j.Close())
	require.NoError(t, j.Close())

	list.mu.Lock()
	defer list.mu.Unlock()

	assert.Equal(t, 1, list.closed)
	assert.Equal(t, []string{"empire:test", "empire:test"}, list.keys)
	require.Len(t, list.entries, 2)

	var first, second ActionRecord
	require.NoError(t, json.Unmarshal(list.entries[0], &first))
	require.NoError(t, json.Unmarshal(list.entries[1], &second))

	assert.Equal(t, "join", first.Action)
	assert.Equal(t, "p1", first.ActorID)
	assert.Equal(t, "Alice", first.Details["name"])
	assert.NotZero(t, first.Timestamp)

	assert.Equal(t, "start", second.Action)
	assert.Equal(t, int64(42), second.Timestamp)
}

func TestJournalDropsWhenFull(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	var (
		mu     sync.Mutex
		pushed int
		once   sync.Once
	)

	push := func(context.Context, string, []byte) error {
		once.Do(func() { close(started) })
		<-release

		mu.Lock()
		pushed++
		mu.Unlock()

		return nil
	}

	j := startRedisJournal(quietConfig(), "empire:test", push, nil)

	j.Record(ActionRecord{Code: "ABCDEF", Action: "first"})
	<-started

	// The worker is stuck on the first record, so only the buffer is left.
	for range journalBuffer + 10 {
		j.Record(ActionRecord{Code: "ABCDEF", Action: "more"})
	}

	close(release)
	require.NoError(t, j.Close())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, journalBuffer+1, pushed)
}

func TestJournalRecordAfterClose(t *testing.T) {
	list := &fakeList{}
	j := startRedisJournal(quietConfig(), "empire:test", list.push, list.close)

	j.Record(ActionRecord{Code: "ABCDEF", Action: "join"})
	require.NoError(t, j.Close())

	assert.NotPanics(t, func() {
		j.Record(ActionRecord{Code: "ABCDEF", Action: "late"})
	})

	list.mu.Lock()
	defer list.mu.Unlock()
	assert.Len(t, list.entries, 1)
}

func TestNewJournalWithoutRedis(t *testing.T) {
	j, err := newJournal(context.Background(), quietConfig())
	require.NoError(t, err)

	assert.IsType(t, nopJournal{}, j)
	j.Record(ActionRecord{Action: "ignored"})
	assert.NoError(t, j.Close())
}
