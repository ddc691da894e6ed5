/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const journalBuffer = 256

// ActionRecord is one successful state change, as written to the journal.
type ActionRecord struct {
	Code      string         `json:"code"`
	Action    string         `json:"action"`
	ActorID   string         `json:"actor_id,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
	Timestamp int64          `json:"timestamp"`
}

// Journal keeps a best-effort log of game actions. Record must never block
// the request that produced the action.
type Journal interface {
	Record(rec ActionRecord)
	Close() error
}

type nopJournal struct{}

func (nopJournal) Record(ActionRecord) {}

func (nopJournal) Close() error { return nil }

// redisJournal pushes records onto a redis list from a single background
// worker, dropping them when the buffer is full.
type redisJournal struct {
	cfg *Config
	key string

	push  func(ctx context.Context, key string, data []byte) error
	close func() error

	// mu guards closed, so Record never sends on a closed channel.
	mu      sync.RWMutex
	closed  bool
	records chan ActionRecord
	wg      sync.WaitGroup
	once    sync.Once
}

func newJournal(ctx context.Context, cfg *Config) (Journal, error) {
	if cfg.redisAddr == "" {
		return nopJournal{}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.redisAddr,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.redisAddr, err)
	}

	logf(cfg, "START: Journaling actions to redis %s list %q", cfg.redisAddr, cfg.redisKey)

	return startRedisJournal(cfg, cfg.redisKey, func(ctx context.Context, key string, data []byte) error {
		return rdb.RPush(ctx, key, data).Err()
	}, rdb.Close), nil
}

func startRedisJournal(cfg *Config, key string, push func(context.Context, string, []byte) error, closeFn func() error) *redisJournal {
	j := &redisJournal{
		cfg:     cfg,
		key:     key,
		push:    push,
		close:   closeFn,
		records: make(chan ActionRecord, journalBuffer),
	}

	j.wg.Add(1)
	go j.run()

	return j
}

func (j *redisJournal) Record(rec ActionRecord) {
	if rec.Timestamp == 0 {
		rec.Timestamp = time.Now().UnixMilli()
	}

	j.mu.RLock()
	defer j.mu.RUnlock()

	if j.closed {
		errorf(j.cfg, "GAMES: Journal closed, dropped %s on %s", rec.Action, rec.Code)
		return
	}

	select {
	case j.records <- rec:
	default:
		errorf(j.cfg, "GAMES: Journal full, dropped %s on %s", rec.Action, rec.Code)
	}
}

func (j *redisJournal) run() {
	defer j.wg.Done()

	for rec := range j.records {
		data, err := json.Marshal(rec)
		if err != nil {
			errorf(j.cfg, "GAMES: Failed to marshal journal record: %v", err)
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := j.push(ctx, j.key, data); err != nil {
			errorf(j.cfg, "GAMES: Failed to RPush to redis list %q: %v", j.key, err)
		}
		cancel()
	}
}

// Close flushes queued records and releases the redis client. Records
// arriving afterwards are dropped.
func (j *redisJournal) Close() error {
	var err error

	j.once.Do(func() {
		j.mu.Lock()
		j.closed = true
		close(j.records)
		j.mu.Unlock()

		j.wg.Wait()

		if j.close != nil {
			err = j.close()
		}
	})

	return err
}
