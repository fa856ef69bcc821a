package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog/log"

	"sudokuarena/internal/model"
)

// Data is the full persisted document: one named collection per entity type.
type Data struct {
	Users          []*model.User          `json:"users"`
	Rooms          []*model.Room          `json:"rooms"`
	FriendRequests []*model.FriendRequest `json:"friendRequests"`
	Notifications  []*model.Notification  `json:"notifications"`
	Puzzles        []*model.Puzzle        `json:"puzzles"`
	Challenges     []*model.Challenge     `json:"challenges"`
}

// heal makes sure every collection exists, so a partially-initialized or
// hand-edited file never surfaces nil collections to callers.
func (d *Data) heal() {
	if d.Users == nil {
		d.Users = []*model.User{}
	}
	if d.Rooms == nil {
		d.Rooms = []*model.Room{}
	}
	if d.FriendRequests == nil {
		d.FriendRequests = []*model.FriendRequest{}
	}
	if d.Notifications == nil {
		d.Notifications = []*model.Notification{}
	}
	if d.Puzzles == nil {
		d.Puzzles = []*model.Puzzle{}
	}
	if d.Challenges == nil {
		d.Challenges = []*model.Challenge{}
	}
}

// Store is the single source of truth for all collections, backed by one JSON
// file. The in-memory document is authoritative; every successful Update
// queues a snapshot for the writer goroutine, which persists snapshots
// strictly in submission order. Two concurrent mutations can therefore never
// interleave partial writes in the file.
type Store struct {
	path string

	mu   sync.RWMutex
	data *Data

	writes    chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

// Open reads the backing file (a missing file starts an empty store) and
// starts the write queue.
func Open(path string) (*Store, error) {
	s := &Store{
		path:   path,
		writes: make(chan []byte, 64),
		done:   make(chan struct{}),
	}
	if err := s.Read(); err != nil {
		return nil, err
	}
	go s.writer()
	return s, nil
}

// Read loads the backing file into memory, replacing the current document.
func (s *Store) Read() error {
	data := &Data{}
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("read store %s: %w", s.path, err)
		}
	} else if len(raw) > 0 {
		if err := json.Unmarshal(raw, data); err != nil {
			return fmt.Errorf("decode store %s: %w", s.path, err)
		}
	}
	data.heal()

	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
	return nil
}

// View runs fn with shared read access to the document. fn must not mutate
// it or retain references past the call.
func (s *Store) View(fn func(*Data)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.data)
}

// Update runs fn with exclusive access to the document. If fn returns nil
// the mutated document is snapshotted and queued for persistence; the
// mutation is visible to readers immediately, before the file write lands.
// A failed file write is logged, never surfaced to the caller.
func (s *Store) Update(fn func(*Data) error) error {
	s.mu.Lock()
	if err := fn(s.data); err != nil {
		s.mu.Unlock()
		return err
	}
	raw, err := json.MarshalIndent(s.data, "", "  ")
	s.mu.Unlock()

	if err != nil {
		// The in-memory mutation stands; only persistence is skipped.
		log.Error().Err(err).Msg("store: encoding snapshot failed")
		return nil
	}
	s.writes <- raw
	return nil
}

func (s *Store) writer() {
	defer close(s.done)
	for raw := range s.writes {
		if err := os.WriteFile(s.path, raw, 0o644); err != nil {
			log.Error().Err(err).Str("path", s.path).Msg("store: write failed")
		}
	}
}

// Close drains all queued writes and stops the writer.
func (s *Store) Close() {
	s.closeOnce.Do(func() { close(s.writes) })
	<-s.done
}
