package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"math"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/idilsaglam/tasks/internal/model"
)

var (
	ErrEmptyInput = errors.New("task text is empty")
	ErrNotFound   = errors.New("task not found")
)

// Store owns the item sequence and mirrors it to a Slot after every
// mutation. Newest items sit at index 0.
//
// A Store is not safe for concurrent use; callers run it from a single
// goroutine (the CLI command or the bubbletea update loop).
type Store struct {
	slot   Slot
	key    string
	log    *zap.Logger
	now    func() time.Time
	items  []model.Item
	nextID int64
}

type Option func(*Store)

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithKey changes the slot key (DefaultKey otherwise).
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New returns an empty store over slot. Call Load to pick up prior state.
func New(slot Slot, opts ...Option) *Store {
	s := &Store{
		slot:   slot,
		key:    DefaultKey,
		log:    zap.NewNop(),
		now:    time.Now,
		nextID: 1,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Load replaces the in-memory sequence with the persisted snapshot.
// A missing or unreadable snapshot leaves the store empty; the failure
// is logged, not returned.
func (s *Store) Load() {
	s.items = nil
	s.nextID = 1

	b, err := s.slot.Read(s.key)
	if err != nil {
		if !errors.Is(err, ErrNoSnapshot) {
			s.log.Warn("load snapshot", zap.String("key", s.key), zap.Error(err))
		}
		return
	}
	var raw []model.Item
	if err := json.Unmarshal(b, &raw); err != nil {
		s.log.Warn("parse snapshot", zap.String("key", s.key), zap.Error(err))
		return
	}

	seen := make(map[int64]bool, len(raw))
	items := make([]model.Item, 0, len(raw))
	for _, it := range raw {
		it.Text = strings.TrimSpace(it.Text)
		if it.Text == "" || seen[it.ID] || it.ID == math.MaxInt64 {
			s.log.Warn("drop invalid record", zap.Int64("id", it.ID), zap.String("text", it.Text))
			continue
		}
		seen[it.ID] = true
		items = append(items, it)
		if it.ID >= s.nextID {
			s.nextID = it.ID + 1
		}
	}
	s.items = items
	s.log.Debug("snapshot loaded", zap.String("key", s.key), zap.Int("items", len(items)))
}

// Persist writes the full sequence to the slot.
func (s *Store) Persist() error {
	items := s.items
	if items == nil {
		items = []model.Item{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if err := s.slot.Write(s.key, b); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// sync persists after a mutation. Failure costs durability only.
func (s *Store) sync(op string) {
	if err := s.Persist(); err != nil {
		s.log.Warn("persist failed; change kept in memory",
			zap.String("op", op), zap.String("key", s.key), zap.Error(err))
	}
}

// Create adds a new pending item at the front of the sequence.
func (s *Store) Create(text string) (model.Item, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Item{}, ErrEmptyInput
	}
	it := model.Item{
		ID:        s.nextID,
		Text:      text,
		CreatedAt: s.now().UTC(),
	}
	s.nextID++
	s.items = slices.Insert(s.items, 0, it)
	s.sync("create")
	return it, nil
}

// Toggle flips the completion flag of the item with the given id.
func (s *Store) Toggle(id int64) (model.Item, error) {
	i := s.index(id)
	if i < 0 {
		return model.Item{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	s.items[i].Completed = !s.items[i].Completed
	s.sync("toggle")
	return s.items[i], nil
}

// Delete removes the item with the given id.
func (s *Store) Delete(id int64) error {
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	s.items = slices.Delete(s.items, i, i+1)
	s.sync("delete")
	return nil
}

// Get returns a copy of the item with the given id.
func (s *Store) Get(id int64) (model.Item, error) {
	i := s.index(id)
	if i < 0 {
		return model.Item{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return s.items[i], nil
}

// List yields copies of the items matching f, newest first. The view is
// computed as it is ranged over.
func (s *Store) List(f model.Filter) iter.Seq[model.Item] {
	return func(yield func(model.Item) bool) {
		for _, it := range s.items {
			if !f.Match(it) {
				continue
			}
			if !yield(it) {
				return
			}
		}
	}
}

// Items collects List(f).
func (s *Store) Items(f model.Filter) []model.Item {
	out := []model.Item{}
	for it := range s.List(f) {
		out = append(out, it)
	}
	return out
}

func (s *Store) Counts() model.Counts {
	return model.Count(s.items)
}

func (s *Store) index(id int64) int {
	return slices.IndexFunc(s.items, func(it model.Item) bool { return it.ID == id })
}
