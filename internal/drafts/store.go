package drafts

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/samvaad/backend/internal/storage/kv"
	"github.com/samvaad/backend/internal/storage/models"
	"github.com/samvaad/backend/pkg/logger"
)

const storageKey = "drafts"

var ErrNotFound = errors.New("draft not found")

// Store is the source of truth for which drafts exist. The whole collection
// lives under one key in the durable store.
type Store struct {
	store kv.Store
}

func NewStore(store kv.Store) *Store {
	return &Store{store: store}
}

func (s *Store) Create(title, date, description string) (*models.Draft, error) {
	existing, err := s.load()
	if err != nil {
		return nil, err
	}

	// Millisecond timestamps collide under rapid creation, so bump past any
	// existing ID to keep them strictly increasing.
	id := time.Now().UnixMilli()
	for _, d := range existing {
		if d.ID >= id {
			id = d.ID + 1
		}
	}

	draft := models.Draft{
		ID:          id,
		Title:       title,
		Date:        date,
		Description: description,
	}

	if err := s.save(append(existing, draft)); err != nil {
		return nil, err
	}

	logger.Info("Draft created", zap.Int64("draft_id", draft.ID), zap.String("title", draft.Title))
	return &draft, nil
}

func (s *Store) List() ([]models.Draft, error) {
	return s.load()
}

func (s *Store) Get(id int64) (*models.Draft, error) {
	all, err := s.load()
	if err != nil {
		return nil, err
	}

	for _, d := range all {
		if d.ID == id {
			return &d, nil
		}
	}

	return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
}

// Search matches the term case-insensitively against title and description.
func (s *Store) Search(term string) ([]models.Draft, error) {
	all, err := s.load()
	if err != nil {
		return nil, err
	}

	term = strings.ToLower(term)
	var matched []models.Draft
	for _, d := range all {
		if strings.Contains(strings.ToLower(d.Title), term) ||
			strings.Contains(strings.ToLower(d.Description), term) {
			matched = append(matched, d)
		}
	}

	return matched, nil
}

func (s *Store) load() ([]models.Draft, error) {
	raw, ok, err := s.store.Get(storageKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var all []models.Draft
	if err := json.Unmarshal([]byte(raw), &all); err != nil {
		// Malformed stored data must not take the reader down.
		logger.Warn("Stored draft collection is malformed, treating as empty", zap.Error(err))
		return nil, nil
	}

	return all, nil
}

func (s *Store) save(all []models.Draft) error {
	data, err := json.Marshal(all)
	if err != nil {
		return fmt.Errorf("failed to marshal drafts: %w", err)
	}

	return s.store.Set(storageKey, string(data))
}
