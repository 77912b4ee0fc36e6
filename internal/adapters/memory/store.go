package memory

import (
	"catalog-service/internal/core/domain"
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
)

// Store - хранилище в памяти процесса. Реализует порты объектов, владельцев
// и истории продаж. Используется в тестах и при STORAGE_DRIVER=memory.
type Store struct {
	mu sync.RWMutex

	properties map[string]storedProperty
	owners     map[int]domain.Owner
	traces     []domain.PropertyTrace

	nextSeq        int64 // порядок вставки
	nextIdProperty int
}

type storedProperty struct {
	seq      int64
	property domain.Property
}

func NewStore() *Store {
	return &Store{
		properties: make(map[string]storedProperty),
		owners:     make(map[int]domain.Owner),
	}
}

// AddOwner добавляет владельца (владельцы в каталоге только читаются).
func (s *Store) AddOwner(owner domain.Owner) domain.Owner {
	s.mu.Lock()
	defer s.mu.Unlock()

	if owner.ID == "" {
		owner.ID = uuid.NewString()
	}
	s.owners[owner.IdOwner] = owner
	return owner
}

// AddTrace добавляет запись истории продаж.
func (s *Store) AddTrace(trace domain.PropertyTrace) domain.PropertyTrace {
	s.mu.Lock()
	defer s.mu.Unlock()

	if trace.ID == "" {
		trace.ID = uuid.NewString()
	}
	s.traces = append(s.traces, trace)
	return trace
}

func (s *Store) GetByID(ctx context.Context, id string) (*domain.Property, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.properties[id]
	if !ok {
		return nil, domain.ErrPropertyNotFound
	}
	p := stored.property
	return &p, nil
}

func (s *Store) Find(ctx context.Context, filter domain.PropertyFilter, page domain.PageRequest) ([]domain.Property, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	matched := s.matching(filter)

	start, end := page.Window(len(matched))
	if start == end {
		return []domain.Property{}, nil
	}
	return matched[start:end], nil
}

func (s *Store) Count(ctx context.Context, filter domain.PropertyFilter) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return len(s.matching(filter)), nil
}

func (s *Store) Create(ctx context.Context, np domain.NewProperty) (*domain.Property, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	idProperty := np.IdProperty
	if idProperty == 0 {
		s.nextIdProperty++
		idProperty = s.nextIdProperty
	} else if idProperty > s.nextIdProperty {
		s.nextIdProperty = idProperty
	}

	p := domain.Property{
		ID:           uuid.NewString(),
		IdOwner:      np.IdOwner,
		Name:         np.Name,
		Price:        np.Price,
		Address:      np.Address,
		Img:          np.Img,
		IdProperty:   idProperty,
		CodeInternal: np.CodeInternal,
		Year:         np.Year,
	}
	s.nextSeq++
	s.properties[p.ID] = storedProperty{seq: s.nextSeq, property: p}

	created := p
	return &created, nil
}

func (s *Store) Update(ctx context.Context, id string, changes domain.PropertyChanges) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.properties[id]
	if !ok {
		return fmt.Errorf("update %s: %w", id, domain.ErrPropertyNotFound)
	}
	stored.property.Apply(changes)
	s.properties[id] = stored
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.properties[id]; !ok {
		return fmt.Errorf("delete %s: %w", id, domain.ErrPropertyNotFound)
	}
	delete(s.properties, id)
	return nil
}

func (s *Store) GetByIdOwner(ctx context.Context, idOwner int) (*domain.Owner, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	owner, ok := s.owners[idOwner]
	if !ok {
		return nil, domain.ErrOwnerNotFound
	}
	return &owner, nil
}

func (s *Store) ListByIdProperty(ctx context.Context, idProperty int) ([]domain.PropertyTrace, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	traces := []domain.PropertyTrace{}
	for _, t := range s.traces {
		if t.IdProperty == idProperty {
			traces = append(traces, t)
		}
	}
	return traces, nil
}

// matching возвращает подходящие объекты в порядке вставки.
func (s *Store) matching(filter domain.PropertyFilter) []domain.Property {
	s.mu.RLock()
	stored := make([]storedProperty, 0, len(s.properties))
	for _, sp := range s.properties {
		if Matches(filter, sp.property) {
			stored = append(stored, sp)
		}
	}
	s.mu.RUnlock()

	sort.Slice(stored, func(i, j int) bool { return stored[i].seq < stored[j].seq })

	result := make([]domain.Property, len(stored))
	for i, sp := range stored {
		result[i] = sp.property
	}
	return result
}

// Matches проверяет объект на соответствие всем заданным предикатам.
func Matches(filter domain.PropertyFilter, p domain.Property) bool {
	if filter.Name != nil && !containsFold(p.Name, *filter.Name) {
		return false
	}
	if filter.Address != nil && !containsFold(p.Address, *filter.Address) {
		return false
	}
	if filter.MinPrice != nil && p.Price < *filter.MinPrice {
		return false
	}
	if filter.MaxPrice != nil && p.Price > *filter.MaxPrice {
		return false
	}
	return true
}

// containsFold - поиск подстроки без учета регистра (Unicode case folding).
func containsFold(s, substr string) bool {
	// cases.Caser хранит состояние, поэтому создается на каждый вызов
	return strings.Contains(cases.Fold().String(s), cases.Fold().String(substr))
}
