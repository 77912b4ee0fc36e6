package usecase

import (
	"catalog-service/internal/adapters/memory"
	"catalog-service/internal/core/domain"
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func fptr(v float64) *float64 { return &v }

type recordedEvent struct {
	name     string
	property domain.Property
}

// recordingEvents запоминает опубликованные события.
type recordingEvents struct {
	mu     sync.Mutex
	events []recordedEvent
	err    error
}

func (r *recordingEvents) record(name string, p domain.Property) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{name: name, property: p})
	return r.err
}

func (r *recordingEvents) PropertyCreated(_ context.Context, p domain.Property) error {
	return r.record("created", p)
}
func (r *recordingEvents) PropertyUpdated(_ context.Context, p domain.Property) error {
	return r.record("updated", p)
}
func (r *recordingEvents) PropertyDeleted(_ context.Context, p domain.Property) error {
	return r.record("deleted", p)
}

func createN(t *testing.T, store *memory.Store, n int, name string, price float64) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := store.Create(context.Background(), domain.NewProperty{
			IdOwner: 1, Name: fmt.Sprintf("%s %d", name, i), Price: price, Address: "Calle 1",
		})
		require.NoError(t, err)
	}
}

func TestListPropertiesPagination(t *testing.T) {
	store := memory.NewStore()
	createN(t, store, 11, "Casa", 150000)
	uc := NewListPropertiesUseCase(store, 9)
	ctx := context.Background()

	first, err := uc.Execute(ctx, domain.ListFilters{}, 1)
	require.NoError(t, err)
	assert.Len(t, first.Items, 9)
	assert.Equal(t, 11, first.TotalCount)
	assert.Equal(t, 2, first.TotalPages)
	assert.Equal(t, 9, first.PageSize)
	assert.Equal(t, domain.StrategyAll, first.Strategy)

	second, err := uc.Execute(ctx, domain.ListFilters{}, 2)
	require.NoError(t, err)
	assert.Len(t, second.Items, 2)
	assert.Equal(t, 2, second.Page)
	assert.Equal(t, "Casa 9", second.Items[0].Name)
}

func TestListPropertiesPageBeyondRangeIsEmpty(t *testing.T) {
	store := memory.NewStore()
	createN(t, store, 11, "Casa", 150000)
	uc := NewListPropertiesUseCase(store, 9)

	result, err := uc.Execute(context.Background(), domain.ListFilters{}, 5)
	require.NoError(t, err)
	assert.NotNil(t, result.Items)
	assert.Empty(t, result.Items)
	assert.Equal(t, 11, result.TotalCount)
	assert.Equal(t, 2, result.TotalPages)
	assert.Equal(t, 5, result.Page)
}

func TestListPropertiesHugePageIsEmpty(t *testing.T) {
	store := memory.NewStore()
	createN(t, store, 3, "Casa", 150000)
	uc := NewListPropertiesUseCase(store, 9)

	result, err := uc.Execute(context.Background(), domain.ListFilters{}, 1024819115206086202)
	require.NoError(t, err)
	assert.Empty(t, result.Items)
	assert.Equal(t, 3, result.TotalCount)
	assert.Equal(t, 1, result.TotalPages)
	assert.Equal(t, 1024819115206086202, result.Page)
}

func TestListPropertiesAnyPageBeyondRangeIsEmpty(t *testing.T) {
	store := memory.NewStore()
	createN(t, store, 11, "Casa", 150000)
	uc := NewListPropertiesUseCase(store, 9)

	rapid.Check(t, func(t *rapid.T) {
		page := rapid.IntRange(3, math.MaxInt).Draw(t, "page")

		result, err := uc.Execute(context.Background(), domain.ListFilters{}, page)
		if err != nil {
			t.Fatalf("page %d: unexpected error %v", page, err)
		}
		if len(result.Items) != 0 {
			t.Fatalf("page %d: expected no items, got %d", page, len(result.Items))
		}
		if result.TotalCount != 11 || result.TotalPages != 2 {
			t.Fatalf("page %d: totals %d/%d", page, result.TotalCount, result.TotalPages)
		}
	})
}

// panickingStore падает при выборке страницы.
type panickingStore struct {
	*memory.Store
}

func (panickingStore) Find(context.Context, domain.PropertyFilter, domain.PageRequest) ([]domain.Property, error) {
	panic("slice bounds out of range")
}

func TestListPropertiesStoragePanicBecomesError(t *testing.T) {
	uc := NewListPropertiesUseCase(panickingStore{Store: memory.NewStore()}, 9)

	result, err := uc.Execute(context.Background(), domain.ListFilters{}, 1)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "slice bounds out of range")
}

func TestListPropertiesPageBelowOneIsFirstPage(t *testing.T) {
	store := memory.NewStore()
	createN(t, store, 3, "Casa", 150000)
	uc := NewListPropertiesUseCase(store, 2)
	ctx := context.Background()

	first, err := uc.Execute(ctx, domain.ListFilters{}, 1)
	require.NoError(t, err)

	for _, page := range []int{0, -1, -100} {
		got, err := uc.Execute(ctx, domain.ListFilters{}, page)
		require.NoError(t, err)
		assert.Equal(t, first, got)
	}
}

func TestListPropertiesNamePriceScenario(t *testing.T) {
	store := memory.NewStore()
	createN(t, store, 2, "Casa", 150000)
	createN(t, store, 1, "Casa", 250000)
	createN(t, store, 1, "Finca", 150000)
	uc := NewListPropertiesUseCase(store, 9)

	result, err := uc.Execute(context.Background(), domain.ListFilters{
		Name: "casa", MinPrice: fptr(100000), MaxPrice: fptr(200000),
	}, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StrategyNamePrice, result.Strategy)
	assert.Equal(t, 2, result.TotalCount)
	assert.Len(t, result.Items, 2)
}

func TestListPropertiesDefaultPageSize(t *testing.T) {
	uc := NewListPropertiesUseCase(memory.NewStore(), 0)

	result, err := uc.Execute(context.Background(), domain.ListFilters{}, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultPageSize, result.PageSize)
	assert.Equal(t, 0, result.TotalPages)
}

func TestListPropertiesPropagatesCancellation(t *testing.T) {
	uc := NewListPropertiesUseCase(memory.NewStore(), 9)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := uc.Execute(ctx, domain.ListFilters{}, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGetPropertyDetails(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	uc := NewGetPropertyDetailsUseCase(store, store, store)

	store.AddOwner(domain.Owner{IdOwner: 1, Name: "Ana", Email: "ana@test.com", Phone: "123"})
	created, err := store.Create(ctx, domain.NewProperty{IdOwner: 1, Name: "Casa", IdProperty: 5})
	require.NoError(t, err)
	store.AddTrace(domain.PropertyTrace{IdProperty: 5, Name: "Venta", Value: 100, Tax: 10, DateSale: time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)})

	view, found, err := uc.Execute(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, *created, view.Property)
	require.NotNil(t, view.Owner)
	assert.Equal(t, "Ana", view.Owner.Name)
	assert.Len(t, view.Traces, 1)
}

func TestGetPropertyDetailsWithoutOwnerAndTraces(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	uc := NewGetPropertyDetailsUseCase(store, store, store)

	created, err := store.Create(ctx, domain.NewProperty{IdOwner: 42, Name: "Casa"})
	require.NoError(t, err)

	view, found, err := uc.Execute(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Nil(t, view.Owner)
	assert.NotNil(t, view.Traces)
	assert.Empty(t, view.Traces)
}

func TestGetPropertyDetailsNotFound(t *testing.T) {
	store := memory.NewStore()
	uc := NewGetPropertyDetailsUseCase(store, store, store)

	view, found, err := uc.Execute(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, view)
}

type failingTraces struct{}

func (failingTraces) ListByIdProperty(context.Context, int) ([]domain.PropertyTrace, error) {
	return nil, errors.New("connection reset")
}

func TestGetPropertyDetailsPropagatesTraceFailure(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	uc := NewGetPropertyDetailsUseCase(store, store, failingTraces{})

	created, err := store.Create(ctx, domain.NewProperty{Name: "Casa"})
	require.NoError(t, err)

	_, _, err = uc.Execute(ctx, created.ID)
	assert.ErrorContains(t, err, "connection reset")
}

func TestCreateThenGetRoundTrip(t *testing.T) {
	store := memory.NewStore()
	events := &recordingEvents{}
	ctx := context.Background()

	created, err := NewCreatePropertyUseCase(store, events).Execute(ctx, domain.NewProperty{
		IdOwner: 3, Name: "Casa Blanca", Price: 321000, Address: "Av. Siempre Viva", Img: "casa.jpg",
		CodeInternal: "CB-1", Year: 1998,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	view, found, err := NewGetPropertyDetailsUseCase(store, store, store).Execute(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, *created, view.Property)

	require.Len(t, events.events, 1)
	assert.Equal(t, "created", events.events[0].name)
	assert.Equal(t, created.ID, events.events[0].property.ID)
}

func TestCreateSucceedsWhenEventPublishFails(t *testing.T) {
	store := memory.NewStore()
	events := &recordingEvents{err: errors.New("broker down")}

	created, err := NewCreatePropertyUseCase(store, events).Execute(context.Background(), domain.NewProperty{Name: "Casa"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
}

func TestUpdateProperty(t *testing.T) {
	store := memory.NewStore()
	events := &recordingEvents{}
	ctx := context.Background()
	uc := NewUpdatePropertyUseCase(store, events)

	created, err := store.Create(ctx, domain.NewProperty{
		IdOwner: 1, Name: "Old", Price: 1, Address: "A", Img: "a.jpg", IdProperty: 77, CodeInternal: "C77", Year: 1990,
	})
	require.NoError(t, err)

	found, err := uc.Execute(ctx, created.ID, domain.PropertyChanges{Name: "New", Price: 2, Address: "B", Img: "b.jpg"})
	require.NoError(t, err)
	require.True(t, found)

	got, err := store.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Property{
		ID: created.ID, IdOwner: 1, Name: "New", Price: 2, Address: "B", Img: "b.jpg",
		IdProperty: 77, CodeInternal: "C77", Year: 1990,
	}, *got)

	require.Len(t, events.events, 1)
	assert.Equal(t, "updated", events.events[0].name)
	assert.Equal(t, "New", events.events[0].property.Name)
}

func TestUpdatePropertyNotFound(t *testing.T) {
	store := memory.NewStore()
	events := &recordingEvents{}
	ctx := context.Background()

	existing, err := store.Create(ctx, domain.NewProperty{Name: "Keep"})
	require.NoError(t, err)

	found, err := NewUpdatePropertyUseCase(store, events).Execute(ctx, "missing", domain.PropertyChanges{Name: "X"})
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, events.events)

	got, err := store.GetByID(ctx, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, "Keep", got.Name)
}

func TestDeleteProperty(t *testing.T) {
	store := memory.NewStore()
	events := &recordingEvents{}
	ctx := context.Background()
	uc := NewDeletePropertyUseCase(store, events)

	created, err := store.Create(ctx, domain.NewProperty{Name: "Casa"})
	require.NoError(t, err)

	found, err := uc.Execute(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, found)

	_, found, err = NewGetPropertyDetailsUseCase(store, store, store).Execute(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, found)

	found, err = uc.Execute(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, found)

	require.Len(t, events.events, 1)
	assert.Equal(t, "deleted", events.events[0].name)
}

func TestMutationsWithoutEventsPort(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	created, err := NewCreatePropertyUseCase(store, nil).Execute(ctx, domain.NewProperty{Name: "Casa"})
	require.NoError(t, err)

	found, err := NewUpdatePropertyUseCase(store, nil).Execute(ctx, created.ID, domain.PropertyChanges{Name: "Casa 2"})
	require.NoError(t, err)
	assert.True(t, found)

	found, err = NewDeletePropertyUseCase(store, nil).Execute(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, found)
}
