package rest

import (
	"catalog-service/internal/adapters/memory"
	"catalog-service/internal/contextkeys"
	"catalog-service/internal/contracts"
	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/usecase"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	server *httptest.Server
	store  *memory.Store
}

func newHandler(t *testing.T, store *memory.Store) *PropertyHandler {
	t.Helper()
	validator, err := contracts.NewRequestValidator()
	require.NoError(t, err)

	h, err := NewPropertyHandler(
		usecase.NewListPropertiesUseCase(store, 9),
		usecase.NewGetPropertyDetailsUseCase(store, store, store),
		usecase.NewCreatePropertyUseCase(store, nil),
		usecase.NewUpdatePropertyUseCase(store, nil),
		usecase.NewDeletePropertyUseCase(store, nil),
		validator,
	)
	require.NoError(t, err)
	return h
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.NewStore()
	router := NewRouter(ServerConfig{RequestTimeout: 5 * time.Second}, newHandler(t, store), contextkeys.LoggerFromContext(context.Background()))
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &testEnv{server: srv, store: store}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, e.server.URL+path, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func (e *testEnv) seed(t *testing.T, n int, name string, price float64) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := e.store.Create(context.Background(), domain.NewProperty{
			IdOwner: 1, Name: fmt.Sprintf("%s %d", name, i), Price: price, Address: "Calle 1",
		})
		require.NoError(t, err)
	}
}

func TestListPropertiesPages(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, 11, "Casa", 150000)

	resp := env.do(t, http.MethodGet, "/properties", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_, err := uuid.Parse(resp.Header.Get(TraceIDHeader))
	assert.NoError(t, err)

	first := decode[PaginatedPropertiesDto](t, resp)
	assert.Len(t, first.Items, 9)
	assert.Equal(t, 11, first.TotalCount)
	assert.Equal(t, 1, first.Page)
	assert.Equal(t, 9, first.PageSize)
	assert.Equal(t, 2, first.TotalPages)

	second := decode[PaginatedPropertiesDto](t, env.do(t, http.MethodGet, "/properties?page=2", ""))
	assert.Len(t, second.Items, 2)
	assert.Equal(t, 2, second.Page)

	beyond := decode[PaginatedPropertiesDto](t, env.do(t, http.MethodGet, "/properties?page=5", ""))
	assert.Empty(t, beyond.Items)
	assert.NotNil(t, beyond.Items)
	assert.Equal(t, 11, beyond.TotalCount)
	assert.Equal(t, 2, beyond.TotalPages)

	zero := decode[PaginatedPropertiesDto](t, env.do(t, http.MethodGet, "/properties?page=0", ""))
	assert.Equal(t, first.Items, zero.Items)
	assert.Equal(t, 1, zero.Page)
}

func TestListPropertiesHugePage(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, 3, "Casa", 150000)

	resp := env.do(t, http.MethodGet, "/properties?page=1024819115206086202", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	page := decode[PaginatedPropertiesDto](t, resp)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
	assert.Equal(t, 3, page.TotalCount)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, 1024819115206086202, page.Page)
}

func TestListPropertiesNameAndPriceFilter(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, 2, "Casa Azul", 150000)
	env.seed(t, 1, "Casa Roja", 500000)
	env.seed(t, 1, "Apartamento", 150000)

	resp := env.do(t, http.MethodGet, "/properties?name=casa&minPrice=100000&maxPrice=200000", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	page := decode[PaginatedPropertiesDto](t, resp)
	assert.Equal(t, 2, page.TotalCount)
	for _, item := range page.Items {
		assert.Contains(t, item.Name, "Casa Azul")
	}
}

func TestListPropertiesMalformedNumbers(t *testing.T) {
	env := newTestEnv(t)

	for _, query := range []string{"minPrice=abc", "maxPrice=1e", "page=two"} {
		resp := env.do(t, http.MethodGet, "/properties?"+query, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, query)

		body := decode[ErrorResponse](t, resp)
		assert.Equal(t, msgInvalidParameter, body.Message)
		assert.NotEmpty(t, body.Details)
		assert.Equal(t, resp.Header.Get(TraceIDHeader), body.TraceID)
	}
}

func TestCreateGetUpdateDeleteRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	env.store.AddOwner(domain.Owner{IdOwner: 3, Name: "Ana", Email: "ana@test.com", Phone: "555"})

	resp := env.do(t, http.MethodPost, "/properties",
		`{"idOwner":3,"name":"Casa Sol","price":120000,"address":"Calle 9","img":"sol.png","codeInternal":"CS-1","year":2015}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[PropertyDto](t, resp)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "/properties/"+created.ID, resp.Header.Get("Location"))
	assert.Equal(t, "Casa Sol", created.Name)
	assert.Equal(t, "CS-1", created.CodeInternal)
	assert.NotZero(t, created.IdProperty)

	env.store.AddTrace(domain.PropertyTrace{
		IdProperty: created.IdProperty, DateSale: time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC),
		Name: "first sale", Value: 100000, Tax: 1000,
	})

	details := decode[PropertyDetailsDto](t, env.do(t, http.MethodGet, "/properties/"+created.ID, ""))
	assert.Equal(t, created, details.PropertyDto)
	require.NotNil(t, details.Owner)
	assert.Equal(t, "Ana", details.Owner.Name)
	require.Len(t, details.PropertyTraces, 1)
	assert.Equal(t, "first sale", details.PropertyTraces[0].Name)

	resp = env.do(t, http.MethodPut, "/properties/"+created.ID,
		`{"name":"Casa Luna","price":130000,"address":"Calle 10","img":"luna.png"}`)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	updated := decode[PropertyDetailsDto](t, env.do(t, http.MethodGet, "/properties/"+created.ID, ""))
	assert.Equal(t, "Casa Luna", updated.Name)
	assert.Equal(t, 130000.0, updated.Price)
	assert.Equal(t, created.IdProperty, updated.IdProperty)
	assert.Equal(t, created.CodeInternal, updated.CodeInternal)
	assert.Equal(t, created.Year, updated.Year)

	resp = env.do(t, http.MethodDelete, "/properties/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/properties/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetPropertyWithoutOwnerOrTraces(t *testing.T) {
	env := newTestEnv(t)
	p, err := env.store.Create(context.Background(), domain.NewProperty{IdOwner: 99, Name: "Lote", Price: 1, Address: "Km 5"})
	require.NoError(t, err)

	resp := env.do(t, http.MethodGet, "/properties/"+p.ID, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var raw map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
	assert.JSONEq(t, "null", string(raw["owner"]))
	assert.JSONEq(t, "[]", string(raw["propertyTraces"]))
}

func TestNotFoundResponses(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		method string
		body   string
	}{
		{http.MethodGet, ""},
		{http.MethodPut, `{"name":"x","price":1,"address":"y","img":""}`},
		{http.MethodDelete, ""},
	}
	for _, c := range cases {
		resp := env.do(t, c.method, "/properties/does-not-exist", c.body)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, c.method)

		body := decode[ErrorResponse](t, resp)
		assert.Equal(t, msgPropertyNotFound, body.Message)
		assert.NotEmpty(t, body.TraceID)
	}
}

func TestCreatePropertyValidation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"missing field", `{"idOwner":1,"price":1,"address":"a","img":""}`, msgMissingParameter},
		{"empty body", "", msgMissingParameter},
		{"wrong type", `{"idOwner":1,"name":"a","price":"x","address":"a","img":""}`, msgInvalidParameter},
		{"broken json", `{"idOwner":`, msgInvalidParameter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := env.do(t, http.MethodPost, "/properties", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			body := decode[ErrorResponse](t, resp)
			assert.Equal(t, tt.message, body.Message)
			assert.NotEmpty(t, body.Details)
		})
	}

	total, err := env.store.Count(context.Background(), domain.PropertyFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestCreatePropertyAcceptsAnyValues(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/properties", `{"idOwner":1,"name":"","price":-5,"address":"","img":""}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	created := decode[PropertyDto](t, resp)
	assert.Equal(t, -5.0, created.Price)
	assert.Empty(t, created.Name)

	resp = env.do(t, http.MethodPut, "/properties/"+created.ID, `{"name":"","price":-10,"address":"","img":""}`)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestTraceIDIsPropagated(t *testing.T) {
	env := newTestEnv(t)
	traceID := uuid.NewString()

	req, err := http.NewRequest(http.MethodGet, env.server.URL+"/properties/missing", nil)
	require.NoError(t, err)
	req.Header.Set(TraceIDHeader, traceID)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, traceID, resp.Header.Get(TraceIDHeader))
	assert.Equal(t, traceID, decode[ErrorResponse](t, resp).TraceID)
}

// stubListUseCase позволяет управлять поведением списка в тестах ошибок.
type stubListUseCase struct {
	fn func(ctx context.Context) (*domain.PaginatedResult, error)
}

func (s stubListUseCase) Execute(ctx context.Context, _ domain.ListFilters, _ int) (*domain.PaginatedResult, error) {
	return s.fn(ctx)
}

func newStubbedServer(t *testing.T, timeout time.Duration, list stubListUseCase) *httptest.Server {
	t.Helper()
	h := newHandler(t, memory.NewStore())
	h.listUC = list
	srv := httptest.NewServer(NewRouter(ServerConfig{RequestTimeout: timeout}, h, contextkeys.LoggerFromContext(context.Background())))
	t.Cleanup(srv.Close)
	return srv
}

func getJSONError(t *testing.T, url string) (int, ErrorResponse) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	return resp.StatusCode, decode[ErrorResponse](t, resp)
}

func TestRequestTimeoutMapsTo408(t *testing.T) {
	srv := newStubbedServer(t, 20*time.Millisecond, stubListUseCase{fn: func(ctx context.Context) (*domain.PaginatedResult, error) {
		<-ctx.Done()
		return nil, fmt.Errorf("failed to count properties: %w", ctx.Err())
	}})

	status, body := getJSONError(t, srv.URL+"/properties")
	assert.Equal(t, http.StatusRequestTimeout, status)
	assert.Equal(t, msgTimeout, body.Message)
	assert.NotEmpty(t, body.TraceID)
}

func TestPanicMapsTo500(t *testing.T) {
	srv := newStubbedServer(t, time.Second, stubListUseCase{fn: func(context.Context) (*domain.PaginatedResult, error) {
		panic("boom")
	}})

	status, body := getJSONError(t, srv.URL+"/properties")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, msgInternal, body.Message)
	assert.Empty(t, body.Details)
	assert.NotEmpty(t, body.TraceID)
}

func TestStoreFailureHidesDetails(t *testing.T) {
	srv := newStubbedServer(t, time.Second, stubListUseCase{fn: func(context.Context) (*domain.PaginatedResult, error) {
		return nil, fmt.Errorf("failed to count properties: connection refused")
	}})

	status, body := getJSONError(t, srv.URL+"/properties")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, ErrorResponse{Message: msgInternal, TraceID: body.TraceID}, body)
}

func TestTranslateError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		msg    string
	}{
		{domain.ErrMissingParameter, http.StatusBadRequest, msgMissingParameter},
		{fmt.Errorf("wrap: %w", domain.ErrInvalidParameter), http.StatusBadRequest, msgInvalidParameter},
		{domain.WithDetail(domain.ErrInvalidOperation, "Owner 5 not found"), http.StatusNotFound, "Owner 5 not found"},
		{domain.ErrUnauthorized, http.StatusUnauthorized, msgUnauthorized},
		{domain.ErrTimeout, http.StatusRequestTimeout, msgTimeout},
		{context.DeadlineExceeded, http.StatusRequestTimeout, msgTimeout},
		{io.ErrUnexpectedEOF, http.StatusInternalServerError, msgInternal},
	}
	for _, tt := range tests {
		status, body := translateError(tt.err)
		assert.Equal(t, tt.status, status, tt.err.Error())
		assert.Equal(t, tt.msg, body.Message, tt.err.Error())
	}
}
