package domain

import "math"

// DefaultPageSize - размер страницы списка по умолчанию.
const DefaultPageSize = 9

// ListFilters - фильтры, пришедшие от клиента. Пустая строка и nil означают
// отсутствие фильтра.
type ListFilters struct {
	Name     string
	Address  string
	MinPrice *float64
	MaxPrice *float64
}

func (f ListFilters) HasName() bool    { return f.Name != "" }
func (f ListFilters) HasAddress() bool { return f.Address != "" }
func (f ListFilters) HasPrice() bool   { return f.MinPrice != nil || f.MaxPrice != nil }

// PropertyFilter - набор необязательных предикатов, объединяемых через AND.
// Хранилище применяет только заданные предикаты.
type PropertyFilter struct {
	Name     *string
	Address  *string
	MinPrice *float64
	MaxPrice *float64
}

// IsEmpty сообщает, что фильтр не ограничивает выборку.
func (f PropertyFilter) IsEmpty() bool {
	return f.Name == nil && f.Address == nil && f.MinPrice == nil && f.MaxPrice == nil
}

// HasPriceRange сообщает, задана ли хотя бы одна граница цены.
func (f PropertyFilter) HasPriceRange() bool {
	return f.MinPrice != nil || f.MaxPrice != nil
}

// PropertyFilterBuilder собирает PropertyFilter по одному предикату.
type PropertyFilterBuilder struct {
	filter PropertyFilter
}

func NewPropertyFilterBuilder() *PropertyFilterBuilder {
	return &PropertyFilterBuilder{}
}

// WithName добавляет поиск подстроки в названии без учета регистра.
func (b *PropertyFilterBuilder) WithName(name string) *PropertyFilterBuilder {
	b.filter.Name = &name
	return b
}

// WithAddress добавляет поиск подстроки в адресе без учета регистра.
func (b *PropertyFilterBuilder) WithAddress(address string) *PropertyFilterBuilder {
	b.filter.Address = &address
	return b
}

// WithPriceRange добавляет включительные границы цены. Если обе границы nil,
// предикат не добавляется.
func (b *PropertyFilterBuilder) WithPriceRange(minPrice, maxPrice *float64) *PropertyFilterBuilder {
	if minPrice != nil {
		v := *minPrice
		b.filter.MinPrice = &v
	}
	if maxPrice != nil {
		v := *maxPrice
		b.filter.MaxPrice = &v
	}
	return b
}

func (b *PropertyFilterBuilder) Build() PropertyFilter {
	return b.filter
}

// PageRequest - окно выборки. Limit == 0 означает "без ограничения".
type PageRequest struct {
	Skip  int
	Limit int
}

// NewPageRequest строит окно для страницы page (с 1) размером pageSize.
// Смещение, не помещающееся в int, ограничивается math.MaxInt: такая
// страница заведомо за пределами выборки.
func NewPageRequest(page, pageSize int) PageRequest {
	page = NormalizePage(page)
	if pageSize < 1 {
		return PageRequest{}
	}
	if page-1 > math.MaxInt/pageSize {
		return PageRequest{Skip: math.MaxInt, Limit: pageSize}
	}
	return PageRequest{Skip: (page - 1) * pageSize, Limit: pageSize}
}

// Offset - смещение для хранилища. Отрицательное смещение получается только
// при переполнении и означает страницу за пределами выборки.
func (p PageRequest) Offset() int {
	if p.Skip < 0 {
		return math.MaxInt
	}
	return p.Skip
}

// Window возвращает границы [start, end) окна для выборки длины n.
func (p PageRequest) Window(n int) (int, int) {
	skip := p.Offset()
	if skip >= n {
		return n, n
	}
	end := n
	if p.Limit > 0 && p.Limit < n-skip {
		end = skip + p.Limit
	}
	return skip, end
}

// PaginatedResult - страница списка и метаданные пагинации.
type PaginatedResult struct {
	Items      []Property
	TotalCount int
	Page       int
	PageSize   int
	TotalPages int
	Strategy   ListStrategy
}

// TotalPages = ceil(totalCount / pageSize).
func TotalPages(totalCount, pageSize int) int {
	if pageSize <= 0 || totalCount <= 0 {
		return 0
	}
	return (totalCount + pageSize - 1) / pageSize
}

// NormalizePage приводит номер страницы меньше 1 к первой странице.
func NormalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}
