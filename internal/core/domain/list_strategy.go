package domain

// ListStrategy - вариант запроса списка, выбранный по набору фильтров.
type ListStrategy string

const (
	StrategyAll          ListStrategy = "all"
	StrategyAllFilters   ListStrategy = "all_filters"
	StrategyNameAddress  ListStrategy = "name_address"
	StrategyNamePrice    ListStrategy = "name_price"
	StrategyAddressPrice ListStrategy = "address_price"
	StrategyName         ListStrategy = "name"
	StrategyAddress      ListStrategy = "address"
	StrategyPrice        ListStrategy = "price"
	// StrategyFallback недостижима: восемь вариантов выше покрывают все
	// комбинации флагов. Оставлена как страховка, ведет себя как StrategyAll.
	StrategyFallback ListStrategy = "fallback"
)

// SelectListStrategy выбирает ровно одну стратегию по присутствию фильтров.
func SelectListStrategy(f ListFilters) ListStrategy {
	hasName, hasAddress, hasPrice := f.HasName(), f.HasAddress(), f.HasPrice()

	switch {
	case !hasName && !hasAddress && !hasPrice:
		return StrategyAll
	case hasName && hasAddress && hasPrice:
		return StrategyAllFilters
	case hasName && hasAddress && !hasPrice:
		return StrategyNameAddress
	case hasName && !hasAddress && hasPrice:
		return StrategyNamePrice
	case !hasName && hasAddress && hasPrice:
		return StrategyAddressPrice
	case hasName && !hasAddress && !hasPrice:
		return StrategyName
	case !hasName && hasAddress && !hasPrice:
		return StrategyAddress
	case !hasName && !hasAddress && hasPrice:
		return StrategyPrice
	default:
		return StrategyFallback
	}
}

// BuildFilter строит набор предикатов для стратегии.
func (s ListStrategy) BuildFilter(f ListFilters) PropertyFilter {
	b := NewPropertyFilterBuilder()

	switch s {
	case StrategyAllFilters:
		b.WithName(f.Name).WithAddress(f.Address).WithPriceRange(f.MinPrice, f.MaxPrice)
	case StrategyNameAddress:
		b.WithName(f.Name).WithAddress(f.Address)
	case StrategyNamePrice:
		b.WithName(f.Name).WithPriceRange(f.MinPrice, f.MaxPrice)
	case StrategyAddressPrice:
		b.WithAddress(f.Address).WithPriceRange(f.MinPrice, f.MaxPrice)
	case StrategyName:
		b.WithName(f.Name)
	case StrategyAddress:
		b.WithAddress(f.Address)
	case StrategyPrice:
		b.WithPriceRange(f.MinPrice, f.MaxPrice)
	}
	// StrategyAll и StrategyFallback - без предикатов

	return b.Build()
}
