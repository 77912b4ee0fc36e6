package rest

import (
	"catalog-service/internal/core/domain"
	"time"
)

type PropertyDto struct {
	ID           string  `json:"id"`
	IdOwner      int     `json:"idOwner"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	Address      string  `json:"address"`
	Img          string  `json:"img"`
	IdProperty   int     `json:"idProperty"`
	CodeInternal string  `json:"codeInternal"`
	Year         int     `json:"year"`
}

type OwnerDto struct {
	ID      string `json:"id"`
	IdOwner int    `json:"idOwner"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
}

type PropertyTraceDto struct {
	ID         string    `json:"id"`
	IdProperty int       `json:"idProperty"`
	DateSale   time.Time `json:"dateSale"`
	Name       string    `json:"name"`
	Value      float64   `json:"value"`
	Tax        float64   `json:"tax"`
}

// PropertyDetailsDto - объект с владельцем (null, если его нет) и историей продаж
type PropertyDetailsDto struct {
	PropertyDto
	Owner          *OwnerDto          `json:"owner"`
	PropertyTraces []PropertyTraceDto `json:"propertyTraces"`
}

type PaginatedPropertiesDto struct {
	Items      []PropertyDto `json:"items"`
	TotalCount int           `json:"totalCount"`
	Page       int           `json:"page"`
	PageSize   int           `json:"pageSize"`
	TotalPages int           `json:"totalPages"`
}

type CreatePropertyRequest struct {
	IdOwner      int     `json:"idOwner"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	Address      string  `json:"address"`
	Img          string  `json:"img"`
	IdProperty   int     `json:"idProperty"`
	CodeInternal string  `json:"codeInternal"`
	Year         int     `json:"year"`
}

type UpdatePropertyRequest struct {
	Name    string  `json:"name"`
	Price   float64 `json:"price"`
	Address string  `json:"address"`
	Img     string  `json:"img"`
}

type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	TraceID string `json:"traceId,omitempty"`
}

func toPropertyDto(p domain.Property) PropertyDto {
	return PropertyDto{
		ID:           p.ID,
		IdOwner:      p.IdOwner,
		Name:         p.Name,
		Price:        p.Price,
		Address:      p.Address,
		Img:          p.Img,
		IdProperty:   p.IdProperty,
		CodeInternal: p.CodeInternal,
		Year:         p.Year,
	}
}

func toPaginatedDto(result *domain.PaginatedResult) PaginatedPropertiesDto {
	items := make([]PropertyDto, 0, len(result.Items))
	for _, p := range result.Items {
		items = append(items, toPropertyDto(p))
	}
	return PaginatedPropertiesDto{
		Items:      items,
		TotalCount: result.TotalCount,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}
}

func toDetailsDto(view *domain.PropertyDetailsView) PropertyDetailsDto {
	dto := PropertyDetailsDto{
		PropertyDto:    toPropertyDto(view.Property),
		PropertyTraces: make([]PropertyTraceDto, 0, len(view.Traces)),
	}
	if view.Owner != nil {
		dto.Owner = &OwnerDto{
			ID:      view.Owner.ID,
			IdOwner: view.Owner.IdOwner,
			Name:    view.Owner.Name,
			Email:   view.Owner.Email,
			Phone:   view.Owner.Phone,
		}
	}
	for _, t := range view.Traces {
		dto.PropertyTraces = append(dto.PropertyTraces, PropertyTraceDto{
			ID:         t.ID,
			IdProperty: t.IdProperty,
			DateSale:   t.DateSale,
			Name:       t.Name,
			Value:      t.Value,
			Tax:        t.Tax,
		})
	}
	return dto
}

func (r CreatePropertyRequest) toDomain() domain.NewProperty {
	return domain.NewProperty{
		IdOwner:      r.IdOwner,
		Name:         r.Name,
		Price:        r.Price,
		Address:      r.Address,
		Img:          r.Img,
		IdProperty:   r.IdProperty,
		CodeInternal: r.CodeInternal,
		Year:         r.Year,
	}
}

func (r UpdatePropertyRequest) toDomain() domain.PropertyChanges {
	return domain.PropertyChanges{
		Name:    r.Name,
		Price:   r.Price,
		Address: r.Address,
		Img:     r.Img,
	}
}
