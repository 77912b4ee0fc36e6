package domain

import "time"

// Property - объект недвижимости из каталога.
type Property struct {
	ID      string // присваивается хранилищем
	IdOwner int
	Name    string
	Price   float64
	Address string
	Img     string

	// Внутренняя идентичность: задается при создании и больше не меняется
	IdProperty   int
	CodeInternal string
	Year         int
}

// NewProperty - данные для создания объекта. ID назначает хранилище,
// IdProperty тоже, если он не передан (0).
type NewProperty struct {
	IdOwner      int
	Name         string
	Price        float64
	Address      string
	Img          string
	IdProperty   int
	CodeInternal string
	Year         int
}

// PropertyChanges - изменяемые после создания поля.
type PropertyChanges struct {
	Name    string
	Price   float64
	Address string
	Img     string
}

// Apply переносит изменяемые поля на объект, не трогая внутреннюю идентичность.
func (p *Property) Apply(changes PropertyChanges) {
	p.Name = changes.Name
	p.Price = changes.Price
	p.Address = changes.Address
	p.Img = changes.Img
}

type Owner struct {
	ID      string
	IdOwner int
	Name    string
	Email   string
	Phone   string
}

// PropertyTrace - запись истории продаж объекта.
type PropertyTrace struct {
	ID         string
	IdProperty int
	DateSale   time.Time
	Name       string
	Value      float64
	Tax        float64
}

// PropertyDetailsView - объект вместе с владельцем и историей продаж.
type PropertyDetailsView struct {
	Property Property
	Owner    *Owner // nil, если владелец не найден
	Traces   []PropertyTrace
}
