package constants

// Обменник событий каталога
const (
	CatalogExchange     = "catalog_exchange"
	CatalogExchangeType = "topic"
)

// Ключи маршрутизации
const (
	RoutingKeyPropertyCreated = "catalog.property.created"
	RoutingKeyPropertyUpdated = "catalog.property.updated"
	RoutingKeyPropertyDeleted = "catalog.property.deleted"
)

// Имена событий в теле сообщения
const (
	EventPropertyCreated = "property.created"
	EventPropertyUpdated = "property.updated"
	EventPropertyDeleted = "property.deleted"
)
