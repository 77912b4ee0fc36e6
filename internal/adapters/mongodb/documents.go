package mongodb

import (
	"catalog-service/internal/core/domain"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Имена коллекций
const (
	PropertiesCollection     = "properties"
	OwnersCollection         = "owners"
	PropertyTracesCollection = "propertyTraces"
	CountersCollection       = "counters"
)

// propertyDocument - объект недвижимости в коллекции properties.
type propertyDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	IdOwner      int                `bson:"idOwner"`
	Name         string             `bson:"name"`
	Address      string             `bson:"address"`
	Price        float64            `bson:"price"`
	Img          string             `bson:"img"`
	IdProperty   int                `bson:"idProperty"`
	CodeInternal string             `bson:"codeInternal"`
	Year         int                `bson:"year"`
}

func (d propertyDocument) toDomain() domain.Property {
	return domain.Property{
		ID:           d.ID.Hex(),
		IdOwner:      d.IdOwner,
		Name:         d.Name,
		Price:        d.Price,
		Address:      d.Address,
		Img:          d.Img,
		IdProperty:   d.IdProperty,
		CodeInternal: d.CodeInternal,
		Year:         d.Year,
	}
}

type ownerDocument struct {
	ID      primitive.ObjectID `bson:"_id,omitempty"`
	IdOwner int                `bson:"idOwner"`
	Name    string             `bson:"name"`
	Email   string             `bson:"email"`
	Phone   string             `bson:"phone"`
}

func (d ownerDocument) toDomain() domain.Owner {
	return domain.Owner{
		ID:      d.ID.Hex(),
		IdOwner: d.IdOwner,
		Name:    d.Name,
		Email:   d.Email,
		Phone:   d.Phone,
	}
}

type propertyTraceDocument struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	IdProperty int                `bson:"idProperty"`
	DateSale   time.Time          `bson:"dateSale"`
	Name       string             `bson:"name"`
	Value      float64            `bson:"value"`
	Tax        float64            `bson:"tax"`
}

func (d propertyTraceDocument) toDomain() domain.PropertyTrace {
	return domain.PropertyTrace{
		ID:         d.ID.Hex(),
		IdProperty: d.IdProperty,
		DateSale:   d.DateSale.UTC(),
		Name:       d.Name,
		Value:      d.Value,
		Tax:        d.Tax,
	}
}

// counterDocument - последовательность в коллекции counters.
type counterDocument struct {
	ID    string `bson:"_id"`
	Value int    `bson:"value"`
}
