package mongodb

import (
	"catalog-service/internal/core/domain"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// buildPropertyFilter переводит набор предикатов в bson-фильтр.
// Строка пользователя экранируется и ищется как подстрока без учета регистра.
func buildPropertyFilter(filter domain.PropertyFilter) bson.D {
	query := bson.D{}

	if filter.Name != nil {
		query = append(query, bson.E{Key: "name", Value: containsInsensitive(*filter.Name)})
	}
	if filter.Address != nil {
		query = append(query, bson.E{Key: "address", Value: containsInsensitive(*filter.Address)})
	}

	if filter.HasPriceRange() {
		price := bson.D{}
		if filter.MinPrice != nil {
			price = append(price, bson.E{Key: "$gte", Value: *filter.MinPrice})
		}
		if filter.MaxPrice != nil {
			price = append(price, bson.E{Key: "$lte", Value: *filter.MaxPrice})
		}
		query = append(query, bson.E{Key: "price", Value: price})
	}

	return query
}

func containsInsensitive(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

// buildFindOptions - стабильный порядок по _id и окно выборки.
func buildFindOptions(page domain.PageRequest) *options.FindOptions {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if skip := page.Offset(); skip > 0 {
		opts.SetSkip(int64(skip))
	}
	if page.Limit > 0 {
		opts.SetLimit(int64(page.Limit))
	}
	return opts
}
