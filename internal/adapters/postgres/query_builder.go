package postgres

import (
	"catalog-service/internal/core/domain"
	"fmt"
	"strings"
)

type queryBuilder struct {
	conditions []string
	args       []interface{}
	argId      int
}

func newQueryBuilder() *queryBuilder {
	return &queryBuilder{
		argId: 1,
		args:  make([]interface{}, 0),
	}
}

func (qb *queryBuilder) addCondition(condition string, fieldName string, arg interface{}) {
	qb.conditions = append(qb.conditions, fmt.Sprintf(condition, fieldName, qb.argId))
	qb.args = append(qb.args, arg)
	qb.argId++
}

// AddFloatFilter добавляет включительные границы; nil-граница пропускается
func (qb *queryBuilder) AddFloatFilter(fieldName string, minValue *float64, maxValue *float64) {
	if minValue != nil {
		qb.addCondition("%s >= $%d", fieldName, *minValue)
	}
	if maxValue != nil {
		qb.addCondition("%s <= $%d", fieldName, *maxValue)
	}
}

// AddContainsFilter - подстрока без учета регистра, спецсимволы LIKE экранируются
func (qb *queryBuilder) AddContainsFilter(fieldName string, value string) {
	qb.addCondition(`%s ILIKE $%d ESCAPE '\'`, fieldName, "%"+escapeLike(value)+"%")
}

func (qb *queryBuilder) build() (string, []interface{}) {
	whereClause := ""
	if len(qb.conditions) > 0 {
		whereClause = "WHERE " + strings.Join(qb.conditions, " AND ")
	}
	return whereClause, qb.args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// applyFilters строит WHERE по набору предикатов
func applyFilters(filter domain.PropertyFilter) (string, []interface{}) {
	qb := newQueryBuilder()

	if filter.Name != nil {
		qb.AddContainsFilter("p.name", *filter.Name)
	}
	if filter.Address != nil {
		qb.AddContainsFilter("p.address", *filter.Address)
	}
	qb.AddFloatFilter("p.price", filter.MinPrice, filter.MaxPrice)

	return qb.build()
}

// buildFindQuery добавляет к выборке порядок вставки и окно LIMIT/OFFSET
func buildFindQuery(filter domain.PropertyFilter, page domain.PageRequest) (string, []interface{}) {
	whereClause, args := applyFilters(filter)

	var query strings.Builder
	query.WriteString(`SELECT p.id, p.id_owner, p.name, p.price, p.address, p.img, p.id_property, p.code_internal, p.year
		FROM properties p `)
	query.WriteString(whereClause)
	query.WriteString(" ORDER BY p.seq ASC")

	if page.Limit > 0 {
		args = append(args, page.Limit)
		fmt.Fprintf(&query, " LIMIT $%d", len(args))
	}
	if skip := page.Offset(); skip > 0 {
		args = append(args, skip)
		fmt.Fprintf(&query, " OFFSET $%d", len(args))
	}
	return query.String(), args
}

func buildCountQuery(filter domain.PropertyFilter) (string, []interface{}) {
	whereClause, args := applyFilters(filter)
	return fmt.Sprintf("SELECT COUNT(*) FROM properties p %s", whereClause), args
}
