package rest

import (
	"catalog-service/internal/core/domain"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// RespondWithJSON отправляет JSON-ответ
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Failed to marshal JSON response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	w.Write(response)
}

// parseString возвращает значение параметра без крайних пробелов
func parseString(query url.Values, key string) string {
	return strings.TrimSpace(query.Get(key))
}

// parseFloat: отсутствующий параметр - nil, нечисловой - ошибка
func parseFloat(query url.Values, key string) (*float64, error) {
	raw := strings.TrimSpace(query.Get(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, domain.WithDetail(domain.ErrInvalidParameter, fmt.Sprintf("%s must be a number", key))
	}
	return &v, nil
}

// parsePage: отсутствующая страница - первая
func parsePage(query url.Values) (int, error) {
	raw := strings.TrimSpace(query.Get("page"))
	if raw == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.WithDetail(domain.ErrInvalidParameter, "page must be an integer")
	}
	return domain.NormalizePage(page), nil
}

func parseListFilters(query url.Values) (domain.ListFilters, error) {
	minPrice, err := parseFloat(query, "minPrice")
	if err != nil {
		return domain.ListFilters{}, err
	}
	maxPrice, err := parseFloat(query, "maxPrice")
	if err != nil {
		return domain.ListFilters{}, err
	}
	return domain.ListFilters{
		Name:     parseString(query, "name"),
		Address:  parseString(query, "address"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
	}, nil
}
