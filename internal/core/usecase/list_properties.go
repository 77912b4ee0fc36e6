package usecase

import (
	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

type ListPropertiesUseCase struct {
	storage  port.PropertyRepositoryPort
	pageSize int
}

func NewListPropertiesUseCase(storage port.PropertyRepositoryPort, pageSize int) *ListPropertiesUseCase {
	if pageSize < 1 {
		pageSize = domain.DefaultPageSize
	}
	return &ListPropertiesUseCase{storage: storage, pageSize: pageSize}
}

func (uc *ListPropertiesUseCase) Execute(ctx context.Context, filters domain.ListFilters, page int) (*domain.PaginatedResult, error) {
	page = domain.NormalizePage(page)
	strategy := domain.SelectListStrategy(filters)
	filter := strategy.BuildFilter(filters)

	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":  "ListProperties",
		"strategy":  string(strategy),
		"page":      page,
		"page_size": uc.pageSize,
	})
	ucLogger.Info("Use case started", nil)

	pageReq := domain.NewPageRequest(page, uc.pageSize)

	// Подсчет и выборка страницы - независимые запросы с одним набором предикатов
	var (
		totalCount int
		items      []domain.Property
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(guarded(func() error {
		count, err := uc.storage.Count(gctx, filter)
		if err != nil {
			return fmt.Errorf("failed to count properties: %w", err)
		}
		totalCount = count
		return nil
	}))
	g.Go(guarded(func() error {
		found, err := uc.storage.Find(gctx, filter, pageReq)
		if err != nil {
			return fmt.Errorf("failed to find properties: %w", err)
		}
		items = found
		return nil
	}))
	if err := g.Wait(); err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, err
	}

	if items == nil {
		items = []domain.Property{}
	}

	result := &domain.PaginatedResult{
		Items:      items,
		TotalCount: totalCount,
		Page:       page,
		PageSize:   uc.pageSize,
		TotalPages: domain.TotalPages(totalCount, uc.pageSize),
		Strategy:   strategy,
	}

	ucLogger.Info("Use case finished successfully", port.Fields{
		"total_found":   result.TotalCount,
		"items_on_page": len(result.Items),
		"total_pages":   result.TotalPages,
	})
	return result, nil
}
