package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"skatebook/internal/db"
	"skatebook/internal/domain"

	"github.com/rs/zerolog"
)

type ElementRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewElementRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *ElementRepository {
	return &ElementRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

func (r *ElementRepository) Create(ctx context.Context, element *domain.Element) error {
	id, err := newID()
	if err != nil {
		return err
	}
	element.ID = id

	err = r.queries.CreateElement(ctx, db.CreateElementParams{
		ID:          element.ID,
		Code:        element.Code,
		Name:        element.Name,
		ElementType: string(element.Type),
		BaseValue:   element.BaseValue,
	})
	return translate(err, "create element "+element.Code)
}

func (r *ElementRepository) Get(ctx context.Context, id string) (*domain.Element, error) {
	element, err := r.queries.GetElement(ctx, id)
	if err != nil {
		return nil, translate(err, "get element "+id)
	}
	e := toDomainElement(element)
	return &e, nil
}

// GetByIDs returns the elements found, keyed by id. Missing ids are absent from the map.
func (r *ElementRepository) GetByIDs(ctx context.Context, ids []string) (map[string]domain.Element, error) {
	elements, err := r.queries.GetElementsByIDs(ctx, ids)
	if err != nil {
		return nil, translate(err, "get elements")
	}

	result := make(map[string]domain.Element, len(elements))
	for _, e := range elements {
		result[e.ID] = toDomainElement(e)
	}
	return result, nil
}

// Search matches query case-insensitively against name and code.
// An empty elementType matches every type.
func (r *ElementRepository) Search(ctx context.Context, query string, elementType domain.ElementType, limit int) ([]domain.Element, error) {
	query = strings.TrimSpace(query)
	elements, err := r.queries.SearchElements(ctx, db.SearchElementsParams{
		Query:       query,
		Pattern:     "%" + stripWildcards(query) + "%",
		ElementType: string(elementType),
		Limit:       int64(limit),
	})
	if err != nil {
		return nil, translate(err, "search elements")
	}

	result := make([]domain.Element, len(elements))
	for i, e := range elements {
		result[i] = toDomainElement(e)
	}
	return result, nil
}

func (r *ElementRepository) CreateProbability(ctx context.Context, p *domain.ElementProbability) error {
	id, err := newID()
	if err != nil {
		return err
	}
	p.ID = id

	err = r.queries.CreateElementProbability(ctx, db.CreateElementProbabilityParams{
		ID:          p.ID,
		SkaterID:    p.SkaterID,
		ElementID:   p.ElementID,
		SuccessRate: p.SuccessRate,
	})
	return translate(err, fmt.Sprintf("create probability for skater %s element %s", p.SkaterID, p.ElementID))
}

func (r *ElementRepository) UpdateProbability(ctx context.Context, skaterID, elementID string, rate float64) error {
	n, err := r.queries.UpdateElementProbability(ctx, db.UpdateElementProbabilityParams{
		SuccessRate: rate,
		SkaterID:    skaterID,
		ElementID:   elementID,
	})
	return affected(n, err, fmt.Sprintf("update probability for skater %s element %s", skaterID, elementID))
}

func (r *ElementRepository) GetProbability(ctx context.Context, skaterID, elementID string) (*domain.ElementProbability, error) {
	p, err := r.queries.GetElementProbability(ctx, db.GetElementProbabilityParams{
		SkaterID:  skaterID,
		ElementID: elementID,
	})
	if err != nil {
		return nil, translate(err, fmt.Sprintf("get probability for skater %s element %s", skaterID, elementID))
	}
	return &domain.ElementProbability{
		ID:          p.ID,
		SkaterID:    p.SkaterID,
		ElementID:   p.ElementID,
		SuccessRate: p.SuccessRate,
	}, nil
}

// SuccessRates returns the recorded rates of skaterID for the given elements.
// Elements without a record are absent from the map.
func (r *ElementRepository) SuccessRates(ctx context.Context, skaterID string, elementIDs []string) (map[string]float64, error) {
	rows, err := r.queries.GetSuccessRates(ctx, db.GetSuccessRatesParams{
		SkaterID:   skaterID,
		ElementIDs: elementIDs,
	})
	if err != nil {
		return nil, translate(err, "get success rates for skater "+skaterID)
	}

	rates := make(map[string]float64, len(rows))
	for _, row := range rows {
		rates[row.ElementID] = row.SuccessRate
	}
	return rates, nil
}

func toDomainElement(e db.Element) domain.Element {
	return domain.Element{
		ID:        e.ID,
		Code:      e.Code,
		Name:      e.Name,
		Type:      domain.ElementType(e.ElementType),
		BaseValue: e.BaseValue,
	}
}

func stripWildcards(s string) string {
	return strings.NewReplacer(`%`, ``, `_`, ``).Replace(s)
}
