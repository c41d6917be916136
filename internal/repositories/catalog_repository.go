package repositories

import (
	"database/sql"
	"errors"
	"strings"

	intconfig "backend/internal/config"
	"backend/internal/domain"
	"backend/internal/domain/models"
)

type CatalogRepository struct {
	DB *sql.DB
}

func (r CatalogRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// ListCategories returns the distinct plan categories in catalog order.
func (r CatalogRepository) ListCategories() ([]string, error) {
	rows, err := r.db().Query(`SELECT DISTINCT category FROM plans ORDER BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// ListPlans returns plans, optionally filtered by category.
func (r CatalogRepository) ListPlans(category string) ([]models.Plan, error) {
	query := `
		SELECT id, code, name, category, daily_rate_cents, monthly_rate_cents, COALESCE(description,'')
		FROM plans`
	args := []any{}
	if c := strings.TrimSpace(category); c != "" {
		query += ` WHERE category=?`
		args = append(args, c)
	}
	query += ` ORDER BY category, code`

	rows, err := r.db().Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []models.Plan{}
	for rows.Next() {
		var p models.Plan
		if err := rows.Scan(&p.ID, &p.Code, &p.Name, &p.Category, &p.DailyRateCents, &p.MonthlyRateCents, &p.Description); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r CatalogRepository) GetPlanByCode(code string) (models.Plan, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return models.Plan{}, domain.ValidationError{Field: "plan", Msg: "código do plano obrigatório"}
	}
	var p models.Plan
	err := r.db().QueryRow(`
		SELECT id, code, name, category, daily_rate_cents, monthly_rate_cents, COALESCE(description,'')
		FROM plans WHERE code=? LIMIT 1`, code).
		Scan(&p.ID, &p.Code, &p.Name, &p.Category, &p.DailyRateCents, &p.MonthlyRateCents, &p.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Plan{}, domain.NotFoundError{Resource: "plan"}
		}
		return models.Plan{}, err
	}
	return p, nil
}

// ListOptionals returns the fixed add-on catalog.
func (r CatalogRepository) ListOptionals() ([]models.Optional, error) {
	rows, err := r.db().Query(`
		SELECT id, code, name, price_cents, pricing_mode FROM optionals ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []models.Optional{}
	for rows.Next() {
		var o models.Optional
		if err := rows.Scan(&o.ID, &o.Code, &o.Name, &o.PriceCents, &o.PricingMode); err != nil {
			return nil, err
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

func (r CatalogRepository) GetOptionalByCode(code string) (models.Optional, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return models.Optional{}, domain.ValidationError{Field: "optional", Msg: "código do opcional obrigatório"}
	}
	var o models.Optional
	err := r.db().QueryRow(`
		SELECT id, code, name, price_cents, pricing_mode FROM optionals WHERE code=? LIMIT 1`, code).
		Scan(&o.ID, &o.Code, &o.Name, &o.PriceCents, &o.PricingMode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Optional{}, domain.NotFoundError{Resource: "optional"}
		}
		return models.Optional{}, err
	}
	return o, nil
}
