package repositories

import (
	"database/sql"
	"errors"
	"strings"

	intconfig "backend/internal/config"
	"backend/internal/domain"
	"backend/internal/domain/models"
	"backend/internal/utils"
)

type VehicleRepository struct {
	DB *sql.DB
}

func (r VehicleRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const vehicleColumns = `
	id, plate, brand, model, model_year, category, COALESCE(color,''), status, daily_rate_cents`

func scanVehicleRows(rows *sql.Rows) ([]models.Vehicle, error) {
	list := []models.Vehicle{}
	for rows.Next() {
		var v models.Vehicle
		if err := rows.Scan(&v.ID, &v.Plate, &v.Brand, &v.Model, &v.ModelYear, &v.Category, &v.Color, &v.Status, &v.DailyRateCents); err != nil {
			return nil, err
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

// List searches the fleet with optional text filter and pagination.
func (r VehicleRepository) List(q string, page, limit int) ([]models.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles`
	args := []any{}

	if q = strings.TrimSpace(q); q != "" {
		query += ` WHERE (plate LIKE ? OR brand LIKE ? OR model LIKE ?)`
		like := "%" + q + "%"
		args = append(args, like, like, like)
	}
	query += ` ORDER BY id DESC`

	if page > 0 && limit > 0 {
		if limit > 200 {
			limit = 200
		}
		query += ` LIMIT ? OFFSET ?`
		args = append(args, limit, (page-1)*limit)
	}

	rows, err := r.db().Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanVehicleRows(rows)
}

// ListAvailableByCategory feeds the plan/vehicle stage.
func (r VehicleRepository) ListAvailableByCategory(category string) ([]models.Vehicle, error) {
	rows, err := r.db().Query(`
		SELECT `+vehicleColumns+`
		FROM vehicles
		WHERE category=? AND status=?
		ORDER BY daily_rate_cents`, strings.TrimSpace(category), models.VehicleStatusAvailable)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanVehicleRows(rows)
}

func (r VehicleRepository) GetByID(id int64) (models.Vehicle, error) {
	if id <= 0 {
		return models.Vehicle{}, domain.ValidationError{Field: "id", Msg: "id inválido"}
	}
	var v models.Vehicle
	err := r.db().QueryRow(`SELECT `+vehicleColumns+` FROM vehicles WHERE id=? LIMIT 1`, id).
		Scan(&v.ID, &v.Plate, &v.Brand, &v.Model, &v.ModelYear, &v.Category, &v.Color, &v.Status, &v.DailyRateCents)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Vehicle{}, domain.NotFoundError{Resource: "vehicle"}
		}
		return models.Vehicle{}, err
	}
	return v, nil
}

func (r VehicleRepository) Create(v models.Vehicle) (models.Vehicle, error) {
	plate := utils.NormalizePlate(v.Plate)
	if len(plate) != 7 {
		return models.Vehicle{}, domain.ValidationError{Field: "plate", Msg: "placa inválida"}
	}
	status := v.Status
	if status == "" {
		status = models.VehicleStatusAvailable
	}
	res, err := r.db().Exec(`
		INSERT INTO vehicles (plate, brand, model, model_year, category, color, status, daily_rate_cents)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		plate, strings.TrimSpace(v.Brand), strings.TrimSpace(v.Model), v.ModelYear,
		strings.TrimSpace(v.Category), strings.TrimSpace(v.Color), status, v.DailyRateCents,
	)
	if err != nil {
		if isDuplicateKey(err) {
			return models.Vehicle{}, domain.ConflictError{Resource: "vehicle", Msg: "placa já cadastrada"}
		}
		return models.Vehicle{}, err
	}
	id, _ := res.LastInsertId()
	return r.GetByID(id)
}

func (r VehicleRepository) Update(id int64, v models.Vehicle) (models.Vehicle, error) {
	if _, err := r.GetByID(id); err != nil {
		return models.Vehicle{}, err
	}
	_, err := r.db().Exec(`
		UPDATE vehicles
		SET brand=?, model=?, model_year=?, category=?, color=?, status=?, daily_rate_cents=?
		WHERE id=?`,
		strings.TrimSpace(v.Brand), strings.TrimSpace(v.Model), v.ModelYear,
		strings.TrimSpace(v.Category), strings.TrimSpace(v.Color), v.Status, v.DailyRateCents, id,
	)
	if err != nil {
		return models.Vehicle{}, err
	}
	return r.GetByID(id)
}

func (r VehicleRepository) Delete(id int64) error {
	if id <= 0 {
		return domain.ValidationError{Field: "id", Msg: "id inválido"}
	}
	res, err := r.db().Exec(`DELETE FROM vehicles WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "vehicle"}
	}
	return nil
}
