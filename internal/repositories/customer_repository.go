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

type CustomerRepository struct {
	DB *sql.DB
}

func (r CustomerRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const customerColumns = `
	id, name, email, cpf, COALESCE(phone,''),
	COALESCE(cnh_number,''), COALESCE(cnh_category,''),
	COALESCE(DATE_FORMAT(cnh_expiry, '%Y-%m-%d'),''),
	role, DATE_FORMAT(created_at, '%Y-%m-%d %H:%i:%s')`

func scanCustomer(row *sql.Row) (models.Customer, error) {
	var c models.Customer
	err := row.Scan(
		&c.ID, &c.Name, &c.Email, &c.CPF, &c.Phone,
		&c.CNHNumber, &c.CNHCategory, &c.CNHExpiry,
		&c.Role, &c.CreatedAt,
	)
	return c, err
}

func (r CustomerRepository) GetByID(id int64) (models.Customer, error) {
	if id <= 0 {
		return models.Customer{}, domain.ValidationError{Field: "id", Msg: "id inválido"}
	}
	row := r.db().QueryRow(`SELECT `+customerColumns+` FROM customers WHERE id=? LIMIT 1`, id)
	c, err := scanCustomer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Customer{}, domain.NotFoundError{Resource: "customer"}
		}
		return models.Customer{}, err
	}
	return c, nil
}

// GetByCPF resolves by normalized CPF digits.
func (r CustomerRepository) GetByCPF(cpf string) (models.Customer, error) {
	digits := utils.NormalizeCPF(cpf)
	if len(digits) != 11 {
		return models.Customer{}, domain.ValidationError{Field: "cpf", Msg: "cpf inválido"}
	}
	row := r.db().QueryRow(`SELECT `+customerColumns+` FROM customers WHERE cpf=? LIMIT 1`, digits)
	c, err := scanCustomer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Customer{}, domain.NotFoundError{Resource: "customer"}
		}
		return models.Customer{}, err
	}
	return c, nil
}

// GetAuthByEmail returns the customer plus the stored password hash for login.
func (r CustomerRepository) GetAuthByEmail(email string) (models.Customer, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return models.Customer{}, "", domain.ValidationError{Field: "email", Msg: "email obrigatório"}
	}

	var (
		c    models.Customer
		hash sql.NullString
	)
	err := r.db().QueryRow(`
		SELECT `+customerColumns+`, password_hash
		FROM customers WHERE email=? LIMIT 1`, email).Scan(
		&c.ID, &c.Name, &c.Email, &c.CPF, &c.Phone,
		&c.CNHNumber, &c.CNHCategory, &c.CNHExpiry,
		&c.Role, &c.CreatedAt, &hash,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Customer{}, "", domain.NotFoundError{Resource: "customer"}
		}
		return models.Customer{}, "", err
	}
	return c, hash.String, nil
}

// Upsert creates the customer on first contact or refreshes contact fields
// when the CPF already exists. The identity stage calls this on every submit,
// so it must stay idempotent.
func (r CustomerRepository) Upsert(c models.Customer) (models.Customer, error) {
	digits := utils.NormalizeCPF(c.CPF)
	if len(digits) != 11 {
		return models.Customer{}, domain.ValidationError{Field: "cpf", Msg: "cpf inválido"}
	}
	c.CPF = digits
	c.Email = strings.TrimSpace(strings.ToLower(c.Email))

	db := r.db()
	existing, err := r.GetByCPF(digits)
	if err != nil && !domain.IsNotFound(err) {
		return models.Customer{}, err
	}

	if domain.IsNotFound(err) {
		res, err := db.Exec(`
			INSERT INTO customers (name, email, cpf, phone, cnh_number, cnh_category, cnh_expiry, role)
			VALUES (?, ?, ?, ?, ?, ?, NULLIF(?, ''), 'customer')`,
			strings.TrimSpace(c.Name), c.Email, c.CPF, strings.TrimSpace(c.Phone),
			strings.TrimSpace(c.CNHNumber), strings.TrimSpace(c.CNHCategory), strings.TrimSpace(c.CNHExpiry),
		)
		if err != nil {
			if isDuplicateKey(err) {
				return models.Customer{}, domain.ConflictError{Resource: "customer", Msg: "email já cadastrado"}
			}
			return models.Customer{}, err
		}
		id, _ := res.LastInsertId()
		return r.GetByID(id)
	}

	_, err = db.Exec(`
		UPDATE customers
		SET name=?, email=?, phone=?, cnh_number=?, cnh_category=?, cnh_expiry=NULLIF(?, '')
		WHERE id=?`,
		strings.TrimSpace(c.Name), c.Email, strings.TrimSpace(c.Phone),
		strings.TrimSpace(c.CNHNumber), strings.TrimSpace(c.CNHCategory), strings.TrimSpace(c.CNHExpiry),
		existing.ID,
	)
	if err != nil {
		if isDuplicateKey(err) {
			return models.Customer{}, domain.ConflictError{Resource: "customer", Msg: "email já cadastrado"}
		}
		return models.Customer{}, err
	}
	return r.GetByID(existing.ID)
}

// SetPassword stores a bcrypt hash for portal login.
func (r CustomerRepository) SetPassword(id int64, hash string) error {
	if id <= 0 {
		return domain.ValidationError{Field: "id", Msg: "id inválido"}
	}
	_, err := r.db().Exec(`UPDATE customers SET password_hash=? WHERE id=?`, hash, id)
	return err
}

// UpdatePartial applies PATCH-style updates via pointer presence.
func (r CustomerRepository) UpdatePartial(id int64, upd models.CustomerUpdate) error {
	if id <= 0 {
		return domain.ValidationError{Field: "id", Msg: "id inválido"}
	}

	sets := []string{}
	args := []any{}
	add := func(cond bool, col string, val any) {
		if cond {
			sets = append(sets, col+"=?")
			args = append(args, val)
		}
	}

	add(upd.Name != nil, "name", deref(upd.Name))
	add(upd.Email != nil, "email", strings.ToLower(deref(upd.Email)))
	add(upd.Phone != nil, "phone", deref(upd.Phone))
	add(upd.CNHNumber != nil, "cnh_number", deref(upd.CNHNumber))
	add(upd.CNHCategory != nil, "cnh_category", deref(upd.CNHCategory))
	if upd.CNHExpiry != nil {
		sets = append(sets, "cnh_expiry=NULLIF(?, '')")
		args = append(args, deref(upd.CNHExpiry))
	}

	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	_, err := r.db().Exec(`UPDATE customers SET `+strings.Join(sets, ", ")+` WHERE id=?`, args...)
	if err != nil && isDuplicateKey(err) {
		return domain.ConflictError{Resource: "customer", Msg: "email já cadastrado"}
	}
	return err
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
