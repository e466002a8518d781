package repositories

import (
	"database/sql"
	"errors"

	intconfig "yoon/internal/config"
	intdb "yoon/internal/db"
	"yoon/internal/domain"
	"yoon/internal/domain/models"
)

type UserRepository struct {
	DB *sql.DB
}

func (r UserRepository) db() intdb.Querier {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r UserRepository) GetByID(q intdb.Querier, id int64) (models.User, error) {
	if q == nil {
		q = r.db()
	}
	var u models.User
	err := q.QueryRow(`
		SELECT id, name, email, phone, rating, trips_count, verified,
		       COALESCE(push_token, ''), created_at
		FROM users WHERE id = ?
	`, id).Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.Phone,
		&u.Rating,
		&u.TripsCount,
		&u.Verified,
		&u.PushToken,
		&u.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, domain.NotFoundError{Resource: "utilisateur", Err: err}
	}
	if err != nil {
		return models.User{}, domain.RepositoryError{Op: "users.get", Err: err}
	}
	return u, nil
}

func (r UserRepository) UpdateProfile(id int64, name, phone string) error {
	_, err := r.db().Exec(`UPDATE users SET name = ?, phone = ? WHERE id = ?`, name, phone, id)
	if err != nil {
		return domain.RepositoryError{Op: "users.update_profile", Err: err}
	}
	return nil
}

// UpdatePushToken stores the Expo token the device registered, alongside
// when it was last refreshed.
func (r UserRepository) UpdatePushToken(id int64, token string) error {
	_, err := r.db().Exec(`
		UPDATE users SET push_token = ?, last_token_update = NOW() WHERE id = ?
	`, intdb.NullIfEmpty(token), id)
	if err != nil {
		return domain.RepositoryError{Op: "users.update_push_token", Err: err}
	}
	return nil
}

func (r UserRepository) SetPinHash(id int64, hash string) error {
	_, err := r.db().Exec(`UPDATE users SET pin_hash = ? WHERE id = ?`, hash, id)
	if err != nil {
		return domain.RepositoryError{Op: "users.set_pin", Err: err}
	}
	return nil
}

func (r UserRepository) HasPin(id int64) (bool, error) {
	var hash sql.NullString
	err := r.db().QueryRow(`SELECT pin_hash FROM users WHERE id = ?`, id).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return false, domain.NotFoundError{Resource: "utilisateur", Err: err}
	}
	if err != nil {
		return false, domain.RepositoryError{Op: "users.has_pin", Err: err}
	}
	return hash.Valid && hash.String != "", nil
}

// IncrementTripsCount bumps the driver's published-trip counter; callers
// run it in the same transaction as the trip insert.
func (r UserRepository) IncrementTripsCount(q intdb.Querier, id int64) error {
	if _, err := q.Exec(`UPDATE users SET trips_count = trips_count + 1 WHERE id = ?`, id); err != nil {
		return domain.RepositoryError{Op: "users.increment_trips", Err: err}
	}
	return nil
}
