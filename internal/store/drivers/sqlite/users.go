package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/bookvault/server/internal/domain"
)

type usersRepo struct {
	q querier
}

const userColumns = `id, name, email, password_hash, role, mfa_secret, mfa_enabled_at, created_at, updated_at`

func (r *usersRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *usersRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER(?)`, email)
	return scanUser(row)
}

func (r *usersRepo) Create(ctx context.Context, u domain.User) error {
	createdAt, updatedAt := timestampsOrNow(u.CreatedAt, u.UpdatedAt)
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, role, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, u.PasswordHash, string(u.Role), createdAt, updatedAt)
	return mapConstraint(err)
}

func (r *usersRepo) UpdateEmail(ctx context.Context, userID, email string) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE users SET email = ?, updated_at = ? WHERE id = ?`,
		email, time.Now().UTC(), userID)
	if err != nil {
		return mapConstraint(err)
	}
	return requireRowAffected(res)
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID, newHash string) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		newHash, time.Now().UTC(), userID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *usersRepo) UpdateRole(ctx context.Context, userID, role string) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE users SET role = ?, updated_at = ? WHERE id = ?`,
		role, time.Now().UTC(), userID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *usersRepo) UpdateMFA(ctx context.Context, userID, secret string) error {
	now := time.Now().UTC()
	res, err := r.q.ExecContext(ctx,
		`UPDATE users SET mfa_secret = ?, mfa_enabled_at = ?, updated_at = ? WHERE id = ?`,
		secret, now, now, userID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func scanUser(row *sql.Row) (domain.User, error) {
	var (
		u         domain.User
		role      string
		mfaSecret sql.NullString
		mfaAt     sql.NullTime
	)
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role,
		&mfaSecret, &mfaAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}

	u.Role = domain.ParseRole(role)
	u.MFASecret = mapNullStringPtr(mfaSecret)
	u.MFAEnabledAt = mapNullTimePtr(mfaAt)
	return u, nil
}

func requireRowAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return mapNotFound(sql.ErrNoRows)
	}
	return nil
}
