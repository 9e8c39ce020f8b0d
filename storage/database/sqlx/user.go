// Package sqlxrepos provides postgres-backed implementations of the
// repository interfaces. The schema lives in storage/database/migrations.
package sqlxrepos

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/elimuhq/elimu/core/user"
)

// userColumns is the select list for scanUser; labels needs pq.Array so the
// struct scan cannot be used here.
const userColumns = `id, name, username, email, role, is_active, age, gender, language,
	points, labels, password_hash, created_at, updated_at, last_login`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (user.User, error) {
	var usr user.User
	err := row.Scan(
		&usr.ID, &usr.Name, &usr.Username, &usr.Email, &usr.Role, &usr.IsActive,
		&usr.Age, &usr.Gender, &usr.Language, &usr.Points, pq.Array(&usr.Labels),
		&usr.PasswordHash, &usr.CreatedAt, &usr.UpdatedAt, &usr.LastLogin,
	)
	if err == sql.ErrNoRows {
		return user.User{}, user.ErrNotFound
	}
	return usr, errors.Wrap(err, "scanning user")
}

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *sqlx.DB) user.Repository {
	return &userRepository{db: db}
}

func (r *userRepository) CheckUsernameUniqueness(username, email string, excludedUsers ...user.User) error {
	excluded := make([]string, 0, len(excludedUsers))
	for _, usr := range excludedUsers {
		excluded = append(excluded, usr.ID)
	}

	check := func(column, value string, dup error) error {
		if value == "" {
			return nil
		}
		var exists bool
		query := `SELECT EXISTS (SELECT 1 FROM "user" WHERE ` + column + ` = $1 AND id <> ALL($2))`
		if err := r.db.QueryRow(query, value, pq.Array(excluded)).Scan(&exists); err != nil {
			return errors.Wrap(err, "checking "+column+" uniqueness")
		}
		if exists {
			return dup
		}
		return nil
	}

	if err := check("username", username, user.ErrUsernameExists); err != nil {
		return err
	}
	return check("email", email, user.ErrEmailExists)
}

func (r *userRepository) CreateUser(usr user.User) (user.User, error) {
	usr.ID = uuid.New().String()
	query := `
		INSERT INTO "user" (id, name, username, email, role, is_active, age, gender, language,
		                    points, labels, password_hash, created_at, updated_at, last_login)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.db.Exec(
		query,
		usr.ID, usr.Name, usr.Username, usr.Email, usr.Role, usr.IsActive,
		usr.Age, usr.Gender, usr.Language, usr.Points, pq.Array(usr.Labels),
		usr.PasswordHash, usr.CreatedAt, usr.UpdatedAt, usr.LastLogin,
	)
	if err != nil {
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return usr, nil
}

func (r *userRepository) QueryAllUsers() ([]user.User, error) {
	rows, err := r.db.Query(`SELECT ` + userColumns + ` FROM "user" ORDER BY created_at`)
	if err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	defer func() { _ = rows.Close() }()

	users := make([]user.User, 0)
	for rows.Next() {
		usr, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, usr)
	}
	return users, errors.Wrap(rows.Err(), "querying users")
}

func (r *userRepository) GetUserByID(id string) (user.User, error) {
	return scanUser(r.db.QueryRow(`SELECT `+userColumns+` FROM "user" WHERE id = $1`, id))
}

func (r *userRepository) GetUserByUsernameOrEmail(username string) (user.User, error) {
	query := `SELECT ` + userColumns + ` FROM "user" WHERE username = $1 OR email = $1`
	return scanUser(r.db.QueryRow(query, username))
}

func (r *userRepository) UpdateUser(usr user.User, isActive *bool) (user.User, error) {
	orig, err := r.GetUserByID(usr.ID)
	if err != nil {
		return user.User{}, err
	}

	if usr.Name != "" {
		orig.Name = usr.Name
	}
	if usr.Username != "" {
		orig.Username = usr.Username
	}
	if usr.Email != "" {
		orig.Email = usr.Email
	}
	if usr.Role != "" {
		orig.Role = usr.Role
	}
	if usr.PasswordHash != nil {
		orig.PasswordHash = usr.PasswordHash
	}
	if !usr.LastLogin.IsZero() {
		orig.LastLogin = usr.LastLogin
	}
	if !usr.UpdatedAt.IsZero() {
		orig.UpdatedAt = usr.UpdatedAt
	}
	if isActive != nil {
		orig.IsActive = *isActive
	}

	query := `
		UPDATE "user"
		SET name = $2, username = $3, email = $4, role = $5, is_active = $6, age = $7,
		    gender = $8, language = $9, points = $10, labels = $11, password_hash = $12,
		    updated_at = $13, last_login = $14
		WHERE id = $1`
	_, err = r.db.Exec(
		query,
		orig.ID, orig.Name, orig.Username, orig.Email, orig.Role, orig.IsActive, orig.Age,
		orig.Gender, orig.Language, orig.Points, pq.Array(orig.Labels), orig.PasswordHash,
		orig.UpdatedAt, orig.LastLogin,
	)
	if err != nil {
		return user.User{}, errors.Wrap(err, "updating user")
	}
	return orig, nil
}

func (r *userRepository) DeleteUsersByID(ids ...string) error {
	_, err := r.db.Exec(`DELETE FROM "user" WHERE id = ANY($1)`, pq.Array(ids))
	return errors.Wrap(err, "deleting users")
}
