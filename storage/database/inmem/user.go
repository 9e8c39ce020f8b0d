package inmemdb

import (
	"github.com/google/uuid"

	"github.com/elimuhq/elimu/core/user"
)

type userRepository struct {
	db *userTable
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{db: db.user}
}

// query returns a snapshot of all users; callers must hold the table lock.
func (r *userRepository) query() []user.User {
	res := make([]user.User, 0, len(r.db.table))
	for _, u := range r.db.table {
		res = append(res, *u)
	}
	return res
}

func (r *userRepository) CheckUsernameUniqueness(username, email string, excludedUsers ...user.User) error {
	r.db.RLock()
	defer r.db.RUnlock()

	excluded := func(usr user.User) bool {
		for _, ex := range excludedUsers {
			if ex.ID == usr.ID {
				return true
			}
		}
		return false
	}
	for _, usr := range r.query() {
		if excluded(usr) {
			continue
		}
		if username != "" && usr.Username == username {
			return user.ErrUsernameExists
		}
		if email != "" && usr.Email == email {
			return user.ErrEmailExists
		}
	}
	return nil
}

func (r *userRepository) CreateUser(usr user.User) (user.User, error) {
	r.db.Lock()
	defer r.db.Unlock()

	usr.ID = uuid.New().String()
	r.db.table[usr.ID] = &usr
	return usr, nil
}

func (r *userRepository) QueryAllUsers() ([]user.User, error) {
	r.db.RLock()
	defer r.db.RUnlock()
	return r.query(), nil
}

func (r *userRepository) GetUserByID(id string) (user.User, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	if usr, ok := r.db.table[id]; ok {
		return *usr, nil
	}
	return user.User{}, user.ErrNotFound
}

func (r *userRepository) GetUserByUsernameOrEmail(username string) (user.User, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	for _, usr := range r.query() {
		if (usr.Username == username) || (usr.Email == username) {
			return usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (r *userRepository) UpdateUser(usr user.User, isActive *bool) (user.User, error) {
	r.db.Lock()
	defer r.db.Unlock()

	orig, ok := r.db.table[usr.ID]
	if !ok {
		return user.User{}, user.ErrNotFound
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
	return *orig, nil
}

func (r *userRepository) DeleteUsersByID(ids ...string) error {
	r.db.Lock()
	defer r.db.Unlock()

	for _, id := range ids {
		delete(r.db.table, id)
	}
	return nil
}
