package user

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/mail"
	"sync"
	"time"

	"github.com/elimuhq/elimu/core"
)

var (
	// errors
	ErrNotFound       = errors.New("user not found")
	ErrEmailExists    = errors.New("a user with this email already exists")
	ErrUsernameExists = errors.New("a user with this username already exists")
)

// Login verification code reasons.
const (
	CodeRequired = "code_required"
	CodeExpired  = "code_expired"
	CodeInvalid  = "code_invalid"
)

// CodeError signals that a login requires (or received a bad) verification
// code. Reason is one of CodeRequired, CodeExpired or CodeInvalid and drives
// the client's code-entry UI branch.
type CodeError struct {
	Reason string
}

func (e *CodeError) Error() string {
	switch e.Reason {
	case CodeExpired:
		return "verification code has expired"
	case CodeInvalid:
		return "invalid verification code"
	default:
		return "a verification code is required"
	}
}

type (
	Repository interface {
		CheckUsernameUniqueness(username, email string, excludedUsers ...User) error
		CreateUser(user User) (User, error)
		QueryAllUsers() ([]User, error)
		GetUserByID(id string) (User, error)
		GetUserByUsernameOrEmail(username string) (User, error)
		// UpdateUser merges non-empty fields of user over the stored record;
		// isActive is applied only when non-nil.
		UpdateUser(user User, isActive *bool) (User, error)
		DeleteUsersByID(ids ...string) error
	}

	ServiceInterface interface {
		CheckUniqueness(uname, email string, exclUsers ...User) error
		Create(nu NewUser) (User, error)
		QueryAll() ([]User, error)
		GetByID(id string) (User, error)
		GetByUsernameOrEmail(uname string) (User, error)
		Update(id string, uu UpdateUser) (User, error)
		Delete(ids ...string) error
		SetLastLogin(usr User) (User, error)
		RequestLoginCode(usr User) error
		CheckLoginCode(usr User, code string) error
	}

	loginCode struct {
		code      string
		expiresAt time.Time
	}

	Service struct {
		repo Repository
		mail core.EmailService
		conf *core.Config

		mu    sync.Mutex
		codes map[string]loginCode // user ID -> pending login code
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository, mailSvc core.EmailService, conf *core.Config) *Service {
	return &Service{
		repo:  repo,
		mail:  mailSvc,
		conf:  conf,
		codes: make(map[string]loginCode),
	}
}

func (svc *Service) CheckUniqueness(uname, email string, exclUsers ...User) error {
	if err := svc.repo.CheckUsernameUniqueness(uname, email, exclUsers...); err != nil {
		var field string
		switch err {
		case ErrUsernameExists:
			field = "username"
		case ErrEmailExists:
			field = "email"
		default:
			return err
		}
		return core.NewValidationError(err, core.FieldError{Field: field, Error: err.Error()})
	}
	return nil
}

func (svc *Service) Create(nu NewUser) (User, error) {
	now := time.Now().UTC()
	usr := User{
		Name:      nu.Name,
		Username:  nu.Username,
		Email:     nu.Email,
		Role:      nu.Role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, err
	}
	return svc.repo.CreateUser(usr)
}

func (svc *Service) QueryAll() ([]User, error) {
	return svc.repo.QueryAllUsers()
}

func (svc *Service) GetByID(id string) (User, error) {
	return svc.repo.GetUserByID(id)
}

func (svc *Service) GetByUsernameOrEmail(uname string) (User, error) {
	return svc.repo.GetUserByUsernameOrEmail(core.CleanString(uname, true /* lower */))
}

func (svc *Service) Update(id string, uu UpdateUser) (User, error) {
	usr := User{
		ID:        id,
		Name:      uu.Name,
		Username:  uu.Username,
		Email:     uu.Email,
		Role:      uu.Role,
		UpdatedAt: time.Now().UTC(),
	}
	if uu.Password != "" {
		if err := usr.SetPassword(uu.Password); err != nil {
			return User{}, err
		}
	}
	return svc.repo.UpdateUser(usr, uu.IsActive)
}

func (svc *Service) Delete(ids ...string) error {
	return svc.repo.DeleteUsersByID(ids...)
}

func (svc *Service) SetLastLogin(usr User) (User, error) {
	usr.LastLogin = time.Now().UTC()
	return svc.repo.UpdateUser(User{ID: usr.ID, LastLogin: usr.LastLogin}, nil)
}

// RequestLoginCode generates a short-lived verification code for the user and
// emails it. Any previously pending code is replaced.
func (svc *Service) RequestLoginCode(usr User) error {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return err
	}
	code := fmt.Sprintf("%06d", n.Int64())

	svc.mu.Lock()
	svc.codes[usr.ID] = loginCode{
		code:      code,
		expiresAt: time.Now().Add(svc.conf.LoginCodeTimeout),
	}
	svc.mu.Unlock()

	svc.mail.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject: "Your verification code",
		Body: fmt.Sprintf(
			"Hi %s,\r\n\r\nYour %s verification code is: %s\r\n\r\n"+
				"It expires in %s. If you did not try to sign in, you can ignore this email.",
			usr.Name, svc.conf.AppName, code, svc.conf.LoginCodeTimeout,
		),
	})
	return nil
}

// CheckLoginCode verifies a submitted code against the pending one for the
// user. A valid code is single-use; an expired one is discarded.
func (svc *Service) CheckLoginCode(usr User, code string) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	pending, ok := svc.codes[usr.ID]
	if !ok {
		return &CodeError{Reason: CodeRequired}
	}
	if time.Now().After(pending.expiresAt) {
		delete(svc.codes, usr.ID)
		return &CodeError{Reason: CodeExpired}
	}
	if code != pending.code {
		return &CodeError{Reason: CodeInvalid}
	}
	delete(svc.codes, usr.ID)
	return nil
}
