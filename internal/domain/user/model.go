package user

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength     = 100
	MaxEmailLength    = 254
	MaxPhoneLength    = 30
	MinPasswordLength = 8
)

// PasswordCost is the bcrypt cost used for new hashes.
const PasswordCost = bcrypt.DefaultCost

// Role constants
const (
	RoleAdmin      = "admin"
	RoleCustomer   = "customer"
	RoleDriver     = "driver"
	RoleDelivery   = "delivery"
	RoleAmbassador = "ambassador"
)

// Status constants
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// ValidRoles contains all valid role values.
var ValidRoles = []string{RoleAdmin, RoleCustomer, RoleDriver, RoleDelivery, RoleAmbassador}

// ValidStatuses contains all valid status values.
var ValidStatuses = []string{StatusActive, StatusInactive}

// Domain errors
var (
	ErrEmptyName        = errors.New("name is required")
	ErrNameTooLong      = errors.New("name cannot exceed 100 characters")
	ErrEmptyEmail       = errors.New("email is required")
	ErrInvalidEmail     = errors.New("email address is not valid")
	ErrPhoneTooLong     = errors.New("phone cannot exceed 30 characters")
	ErrInvalidRole      = errors.New("role must be one of: admin, customer, driver, delivery, ambassador")
	ErrInvalidStatus    = errors.New("status must be active or inactive")
	ErrEmptyPassword    = errors.New("password is required")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrWrongPassword    = errors.New("incorrect email or password")
	ErrEmailTaken       = errors.New("a user with this email already exists")
	ErrSelfAction       = errors.New("you cannot delete or deactivate your own account")
	ErrInactive         = errors.New("account is inactive")
)

// User is a back-office or storefront account.
type User struct {
	ID           int64
	Name         string
	Email        string
	Phone        string
	PasswordHash string
	Role         string
	Status       string
	CreatedAt    time.Time
}

// Validate checks if the User has valid data.
// PRE: User struct is populated
// POST: Returns nil if valid, error otherwise
func (u *User) Validate() error {
	name := strings.TrimSpace(u.Name)
	if name == "" {
		return ErrEmptyName
	}
	if len(name) > MaxNameLength {
		return ErrNameTooLong
	}
	email := strings.TrimSpace(u.Email)
	if email == "" {
		return ErrEmptyEmail
	}
	if len(email) > MaxEmailLength {
		return ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return ErrInvalidEmail
	}
	if len(u.Phone) > MaxPhoneLength {
		return ErrPhoneTooLong
	}
	if !contains(ValidRoles, u.Role) {
		return ErrInvalidRole
	}
	if !contains(ValidStatuses, u.Status) {
		return ErrInvalidStatus
	}
	return nil
}

// Normalize trims whitespace and lowercases the email.
// POST: Name, Email, Phone are trimmed; Email is lowercase
func (u *User) Normalize() {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.Phone = strings.TrimSpace(u.Phone)
}

// SetPassword hashes and stores a password using bcrypt.
// PRE: plaintext is at least MinPasswordLength characters
// POST: PasswordHash is set to bcrypt hash
func (u *User) SetPassword(plaintext string) error {
	if plaintext == "" {
		return ErrEmptyPassword
	}
	if len(plaintext) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), PasswordCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword verifies a plaintext password against the stored hash.
// INVARIANT: User fields are not mutated
func (u *User) CheckPassword(plaintext string) error {
	if u.PasswordHash == "" {
		return ErrWrongPassword
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plaintext)); err != nil {
		return ErrWrongPassword
	}
	return nil
}

// IsActive reports whether the account may sign in.
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// IsAdmin reports whether the account has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ToggleStatus flips active and inactive and returns the new status.
// POST: Status is the opposite of its previous value
func (u *User) ToggleStatus() string {
	if u.Status == StatusActive {
		u.Status = StatusInactive
	} else {
		u.Status = StatusActive
	}
	return u.Status
}

// GuardSelf refuses an action where the acting admin targets their own account.
func GuardSelf(actorID, targetID int64) error {
	if actorID != 0 && actorID == targetID {
		return ErrSelfAction
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
