package domain

import (
	"errors"
	"strings"
)

// Role is the approval-chain role carried by one profile.
type Role string

const (
	RoleRequester Role = "Requester"
	RoleChecker   Role = "Checker"
	RoleApproval  Role = "Approval"
	RoleReleaser  Role = "Releaser"
)

var (
	ErrInvalidAccount      = errors.New("account has no profiles")
	ErrInvalidProfileIndex = errors.New("profile index out of range")
	ErrEmptyPrincipal      = errors.New("principal id is required")
	ErrEmptyEmail          = errors.New("email is required")
)

// Profile is one role-and-entity binding held by an account. A user may act
// as Requester in one entity and Checker in another.
type Profile struct {
	Email  string `json:"email"`
	Entity string `json:"entity"`
	Role   Role   `json:"role"`
}

// Account is the user aggregate. SelectedProfileIndex is persisted so the
// active profile survives across sessions.
type Account struct {
	ID                   string
	NIK                  string
	NamaLengkap          string
	Divisi               string
	EmailVerified        bool
	Profiles             []Profile
	SelectedProfileIndex int
}

// NewAccount builds an account ensuring required invariants.
func NewAccount(id, nik, namaLengkap, divisi string, profiles []Profile) (*Account, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrEmptyPrincipal
	}
	if len(profiles) == 0 {
		return nil, ErrInvalidAccount
	}
	for _, p := range profiles {
		if strings.TrimSpace(p.Email) == "" {
			return nil, ErrEmptyEmail
		}
	}
	return &Account{
		ID:          id,
		NIK:         nik,
		NamaLengkap: namaLengkap,
		Divisi:      divisi,
		Profiles:    append([]Profile{}, profiles...),
	}, nil
}

// ActiveProfile resolves the currently selected profile. An out-of-range
// stored index fails closed to the first profile rather than erroring; an
// account with no profiles at all is invalid.
func (a *Account) ActiveProfile() (Profile, error) {
	if len(a.Profiles) == 0 {
		return Profile{}, ErrInvalidAccount
	}
	index := a.SelectedProfileIndex
	if index < 0 || index >= len(a.Profiles) {
		index = 0
	}
	return a.Profiles[index], nil
}

// SwitchProfile validates and applies a new selected index. On an
// out-of-range index the account is left unchanged.
func (a *Account) SwitchProfile(index int) (Profile, error) {
	if len(a.Profiles) == 0 {
		return Profile{}, ErrInvalidAccount
	}
	if index < 0 || index >= len(a.Profiles) {
		return Profile{}, ErrInvalidProfileIndex
	}
	a.SelectedProfileIndex = index
	return a.Profiles[index], nil
}

// Clone returns a deep copy so adapters can hand out accounts safely.
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	clone := *a
	clone.Profiles = append([]Profile{}, a.Profiles...)
	return &clone
}
