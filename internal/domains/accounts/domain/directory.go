package domain

import "errors"

var (
	ErrNIKNotRegistered = errors.New("nik is not in the pre-registered directory")
	ErrNIKTaken         = errors.New("nik is already registered")
	ErrRoleNotEligible  = errors.New("only Staff and Head may register")
)

// Eligible directory roles for self-registration.
const (
	DirectoryRoleStaff = "Staff"
	DirectoryRoleHead  = "Head"
)

// DirectoryEntry is one pre-registered employee, keyed by NIK. Accounts can
// only be created for people HR has loaded into the directory.
type DirectoryEntry struct {
	NIK         string
	NamaLengkap string
	Divisi      string
	Role        string
}

// EligibleToRegister reports whether this directory role may self-register.
func (e DirectoryEntry) EligibleToRegister() bool {
	return e.Role == DirectoryRoleStaff || e.Role == DirectoryRoleHead
}
