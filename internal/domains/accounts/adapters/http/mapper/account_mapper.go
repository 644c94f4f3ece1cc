// Package mapper converts between transport payloads and the account domain.
package mapper

import (
	"github.com/adiwjy/go-procurement-api/internal/domains/accounts/domain"
	"github.com/adiwjy/go-procurement-api/internal/domains/accounts/ports"
)

// RegisterPayload is the transport shape for self-registration.
type RegisterPayload struct {
	PrincipalID string `json:"principalId" binding:"required"`
	NIK         string `json:"nik" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Entity      string `json:"entity"`
	Role        string `json:"role"`
}

// SwitchProfilePayload selects an account profile by index.
type SwitchProfilePayload struct {
	Index int `json:"index"`
}

// ProfileResponse is the transport representation of one profile binding.
type ProfileResponse struct {
	Email  string `json:"email"`
	Entity string `json:"entity"`
	Role   string `json:"role"`
}

// ResolvedProfileResponse carries the active profile and its landing route.
type ResolvedProfileResponse struct {
	Profile ProfileResponse `json:"profile"`
	Route   string          `json:"route"`
}

// LoginResponse carries the established session and the resolved profile.
type LoginResponse struct {
	Token   string                  `json:"token"`
	Profile ResolvedProfileResponse `json:"profile"`
}

// AccountResponse is the transport representation of a stored account.
type AccountResponse struct {
	ID                   string            `json:"id"`
	NIK                  string            `json:"nik"`
	NamaLengkap          string            `json:"namaLengkap"`
	Divisi               string            `json:"divisi"`
	EmailVerified        bool              `json:"emailVerified"`
	Profiles             []ProfileResponse `json:"profiles"`
	SelectedProfileIndex int               `json:"selectedProfileIndex"`
}

// DirectoryEntryResponse is the transport shape of a NIK lookup hit.
type DirectoryEntryResponse struct {
	NIK         string `json:"nik"`
	NamaLengkap string `json:"namaLengkap"`
	Divisi      string `json:"divisi"`
	Role        string `json:"role"`
}

// ToRegisterInput converts the transport payload into a use-case input.
func ToRegisterInput(payload RegisterPayload) ports.RegisterInput {
	return ports.RegisterInput{
		PrincipalID: payload.PrincipalID,
		NIK:         payload.NIK,
		Email:       payload.Email,
		Entity:      payload.Entity,
		Role:        domain.Role(payload.Role),
	}
}

// FromProfile converts a domain profile.
func FromProfile(profile domain.Profile) ProfileResponse {
	return ProfileResponse{
		Email:  profile.Email,
		Entity: profile.Entity,
		Role:   string(profile.Role),
	}
}

// FromResolvedProfile converts a resolution result.
func FromResolvedProfile(resolved ports.ResolvedProfile) ResolvedProfileResponse {
	return ResolvedProfileResponse{
		Profile: FromProfile(resolved.Profile),
		Route:   resolved.Route,
	}
}

// FromLogin converts a login result.
func FromLogin(session ports.Session, resolved ports.ResolvedProfile) LoginResponse {
	return LoginResponse{
		Token:   session.Token,
		Profile: FromResolvedProfile(resolved),
	}
}

// FromAccount converts a stored account.
func FromAccount(proj *ports.AccountProjection) AccountResponse {
	if proj == nil || proj.Entity == nil {
		return AccountResponse{}
	}
	account := proj.Entity
	profiles := make([]ProfileResponse, 0, len(account.Profiles))
	for _, profile := range account.Profiles {
		profiles = append(profiles, FromProfile(profile))
	}
	return AccountResponse{
		ID:                   account.ID,
		NIK:                  account.NIK,
		NamaLengkap:          account.NamaLengkap,
		Divisi:               account.Divisi,
		EmailVerified:        account.EmailVerified,
		Profiles:             profiles,
		SelectedProfileIndex: account.SelectedProfileIndex,
	}
}

// FromDirectoryEntry converts a directory hit.
func FromDirectoryEntry(entry *domain.DirectoryEntry) DirectoryEntryResponse {
	if entry == nil {
		return DirectoryEntryResponse{}
	}
	return DirectoryEntryResponse{
		NIK:         entry.NIK,
		NamaLengkap: entry.NamaLengkap,
		Divisi:      entry.Divisi,
		Role:        entry.Role,
	}
}
