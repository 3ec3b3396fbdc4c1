package identity

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/medtrack/medtrack/internal/platform/apperr"
	"github.com/medtrack/medtrack/internal/platform/auth"
)

const minPasswordLen = 8

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// RegisterInput carries signup fields. Role-specific fields are required for
// the matching role and ignored otherwise.
type RegisterInput struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	Role            string `json:"role"`
	MedicalLicense  string `json:"medicalLicense"`
	Specialization  string `json:"specialization"`
	PharmacyLicense string `json:"pharmacyLicense"`
	PharmacyAddress string `json:"pharmacyAddress"`
}

func (s *Service) Register(ctx context.Context, in *RegisterInput) (*User, error) {
	if in.Name == "" || in.Email == "" || in.Password == "" || in.Role == "" {
		return nil, apperr.Validation("name, email, password, and role are required")
	}
	if len(in.Password) < minPasswordLen {
		return nil, apperr.Validation("password must be at least %d characters", minPasswordLen)
	}
	role, err := auth.ParseRole(in.Role)
	if err != nil {
		return nil, apperr.Validation("invalid role %q", in.Role)
	}

	u := &User{
		Name:  strings.TrimSpace(in.Name),
		Email: strings.ToLower(strings.TrimSpace(in.Email)),
		Role:  role,
	}
	switch role {
	case auth.RoleDoctor:
		if in.MedicalLicense == "" || in.Specialization == "" {
			return nil, apperr.Validation("doctors must supply medicalLicense and specialization")
		}
		u.MedicalLicense = &in.MedicalLicense
		u.Specialization = &in.Specialization
	case auth.RolePharmacist:
		if in.PharmacyLicense == "" || in.PharmacyAddress == "" {
			return nil, apperr.Validation("pharmacists must supply pharmacyLicense and pharmacyAddress")
		}
		u.PharmacyLicense = &in.PharmacyLicense
		u.PharmacyAddress = &in.PharmacyAddress
	}

	if existing, err := s.repo.GetByEmail(ctx, u.Email); err == nil && existing != nil {
		return nil, apperr.Validation("email %s is already registered", u.Email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Unexpected(err, "hash password")
	}
	u.PasswordHash = string(hash)

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, apperr.Unexpected(err, "persist user")
	}
	return u, nil
}

// Authenticate checks credentials and returns the user. Unknown email and
// wrong password produce the same error so callers cannot probe accounts.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	if email == "" || password == "" {
		return nil, apperr.Validation("email and password are required")
	}
	u, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, apperr.Forbidden("invalid credentials")
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, apperr.Forbidden("invalid credentials")
	}
	return u, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.NotFound("user not found")
	}
	return u, nil
}

// FindPatientByEmail resolves a patient account for prescription issuance.
func (s *Service) FindPatientByEmail(ctx context.Context, email string) (uuid.UUID, error) {
	u, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return uuid.Nil, apperr.NotFound("no patient with that email")
	}
	if u.Role != auth.RolePatient {
		return uuid.Nil, apperr.NotFound("no patient with that email")
	}
	return u.ID, nil
}

// DisplayName returns the user's name, or an empty string when the account
// is unknown. Used when addressing notifications.
func (s *Service) DisplayName(ctx context.Context, id uuid.UUID) (string, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", apperr.NotFound("user not found")
	}
	return u.Name, nil
}

// EmailOf returns the user's email address. Used when addressing
// notifications.
func (s *Service) EmailOf(ctx context.Context, id uuid.UUID) (string, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", apperr.NotFound("user not found")
	}
	return u.Email, nil
}

// CountByRole reports how many accounts hold a role. Used by admin analytics.
func (s *Service) CountByRole(ctx context.Context, role auth.Role) (int, error) {
	return s.repo.CountByRole(ctx, role)
}
