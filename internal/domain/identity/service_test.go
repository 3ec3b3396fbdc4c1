package identity

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/medtrack/medtrack/internal/platform/apperr"
	"github.com/medtrack/medtrack/internal/platform/auth"
)

type mockRepo struct {
	users map[uuid.UUID]*User
}

func newMockRepo() *mockRepo {
	return &mockRepo{users: make(map[uuid.UUID]*User)}
}

func (m *mockRepo) Create(_ context.Context, u *User) error {
	u.ID = uuid.New()
	u.CreatedAt = time.Now()
	u.UpdatedAt = time.Now()
	m.users[u.ID] = u
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return u, nil
}

func (m *mockRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, fmt.Errorf("not found")
}

func (m *mockRepo) CountByRole(_ context.Context, role auth.Role) (int, error) {
	n := 0
	for _, u := range m.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

func patientInput() *RegisterInput {
	return &RegisterInput{
		Name:     "Pat Example",
		Email:    "Pat@Example.com",
		Password: "correct horse",
		Role:     "Patient",
	}
}

func TestRegister_Patient(t *testing.T) {
	svc := NewService(newMockRepo())
	u, err := svc.Register(context.Background(), patientInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Email != "pat@example.com" {
		t.Errorf("expected lowercased email, got %q", u.Email)
	}
	if u.PasswordHash == "" || u.PasswordHash == "correct horse" {
		t.Error("expected password hashed")
	}
	if u.Role != auth.RolePatient {
		t.Errorf("expected Patient role, got %s", u.Role)
	}
}

func TestRegister_ShortPassword(t *testing.T) {
	svc := NewService(newMockRepo())
	in := patientInput()
	in.Password = "short"
	_, err := svc.Register(context.Background(), in)
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Errorf("expected Validation, got %v", err)
	}
}

func TestRegister_InvalidRole(t *testing.T) {
	svc := NewService(newMockRepo())
	in := patientInput()
	in.Role = "Surgeon"
	_, err := svc.Register(context.Background(), in)
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Errorf("expected Validation, got %v", err)
	}
}

func TestRegister_DoctorRequiresLicense(t *testing.T) {
	svc := NewService(newMockRepo())
	in := patientInput()
	in.Role = "Doctor"
	_, err := svc.Register(context.Background(), in)
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Errorf("expected Validation without license, got %v", err)
	}

	in.MedicalLicense = "MD-123"
	in.Specialization = "Cardiology"
	u, err := svc.Register(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.MedicalLicense == nil || *u.MedicalLicense != "MD-123" {
		t.Error("expected medical license stored")
	}
}

func TestRegister_PharmacistRequiresLicenseAndAddress(t *testing.T) {
	svc := NewService(newMockRepo())
	in := patientInput()
	in.Role = "Pharmacist"
	_, err := svc.Register(context.Background(), in)
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Errorf("expected Validation without pharmacy license, got %v", err)
	}

	in.PharmacyLicense = "PH-1"
	_, err = svc.Register(context.Background(), in)
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Errorf("expected Validation without pharmacy address, got %v", err)
	}

	in.PharmacyAddress = "12 High St"
	u, err := svc.Register(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.PharmacyAddress == nil || *u.PharmacyAddress != "12 High St" {
		t.Error("expected pharmacy address stored")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := NewService(newMockRepo())
	if _, err := svc.Register(context.Background(), patientInput()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := svc.Register(context.Background(), patientInput())
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Errorf("expected Validation for duplicate email, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	svc := NewService(newMockRepo())
	if _, err := svc.Register(context.Background(), patientInput()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	u, err := svc.Authenticate(context.Background(), "pat@example.com", "correct horse")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Role != auth.RolePatient {
		t.Errorf("expected Patient, got %s", u.Role)
	}
}

func TestAuthenticate_WrongPasswordAndUnknownEmailIndistinguishable(t *testing.T) {
	svc := NewService(newMockRepo())
	if _, err := svc.Register(context.Background(), patientInput()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, errWrong := svc.Authenticate(context.Background(), "pat@example.com", "bad password")
	_, errUnknown := svc.Authenticate(context.Background(), "nobody@example.com", "whatever")
	if errWrong == nil || errUnknown == nil {
		t.Fatal("expected both attempts to fail")
	}
	if errWrong.Error() != errUnknown.Error() {
		t.Errorf("credential errors must be identical, got %q and %q", errWrong, errUnknown)
	}
}

func TestFindPatientByEmail_RejectsNonPatients(t *testing.T) {
	svc := NewService(newMockRepo())
	in := patientInput()
	in.Role = "Doctor"
	in.MedicalLicense = "MD-1"
	in.Specialization = "GP"
	if _, err := svc.Register(context.Background(), in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := svc.FindPatientByEmail(context.Background(), "pat@example.com")
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Errorf("expected NotFound for non-patient account, got %v", err)
	}
}

func TestDisplayNameAndEmailOf(t *testing.T) {
	svc := NewService(newMockRepo())
	u, err := svc.Register(context.Background(), patientInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	name, err := svc.DisplayName(context.Background(), u.ID)
	if err != nil || name != u.Name {
		t.Errorf("DisplayName = %q, %v; want %q", name, err, u.Name)
	}
	email, err := svc.EmailOf(context.Background(), u.ID)
	if err != nil || email != u.Email {
		t.Errorf("EmailOf = %q, %v; want %q", email, err, u.Email)
	}

	if _, err := svc.EmailOf(context.Background(), uuid.New()); apperr.KindOf(err) != apperr.KindNotFound {
		t.Errorf("expected NotFound for unknown user, got %v", err)
	}
}
