package service

import (
	"context"
	"testing"
	"time"

	"madeh-desk/internal/domain"
	"madeh-desk/internal/repository"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"golang.org/x/crypto/bcrypt"
)

// Mock repositories for testing
type mockUserRepository struct {
	users map[string]*domain.User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users: make(map[string]*domain.User),
	}
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if _, exists := m.users[user.Email]; exists {
		return repository.ErrUserAlreadyExists
	}
	m.users[user.Email] = user
	return nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, exists := m.users[email]
	if !exists {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

type mockStaffRepository struct {
	staff map[uuid.UUID]*domain.Staff
}

func newMockStaffRepository() *mockStaffRepository {
	return &mockStaffRepository{
		staff: make(map[uuid.UUID]*domain.Staff),
	}
}

func (m *mockStaffRepository) Create(ctx context.Context, staff *domain.Staff) error {
	for _, existing := range m.staff {
		if existing.Email == staff.Email {
			return repository.ErrStaffAlreadyExists
		}
	}
	m.staff[staff.ID] = staff
	return nil
}

func (m *mockStaffRepository) Update(ctx context.Context, staff *domain.Staff) error {
	if _, exists := m.staff[staff.ID]; !exists {
		return repository.ErrStaffNotFound
	}
	m.staff[staff.ID] = staff
	return nil
}

func (m *mockStaffRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, exists := m.staff[id]; !exists {
		return repository.ErrStaffNotFound
	}
	delete(m.staff, id)
	return nil
}

func (m *mockStaffRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Staff, error) {
	staff, exists := m.staff[id]
	if !exists {
		return nil, repository.ErrStaffNotFound
	}
	return staff, nil
}

func (m *mockStaffRepository) FindByEmail(ctx context.Context, email string) (*domain.Staff, error) {
	for _, staff := range m.staff {
		if staff.Email == email {
			return staff, nil
		}
	}
	return nil, repository.ErrStaffNotFound
}

func (m *mockStaffRepository) List(ctx context.Context) ([]*domain.Staff, error) {
	staff := make([]*domain.Staff, 0, len(m.staff))
	for _, s := range m.staff {
		staff = append(staff, s)
	}
	return staff, nil
}

type mockRefreshTokenRepository struct {
	tokens map[string]*domain.RefreshToken
}

func newMockRefreshTokenRepository() *mockRefreshTokenRepository {
	return &mockRefreshTokenRepository{
		tokens: make(map[string]*domain.RefreshToken),
	}
}

func (m *mockRefreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	m.tokens[token.Token] = token
	return nil
}

func (m *mockRefreshTokenRepository) FindByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	refreshToken, exists := m.tokens[token]
	if !exists {
		return nil, repository.ErrRefreshTokenNotFound
	}
	if refreshToken.Revoked {
		return nil, repository.ErrRefreshTokenRevoked
	}
	return refreshToken, nil
}

func (m *mockRefreshTokenRepository) Revoke(ctx context.Context, token string) error {
	refreshToken, exists := m.tokens[token]
	if !exists {
		return repository.ErrRefreshTokenNotFound
	}
	refreshToken.Revoked = true
	return nil
}

func newTestAuthService() (AuthService, *mockUserRepository, *mockStaffRepository, *mockRefreshTokenRepository) {
	userRepo := newMockUserRepository()
	staffRepo := newMockStaffRepository()
	refreshTokenRepo := newMockRefreshTokenRepository()
	return NewAuthService(userRepo, staffRepo, refreshTokenRepo, "test-secret-key"), userRepo, staffRepo, refreshTokenRepo
}

// Feature: store-dashboard, Property 3: Registration creates hashed passwords
// Validates: Requirements 1.1
func TestProperty_RegistrationCreatesHashedPasswords(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("passwords are hashed with bcrypt and not stored as plaintext", prop.ForAll(
		func(email string, password string) bool {
			service, userRepo, _, _ := newTestAuthService()
			ctx := context.Background()

			user, err := service.Register(ctx, email, password)
			if err != nil {
				// If registration fails, skip this test case
				return true
			}

			if user.PasswordHash == password {
				t.Logf("FAIL: Password stored as plaintext for email %s", email)
				return false
			}

			if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
				t.Logf("FAIL: Password hash is not a valid bcrypt hash or doesn't match: %v", err)
				return false
			}

			storedUser, err := userRepo.FindByEmail(ctx, email)
			if err != nil {
				t.Logf("FAIL: Could not find stored user: %v", err)
				return false
			}

			if storedUser.PasswordHash != user.PasswordHash {
				t.Logf("FAIL: Stored password hash doesn't match returned password hash")
				return false
			}

			return true
		},
		gen.RegexMatch(`[a-z]{3,10}@[a-z]{3,8}\.(com|org|net)`),
		gen.RegexMatch(`[A-Za-z0-9!@#$%]{8,20}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Feature: store-dashboard, Property 4: Sessions carry the staff link
// Validates: Requirements 1.2
func TestProperty_TokensCarryStaffLinkWhenProfileExists(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("access tokens carry the staff id for linked identities", prop.ForAll(
		func(email string, password string, staffName string, role string) bool {
			service, _, staffRepo, _ := newTestAuthService()
			ctx := context.Background()

			staff := &domain.Staff{
				ID:        uuid.New(),
				Name:      staffName,
				Email:     email,
				Role:      role,
				Status:    domain.StaffActive,
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			}
			staffRepo.staff[staff.ID] = staff

			if _, err := service.Register(ctx, email, password); err != nil {
				return true // Skip if registration fails
			}

			accessToken, _, authUser, err := service.Login(ctx, email, password)
			if err != nil {
				t.Logf("FAIL: Login failed: %v", err)
				return false
			}

			if authUser.StaffID == nil || *authUser.StaffID != staff.ID {
				t.Logf("FAIL: Session missing staff link")
				return false
			}
			if authUser.Role != role {
				t.Logf("FAIL: Session role should mirror the staff profile, got %s", authUser.Role)
				return false
			}

			claims, err := service.ValidateToken(accessToken)
			if err != nil {
				t.Logf("FAIL: Token validation failed: %v", err)
				return false
			}

			if claims.StaffID == nil || *claims.StaffID != staff.ID {
				t.Logf("FAIL: Token claims missing staff id")
				return false
			}
			if claims.ExpiresAt == nil || claims.IssuedAt == nil {
				t.Logf("FAIL: Token missing registered claims")
				return false
			}

			return true
		},
		gen.RegexMatch(`[a-z]{3,10}@[a-z]{3,8}\.(com|org|net)`),
		gen.RegexMatch(`[A-Za-z0-9!@#$%]{8,20}`),
		gen.RegexMatch(`[A-Z][a-z]{2,15}`),
		gen.OneConstOf(domain.RoleOwner, domain.RoleManager, domain.RoleCashier),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestLogin_WithoutStaffProfile(t *testing.T) {
	service, _, _, _ := newTestAuthService()
	ctx := context.Background()

	if _, err := service.Register(ctx, "viewer@store.com", "password123"); err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	accessToken, _, authUser, err := service.Login(ctx, "viewer@store.com", "password123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if authUser.StaffID != nil {
		t.Fatal("unlinked identity should have no staff id")
	}
	if authUser.HasStaffProfile() {
		t.Fatal("HasStaffProfile should be false for unlinked identity")
	}

	claims, err := service.ValidateToken(accessToken)
	if err != nil {
		t.Fatalf("token validation failed: %v", err)
	}
	if claims.StaffID != nil {
		t.Fatal("token should not carry a staff id for unlinked identity")
	}
}

// Feature: store-dashboard, Property 5: Token refresh round trip
// Validates: Requirements 1.3
func TestProperty_TokenRefreshRoundTrip(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("valid refresh token returns new valid access token", prop.ForAll(
		func(email string, password string) bool {
			service, _, _, _ := newTestAuthService()
			ctx := context.Background()

			if _, err := service.Register(ctx, email, password); err != nil {
				return true // Skip if registration fails
			}

			_, refreshToken, user, err := service.Login(ctx, email, password)
			if err != nil {
				t.Logf("FAIL: Login failed: %v", err)
				return false
			}

			newAccessToken, err := service.RefreshToken(ctx, refreshToken)
			if err != nil {
				t.Logf("FAIL: Token refresh failed: %v", err)
				return false
			}

			claims, err := service.ValidateToken(newAccessToken)
			if err != nil {
				t.Logf("FAIL: New access token validation failed: %v", err)
				return false
			}

			if claims.UserID != user.UserID {
				t.Logf("FAIL: User ID mismatch in refreshed token")
				return false
			}

			if claims.ExpiresAt != nil && time.Now().After(claims.ExpiresAt.Time) {
				t.Logf("FAIL: Refreshed token is already expired")
				return false
			}

			return true
		},
		gen.RegexMatch(`[a-z]{3,10}@[a-z]{3,8}\.(com|org|net)`),
		gen.RegexMatch(`[A-Za-z0-9!@#$%]{8,20}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Feature: store-dashboard, Property 6: Logout invalidates refresh token
// Validates: Requirements 1.4
func TestProperty_LogoutInvalidatesRefreshToken(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("logout marks refresh token as revoked", prop.ForAll(
		func(email string, password string) bool {
			service, _, _, refreshTokenRepo := newTestAuthService()
			ctx := context.Background()

			if _, err := service.Register(ctx, email, password); err != nil {
				return true // Skip if registration fails
			}

			_, refreshToken, _, err := service.Login(ctx, email, password)
			if err != nil {
				t.Logf("FAIL: Login failed: %v", err)
				return false
			}

			if _, err := service.RefreshToken(ctx, refreshToken); err != nil {
				t.Logf("FAIL: Refresh token should work before logout: %v", err)
				return false
			}

			if err := service.Logout(ctx, refreshToken); err != nil {
				t.Logf("FAIL: Logout failed: %v", err)
				return false
			}

			if _, err := service.RefreshToken(ctx, refreshToken); err != ErrInvalidToken {
				t.Logf("FAIL: Expected ErrInvalidToken after logout, got: %v", err)
				return false
			}

			if _, err := refreshTokenRepo.FindByToken(ctx, refreshToken); err != repository.ErrRefreshTokenRevoked {
				t.Logf("FAIL: Token should be revoked in repository, got error: %v", err)
				return false
			}

			return true
		},
		gen.RegexMatch(`[a-z]{3,10}@[a-z]{3,8}\.(com|org|net)`),
		gen.RegexMatch(`[A-Za-z0-9!@#$%]{8,20}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestLogin_InvalidCredentials(t *testing.T) {
	service, _, _, _ := newTestAuthService()
	ctx := context.Background()

	if _, err := service.Register(ctx, "owner@store.com", "password123"); err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	if _, _, _, err := service.Login(ctx, "owner@store.com", "wrong-password"); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}

	if _, _, _, err := service.Login(ctx, "nobody@store.com", "password123"); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}
