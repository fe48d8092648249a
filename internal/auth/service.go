package auth

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/RahulB-24/ExpenseOps/internal"
	"github.com/RahulB-24/ExpenseOps/internal/authz"
)

// UserRepository is the minimal user access the auth flow needs.
type UserRepository interface {
	GetByEmail(email string) (*User, string, error) // user, password hash
	GetByID(id uuid.UUID) (*User, error)
	Create(u *User, passwordHash string) error
	CountInTenant(tenantID uuid.UUID) (int64, error)
}

// TenantRepository resolves and creates tenants during registration.
type TenantRepository interface {
	GetByInviteCode(code string) (tenantID uuid.UUID, name string, err error)
	SlugExists(slug string) (bool, error)
	Create(id uuid.UUID, name, slug, inviteCode string) error
}

// CategorySeeder creates the default category set for a freshly founded
// tenant.
type CategorySeeder interface {
	SeedDefaults(tenantID uuid.UUID) error
}

type Service struct {
	users      UserRepository
	tenants    TenantRepository
	categories CategorySeeder
	tokenGen   TokenGeneratorAPI
	bcryptCost int
	logger     *slog.Logger
}

func NewService(users UserRepository, tenants TenantRepository, categories CategorySeeder, tokenGen TokenGeneratorAPI, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		users:      users,
		tenants:    tenants,
		categories: categories,
		tokenGen:   tokenGen,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Login validates credentials and returns a token plus the cached profile.
// Deactivated accounts are refused even with correct credentials.
func (s *Service) Login(dto LoginDTO) (*AuthResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	user, storedHash, err := s.users.GetByEmail(dto.Email)
	if err != nil {
		return nil, internal.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(dto.Password)); err != nil {
		return nil, internal.ErrInvalidCredentials
	}

	if !user.IsActive {
		s.logger.Warn("login refused for inactive user", "user_id", user.ID)
		return nil, internal.ErrUserInactive
	}

	token, err := s.tokenGen.GenerateToken(user)
	if err != nil {
		return nil, internal.NewInternalError("failed to generate token", err)
	}

	return &AuthResponse{Token: token, User: *user}, nil
}

var slugCleaner = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(name string) string {
	slug := slugCleaner.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}

// Register creates a user in an existing tenant (invite code) or founds a new
// tenant. The first user of any tenant becomes its admin; a new tenant also
// gets the default category set.
func (s *Service) Register(dto RegisterDTO) (*AuthResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if _, _, err := s.users.GetByEmail(dto.Email); err == nil {
		return nil, internal.NewConflictError("email is already registered", internal.ErrCodeEmailTaken)
	}

	var tenantID uuid.UUID
	var tenantName string
	firstUser := false

	if dto.NewTenantName != "" {
		slug := slugify(dto.NewTenantName)
		taken, err := s.tenants.SlugExists(slug)
		if err != nil {
			return nil, internal.NewInternalError("failed to check organization name", err)
		}
		if taken {
			return nil, internal.NewConflictError("organization name already taken", internal.ErrCodeTenantNameTaken)
		}

		tenantID = uuid.New()
		tenantName = dto.NewTenantName
		inviteCode, err := GenerateInviteCode()
		if err != nil {
			return nil, internal.NewInternalError("failed to generate invite code", err)
		}
		if err := s.tenants.Create(tenantID, dto.NewTenantName, slug, inviteCode); err != nil {
			return nil, internal.NewInternalError("failed to create organization", err)
		}
		if err := s.categories.SeedDefaults(tenantID); err != nil {
			s.logger.Error("failed to seed default categories", "error", err, "tenant_id", tenantID)
		}
		firstUser = true
	} else {
		id, name, err := s.tenants.GetByInviteCode(strings.TrimSpace(dto.InviteCode))
		if err != nil {
			return nil, internal.ErrInvalidInviteCode
		}
		tenantID, tenantName = id, name

		count, err := s.users.CountInTenant(tenantID)
		if err != nil {
			return nil, internal.NewInternalError("failed to inspect tenant", err)
		}
		firstUser = count == 0
	}

	role := authz.RoleEmployee
	if firstUser {
		role = authz.RoleAdmin
	}

	hash, err := s.HashPassword(dto.Password)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	user := &User{
		ID:         uuid.New(),
		TenantID:   tenantID,
		TenantName: tenantName,
		Name:       dto.Name,
		Email:      dto.Email,
		Role:       role,
		Department: dto.Department,
		IsActive:   true,
	}

	if err := s.users.Create(user, hash); err != nil {
		return nil, internal.NewInternalError("failed to create user", err)
	}

	s.logger.Info("user registered",
		"user_id", user.ID,
		"tenant_id", tenantID,
		"role", role,
		"new_tenant", dto.NewTenantName != "")

	token, err := s.tokenGen.GenerateToken(user)
	if err != nil {
		return nil, internal.NewInternalError("failed to generate token", err)
	}

	return &AuthResponse{Token: token, User: *user}, nil
}

func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGen.ValidateToken(tokenString)
}

func (s *Service) GetUserByID(userID uuid.UUID) (*User, error) {
	return s.users.GetByID(userID)
}

func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// GenerateToken signs a token for the user.
func (j *JWTTokenGenerator) GenerateToken(u *User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:   u.ID.String(),
		TenantID: u.TenantID.String(),
		Email:    u.Email,
		Role:     string(u.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(j.TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   u.ID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.Secret)
}

// ValidateToken parses and verifies a token, returning its claims.
func (j *JWTTokenGenerator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.Secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, internal.ErrTokenExpired
		}
		return nil, internal.ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, internal.ErrInvalidToken
}

const inviteCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateInviteCode returns a short, human-typable tenant join code.
func GenerateInviteCode() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	code := make([]byte, len(buf))
	for i, b := range buf {
		code[i] = inviteCodeAlphabet[int(b)%len(inviteCodeAlphabet)]
	}
	return string(code), nil
}
