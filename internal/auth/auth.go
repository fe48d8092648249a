package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/RahulB-24/ExpenseOps/internal/authz"
)

type ctxKey string

const ContextUserKey ctxKey = "user"

// User is the authenticated identity attached to a request.
type User struct {
	ID         uuid.UUID  `json:"id"`
	TenantID   uuid.UUID  `json:"tenantId"`
	TenantName string     `json:"tenantName,omitempty"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Role       authz.Role `json:"role"`
	Department string     `json:"department,omitempty"`
	IsActive   bool       `json:"isActive"`
}

// Actor strips the user down to what the authorization layer needs.
func (u *User) Actor() authz.Actor {
	return authz.Actor{ID: u.ID, Name: u.Name, Role: u.Role}
}

func (u *User) IsAdmin() bool {
	return u.Role == authz.RoleAdmin
}

func UserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(ContextUserKey).(*User)
	return u, ok
}

func ContextWithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, ContextUserKey, u)
}

// Claims is the JWT payload: identity plus the tenant scope every query runs
// under.
type Claims struct {
	UserID   string `json:"user_id"`
	TenantID string `json:"tenant_id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type ServiceAPI interface {
	Register(dto RegisterDTO) (*AuthResponse, error)
	Login(dto LoginDTO) (*AuthResponse, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	GetUserByID(userID uuid.UUID) (*User, error)
	HashPassword(password string) (string, error)
}

type TokenGeneratorAPI interface {
	GenerateToken(u *User) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

// JWTTokenGenerator signs HS256 tokens carrying the user and tenant identity.
type JWTTokenGenerator struct {
	Secret   []byte
	TokenTTL time.Duration
}

func NewJWTTokenGenerator(secret string, ttl time.Duration) *JWTTokenGenerator {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &JWTTokenGenerator{
		Secret:   []byte(secret),
		TokenTTL: ttl,
	}
}
