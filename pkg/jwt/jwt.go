package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the token payload issued to employees. Subject holds the email.
type Claims struct {
	EmployeeID string `json:"id"`
	Name       string `json:"name"`
	Profile    string `json:"profile"`
	jwt.RegisteredClaims
}

func (c *Claims) Email() string {
	return c.Subject
}

// Manager signs and validates HS256 tokens.
type Manager struct {
	secret     string
	expiration time.Duration
	now        func() time.Time
}

func NewManager(secret string, expiration time.Duration) *Manager {
	return &Manager{secret: secret, expiration: expiration, now: time.Now}
}

// Expiration is the token lifetime.
func (m *Manager) Expiration() time.Duration {
	return m.expiration
}

// GenerateToken issues a token for an employee.
func (m *Manager) GenerateToken(employeeID, email, name, profile string) (string, error) {
	now := m.now()
	claims := Claims{
		EmployeeID: employeeID,
		Name:       name,
		Profile:    profile,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.secret))
}

// ValidateToken validates and parses token
func (m *Manager) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.secret), nil
	}, jwt.WithTimeFunc(m.now))

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("token has no subject")
	}

	return claims, nil
}
