package auth

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims do token de acesso (RBAC simples: IsAdmin).
type Claims struct {
	OperadorID uint `json:"operador_id"`
	IsAdmin    bool `json:"is_admin"`
	jwt.RegisteredClaims
}

// Tempo de vida do access token.
const AccessTTL = 24 * time.Hour

var (
	secretOnce sync.Once
	secret     []byte
)

func jwtSecret() []byte {
	secretOnce.Do(func() {
		secret = []byte(os.Getenv("JWT_SECRET"))
	})
	return secret
}

// GenerateAccessToken emite um JWT HS256 com sub, iat, exp e jti.
func GenerateAccessToken(operadorID uint, isAdmin bool) (string, error) {
	key := jwtSecret()
	if len(key) == 0 {
		return "", errors.New("JWT_SECRET não definida")
	}

	now := time.Now()
	claims := &Claims{
		OperadorID: operadorID,
		IsAdmin:    isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(operadorID),
			ExpiresAt: jwt.NewNumericDate(now.Add(AccessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now.Add(-1 * time.Minute)),
			ID:        fmt.Sprintf("%d-%d", operadorID, now.UnixNano()),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(key)
}

// ParseAndValidate valida assinatura e expiração e devolve as claims.
func ParseAndValidate(tokenStr string) (*Claims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256"}))
	tok, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		key := jwtSecret()
		if len(key) == 0 {
			return nil, errors.New("JWT_SECRET não definida")
		}
		return key, nil
	})
	if err != nil {
		return nil, fmt.Errorf("token inválido ou expirado: %w", err)
	}
	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, errors.New("não foi possível extrair claims")
	}
	return claims, nil
}
