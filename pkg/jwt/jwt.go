package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Leeway tolerancia de reloj entre el emisor de tokens y este servicio.
const Leeway = 30 * time.Second

var (
	ErrEmptySecret = errors.New("jwt: secret vacío")
	ErrNoSubject   = errors.New("jwt: token sin usuario")
)

// Claims que emite el servicio de autenticación. El rol viaja en el token:
// main_admin | po_creator | approval_admin.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id,omitempty"`
	Role   string `json:"role"`
}

// Identity actor autenticado extraído del token.
type Identity struct {
	UserID string
	Role   string
}

// Verifier valida tokens HMAC emitidos por el servicio de autenticación externo.
type Verifier struct {
	secret []byte
	issuer string
}

// NewVerifier issuer vacío acepta cualquier emisor.
func NewVerifier(secret, issuer string) *Verifier {
	return &Verifier{secret: []byte(secret), issuer: issuer}
}

// Verify comprueba firma, expiración y emisor. El usuario sale de user_id o, si falta, de sub.
// Un rol vacío no es error aquí; lo decide el middleware.
func (v *Verifier) Verify(tokenString string) (Identity, error) {
	if len(v.secret) == 0 {
		return Identity{}, ErrEmptySecret
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
		jwt.WithLeeway(Leeway),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return Identity{}, fmt.Errorf("jwt: %w", err)
	}

	id := Identity{UserID: claims.UserID, Role: claims.Role}
	if id.UserID == "" {
		id.UserID = claims.Subject
	}
	if id.UserID == "" {
		return Identity{}, ErrNoSubject
	}
	return id, nil
}

// Issue firma un token HS256 para la identidad dada (herramientas locales y tests).
func Issue(secret string, id Identity, issuer string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: id.UserID,
		Role:   id.Role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
