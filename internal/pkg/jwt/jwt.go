package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// Claims carried by admin access tokens
type Claims struct {
	AdminID    string `json:"admin_id"`
	Username   string `json:"username"`
	ShopDomain string `json:"shop_domain"`
	jwt.RegisteredClaims
}

// JWT signs and validates admin access tokens
type JWT struct {
	secret     []byte
	expiration time.Duration
}

// NewJWT creates a JWT helper
func NewJWT(secret string, expiration time.Duration) *JWT {
	return &JWT{
		secret:     []byte(secret),
		expiration: expiration,
	}
}

// GenerateToken issues an access token
func (j *JWT) GenerateToken(adminID, username, shopDomain string) (string, error) {
	now := time.Now()
	claims := &Claims{
		AdminID:    adminID,
		Username:   username,
		ShopDomain: shopDomain,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(j.expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secret)
}

// GetExpiration returns the token lifetime
func (j *JWT) GetExpiration() time.Duration {
	return j.expiration
}

// ValidateToken parses a token and returns its claims
func (j *JWT) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return j.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}
