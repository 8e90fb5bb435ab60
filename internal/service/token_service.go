package service

import (
	"fmt"
	"time"

	"asset-exchange/internal/core/domain"
	"asset-exchange/internal/core/ports"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// tokenLeeway absorbs clock skew between the issuing host and the ledger.
const tokenLeeway = 5 * time.Second

// accessClaims is the payload of a ledger bearer token. The bearer may sign
// actions as Subject with permission Perm.
type accessClaims struct {
	Perm string `json:"perm"`
	jwt.RegisteredClaims
}

// JWTTokenService implements ports.TokenService with HS256 tokens granting
// account@active.
type JWTTokenService struct {
	secret []byte
	expiry time.Duration
	issuer string
	parser *jwt.Parser
}

func NewJWTTokenService(secret string, expiry time.Duration, issuer string) *JWTTokenService {
	return &JWTTokenService{
		secret: []byte(secret),
		expiry: expiry,
		issuer: issuer,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(issuer),
			jwt.WithExpirationRequired(),
			jwt.WithIssuedAt(),
			jwt.WithLeeway(tokenLeeway),
		),
	}
}

// Generate signs a token for account@active. Each token gets a unique jti so
// audit entries can name the exact credential used.
func (s *JWTTokenService) Generate(account domain.Name) (string, time.Time, error) {
	if !account.IsValid() {
		return "", time.Time{}, fmt.Errorf("invalid account name %q", account)
	}
	now := time.Now()
	expiresAt := now.Add(s.expiry)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims{
		Perm: domain.PermissionActive,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   account.String(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing token: %w", err)
	}
	return signed, expiresAt, nil
}

func (s *JWTTokenService) Validate(tokenString string) (*ports.TokenClaims, error) {
	var claims accessClaims
	_, err := s.parser.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}
	if claims.Perm != domain.PermissionActive {
		return nil, fmt.Errorf("token grants %q permission, want %q", claims.Perm, domain.PermissionActive)
	}

	account, err := domain.ParseName(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("subject claim: %w", err)
	}
	return &ports.TokenClaims{Account: account, TokenID: claims.ID}, nil
}
