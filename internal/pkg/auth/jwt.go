package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWT errors
var (
	ErrInvalidToken         = errors.New("invalid token")
	ErrInvalidFormat        = errors.New("invalid authorization header format")
	ErrUnsupportedAlgorithm = errors.New("unsupported signing algorithm")
)

// Claim names written by Issue. Extra claims cannot override them.
const (
	ClaimSubject   = "sub"
	ClaimRole      = "role"
	ClaimUserID    = "user_id"
	ClaimExpiresAt = "exp"
	ClaimIssuedAt  = "iat"
)

// DefaultAccessTokenExp is the token lifetime used when none is configured
const DefaultAccessTokenExp = 480 * time.Minute

// JWTConfig defines JWT configuration settings
type JWTConfig struct {
	SecretKey      string
	Algorithm      string
	AccessTokenExp time.Duration
	// Now overrides the clock, mainly for tests
	Now func() time.Time
}

// JWTService issues and verifies signed, time-limited bearer tokens
type JWTService struct {
	secret []byte
	method jwt.SigningMethod
	exp    time.Duration
	now    func() time.Time
}

// Principal is the identity carried by a verified token
type Principal struct {
	Subject   string                 `json:"sub"`
	Role      string                 `json:"role"`
	ExpiresAt time.Time              `json:"exp"`
	Claims    map[string]interface{} `json:"claims"`
}

// UserID returns the internal user identifier claim, if present
func (p *Principal) UserID() string {
	id, _ := p.Claims[ClaimUserID].(string)
	return id
}

// NewJWTService creates a new JWT service. Only HMAC algorithms are accepted.
func NewJWTService(config JWTConfig) (*JWTService, error) {
	if config.SecretKey == "" {
		return nil, errors.New("jwt secret is required")
	}
	alg := config.Algorithm
	if alg == "" {
		alg = jwt.SigningMethodHS256.Alg()
	}
	method, ok := jwt.GetSigningMethod(alg).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, alg)
	}
	exp := config.AccessTokenExp
	if exp <= 0 {
		exp = DefaultAccessTokenExp
	}
	now := config.Now
	if now == nil {
		now = time.Now
	}
	return &JWTService{
		secret: []byte(config.SecretKey),
		method: method,
		exp:    exp,
		now:    now,
	}, nil
}

// AccessTokenExp returns the configured token lifetime
func (s *JWTService) AccessTokenExp() time.Duration {
	return s.exp
}

// Issue signs a token for subject with role, expiring AccessTokenExp from now.
func (s *JWTService) Issue(subject, role string, extra map[string]interface{}) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{}
	for k, v := range extra {
		claims[k] = v
	}
	claims[ClaimSubject] = subject
	claims[ClaimRole] = role
	claims[ClaimIssuedAt] = jwt.NewNumericDate(now)
	claims[ClaimExpiresAt] = jwt.NewNumericDate(now.Add(s.exp))

	token := jwt.NewWithClaims(s.method, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, algorithm and expiry. Every failure is ErrInvalidToken.
func (s *JWTService) Verify(tokenString string) (*Principal, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, fmt.Errorf("%w: missing expiry", ErrInvalidToken)
	}
	role, _ := claims[ClaimRole].(string)

	return &Principal{
		Subject:   subject,
		Role:      role,
		ExpiresAt: exp.Time,
		Claims:    map[string]interface{}(claims),
	}, nil
}

// ExtractBearerToken extracts the token from an "Authorization: Bearer <token>" header
func ExtractBearerToken(authHeader string) (string, error) {
	scheme, token, found := strings.Cut(strings.TrimSpace(authHeader), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", ErrInvalidFormat
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrInvalidFormat
	}
	return token, nil
}
