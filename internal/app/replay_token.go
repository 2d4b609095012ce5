package app

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

// ReplayTokenService issues short-lived signed tokens granting read access
// to a finished match's replay stream.
type ReplayTokenService struct {
	secret string
	issuer string
	ttl    time.Duration
}

const (
	ReplayRoleViewer = "viewer"
	ReplayRolePlayer = "player"
	defaultReplayTTL = time.Hour
)

func NewReplayTokenService(secret, issuer string, ttl time.Duration) *ReplayTokenService {
	if ttl <= 0 {
		ttl = defaultReplayTTL
	}
	return &ReplayTokenService{secret: secret, issuer: issuer, ttl: ttl}
}

// GenerateToken signs an HS256 token for the given user and match. Role is
// "player" for a match participant and "viewer" for everyone else.
func (s *ReplayTokenService) GenerateToken(userID, matchID, role string) (string, error) {
	if s == nil {
		return "", fmt.Errorf("replay token service is nil")
	}
	if userID == "" {
		return "", fmt.Errorf("user is required")
	}
	if matchID == "" {
		return "", fmt.Errorf("match is required")
	}
	if s.secret == "" || s.issuer == "" {
		return "", fmt.Errorf("replay token config is incomplete")
	}
	switch role {
	case ReplayRoleViewer, ReplayRolePlayer:
	default:
		return "", fmt.Errorf("unsupported replay role: %s", role)
	}

	claims := jwt.MapClaims{
		"iss":  s.issuer,
		"sub":  userID,
		"exp":  time.Now().Add(s.ttl).Unix(),
		"mid":  matchID,
		"role": role,
		"jti":  fmt.Sprintf("%d-%d", time.Now().UnixNano(), rand.Int63()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

// ParseToken validates a replay token's signature and expiry and returns its
// claims.
func (s *ReplayTokenService) ParseToken(tokenString string) (jwt.MapClaims, error) {
	if s == nil || s.secret == "" {
		return nil, fmt.Errorf("replay token config is incomplete")
	}
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid replay token")
	}
	return claims, nil
}
