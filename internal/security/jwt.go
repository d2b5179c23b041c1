package security

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"FoodDelivery/config"
	"FoodDelivery/internal/apperror"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	accessTokenType  = "access"
	refreshTokenType = "refresh"
)

type AccessClaims struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
	Type   string `json:"typ"`
	jwt.RegisteredClaims
}

type RefreshClaims struct {
	UserID int64  `json:"userId"`
	Type   string `json:"typ"`
	jwt.RegisteredClaims
}

// JWTService подписывает и проверяет токены. Access и refresh токены
// подписываются разными секретами, поэтому один не пройдёт проверку как другой.
type JWTService struct {
	accessSecret    []byte
	refreshSecret   []byte
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
	issuer          string
	now             func() time.Time
}

func NewJWTService(cfg config.JWTConfig) *JWTService {
	return &JWTService{
		accessSecret:    []byte(cfg.AccessSecret),
		refreshSecret:   []byte(cfg.RefreshSecret),
		accessTokenTTL:  cfg.AccessTokenTTL,
		refreshTokenTTL: cfg.RefreshTokenTTL,
		issuer:          cfg.Issuer,
		now:             time.Now,
	}
}

func (service *JWTService) registeredClaims(userID int64, ttl time.Duration) jwt.RegisteredClaims {
	now := service.now()
	return jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		Issuer:    service.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        uuid.NewString(),
	}
}

func (service *JWTService) GenerateAccessToken(userID int64, email string) (string, error) {
	claims := AccessClaims{
		UserID:           userID,
		Email:            email,
		Type:             accessTokenType,
		RegisteredClaims: service.registeredClaims(userID, service.accessTokenTTL),
	}

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(service.accessSecret)
	if err != nil {
		return "", fmt.Errorf("ошибка подписи access токена: %w", err)
	}

	return accessToken, nil
}

func (service *JWTService) GenerateRefreshToken(userID int64) (string, time.Time, error) {
	claims := RefreshClaims{
		UserID:           userID,
		Type:             refreshTokenType,
		RegisteredClaims: service.registeredClaims(userID, service.refreshTokenTTL),
	}

	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(service.refreshSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("ошибка подписи refresh токена: %w", err)
	}

	return refreshToken, claims.ExpiresAt.Time, nil
}

func (service *JWTService) parse(tokenString string, claims jwt.Claims, secret []byte) error {
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(service.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(service.now),
	)
	return err
}

// ValidateAccessToken проверяет подпись и срок действия access токена.
// Истёкший токен даёт apperror.ErrTokenExpired, всё остальное даёт
// apperror.ErrTokenInvalid.
func (service *JWTService) ValidateAccessToken(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := service.parse(tokenString, claims, service.accessSecret); err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", apperror.ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", apperror.ErrTokenInvalid, err)
	}
	if claims.Type != accessTokenType || claims.UserID == 0 {
		return nil, fmt.Errorf("%w: неверный тип токена", apperror.ErrTokenInvalid)
	}
	return claims, nil
}

func (service *JWTService) ValidateRefreshToken(tokenString string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := service.parse(tokenString, claims, service.refreshSecret); err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", apperror.ErrRefreshTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", apperror.ErrTokenInvalid, err)
	}
	if claims.Type != refreshTokenType || claims.UserID == 0 {
		return nil, fmt.Errorf("%w: неверный тип токена", apperror.ErrTokenInvalid)
	}
	return claims, nil
}

// HashToken возвращает SHA-256 хэш токена в hex. В БД хранятся только хэши.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
