package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"FoodDelivery/internal/apperror"
	"FoodDelivery/internal/model"
	"FoodDelivery/internal/ports"
	"FoodDelivery/internal/security"

	"go.uber.org/zap"
)

const (
	maxNameLength     = 100
	minPasswordLength = 8
	// bcrypt не принимает пароли длиннее 72 байт
	maxPasswordBytes = 72
)

type AuthenticationService struct {
	UserRepository    ports.UserRepositoryInterface
	JWTRepository     ports.RefreshTokenRepositoryInterface
	RevokedRepository ports.RevokedTokenRepositoryInterface
	JWTService        ports.JWTServiceInterface
	PasswordHasher    ports.PasswordHasherInterface
	Logger            *zap.Logger
	now               func() time.Time
}

func NewAuthenticationService(
	userRepository ports.UserRepositoryInterface,
	jwtRepository ports.RefreshTokenRepositoryInterface,
	revokedRepository ports.RevokedTokenRepositoryInterface,
	jwtService ports.JWTServiceInterface,
	passwordHasher ports.PasswordHasherInterface,
	logger *zap.Logger,
) *AuthenticationService {
	return &AuthenticationService{
		UserRepository:    userRepository,
		JWTRepository:     jwtRepository,
		RevokedRepository: revokedRepository,
		JWTService:        jwtService,
		PasswordHasher:    passwordHasher,
		Logger:            logger,
		now:               time.Now,
	}
}

func (service *AuthenticationService) clock() time.Time {
	if service.now == nil {
		return time.Now()
	}
	return service.now()
}

// Register создаёт пользователя и сразу выдаёт ему пару токенов.
func (service *AuthenticationService) Register(ctx context.Context, input model.RegisterInput, meta model.ClientMeta) (*model.AuthResult, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	if input.Phone != nil {
		phone := strings.TrimSpace(*input.Phone)
		if phone == "" {
			input.Phone = nil
		} else {
			input.Phone = &phone
		}
	}

	if err := validateRegistration(input); err != nil {
		return nil, err
	}

	passwordHash, err := service.PasswordHasher.Hash(ctx, input.Password)
	if err != nil {
		return nil, fmt.Errorf("не удалось захэшировать пароль: %w", err)
	}

	user, err := service.UserRepository.Create(ctx, &model.User{
		Name:         input.Name,
		Email:        input.Email,
		Phone:        input.Phone,
		PasswordHash: passwordHash,
	})
	if err != nil {
		return nil, fmt.Errorf("не удалось создать пользователя: %w", err)
	}

	tokensPair, err := service.IssueTokenPair(ctx, user.Id, user.Email, meta)
	if err != nil {
		return nil, err
	}

	service.Logger.Info("зарегистрирован пользователь", zap.Int64("user_id", user.Id))
	return &model.AuthResult{TokensPair: *tokensPair, User: user}, nil
}

// Login проверяет email и пароль. Неизвестный email и неверный пароль
// неотличимы для клиента.
func (service *AuthenticationService) Login(ctx context.Context, input model.LoginInput, meta model.ClientMeta) (*model.AuthResult, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" {
		return nil, apperror.Invalid("email", "email is required")
	}
	if input.Password == "" {
		return nil, apperror.Invalid("password", "password is required")
	}

	user, err := service.UserRepository.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("не удалось найти пользователя: %w", err)
	}

	if err := service.PasswordHasher.Compare(ctx, user.PasswordHash, input.Password); err != nil {
		if errors.Is(err, apperror.ErrInvalidCredentials) {
			service.Logger.Debug("неверный пароль", zap.Int64("user_id", user.Id))
		}
		return nil, err
	}

	tokensPair, err := service.IssueTokenPair(ctx, user.Id, user.Email, meta)
	if err != nil {
		return nil, err
	}

	service.Logger.Info("пользователь вошёл", zap.Int64("user_id", user.Id))
	return &model.AuthResult{TokensPair: *tokensPair, User: user}, nil
}

// IssueTokenPair подписывает access и refresh токены и сохраняет хэш refresh
// токена. Каждое устройство получает свой refresh токен, старые не удаляются.
func (service *AuthenticationService) IssueTokenPair(ctx context.Context, userID int64, email string, meta model.ClientMeta) (*model.TokensPair, error) {
	accessToken, err := service.JWTService.GenerateAccessToken(userID, email)
	if err != nil {
		return nil, fmt.Errorf("ошибка генерации токенов: %w", err)
	}

	refreshToken, expireAt, err := service.JWTService.GenerateRefreshToken(userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка генерации токенов: %w", err)
	}

	err = service.JWTRepository.SaveRefreshToken(ctx, &model.RefreshToken{
		UserID:    userID,
		TokenHash: security.HashToken(refreshToken),
		ExpireAt:  expireAt,
		UserAgent: meta.UserAgent,
		IpAddress: meta.IpAddress,
	})
	if err != nil {
		return nil, fmt.Errorf("не удалось сохранить рефреш токен: %w", err)
	}

	return &model.TokensPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// VerifyAccess сначала проверяет подпись и срок действия, и только потом
// обращается к списку отозванных токенов.
func (service *AuthenticationService) VerifyAccess(ctx context.Context, accessToken string) (*security.AccessClaims, error) {
	claims, err := service.JWTService.ValidateAccessToken(accessToken)
	if err != nil {
		return nil, err
	}

	revoked, err := service.RevokedRepository.IsRevoked(ctx, security.HashToken(accessToken))
	if err != nil {
		return nil, fmt.Errorf("не удалось проверить отзыв токена: %w", err)
	}
	if revoked {
		return nil, apperror.ErrTokenRevoked
	}

	return claims, nil
}

// RotateAccess выдаёт новый access токен по refresh токену. Подлинный, но
// отсутствующий в БД refresh токен даёт ErrRefreshTokenNotFound.
func (service *AuthenticationService) RotateAccess(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", apperror.ErrRefreshTokenRequired
	}

	claims, err := service.JWTService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return "", err
	}

	exists, err := service.JWTRepository.ExistsRefreshToken(ctx, claims.UserID, security.HashToken(refreshToken))
	if err != nil {
		return "", fmt.Errorf("не удалось найти рефреш токен: %w", err)
	}
	if !exists {
		return "", apperror.ErrRefreshTokenNotFound
	}

	user, err := service.CurrentUser(ctx, claims.UserID)
	if err != nil {
		return "", err
	}

	accessToken, err := service.JWTService.GenerateAccessToken(user.Id, user.Email)
	if err != nil {
		return "", fmt.Errorf("ошибка генерации токенов: %w", err)
	}

	return accessToken, nil
}

// Revoke отзывает access токен до конца срока его действия. Refresh токены
// не затрагиваются.
func (service *AuthenticationService) Revoke(ctx context.Context, accessToken string, userID int64) error {
	claims, err := service.JWTService.ValidateAccessToken(accessToken)
	if err != nil {
		return err
	}
	if claims.UserID != userID {
		return fmt.Errorf("%w: токен выдан другому пользователю", apperror.ErrTokenInvalid)
	}

	err = service.RevokedRepository.RevokeToken(ctx, &model.RevokedToken{
		TokenHash: security.HashToken(accessToken),
		UserID:    userID,
		ExpireAt:  claims.ExpiresAt.Time,
	})
	if err != nil {
		return fmt.Errorf("не удалось отозвать токен: %w", err)
	}

	return nil
}

// Logout отзывает текущий access токен и, если клиент прислал refresh токен,
// удаляет его.
func (service *AuthenticationService) Logout(ctx context.Context, accessToken string, userID int64, refreshToken string) error {
	if err := service.Revoke(ctx, accessToken, userID); err != nil {
		return err
	}

	if refreshToken != "" {
		err := service.JWTRepository.DeleteRefreshToken(ctx, userID, security.HashToken(refreshToken))
		if err != nil && !errors.Is(err, apperror.ErrRefreshTokenNotFound) {
			return fmt.Errorf("не удалось удалить рефреш токен: %w", err)
		}
	}

	service.Logger.Info("пользователь вышел", zap.Int64("user_id", userID), zap.Bool("refresh_deleted", refreshToken != ""))
	return nil
}

// CurrentUser перечитывает пользователя из БД.
func (service *AuthenticationService) CurrentUser(ctx context.Context, userID int64) (*model.User, error) {
	user, err := service.UserRepository.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, fmt.Errorf("не удалось получить пользователя: %w", err)
	}
	return user, nil
}

// PruneExpired удаляет просроченные refresh токены и записи об отозванных
// токенах, срок действия которых уже истёк.
func (service *AuthenticationService) PruneExpired(ctx context.Context) (refreshDeleted int64, revokedDeleted int64, err error) {
	now := service.clock()

	refreshDeleted, err = service.JWTRepository.DeleteExpiredRefreshTokens(ctx, now)
	if err != nil {
		return 0, 0, err
	}

	revokedDeleted, err = service.RevokedRepository.DeleteExpiredRevokedTokens(ctx, now)
	if err != nil {
		return refreshDeleted, 0, err
	}

	return refreshDeleted, revokedDeleted, nil
}

func validateRegistration(input model.RegisterInput) error {
	if input.Name == "" || input.Email == "" || input.Password == "" {
		return apperror.Invalid("", "name, email and password are required")
	}
	if utf8.RuneCountInString(input.Name) > maxNameLength {
		return apperror.Invalid("name", "name must be at most 100 characters")
	}
	if address, err := mail.ParseAddress(input.Email); err != nil || address.Address != input.Email {
		return apperror.Invalid("email", "email is invalid")
	}
	return validatePassword(input.Password)
}

func validatePassword(password string) error {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return apperror.Invalid("password", "password must be at least 8 characters")
	}
	if len(password) > maxPasswordBytes {
		return apperror.Invalid("password", "password must be at most 72 bytes")
	}

	var hasUpper, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper || !hasDigit {
		return apperror.Invalid("password", "password must contain an uppercase letter and a digit")
	}
	return nil
}
