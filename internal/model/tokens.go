package model

import "time"

// RefreshToken описывает строку таблицы refresh_tokens. Сам токен не хранится,
// только его SHA-256 хэш.
type RefreshToken struct {
	UUID      string    `db:"id"`
	UserID    int64     `db:"user_id"`
	TokenHash string    `db:"token_hash"`
	ExpireAt  time.Time `db:"expire_at"`
	UserAgent string    `db:"user_agent"`
	IpAddress string    `db:"ip_address"`
	CreatedAt time.Time `db:"created_at"`
}

// RevokedToken описывает access токен, отозванный до истечения срока действия.
type RevokedToken struct {
	TokenHash string    `db:"token_hash"`
	UserID    int64     `db:"user_id"`
	ExpireAt  time.Time `db:"expire_at"`
	RevokedAt time.Time `db:"revoked_at"`
}

// TokensPair содержит пару access и refresh токенов
// swagger:model
type TokensPair struct {
	// Access токен (JWT)
	// example: eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9...
	AccessToken string `json:"token"`

	// Refresh токен (для получения нового access токена)
	// example: eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9...
	RefreshToken string `json:"refreshToken"`
}

// ClientMeta содержит данные о клиенте, сохраняемые вместе с refresh токеном.
type ClientMeta struct {
	UserAgent string
	IpAddress string
}
