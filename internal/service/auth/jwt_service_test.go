package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riya23dhim/task-management-ai/internal/config"
)

const testSecret = "test-secret-that-is-long-enough-for-testing"

// newFixedTimeService builds an hmacJWTService whose clock is pinned to the
// given instant, so expiry scenarios are deterministic.
func newFixedTimeService(secret string, at time.Time) *hmacJWTService {
	return &hmacJWTService{
		signingKey:           []byte(secret),
		tokenLifetime:        60 * time.Minute,
		refreshTokenLifetime: 24 * time.Hour,
		timeFunc:             func() time.Time { return at },
		clockSkew:            2 * time.Minute,
	}
}

func TestNewJWTService(t *testing.T) {
	t.Parallel()

	t.Run("rejects short secret", func(t *testing.T) {
		t.Parallel()
		_, err := NewJWTService(config.AuthConfig{JWTSecret: "too-short"})
		assert.Error(t, err)
	})

	t.Run("accepts 32-character secret", func(t *testing.T) {
		t.Parallel()
		svc, err := NewJWTService(config.AuthConfig{
			JWTSecret:                   testSecret,
			TokenLifetimeMinutes:        60,
			RefreshTokenLifetimeMinutes: 1440,
		})
		require.NoError(t, err)
		assert.NotNil(t, svc)
	})
}

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()
	svc := newFixedTimeService(testSecret, fixedTime)

	t.Run("generates valid token", func(t *testing.T) {
		t.Parallel()

		token, err := svc.GenerateToken(context.Background(), userID)
		require.NoError(t, err)
		require.NotEmpty(t, token)

		claims, err := svc.ValidateToken(context.Background(), token)
		require.NoError(t, err)

		assert.Equal(t, userID, claims.UserID)
		assert.Equal(t, userID.String(), claims.Subject)
		assert.Equal(t, tokenTypeAccess, claims.TokenType)
		// Compare Unix timestamps to avoid timezone issues
		assert.Equal(t, fixedTime.Unix(), claims.IssuedAt.Unix())
		assert.Equal(t, fixedTime.Add(svc.tokenLifetime).Unix(), claims.ExpiresAt.Unix())
		assert.NotEmpty(t, claims.ID)
	})
}

func TestValidateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	wrongSecret := "wrong-secret-that-is-long-enough-for-testing"
	userID := uuid.New()

	tests := []struct {
		name      string
		setupFunc func() (JWTService, string)
		wantErr   error
	}{
		{
			name: "valid token",
			setupFunc: func() (JWTService, string) {
				svc := newFixedTimeService(testSecret, fixedTime)
				token, _ := svc.GenerateToken(context.Background(), userID)
				return svc, token
			},
			wantErr: nil,
		},
		{
			name: "expired token",
			setupFunc: func() (JWTService, string) {
				genSvc := newFixedTimeService(testSecret, fixedTime)
				token, _ := genSvc.GenerateToken(context.Background(), userID)

				// Validate well past expiry plus clock skew.
				valSvc := newFixedTimeService(testSecret, fixedTime.Add(2*time.Hour))
				return valSvc, token
			},
			wantErr: ErrExpiredToken,
		},
		{
			name: "invalid signature",
			setupFunc: func() (JWTService, string) {
				genSvc := newFixedTimeService(testSecret, fixedTime)
				token, _ := genSvc.GenerateToken(context.Background(), userID)

				valSvc := newFixedTimeService(wrongSecret, fixedTime)
				return valSvc, token
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "malformed token",
			setupFunc: func() (JWTService, string) {
				svc := newFixedTimeService(testSecret, fixedTime)
				return svc, "this.is.not.a.valid.jwt.token"
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "refresh token presented as access token",
			setupFunc: func() (JWTService, string) {
				svc := newFixedTimeService(testSecret, fixedTime)
				token, _ := svc.GenerateRefreshToken(context.Background(), userID)
				return svc, token
			},
			wantErr: ErrWrongTokenType,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc, token := tc.setupFunc()
			claims, err := svc.ValidateToken(context.Background(), token)

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, claims)
			} else {
				require.NoError(t, err)
				assert.Equal(t, userID, claims.UserID)
			}
		})
	}
}

func TestValidateRefreshToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()

	tests := []struct {
		name      string
		setupFunc func() (JWTService, string)
		wantErr   error
	}{
		{
			name: "valid refresh token",
			setupFunc: func() (JWTService, string) {
				svc := newFixedTimeService(testSecret, fixedTime)
				token, _ := svc.GenerateRefreshToken(context.Background(), userID)
				return svc, token
			},
			wantErr: nil,
		},
		{
			name: "expired refresh token",
			setupFunc: func() (JWTService, string) {
				genSvc := newFixedTimeService(testSecret, fixedTime)
				token, _ := genSvc.GenerateRefreshToken(context.Background(), userID)

				valSvc := newFixedTimeService(testSecret, fixedTime.Add(25*time.Hour))
				return valSvc, token
			},
			wantErr: ErrExpiredRefreshToken,
		},
		{
			name: "access token presented as refresh token",
			setupFunc: func() (JWTService, string) {
				svc := newFixedTimeService(testSecret, fixedTime)
				token, _ := svc.GenerateToken(context.Background(), userID)
				return svc, token
			},
			wantErr: ErrWrongTokenType,
		},
		{
			name: "malformed refresh token",
			setupFunc: func() (JWTService, string) {
				svc := newFixedTimeService(testSecret, fixedTime)
				return svc, "garbage"
			},
			wantErr: ErrInvalidRefreshToken,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc, token := tc.setupFunc()
			claims, err := svc.ValidateRefreshToken(context.Background(), token)

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, claims)
			} else {
				require.NoError(t, err)
				assert.Equal(t, userID, claims.UserID)
				assert.Equal(t, tokenTypeRefresh, claims.TokenType)
			}
		})
	}
}
