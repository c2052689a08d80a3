package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/riya23dhim/task-management-ai/internal/api"
	"github.com/riya23dhim/task-management-ai/internal/domain"
	"github.com/riya23dhim/task-management-ai/internal/mocks"
	"github.com/riya23dhim/task-management-ai/internal/service/auth"
)

func newJSONRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestRegister(t *testing.T) {
	t.Parallel()

	t.Run("valid registration returns 201 with token pair", func(t *testing.T) {
		t.Parallel()

		userStore := mocks.NewMockUserStore()
		jwtService := &mocks.MockJWTService{Token: "access-token", RefreshToken: "refresh-token"}
		handler := api.NewAuthHandler(userStore, jwtService, &mocks.MockPasswordVerifier{}, testLogger())

		req := newJSONRequest(t, http.MethodPost, "/api/users/register", map[string]string{
			"email":    "new@example.com",
			"password": "password123",
		})
		recorder := httptest.NewRecorder()

		handler.Register(recorder, req)

		require.Equal(t, http.StatusCreated, recorder.Code)

		var resp api.AuthResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.NotEqual(t, uuid.Nil, resp.UserID)
		assert.Equal(t, "access-token", resp.AccessToken)
		assert.Equal(t, "refresh-token", resp.RefreshToken)
	})

	t.Run("duplicate email returns 409", func(t *testing.T) {
		t.Parallel()

		userStore := mocks.NewMockUserStore()
		existing, err := domain.NewUser("taken@example.com", "password123")
		require.NoError(t, err)
		userStore.Users[existing.Email] = existing

		jwtService := &mocks.MockJWTService{Token: "access-token"}
		handler := api.NewAuthHandler(userStore, jwtService, &mocks.MockPasswordVerifier{}, testLogger())

		req := newJSONRequest(t, http.MethodPost, "/api/users/register", map[string]string{
			"email":    "taken@example.com",
			"password": "password123",
		})
		recorder := httptest.NewRecorder()

		handler.Register(recorder, req)

		assert.Equal(t, http.StatusConflict, recorder.Code)
	})

	t.Run("short password returns 400", func(t *testing.T) {
		t.Parallel()

		handler := api.NewAuthHandler(mocks.NewMockUserStore(),
			&mocks.MockJWTService{}, &mocks.MockPasswordVerifier{}, testLogger())

		req := newJSONRequest(t, http.MethodPost, "/api/users/register", map[string]string{
			"email":    "new@example.com",
			"password": "short",
		})
		recorder := httptest.NewRecorder()

		handler.Register(recorder, req)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash test password: %v", err)
	}

	newStoreWithUser := func() *mocks.MockUserStore {
		userStore := mocks.NewMockUserStore()
		userStore.Users["known@example.com"] = &domain.User{
			ID:             userID,
			Email:          "known@example.com",
			HashedPassword: string(hashed),
		}
		return userStore
	}

	t.Run("valid credentials return 200 with token pair", func(t *testing.T) {
		t.Parallel()

		jwtService := &mocks.MockJWTService{Token: "access-token", RefreshToken: "refresh-token"}
		verifier := &mocks.MockPasswordVerifier{ShouldSucceed: true}
		handler := api.NewAuthHandler(newStoreWithUser(), jwtService, verifier, testLogger())

		req := newJSONRequest(t, http.MethodPost, "/api/users/login", map[string]string{
			"email":    "known@example.com",
			"password": "password123",
		})
		recorder := httptest.NewRecorder()

		handler.Login(recorder, req)

		require.Equal(t, http.StatusOK, recorder.Code)

		var resp api.AuthResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.Equal(t, userID, resp.UserID)
		assert.Equal(t, "access-token", resp.AccessToken)
		assert.Equal(t, 1, verifier.CompareCallCount)
	})

	t.Run("wrong password and unknown email are indistinguishable", func(t *testing.T) {
		t.Parallel()

		jwtService := &mocks.MockJWTService{Token: "access-token"}

		wrongPassword := httptest.NewRecorder()
		handler := api.NewAuthHandler(newStoreWithUser(), jwtService,
			&mocks.MockPasswordVerifier{ShouldSucceed: false}, testLogger())
		handler.Login(wrongPassword, newJSONRequest(t, http.MethodPost, "/api/users/login",
			map[string]string{"email": "known@example.com", "password": "wrong"}))

		unknownEmail := httptest.NewRecorder()
		handler.Login(unknownEmail, newJSONRequest(t, http.MethodPost, "/api/users/login",
			map[string]string{"email": "nobody@example.com", "password": "password123"}))

		assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
		assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)

		var a, b map[string]any
		require.NoError(t, json.NewDecoder(wrongPassword.Body).Decode(&a))
		require.NoError(t, json.NewDecoder(unknownEmail.Body).Decode(&b))
		assert.Equal(t, a["error"], b["error"])
	})
}

func TestRefreshToken(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("valid refresh token returns new pair", func(t *testing.T) {
		t.Parallel()

		jwtService := &mocks.MockJWTService{
			Token:        "new-access",
			RefreshToken: "new-refresh",
			Claims:       &auth.Claims{UserID: userID, TokenType: "refresh"},
		}
		handler := api.NewAuthHandler(mocks.NewMockUserStore(), jwtService,
			&mocks.MockPasswordVerifier{}, testLogger())

		req := newJSONRequest(t, http.MethodPost, "/api/users/refresh", map[string]string{
			"refresh_token": "old-refresh",
		})
		recorder := httptest.NewRecorder()

		handler.RefreshToken(recorder, req)

		require.Equal(t, http.StatusOK, recorder.Code)

		var resp api.RefreshTokenResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.Equal(t, "new-access", resp.AccessToken)
		assert.Equal(t, "new-refresh", resp.RefreshToken)
	})

	t.Run("expired refresh token returns 401", func(t *testing.T) {
		t.Parallel()

		jwtService := &mocks.MockJWTService{
			ValidateRefreshTokenFn: func(ctx context.Context, tokenString string) (*auth.Claims, error) {
				return nil, auth.ErrExpiredRefreshToken
			},
		}
		handler := api.NewAuthHandler(mocks.NewMockUserStore(), jwtService,
			&mocks.MockPasswordVerifier{}, testLogger())

		req := newJSONRequest(t, http.MethodPost, "/api/users/refresh", map[string]string{
			"refresh_token": "stale",
		})
		recorder := httptest.NewRecorder()

		handler.RefreshToken(recorder, req)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}
