package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	appaccount "github.com/crm/backend/internal/application/account"
	"github.com/crm/backend/internal/domain/account"
	"github.com/crm/backend/internal/infrastructure/auth"
	"github.com/crm/backend/internal/infrastructure/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type fakeAccountRepo struct {
	accounts map[string]*account.Account
}

func (f *fakeAccountRepo) FindByUsername(ctx context.Context, username string) (*account.Account, error) {
	return f.accounts[username], nil
}

func (f *fakeAccountRepo) Insert(ctx context.Context, a *account.Account) error {
	f.accounts[a.Username] = a
	return nil
}

func setupAuthRouter(t *testing.T, repo *fakeAccountRepo) (*gin.Engine, *auth.JWTService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtService := auth.NewJWTService(&config.JWTConfig{
		Secret:     "test-secret-test-secret-test-secret",
		Expiration: time.Hour,
		Issuer:     "customer-service",
	})
	h := NewAuthHandler(appaccount.NewService(repo, zap.NewNop()), jwtService)

	engine := gin.New()
	h.RegisterRoutes(engine.Group("/api/v1"))
	return engine, jwtService
}

func TestAuthHandler_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("p4ssw0rd!"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &fakeAccountRepo{accounts: map[string]*account.Account{
		"admin": {
			ID:          "a-1",
			Username:    "admin",
			Password:    string(hash),
			Authorities: []string{account.RoleAdmin},
		},
	}}

	t.Run("valid credentials yield a verifiable token", func(t *testing.T) {
		engine, jwtService := setupAuthRouter(t, repo)

		w := doJSON(engine, http.MethodPost, "/api/v1/auth/login",
			map[string]string{"username": "admin", "password": "p4ssw0rd!"}, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data LoginResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "admin", resp.Data.Username)
		assert.Contains(t, resp.Data.Authorities, account.RoleAdmin)

		claims, err := jwtService.ValidateToken(resp.Data.Token)
		require.NoError(t, err)
		assert.Equal(t, "admin", claims.Username)
	})

	t.Run("wrong password yields 401", func(t *testing.T) {
		engine, _ := setupAuthRouter(t, repo)

		w := doJSON(engine, http.MethodPost, "/api/v1/auth/login",
			map[string]string{"username": "admin", "password": "wrong"}, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown username yields 401", func(t *testing.T) {
		engine, _ := setupAuthRouter(t, repo)

		w := doJSON(engine, http.MethodPost, "/api/v1/auth/login",
			map[string]string{"username": "nobody", "password": "p4ssw0rd!"}, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing fields yield 400", func(t *testing.T) {
		engine, _ := setupAuthRouter(t, repo)

		w := doJSON(engine, http.MethodPost, "/api/v1/auth/login",
			map[string]string{"username": "admin"}, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
