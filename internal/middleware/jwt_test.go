package middleware

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/biblioteca-unival/capacitaciones-api/internal/models"
	"github.com/biblioteca-unival/capacitaciones-api/internal/service"
)

type singleUserRepo struct {
	user models.User
}

func (r *singleUserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	if username != r.user.Username {
		return nil, sql.ErrNoRows
	}
	u := r.user
	return &u, nil
}

func (r *singleUserRepo) Create(ctx context.Context, username, passwordHash string) (int64, error) {
	return 0, sql.ErrConnDone
}

func (r *singleUserRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return nil
}

func newAuthFixture(t *testing.T) (*service.AuthService, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hash, err := bcrypt.GenerateFromPassword([]byte("contraseña-larga"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &singleUserRepo{user: models.User{ID: 1, Username: "bibliotecaria", PasswordHash: string(hash)}}
	svc := service.NewAuthService(repo, nil, nil, service.AuthConfig{
		Secret:     "test-secret",
		Expiration: time.Hour,
		Issuer:     "capacitaciones-api",
	})

	login, err := svc.Login(context.Background(), models.LoginRequest{
		Username: "bibliotecaria",
		Password: "contraseña-larga",
	})
	require.NoError(t, err)

	return svc, login.AccessToken
}

func protectedRouter(svc *service.AuthService) *gin.Engine {
	router := gin.New()
	router.GET("/protegido", JWT(svc), func(c *gin.Context) {
		claims := c.MustGet(ContextUserKey).(*models.JWTClaims)
		c.JSON(http.StatusOK, gin.H{"username": claims.Username})
	})
	return router
}

func TestJWTAllowsValidToken(t *testing.T) {
	svc, token := newAuthFixture(t)
	router := protectedRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/protegido", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "bibliotecaria")
}

func TestJWTRejectsMissingAndMalformedHeaders(t *testing.T) {
	svc, token := newAuthFixture(t)
	router := protectedRouter(svc)

	cases := map[string]string{
		"missing":      "",
		"not bearer":   "Basic " + token,
		"bad token":    "Bearer lo-que-sea",
		"extra-spaces": "Bearer",
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protegido", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestOptionalJWTNeverBlocks(t *testing.T) {
	svc, token := newAuthFixture(t)

	router := gin.New()
	router.GET("/publico", OptionalJWT(svc), func(c *gin.Context) {
		if claims, ok := c.Get(ContextUserKey); ok {
			c.JSON(http.StatusOK, gin.H{"username": claims.(*models.JWTClaims).Username})
			return
		}
		c.JSON(http.StatusOK, gin.H{"username": nil})
	})

	req := httptest.NewRequest(http.MethodGet, "/publico", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "null")

	req = httptest.NewRequest(http.MethodGet, "/publico", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "bibliotecaria")
}
