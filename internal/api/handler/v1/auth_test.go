package v1

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/aisclub/clubevents/internal/api/handler/v1/response"
	"github.com/aisclub/clubevents/internal/domain"
	"github.com/aisclub/clubevents/internal/pkg/jwthelper"
	"github.com/aisclub/clubevents/internal/service"
)

type mockAuthService struct {
	mock.Mock
}

func (m *mockAuthService) Signup(ctx context.Context, user domain.User) (domain.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (domain.User, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(domain.User), args.Error(1)
}

func newAuthRouter(svc *mockAuthService) *gin.Engine {
	h := NewAuthHandler(testConf, svc)
	u := NewUserHandler(newUserService())

	r := newTestRouter()
	r.POST("/auth/signup", h.HandleSignup)
	r.POST("/auth/login", h.HandleLogin)
	r.GET("/users/me", u.HandleGetMe)
	return r
}

func TestHandleSignup(t *testing.T) {
	svc := &mockAuthService{}
	svc.On("Signup", mock.Anything, domain.User{Email: "ada@club.test", Password: "s3cret!pass", Name: "Ada"}).
		Return(member, nil).Once()
	svc.On("Signup", mock.Anything, domain.User{Email: "taken@club.test", Password: "s3cret!pass", Name: "Ada"}).
		Return(domain.User{}, service.ErrUserEmailExists).Once()
	r := newAuthRouter(svc)

	signup := func(email, password, confirm string) map[string]string {
		return map[string]string{"email": email, "password": password, "confirm_password": confirm, "name": "Ada"}
	}

	rec := doRequest(t, r, http.MethodPost, "/auth/signup", "", signup("ada@club.test", "s3cret!pass", "s3cret!pass"))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "s3cret")

	rec = doRequest(t, r, http.MethodPost, "/auth/signup", "", signup("taken@club.test", "s3cret!pass", "s3cret!pass"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, r, http.MethodPost, "/auth/signup", "", signup("ada@club.test", "password", "password"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, r, http.MethodPost, "/auth/signup", "", signup("ada@club.test", "s3cret!pass", "s3cret!pasS"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	svc.AssertExpectations(t)
}

func TestHandleLogin(t *testing.T) {
	svc := &mockAuthService{}
	svc.On("Login", mock.Anything, "ada@club.test", "s3cret!pass").Return(member, nil)
	svc.On("Login", mock.Anything, "ada@club.test", "wrong").Return(domain.User{}, service.ErrWrongPassword)
	svc.On("Login", mock.Anything, "ghost@club.test", "s3cret!pass").Return(domain.User{}, service.ErrUserNotFound)
	r := newAuthRouter(svc)

	rec := doRequest(t, r, http.MethodPost, "/auth/login", "", map[string]string{"email": "ada@club.test", "password": "s3cret!pass"})
	require.Equal(t, http.StatusOK, rec.Code)

	var got response.LoginResponse
	decode(t, rec, &got)
	assert.Equal(t, member.ID, got.User.ID)

	claims, err := jwthelper.ParseToken([]byte(testConf.JWTSigningKey), got.Token, "")
	require.NoError(t, err)
	assert.Equal(t, member.ID, claims.UserID)

	rec = doRequest(t, r, http.MethodPost, "/auth/login", "", map[string]string{"email": "ada@club.test", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, r, http.MethodPost, "/auth/login", "", map[string]string{"email": "ghost@club.test", "password": "s3cret!pass"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, r, http.MethodPost, "/auth/login", "", map[string]string{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGetMe(t *testing.T) {
	r := newAuthRouter(&mockAuthService{})

	rec := doRequest(t, r, http.MethodGet, "/users/me", officer.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got domain.User
	decode(t, rec, &got)
	assert.True(t, got.IsOfficer)

	rec = doRequest(t, r, http.MethodGet, "/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
