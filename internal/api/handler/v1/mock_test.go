package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/aisclub/clubevents/internal/api/middleware"
	"github.com/aisclub/clubevents/internal/config"
	"github.com/aisclub/clubevents/internal/domain"
	"github.com/aisclub/clubevents/internal/service"
)

var (
	testNow  = time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)
	testConf = &config.APIConfig{
		PublicBaseURL: "https://club.test",
		JWTSigningKey: "0123456789abcdef0123",
	}

	member  = domain.User{ID: "u1", Email: "ada@club.test", Name: "Ada"}
	officer = domain.User{ID: "o1", Email: "pres@club.test", Name: "Pres", IsOfficer: true}
)

type mockUserService struct {
	mock.Mock
}

func (m *mockUserService) GetUser(ctx context.Context, id string) (domain.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.User), args.Error(1)
}

func newUserService() *mockUserService {
	uSvc := &mockUserService{}
	uSvc.On("GetUser", mock.Anything, member.ID).Return(member, nil)
	uSvc.On("GetUser", mock.Anything, officer.ID).Return(officer, nil)
	uSvc.On("GetUser", mock.Anything, "ghost").Return(domain.User{}, service.ErrUserNotFound)
	return uSvc
}

type mockEventService struct {
	mock.Mock
}

func (m *mockEventService) GetEvent(ctx context.Context, id string) (domain.Event, bool, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Event), args.Bool(1), args.Error(2)
}

func (m *mockEventService) ListForViewer(ctx context.Context, viewer domain.User, category string, now time.Time) (domain.Partitioned, error) {
	args := m.Called(ctx, viewer, category, now)
	return args.Get(0).(domain.Partitioned), args.Error(1)
}

func (m *mockEventService) ListUpcoming(ctx context.Context, now time.Time, horizon time.Duration) ([]domain.Event, error) {
	args := m.Called(ctx, now, horizon)
	return args.Get(0).([]domain.Event), args.Error(1)
}

func (m *mockEventService) CreateEvent(ctx context.Context, event domain.Event, templateID string) (domain.Event, error) {
	args := m.Called(ctx, event, templateID)
	return args.Get(0).(domain.Event), args.Error(1)
}

func (m *mockEventService) UpdateEvent(ctx context.Context, id string, patch domain.EventPatch) (domain.Event, error) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(domain.Event), args.Error(1)
}

func (m *mockEventService) DeleteEvent(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockEventService) AddPhotos(ctx context.Context, id string, files []domain.PhotoFile) (domain.Event, error) {
	args := m.Called(ctx, id, files)
	return args.Get(0).(domain.Event), args.Error(1)
}

func (m *mockEventService) RemovePhoto(ctx context.Context, id, url string) (domain.Event, error) {
	args := m.Called(ctx, id, url)
	return args.Get(0).(domain.Event), args.Error(1)
}

func (m *mockEventService) RegisterAttendance(ctx context.Context, eventID, userID string, hasPlusOne bool) error {
	return m.Called(ctx, eventID, userID, hasPlusOne).Error(0)
}

type mockTemplateService struct {
	mock.Mock
}

func (m *mockTemplateService) CreateTemplate(ctx context.Context, template domain.EventTemplate) (domain.EventTemplate, error) {
	args := m.Called(ctx, template)
	return args.Get(0).(domain.EventTemplate), args.Error(1)
}

func (m *mockTemplateService) GetTemplate(ctx context.Context, id string) (domain.EventTemplate, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.EventTemplate), args.Error(1)
}

func (m *mockTemplateService) ListTemplates(ctx context.Context) ([]domain.EventTemplate, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.EventTemplate), args.Error(1)
}

func (m *mockTemplateService) UpdateTemplate(ctx context.Context, id string, template domain.EventTemplate) (domain.EventTemplate, error) {
	args := m.Called(ctx, id, template)
	return args.Get(0).(domain.EventTemplate), args.Error(1)
}

func (m *mockTemplateService) DeleteTemplate(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// newTestRouter authenticates every request as the user named in the
// X-Test-User header, standing in for the JWT middleware.
func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(func(ctx *gin.Context) {
		if id := ctx.GetHeader("X-Test-User"); id != "" {
			ctx.Set(middleware.CtxKeyUserID, id)
		}
		ctx.Next()
	})
	return r
}

func doRequest(t *testing.T, r http.Handler, method, path, userID string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set("X-Test-User", userID)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}
