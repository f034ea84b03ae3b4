package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/adityarw/registration-service/internal/application"
	"github.com/adityarw/registration-service/internal/domain/entity"
	repo "github.com/adityarw/registration-service/internal/domain/repository"
	"github.com/adityarw/registration-service/pkg/helpers"
	"github.com/adityarw/registration-service/pkg/validation"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	validation.Init()
	os.Exit(m.Run())
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, u *entity.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *mockUserRepo) SetVerified(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newTestRouter(r repo.UserRepository, tokens *helpers.TokenManager) *gin.Engine {
	reg := application.NewRegistrationService(
		r,
		helpers.NewHasher(4),
		tokens,
		nil,
		nil,
		"registration-service",
		"http://localhost:8080/api/verify-email",
		false, // no queue in handler tests
	)
	ver := application.NewVerificationService(r, tokens, nil, nil)
	h := NewRegistrationHandler(reg, ver, nil)

	e := gin.New()
	api := e.Group("/api")
	api.POST("/register", h.Register)
	api.GET("/verify-email", h.VerifyEmail)
	return e
}

func doRequest(e *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	var rdr *strings.Reader
	if body == "" {
		rdr = strings.NewReader("")
	} else {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	return w
}

func TestRegisterEndpoint(t *testing.T) {
	tokens := helpers.NewTokenManager("test-secret", time.Hour)

	tests := []struct {
		name       string
		body       string
		setupMock  func(*mockUserRepo)
		wantStatus int
		wantInBody string
	}{
		{
			name: "created",
			body: `{"email":"a@b.com","password":"secret1"}`,
			setupMock: func(m *mockUserRepo) {
				m.On("GetByEmail", mock.Anything, "a@b.com").Return(nil, repo.ErrNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*entity.User")).Run(func(args mock.Arguments) {
					args.Get(1).(*entity.User).ID = "id-123"
				}).Return(nil)
			},
			wantStatus: http.StatusCreated,
			wantInBody: `"user_id":"id-123"`,
		},
		{
			name:       "missing fields",
			body:       `{"email":"a@b.com"}`,
			setupMock:  func(m *mockUserRepo) {},
			wantStatus: http.StatusBadRequest,
			wantInBody: "invalid payload",
		},
		{
			name:       "password too short",
			body:       `{"email":"a@b.com","password":"abc"}`,
			setupMock:  func(m *mockUserRepo) {},
			wantStatus: http.StatusBadRequest,
			wantInBody: "at least 6 characters",
		},
		{
			name: "user already exists",
			body: `{"email":"taken@b.com","password":"secret1"}`,
			setupMock: func(m *mockUserRepo) {
				m.On("GetByEmail", mock.Anything, "taken@b.com").Return(&entity.User{ID: "x", Email: "taken@b.com"}, nil)
			},
			wantStatus: http.StatusBadRequest,
			wantInBody: "user already exists",
		},
		{
			name: "duplicate from constraint maps to same message",
			body: `{"email":"race@b.com","password":"secret1"}`,
			setupMock: func(m *mockUserRepo) {
				m.On("GetByEmail", mock.Anything, "race@b.com").Return(nil, repo.ErrNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*entity.User")).Return(repo.ErrDuplicateEmail)
			},
			wantStatus: http.StatusBadRequest,
			wantInBody: "user already exists",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(mockUserRepo)
			tt.setupMock(mockRepo)
			e := newTestRouter(mockRepo, tokens)

			w := doRequest(e, http.MethodPost, "/api/register", tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantInBody)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestVerifyEmailEndpoint(t *testing.T) {
	tokens := helpers.NewTokenManager("test-secret", time.Hour)
	uid := "id-123"
	token, _, err := tokens.Issue(uid, "a@b.com")
	require.NoError(t, err)

	expiredTokens := helpers.NewTokenManager("test-secret", -time.Hour)
	expiredToken, _, err := expiredTokens.Issue(uid, "a@b.com")
	require.NoError(t, err)

	tests := []struct {
		name       string
		target     string
		setupMock  func(*mockUserRepo)
		wantStatus int
		wantInBody string
	}{
		{
			name:   "verified",
			target: "/api/verify-email?token=" + token,
			setupMock: func(m *mockUserRepo) {
				m.On("GetByID", mock.Anything, uid).Return(&entity.User{ID: uid, Email: "a@b.com"}, nil)
				m.On("SetVerified", mock.Anything, uid).Return(nil)
			},
			wantStatus: http.StatusOK,
			wantInBody: "email successfully verified",
		},
		{
			name:       "missing token",
			target:     "/api/verify-email",
			setupMock:  func(m *mockUserRepo) {},
			wantStatus: http.StatusBadRequest,
			wantInBody: "missing token",
		},
		{
			name:       "garbage token",
			target:     "/api/verify-email?token=garbage",
			setupMock:  func(m *mockUserRepo) {},
			wantStatus: http.StatusBadRequest,
			wantInBody: "invalid or expired token",
		},
		{
			name:       "expired token",
			target:     "/api/verify-email?token=" + expiredToken,
			setupMock:  func(m *mockUserRepo) {},
			wantStatus: http.StatusBadRequest,
			wantInBody: "invalid or expired token",
		},
		{
			name:   "user not found",
			target: "/api/verify-email?token=" + token,
			setupMock: func(m *mockUserRepo) {
				m.On("GetByID", mock.Anything, uid).Return(nil, repo.ErrNotFound)
			},
			wantStatus: http.StatusBadRequest,
			wantInBody: "user not found",
		},
		{
			name:   "already verified",
			target: "/api/verify-email?token=" + token,
			setupMock: func(m *mockUserRepo) {
				m.On("GetByID", mock.Anything, uid).Return(&entity.User{ID: uid, Email: "a@b.com", IsVerified: true}, nil)
			},
			wantStatus: http.StatusBadRequest,
			wantInBody: "user is already verified",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(mockUserRepo)
			tt.setupMock(mockRepo)
			e := newTestRouter(mockRepo, tokens)

			w := doRequest(e, http.MethodGet, tt.target, "")

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantInBody)
			mockRepo.AssertExpectations(t)
		})
	}
}
