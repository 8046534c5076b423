package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"expensetracker/internal/credentials"
	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/logger"
	"expensetracker/internal/middleware"
	"expensetracker/internal/models"
	"expensetracker/internal/services"
)

// --- mock user service ---

type mockUserService struct {
	registerFn            func(email, username, password string, roleNames []string) (*models.User, error)
	loginFn               func(username, password string) (*credentials.Token, error)
	getUserByIDFn         func(id string) (*models.User, error)
	getUserIDByUsernameFn func(username string) (string, error)
	updateUserFn          func(id, email, username, password string) (*models.User, error)
	deleteUserFn          func(id string) (*models.User, error)
	grantAdminFn          func(id string) (*models.User, error)
}

func (m *mockUserService) Register(_ context.Context, email, username, password string, roleNames []string) (*models.User, error) {
	if m.registerFn != nil {
		return m.registerFn(email, username, password, roleNames)
	}
	return &models.User{}, nil
}

func (m *mockUserService) Login(_ context.Context, username, password string) (*credentials.Token, error) {
	if m.loginFn != nil {
		return m.loginFn(username, password)
	}
	return &credentials.Token{}, nil
}

func (m *mockUserService) GetUserByID(_ context.Context, id string) (*models.User, error) {
	if m.getUserByIDFn != nil {
		return m.getUserByIDFn(id)
	}
	return &models.User{}, nil
}

func (m *mockUserService) GetUserIDByUsername(_ context.Context, username string) (string, error) {
	if m.getUserIDByUsernameFn != nil {
		return m.getUserIDByUsernameFn(username)
	}
	return "", nil
}

func (m *mockUserService) UpdateUser(_ context.Context, id, email, username, password string) (*models.User, error) {
	if m.updateUserFn != nil {
		return m.updateUserFn(id, email, username, password)
	}
	return &models.User{}, nil
}

func (m *mockUserService) DeleteUser(_ context.Context, id string) (*models.User, error) {
	if m.deleteUserFn != nil {
		return m.deleteUserFn(id)
	}
	return &models.User{}, nil
}

func (m *mockUserService) GrantAdmin(_ context.Context, id string) (*models.User, error) {
	if m.grantAdminFn != nil {
		return m.grantAdminFn(id)
	}
	return &models.User{}, nil
}

var _ services.UserServicer = (*mockUserService)(nil)

// --- mock audit service ---

type auditEntry struct {
	actor, action, resourceType, resourceID string
}

type mockAuditService struct {
	entries []auditEntry
}

func (m *mockAuditService) Log(_ context.Context, actor, action, resourceType, resourceID, _ string, _ map[string]interface{}) {
	m.entries = append(m.entries, auditEntry{actor, action, resourceType, resourceID})
}

var _ services.AuditServicer = (*mockAuditService)(nil)

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
}

func setupAuthRouter(handler *AuthHandler) *gin.Engine {
	r := gin.New()
	r.POST("/auth/register", handler.Register)
	r.POST("/auth/login", handler.Login)
	return r
}

func injectUsername(username string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUsername, username)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func parseJSONArray(t *testing.T, rec *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var result []map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON array: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// assertAPIError checks the error envelope's symbolic status.
func assertAPIError(t *testing.T, result map[string]interface{}, status string) map[string]interface{} {
	t.Helper()
	apiErr, ok := result["apierror"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected apierror object in response, got: %v", result)
	}
	if apiErr["status"] != status {
		t.Errorf("expected status %q, got %q", status, apiErr["status"])
	}
	if _, err := time.Parse(apperrors.TimestampLayout, apiErr["timestamp"].(string)); err != nil {
		t.Errorf("unexpected timestamp %v: %v", apiErr["timestamp"], err)
	}
	return apiErr
}

func testUser(id, username string, roles ...string) *models.User {
	u := &models.User{Base: models.Base{ID: id}, Username: username}
	for _, r := range roles {
		u.Roles = append(u.Roles, models.Role{Value: r})
	}
	return u
}

// --- tests ---

func TestAuthHandler_Register(t *testing.T) {
	t.Run("returns 201 with USER role", func(t *testing.T) {
		var gotRoles []string
		userSvc := &mockUserService{
			registerFn: func(email, username, password string, roleNames []string) (*models.User, error) {
				gotRoles = roleNames
				return testUser("u1", username, roleNames...), nil
			},
		}
		r := setupAuthRouter(NewAuthHandler(userSvc))

		rec := doRequest(r, "POST", "/auth/register", `{"email":"a@b.com","username":"alice","password":"pw1"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if len(gotRoles) != 1 || gotRoles[0] != models.RoleUser {
			t.Errorf("expected [USER], got %v", gotRoles)
		}
		result := parseJSON(t, rec)
		if result["username"] != "alice" || result["id"] != "u1" {
			t.Errorf("unexpected body %v", result)
		}
		if _, leaked := result["password"]; leaked {
			t.Error("password must not be returned")
		}
	})

	t.Run("returns 409 on duplicate username", func(t *testing.T) {
		userSvc := &mockUserService{
			registerFn: func(_, username, _ string, _ []string) (*models.User, error) {
				return nil, apperrors.UsernameAlreadyExists(username)
			},
		}
		r := setupAuthRouter(NewAuthHandler(userSvc))

		rec := doRequest(r, "POST", "/auth/register", `{"email":"a@b.com","username":"admin","password":"pw1"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		apiErr := assertAPIError(t, parseJSON(t, rec), "CONFLICT")
		if apiErr["message"] != "The username 'admin' exists already!" {
			t.Errorf("unexpected message %v", apiErr["message"])
		}
	})

	t.Run("returns 400 with debug on blank field", func(t *testing.T) {
		userSvc := &mockUserService{
			registerFn: func(_, _, _ string, _ []string) (*models.User, error) {
				return nil, apperrors.FieldBlank("User", "username", "string")
			},
		}
		r := setupAuthRouter(NewAuthHandler(userSvc))

		rec := doRequest(r, "POST", "/auth/register", `{"email":"a@b.com"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		apiErr := assertAPIError(t, parseJSON(t, rec), "BAD_REQUEST")
		if apiErr["debugMessage"] != "User was missing value of field 'username' which is of type string" {
			t.Errorf("unexpected debug %v", apiErr["debugMessage"])
		}
	})

	t.Run("returns 400 on malformed JSON", func(t *testing.T) {
		r := setupAuthRouter(NewAuthHandler(&mockUserService{}))

		rec := doRequest(r, "POST", "/auth/register", `{invalid`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertAPIError(t, parseJSON(t, rec), "BAD_REQUEST")
	})
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("returns token", func(t *testing.T) {
		userSvc := &mockUserService{
			loginFn: func(username, password string) (*credentials.Token, error) {
				if username != "alice" || password != "pw1" {
					t.Errorf("unexpected credentials %s/%s", username, password)
				}
				return &credentials.Token{AccessToken: "tok", TokenType: credentials.TokenType}, nil
			},
		}
		r := setupAuthRouter(NewAuthHandler(userSvc))

		rec := doRequest(r, "POST", "/auth/login", `{"username":"alice","password":"pw1"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["accessToken"] != "tok" || result["tokenType"] != "Bearer " {
			t.Errorf("unexpected body %v", result)
		}
	})

	t.Run("returns 401 on bad credentials", func(t *testing.T) {
		userSvc := &mockUserService{
			loginFn: func(_, _ string) (*credentials.Token, error) {
				return nil, apperrors.ErrAuthentication
			},
		}
		r := setupAuthRouter(NewAuthHandler(userSvc))

		rec := doRequest(r, "POST", "/auth/login", `{"username":"alice","password":"wrong"}`)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		apiErr := assertAPIError(t, parseJSON(t, rec), "UNAUTHORIZED")
		if apiErr["debugMessage"] != nil {
			t.Errorf("expected null debugMessage, got %v", apiErr["debugMessage"])
		}
	})
}
