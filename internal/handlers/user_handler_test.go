package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/models"
	"expensetracker/internal/services"
)

func setupUserRouter(handler *UserHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUsername("root"))
	auth.GET("/users/by-username/:username", handler.GetUserIDByUsername)
	auth.GET("/users/:id", handler.GetUser)
	auth.PUT("/users/:id", handler.UpdateUser)
	auth.DELETE("/users/:id", handler.DeleteUser)
	auth.POST("/users/:id/admin", handler.GrantAdmin)
	return r
}

func TestUserHandler_GetUser(t *testing.T) {
	t.Run("returns user with role values", func(t *testing.T) {
		userSvc := &mockUserService{
			getUserByIDFn: func(id string) (*models.User, error) {
				return testUser(id, "alice", models.RoleUser), nil
			},
		}
		r := setupUserRouter(NewUserHandler(userSvc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/users/u1", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		roles := result["roles"].([]interface{})
		if len(roles) != 1 || roles[0] != "USER" {
			t.Errorf("expected [USER], got %v", roles)
		}
	})

	t.Run("returns 404 envelope", func(t *testing.T) {
		userSvc := &mockUserService{
			getUserByIDFn: func(id string) (*models.User, error) {
				return nil, apperrors.EntityNotFound("User", "id", id)
			},
		}
		r := setupUserRouter(NewUserHandler(userSvc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/users/674560cbf5f7ca5c0e6720a", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		apiErr := assertAPIError(t, parseJSON(t, rec), "NOT_FOUND")
		if apiErr["message"] != "User was not found for parameters {id=674560cbf5f7ca5c0e6720a}" {
			t.Errorf("unexpected message %v", apiErr["message"])
		}
	})
}

func TestUserHandler_GetUserIDByUsername(t *testing.T) {
	userSvc := &mockUserService{
		getUserIDByUsernameFn: func(username string) (string, error) {
			if username == "alice" {
				return "u1", nil
			}
			return "", apperrors.EntityNotFound("User", "username", username)
		},
	}
	r := setupUserRouter(NewUserHandler(userSvc, &mockAuditService{}))

	rec := doRequest(r, "GET", "/users/by-username/alice", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := parseJSON(t, rec)["id"]; got != "u1" {
		t.Errorf("expected u1, got %v", got)
	}

	rec = doRequest(r, "GET", "/users/by-username/bob", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestUserHandler_UpdateUser(t *testing.T) {
	audit := &mockAuditService{}
	userSvc := &mockUserService{
		updateUserFn: func(id, email, username, password string) (*models.User, error) {
			if email != "new@b.com" || password != "pw2" {
				t.Errorf("unexpected update %s %s", email, password)
			}
			return testUser(id, username, models.RoleUser), nil
		},
	}
	r := setupUserRouter(NewUserHandler(userSvc, audit))

	rec := doRequest(r, "PUT", "/users/u1", `{"email":"new@b.com","username":"alice2","password":"pw2"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if parseJSON(t, rec)["username"] != "alice2" {
		t.Error("expected updated username")
	}
	if len(audit.entries) != 1 || audit.entries[0].action != services.AuditUpdateUser || audit.entries[0].actor != "root" {
		t.Errorf("unexpected audit entries %+v", audit.entries)
	}
}

func TestUserHandler_DeleteUser(t *testing.T) {
	t.Run("returns deleted snapshot", func(t *testing.T) {
		audit := &mockAuditService{}
		userSvc := &mockUserService{
			deleteUserFn: func(id string) (*models.User, error) {
				return testUser(id, "alice", models.RoleUser), nil
			},
		}
		r := setupUserRouter(NewUserHandler(userSvc, audit))

		rec := doRequest(r, "DELETE", "/users/u1", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if parseJSON(t, rec)["id"] != "u1" {
			t.Error("expected deleted user id")
		}
		if len(audit.entries) != 1 || audit.entries[0].action != services.AuditDeleteUser {
			t.Errorf("unexpected audit entries %+v", audit.entries)
		}
	})

	t.Run("no audit on failure", func(t *testing.T) {
		audit := &mockAuditService{}
		userSvc := &mockUserService{
			deleteUserFn: func(id string) (*models.User, error) {
				return nil, apperrors.EntityNotFound("User", "id", id)
			},
		}
		r := setupUserRouter(NewUserHandler(userSvc, audit))

		rec := doRequest(r, "DELETE", "/users/u1", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		if len(audit.entries) != 0 {
			t.Errorf("expected no audit entries, got %+v", audit.entries)
		}
	})
}

func TestUserHandler_GrantAdmin(t *testing.T) {
	audit := &mockAuditService{}
	userSvc := &mockUserService{
		grantAdminFn: func(id string) (*models.User, error) {
			return testUser(id, "alice", models.RoleUser, models.RoleAdmin), nil
		},
	}
	r := setupUserRouter(NewUserHandler(userSvc, audit))

	rec := doRequest(r, "POST", "/users/u1/admin", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	roles := parseJSON(t, rec)["roles"].([]interface{})
	if len(roles) != 2 || roles[1] != "ADMIN" {
		t.Errorf("expected [USER ADMIN], got %v", roles)
	}
	if len(audit.entries) != 1 || audit.entries[0].action != services.AuditGrantAdmin {
		t.Errorf("unexpected audit entries %+v", audit.entries)
	}
}
