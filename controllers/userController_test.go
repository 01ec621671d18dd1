package controllers

import (
	"net/http"
	"testing"

	"civictrack/models"
	"civictrack/repository/mocks"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/mock/gomock"
)

func TestListUsers(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserRepository(ctrl)
	u := &UserController{Users: users}

	route := func(role models.Role) *gin.Engine {
		r := gin.New()
		r.GET("/users", as(role, primitive.NewObjectID()), u.ListUsers)
		return r
	}

	admins := []models.User{{ID: primitive.NewObjectID(), Name: "Ravi", Role: models.RoleAdmin, Password: "hash"}}
	users.EXPECT().ListByRole(gomock.Any(), models.RoleAdmin).Return(admins, nil)

	w := doJSON(route(models.RoleUser), http.MethodGet, "/users?role=admin", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Ravi")
	assert.NotContains(t, w.Body.String(), "hash")

	assert.Equal(t, http.StatusForbidden, doJSON(route(models.RoleUser), http.MethodGet, "/users?role=user", nil).Code)
	assert.Equal(t, http.StatusForbidden, doJSON(route(models.RoleUser), http.MethodGet, "/users", nil).Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(route(models.RoleAdmin), http.MethodGet, "/users?role=owner", nil).Code)

	users.EXPECT().ListByRole(gomock.Any(), models.RoleUser).Return(nil, nil)
	w = doJSON(route(models.RoleAdmin), http.MethodGet, "/users?role=user", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}
