package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	u := User{Password: "secret123"}
	require.NoError(t, u.HashPassword())
	assert.NotEqual(t, "secret123", u.Password)
	assert.True(t, u.ComparePassword("secret123"))
	assert.False(t, u.ComparePassword("wrong"))
}

func TestUserJSONHidesPassword(t *testing.T) {
	u := User{Name: "A", Email: "a@x.com", Password: "hash", Role: RoleAdmin}
	b, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "hash")
	assert.Contains(t, string(b), `"role":"admin"`)
}
