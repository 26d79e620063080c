package jwt_test

import (
	"testing"
	"time"

	"github.com/dkl25/admin-api/pkg/jwt"
	"github.com/dkl25/admin-api/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	in := models.User{ID: "5b1c", Email: "admin@example.org", Role: models.RoleAdmin}
	token, err := jwt.GenerateToken("secret", in, time.Hour)
	require.NoError(t, err)

	out, err := jwt.ParseToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, in, *out)
}

func TestParseTokenRejects(t *testing.T) {
	valid, err := jwt.GenerateToken("secret", models.User{ID: "u"}, time.Hour)
	require.NoError(t, err)
	expired, err := jwt.GenerateToken("secret", models.User{ID: "u"}, -time.Minute)
	require.NoError(t, err)

	for name, testcase := range map[string]struct {
		token  string
		secret string
	}{
		"wrong secret":   {token: valid, secret: "other"},
		"expired token":  {token: expired, secret: "secret"},
		"garbage":        {token: "not-a-jwt", secret: "secret"},
		"missing secret": {token: valid, secret: ""},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := jwt.ParseToken(testcase.token, testcase.secret)
			assert.Error(t, err)
		})
	}
}

func TestMissingRoleDefaultsToEditor(t *testing.T) {
	token, err := jwt.GenerateToken("secret", models.User{ID: "u"}, time.Hour)
	require.NoError(t, err)

	user, err := jwt.ParseToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, models.RoleEditor, user.Role)
	assert.True(t, user.CanWrite())
}
