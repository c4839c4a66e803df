package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	assert.True(t, CheckPasswordHash("correct horse battery", hash))
	assert.False(t, CheckPasswordHash("wrong password", hash))
	assert.False(t, CheckPasswordHash("correct horse battery", "not-a-hash"))
}

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT("eval-1", "김철수", "컨설팅1팀", "member", false)
	require.NoError(t, err)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "eval-1", claims.EvaluatorID)
	assert.Equal(t, "김철수", claims.Name)
	assert.Equal(t, "컨설팅1팀", claims.Team)
	assert.Equal(t, "member", claims.Role)
	assert.False(t, claims.IsAdmin)
}

func TestJWTTampered(t *testing.T) {
	token, err := GenerateJWT("eval-1", "김철수", "컨설팅1팀", "member", true)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	parts[2] = "forgedsignature"

	_, err = ValidateJWT(strings.Join(parts, "."))
	assert.Error(t, err)
}

func TestJWTGarbage(t *testing.T) {
	_, err := ValidateJWT("definitely.not.a-jwt")
	assert.Error(t, err)
}
