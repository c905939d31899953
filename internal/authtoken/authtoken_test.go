package authtoken

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_CheckAdminKey_AcceptsMatchingKey(t *testing.T) {
	hash, err := HashKey("sesame")
	require.NoError(t, err)

	iss := New([]byte("signing-secret"), hash, time.Hour)
	assert.True(t, iss.CheckAdminKey("sesame"))
	assert.False(t, iss.CheckAdminKey("wrong"))
}

func Test_IssueThenValidate_RoundTrips(t *testing.T) {
	hash, err := HashKey("sesame")
	require.NoError(t, err)
	iss := New([]byte("signing-secret"), hash, time.Hour)

	tok, err := iss.Issue()
	require.NoError(t, err)
	assert.NoError(t, iss.Validate(tok))
}

func Test_Validate_RejectsWrongSecret(t *testing.T) {
	hash, err := HashKey("sesame")
	require.NoError(t, err)
	iss := New([]byte("signing-secret"), hash, time.Hour)
	other := New([]byte("different-secret"), hash, time.Hour)

	tok, err := iss.Issue()
	require.NoError(t, err)
	assert.Error(t, other.Validate(tok))
}

func Test_Validate_RejectsExpiredToken(t *testing.T) {
	hash, err := HashKey("sesame")
	require.NoError(t, err)
	iss := New([]byte("signing-secret"), hash, -time.Hour)

	tok, err := iss.Issue()
	require.NoError(t, err)
	assert.Error(t, iss.Validate(tok))
}

func Test_FromHeader_ParsesBearerScheme(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer abc.def.ghi")

	tok, err := FromHeader(req)
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", tok)
}

func Test_FromHeader_RejectsMissingOrMalformed(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, err)
	_, err = FromHeader(req)
	assert.Error(t, err)

	req.Header.Set("Authorization", "Basic abc")
	_, err = FromHeader(req)
	assert.Error(t, err)
}
