package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ceeify/internal/authtoken"
	"ceeify/internal/store"
)

func newTestAPI(t *testing.T) (*API, string) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "jobs.db"))
	require.NoError(t, err)

	hash, err := authtoken.HashKey("admin-key")
	require.NoError(t, err)
	iss := authtoken.New([]byte("test-secret"), hash, time.Hour)

	return &API{Store: st, Auth: iss}, "admin-key"
}

func issueToken(t *testing.T, r http.Handler, adminKey string) string {
	t.Helper()
	body, _ := json.Marshal(tokenRequest{AdminKey: adminKey})
	req := httptest.NewRequest(http.MethodPost, PathPrefix+"/tokens", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp tokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Token
}

func Test_IssueToken_RejectsWrongAdminKey(t *testing.T) {
	api, _ := newTestAPI(t)
	r := api.NewRouter()

	body, _ := json.Marshal(tokenRequest{AdminKey: "wrong"})
	req := httptest.NewRequest(http.MethodPost, PathPrefix+"/tokens", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func Test_CompileJob_RequiresBearerToken(t *testing.T) {
	api, _ := newTestAPI(t)
	r := api.NewRouter()

	body, _ := json.Marshal(compileRequest{Source: "x = 1\n"})
	req := httptest.NewRequest(http.MethodPost, PathPrefix+"/jobs", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func Test_CompileJob_SucceedsAndIsRetrievable(t *testing.T) {
	api, adminKey := newTestAPI(t)
	r := api.NewRouter()
	tok := issueToken(t, r, adminKey)

	body, _ := json.Marshal(compileRequest{Source: "x = 1\n"})
	req := httptest.NewRequest(http.MethodPost, PathPrefix+"/jobs", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created jobResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "ok", created.Status)
	assert.Contains(t, created.Output, "int x = 1;")

	getReq := httptest.NewRequest(http.MethodGet, PathPrefix+"/jobs/"+created.ID, nil)
	getReq.Header.Set("Authorization", "Bearer "+tok)
	getRec := httptest.NewRecorder()
	r.ServeHTTP(getRec, getReq)
	assert.Equal(t, http.StatusOK, getRec.Code)
}

func Test_CompileJob_RecordsCompileErrorWithoutFailingRequest(t *testing.T) {
	api, adminKey := newTestAPI(t)
	r := api.NewRouter()
	tok := issueToken(t, r, adminKey)

	body, _ := json.Marshal(compileRequest{Source: "y = undefined_name\n"})
	req := httptest.NewRequest(http.MethodPost, PathPrefix+"/jobs", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created jobResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "error", created.Status)
	assert.NotEmpty(t, created.Error)
}

func Test_ListJobs_ReturnsRecordedJobs(t *testing.T) {
	api, adminKey := newTestAPI(t)
	r := api.NewRouter()
	tok := issueToken(t, r, adminKey)

	for _, src := range []string{"x = 1\n", "y = 2\n"} {
		body, _ := json.Marshal(compileRequest{Source: src})
		req := httptest.NewRequest(http.MethodPost, PathPrefix+"/jobs", bytes.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+tok)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	listReq := httptest.NewRequest(http.MethodGet, PathPrefix+"/jobs", nil)
	listReq.Header.Set("Authorization", "Bearer "+tok)
	listRec := httptest.NewRecorder()
	r.ServeHTTP(listRec, listReq)
	require.Equal(t, http.StatusOK, listRec.Code)

	var jobs []jobResponse
	require.NoError(t, json.Unmarshal(listRec.Body.Bytes(), &jobs))
	assert.Len(t, jobs, 2)
}
