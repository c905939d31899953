package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_CreateThenGetByID_RoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.db")
	st, err := Open(path)
	require.NoError(t, err)

	created, err := st.Create(context.Background(), Job{
		Source: "x = 1\n",
		Output: "int x = 1;\n",
		Status: StatusOK,
	})
	require.NoError(t, err)
	assert.NotEqual(t, "", created.ID.String())

	fetched, err := st.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "x = 1\n", fetched.Source)
	assert.Equal(t, "int x = 1;\n", fetched.Output)
	assert.Equal(t, StatusOK, fetched.Status)
}

func Test_GetByID_MissingReturnsErrNotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.db")
	st, err := Open(path)
	require.NoError(t, err)

	missing, err := uuid.NewRandom()
	require.NoError(t, err)

	_, err = st.GetByID(context.Background(), missing)
	assert.ErrorIs(t, err, ErrNotFound)
}

func Test_List_ReturnsEveryJob(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.db")
	st, err := Open(path)
	require.NoError(t, err)

	_, err = st.Create(context.Background(), Job{Source: "a", Status: StatusOK})
	require.NoError(t, err)
	_, err = st.Create(context.Background(), Job{Source: "b", Status: StatusError, ErrMessage: "boom"})
	require.NoError(t, err)

	jobs, err := st.List(context.Background())
	require.NoError(t, err)
	require.Len(t, jobs, 2)
}
