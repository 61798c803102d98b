package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignerRoundTrip(t *testing.T) {
	signer := NewSigner("secret", time.Hour)

	token, expiresAt, err := signer.Sign("job-1", "reports/asistencias.csv")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	jobID, path, parsedExpiry, err := signer.Verify(token, false)
	require.NoError(t, err)
	assert.Equal(t, "job-1", jobID)
	assert.Equal(t, "reports/asistencias.csv", path)
	assert.WithinDuration(t, expiresAt, parsedExpiry, time.Second)
}

func TestSignerRejectsTamperedToken(t *testing.T) {
	signer := NewSigner("secret", time.Hour)

	token, _, err := signer.Sign("job-1", "reports/asistencias.csv")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	parts[0] = "job-2"
	_, _, _, err = signer.Verify(strings.Join(parts, "."), false)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, _, _, err = signer.Verify("not-a-token", false)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestSignerExpiry(t *testing.T) {
	signer := NewSigner("secret", 10*time.Millisecond)

	token, _, err := signer.Sign("job-1", "reports/asistencias.csv")
	require.NoError(t, err)
	time.Sleep(20 * time.Millisecond)

	_, _, _, err = signer.Verify(token, false)
	assert.ErrorIs(t, err, ErrTokenExpired)

	jobID, path, _, err := signer.Verify(token, true)
	require.NoError(t, err)
	assert.Equal(t, "job-1", jobID)
	assert.Equal(t, "reports/asistencias.csv", path)
}

func TestLocalStorageSaveOpenDelete(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	rel, err := store.Save("reports/demo.csv", []byte("Evento,Programa\n"))
	require.NoError(t, err)
	assert.Equal(t, "reports/demo.csv", rel)

	file, err := store.Open(rel)
	require.NoError(t, err)
	require.NoError(t, file.Close())

	require.NoError(t, store.Delete(rel))
	_, err = store.Open(rel)
	assert.Error(t, err)

	// Deleting a missing file is not an error.
	assert.NoError(t, store.Delete(rel))
}
