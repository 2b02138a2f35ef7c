package storage

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSignedURLSignerGenerateAndParse(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	token, expiresAt, err := signer.Generate("student-1", "admissions/file.pdf")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.False(t, expiresAt.IsZero())

	owner, path, err := signer.Parse(token)
	require.NoError(t, err)
	require.Equal(t, "student-1", owner)
	require.Equal(t, "admissions/file.pdf", path)
}

func TestSignedURLSignerExpired(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Millisecond*10)
	token, _, err := signer.Generate("student-1", "admissions/file.pdf")
	require.NoError(t, err)
	time.Sleep(time.Second + time.Millisecond*100)

	_, _, err = signer.Parse(token)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrInvalidToken))
}

func TestSignedURLSignerRejectsForeignSecret(t *testing.T) {
	token, _, err := NewSignedURLSigner("secret", time.Hour).Generate("student-1", "a.pdf")
	require.NoError(t, err)

	_, _, err = NewSignedURLSigner("other", time.Hour).Parse(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}
