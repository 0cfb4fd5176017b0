package auth_test

import (
	"testing"

	"hublens-backend/pkg/auth"
	pkgerrors "hublens-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateSignerRoundTrip(t *testing.T) {
	signer := auth.NewStateSigner("test-secret", "hublens-backend")

	state, err := signer.Sign()
	require.NoError(t, err)
	require.NotEmpty(t, state)

	assert.NoError(t, signer.Verify(state))
}

func TestStateSignerRejectsTampering(t *testing.T) {
	signer := auth.NewStateSigner("test-secret", "hublens-backend")

	state, err := signer.Sign()
	require.NoError(t, err)

	err = signer.Verify(state + "x")
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeUnauthorized))
}

func TestStateSignerRejectsForeignSecret(t *testing.T) {
	signer := auth.NewStateSigner("test-secret", "hublens-backend")
	forged := auth.NewStateSigner("other-secret", "hublens-backend")

	state, err := forged.Sign()
	require.NoError(t, err)

	assert.Error(t, signer.Verify(state))
}

func TestStateSignerRejectsWrongIssuer(t *testing.T) {
	signer := auth.NewStateSigner("test-secret", "hublens-backend")
	other := auth.NewStateSigner("test-secret", "someone-else")

	state, err := other.Sign()
	require.NoError(t, err)

	assert.Error(t, signer.Verify(state))
}

func TestStateSignerRejectsGarbage(t *testing.T) {
	signer := auth.NewStateSigner("test-secret", "hublens-backend")
	assert.Error(t, signer.Verify("not-a-jwt"))
	assert.Error(t, signer.Verify(""))
}
