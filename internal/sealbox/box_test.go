package sealbox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealOpen(t *testing.T) {
	box, identity, err := Generate()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(identity, "AGE-SECRET-KEY-1"))
	assert.True(t, strings.HasPrefix(box.Recipient(), "age1"))

	sealed, err := box.Seal("yAnz5TF+lXXJte14tji3zlMNq+hd2rYUIgJBgB3fBmk=")
	require.NoError(t, err)
	assert.NotContains(t, sealed, "yAnz5TF")

	reopened, err := New(identity)
	require.NoError(t, err)
	plaintext, err := reopened.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "yAnz5TF+lXXJte14tji3zlMNq+hd2rYUIgJBgB3fBmk=", plaintext)
}

func TestOpenWithWrongIdentityFails(t *testing.T) {
	first, _, err := Generate()
	require.NoError(t, err)
	second, _, err := Generate()
	require.NoError(t, err)

	sealed, err := first.Seal("secret")
	require.NoError(t, err)

	_, err = second.Open(sealed)
	assert.Error(t, err)

	_, err = first.Open("not base64!")
	assert.ErrorContains(t, err, "base64")
}

func TestNewRejectsMalformedIdentity(t *testing.T) {
	_, err := New("AGE-SECRET-KEY-1NOPE")
	assert.Error(t, err)
}
