package pasetotoken

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, mode Mode) *Manager {
	t.Helper()
	keys := NewLocalKeys()
	if mode == ModePublic {
		keys = NewPublicKeys()
	}
	m, err := New(Config{Mode: mode, Issuer: "gymdesk", Audience: "gymdesk-api", AccessTTL: time.Minute}, keys)
	require.NoError(t, err)
	return m
}

func TestIssueAndVerify(t *testing.T) {
	for _, mode := range []Mode{ModeLocal, ModePublic} {
		t.Run(string(mode), func(t *testing.T) {
			m := newTestManager(t, mode)
			sid := uuid.New()
			uid := uuid.New()

			tok, err := m.IssueAccess(Subject{UserID: uid, Username: "mona", SessionID: &sid})
			require.NoError(t, err)

			claims, err := m.Verify(tok)
			require.NoError(t, err)
			assert.Equal(t, TokenTypeAccess, claims.Type)
			assert.Equal(t, uid, claims.UserID)
			assert.Equal(t, "mona", claims.Username)
			require.NotNil(t, claims.SessionID)
			assert.Equal(t, sid, *claims.SessionID)
			assert.False(t, claims.IsExpired())
		})
	}
}

func TestVerifyRejectsForeignAudience(t *testing.T) {
	keys := NewLocalKeys()
	issuer, err := New(Config{Mode: ModeLocal, Issuer: "gymdesk", Audience: "other"}, keys)
	require.NoError(t, err)
	verifier, err := New(Config{Mode: ModeLocal, Issuer: "gymdesk", Audience: "gymdesk-api"}, keys)
	require.NoError(t, err)

	tok, err := issuer.IssueRefresh(Subject{UserID: uuid.New()})
	require.NoError(t, err)

	_, err = verifier.Verify(tok)
	var invalid ErrInvalidToken
	assert.ErrorAs(t, err, &invalid)
}

func TestNewRequiresIssuerAndAudience(t *testing.T) {
	_, err := New(Config{Mode: ModeLocal, Audience: "a"}, NewLocalKeys())
	assert.Error(t, err)
	_, err = New(Config{Mode: ModeLocal, Issuer: "i"}, NewLocalKeys())
	assert.Error(t, err)
	_, err = New(Config{Mode: ModePublic, Issuer: "i", Audience: "a"}, NewLocalKeys())
	assert.Error(t, err)
}

func TestLoadKeys(t *testing.T) {
	local := NewLocalKeys()
	k, err := LoadKeys(KeyStrings{Mode: ModeLocal, SymmetricHex: local.Symmetric.ExportHex()})
	require.NoError(t, err)
	assert.Equal(t, ModeLocal, k.Mode)

	_, err = LoadKeys(KeyStrings{Mode: ModeLocal})
	assert.Error(t, err)

	pub := NewPublicKeys()
	k, err = LoadKeys(KeyStrings{Mode: ModePublic, SecretHex: pub.Secret.ExportHex()})
	require.NoError(t, err)
	require.NotNil(t, k.Public)
	assert.Equal(t, pub.Public.ExportHex(), k.Public.ExportHex())

	k, err = LoadKeys(KeyStrings{Mode: ModePublic, PublicHex: pub.Public.ExportHex()})
	require.NoError(t, err)
	assert.Nil(t, k.Secret)

	_, err = LoadKeys(KeyStrings{Mode: ModePublic})
	assert.Error(t, err)

	_, err = LoadKeys(KeyStrings{Mode: "v2"})
	assert.Error(t, err)
}
