package tenancy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/pos-console/internal/domain/auth"
)

var (
	basePair    = domainauth.CredentialPair{AccessToken: "base-a", RefreshToken: "base-r"}
	partnerPair = domainauth.CredentialPair{AccessToken: "p-a", RefreshToken: "p-r"}
	acme        = domainauth.PartnerRef{ID: 42, Name: "Acme", IsActive: true}
	downtown    = domainauth.StoreRef{ID: 7, Name: "Downtown", PartnerID: 42, IsActive: true}
)

func TestStack_PushPop(t *testing.T) {
	var s Stack
	assert.Equal(t, Base, s.State())
	assert.True(t, s.Empty())

	require.NoError(t, s.PushPartner(acme, basePair))
	assert.Equal(t, ImpersonatingPartner, s.State())

	require.NoError(t, s.PushStore(acme, downtown, partnerPair, false))
	assert.Equal(t, ImpersonatingPartnerAndStore, s.State())
	assert.Equal(t, 2, s.Depth())

	sf, ok := s.StoreFrame()
	require.True(t, ok)
	assert.Equal(t, partnerPair, sf.Saved)

	bottom, ok := s.Bottom()
	require.True(t, ok)
	assert.Equal(t, basePair, bottom.Saved)

	f, err := s.Pop()
	require.NoError(t, err)
	assert.Equal(t, LevelStore, f.Level)

	f, err = s.Pop()
	require.NoError(t, err)
	assert.Equal(t, LevelPartner, f.Level)
	assert.Equal(t, basePair, f.Saved)

	_, err = s.Pop()
	assert.ErrorIs(t, err, ErrEmptyStack)
	assert.Equal(t, Stack{}, s)
}

func TestStack_PushPartnerTwice(t *testing.T) {
	var s Stack
	require.NoError(t, s.PushPartner(acme, basePair))

	err := s.PushPartner(domainauth.PartnerRef{ID: 43}, partnerPair)
	assert.ErrorIs(t, err, ErrAlreadyImpersonating)
	assert.Equal(t, 1, s.Depth())
}

func TestStack_PushStoreRules(t *testing.T) {
	t.Run("needs partner frame unless anchored", func(t *testing.T) {
		var s Stack
		assert.ErrorIs(t, s.PushStore(acme, downtown, basePair, false), ErrMissingPartnerFrame)
		assert.True(t, s.Empty())

		require.NoError(t, s.PushStore(acme, downtown, basePair, true))
		assert.Equal(t, ImpersonatingPartnerAndStore, s.State())
		_, hasPartner := s.PartnerFrame()
		assert.False(t, hasPartner)
	})

	t.Run("single store frame", func(t *testing.T) {
		var s Stack
		require.NoError(t, s.PushStore(acme, downtown, basePair, true))
		err := s.PushStore(acme, domainauth.StoreRef{ID: 8}, basePair, true)
		assert.ErrorIs(t, err, ErrStoreFrameExists)
	})

	t.Run("partner must match", func(t *testing.T) {
		var s Stack
		require.NoError(t, s.PushPartner(acme, basePair))
		err := s.PushStore(domainauth.PartnerRef{ID: 1}, downtown, partnerPair, false)
		assert.ErrorIs(t, err, ErrInvalidFrame)
		assert.Equal(t, 1, s.Depth())
	})

	t.Run("saved credentials required", func(t *testing.T) {
		var s Stack
		assert.ErrorIs(t, s.PushPartner(acme, domainauth.CredentialPair{}), ErrInvalidFrame)
	})
}

func TestStack_FramesAreCopies(t *testing.T) {
	var s Stack
	require.NoError(t, s.PushStore(acme, downtown, basePair, true))

	frames := s.Frames()
	frames[0].Store.ID = 99

	sf, _ := s.StoreFrame()
	assert.Equal(t, int64(7), sf.Store.ID)
}

func TestStackOf(t *testing.T) {
	store := downtown
	s, err := StackOf(
		Frame{Level: LevelPartner, Partner: acme, Saved: basePair},
		Frame{Level: LevelStore, Partner: acme, Store: &store, Saved: partnerPair},
	)
	require.NoError(t, err)
	assert.Equal(t, ImpersonatingPartnerAndStore, s.State())

	_, err = StackOf(Frame{Level: LevelStore, Partner: acme, Store: &store, Saved: partnerPair})
	assert.ErrorIs(t, err, ErrMissingPartnerFrame)

	_, err = StackOf(Frame{Level: 9, Partner: acme, Saved: basePair})
	assert.ErrorIs(t, err, ErrInvalidFrame)

	_, err = StackOf(
		Frame{Level: LevelPartner, Partner: acme, Saved: basePair},
		Frame{Level: LevelStore, Partner: acme, Store: &store, Saved: partnerPair},
		Frame{Level: LevelStore, Partner: acme, Store: &store, Saved: partnerPair},
	)
	assert.ErrorIs(t, err, ErrInvalidFrame)
}
