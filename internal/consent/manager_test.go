package consent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cv-architect/internal/storage"
)

func TestUndecidedFailsClosed(t *testing.T) {
	m := NewManager(storage.NewMemory(), zap.NewNop())

	assert.True(t, m.ShowBanner())
	assert.False(t, m.HasConsented())
	assert.True(t, m.Allows(CategoryNecessary))
	assert.False(t, m.CanUseAnalytics())
	assert.False(t, m.CanUseMarketing())
	assert.False(t, m.CanUsePreferences())
}

func TestAcceptAllIsIdempotent(t *testing.T) {
	ctx := context.Background()
	m := NewManager(storage.NewMemory(), zap.NewNop())

	m.AcceptAll(ctx)
	m.AcceptAll(ctx)

	assert.True(t, m.HasConsented())
	assert.False(t, m.ShowBanner())
	assert.True(t, m.CanUseAnalytics())
	assert.True(t, m.CanUseMarketing())
	assert.True(t, m.CanUsePreferences())
}

func TestRejectAllGatesEverythingNonNecessary(t *testing.T) {
	ctx := context.Background()
	m := NewManager(storage.NewMemory(), zap.NewNop())

	m.AcceptAll(ctx)
	m.RejectAll(ctx)

	assert.True(t, m.HasConsented())
	assert.True(t, m.Allows(CategoryNecessary))
	assert.False(t, m.CanUseAnalytics())
	assert.False(t, m.CanUseMarketing())
	assert.False(t, m.CanUsePreferences())
}

func TestAcceptSelectedForcesNecessary(t *testing.T) {
	ctx := context.Background()
	durable := storage.NewMemory()
	m := NewManager(durable, zap.NewNop())

	m.AcceptSelected(ctx, Preferences{Necessary: false, Analytics: true, Preferences: true})

	prefs := m.Current()
	assert.True(t, prefs.Necessary)
	assert.True(t, prefs.Analytics)
	assert.False(t, prefs.Marketing)
	assert.True(t, prefs.Preferences)

	// the persisted copy carries the forced flag too
	restored := NewManager(durable, zap.NewNop())
	restored.Load(ctx)
	assert.True(t, restored.Current().Necessary)
	assert.True(t, restored.CanUseAnalytics())
	assert.False(t, restored.CanUseMarketing())
}

func TestDecisionRestoredVerbatim(t *testing.T) {
	ctx := context.Background()
	durable := storage.NewMemory()

	first := NewManager(durable, zap.NewNop())
	first.AcceptSelected(ctx, Preferences{Analytics: true})

	second := NewManager(durable, zap.NewNop())
	second.Load(ctx)
	assert.True(t, second.HasConsented())
	assert.False(t, second.ShowBanner())
	assert.Equal(t, first.Current(), second.Current())
}

func TestShowSettingsKeepsDecision(t *testing.T) {
	ctx := context.Background()
	m := NewManager(storage.NewMemory(), zap.NewNop())

	m.AcceptAll(ctx)
	m.ShowSettings()

	assert.True(t, m.ShowBanner())
	assert.True(t, m.HasConsented())
	assert.True(t, m.CanUseAnalytics())
}

func TestResetErasesDurableState(t *testing.T) {
	ctx := context.Background()
	durable := storage.NewMemory()
	m := NewManager(durable, zap.NewNop())

	m.AcceptAll(ctx)
	m.Reset(ctx)

	assert.False(t, m.HasConsented())
	assert.True(t, m.ShowBanner())
	assert.False(t, m.CanUseAnalytics())

	_, ok, err := durable.Get(ctx, storage.KeyConsentDecided)
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = durable.Get(ctx, storage.KeyConsentPreferences)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCorruptStoredPreferencesStayUndecided(t *testing.T) {
	ctx := context.Background()
	durable := storage.NewMemory()
	require.NoError(t, durable.Set(ctx, storage.KeyConsentDecided, "true"))
	require.NoError(t, durable.Set(ctx, storage.KeyConsentPreferences, "{broken"))

	m := NewManager(durable, zap.NewNop())
	m.Load(ctx)
	assert.False(t, m.HasConsented())
	assert.False(t, m.CanUseAnalytics())
}
