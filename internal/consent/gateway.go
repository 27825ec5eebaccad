package consent

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cv-architect/internal/storage"
)

// CookieJar abstracts the profile's cookie storage. The production jar lives
// in durable storage; tests use the same implementation over a memory store.
type CookieJar interface {
	Set(ctx context.Context, name, value string, ttl time.Duration) error
	Get(ctx context.Context, name string) (string, bool, error)
	DeleteAll(ctx context.Context) error
}

// Gateway is the policy-checking facade in front of cookies, tracking and the
// generic preference store. Disallowed attempts are silent, logged no-ops;
// nothing here ever escalates privilege or throws past the caller.
type Gateway struct {
	consent *Manager
	jar     CookieJar
	durable storage.Store
	log     *zap.Logger
}

func NewGateway(consent *Manager, jar CookieJar, durable storage.Store, log *zap.Logger) *Gateway {
	return &Gateway{consent: consent, jar: jar, durable: durable, log: log}
}

// SetCookie writes a cookie only when its category is currently allowed.
func (g *Gateway) SetCookie(ctx context.Context, name, value string, category Category, ttlDays int) {
	if !g.consent.Allows(category) {
		g.log.Warn("cookie write blocked by consent",
			zap.String("cookie", name), zap.String("category", string(category)))
		return
	}
	ttl := time.Duration(ttlDays) * 24 * time.Hour
	if err := g.jar.Set(ctx, name, value, ttl); err != nil {
		g.log.Warn("cookie write failed", zap.String("cookie", name), zap.Error(err))
	}
}

// GetCookie reads a cookie; reads are gated like writes so a retracted
// consent immediately hides previously written values.
func (g *Gateway) GetCookie(ctx context.Context, name string, category Category) (string, bool) {
	if !g.consent.Allows(category) {
		return "", false
	}
	v, ok, err := g.jar.Get(ctx, name)
	if err != nil {
		g.log.Warn("cookie read failed", zap.String("cookie", name), zap.Error(err))
		return "", false
	}
	return v, ok
}

// TrackEvent records an analytics event, or silently drops it without
// consent. Never returns an error to the caller.
func (g *Gateway) TrackEvent(name string, props map[string]string) {
	if !g.consent.CanUseAnalytics() {
		g.log.Warn("analytics event dropped by consent", zap.String("event", name))
		return
	}
	g.log.Info("analytics event",
		zap.String("event", name),
		zap.String("event_id", uuid.NewString()),
		zap.Any("props", props))
}

// TrackMarketingEvent is TrackEvent under the marketing category.
func (g *Gateway) TrackMarketingEvent(name string, props map[string]string) {
	if !g.consent.CanUseMarketing() {
		g.log.Warn("marketing event dropped by consent", zap.String("event", name))
		return
	}
	g.log.Info("marketing event",
		zap.String("event", name),
		zap.String("event_id", uuid.NewString()),
		zap.Any("props", props))
}

// SetPreference writes one entry of the aggregate preference blob, gated by
// the preferences category.
func (g *Gateway) SetPreference(ctx context.Context, key, value string) {
	if !g.consent.CanUsePreferences() {
		g.log.Warn("preference write blocked by consent", zap.String("key", key))
		return
	}
	prefs := g.readPreferenceBlob(ctx)
	prefs[key] = value
	b, err := json.Marshal(prefs)
	if err != nil {
		g.log.Warn("preference serialization failed", zap.Error(err))
		return
	}
	if err := g.durable.Set(ctx, storage.KeyUserPreferences, string(b)); err != nil {
		g.log.Warn("preference persistence failed", zap.String("key", key), zap.Error(err))
	}
}

// GetPreference returns the stored value, or def whenever consent is absent.
// Revocation is read-gating: the stored blob survives until an explicit
// Reset or DeleteAllCookies, but it is never returned without consent.
func (g *Gateway) GetPreference(ctx context.Context, key, def string) string {
	if !g.consent.CanUsePreferences() {
		return def
	}
	prefs := g.readPreferenceBlob(ctx)
	if v, ok := prefs[key]; ok {
		return v
	}
	return def
}

// DeleteAllCookies erases the jar and the preference blob. This is the
// explicit deletion operation; consent revocation alone does not delete.
func (g *Gateway) DeleteAllCookies(ctx context.Context) {
	if err := g.jar.DeleteAll(ctx); err != nil {
		g.log.Warn("cookie jar erase failed", zap.Error(err))
	}
	if err := g.durable.Delete(ctx, storage.KeyUserPreferences); err != nil {
		g.log.Warn("preference blob erase failed", zap.Error(err))
	}
}

func (g *Gateway) readPreferenceBlob(ctx context.Context) map[string]string {
	prefs := map[string]string{}
	raw, ok, err := g.durable.Get(ctx, storage.KeyUserPreferences)
	if err != nil {
		g.log.Warn("preference blob read failed", zap.Error(err))
		return prefs
	}
	if !ok {
		return prefs
	}
	if err := json.Unmarshal([]byte(raw), &prefs); err != nil {
		g.log.Warn("preference blob is corrupt, treating as empty", zap.Error(err))
		return map[string]string{}
	}
	return prefs
}
