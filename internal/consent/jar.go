package consent

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"cv-architect/internal/storage"
)

const jarKey = "cookie_jar"

// storedCookie is one jar entry; zero ExpiresAt means no expiry.
type storedCookie struct {
	Value     string    `json:"value"`
	ExpiresAt time.Time `json:"expiresAt,omitempty"`
}

// StorageJar keeps the profile's cookies as a single JSON blob in durable
// storage, mirroring how the browser profile's cookie store behaves.
type StorageJar struct {
	durable storage.Store
	log     *zap.Logger
	now     func() time.Time
}

func NewStorageJar(durable storage.Store, log *zap.Logger) *StorageJar {
	return &StorageJar{durable: durable, log: log, now: time.Now}
}

func (j *StorageJar) Set(ctx context.Context, name, value string, ttl time.Duration) error {
	jar := j.read(ctx)
	c := storedCookie{Value: value}
	if ttl > 0 {
		c.ExpiresAt = j.now().Add(ttl)
	}
	jar[name] = c
	return j.write(ctx, jar)
}

func (j *StorageJar) Get(ctx context.Context, name string) (string, bool, error) {
	jar := j.read(ctx)
	c, ok := jar[name]
	if !ok {
		return "", false, nil
	}
	if !c.ExpiresAt.IsZero() && j.now().After(c.ExpiresAt) {
		return "", false, nil
	}
	return c.Value, true, nil
}

func (j *StorageJar) DeleteAll(ctx context.Context) error {
	return j.durable.Delete(ctx, jarKey)
}

func (j *StorageJar) read(ctx context.Context) map[string]storedCookie {
	jar := map[string]storedCookie{}
	raw, ok, err := j.durable.Get(ctx, jarKey)
	if err != nil {
		j.log.Warn("cookie jar read failed", zap.Error(err))
		return jar
	}
	if !ok {
		return jar
	}
	if err := json.Unmarshal([]byte(raw), &jar); err != nil {
		j.log.Warn("cookie jar is corrupt, treating as empty", zap.Error(err))
		return map[string]storedCookie{}
	}
	return jar
}

func (j *StorageJar) write(ctx context.Context, jar map[string]storedCookie) error {
	b, err := json.Marshal(jar)
	if err != nil {
		return err
	}
	return j.durable.Set(ctx, jarKey, string(b))
}
