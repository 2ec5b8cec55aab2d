package geolocation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-colaboradores/internal/geofence"

	"github.com/redis/go-redis/v9"
)

const positionKeyPrefix = "position:user:"

type storedFix struct {
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Accuracy   float64   `json:"accuracy"`
	CapturedAt time.Time `json:"captured_at"`
}

// PositionStore keeps the last fix reported by each user's device.
type PositionStore struct {
	rdb *redis.Client
	now func() time.Time
}

func NewPositionStore(rdb *redis.Client) *PositionStore {
	return &PositionStore{rdb: rdb, now: time.Now}
}

func positionKey(userID string) string {
	return positionKeyPrefix + userID
}

// Save stores a fix until it leaves the options' freshness window. Stale or
// future-dated fixes are rejected and the TTL never exceeds Freshness.
func (s *PositionStore) Save(ctx context.Context, userID string, point geofence.GeoPoint, accuracy float64, capturedAt time.Time, opts Options) error {
	if err := point.Validate(); err != nil {
		return err
	}
	if capturedAt.IsZero() {
		capturedAt = s.now()
	}
	age, err := checkAge(s.now(), capturedAt, opts)
	if err != nil {
		return err
	}
	ttl := opts.Freshness() - age
	if ttl <= 0 {
		return NewPositionError(PositionUnavailable, errors.New("reported fix is stale"))
	}

	payload, err := json.Marshal(storedFix{
		Latitude:   point.Latitude,
		Longitude:  point.Longitude,
		Accuracy:   accuracy,
		CapturedAt: capturedAt.UTC(),
	})
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, positionKey(userID), payload, ttl).Err()
}

// ForUser returns a Provider bound to one user's stored fix.
func (s *PositionStore) ForUser(userID string) Provider {
	return &RedisProvider{store: s, userID: userID}
}

type RedisProvider struct {
	store  *PositionStore
	userID string
}

func (p *RedisProvider) CurrentPosition(ctx context.Context, opts Options) (geofence.GeoPoint, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	raw, err := p.store.rdb.Get(ctx, positionKey(p.userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return geofence.GeoPoint{}, NewPositionError(PositionUnavailable, errors.New("no recent fix stored"))
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return geofence.GeoPoint{}, NewPositionError(Timeout, err)
		}
		return geofence.GeoPoint{}, NewPositionError(PositionUnavailable, fmt.Errorf("read fix: %w", err))
	}

	var fix storedFix
	if err := json.Unmarshal(raw, &fix); err != nil {
		return geofence.GeoPoint{}, NewPositionError(PositionUnavailable, err)
	}
	if _, err := checkAge(p.store.now(), fix.CapturedAt, opts); err != nil {
		return geofence.GeoPoint{}, err
	}
	return geofence.GeoPoint{Latitude: fix.Latitude, Longitude: fix.Longitude}, nil
}
