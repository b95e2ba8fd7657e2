package redis

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// ControlRepo holds the current account-level operational controls per
// creator. History lives in postgres; this hash is only the live state.
type ControlRepo struct {
	client *goredis.Client
}

type ControlRecord struct {
	CreationBlocked   bool
	PublishingBlocked bool
	CooldownUntil     int64
	Exists            bool
}

func NewControlRepo(client *goredis.Client) *ControlRepo {
	return &ControlRepo{client: client}
}

func (r *ControlRepo) Get(ctx context.Context, creatorID string) (ControlRecord, error) {
	if r.client == nil {
		return ControlRecord{}, fmt.Errorf("redis client is nil")
	}
	if strings.TrimSpace(creatorID) == "" {
		return ControlRecord{}, fmt.Errorf("creator id is required")
	}

	values, err := r.client.HGetAll(ctx, controlKey(creatorID)).Result()
	if err != nil {
		return ControlRecord{}, fmt.Errorf("get creator controls: %w", err)
	}
	if len(values) == 0 {
		return ControlRecord{}, nil
	}

	cooldownUntil, err := parseInt64(values["cooldown_until"])
	if err != nil {
		return ControlRecord{}, fmt.Errorf("parse cooldown_until: %w", err)
	}
	if cooldownUntil < 0 {
		cooldownUntil = 0
	}

	return ControlRecord{
		CreationBlocked:   values["creation_blocked"] == "1",
		PublishingBlocked: values["publishing_blocked"] == "1",
		CooldownUntil:     cooldownUntil,
		Exists:            true,
	}, nil
}

func (r *ControlRepo) SetCreationBlocked(ctx context.Context, creatorID string, blocked bool) error {
	return r.setFlag(ctx, creatorID, "creation_blocked", blocked)
}

func (r *ControlRepo) SetPublishingBlocked(ctx context.Context, creatorID string, blocked bool) error {
	return r.setFlag(ctx, creatorID, "publishing_blocked", blocked)
}

func (r *ControlRepo) SetCooldown(ctx context.Context, creatorID string, until time.Time) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if strings.TrimSpace(creatorID) == "" {
		return fmt.Errorf("creator id is required")
	}

	value := int64(0)
	if !until.IsZero() {
		value = until.UTC().Unix()
	}

	if err := r.client.HSet(ctx, controlKey(creatorID), "cooldown_until", value).Err(); err != nil {
		return fmt.Errorf("set creator cooldown: %w", err)
	}
	return nil
}

func (r *ControlRepo) setFlag(ctx context.Context, creatorID, field string, enabled bool) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if strings.TrimSpace(creatorID) == "" {
		return fmt.Errorf("creator id is required")
	}

	value := "0"
	if enabled {
		value = "1"
	}

	if err := r.client.HSet(ctx, controlKey(creatorID), field, value).Err(); err != nil {
		return fmt.Errorf("set creator control %s: %w", field, err)
	}
	return nil
}

func controlKey(creatorID string) string {
	return "creator:controls:" + creatorID
}

func parseInt64(raw string) (int64, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	return v, nil
}
