package creatorops

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	pgrepo "github.com/joaoFerreiragHub/API-finhub-sub002/internal/repo/postgres"
	redrepo "github.com/joaoFerreiragHub/API-finhub-sub002/internal/repo/redis"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
)

const (
	ControlCreationBlocked   = "creation_blocked"
	ControlPublishingBlocked = "publishing_blocked"
	ControlCooldown          = "cooldown"

	defaultCooldown = 72 * time.Hour
)

type ControlStore interface {
	Get(ctx context.Context, creatorID string) (redrepo.ControlRecord, error)
	SetCreationBlocked(ctx context.Context, creatorID string, blocked bool) error
	SetPublishingBlocked(ctx context.Context, creatorID string, blocked bool) error
	SetCooldown(ctx context.Context, creatorID string, until time.Time) error
}

type ControlHistory interface {
	Append(ctx context.Context, rec pgrepo.ControlEventRecord) error
}

type CreatorStore interface {
	FilterCreatorIDs(ctx context.Context, ids []string) (map[string]struct{}, error)
}

type State struct {
	CreationBlocked   bool       `json:"creation_blocked"`
	PublishingBlocked bool       `json:"publishing_blocked"`
	CooldownUntil     *time.Time `json:"cooldown_until,omitempty"`
}

// Service applies account-level operational controls on creators and
// records every change in the control history the trust scorer reads.
type Service struct {
	controls ControlStore
	history  ControlHistory
	creators CreatorStore
	now      func() time.Time
}

func NewService(controls ControlStore, history ControlHistory, creators CreatorStore) *Service {
	return &Service{
		controls: controls,
		history:  history,
		creators: creators,
		now:      time.Now,
	}
}

func (s *Service) GetState(ctx context.Context, creatorID string) (State, error) {
	if err := s.checkCreator(ctx, creatorID); err != nil {
		return State{}, err
	}

	record, err := s.controls.Get(ctx, creatorID)
	if err != nil {
		return State{}, err
	}
	return s.mapRecord(record), nil
}

// ApplyControl flips one control flag. A cooldown is set for a fixed
// window; disabling it clears the window immediately.
func (s *Service) ApplyControl(ctx context.Context, actorID, creatorID, control string, enabled bool) (State, error) {
	if strings.TrimSpace(actorID) == "" {
		return State{}, fmt.Errorf("%w: actor id is required", ErrValidation)
	}
	if err := s.checkCreator(ctx, creatorID); err != nil {
		return State{}, err
	}

	switch control {
	case ControlCreationBlocked:
		if err := s.controls.SetCreationBlocked(ctx, creatorID, enabled); err != nil {
			return State{}, err
		}
	case ControlPublishingBlocked:
		if err := s.controls.SetPublishingBlocked(ctx, creatorID, enabled); err != nil {
			return State{}, err
		}
	case ControlCooldown:
		until := time.Time{}
		if enabled {
			until = s.now().UTC().Add(defaultCooldown)
		}
		if err := s.controls.SetCooldown(ctx, creatorID, until); err != nil {
			return State{}, err
		}
	default:
		return State{}, fmt.Errorf("%w: unknown control %q", ErrValidation, control)
	}

	if s.history != nil {
		if err := s.history.Append(ctx, pgrepo.ControlEventRecord{
			CreatorID: creatorID,
			ActorID:   actorID,
			Control:   control,
			Enabled:   enabled,
		}); err != nil {
			return State{}, fmt.Errorf("append control event: %w", err)
		}
	}

	record, err := s.controls.Get(ctx, creatorID)
	if err != nil {
		return State{}, err
	}
	return s.mapRecord(record), nil
}

func (s *Service) checkCreator(ctx context.Context, creatorID string) error {
	if strings.TrimSpace(creatorID) == "" {
		return fmt.Errorf("%w: creator id is required", ErrValidation)
	}
	if s.controls == nil || s.creators == nil {
		return fmt.Errorf("creator ops dependencies are not configured")
	}

	known, err := s.creators.FilterCreatorIDs(ctx, []string{creatorID})
	if err != nil {
		return fmt.Errorf("filter creators: %w", err)
	}
	if _, ok := known[creatorID]; !ok {
		return fmt.Errorf("%w: creator %s", ErrNotFound, creatorID)
	}
	return nil
}

func (s *Service) mapRecord(record redrepo.ControlRecord) State {
	state := State{
		CreationBlocked:   record.CreationBlocked,
		PublishingBlocked: record.PublishingBlocked,
	}
	if record.CooldownUntil > s.now().UTC().Unix() {
		until := time.Unix(record.CooldownUntil, 0).UTC()
		state.CooldownUntil = &until
	}
	return state
}
