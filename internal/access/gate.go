// Package access resolves actor roles and enforces the maintenance gate.
package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/ismayilasim8-dot/Football-empire-bot/internal/models"
	"github.com/ismayilasim8-dot/Football-empire-bot/internal/storage"
)

var (
	// ErrUnauthorized is returned when the actor's role is below the level an
	// action requires.
	ErrUnauthorized = errors.New("not authorized")

	// ErrUnavailable is returned to plain actors while maintenance is on.
	ErrUnavailable = errors.New("temporarily unavailable")

	// ErrOwnerPermanent is returned when an action would strip the owner's
	// privilege.
	ErrOwnerPermanent = errors.New("owner privilege is permanent")
)

// Role is what an actor is allowed to do.
type Role int

const (
	RolePlain Role = iota
	RoleAdmin
	RoleOwner
)

func (r Role) String() string {
	switch r {
	case RoleOwner:
		return "owner"
	case RoleAdmin:
		return "admin"
	default:
		return "plain"
	}
}

// Privileged reports whether the role bypasses the maintenance gate.
func (r Role) Privileged() bool {
	return r >= RoleAdmin
}

// Level is the minimum role an action requires.
type Level int

const (
	LevelPublic Level = iota
	LevelAdmin
	LevelOwner
)

// Store is the persistence the gate reads and mutates.
type Store interface {
	storage.AdminStore
	storage.SettingsStore
}

// Gate decides who may do what.
type Gate struct {
	owner models.ActorID
	store Store
}

// NewGate creates a gate for the configured owner identity.
func NewGate(owner models.ActorID, store Store) *Gate {
	return &Gate{owner: owner, store: store}
}

// Owner returns the configured owner identity.
func (g *Gate) Owner() models.ActorID {
	return g.owner
}

// RoleOf resolves the role of an actor.
func (g *Gate) RoleOf(ctx context.Context, actor models.ActorID) (Role, error) {
	if actor == g.owner {
		return RoleOwner, nil
	}
	ok, err := g.store.IsAdmin(ctx, actor)
	if err != nil {
		return RolePlain, fmt.Errorf("resolve role: %w", err)
	}
	if ok {
		return RoleAdmin, nil
	}
	return RolePlain, nil
}

// MaintenanceActive reports whether the maintenance flag is ON.
// A missing setting counts as OFF.
func (g *Gate) MaintenanceActive(ctx context.Context) (bool, error) {
	value, err := g.store.GetSetting(ctx, storage.MaintenanceKey)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read maintenance flag: %w", err)
	}
	return value == storage.MaintenanceOn, nil
}

// Check resolves the actor's role and verifies it against level.
// Plain actors get ErrUnavailable during maintenance whatever the level,
// so they cannot tell which actions exist.
func (g *Gate) Check(ctx context.Context, actor models.ActorID, level Level) (Role, error) {
	role, err := g.RoleOf(ctx, actor)
	if err != nil {
		return RolePlain, err
	}

	if !role.Privileged() {
		on, err := g.MaintenanceActive(ctx)
		if err != nil {
			return role, err
		}
		if on {
			return role, ErrUnavailable
		}
	}

	if Level(role) < level {
		return role, ErrUnauthorized
	}
	return role, nil
}

// SetMaintenance turns the maintenance flag on or off.
func (g *Gate) SetMaintenance(ctx context.Context, actor models.ActorID, on bool) error {
	if actor != g.owner {
		return ErrUnauthorized
	}
	value := storage.MaintenanceOff
	if on {
		value = storage.MaintenanceOn
	}
	if err := g.store.SetSetting(ctx, storage.MaintenanceKey, value); err != nil {
		return fmt.Errorf("write maintenance flag: %w", err)
	}
	return nil
}

// ToggleMaintenance flips the maintenance flag and returns the new state.
func (g *Gate) ToggleMaintenance(ctx context.Context, actor models.ActorID) (bool, error) {
	if actor != g.owner {
		return false, ErrUnauthorized
	}
	on, err := g.MaintenanceActive(ctx)
	if err != nil {
		return false, err
	}
	if err := g.SetMaintenance(ctx, actor, !on); err != nil {
		return on, err
	}
	return !on, nil
}

// AddAdmin grants administrator privilege to target.
// Returns storage.ErrAlreadyExists if target is already privileged.
func (g *Gate) AddAdmin(ctx context.Context, actor, target models.ActorID) error {
	if actor != g.owner {
		return ErrUnauthorized
	}
	if target == g.owner {
		return storage.ErrAlreadyExists
	}
	return g.store.AddAdmin(ctx, target)
}

// RemoveAdmin revokes administrator privilege from target.
func (g *Gate) RemoveAdmin(ctx context.Context, actor, target models.ActorID) error {
	if actor != g.owner {
		return ErrUnauthorized
	}
	if target == g.owner {
		return ErrOwnerPermanent
	}
	return g.store.RemoveAdmin(ctx, target)
}

// ListAdmins returns the administrator set.
func (g *Gate) ListAdmins(ctx context.Context, actor models.ActorID) ([]models.ActorID, error) {
	if actor != g.owner {
		return nil, ErrUnauthorized
	}
	return g.store.ListAdmins(ctx)
}
