package handler // handler defines http handlers

import (
	"context"
	"fmt"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/edubase/house-enrolment/internal/authz"
	"github.com/edubase/house-enrolment/internal/model"
	"github.com/edubase/house-enrolment/internal/queue"
)

// The handler depends on narrow interfaces rather than the concrete
// repositories so the enrolment flows can be exercised against in-memory
// fakes. The repository package provides the production implementations.

// HouseFinder resolves houses by id.
type HouseFinder interface {
	GetByID(ctx context.Context, id uint64) (model.House, error)
}

// UserFinder resolves users by id.
type UserFinder interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// RoleFinder resolves roles by client-supplied name.
type RoleFinder interface {
	FindByName(ctx context.Context, name string) (model.Role, error)
}

// MastercodeLedger consumes one place from a mastercode and returns the
// purchaser attribution. Implementations must apply the decrement and the
// exhaustion invalidation atomically.
type MastercodeLedger interface {
	Redeem(ctx context.Context, code string) (model.Redemption, error)
}

// EnrolmentStore is the authoritative (user, house, role) membership store.
type EnrolmentStore interface {
	Upsert(ctx context.Context, userID, houseID, roleID uint64, att model.Attribution) (model.Enrolment, error)
	DetachRole(ctx context.Context, userID, houseID, roleID uint64) error
	DetachAll(ctx context.Context, userID, houseID uint64) error
	RosterByHouse(ctx context.Context, houseID uint64) ([]model.HouseMember, error)
}

// EnrolmentHandler carries the enrolment workflow: dispatching between the
// self-enrol and admin-enrol paths, privilege checks, roster reads and
// un-enrolment. Publish and cache eviction hooks are injectable so tests
// run without a broker or Redis.
type EnrolmentHandler struct {
	Houses     HouseFinder
	Users      UserFinder
	Roles      RoleFinder
	Ledger     MastercodeLedger
	Enrolments EnrolmentStore
	Authz      *authz.Engine

	// Publish sends an enrolment.confirmed event; failures are logged by
	// the publisher and ignored here. May be nil in tests.
	Publish func(ctx context.Context, ev queue.EnrolmentConfirmedEvent) error

	// Cache is used to evict roster entries after mutations; nil disables
	// eviction. CachePrefix mirrors the response cache configuration.
	Cache       *redis.Client
	CachePrefix string
}

// NewEnrolmentHandler constructs an EnrolmentHandler and panics when a
// required dependency is missing.
func NewEnrolmentHandler(houses HouseFinder, users UserFinder, roles RoleFinder, ledger MastercodeLedger, enrolments EnrolmentStore, engine *authz.Engine) *EnrolmentHandler {
	if houses == nil || users == nil || roles == nil || ledger == nil || enrolments == nil || engine == nil {
		panic("nil dependency passed to NewEnrolmentHandler")
	}
	return &EnrolmentHandler{
		Houses:     houses,
		Users:      users,
		Roles:      roles,
		Ledger:     ledger,
		Enrolments: enrolments,
		Authz:      engine,
	}
}

// parseID reads a positive numeric path parameter.
func parseID(c echo.Context, name string) (uint64, error) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return n, nil
}

// rosterPaths lists the concrete request paths whose cached responses
// become stale when a house's enrolments change.
func rosterPaths(houseID uint64) []string {
	return []string{
		fmt.Sprintf("/v1/houses/%d/users", houseID),
		fmt.Sprintf("/v1/houses/%d/enrolled", houseID),
	}
}
