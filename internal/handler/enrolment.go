package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/edubase/house-enrolment/internal/authz"
	"github.com/edubase/house-enrolment/internal/enrol"
	"github.com/edubase/house-enrolment/internal/middleware"
	"github.com/edubase/house-enrolment/internal/model"
	"github.com/edubase/house-enrolment/internal/queue"
	"github.com/edubase/house-enrolment/internal/repository"
)

// enrolmentReq is the body of POST /v1/houses/:id/enrolments. A non-empty
// mastercode selects the self-enrol path and the other fields are ignored;
// otherwise role (and optionally user_id) drive the admin path.
type enrolmentReq struct {
	Mastercode string `json:"mastercode"`
	UserID     uint64 `json:"user_id"`
	Role       string `json:"role"`
}

// unenrolReq is the body of PUT /v1/houses/:id/users/:user_id.
type unenrolReq struct {
	Role string `json:"role"`
}

// Store handles POST /v1/houses/:id/enrolments. It dispatches on the
// presence of a mastercode: students redeeming a purchased code enrol
// themselves, anyone else needs sufficient privilege in the house. Every
// outcome is a structured {message, code} result; nothing bubbles out as
// an unhandled fault.
func (h *EnrolmentHandler) Store(c echo.Context) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return echo.ErrUnauthorized
	}
	houseID, err := parseID(c, "id")
	if err != nil {
		return respond(c, enrol.NotFound("This class does not exist"))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Houses.GetByID(ctx, houseID); err != nil {
		if errors.Is(err, repository.ErrHouseNotFound) {
			return respond(c, enrol.NotFound("This class does not exist"))
		}
		return respond(c, enrol.StoreFailure("Enrolment could not be processed."))
	}

	var req enrolmentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	if req.Mastercode != "" {
		return h.selfEnrol(ctx, c, p.ID, houseID, req.Mastercode)
	}
	return h.adminEnrol(ctx, c, p, houseID, req)
}

// selfEnrol redeems the mastercode and enrols the requesting user at the
// fixed student role, attributed to whoever purchased the code. The ledger
// carries the concurrency guarantee; by the time Redeem returns, the place
// is irrevocably consumed.
func (h *EnrolmentHandler) selfEnrol(ctx context.Context, c echo.Context, userID, houseID uint64, code string) error {
	red, err := h.Ledger.Redeem(ctx, code)
	switch {
	case errors.Is(err, repository.ErrCodeNotFound):
		return respond(c, enrol.NotFound("Your mastercode is wrong."))
	case errors.Is(err, repository.ErrCodeExhausted):
		return respond(c, enrol.NotFound("There is no more places left for this mastercode."))
	case err != nil:
		return respond(c, enrol.StoreFailure("Enrolment could not be processed."))
	}

	att := model.Attribution{PaymentEmail: red.PaymentEmail, PurchaserID: red.PurchaserID}
	e, err := h.Enrolments.Upsert(ctx, userID, houseID, model.SelfEnrolRoleID, att)
	if err != nil {
		// Place already consumed; no retry here (at-most-once).
		log.Printf("enrolment: upsert after redeem failed user=%d house=%d: %v", userID, houseID, err)
		return respond(c, enrol.StoreFailure("Enrolment could not be saved."))
	}

	h.confirmed(ctx, e, "self")
	return respond(c, enrol.Created("Your mastercode has been accepted and your enrolment is successful."))
}

// adminEnrol enrols a target user (defaulting to the acting user) at a
// named role, guarded by the role hierarchy: nobody grants a role more
// privileged than the best one they hold in the house, admins excepted.
func (h *EnrolmentHandler) adminEnrol(ctx context.Context, c echo.Context, p authz.Principal, houseID uint64, req enrolmentReq) error {
	role, err := h.Roles.FindByName(ctx, req.Role)
	if err != nil {
		if errors.Is(err, repository.ErrRoleNotFound) {
			return respond(c, enrol.NotFound("Role does not exist."))
		}
		return respond(c, enrol.StoreFailure("Enrolment could not be processed."))
	}

	targetID := req.UserID
	if targetID == 0 {
		targetID = p.ID
	}
	if _, err := h.Users.GetByID(ctx, targetID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return respond(c, enrol.NotFound("User does not exist."))
		}
		return respond(c, enrol.StoreFailure("Enrolment could not be processed."))
	}

	allowed, err := h.Authz.CanAssign(ctx, p, houseID, role.ID)
	if err != nil {
		return respond(c, enrol.StoreFailure("Enrolment could not be processed."))
	}
	if !allowed {
		return respond(c, enrol.Forbidden("No authorization to enrol"))
	}

	att := model.Attribution{PaymentEmail: p.Email, PurchaserID: p.ID}
	e, err := h.Enrolments.Upsert(ctx, targetID, houseID, role.ID, att)
	if err != nil {
		return respond(c, enrol.StoreFailure("Enrolment could not be saved."))
	}

	h.confirmed(ctx, e, "admin")
	return respond(c, enrol.Created("Enrolment successful."))
}

// Update handles PUT /v1/houses/:id/users/:user_id. It removes the target
// user's enrolment at the named role, behind the same privilege check as
// enrolling at that role.
func (h *EnrolmentHandler) Update(c echo.Context) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return echo.ErrUnauthorized
	}
	houseID, err := parseID(c, "id")
	if err != nil {
		return respond(c, enrol.NotFound("This class does not exist"))
	}
	targetID, err := parseID(c, "user_id")
	if err != nil {
		return respond(c, enrol.NotFound("User does not exist."))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	var req unenrolReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	role, err := h.Roles.FindByName(ctx, req.Role)
	if err != nil {
		if errors.Is(err, repository.ErrRoleNotFound) {
			return respond(c, enrol.NotFound("Role does not exist."))
		}
		return respond(c, enrol.StoreFailure("Unenrolment cannot be done."))
	}

	allowed, err := h.Authz.CanAssign(ctx, p, houseID, role.ID)
	if err != nil {
		return respond(c, enrol.StoreFailure("Unenrolment cannot be done."))
	}
	if !allowed {
		return respond(c, enrol.Forbidden("No authorization to enrol"))
	}

	if err := h.Enrolments.DetachRole(ctx, targetID, houseID, role.ID); err != nil {
		if errors.Is(err, repository.ErrNotEnrolled) {
			return respond(c, enrol.NotFound("User is not enrolled in this class."))
		}
		log.Printf("enrolment: detach role failed user=%d house=%d role=%d: %v", targetID, houseID, role.ID, err)
		return respond(c, enrol.StoreFailure("Unenrolment cannot be done."))
	}

	h.evictRoster(ctx, houseID)
	return respond(c, enrol.Created("Successfully unenrolled"))
}

// Destroy handles DELETE /v1/houses/:id/users/:user_id. It removes the
// target user from the house across all roles. The role query parameter
// names the most privileged role being removed and is what the privilege
// check runs against.
func (h *EnrolmentHandler) Destroy(c echo.Context) error {
	p, ok := middleware.Principal(c)
	if !ok {
		return echo.ErrUnauthorized
	}
	houseID, err := parseID(c, "id")
	if err != nil {
		return respond(c, enrol.NotFound("This class does not exist"))
	}
	targetID, err := parseID(c, "user_id")
	if err != nil {
		return respond(c, enrol.NotFound("User does not exist."))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	role, err := h.Roles.FindByName(ctx, c.QueryParam("role"))
	if err != nil {
		if errors.Is(err, repository.ErrRoleNotFound) {
			return respond(c, enrol.NotFound("Role does not exist."))
		}
		return respond(c, enrol.StoreFailure("Unable to remove user from class"))
	}

	allowed, err := h.Authz.CanAssign(ctx, p, houseID, role.ID)
	if err != nil {
		return respond(c, enrol.StoreFailure("Unable to remove user from class"))
	}
	if !allowed {
		return respond(c, enrol.Forbidden("No authorization to enrol"))
	}

	if err := h.Enrolments.DetachAll(ctx, targetID, houseID); err != nil {
		if errors.Is(err, repository.ErrNotEnrolled) {
			return respond(c, enrol.NotFound("User is not enrolled in this class."))
		}
		log.Printf("enrolment: detach all failed user=%d house=%d: %v", targetID, houseID, err)
		return respond(c, enrol.StoreFailure("Unable to remove user from class"))
	}

	h.evictRoster(ctx, houseID)
	return respond(c, enrol.Created("User removed successfully"))
}

// confirmed publishes the enrolment.confirmed event and evicts the house's
// cached rosters. Neither can fail the request: the row is committed.
func (h *EnrolmentHandler) confirmed(ctx context.Context, e model.Enrolment, path string) {
	if h.Publish != nil {
		_ = h.Publish(ctx, queue.EnrolmentConfirmedEvent{
			EnrolmentID:  e.ID,
			UserID:       e.UserID,
			HouseID:      e.HouseID,
			RoleID:       e.RoleID,
			Path:         path,
			PurchaserID:  e.PurchaserID,
			PaymentEmail: e.PaymentEmail,
			StartDate:    e.StartDate.UTC().Format(time.RFC3339),
			ExpiryDate:   e.ExpiryDate.UTC().Format(time.RFC3339),
			ConfirmedAt:  time.Now().UTC().Format(time.RFC3339),
		})
	}
	h.evictRoster(ctx, e.HouseID)
}

// evictRoster drops the cached roster responses for a house.
func (h *EnrolmentHandler) evictRoster(ctx context.Context, houseID uint64) {
	middleware.InvalidatePaths(ctx, h.Cache, h.CachePrefix, rosterPaths(houseID)...)
}

// respond writes a domain result, translating its code to the transport
// status while preserving the historical value in the body.
func respond(c echo.Context, r enrol.Result) error {
	return c.JSON(r.Code.HTTPStatus(), r)
}
