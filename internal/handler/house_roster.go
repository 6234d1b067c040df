package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/edubase/house-enrolment/internal/enrol"
	"github.com/edubase/house-enrolment/internal/model"
	"github.com/edubase/house-enrolment/internal/repository"
)

// housePart is the house summary embedded in roster responses.
type housePart struct {
	ID       uint64 `json:"id"`
	CourseID uint64 `json:"course_id"`
	Name     string `json:"name"`
}

// Index handles GET /v1/houses/:id/users. It returns the house together
// with every user enrolled in it and the roles they hold.
func (h *EnrolmentHandler) Index(c echo.Context) error {
	houseID, err := parseID(c, "id")
	if err != nil {
		return respond(c, enrol.NotFound("This class does not exist"))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	house, err := h.Houses.GetByID(ctx, houseID)
	if err != nil {
		if errors.Is(err, repository.ErrHouseNotFound) {
			return respond(c, enrol.NotFound("This class does not exist"))
		}
		return respond(c, enrol.StoreFailure("Roster could not be loaded."))
	}

	members, err := h.Enrolments.RosterByHouse(ctx, houseID)
	if err != nil {
		return respond(c, enrol.StoreFailure("Roster could not be loaded."))
	}
	if members == nil {
		members = []model.HouseMember{}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"house":          housePart{ID: house.ID, CourseID: house.CourseID, Name: house.Name},
		"enrolled_users": members,
	})
}

// Show handles GET /v1/houses/:id/enrolled. It returns only the enrolled
// users for a house, without the house envelope.
func (h *EnrolmentHandler) Show(c echo.Context) error {
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
		return respond(c, enrol.StoreFailure("Roster could not be loaded."))
	}

	members, err := h.Enrolments.RosterByHouse(ctx, houseID)
	if err != nil {
		return respond(c, enrol.StoreFailure("Roster could not be loaded."))
	}
	if members == nil {
		members = []model.HouseMember{}
	}
	return c.JSON(http.StatusOK, members)
}
