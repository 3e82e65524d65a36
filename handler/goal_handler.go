package handler

import (
	"errors"
	"go-finance-api/common"
	"go-finance-api/model"
	"go-finance-api/service"
	"net/http"
	"strconv"
)

type GoalHandler struct {
	service *service.GoalService
}

func NewGoalHandler(service *service.GoalService) *GoalHandler {
	return &GoalHandler{service: service}
}

func goalError(err error) *common.AppError {
	switch {
	case errors.Is(err, service.ErrGoalNotFound):
		return common.NotFound("Goals not found", err)
	case errors.Is(err, service.ErrNoChanges):
		return common.BadRequest("No fields to update", err)
	default:
		return common.Internal(err)
	}
}

// ListGoals godoc
// @Summary      List monthly goals
// @Tags         goals
// @Produce      json
// @Security     BearerAuth
// @Param        year  query     int  false  "Year"
// @Success      200   {object}  map[string][]model.MonthlyGoal
// @Router       /api/goals [get]
func (h *GoalHandler) ListGoals(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, appErr := currentUserID(r)
	if appErr != nil {
		return appErr
	}
	var year *int
	if raw := r.URL.Query().Get("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil {
			return common.BadRequest("Invalid year", err)
		}
		year = &y
	}

	goals, err := h.service.List(r.Context(), userID, year)
	if err != nil {
		return common.Internal(err)
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{"goals": goals})
	return nil
}

// GetMonthGoals godoc
// @Summary      Goals for one month
// @Description  Creates the month with default goals on first access.
// @Tags         goals
// @Produce      json
// @Security     BearerAuth
// @Param        year   path      int  true  "Year"
// @Param        month  path      int  true  "Month (0-11)"
// @Success      200    {object}  map[string]model.MonthlyGoal
// @Failure      400    {object}  common.AppError
// @Router       /api/goals/{year}/{month} [get]
func (h *GoalHandler) GetMonthGoals(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, appErr := currentUserID(r)
	if appErr != nil {
		return appErr
	}
	year, month, appErr := yearMonth(r)
	if appErr != nil {
		return appErr
	}

	goal, err := h.service.ForMonth(r.Context(), userID, year, month)
	if err != nil {
		return goalError(err)
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{"goals": goal})
	return nil
}

// SaveGoals godoc
// @Summary      Create or replace a month's goals
// @Tags         goals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      model.GoalRequest  true  "Goals"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  common.AppError
// @Router       /api/goals [post]
func (h *GoalHandler) SaveGoals(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, appErr := currentUserID(r)
	if appErr != nil {
		return appErr
	}
	var req model.GoalRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	goal, err := h.service.Save(r.Context(), userID, req)
	if err != nil {
		return goalError(err)
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Goals saved successfully",
		"goals":   goal,
	})
	return nil
}

// UpdateGoals godoc
// @Summary      Update goals by id
// @Tags         goals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int               true  "Goal ID"
// @Param        body  body      model.GoalUpdate  true  "Fields to change"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  common.AppError
// @Failure      404   {object}  common.AppError
// @Router       /api/goals/{id} [put]
func (h *GoalHandler) UpdateGoals(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, appErr := currentUserID(r)
	if appErr != nil {
		return appErr
	}
	id, appErr := pathID(r)
	if appErr != nil {
		return appErr
	}
	var upd model.GoalUpdate
	if appErr := common.ValidateAndDecode(r, &upd); appErr != nil {
		return appErr
	}

	goal, err := h.service.Update(r.Context(), id, userID, upd)
	if err != nil {
		return goalError(err)
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Goals updated successfully",
		"goals":   goal,
	})
	return nil
}

// DeleteGoals godoc
// @Summary      Delete goals by id
// @Tags         goals
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Goal ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  common.AppError
// @Router       /api/goals/{id} [delete]
func (h *GoalHandler) DeleteGoals(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, appErr := currentUserID(r)
	if appErr != nil {
		return appErr
	}
	id, appErr := pathID(r)
	if appErr != nil {
		return appErr
	}

	goal, err := h.service.Delete(r.Context(), id, userID)
	if err != nil {
		return goalError(err)
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Goals deleted successfully",
		"goals":   goal,
	})
	return nil
}
