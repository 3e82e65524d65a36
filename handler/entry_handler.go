package handler

import (
	"errors"
	"go-finance-api/common"
	"go-finance-api/model"
	"go-finance-api/service"
	"net/http"
)

type EntryHandler struct {
	service *service.EntryService
}

func NewEntryHandler(service *service.EntryService) *EntryHandler {
	return &EntryHandler{service: service}
}

func entryError(err error) *common.AppError {
	switch {
	case errors.Is(err, service.ErrEntryNotFound):
		return common.NotFound("Entry not found", err)
	case errors.Is(err, service.ErrEntryExists):
		return common.Conflict("Entry for this date already exists", err)
	case errors.Is(err, service.ErrNoChanges):
		return common.BadRequest("No fields to update", err)
	default:
		return common.Internal(err)
	}
}

// ListEntries godoc
// @Summary      List daily entries
// @Tags         daily-entries
// @Produce      json
// @Security     BearerAuth
// @Param        month      query  int     false  "Month (0-11)"
// @Param        startDate  query  string  false  "From date (YYYY-MM-DD)"
// @Param        endDate    query  string  false  "To date (YYYY-MM-DD)"
// @Success      200  {object}  map[string][]model.DailyEntry
// @Failure      400  {object}  common.AppError
// @Router       /api/daily-entries [get]
func (h *EntryHandler) ListEntries(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, appErr := currentUserID(r)
	if appErr != nil {
		return appErr
	}
	month, appErr := queryMonth(r)
	if appErr != nil {
		return appErr
	}
	start, end, appErr := queryDateRange(r)
	if appErr != nil {
		return appErr
	}

	entries, err := h.service.List(r.Context(), userID, model.EntryFilter{Month: month, StartDate: start, EndDate: end})
	if err != nil {
		return common.Internal(err)
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{"entries": entries})
	return nil
}

// GetEntry godoc
// @Summary      Get a daily entry
// @Tags         daily-entries
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Entry ID"
// @Success      200  {object}  map[string]model.DailyEntry
// @Failure      404  {object}  common.AppError
// @Router       /api/daily-entries/{id} [get]
func (h *EntryHandler) GetEntry(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, appErr := currentUserID(r)
	if appErr != nil {
		return appErr
	}
	id, appErr := pathID(r)
	if appErr != nil {
		return appErr
	}

	entry, err := h.service.Get(r.Context(), id, userID)
	if err != nil {
		return entryError(err)
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{"entry": entry})
	return nil
}

// CreateEntry godoc
// @Summary      Create a daily entry
// @Description  One entry per date. Month defaults to the month of the date.
// @Tags         daily-entries
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      model.DailyEntryRequest  true  "Entry"
// @Success      201   {object}  map[string]interface{}
// @Failure      400   {object}  common.AppError
// @Failure      409   {object}  common.AppError
// @Router       /api/daily-entries [post]
func (h *EntryHandler) CreateEntry(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, appErr := currentUserID(r)
	if appErr != nil {
		return appErr
	}
	var req model.DailyEntryRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	entry, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		return entryError(err)
	}
	common.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Entry created successfully",
		"entry":   entry,
	})
	return nil
}

// UpdateEntry godoc
// @Summary      Update a daily entry
// @Tags         daily-entries
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                     true  "Entry ID"
// @Param        body  body      model.DailyEntryUpdate  true  "Fields to change"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  common.AppError
// @Failure      404   {object}  common.AppError
// @Router       /api/daily-entries/{id} [put]
func (h *EntryHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, appErr := currentUserID(r)
	if appErr != nil {
		return appErr
	}
	id, appErr := pathID(r)
	if appErr != nil {
		return appErr
	}
	var upd model.DailyEntryUpdate
	if appErr := common.ValidateAndDecode(r, &upd); appErr != nil {
		return appErr
	}

	entry, err := h.service.Update(r.Context(), id, userID, upd)
	if err != nil {
		return entryError(err)
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Entry updated successfully",
		"entry":   entry,
	})
	return nil
}

// DeleteEntry godoc
// @Summary      Delete a daily entry
// @Tags         daily-entries
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Entry ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  common.AppError
// @Router       /api/daily-entries/{id} [delete]
func (h *EntryHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, appErr := currentUserID(r)
	if appErr != nil {
		return appErr
	}
	id, appErr := pathID(r)
	if appErr != nil {
		return appErr
	}

	entry, err := h.service.Delete(r.Context(), id, userID)
	if err != nil {
		return entryError(err)
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Entry deleted successfully",
		"entry":   entry,
	})
	return nil
}

// MonthlyStats godoc
// @Summary      Monthly totals of daily entries
// @Tags         daily-entries
// @Produce      json
// @Security     BearerAuth
// @Param        year   path      int  true  "Year"
// @Param        month  path      int  true  "Month (0-11)"
// @Success      200    {object}  map[string]model.EntryStats
// @Failure      400    {object}  common.AppError
// @Router       /api/daily-entries/stats/{year}/{month} [get]
func (h *EntryHandler) MonthlyStats(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, appErr := currentUserID(r)
	if appErr != nil {
		return appErr
	}
	year, month, appErr := yearMonth(r)
	if appErr != nil {
		return appErr
	}

	stats, err := h.service.MonthlyStats(r.Context(), userID, year, month)
	if err != nil {
		return common.Internal(err)
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{"stats": stats})
	return nil
}
