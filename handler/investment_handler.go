package handler

import (
	"errors"
	"go-finance-api/common"
	"go-finance-api/model"
	"go-finance-api/service"
	"net/http"
)

type InvestmentHandler struct {
	service *service.InvestmentService
}

func NewInvestmentHandler(service *service.InvestmentService) *InvestmentHandler {
	return &InvestmentHandler{service: service}
}

func investmentError(err error) *common.AppError {
	switch {
	case errors.Is(err, service.ErrInvestmentNotFound):
		return common.NotFound("Investment not found", err)
	case errors.Is(err, service.ErrNoChanges):
		return common.BadRequest("No fields to update", err)
	default:
		return common.Internal(err)
	}
}

func isInvestmentType(t string) bool {
	for _, known := range model.InvestmentTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ListInvestments godoc
// @Summary      List investments
// @Tags         investments
// @Produce      json
// @Security     BearerAuth
// @Param        type       query  string  false  "Investment type"
// @Param        month      query  int     false  "Month (0-11)"
// @Param        startDate  query  string  false  "From date (YYYY-MM-DD)"
// @Param        endDate    query  string  false  "To date (YYYY-MM-DD)"
// @Success      200  {object}  map[string][]model.Investment
// @Failure      400  {object}  common.AppError
// @Router       /api/investments [get]
func (h *InvestmentHandler) ListInvestments(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, appErr := currentUserID(r)
	if appErr != nil {
		return appErr
	}
	invType := r.URL.Query().Get("type")
	if invType != "" && !isInvestmentType(invType) {
		return common.BadRequest("Invalid investment type", nil)
	}
	month, appErr := queryMonth(r)
	if appErr != nil {
		return appErr
	}
	start, end, appErr := queryDateRange(r)
	if appErr != nil {
		return appErr
	}

	investments, err := h.service.List(r.Context(), userID, model.InvestmentFilter{
		Type:      invType,
		Month:     month,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		return common.Internal(err)
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{"investments": investments})
	return nil
}

// GetInvestment godoc
// @Summary      Get an investment
// @Tags         investments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Investment ID"
// @Success      200  {object}  map[string]model.Investment
// @Failure      404  {object}  common.AppError
// @Router       /api/investments/{id} [get]
func (h *InvestmentHandler) GetInvestment(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, appErr := currentUserID(r)
	if appErr != nil {
		return appErr
	}
	id, appErr := pathID(r)
	if appErr != nil {
		return appErr
	}

	inv, err := h.service.Get(r.Context(), id, userID)
	if err != nil {
		return investmentError(err)
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{"investment": inv})
	return nil
}

// CreateInvestment godoc
// @Summary      Record an investment
// @Tags         investments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      model.InvestmentRequest  true  "Investment"
// @Success      201   {object}  map[string]interface{}
// @Failure      400   {object}  common.AppError
// @Router       /api/investments [post]
func (h *InvestmentHandler) CreateInvestment(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, appErr := currentUserID(r)
	if appErr != nil {
		return appErr
	}
	var req model.InvestmentRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	inv, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		return investmentError(err)
	}
	common.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"message":    "Investment created successfully",
		"investment": inv,
	})
	return nil
}

// UpdateInvestment godoc
// @Summary      Update an investment
// @Tags         investments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                     true  "Investment ID"
// @Param        body  body      model.InvestmentUpdate  true  "Fields to change"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  common.AppError
// @Failure      404   {object}  common.AppError
// @Router       /api/investments/{id} [put]
func (h *InvestmentHandler) UpdateInvestment(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, appErr := currentUserID(r)
	if appErr != nil {
		return appErr
	}
	id, appErr := pathID(r)
	if appErr != nil {
		return appErr
	}
	var upd model.InvestmentUpdate
	if appErr := common.ValidateAndDecode(r, &upd); appErr != nil {
		return appErr
	}

	inv, err := h.service.Update(r.Context(), id, userID, upd)
	if err != nil {
		return investmentError(err)
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message":    "Investment updated successfully",
		"investment": inv,
	})
	return nil
}

// DeleteInvestment godoc
// @Summary      Delete an investment
// @Tags         investments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Investment ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  common.AppError
// @Router       /api/investments/{id} [delete]
func (h *InvestmentHandler) DeleteInvestment(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, appErr := currentUserID(r)
	if appErr != nil {
		return appErr
	}
	id, appErr := pathID(r)
	if appErr != nil {
		return appErr
	}

	inv, err := h.service.Delete(r.Context(), id, userID)
	if err != nil {
		return investmentError(err)
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message":    "Investment deleted successfully",
		"investment": inv,
	})
	return nil
}

// MonthlyStats godoc
// @Summary      Monthly investment totals by type
// @Tags         investments
// @Produce      json
// @Security     BearerAuth
// @Param        year   path      int  true  "Year"
// @Param        month  path      int  true  "Month (0-11)"
// @Success      200    {object}  model.InvestmentStats
// @Failure      400    {object}  common.AppError
// @Router       /api/investments/stats/{year}/{month} [get]
func (h *InvestmentHandler) MonthlyStats(w http.ResponseWriter, r *http.Request) *common.AppError {
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
	common.WriteJSON(w, http.StatusOK, stats)
	return nil
}
