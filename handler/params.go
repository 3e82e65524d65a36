package handler

import (
	"go-finance-api/common"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
)

func pathID(r *http.Request) (int, *common.AppError) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		return 0, common.BadRequest("Invalid id", err)
	}
	return id, nil
}

// yearMonth reads {year} and {month} route variables. Months are zero-based.
func yearMonth(r *http.Request) (int, int, *common.AppError) {
	vars := mux.Vars(r)
	year, err := strconv.Atoi(vars["year"])
	if err != nil || year < 2000 || year > 2100 {
		return 0, 0, common.BadRequest("Invalid year", err)
	}
	month, err := strconv.Atoi(vars["month"])
	if err != nil || month < 0 || month > 11 {
		return 0, 0, common.BadRequest("Invalid month (0-11)", err)
	}
	return year, month, nil
}

func queryMonth(r *http.Request) (*int, *common.AppError) {
	raw := r.URL.Query().Get("month")
	if raw == "" {
		return nil, nil
	}
	month, err := strconv.Atoi(raw)
	if err != nil || month < 0 || month > 11 {
		return nil, common.BadRequest("Invalid month (0-11)", err)
	}
	return &month, nil
}

func queryDate(r *http.Request, key string) (string, *common.AppError) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return "", nil
	}
	if _, err := time.Parse(common.DateLayout, raw); err != nil {
		return "", common.BadRequest("Invalid date format", err)
	}
	return raw, nil
}

func queryDateRange(r *http.Request) (string, string, *common.AppError) {
	start, appErr := queryDate(r, "startDate")
	if appErr != nil {
		return "", "", appErr
	}
	end, appErr := queryDate(r, "endDate")
	if appErr != nil {
		return "", "", appErr
	}
	return start, end, nil
}
