package handler

import (
	"fmt"
	"go-finance-api/common"
	"go-finance-api/logger"
	"net/http"
	"runtime/debug"
)

func ErrorHandlingMiddleware(next func(http.ResponseWriter, *http.Request) *common.AppError) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := next(w, r); err != nil {
			err.Send(w)
		}
	}
}

// RecoveryMiddleware turns a panic in a handler into a 500 response.
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Log.WithField("stack", string(debug.Stack())).
					WithField("path", r.URL.Path).
					Error("Recovered from panic")
				common.Internal(fmt.Errorf("panic: %v", rec)).Send(w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
