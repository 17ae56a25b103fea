package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
)

func Signin() func(http.Handler) http.Handler {
	return limitByIP(10, 5*time.Minute)
}

func ForgotPassword() func(http.Handler) http.Handler {
	return limitByIP(5, 15*time.Minute)
}

func ResetPassword() func(http.Handler) http.Handler {
	return limitByIP(10, 15*time.Minute)
}

func limitByIP(limit int, window time.Duration) func(http.Handler) http.Handler {
	return httprate.LimitByIP(limit, window)
}
