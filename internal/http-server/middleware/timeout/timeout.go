package timeout

import (
	"context"
	"net/http"
	"time"
)

// Timeout caps every request at the given number of minutes. Payment
// steps can legitimately wait on chain receipts, so the cap is generous.
func Timeout(minutes int) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), time.Duration(minutes)*time.Minute)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(fn)
	}
}
