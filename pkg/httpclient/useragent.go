package httpclient

import "net/http"

// UserAgent returns a middleware that sets the User-Agent header on requests
// that do not already carry one.
func UserAgent(ua string) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if req.Header.Get("User-Agent") == "" {
				req = req.Clone(req.Context())
				req.Header.Set("User-Agent", ua)
			}
			return next.RoundTrip(req)
		})
	}
}
