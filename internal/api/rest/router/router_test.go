package router

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	restcontext "github.com/dtroode/blog-server/internal/api/rest/context"
	"github.com/dtroode/blog-server/internal/api/rest/handler"
	"github.com/dtroode/blog-server/internal/apierror"
	"github.com/dtroode/blog-server/internal/blog"
	"github.com/dtroode/blog-server/internal/mocks"
	"github.com/dtroode/blog-server/internal/model"
	"github.com/dtroode/blog-server/internal/testutil"
)

type routerDeps struct {
	auth    *mocks.AuthService
	profile *mocks.ProfileService
	tokens  *mocks.TokenManager
	db      *mocks.Pinger
}

func newTestServer(t *testing.T) (*httptest.Server, routerDeps) {
	t.Helper()
	return newTestServerWithOptions(t, nil)
}

func newTestServerWithOptions(t *testing.T, tune func(*Options)) (*httptest.Server, routerDeps) {
	t.Helper()

	deps := routerDeps{
		auth:    mocks.NewAuthService(t),
		profile: mocks.NewProfileService(t),
		tokens:  mocks.NewTokenManager(t),
		db:      mocks.NewPinger(t),
	}
	catalog, err := blog.Load()
	require.NoError(t, err)

	opts := Options{
		Cookie:         handler.CookieOptions{SameSite: http.SameSiteNoneMode, MaxAge: 24 * time.Hour},
		MaxUploadBytes: 1 << 20,
		RequestTimeout: 5 * time.Second,
		AllowedOrigins: []string{"http://localhost:5173"},
	}
	if tune != nil {
		tune(&opts)
	}

	r := New(
		deps.auth,
		deps.profile,
		catalog,
		deps.tokens,
		restcontext.NewManager(),
		map[string]model.Pinger{"postgres": deps.db},
		prometheus.NewRegistry(),
		opts,
		testutil.MakeNoopLogger(),
	)

	srv := httptest.NewServer(r.Register())
	t.Cleanup(srv.Close)
	return srv, deps
}

func do(t *testing.T, method, url, body string, mutate func(*http.Request)) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if mutate != nil {
		mutate(req)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}

func TestRouter_SigninThenSignout(t *testing.T) {
	srv, deps := newTestServer(t)

	deps.auth.On("Signin", mock.Anything, "ann@x.com", "secret123").Return("session-jwt", nil)
	deps.tokens.On("ParseSession", "session-jwt").Return(model.SessionClaims{Name: "Ann", Email: "ann@x.com"}, nil)

	resp := do(t, http.MethodPost, srv.URL+"/api/auth/signin", `{"email":"ann@x.com","password":"secret123"}`, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cookies := resp.Cookies()
	require.Len(t, cookies, 1)

	resp = do(t, http.MethodPost, srv.URL+"/api/auth/signout", "", func(r *http.Request) { r.AddCookie(cookies[0]) })
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"message":"User logged out"}`, readBody(t, resp))
}

func TestRouter_ProtectedRoutesRequireSession(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, route := range []struct{ method, path string }{
		{http.MethodPost, "/api/auth/signout"},
		{http.MethodPost, "/api/auth/profile/upload"},
		{http.MethodDelete, "/api/auth/profile/remove"},
		{http.MethodGet, "/api/auth/profile/photo"},
	} {
		resp := do(t, route.method, srv.URL+route.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, route.path)
		assert.JSONEq(t, `{"error":"Authorization token is missing"}`, readBody(t, resp))
	}
}

func TestRouter_ResetPassword_TokenInPath(t *testing.T) {
	srv, deps := newTestServer(t)

	deps.auth.On("ResetPassword", mock.Anything, "abc.def.ghi", "newsecret1").Return(nil)

	resp := do(t, http.MethodPut, srv.URL+"/api/auth/resetpassword/abc.def.ghi", `{"password":"newsecret1"}`, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"message":"Password reset successfully."}`, readBody(t, resp))
}

func TestRouter_ResetPassword_WithoutToken(t *testing.T) {
	srv, deps := newTestServer(t)

	deps.auth.On("ResetPassword", mock.Anything, "", "newsecret1").Return(apierror.NewErrTokenRequired())

	resp := do(t, http.MethodPut, srv.URL+"/api/auth/resetpassword", `{"password":"newsecret1"}`, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Token is required!"}`, readBody(t, resp))
}

func TestRouter_Blog(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/api/blog", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), `"blogs"`)

	resp = do(t, http.MethodGet, srv.URL+"/api/blog/1", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	srv, deps := newTestServer(t)

	deps.db.On("Ping", mock.Anything).Return(nil)

	resp := do(t, http.MethodGet, srv.URL+"/healthz/liveness", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/healthz/readiness", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/metrics", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), `http_requests_total{method="GET",route="/healthz/liveness",status="200"} 1`)
}

func TestRouter_CORSPreflight(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := do(t, http.MethodOptions, srv.URL+"/api/auth/signin", "", func(r *http.Request) {
		r.Header.Set("Origin", "http://localhost:5173")
		r.Header.Set("Access-Control-Request-Method", http.MethodPost)
	})
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))

	resp = do(t, http.MethodOptions, srv.URL+"/api/auth/signin", "", func(r *http.Request) {
		r.Header.Set("Origin", "http://evil.example")
		r.Header.Set("Access-Control-Request-Method", http.MethodPost)
	})
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

func signinFrom(t *testing.T, srv *httptest.Server, header, addr string) int {
	t.Helper()
	resp := do(t, http.MethodPost, srv.URL+"/api/auth/signin", `{"email":"ann@x.com","password":"secret123"}`, func(r *http.Request) {
		r.Header.Set(header, addr)
	})
	return resp.StatusCode
}

func TestRouter_SigninLimit_IgnoresForwardedHeaders(t *testing.T) {
	for _, header := range []string{"X-Forwarded-For", "X-Real-IP"} {
		t.Run(header, func(t *testing.T) {
			srv, deps := newTestServer(t)
			deps.auth.On("Signin", mock.Anything, "ann@x.com", "secret123").Return("session-jwt", nil).Times(10)

			limited := 0
			for i := 1; i <= 30; i++ {
				if signinFrom(t, srv, header, fmt.Sprintf("10.0.0.%d", i)) == http.StatusTooManyRequests {
					limited++
				}
			}
			assert.Equal(t, 20, limited)
		})
	}
}

func TestRouter_SigninLimit_TrustedProxyHeaders(t *testing.T) {
	srv, deps := newTestServerWithOptions(t, func(o *Options) { o.TrustProxyHeaders = true })
	deps.auth.On("Signin", mock.Anything, "ann@x.com", "secret123").Return("session-jwt", nil).Times(11)

	for i := 0; i < 10; i++ {
		require.Equal(t, http.StatusOK, signinFrom(t, srv, "X-Forwarded-For", "10.0.0.1"))
	}
	assert.Equal(t, http.StatusTooManyRequests, signinFrom(t, srv, "X-Forwarded-For", "10.0.0.1"))
	assert.Equal(t, http.StatusOK, signinFrom(t, srv, "X-Forwarded-For", "10.0.0.2"))
}
