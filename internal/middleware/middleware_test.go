package middleware

import (
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper/internal/config"
)

func testCookies(t *testing.T) *config.Cookies {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return config.NewCookies("localhost", config.Cookie{}, config.NewJWTFromKeys(key, &key.PublicKey, time.Hour))
}

func TestWrapOrder(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(h http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				h.ServeHTTP(w, r)
			})
		}
	}
	h := Wrap(http.NotFoundHandler(), mark("inner"), mark("outer"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"outer", "inner"}, order)
}

func TestAuthAttachesClaims(t *testing.T) {
	cookies := testCookies(t)
	logger, _ := test.NewNullLogger()

	issued := httptest.NewRecorder()
	require.NoError(t, cookies.Issue(issued, config.NewPlayerClaims(5, "bob")))

	var (
		claims *config.PlayerClaims
		ok     bool
	)
	h := Auth(logger, cookies)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok = PlayerClaims(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range issued.Result().Cookies() {
		req.AddCookie(c)
	}
	h.ServeHTTP(httptest.NewRecorder(), req)
	require.True(t, ok)
	assert.Equal(t, "bob", claims.Username)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, ok)
	assert.Empty(t, rec.Result().Cookies())

	bad := httptest.NewRequest(http.MethodGet, "/", nil)
	bad.AddCookie(&http.Cookie{Name: "auth", Value: "x.y"})
	bad.AddCookie(&http.Cookie{Name: "sign", Value: "z"})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, bad)
	assert.False(t, ok)
	assert.NotEmpty(t, rec.Result().Cookies())
}

func TestLoggingRecordsStatus(t *testing.T) {
	logger, hook := test.NewNullLogger()
	h := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/status", nil))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "handled request", entry.Message)
	assert.Equal(t, http.StatusTeapot, entry.Data["status"])
	assert.Equal(t, "/v1/status", entry.Data["uri"])
}

func TestRecover(t *testing.T) {
	logger, hook := test.NewNullLogger()
	h := Recover(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/game", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "handler panicked", hook.LastEntry().Message)
	assert.Equal(t, "boom", hook.LastEntry().Data["panic"])
}

func TestCorsPreflight(t *testing.T) {
	h := Cors([]string{"https://sweeper.example"}, []string{http.MethodGet, http.MethodPost})(http.NotFoundHandler())

	preflight := func(origin, method string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/v1/game", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", method)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	rec := preflight("https://sweeper.example", http.MethodPost)
	assert.Equal(t, "https://sweeper.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	rec = preflight("https://sweeper.example", http.MethodDelete)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	rec = preflight("https://elsewhere.example", http.MethodPost)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	open := Cors(nil, []string{http.MethodGet})(http.NotFoundHandler())
	req := httptest.NewRequest(http.MethodGet, "/v1/status", nil)
	req.Header.Set("Origin", "https://elsewhere.example")
	rec = httptest.NewRecorder()
	open.ServeHTTP(rec, req)
	assert.Equal(t, "https://elsewhere.example", rec.Header().Get("Access-Control-Allow-Origin"))
}
