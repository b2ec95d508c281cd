package webserver

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func securedRouter(secret []byte) *gin.Engine {
	g := gin.New()
	g.GET("/whoami", JWTMiddleware(secret), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("uid"))
	})
	return g
}

func TestJWTRoundTrip(t *testing.T) {
	secret := []byte("test-secret")
	token, err := issueJWT("user-123", secret)
	require.NoError(t, err)

	g := securedRouter(secret)
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-123", w.Body.String())
}

func TestJWTRejected(t *testing.T) {
	secret := []byte("test-secret")
	wrongKey, err := issueJWT("user-123", []byte("other-secret"))
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not.a.jwt"},
		{"wrong key", "Bearer " + wrongKey},
	}
	g := securedRouter(secret)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			g.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestRateLimiterPerUser(t *testing.T) {
	limiter := NewRateLimiter(2, time.Minute)

	g := gin.New()
	g.GET("/ping", func(c *gin.Context) {
		c.Set("uid", c.Query("uid"))
	}, RateLimitMiddleware(limiter), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	hit := func(uid string) int {
		req := httptest.NewRequest(http.MethodGet, "/ping?uid="+uid, nil)
		w := httptest.NewRecorder()
		g.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, hit("alice"))
	assert.Equal(t, http.StatusOK, hit("alice"))
	assert.Equal(t, http.StatusTooManyRequests, hit("alice"))

	// Another user keeps an independent budget.
	assert.Equal(t, http.StatusOK, hit("bob"))
}

func TestPasswordPolicy(t *testing.T) {
	cases := []struct {
		pw string
		ok bool
	}{
		{"Str0ng!pass", true},
		{"alllowercase1!", false},
		{"ALLUPPERCASE1!", false},
		{"NoDigitsHere!", false},
		{"NoSymbols123", false},
	}
	for _, tc := range cases {
		msg := passwordPolicy(tc.pw)
		if tc.ok {
			assert.Empty(t, msg, "password %q", tc.pw)
		} else {
			assert.NotEmpty(t, msg, "password %q", tc.pw)
		}
	}
}
