package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shopcart-be/internal/auth"
	"shopcart-be/internal/metrics"
	"shopcart-be/internal/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	var env response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestRequireAuth(t *testing.T) {
	issuer := auth.NewTokenIssuer("test-secret", time.Hour)
	userID := uuid.New()

	newRouter := func() *gin.Engine {
		r := gin.New()
		r.GET("/private", RequireAuth(issuer), func(c *gin.Context) {
			id, ok := IdentityFrom(c)
			require.True(t, ok)
			c.String(http.StatusOK, id.UserID.String())
		})
		return r
	}

	t.Run("ValidToken", func(t *testing.T) {
		token, err := issuer.Issue(userID.String())
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		newRouter().ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, userID.String(), w.Body.String())
	})

	t.Run("MissingHeader", func(t *testing.T) {
		w := httptest.NewRecorder()
		newRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		env := decodeEnvelope(t, w)
		assert.Equal(t, response.StatusFailure, env.Status)
		assert.Equal(t, "unauthorized", env.Error.Code)
	})

	t.Run("WrongScheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.Header.Set("Authorization", "Basic abc")
		w := httptest.NewRecorder()
		newRouter().ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("ForeignSignature", func(t *testing.T) {
		token, err := auth.NewTokenIssuer("other-secret", time.Hour).Issue(userID.String())
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		newRouter().ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("SubjectNotUUID", func(t *testing.T) {
		token, err := issuer.Issue("42")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		newRouter().ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid user id format", decodeEnvelope(t, w).Message)
	})
}

func TestIdentityFrom_Missing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, ok := IdentityFrom(c)
	assert.False(t, ok)
}

func TestRateLimit(t *testing.T) {
	t.Run("StrictTierBlocksAfterBurst", func(t *testing.T) {
		l := NewLimiter()
		r := gin.New()
		r.POST("/logIn", l.RateLimit(TierStrict), func(c *gin.Context) { c.Status(http.StatusOK) })

		codes := make([]int, 0, burstStrict+1)
		for i := 0; i < burstStrict+1; i++ {
			req := httptest.NewRequest(http.MethodPost, "/logIn", nil)
			req.RemoteAddr = "10.0.0.1:1234"
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			codes = append(codes, w.Code)
		}

		for _, code := range codes[:burstStrict] {
			assert.Equal(t, http.StatusOK, code)
		}
		assert.Equal(t, http.StatusTooManyRequests, codes[burstStrict])
	})

	t.Run("SeparateBucketsPerAddress", func(t *testing.T) {
		l := NewLimiter()
		r := gin.New()
		r.POST("/logIn", l.RateLimit(TierStrict), func(c *gin.Context) { c.Status(http.StatusOK) })

		for i := 0; i < burstStrict; i++ {
			req := httptest.NewRequest(http.MethodPost, "/logIn", nil)
			req.RemoteAddr = "10.0.0.1:1234"
			r.ServeHTTP(httptest.NewRecorder(), req)
		}

		req := httptest.NewRequest(http.MethodPost, "/logIn", nil)
		req.RemoteAddr = "10.0.0.2:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("StrictTierIgnoresClientHeaders", func(t *testing.T) {
		l := NewLimiter()
		r := gin.New()
		require.NoError(t, r.SetTrustedProxies(nil))
		r.POST("/logIn", l.RateLimit(TierStrict), func(c *gin.Context) { c.Status(http.StatusOK) })

		allowed := 0
		for i := 0; i < 50; i++ {
			req := httptest.NewRequest(http.MethodPost, "/logIn", nil)
			req.RemoteAddr = "1.2.3.4:5678"
			req.Header.Set("X-Device-ID", fmt.Sprintf("device-%d", i))
			req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i))
			req.Header.Set("X-Client-Type", "frontend-heavy")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code == http.StatusOK {
				allowed++
			} else {
				assert.Equal(t, http.StatusTooManyRequests, w.Code)
			}
		}

		assert.Equal(t, burstStrict, allowed)
		assert.Equal(t, 1, l.size())
	})

	t.Run("AnonymousCannotUpgradeToFrontend", func(t *testing.T) {
		l := NewLimiter()
		r := gin.New()
		r.GET("/product/all", l.RateLimit(TierGeneral), func(c *gin.Context) { c.Status(http.StatusOK) })

		allowed := 0
		for i := 0; i < burstFrontend; i++ {
			req := httptest.NewRequest(http.MethodGet, "/product/all", nil)
			req.RemoteAddr = "10.0.0.3:1234"
			req.Header.Set("X-Client-Type", "frontend-heavy")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code == http.StatusOK {
				allowed++
			}
		}
		assert.Equal(t, burstGeneral, allowed)
	})

	t.Run("AuthenticatedFrontendUpgrade", func(t *testing.T) {
		l := NewLimiter()
		userID := uuid.New()
		r := gin.New()
		r.GET("/myCart",
			func(c *gin.Context) { c.Set(IdentityKey, Identity{UserID: userID}) },
			l.RateLimit(TierGeneral),
			func(c *gin.Context) { c.Status(http.StatusOK) },
		)

		allowed := 0
		for i := 0; i < burstFrontend; i++ {
			req := httptest.NewRequest(http.MethodGet, "/myCart", nil)
			req.Header.Set("X-Client-Type", "frontend-heavy")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code == http.StatusOK {
				allowed++
			}
		}
		assert.Equal(t, burstFrontend, allowed)
	})

	t.Run("CleanupDropsIdleVisitors", func(t *testing.T) {
		l := NewLimiter()
		now := time.Now()
		l.now = func() time.Time { return now }

		l.getVisitor("ip:1:general", limitGeneral, burstGeneral)
		l.getVisitor("ip:2:general", limitGeneral, burstGeneral)
		require.Equal(t, 2, l.size())

		now = now.Add(visitorIdle + time.Second)
		l.getVisitor("ip:2:general", limitGeneral, burstGeneral)
		l.Cleanup()
		assert.Equal(t, 1, l.size())
	})

	t.Run("RunStopsOnCancel", func(t *testing.T) {
		l := NewLimiter()
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			l.Run(ctx)
			close(done)
		}()
		cancel()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("Run did not return after cancel")
		}
	})
}

func TestTierLimits(t *testing.T) {
	limit, burst := tierLimits(TierStrict)
	assert.Equal(t, limitStrict, limit)
	assert.Equal(t, burstStrict, burst)

	limit, burst = tierLimits(TierFrontend)
	assert.Equal(t, limitFrontend, limit)
	assert.Equal(t, burstFrontend, burst)

	limit, _ = tierLimits("unknown")
	assert.Equal(t, limitGeneral, limit)
}

func TestRequestTimeout(t *testing.T) {
	r := gin.New()
	r.GET("/slow", RequestTimeout(50*time.Millisecond), func(c *gin.Context) {
		deadline, ok := c.Request.Context().Deadline()
		require.True(t, ok)
		assert.WithinDuration(t, time.Now().Add(50*time.Millisecond), deadline, 50*time.Millisecond)

		<-c.Request.Context().Done()
		assert.ErrorIs(t, c.Request.Context().Err(), context.DeadlineExceeded)
		c.Status(http.StatusGatewayTimeout)
	})
	r.GET("/unbounded", RequestTimeout(0), func(c *gin.Context) {
		_, ok := c.Request.Context().Deadline()
		assert.False(t, ok)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/slow", nil))
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/unbounded", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCORS(t *testing.T) {
	t.Run("AllowAll", func(t *testing.T) {
		r := gin.New()
		r.Use(CORS([]string{"*"}))
		r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

		req := httptest.NewRequest(http.MethodOptions, "/test", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", "GET")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
		assert.True(t, w.Code == http.StatusOK || w.Code == http.StatusNoContent)
	})

	t.Run("ListedOrigin", func(t *testing.T) {
		r := gin.New()
		r.Use(CORS([]string{"http://localhost:3000"}))
		r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("UnlistedOrigin", func(t *testing.T) {
		r := gin.New()
		r.Use(CORS([]string{"http://localhost:3000"}))
		r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Origin", "http://evil.test")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestMetrics(t *testing.T) {
	r := gin.New()
	r.Use(Metrics())
	r.GET("/product/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	counter := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/product/:id", "404")
	before := testutil.ToFloat64(counter)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/product/abc", nil))

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}
