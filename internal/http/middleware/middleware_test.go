package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"planie.app/api/common/logger"
	"planie.app/api/internal/auth"
	"planie.app/api/internal/http/middleware"
)

type resolverFunc func(r *http.Request) (auth.Identity, error)

func (f resolverFunc) Resolve(r *http.Request) (auth.Identity, error) { return f(r) }

var _ = Describe("Middleware", func() {
	var router *gin.Engine

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
	})

	Describe("RequireIdentity", func() {
		It("rejects unauthenticated requests with 401", func() {
			called := false
			router.Use(middleware.RequireIdentity(resolverFunc(func(*http.Request) (auth.Identity, error) {
				return auth.Identity{}, auth.ErrUnauthenticated
			})))
			router.GET("/x", func(c *gin.Context) { called = true })

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

			Expect(w.Code).To(Equal(http.StatusUnauthorized))
			Expect(w.Body.String()).To(ContainSubstring(`"error":"unauthorized"`))
			Expect(called).To(BeFalse())
		})

		It("exposes the identity to handlers and log fields", func() {
			router.Use(middleware.RequireIdentity(resolverFunc(func(*http.Request) (auth.Identity, error) {
				return auth.Identity{UserID: "user-a"}, nil
			})))

			var (
				fromGin  auth.Identity
				fromCtx  auth.Identity
				logField *string
			)
			router.GET("/x", func(c *gin.Context) {
				fromGin, _ = middleware.GetIdentity(c)
				fromCtx, _ = auth.IdentityFromContext(c.Request.Context())
				logField = logger.GetLogFields(c.Request.Context()).UserID
				c.Status(http.StatusNoContent)
			})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

			Expect(w.Code).To(Equal(http.StatusNoContent))
			Expect(fromGin.UserID).To(Equal("user-a"))
			Expect(fromCtx.UserID).To(Equal("user-a"))
			Expect(logField).NotTo(BeNil())
			Expect(*logField).To(Equal("user-a"))
		})
	})

	Describe("Recovery", func() {
		It("turns panics into 500 responses", func() {
			router.Use(middleware.Recovery())
			router.GET("/boom", func(*gin.Context) { panic(errors.New("boom")) })

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

			Expect(w.Code).To(Equal(http.StatusInternalServerError))
			Expect(w.Body.String()).To(ContainSubstring("internal server error"))
		})
	})

	Describe("RequestID", func() {
		It("echoes a caller supplied id", func() {
			router.Use(middleware.RequestID())
			var seen string
			router.GET("/x", func(c *gin.Context) {
				if rid := logger.GetLogFields(c.Request.Context()).RequestID; rid != nil {
					seen = *rid
				}
			})

			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			req.Header.Set(middleware.RequestIDHeader, "req-123")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Header().Get(middleware.RequestIDHeader)).To(Equal("req-123"))
			Expect(seen).To(Equal("req-123"))
		})

		It("mints an id when none is supplied", func() {
			router.Use(middleware.RequestID())
			router.GET("/x", func(*gin.Context) {})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

			Expect(w.Header().Get(middleware.RequestIDHeader)).To(HaveLen(36))
		})
	})

	Describe("Logger", func() {
		It("passes the response through unchanged", func() {
			router.Use(middleware.Logger())
			router.GET("/x", func(c *gin.Context) { c.String(http.StatusTeapot, "tea") })

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x?q=1", nil))

			Expect(w.Code).To(Equal(http.StatusTeapot))
			Expect(w.Body.String()).To(Equal("tea"))
		})
	})
})
