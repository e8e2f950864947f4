package http

import (
	"net/http"
	"strings"
	"time"

	"sigmsg/internal/netutil"
	"sigmsg/internal/observability/middleware"
	"sigmsg/internal/service"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// otpVerifyRateLimit caps per-IP verification attempts; six digits brute-force
// fast without it.
const otpVerifyRateLimit = 10

type Services struct {
	Auth       service.AuthService
	Users      service.UserService
	Tokens     service.TokenService
	Challenges service.ChallengeService
	Messages   service.MessageService
}

type Options struct {
	CORSOrigins    []string
	RequestTimeout time.Duration
}

func NewRouter(s Services, opts Options) http.Handler {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}

	h := &handler{svc: s}

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(middleware.WithRequestAndTrace)
	r.Use(middleware.WithMetrics)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(opts.RequestTimeout))
	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.CORSOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
			AllowedHeaders:   []string{"Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/users", h.register)
	r.Post("/login", h.login)
	r.Post("/refresh", h.refresh)

	r.Group(func(r chi.Router) {
		r.Use(h.requireAuth)

		r.Post("/logout", h.logout)

		r.Route("/users", func(r chi.Router) {
			r.Get("/", h.listUsers)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.getUser)

				r.Group(func(r chi.Router) {
					r.Use(h.requireSelf)
					r.Patch("/", h.updateUser)
					r.Delete("/", h.deleteUser)
					r.With(httprate.LimitByIP(otpVerifyRateLimit, time.Minute)).
						Get("/verify_otp", h.verifyOTP)
					r.Post("/activate_totp", h.activateTOTP)
					r.Get("/otp_provisioning", h.otpProvisioning)
					r.Get("/u2f_registrations", h.listU2FRegistrations)
				})
			})
		})

		r.Route("/messages", func(r chi.Router) {
			r.Post("/", h.createMessage)
			r.Get("/", h.listMessages)
			r.Get("/{id}", h.getMessage)
			r.Patch("/{id}", h.patchMessage)
			r.Delete("/{id}", h.deleteMessage)
		})
	})

	return r
}

func clientIP(r *http.Request) string {
	// Behind a proxy RealIP already rewrote RemoteAddr from the forwarding
	// headers; this just strips the port and normalizes.
	if normalized, ok := netutil.NormalizeIP(r.RemoteAddr); ok {
		return normalized
	}
	return strings.TrimSpace(r.RemoteAddr)
}
