package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"service", "method", "path", "status"},
	)

	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)

	RegistrationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registrations_total",
			Help: "Total number of registration attempts.",
		},
		[]string{"service", "result"},
	)

	LoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logins_total",
			Help: "Total number of login attempts.",
		},
		[]string{"service", "result"},
	)

	SessionTokensIssuedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_tokens_issued_total",
			Help: "Total number of session tokens issued or refreshed.",
		},
		[]string{"service", "flow", "result"},
	)

	OTPVerificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "otp_verifications_total",
			Help: "Total number of TOTP challenge verifications.",
		},
		[]string{"service", "result"},
	)

	AuthTokensConsumedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_tokens_consumed_total",
			Help: "Total number of single-use authentication token consumptions.",
		},
		[]string{"service", "result"},
	)

	MessageSignaturesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "message_signatures_total",
			Help: "Total number of message signing operations.",
		},
		[]string{"service", "result"},
	)
)

func MustRegister(serviceName string) {
	HTTPRequestsTotal = HTTPRequestsTotal.MustCurryWith(prometheus.Labels{"service": serviceName})
	HTTPRequestDurationSeconds = HTTPRequestDurationSeconds.MustCurryWith(prometheus.Labels{"service": serviceName}).(*prometheus.HistogramVec)
	RegistrationsTotal = RegistrationsTotal.MustCurryWith(prometheus.Labels{"service": serviceName})
	LoginsTotal = LoginsTotal.MustCurryWith(prometheus.Labels{"service": serviceName})
	SessionTokensIssuedTotal = SessionTokensIssuedTotal.MustCurryWith(prometheus.Labels{"service": serviceName})
	OTPVerificationsTotal = OTPVerificationsTotal.MustCurryWith(prometheus.Labels{"service": serviceName})
	AuthTokensConsumedTotal = AuthTokensConsumedTotal.MustCurryWith(prometheus.Labels{"service": serviceName})
	MessageSignaturesTotal = MessageSignaturesTotal.MustCurryWith(prometheus.Labels{"service": serviceName})

	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDurationSeconds,
		RegistrationsTotal,
		LoginsTotal,
		SessionTokensIssuedTotal,
		OTPVerificationsTotal,
		AuthTokensConsumedTotal,
		MessageSignaturesTotal,
	)
}
