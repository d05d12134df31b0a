package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	schemeBearer = "bearer"
	schemeAPIKey = "api_key"
	schemeNone   = "none"

	resultOK = "ok"
)

var (
	resolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "linkshelf_auth_resolutions_total",
			Help: "Request credential resolutions by scheme and outcome kind.",
		},
		[]string{"scheme", "result"},
	)

	tokensIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "linkshelf_auth_tokens_issued_total",
		Help: "Signed session tokens issued.",
	})

	keysGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "linkshelf_auth_api_keys_generated_total",
		Help: "Prefixed API keys generated.",
	})
)
