// Package bbref reads playoff standings, rosters and per-game averages from
// basketball-reference.com team and league pages.
package bbref

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"

	"github.com/riskibarqy/playoff-stats/internal/platform/cache"
	"github.com/riskibarqy/playoff-stats/internal/platform/logging"
	"github.com/riskibarqy/playoff-stats/internal/platform/resilience"
	"github.com/riskibarqy/playoff-stats/internal/usecase"
)

const (
	defaultBaseURL   = "https://www.basketball-reference.com"
	defaultLeague    = "NBA"
	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
)

var tracer = otel.Tracer("playoff-stats/external/bbref")

var _ usecase.PlayoffSource = (*Client)(nil)

type ClientConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	League     string
	UserAgent  string
	Timeout    time.Duration
	// RequestInterval is the minimum gap between two network requests. Zero
	// disables pacing.
	RequestInterval time.Duration
	// PageCacheTTL keeps downloaded pages so the roster and stats of a team
	// come from one request. Zero disables the cache.
	PageCacheTTL   time.Duration
	CircuitBreaker resilience.CircuitBreakerConfig
	Logger         *logging.Logger
}

type Client struct {
	http    *resty.Client
	baseURL string
	league  string
	logger  *logging.Logger
	pacer   *resilience.Pacer
	breaker *resilience.CircuitBreaker
	pages   *cache.Store[[]byte]
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	league := strings.ToUpper(strings.TrimSpace(cfg.League))
	if league == "" {
		league = defaultLeague
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	var client *resty.Client
	if cfg.HTTPClient != nil {
		client = resty.NewWithClient(cfg.HTTPClient)
	} else {
		client = resty.New()
	}
	transport := client.GetClient().Transport
	if transport == nil {
		transport = http.DefaultTransport.(*http.Transport).Clone()
	}
	// the bypass needs the bare *http.Transport underneath it
	client.SetTransport(otelhttp.NewTransport(
		cloudflarebp.AddCloudFlareByPass(transport),
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return "bbref " + r.Method + " " + r.URL.Path
		}),
	))
	client.SetTimeout(timeout)
	client.SetHeaders(map[string]string{
		"User-Agent":      userAgent,
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
		"Accept-Language": "en-US,en;q=0.9",
		"Referer":         baseURL + "/",
	})
	if parsed, err := url.Parse(baseURL); err == nil && parsed.Hostname() != "" {
		client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(parsed.Hostname()))
	}
	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		logger.DebugContext(res.Request.Context(), "page downloaded",
			"url", res.Request.URL,
			"status", res.StatusCode(),
			"bytes", len(res.Body()),
			"duration", res.Time(),
		)
		return nil
	})

	var pages *cache.Store[[]byte]
	if cfg.PageCacheTTL > 0 {
		pages = cache.NewStore[[]byte](cfg.PageCacheTTL)
	}

	return &Client{
		http:    client,
		baseURL: baseURL,
		league:  league,
		logger:  logger,
		pacer:   resilience.NewPacer(cfg.RequestInterval),
		breaker: resilience.NewCircuitBreaker(cfg.CircuitBreaker),
		pages:   pages,
	}
}
