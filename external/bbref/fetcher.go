package bbref

import (
	"bytes"
	"context"
	"net/http"

	"github.com/PuerkitoBio/goquery"
	crerr "github.com/cockroachdb/errors"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/playoff-stats/internal/platform/resilience"
)

var errUpstreamStatus = crerr.New("unexpected upstream status")

// document fetches and parses one page. Failures are logged here and
// reported as ok=false so callers can degrade to an empty result.
func (c *Client) document(ctx context.Context, pageURL, page string) (*goquery.Document, bool) {
	body, err := c.fetch(ctx, pageURL)
	if err != nil {
		c.logger.ErrorContext(ctx, "fetch page failed", "page", page, "url", pageURL, "error", err)
		return nil, false
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		c.logger.ErrorContext(ctx, "parse page failed", "page", page, "url", pageURL, "error", err)
		return nil, false
	}
	return doc, true
}

func (c *Client) fetch(ctx context.Context, pageURL string) ([]byte, error) {
	return c.pages.GetOrLoad(ctx, pageURL, func(ctx context.Context) ([]byte, error) {
		return c.download(ctx, pageURL)
	})
}

// download issues a single GET. There is no retry; the pacer runs before
// every request that reaches the network. Only transport errors and
// responses that signal an unhealthy upstream count against the breaker; a
// missing page does not.
func (c *Client) download(ctx context.Context, pageURL string) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "bbref.download", trace.WithAttributes(attribute.String("http.url", pageURL)))
	defer span.End()

	if c.breaker.State() == resilience.CircuitStateOpen {
		span.SetStatus(codes.Error, "circuit open")
		return nil, crerr.Wrap(resilience.ErrCircuitOpen, "skip request")
	}
	if err := c.pacer.Wait(ctx); err != nil {
		span.SetStatus(codes.Error, "pacing interrupted")
		return nil, crerr.Wrap(err, "wait for request slot")
	}

	var res *resty.Response
	err := c.breaker.Do(func() error {
		var err error
		res, err = c.http.R().SetContext(ctx).Get(pageURL)
		if err != nil {
			return crerr.Wrap(err, "request page")
		}
		span.SetAttributes(attribute.Int("http.status_code", res.StatusCode()))
		if upstreamUnhealthy(res.StatusCode()) {
			return crerr.Wrapf(errUpstreamStatus, "status %d", res.StatusCode())
		}
		return nil
	})
	if err == nil && !res.IsSuccess() {
		err = crerr.Wrapf(errUpstreamStatus, "status %d", res.StatusCode())
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "download failed")
		return nil, err
	}
	return res.Body(), nil
}

func upstreamUnhealthy(status int) bool {
	return status >= http.StatusInternalServerError || status == http.StatusTooManyRequests
}
