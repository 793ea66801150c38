package camp

import (
	"autocamp/lib/htmlutil"
	"autocamp/lib/restyutil"
	"autocamp/lib/telemetry"
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	DefaultBaseUrl   = "http://www.camp.bicnirrh.res.in"
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0"

	predictPath = "/predict/"
)

type ClientOptions struct {
	BaseUrl string
	// Timeout bounds a whole Predict call, DefaultTimeout if zero.
	Timeout   time.Duration
	UserAgent string
	// CloudflareBypass wraps the transport with browser-like TLS
	// settings and headers.
	CloudflareBypass bool
	// Dump receives every http exchange when set.
	Dump restyutil.Output
}

// Client is a browsing session against the CAMP site. It must be
// released with Close once the caller is done with it.
type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client

	timeout time.Duration
	mu      sync.Mutex
	closed  bool
}

func NewClient(ctx context.Context, opts ClientOptions) (*Client, error) {
	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}

	baseUrl, err := url.Parse(strings.TrimRight(opts.BaseUrl, "/"))
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(baseUrl.String())
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	if opts.CloudflareBypass {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}

	client.SetHeader("user-agent", opts.UserAgent)
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	client.SetTimeout(opts.Timeout)

	telemetry.InstrumentResty(client, "autocamp.lib.scrapers.camp/http")
	restyutil.DumpExchanges(client, "camp", opts.Dump)

	slog.DebugContext(ctx, "camp session opened", "base_url", baseUrl.String(), "timeout", opts.Timeout)

	return &Client{
		BaseUrl: baseUrl,
		Http:    client,
		timeout: opts.Timeout,
	}, nil
}

// Close releases the session. Calling it more than once is a no-op.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.Http.GetClient().CloseIdleConnections()
	slog.Debug("camp session closed", "base_url", c.BaseUrl.String())
	return nil
}

func (c *Client) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// classify attributes a failed request to ErrTimeout when the wait
// budget ran out, and to kind otherwise.
func classify(kind error, what string, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		kind = ErrTimeout
	}
	return fmt.Errorf("%w: %s: %w", kind, what, err)
}

func parseHtml(res *resty.Response) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
}

// Predict submits query to the prediction form with every classifier
// selected and returns the text of the result page.
func (c *Client) Predict(ctx context.Context, query string) (string, error) {
	ctx, span := tracer.Start(ctx, "client:Predict")
	defer span.End()

	if c.isClosed() {
		return "", ErrSessionClosed
	}
	if strings.TrimSpace(query) == "" {
		return "", ErrEmptyQuery
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	res, err := c.Http.R().
		SetContext(ctx).
		Get(predictPath)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to load prediction page")
		return "", classify(ErrNavigation, "load prediction page", err)
	}
	if res.IsError() {
		span.SetStatus(codes.Error, "prediction page returned an error status")
		return "", errors.Wrapf(ErrNavigation, "load prediction page: %s", res.Status())
	}
	doc, err := parseHtml(res)
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse prediction page")
		return "", errors.Wrap(ErrNavigation, err.Error())
	}

	form, err := findPredictForm(doc, query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to find prediction form")
		return "", err
	}

	pageUrl := c.BaseUrl.JoinPath(predictPath)
	if res.RawResponse != nil && res.RawResponse.Request != nil {
		pageUrl = res.RawResponse.Request.URL
	}
	target, err := pageUrl.Parse(form.Action)
	if err != nil {
		span.SetStatus(codes.Error, "invalid form action")
		return "", errors.Wrapf(ErrNavigation, "form action %q: %v", form.Action, err)
	}
	span.SetAttributes(
		attribute.String("form.action", target.String()),
		attribute.String("form.method", form.Method),
		attribute.Int("query.length", len(query)),
	)

	req := c.Http.R().SetContext(ctx)
	if form.Method == "GET" {
		res, err = req.SetQueryParamsFromValues(form.Values).Get(target.String())
	} else {
		res, err = req.SetFormDataFromValues(form.Values).Post(target.String())
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to submit prediction form")
		return "", classify(ErrNavigation, "submit prediction form", err)
	}
	if res.IsError() {
		span.SetStatus(codes.Error, "prediction returned an error status")
		return "", errors.Wrapf(ErrNavigation, "submit prediction form: %s", res.Status())
	}

	result, err := parseHtml(res)
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse result page")
		return "", errors.Wrap(ErrNavigation, err.Error())
	}
	text := htmlutil.GetText(result.Get(0))
	span.SetAttributes(attribute.Int("response.length", len(text)))
	return text, nil
}
