package report

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/m-mizutani/examresult/pkg/domain/interfaces"
	"github.com/m-mizutani/examresult/pkg/domain/model"
	"github.com/m-mizutani/examresult/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the report runner of the exam portal
	DefaultBaseURL = "http://jisexams.in:8080/IEMISReports_JISU/run"

	// DefaultMaxBodySize bounds how much of the upstream body is buffered
	DefaultMaxBodySize int64 = 32 << 20

	// bodyPreviewSize is how much of an error body is kept for diagnostics
	bodyPreviewSize = 512
)

// Template holds the constant parameters of the upstream report URL
type Template struct {
	BaseURL        string `toml:"base_url"`
	Report         string `toml:"report"`
	CID            string `toml:"cid"`
	ProcessLevelID string `toml:"process_level_id"`
	Format         string `toml:"format"`
	AsAttachment   bool   `toml:"as_attachment"`
}

// DefaultTemplate returns the template of the student result report
func DefaultTemplate() Template {
	return Template{
		BaseURL:        DefaultBaseURL,
		Report:         "RPP_V5/RPPViewResultStudent.rptdesign",
		CID:            "003",
		ProcessLevelID: "1",
		Format:         "pdf",
		AsAttachment:   true,
	}
}

// BuildURL returns the upstream URL for query. Every value is query-escaped,
// so rollNumber and examId can not introduce extra parameters.
func (t Template) BuildURL(query model.ResultQuery) (string, error) {
	base, err := url.Parse(t.BaseURL)
	if err != nil {
		return "", goerr.Wrap(err, "invalid report base URL", goerr.V("base_url", t.BaseURL))
	}
	if base.Scheme == "" || base.Host == "" {
		return "", goerr.New("report base URL must be absolute", goerr.V("base_url", t.BaseURL))
	}

	// Order follows the report server's documented example for readability in logs
	params := []struct{ key, value string }{
		{"__report", t.Report},
		{"CID", t.CID},
		{"prnno", query.RollNumber},
		{"Examscheduleid", query.ExamID},
		{"processlevelid", t.ProcessLevelID},
		{"__format", t.Format},
		{"__asattachment", boolString(t.AsAttachment)},
	}

	var sb strings.Builder
	sb.WriteString(base.RawQuery)
	for _, p := range params {
		if sb.Len() > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(p.key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(p.value))
	}
	base.RawQuery = sb.String()
	base.Fragment = ""

	return base.String(), nil
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// config holds internal client configuration
type config struct {
	template    Template
	httpClient  *http.Client
	timeout     time.Duration
	rps         float64
	maxBodySize int64
}

// Option is a functional option for the report client
type Option func(*config)

// WithTemplate replaces the default URL template
func WithTemplate(tmpl Template) Option {
	return func(c *config) {
		c.template = tmpl
	}
}

// WithHTTPClient sets the HTTP client used for upstream calls
func WithHTTPClient(client *http.Client) Option {
	return func(c *config) {
		c.httpClient = client
	}
}

// WithTimeout bounds a single upstream call. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// WithRateLimit throttles upstream calls to rps requests per second. Zero
// or negative disables throttling.
func WithRateLimit(rps float64) Option {
	return func(c *config) {
		c.rps = rps
	}
}

// WithMaxBodySize bounds the buffered upstream body. Zero or negative
// disables the bound.
func WithMaxBodySize(n int64) Option {
	return func(c *config) {
		c.maxBodySize = n
	}
}

type client struct {
	template    Template
	httpClient  *http.Client
	limiter     *rate.Limiter
	maxBodySize int64
}

// NewClient creates a new report server client
func NewClient(opts ...Option) (interfaces.ReportClient, error) {
	cfg := &config{
		template:    DefaultTemplate(),
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	// Validate the template once so a typo fails at startup, not per request
	if _, err := cfg.template.BuildURL(model.ResultQuery{}); err != nil {
		return nil, err
	}

	httpClient := cfg.httpClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if cfg.timeout > 0 {
		c := *httpClient
		c.Timeout = cfg.timeout
		httpClient = &c
	}

	var limiter *rate.Limiter
	if cfg.rps > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.rps), 1)
	}

	return &client{
		template:    cfg.template,
		httpClient:  httpClient,
		limiter:     limiter,
		maxBodySize: cfg.maxBodySize,
	}, nil
}

// FetchReport downloads the result document for query
func (c *client) FetchReport(ctx context.Context, query model.ResultQuery) ([]byte, error) {
	reportURL, err := c.template.BuildURL(query)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build report URL", goerr.T(types.ErrTagUpstreamFailure))
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, goerr.Wrap(err, "upstream throttle wait aborted", goerr.T(types.ErrTagUpstreamFailure))
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reportURL, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create report request", goerr.T(types.ErrTagUpstreamFailure))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to request report", goerr.T(types.ErrTagUpstreamFailure))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		preview, _ := io.ReadAll(io.LimitReader(resp.Body, bodyPreviewSize))
		return nil, goerr.New("unexpected status code from report server",
			goerr.T(types.ErrTagUpstreamFailure),
			goerr.V("status", resp.StatusCode),
			goerr.V("body", string(bytes.ToValidUTF8(preview, []byte("?")))),
		)
	}

	var body io.Reader = resp.Body
	if c.maxBodySize > 0 {
		body = io.LimitReader(resp.Body, c.maxBodySize+1)
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read report body", goerr.T(types.ErrTagUpstreamFailure))
	}
	if c.maxBodySize > 0 && int64(len(data)) > c.maxBodySize {
		return nil, goerr.New("report body exceeds size limit",
			goerr.T(types.ErrTagUpstreamFailure),
			goerr.V("limit", c.maxBodySize),
		)
	}

	return data, nil
}
