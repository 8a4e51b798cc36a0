package proxy

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/m-mizutani/examresult/pkg/domain/interfaces"
	"github.com/m-mizutani/examresult/pkg/domain/model"
	"github.com/m-mizutani/examresult/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// fetchPath is the proxy endpoint served by `examresult serve`
const fetchPath = "/api/fetch-pdf"

type client struct {
	endpoint   *url.URL
	httpClient *http.Client
}

// NewClient creates a client of the proxy running at baseURL
func NewClient(baseURL string, httpClient *http.Client) (interfaces.ResultFetcher, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid proxy URL", goerr.V("url", baseURL))
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, goerr.New("proxy URL must be absolute", goerr.V("url", baseURL))
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + fetchPath

	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &client{
		endpoint:   u,
		httpClient: httpClient,
	}, nil
}

// FetchPdf calls GET /api/fetch-pdf for query. Both values are query-escaped.
func (c *client) FetchPdf(ctx context.Context, query model.ResultQuery) (*model.PdfArtifact, error) {
	u := *c.endpoint
	u.RawQuery = url.Values{
		"rollNumber": []string{query.RollNumber},
		"examId":     []string{query.ExamID},
	}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create proxy request", goerr.T(types.ErrTagClientFetchFailure))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to call proxy", goerr.T(types.ErrTagClientFetchFailure))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var body struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&body)
		return nil, goerr.New("proxy returned an error",
			goerr.T(types.ErrTagClientFetchFailure),
			goerr.V("status", resp.StatusCode),
			goerr.V("message", body.Error),
			goerr.V("exam_id", query.ExamID),
		)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read proxy response", goerr.T(types.ErrTagClientFetchFailure))
	}

	artifact := model.NewPdfArtifact(query.ExamID, data)
	if ct := resp.Header.Get("Content-Type"); ct != "" {
		artifact.ContentType = ct
	}
	return artifact, nil
}
