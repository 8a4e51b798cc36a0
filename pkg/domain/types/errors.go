package types

import "github.com/m-mizutani/goerr/v2"

var (
	// ErrTagMissingParameter marks a request without rollNumber or examId
	ErrTagMissingParameter = goerr.NewTag("missing_parameter")

	// ErrTagUpstreamFailure marks a failure talking to the report server:
	// transport errors, non-2xx responses and oversized bodies
	ErrTagUpstreamFailure = goerr.NewTag("upstream_failure")

	// ErrTagClientFetchFailure marks a failure of the viewer calling the proxy
	ErrTagClientFetchFailure = goerr.NewTag("client_fetch_failure")
)
