package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v7/esapi"
	"github.com/goto/labsearch/core/search"
)

// helper for decorating unsuccessful invocations of the es REST API
// (transport errors)
func elasticSearchError(err error) error {
	return fmt.Errorf("elasticsearch error: %w", err)
}

// transportError classifies a request that never got a response.
func transportError(ctx context.Context, op, index string, err error) error {
	kind := search.ErrorKindConnection

	var netErr net.Error
	switch {
	case ctx.Err() != nil,
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled),
		errors.As(err, &netErr) && netErr.Timeout():
		kind = search.ErrorKindTimeout
	}

	return search.EngineError{Kind: kind, Op: op, Index: index, Err: elasticSearchError(err)}
}

// responseError classifies an error response of the es REST API.
func responseError(op, index string, res *esapi.Response) error {
	code, reason := errorCodeAndReason(res)
	return search.EngineError{
		Kind:  errorKind(res.StatusCode, code),
		Op:    op,
		Index: index,
		Code:  code,
		Err:   errors.New(reason),
	}
}

func errorKind(status int, code string) search.ErrorKind {
	switch {
	case status == http.StatusNotFound, code == "index_not_found_exception":
		return search.ErrorKindIndexNotFound
	case status == http.StatusUnauthorized, status == http.StatusForbidden,
		code == "security_exception":
		return search.ErrorKindPermission
	case status == http.StatusRequestTimeout, status == http.StatusGatewayTimeout:
		return search.ErrorKindTimeout
	case status == http.StatusBadGateway, status == http.StatusServiceUnavailable:
		return search.ErrorKindConnection
	case status == http.StatusBadRequest:
		switch code {
		case "parsing_exception", "query_shard_exception", "search_phase_execution_exception",
			"illegal_argument_exception", "x_content_parse_exception":
			return search.ErrorKindQuery
		}
	}
	return search.ErrorKindUnknown
}

// errorCodeAndReason extracts the error type and reason from an
// elasticsearch response. The raw body is returned as the reason when it
// cannot be decoded.
func errorCodeAndReason(res *esapi.Response) (code, reason string) {
	var (
		response struct {
			Error struct {
				Type   string `json:"type"`
				Reason string `json:"reason"`
			} `json:"error"`
		}
		copy bytes.Buffer
	)
	reader := io.TeeReader(res.Body, &copy)
	if err := json.NewDecoder(reader).Decode(&response); err != nil || response.Error.Reason == "" {
		raw := strings.TrimSpace(copy.String())
		if raw == "" {
			return "", res.Status()
		}
		return "", fmt.Sprintf("raw response = %s", raw)
	}
	return response.Error.Type, response.Error.Reason
}

func drainBody(res *esapi.Response) {
	_, _ = io.Copy(io.Discard, res.Body)
	_ = res.Body.Close()
}
