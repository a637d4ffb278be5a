package api

import (
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	apperrors "github.com/reelhouse/cli/pkg/errors"
)

// ParseError turns a non-2xx response into a ServerRejected error carrying the
// server's message
func ParseError(resp *resty.Response) error {
	statusCode := resp.StatusCode()

	var errResp ErrorResponse
	if err := json.Unmarshal(resp.Body(), &errResp); err == nil {
		for _, msg := range []string{errResp.Message, errResp.Error, errResp.Msg} {
			if msg != "" {
				return apperrors.ServerRejected(statusCode, msg)
			}
		}
	}

	body := strings.TrimSpace(string(resp.Body()))
	if body == "" || strings.HasPrefix(body, "<") {
		body = http.StatusText(statusCode)
	}
	return apperrors.ServerRejected(statusCode, body)
}

// CheckResponse classifies a resty result: transport errors become
// NetworkFailure, non-2xx responses become ServerRejected.
func CheckResponse(resp *resty.Response, err error) error {
	if err != nil {
		return apperrors.NetworkFailure(err)
	}

	if !resp.IsSuccess() {
		return ParseError(resp)
	}

	return nil
}

// IsUnauthorized checks if err is a 401 rejection
func IsUnauthorized(err error) bool {
	return apperrors.StatusCode(err) == http.StatusUnauthorized
}

// IsNotFound checks if err is a 404 rejection
func IsNotFound(err error) bool {
	return apperrors.StatusCode(err) == http.StatusNotFound
}
