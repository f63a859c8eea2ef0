package core

import (
	"fmt"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	ServiceErrorBadInput        = "MEMBERAPI_BAD_INPUT"
	ServiceErrorUnauthorized    = "MEMBERAPI_UNAUTHORIZED"
	ServiceErrorForbidden       = "MEMBERAPI_FORBIDDEN"
	ServiceErrorNotFound        = "MEMBERAPI_NOT_FOUND"
	ServiceErrorRateLimited     = "MEMBERAPI_RATE_LIMITED"
	ServiceErrorUpstreamFailure = "MEMBERAPI_UPSTREAM_FAILURE"
	ServiceErrorNetworkFailure  = "MEMBERAPI_NETWORK_FAILURE"
	ServiceErrorInternal        = "MEMBERAPI_INTERNAL_ERROR"
)

// ResponseError classifies an upstream response status for the JSON request
// surface. 2xx yields nil; 401 and 403 map onto the auth taxonomy with their
// caller-facing messages; everything else is an upstream failure carrying the
// status and the best-effort body text.
func ResponseError(status int, body []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}
	switch status {
	case http.StatusUnauthorized:
		return goerrors.New("Authentication required", goerrors.CategoryAuth).
			WithCode(http.StatusUnauthorized).
			WithTextCode(ServiceErrorUnauthorized)
	case http.StatusForbidden:
		return goerrors.New("Access forbidden", goerrors.CategoryAuthz).
			WithCode(http.StatusForbidden).
			WithTextCode(ServiceErrorForbidden)
	}
	return HTTPStatusError(status, body)
}

// HTTPStatusError builds the generic non-2xx error used where the raw status
// must surface unmapped, e.g. the cache query surface under its throw policy.
func HTTPStatusError(status int, body []byte) error {
	message := strings.TrimSpace(string(body))
	if message == "" {
		message = http.StatusText(status)
	}

	category := goerrors.CategoryExternal
	textCode := ServiceErrorUpstreamFailure
	switch status {
	case http.StatusNotFound:
		category = goerrors.CategoryNotFound
		textCode = ServiceErrorNotFound
	case http.StatusTooManyRequests:
		category = goerrors.CategoryRateLimit
		textCode = ServiceErrorRateLimited
	}

	return goerrors.New(fmt.Sprintf("HTTP %d: %s", status, message), category).
		WithCode(status).
		WithTextCode(textCode)
}

func serviceErrorMapper(err error) *goerrors.Error {
	if err == nil {
		return nil
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return ensureServiceErrorEnvelope(richErr)
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "session") && strings.Contains(msg, "revoked"):
		return newServiceError(err.Error(), goerrors.CategoryAuth, ServiceErrorUnauthorized)
	case strings.Contains(msg, "not found"):
		return newServiceError(err.Error(), goerrors.CategoryNotFound, ServiceErrorNotFound)
	case strings.Contains(msg, "throttl"), strings.Contains(msg, "rate limit"):
		return newServiceError(err.Error(), goerrors.CategoryRateLimit, ServiceErrorRateLimited)
	case strings.Contains(msg, "required"), strings.Contains(msg, "invalid"), strings.Contains(msg, "must be"):
		return newServiceError(err.Error(), goerrors.CategoryBadInput, ServiceErrorBadInput)
	}

	mapped := goerrors.MapToError(err, goerrors.DefaultErrorMappers())
	return ensureServiceErrorEnvelope(mapped)
}

func newServiceError(message string, category goerrors.Category, textCode string) *goerrors.Error {
	return ensureServiceErrorEnvelope(
		goerrors.New(message, category).
			WithTextCode(textCode),
	)
}

func ensureServiceErrorEnvelope(err *goerrors.Error) *goerrors.Error {
	if err == nil {
		return nil
	}
	if err.Code == 0 {
		err.Code = serviceHTTPStatus(err.Category)
	}
	if strings.TrimSpace(err.TextCode) == "" {
		err.TextCode = defaultServiceTextCode(err.Category)
	}
	if err.Category == goerrors.CategoryInternal && strings.TrimSpace(err.Message) == "" {
		err.Message = "An unexpected error occurred"
	}
	return err
}

func defaultServiceTextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return ServiceErrorBadInput
	case goerrors.CategoryAuth:
		return ServiceErrorUnauthorized
	case goerrors.CategoryAuthz:
		return ServiceErrorForbidden
	case goerrors.CategoryNotFound:
		return ServiceErrorNotFound
	case goerrors.CategoryRateLimit:
		return ServiceErrorRateLimited
	case goerrors.CategoryExternal:
		return ServiceErrorUpstreamFailure
	default:
		return ServiceErrorInternal
	}
}

func serviceHTTPStatus(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	case goerrors.CategoryAuth:
		return http.StatusUnauthorized
	case goerrors.CategoryAuthz:
		return http.StatusForbidden
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryRateLimit:
		return http.StatusTooManyRequests
	case goerrors.CategoryConflict:
		return http.StatusConflict
	case goerrors.CategoryExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
