package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	apperrors "github.com/kbukum/videoscribe/errors"
)

const maxBodyInError = 512

// ClassifyStatus converts a non-2xx response into an AppError. Returns nil for
// 2xx status codes.
func ClassifyStatus(service string, statusCode int, body []byte) error {
	var appErr *apperrors.AppError
	switch {
	case statusCode >= 200 && statusCode < 300:
		return nil
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		appErr = apperrors.Configuration(fmt.Sprintf("%s rejected the credentials (HTTP %d)", service, statusCode))
	case statusCode == http.StatusTooManyRequests:
		appErr = apperrors.RateLimited(service)
	case statusCode == http.StatusRequestTimeout || statusCode == http.StatusGatewayTimeout:
		appErr = apperrors.Timeout(service)
	case statusCode == http.StatusServiceUnavailable:
		appErr = apperrors.ServiceUnavailable(service)
	case statusCode >= 500:
		appErr = apperrors.ExternalServiceError(service, nil)
	default:
		appErr = apperrors.New(apperrors.ErrCodeExternalService,
			fmt.Sprintf("The %s service rejected the request (HTTP %d)", service, statusCode),
			http.StatusBadGateway)
		appErr.Retryable = false
	}
	appErr.WithDetail("status", statusCode)
	if len(body) > 0 {
		appErr.WithDetail("body", truncate(body, maxBodyInError))
	}
	return appErr
}

// classifyTransport converts a transport-level failure into an AppError.
func classifyTransport(ctx context.Context, service string, err error) error {
	if ctx.Err() != nil {
		return apperrors.Timeout(service).WithCause(err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return apperrors.Timeout(service).WithCause(err)
	}
	return apperrors.ServiceUnavailable(service).WithCause(err)
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
