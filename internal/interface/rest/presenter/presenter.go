package presenter

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nguyentantai21042004/minutes-flow/internal/domain"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
	Stage string `json:"stage,omitempty"`
}

// OK wraps a successful response.
func OK(c echo.Context, payload any) error {
	return c.JSON(http.StatusOK, payload)
}

func Created(c echo.Context, payload any) error {
	return c.JSON(http.StatusCreated, payload)
}

func BadRequestMessage(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, errorResponse{Error: msg})
}

// Error maps the domain error taxonomy onto HTTP. Upstream failures keep
// the remote service's message verbatim.
func Error(c echo.Context, err error) error {
	status, body := Describe(err)
	return c.JSON(status, body)
}

// Describe returns the status code and body Error would send.
func Describe(err error) (int, any) {
	var (
		validation domain.ValidationError
		permission domain.PermissionError
		notFound   domain.NotFoundError
		remote     domain.RemoteServiceError
	)
	switch {
	case errors.As(err, &validation):
		status := http.StatusBadRequest
		if validation.Code == domain.ErrUnsupportedMediaType.Code {
			status = http.StatusUnsupportedMediaType
		}
		return status, errorResponse{Error: validation.Error(), Code: validation.Code}
	case errors.As(err, &permission):
		return http.StatusForbidden, errorResponse{Error: permission.Error()}
	case errors.As(err, &notFound):
		return http.StatusNotFound, errorResponse{Error: notFound.Error()}
	case errors.As(err, &remote):
		return http.StatusBadGateway, errorResponse{Error: remote.Error(), Stage: string(remote.Stage)}
	}
	return http.StatusInternalServerError, errorResponse{Error: err.Error()}
}
