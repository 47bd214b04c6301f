package apperr

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorBody is the payload of every non-2xx response.
type ErrorBody struct {
	Error string `json:"error"`
}

// GlobalErrorHandler maps the error taxonomy onto HTTP status codes. Handlers
// return errors and never write error responses themselves.
func GlobalErrorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := Resolve(err)
		if status >= http.StatusInternalServerError {
			slog.Error("request failed", "uri", c.Request().RequestURI, "status", status, "error", err)
		}
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, body)
	}
}

// Resolve returns the status code and payload for err.
func Resolve(err error) (int, ErrorBody) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, ErrorBody{Error: ve.Error()}
	}

	var nre *NotReadyError
	if errors.As(err, &nre) {
		return http.StatusInternalServerError, ErrorBody{Error: nre.Message}
	}

	var ie *InternalError
	if errors.As(err, &ie) {
		return http.StatusInternalServerError, ErrorBody{Error: ie.Error()}
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := fmt.Sprintf("%v", he.Message)
		return he.Code, ErrorBody{Error: msg}
	}

	return http.StatusInternalServerError, ErrorBody{Error: err.Error()}
}
