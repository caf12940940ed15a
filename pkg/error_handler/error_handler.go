package errorhandler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"main/pkg/customerrors"

	"github.com/labstack/echo/v4"
)

// StatusFor maps an error to the HTTP status the adapter reports. Tagged
// usecase errors map by kind, echo errors carry their own code, everything
// else is an opaque 500.
func StatusFor(err error) int {
	var ce *customerrors.Error
	if errors.As(err, &ce) {
		switch ce.Kind {
		case customerrors.KindValidation:
			return http.StatusBadRequest
		case customerrors.KindAuthentication:
			return http.StatusUnauthorized
		case customerrors.KindNotFound:
			return http.StatusNotFound
		}
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return http.StatusInternalServerError
}

// HandleError is the single recovery point: the usecase never retries or
// swallows an error, it propagates here and gets translated to a JSON body.
func HandleError(err error, c echo.Context) {
	code := StatusFor(err)
	message := "Internal Server Error"

	var ce *customerrors.Error
	var he *echo.HTTPError
	switch {
	case errors.As(err, &ce):
		message = ce.Message
	case errors.As(err, &he):
		message = fmt.Sprint(he.Message)
	}

	if code == http.StatusInternalServerError {
		slog.Error("Internal Server Error",
			"err", err,
			"path", c.Path(),
			"method", c.Request().Method,
		)
	} else {
		slog.Warn("Handled error",
			"err", err,
			"path", c.Path(),
			"method", c.Request().Method,
		)
	}

	if !c.Response().Committed {
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, map[string]string{"error": message})
		}
		if err != nil {
			slog.Error("Failed to write error response", "err", err)
		}
	}
}
