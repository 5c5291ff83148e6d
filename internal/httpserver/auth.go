package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/metrics"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type AuthHTTP struct {
	Svc     *service.AuthService
	Metrics *metrics.Metrics
}

func (h *AuthHTTP) attempt(op, result string) {
	if h.Metrics != nil {
		h.Metrics.AuthAttempts.WithLabelValues(op, result).Inc()
	}
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "reason", "invalid body", "error", err)
		h.attempt("register", "invalid")
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.Register(ctx, req.Input())
	if err != nil {
		var missing *service.MissingFieldsError
		switch {
		case errors.As(err, &missing):
			l.Warn("register_error", "status", 400, "reason", "missing fields", "fields", missing.Fields)
			h.attempt("register", "invalid")
			return echo.NewHTTPError(http.StatusBadRequest, missing.Error())
		case errors.Is(err, service.ErrConflict):
			h.attempt("register", "conflict")
			return echo.NewHTTPError(http.StatusBadRequest, "Username already exists")
		case errors.Is(err, service.ErrValidation):
			l.Warn("register_error", "status", 400, "error", err)
			h.attempt("register", "invalid")
			return echo.NewHTTPError(http.StatusBadRequest, validationMessage(err))
		}
		h.attempt("register", "error")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	h.attempt("register", "ok")
	l.Info("register_success", "username", user.Username, "role", user.Role)
	return c.JSON(http.StatusOK, transport.RegisterResponse{Message: "Registered", Role: user.Role})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "reason", "invalid body", "error", err)
		h.attempt("login", "invalid")
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		var missing *service.MissingFieldsError
		switch {
		case errors.As(err, &missing):
			l.Warn("login_error", "status", 400, "reason", "missing fields", "fields", missing.Fields)
			h.attempt("login", "invalid")
			return echo.NewHTTPError(http.StatusBadRequest, missing.Error())
		case errors.Is(err, service.ErrInvalidCredentials):
			l.Warn("login_failed", "status", 401, "username", req.Username)
			h.attempt("login", "denied")
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
		}
		h.attempt("login", "error")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	h.attempt("login", "ok")
	l.Info("login_successful", "username", req.Username, "role", res.Role)
	return c.JSON(http.StatusOK, transport.LoginResponse{AccessToken: res.AccessToken, Role: res.Role})
}
