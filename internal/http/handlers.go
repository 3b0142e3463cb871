package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/zValkyrion/fullstack-challenge-weatherApp/internal/auth"
	"github.com/zValkyrion/fullstack-challenge-weatherApp/internal/service"
	"github.com/zValkyrion/fullstack-challenge-weatherApp/internal/validation"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	weatherService *service.WeatherService
	authService    *auth.Service
	logger         *zap.Logger
	shuttingDown   atomic.Bool
	// cachePing, when set, is called on /health to check cache reachability.
	// Used when the backend is memcached.
	cachePing func() error
}

// NewHandler returns a new Handler.
func NewHandler(weatherService *service.WeatherService, authService *auth.Service, logger *zap.Logger) *Handler {
	return &Handler{
		weatherService: weatherService,
		authService:    authService,
		logger:         logger,
	}
}

// SetCachePing installs a cache reachability check for the health handler.
func (h *Handler) SetCachePing(ping func() error) {
	h.cachePing = ping
}

// SetShuttingDown marks the process as draining; /health reports it so load
// balancers stop sending traffic.
func (h *Handler) SetShuttingDown(v bool) {
	h.shuttingDown.Store(v)
}

// credentialsRequest is the signup/login body.
type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// authResponse mirrors the shape the frontend expects from signup and login.
type authResponse struct {
	Token   string   `json:"token"`
	User    userInfo `json:"user"`
	Message string   `json:"message"`
}

type userInfo struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

// Signup handles POST /api/auth/signup.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var body credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_BODY", "request body must be JSON")
		return
	}
	if err := validation.ValidateCredentials(body.Username, body.Password); err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_CREDENTIALS", err.Error())
		return
	}

	token, user, err := h.authService.Signup(r.Context(), body.Username, body.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrPasswordTooShort):
			writeError(w, r, http.StatusBadRequest, "PASSWORD_TOO_SHORT", err.Error())
		case errors.Is(err, auth.ErrUsernameTaken):
			writeError(w, r, http.StatusConflict, "USERNAME_TAKEN", "Username already taken")
		default:
			h.logServerError(r, "signup failed", err)
			writeError(w, r, http.StatusInternalServerError, "SIGNUP_FAILED", "Server error during signup")
		}
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{
		Token:   token,
		User:    userInfo{ID: user.ID, Username: user.Username},
		Message: "User created successfully!",
	})
}

// Login handles POST /api/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var body credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_BODY", "request body must be JSON")
		return
	}
	if err := validation.ValidateCredentials(body.Username, body.Password); err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_CREDENTIALS", err.Error())
		return
	}

	token, user, err := h.authService.Login(r.Context(), body.Username, body.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, r, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid credentials")
			return
		}
		h.logServerError(r, "login failed", err)
		writeError(w, r, http.StatusInternalServerError, "LOGIN_FAILED", "Server error during login")
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		Token:   token,
		User:    userInfo{ID: user.ID, Username: user.Username},
		Message: "Login successful!",
	})
}

// GetCitiesWeather handles GET /api/weather/cities?names=a,b,c.
func (h *Handler) GetCitiesWeather(w http.ResponseWriter, r *http.Request) {
	names, err := validation.ParseCityNames(r.URL.Query().Get("names"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_NAMES", err.Error())
		return
	}

	results := h.weatherService.ResolveCitiesWeather(r.Context(), names)
	writeJSON(w, http.StatusOK, results)
}

// GetForecast handles GET /api/weather/forecast?lat=..&lon=..
func (h *Handler) GetForecast(w http.ResponseWriter, r *http.Request) {
	lat, lon, err := validation.ParseCoordinates(r.URL.Query().Get("lat"), r.URL.Query().Get("lon"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_COORDINATES", err.Error())
		return
	}

	days, err := h.weatherService.GetForecast(r.Context(), lat, lon)
	if err != nil {
		h.logServerError(r, "forecast failed", err)
		writeError(w, r, http.StatusInternalServerError, "FORECAST_FAILED", "Server error fetching weather forecast")
		return
	}
	if len(days) == 0 {
		writeError(w, r, http.StatusNotFound, "FORECAST_NOT_FOUND",
			fmt.Sprintf("Could not retrieve forecast for coordinates %v, %v", lat, lon))
		return
	}
	writeJSON(w, http.StatusOK, days)
}

// GetDetails handles GET /api/weather/details-by-coords?lat=..&lon=..
func (h *Handler) GetDetails(w http.ResponseWriter, r *http.Request) {
	lat, lon, err := validation.ParseCoordinates(r.URL.Query().Get("lat"), r.URL.Query().Get("lon"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_COORDINATES", err.Error())
		return
	}

	details, err := h.weatherService.GetDetails(r.Context(), lat, lon)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "DETAILS_NOT_FOUND",
				"Could not retrieve details for the specified coordinates.")
			return
		}
		h.logServerError(r, "details failed", err)
		writeError(w, r, http.StatusInternalServerError, "DETAILS_FAILED", "Server error fetching weather details")
		return
	}
	writeJSON(w, http.StatusOK, details)
}

// GetHealth handles GET /api/health.
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	status := "UP"
	statusCode := http.StatusOK
	if h.shuttingDown.Load() {
		status = "SHUTTING_DOWN"
		statusCode = http.StatusServiceUnavailable
	}

	checks := make(map[string]string)
	if h.cachePing != nil {
		if h.cachePing() == nil {
			checks["cache"] = "healthy"
		} else {
			checks["cache"] = "unhealthy"
			status = "DEGRADED"
			statusCode = http.StatusServiceUnavailable
		}
	}

	writeJSON(w, statusCode, map[string]interface{}{
		"status":    status,
		"service":   "weather-dashboard",
		"checks":    checks,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) logServerError(r *http.Request, msg string, err error) {
	logger := h.logger
	if l, ok := r.Context().Value("logger").(*zap.Logger); ok && l != nil {
		logger = l
	}
	if logger != nil {
		logger.Error(msg, zap.Error(err))
	}
}

// writeJSON writes a JSON response with the specified HTTP status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes an error response in the standard error format with code,
// message, and requestId (correlation ID) if available in request context.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	corrID := ""
	if v := r.Context().Value("correlation_id"); v != nil {
		corrID = v.(string)
	}
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{
			"code":      code,
			"message":   message,
			"requestId": corrID,
		},
	})
}
