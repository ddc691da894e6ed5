/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/Seednode/empire/games/empire"
	"github.com/sirupsen/logrus"
)

var errMissingPlayer = errors.New("player not recognised; join the game first")

func newLogger(cfg *Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetLevel(logrus.InfoLevel)

	if cfg.logFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: logDate})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: logDate})
	}

	return logger
}

// log returns the configured logger, or a silent one before setup.
func (c *Config) log() *logrus.Logger {
	if c.logger == nil {
		c.logger = logrus.New()
		c.logger.SetOutput(io.Discard)
	}
	return c.logger
}

func logf(cfg *Config, format string, args ...any) {
	if !cfg.verbose {
		return
	}

	cfg.log().Infof(format, args...)
}

func errorf(cfg *Config, format string, args ...any) {
	cfg.log().Errorf(format, args...)
}

func newPage(title, body string) string {
	var htmlBody strings.Builder

	htmlBody.WriteString(`<!DOCTYPE html><html lang="en"><head>`)
	htmlBody.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
	htmlBody.WriteString(`<style>`)
	htmlBody.WriteString(`html,body,a{display:block;height:100%;width:100%;text-decoration:none;color:inherit;cursor:auto;}</style>`)
	htmlBody.WriteString(fmt.Sprintf("<title>%s</title></head>", title))
	htmlBody.WriteString(fmt.Sprintf("<body><a href=\"/\">%s</a></body></html>", body))

	return htmlBody.String()
}

type apiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func writeJSON(cfg *Config, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	securityHeaders(cfg, w)
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		errorf(cfg, "SERVE: Failed to encode response: %v", err)
	}
}

func writeOK(cfg *Config, w http.ResponseWriter) {
	writeJSON(cfg, w, http.StatusOK, apiResponse{Success: true})
}

// statusFor maps game errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, errMissingPlayer):
		return http.StatusUnauthorized
	case errors.Is(err, empire.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, empire.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, empire.ErrInvalidTransition):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(cfg *Config, w http.ResponseWriter, err error) {
	status := statusFor(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		errorf(cfg, "SERVE: %v", err)
		message = "An error has occurred. Please try again."
	}

	writeJSON(cfg, w, status, apiResponse{Message: message})
}
