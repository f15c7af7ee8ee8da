package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"prd-generator/internal/model"
	"prd-generator/pkg/apierror"
)

func writeSuccess(w http.ResponseWriter, status int, data any, meta *model.Meta) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: true,
		Data:    data,
		Meta:    meta,
	})
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	body := &model.APIError{
		Code:    "INTERNAL_ERROR",
		Message: "Unexpected server error",
	}

	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		status = apiErr.HTTPStatus
		body.Code = apiErr.Code
		body.Message = apiErr.Message
		body.Details = apiErr.Details
	} else if errors.Is(err, model.ErrInvalidCredentials) {
		// Same response for unknown email and wrong password.
		status = http.StatusUnauthorized
		body.Code = "UNAUTHORIZED"
		body.Message = "Incorrect email or password"
	} else if errors.Is(err, model.ErrInactiveAccount) {
		status = http.StatusBadRequest
		body.Code = "INACTIVE_ACCOUNT"
		body.Message = "Inactive user"
	} else if errors.Is(err, model.ErrUnauthorized) {
		status = http.StatusUnauthorized
		body.Code = "UNAUTHORIZED"
		body.Message = "Authentication required"
	} else if errors.Is(err, model.ErrEmailAlreadyExists) {
		status = http.StatusBadRequest
		body.Code = "EMAIL_EXISTS"
		body.Message = "User with this email already exists"
	} else if errors.Is(err, model.ErrAccountNotFound) {
		status = http.StatusNotFound
		body.Code = "NOT_FOUND"
		body.Message = "User not found"
	} else if errors.Is(err, model.ErrPRDNotFound) {
		status = http.StatusNotFound
		body.Code = "NOT_FOUND"
		body.Message = "PRD not found"
	} else if errors.Is(err, model.ErrNotOwner) || errors.Is(err, model.ErrForbidden) {
		status = http.StatusForbidden
		body.Code = "FORBIDDEN"
		body.Message = "Not enough permissions"
	} else if errors.Is(err, model.ErrGenerationFailed) {
		status = http.StatusBadGateway
		body.Code = "GENERATION_FAILED"
		body.Message = "PRD generation failed"
	} else if errors.Is(err, model.ErrInvalidInput) {
		status = http.StatusBadRequest
		body.Code = "BAD_REQUEST"
		body.Message = "Invalid input"
	} else {
		// Log unclassified errors so they are visible in container logs.
		slog.Error("unhandled error in writeError", "error", err.Error())
	}

	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Error:   body,
	})
}
