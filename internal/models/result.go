package models

import (
	"errors"
	"fmt"
)

// ErrorCode classifies failures reported to callers
type ErrorCode string

const (
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeForbidden    ErrorCode = "FORBIDDEN"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeUpload       ErrorCode = "UPLOAD_ERROR"
	CodeDatabase     ErrorCode = "DATABASE_ERROR"
	CodeValidation   ErrorCode = "VALIDATION_ERROR"
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
)

// AppError is the typed error returned by service entry points
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError with the given code
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// ErrorCodeOf returns the code carried by err, or CodeInternal for untyped errors
func ErrorCodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// ResultStatus is either "success" or "error"
type ResultStatus string

const (
	StatusSuccess ResultStatus = "success"
	StatusError   ResultStatus = "error"
)

// Result is the uniform response envelope rendered to clients
type Result struct {
	Status  ResultStatus `json:"status"`
	Data    interface{}  `json:"data,omitempty"`
	Message string       `json:"message,omitempty"`
	Error   string       `json:"error,omitempty"`
	Code    ErrorCode    `json:"code,omitempty"`
}

// SuccessResult wraps data in a success envelope
func SuccessResult(data interface{}, message string) Result {
	return Result{Status: StatusSuccess, Data: data, Message: message}
}

// ErrorResult renders err as an error envelope
func ErrorResult(err error) Result {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return Result{Status: StatusError, Error: appErr.Message, Code: appErr.Code}
	}
	return Result{Status: StatusError, Error: err.Error(), Code: CodeInternal}
}
