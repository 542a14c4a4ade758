package errors

import (
	"errors"
	"fmt"
	"net/http"
)

type AppError struct {
	Code    string
	Message string
	Status  int
	Err     error
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code string, message string, status int, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

func NotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s not found", resource),
		Status:  http.StatusNotFound,
		Err:     err,
	}
}

func BadRequest(message string, err error) *AppError {
	return &AppError{
		Code:    "BAD_REQUEST",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     err,
	}
}

func Unauthorized(message string, err error) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: message,
		Status:  http.StatusUnauthorized,
		Err:     err,
	}
}

func Internal(message string, err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: message,
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Code:    "CONFLICT",
		Message: message,
		Status:  http.StatusConflict,
		Err:     nil,
	}
}

// InvalidState signals a lifecycle precondition violation, e.g. analyzing a
// file that is not in the uploaded state. No mutation has happened.
func InvalidState(message string) *AppError {
	return &AppError{
		Code:    "INVALID_STATE",
		Message: message,
		Status:  http.StatusConflict,
	}
}

func FileMissing(path string) *AppError {
	return &AppError{
		Code:    "FILE_MISSING",
		Message: fmt.Sprintf("backing file does not exist: %s", path),
		Status:  http.StatusNotFound,
	}
}

func UnsupportedFileType(extension string) *AppError {
	return &AppError{
		Code:    "UNSUPPORTED_FILE_TYPE",
		Message: fmt.Sprintf("no analyzer registered for extension %q", extension),
		Status:  http.StatusBadRequest,
	}
}

func RuntimeNotFound(message string) *AppError {
	return &AppError{
		Code:    "RUNTIME_NOT_FOUND",
		Message: message,
		Status:  http.StatusInternalServerError,
	}
}

func ExecutableNotFound(path string, err error) *AppError {
	return &AppError{
		Code:    "EXECUTABLE_NOT_FOUND",
		Message: fmt.Sprintf("executable not found: %s", path),
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// ProcessFailed carries the child process output so callers can persist it
// for diagnosis.
func ProcessFailed(message string, exitCode int, stdout, stderr string) *AppError {
	return &AppError{
		Code:    "PROCESS_FAILED",
		Message: fmt.Sprintf("%s (exit code %d)", message, exitCode),
		Status:  http.StatusInternalServerError,
		Err:     fmt.Errorf("stdout: %s; stderr: %s", stdout, stderr),
	}
}

func ProcessTimeout(message string) *AppError {
	return &AppError{
		Code:    "PROCESS_TIMEOUT",
		Message: message,
		Status:  http.StatusGatewayTimeout,
	}
}

func InvalidOutputFormat(message string, err error) *AppError {
	return &AppError{
		Code:    "INVALID_OUTPUT_FORMAT",
		Message: message,
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// AnalyzerError is a semantic failure the analyzer reported cleanly (exit 0
// with an error field in its JSON output). Unlike ProcessFailed it is not
// retry-worthy: the input file itself is the problem.
func AnalyzerError(message string, traceback string) *AppError {
	var err error
	if traceback != "" {
		err = errors.New(traceback)
	}
	return &AppError{
		Code:    "ANALYZER_ERROR",
		Message: message,
		Status:  http.StatusUnprocessableEntity,
		Err:     err,
	}
}

func InvalidRenderType(renderType string) *AppError {
	return &AppError{
		Code:    "INVALID_RENDER_TYPE",
		Message: fmt.Sprintf("invalid render type %q, must be one of: 2d, wireframe, 3d", renderType),
		Status:  http.StatusBadRequest,
	}
}

func RenderServiceError(message string, err error) *AppError {
	return &AppError{
		Code:    "RENDER_SERVICE_ERROR",
		Message: message,
		Status:  http.StatusBadGateway,
		Err:     err,
	}
}

func Is(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
