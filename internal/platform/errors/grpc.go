package errors

import (
	"errors"

	"github.com/louisbranch/minefield/internal/platform/errors/i18n"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// DefaultLocale is the default locale for error messages.
const DefaultLocale = i18n.DefaultLocale

// HandleError converts domain errors to gRPC status for client responses.
// Errors that already carry a gRPC status pass through unchanged.
func HandleError(err error, locale string) error {
	if err == nil {
		return nil
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		catalog := i18n.GetCatalog(locale)
		userMsg := catalog.Format(string(appErr.Code), appErr.Metadata)
		return appErr.ToGRPCStatus(catalog.Locale(), userMsg)
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	return status.Error(codes.Internal, "an unexpected error occurred")
}

// GetCode extracts the error code from any error.
// Returns CodeUnknown if the error is not a domain error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

// IsCode checks if the error has the specified code.
func IsCode(err error, code Code) bool {
	return GetCode(err) == code
}

// GetMetadata extracts metadata from an error if present.
func GetMetadata(err error) map[string]string {
	var e *Error
	if errors.As(err, &e) {
		return e.Metadata
	}
	return nil
}

// ReasonFromStatus returns the ErrorInfo reason attached to a gRPC error,
// or CodeUnknown when none is present.
func ReasonFromStatus(err error) Code {
	st, ok := status.FromError(err)
	if !ok {
		return CodeUnknown
	}
	for _, detail := range st.Details() {
		if info, ok := detail.(*errdetails.ErrorInfo); ok && info.GetReason() != "" {
			return Code(info.GetReason())
		}
	}
	return CodeUnknown
}

// LocalizedFromStatus returns the localized message attached to a gRPC error.
// It falls back to the status message.
func LocalizedFromStatus(err error) string {
	st, ok := status.FromError(err)
	if !ok {
		return err.Error()
	}
	for _, detail := range st.Details() {
		if msg, ok := detail.(*errdetails.LocalizedMessage); ok && msg.GetMessage() != "" {
			return msg.GetMessage()
		}
	}
	return st.Message()
}
