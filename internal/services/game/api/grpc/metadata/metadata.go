package metadata

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/louisbranch/minefield/internal/platform/id"
)

// RequestIDHeader is the gRPC metadata key for request correlation IDs.
const RequestIDHeader = "x-minefield-request-id"

// InvocationIDHeader is the gRPC metadata key for MCP tool invocation IDs.
const InvocationIDHeader = "x-minefield-invocation-id"

// LocaleHeader is the gRPC metadata key for the caller's preferred locale.
// Values follow BCP 47 or Accept-Language syntax.
const LocaleHeader = "x-minefield-locale"

type contextKey string

const (
	requestIDContextKey    contextKey = "minefield-request-id"
	invocationIDContextKey contextKey = "minefield-invocation-id"
)

// RequestIDFromContext returns the request ID stored in context.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(requestIDContextKey).(string)
	return value
}

// InvocationIDFromContext returns the invocation ID stored in context.
func InvocationIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(invocationIDContextKey).(string)
	return value
}

// LocaleFromContext returns the locale from incoming metadata.
func LocaleFromContext(ctx context.Context) string {
	return metadataValueFromIncomingContext(ctx, LocaleHeader)
}

// WithRequestID stores the request ID in context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, requestIDContextKey, requestID)
}

// WithInvocationID stores the invocation ID in context.
func WithInvocationID(ctx context.Context, invocationID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, invocationIDContextKey, invocationID)
}

// IsPrintableASCII reports whether a string contains only printable ASCII characters.
func IsPrintableASCII(value string) bool {
	if value == "" {
		return false
	}
	for i := 0; i < len(value); i++ {
		if value[i] < 0x20 || value[i] > 0x7e {
			return false
		}
	}
	return true
}

// FirstMetadataValue returns the first printable ASCII metadata value for a key.
func FirstMetadataValue(md metadata.MD, key string) string {
	if len(md) == 0 {
		return ""
	}
	for mdKey, values := range md {
		if !strings.EqualFold(mdKey, key) {
			continue
		}
		for _, value := range values {
			if IsPrintableASCII(value) {
				return value
			}
		}
	}
	return ""
}

// UnaryServerInterceptor assigns a request ID to every unary call that lacks
// one and echoes the IDs back as response headers.
func UnaryServerInterceptor(idGenerator func() (string, error)) grpc.UnaryServerInterceptor {
	if idGenerator == nil {
		idGenerator = id.NewID
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		updatedCtx, requestID, invocationID, err := ensureRequestMetadata(ctx, idGenerator)
		if err != nil {
			return nil, status.Errorf(codes.Internal, "ensure request metadata: %v", err)
		}
		if err := grpc.SetHeader(updatedCtx, responseHeaders(requestID, invocationID)); err != nil {
			return nil, status.Errorf(codes.Internal, "set response metadata: %v", err)
		}
		return handler(updatedCtx, req)
	}
}

func ensureRequestMetadata(ctx context.Context, idGenerator func() (string, error)) (context.Context, string, string, error) {
	requestID := metadataValueFromIncomingContext(ctx, RequestIDHeader)
	invocationID := metadataValueFromIncomingContext(ctx, InvocationIDHeader)
	if requestID == "" {
		generatedID, err := idGenerator()
		if err != nil {
			return nil, "", "", err
		}
		requestID = generatedID
	}

	updatedCtx := WithRequestID(ctx, requestID)
	if invocationID != "" {
		updatedCtx = WithInvocationID(updatedCtx, invocationID)
	}
	return updatedCtx, requestID, invocationID, nil
}

func metadataValueFromIncomingContext(ctx context.Context, header string) string {
	if ctx == nil {
		return ""
	}
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	return FirstMetadataValue(md, header)
}

func responseHeaders(requestID, invocationID string) metadata.MD {
	headers := metadata.Pairs(RequestIDHeader, requestID)
	if invocationID != "" {
		headers.Append(InvocationIDHeader, invocationID)
	}
	return headers
}
