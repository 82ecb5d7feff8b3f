// Package interceptors holds gRPC server interceptors for the game service.
package interceptors

import (
	"context"
	"log"
	"strings"

	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	apperrors "github.com/louisbranch/minefield/internal/platform/errors"
	"github.com/louisbranch/minefield/internal/services/game/api/grpc/game"
	grpcmeta "github.com/louisbranch/minefield/internal/services/game/api/grpc/metadata"
	"github.com/louisbranch/minefield/internal/services/game/observability/audit"
	"github.com/louisbranch/minefield/internal/services/game/observability/audit/events"
	"github.com/louisbranch/minefield/internal/services/game/storage"
)

// AuditInterceptor writes one audit event for each unary call handled by
// the game service. Write failures are logged and never fail the call.
func AuditInterceptor(store audit.Writer) grpc.UnaryServerInterceptor {
	emitter := audit.NewEmitter(store)
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		resp, err := handler(ctx, req)
		if store == nil {
			return resp, err
		}

		severity := audit.SeverityInfo
		code := codes.OK
		attributes := map[string]any{}
		if err != nil {
			severity = audit.SeverityError
			if st, ok := status.FromError(err); ok {
				code = st.Code()
			} else {
				code = codes.Unknown
			}
			if reason := apperrors.ReasonFromStatus(err); reason != apperrors.CodeUnknown {
				attributes["reason"] = string(reason)
			}
		}
		if requestID := grpcmeta.RequestIDFromContext(ctx); requestID != "" {
			attributes["request_id"] = requestID
		}
		if invocationID := grpcmeta.InvocationIDFromContext(ctx); invocationID != "" {
			attributes["invocation_id"] = invocationID
		}
		if extra, ok := req.(auditAttributer); ok {
			for key, value := range extra.AuditAttributes() {
				attributes[key] = value
			}
		}

		var traceID, spanID string
		if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
			traceID = sc.TraceID().String()
			spanID = sc.SpanID().String()
		}

		emitErr := emitter.Emit(ctx, storage.AuditEvent{
			EventName:  eventNameForMethod(info.FullMethod),
			Severity:   string(severity),
			GameID:     extractGameID(req, resp),
			Method:     info.FullMethod,
			Code:       code.String(),
			TraceID:    traceID,
			SpanID:     spanID,
			Attributes: attributes,
		})
		if emitErr != nil {
			log.Printf("audit emit %s: %v", info.FullMethod, emitErr)
		}

		return resp, err
	}
}

type gameIDGetter interface {
	GetGameID() string
}

type auditAttributer interface {
	AuditAttributes() map[string]any
}

// extractGameID reads the game id from the request, falling back to the
// response for calls that create the game.
func extractGameID(req, resp any) string {
	if getter, ok := req.(gameIDGetter); ok {
		if gameID := strings.TrimSpace(getter.GetGameID()); gameID != "" {
			return gameID
		}
	}
	if getter, ok := resp.(gameIDGetter); ok {
		return strings.TrimSpace(getter.GetGameID())
	}
	return ""
}

func eventNameForMethod(fullMethod string) string {
	switch fullMethod {
	case game.GameService_CreateGame_FullMethodName:
		return events.GameCreate
	case game.GameService_OpenCell_FullMethodName:
		return events.GameOpen
	case game.GameService_ToggleFlag_FullMethodName:
		return events.GameFlag
	case game.GameService_ForceReveal_FullMethodName:
		return events.GameReveal
	default:
		return events.GameRead
	}
}
