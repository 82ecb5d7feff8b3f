package game

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	apperrors "github.com/louisbranch/minefield/internal/platform/errors"
	"github.com/louisbranch/minefield/internal/platform/grpc/pagination"
	"github.com/louisbranch/minefield/internal/services/game/core/filter"
	grpcmeta "github.com/louisbranch/minefield/internal/services/game/api/grpc/metadata"
	"github.com/louisbranch/minefield/internal/services/game/storage"
	"github.com/louisbranch/minefield/internal/storage/cursor"
)

const (
	defaultListEventsPageSize = 50
	maxListEventsPageSize     = 200
)

type normalizedListEventsRequest struct {
	gameID       string
	pageSize     int
	filterStr    string
	filterKey    string
	afterSeq     uint64
	filterClause string
	filterParams []any
}

// ListEvents returns one page of the audit journal, optionally scoped to a
// game and narrowed by an AIP-160 filter.
func (s *GameService) ListEvents(ctx context.Context, in *ListEventsRequest) (*ListEventsResponse, error) {
	if s.audit == nil {
		return nil, status.Error(codes.FailedPrecondition, "audit journal is not configured")
	}
	locale := grpcmeta.LocaleFromContext(ctx)
	normalized, err := normalizeListEventsRequest(in)
	if err != nil {
		return nil, apperrors.HandleError(err, locale)
	}

	result, err := s.audit.ListAuditEvents(ctx, storage.ListAuditEventsRequest{
		GameID:       normalized.gameID,
		AfterSeq:     normalized.afterSeq,
		PageSize:     normalized.pageSize,
		FilterClause: normalized.filterClause,
		FilterParams: normalized.filterParams,
	})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "list events: %v", err)
	}

	response := &ListEventsResponse{
		Events:    make([]*AuditEvent, 0, len(result.Events)),
		TotalSize: int32(result.TotalCount),
	}
	for _, evt := range result.Events {
		response.Events = append(response.Events, auditEventToResponse(evt))
	}
	if result.HasMore && len(result.Events) > 0 {
		lastSeq := result.Events[len(result.Events)-1].Seq
		token, err := cursor.Encode(cursor.NewNextPageCursor(cursor.ScopeEvents, lastSeq, normalized.filterKey))
		if err == nil {
			response.NextPageToken = token
		}
	}
	return response, nil
}

func normalizeListEventsRequest(in *ListEventsRequest) (normalizedListEventsRequest, error) {
	if in == nil {
		in = &ListEventsRequest{}
	}
	normalized := normalizedListEventsRequest{
		gameID:    in.GetGameID(),
		filterStr: in.Filter,
		pageSize: pagination.ClampPageSize(in.PageSize, pagination.PageSizeConfig{
			Default: defaultListEventsPageSize,
			Max:     maxListEventsPageSize,
		}),
	}
	// The game scope is part of the cursor key so a token cannot be replayed
	// against another game's journal.
	normalized.filterKey = normalized.gameID + "\x00" + normalized.filterStr

	if in.PageToken != "" {
		c, err := cursor.Decode(in.PageToken, cursor.ScopeEvents)
		if err != nil {
			return normalizedListEventsRequest{}, apperrors.Wrap(apperrors.CodePageTokenInvalid, "invalid page token", err)
		}
		if err := cursor.ValidateFilterHash(c, normalized.filterKey); err != nil {
			return normalizedListEventsRequest{}, apperrors.Wrap(apperrors.CodePageTokenInvalid, "invalid page token", err)
		}
		normalized.afterSeq = c.Seq
	}

	cond, err := filter.ParseAuditFilter(normalized.filterStr)
	if err != nil {
		return normalizedListEventsRequest{}, apperrors.Wrap(apperrors.CodeFilterInvalid, "invalid filter", err)
	}
	normalized.filterClause = cond.Clause
	normalized.filterParams = cond.Params
	return normalized, nil
}
