package game

import (
	"context"
	"fmt"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/message"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	apperrors "github.com/louisbranch/minefield/internal/platform/errors"
	"github.com/louisbranch/minefield/internal/platform/grpc/pagination"
	"github.com/louisbranch/minefield/internal/platform/id"
	"github.com/louisbranch/minefield/internal/random"
	grpcmeta "github.com/louisbranch/minefield/internal/services/game/api/grpc/metadata"
	"github.com/louisbranch/minefield/internal/services/game/domain/board"
	"github.com/louisbranch/minefield/internal/services/game/domain/grant"
	gamei18n "github.com/louisbranch/minefield/internal/services/game/i18n"
	"github.com/louisbranch/minefield/internal/services/game/storage"
	"github.com/louisbranch/minefield/internal/storage/cursor"
)

const tracerName = "github.com/louisbranch/minefield/internal/services/game/api/grpc/game"

// DefaultMaxDimension caps board size when Deps leaves it unset.
const DefaultMaxDimension = 64

var listGamesPageSize = pagination.PageSizeConfig{Default: 10, Max: 50}

// Deps wires a GameService.
type Deps struct {
	// Registry holds live games. A nil registry gets a fresh one.
	Registry *Registry
	// Audit backs ListEvents. ListEvents fails when it is nil.
	Audit storage.AuditEventStore
	// Grants signs and verifies player grants. A disabled config skips them.
	Grants grant.Config
	// MaxDimension caps CreateGame. Zero means DefaultMaxDimension.
	MaxDimension int
	// SeedFunc draws server seeds. Nil means random.NewSeed.
	SeedFunc random.SeedFunc
	// IDGenerator names games and grants. Nil means id.NewID.
	IDGenerator func() (string, error)
}

// GameService implements the minefield.game.v1.GameService gRPC API.
type GameService struct {
	registry     *Registry
	audit        storage.AuditEventStore
	grants       grant.Config
	maxDimension int
	seedFunc     random.SeedFunc
	newID        func() (string, error)
	tracer       trace.Tracer
}

var _ GameServiceServer = (*GameService)(nil)

// NewGameService creates a GameService with the provided dependencies.
func NewGameService(deps Deps) *GameService {
	svc := &GameService{
		registry:     deps.Registry,
		audit:        deps.Audit,
		grants:       deps.Grants,
		maxDimension: deps.MaxDimension,
		seedFunc:     deps.SeedFunc,
		newID:        deps.IDGenerator,
		tracer:       otel.Tracer(tracerName),
	}
	if svc.registry == nil {
		svc.registry = NewRegistry()
	}
	if svc.maxDimension <= 0 {
		svc.maxDimension = DefaultMaxDimension
	}
	if svc.seedFunc == nil {
		svc.seedFunc = random.NewSeed
	}
	if svc.newID == nil {
		svc.newID = id.NewID
	}
	return svc
}

// CreateGame starts a game on a fresh layout and hands out its player grant.
func (s *GameService) CreateGame(ctx context.Context, in *CreateGameRequest) (*CreateGameResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "create game request is required")
	}
	locale := grpcmeta.LocaleFromContext(ctx)
	_, span := s.tracer.Start(ctx, "GameService.CreateGame", trace.WithAttributes(
		attribute.Int("minefield.dimension", int(in.Dimension)),
	))
	defer span.End()

	dimension := int(in.Dimension)
	if dimension > s.maxDimension {
		err := apperrors.WithMetadata(apperrors.CodeGameDimensionTooLarge, "dimension exceeds service maximum", map[string]string{
			"Dimension": strconv.Itoa(dimension),
			"Max":       strconv.Itoa(s.maxDimension),
		})
		return nil, s.fail(span, err, locale)
	}

	seed, seedSource, err := random.ResolveSeed(in.Seed, s.seedFunc)
	if err != nil {
		return nil, s.fail(span, fmt.Errorf("resolve seed: %w", err), locale)
	}
	engine, err := board.New(dimension, seed)
	if err != nil {
		return nil, s.fail(span, err, locale)
	}
	gameID, err := s.newID()
	if err != nil {
		return nil, s.fail(span, fmt.Errorf("generate game id: %w", err), locale)
	}

	var token string
	if s.grants.Enabled() {
		jti, err := s.newID()
		if err != nil {
			return nil, s.fail(span, fmt.Errorf("generate grant id: %w", err), locale)
		}
		token, _, err = grant.Issue(s.grants, gameID, jti)
		if err != nil {
			return nil, s.fail(span, err, locale)
		}
	}

	sess := s.registry.add(gameID, engine)
	snap := sess.snapshot()
	span.SetAttributes(
		attribute.String("minefield.game_id", gameID),
		attribute.String("minefield.seed_source", seedSource),
		attribute.String("minefield.phase", snap.Phase.String()),
	)

	return &CreateGameResponse{
		Game:        gameToResponse(gameID, sess.createdAt, snap, printerFor(locale)),
		Seed:        seed,
		SeedSource:  seedSource,
		PlayerGrant: token,
	}, nil
}

// GetGame returns the current view of a game.
func (s *GameService) GetGame(ctx context.Context, in *GetGameRequest) (*GameResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "get game request is required")
	}
	locale := grpcmeta.LocaleFromContext(ctx)
	gameID := in.GetGameID()
	if gameID == "" {
		return nil, apperrors.HandleError(apperrors.New(apperrors.CodeGameIDRequired, "game id is required"), locale)
	}
	sess, err := s.registry.get(gameID)
	if err != nil {
		return nil, apperrors.HandleError(err, locale)
	}
	return &GameResponse{Game: gameToResponse(gameID, sess.createdAt, sess.snapshot(), printerFor(locale))}, nil
}

// OpenCell opens one cell.
func (s *GameService) OpenCell(ctx context.Context, in *CellRequest) (*GameResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "open cell request is required")
	}
	pos := board.Position{Row: int(in.Row), Col: int(in.Col)}
	return s.command(ctx, "GameService.OpenCell", in.GetGameID(), in.PlayerGrant, func(e *board.Engine) (board.Snapshot, error) {
		return e.Open(pos)
	}, attribute.Int("minefield.row", pos.Row), attribute.Int("minefield.col", pos.Col))
}

// ToggleFlag places or removes a flag on one cell.
func (s *GameService) ToggleFlag(ctx context.Context, in *CellRequest) (*GameResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "toggle flag request is required")
	}
	pos := board.Position{Row: int(in.Row), Col: int(in.Col)}
	return s.command(ctx, "GameService.ToggleFlag", in.GetGameID(), in.PlayerGrant, func(e *board.Engine) (board.Snapshot, error) {
		return e.ToggleFlag(pos)
	}, attribute.Int("minefield.row", pos.Row), attribute.Int("minefield.col", pos.Col))
}

// ForceReveal gives up the game and reveals every cell.
func (s *GameService) ForceReveal(ctx context.Context, in *ForceRevealRequest) (*GameResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "force reveal request is required")
	}
	return s.command(ctx, "GameService.ForceReveal", in.GetGameID(), in.PlayerGrant, func(e *board.Engine) (board.Snapshot, error) {
		return e.ForceReveal(), nil
	})
}

// command runs fn against the engine of gameID under its session lock after
// checking the player grant.
func (s *GameService) command(
	ctx context.Context,
	spanName string,
	gameID string,
	token string,
	fn func(*board.Engine) (board.Snapshot, error),
	attrs ...attribute.KeyValue,
) (*GameResponse, error) {
	locale := grpcmeta.LocaleFromContext(ctx)
	_, span := s.tracer.Start(ctx, spanName, trace.WithAttributes(
		append(attrs, attribute.String("minefield.game_id", gameID))...,
	))
	defer span.End()

	if gameID == "" {
		return nil, s.fail(span, apperrors.New(apperrors.CodeGameIDRequired, "game id is required"), locale)
	}
	sess, err := s.registry.get(gameID)
	if err != nil {
		return nil, s.fail(span, err, locale)
	}
	if s.grants.Enabled() {
		if _, err := grant.Validate(s.grants, token, gameID); err != nil {
			return nil, s.fail(span, err, locale)
		}
	}

	var snap board.Snapshot
	err = sess.with(func(e *board.Engine) error {
		var err error
		snap, err = fn(e)
		return err
	})
	if err != nil {
		return nil, s.fail(span, err, locale)
	}
	span.SetAttributes(attribute.String("minefield.phase", snap.Phase.String()))

	return &GameResponse{Game: gameToResponse(gameID, sess.createdAt, snap, printerFor(locale))}, nil
}

// ListGames returns games in creation order.
func (s *GameService) ListGames(ctx context.Context, in *ListGamesRequest) (*ListGamesResponse, error) {
	if in == nil {
		in = &ListGamesRequest{}
	}
	locale := grpcmeta.LocaleFromContext(ctx)
	pageSize := pagination.ClampPageSize(in.PageSize, listGamesPageSize)

	var afterSeq uint64
	if in.PageToken != "" {
		c, err := cursor.Decode(in.PageToken, cursor.ScopeGames)
		if err != nil {
			return nil, apperrors.HandleError(apperrors.Wrap(apperrors.CodePageTokenInvalid, "invalid page token", err), locale)
		}
		afterSeq = c.Seq
	}

	sessions, more := s.registry.page(afterSeq, pageSize)
	response := &ListGamesResponse{
		Games:     make([]*GameSummary, 0, len(sessions)),
		TotalSize: int32(s.registry.Len()),
	}
	for _, sess := range sessions {
		response.Games = append(response.Games, gameToSummary(sess.id, sess.createdAt, sess.snapshot()))
	}
	if more && len(sessions) > 0 {
		token, err := cursor.Encode(cursor.NewNextPageCursor(cursor.ScopeGames, sessions[len(sessions)-1].seq, ""))
		if err == nil {
			response.NextPageToken = token
		}
	}
	return response, nil
}

func (s *GameService) fail(span trace.Span, err error, locale string) error {
	span.RecordError(err)
	span.SetStatus(otelcodes.Error, err.Error())
	return apperrors.HandleError(err, locale)
}

func printerFor(locale string) *message.Printer {
	return gamei18n.Printer(gamei18n.ResolveTag(locale))
}
