package game

import (
	"context"

	"google.golang.org/grpc"

	platformgrpc "github.com/louisbranch/minefield/internal/platform/grpc"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "minefield.game.v1.GameService"

// Full method names, used by interceptors and clients.
const (
	GameService_CreateGame_FullMethodName  = "/" + ServiceName + "/CreateGame"
	GameService_GetGame_FullMethodName     = "/" + ServiceName + "/GetGame"
	GameService_OpenCell_FullMethodName    = "/" + ServiceName + "/OpenCell"
	GameService_ToggleFlag_FullMethodName  = "/" + ServiceName + "/ToggleFlag"
	GameService_ForceReveal_FullMethodName = "/" + ServiceName + "/ForceReveal"
	GameService_ListGames_FullMethodName   = "/" + ServiceName + "/ListGames"
	GameService_ListEvents_FullMethodName  = "/" + ServiceName + "/ListEvents"
)

// GameServiceServer is the server API for GameService.
type GameServiceServer interface {
	CreateGame(context.Context, *CreateGameRequest) (*CreateGameResponse, error)
	GetGame(context.Context, *GetGameRequest) (*GameResponse, error)
	OpenCell(context.Context, *CellRequest) (*GameResponse, error)
	ToggleFlag(context.Context, *CellRequest) (*GameResponse, error)
	ForceReveal(context.Context, *ForceRevealRequest) (*GameResponse, error)
	ListGames(context.Context, *ListGamesRequest) (*ListGamesResponse, error)
	ListEvents(context.Context, *ListEventsRequest) (*ListEventsResponse, error)
}

// RegisterGameServiceServer registers srv on s.
func RegisterGameServiceServer(s grpc.ServiceRegistrar, srv GameServiceServer) {
	s.RegisterService(&GameService_ServiceDesc, srv)
}

// GameService_ServiceDesc describes GameService for grpc.Server. Messages
// travel as JSON through the codec registered by internal/platform/grpc.
var GameService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*GameServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateGame", Handler: unaryHandler(GameService_CreateGame_FullMethodName, GameServiceServer.CreateGame)},
		{MethodName: "GetGame", Handler: unaryHandler(GameService_GetGame_FullMethodName, GameServiceServer.GetGame)},
		{MethodName: "OpenCell", Handler: unaryHandler(GameService_OpenCell_FullMethodName, GameServiceServer.OpenCell)},
		{MethodName: "ToggleFlag", Handler: unaryHandler(GameService_ToggleFlag_FullMethodName, GameServiceServer.ToggleFlag)},
		{MethodName: "ForceReveal", Handler: unaryHandler(GameService_ForceReveal_FullMethodName, GameServiceServer.ForceReveal)},
		{MethodName: "ListGames", Handler: unaryHandler(GameService_ListGames_FullMethodName, GameServiceServer.ListGames)},
		{MethodName: "ListEvents", Handler: unaryHandler(GameService_ListEvents_FullMethodName, GameServiceServer.ListEvents)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "minefield/game/v1/game.proto",
}

// unaryHandler adapts a typed server method to grpc.MethodHandler.
func unaryHandler[Req any, Resp any](fullMethod string, call func(GameServiceServer, context.Context, *Req) (Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(GameServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(GameServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// GameServiceClient calls GameService over a client connection.
type GameServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewGameServiceClient creates a client bound to cc.
func NewGameServiceClient(cc grpc.ClientConnInterface) *GameServiceClient {
	return &GameServiceClient{cc: cc}
}

func (c *GameServiceClient) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	callOpts := make([]grpc.CallOption, 0, len(opts)+1)
	callOpts = append(callOpts, grpc.CallContentSubtype(platformgrpc.JSONCodecName))
	callOpts = append(callOpts, opts...)
	return c.cc.Invoke(ctx, method, in, out, callOpts...)
}

// CreateGame starts a new game.
func (c *GameServiceClient) CreateGame(ctx context.Context, in *CreateGameRequest, opts ...grpc.CallOption) (*CreateGameResponse, error) {
	out := new(CreateGameResponse)
	if err := c.invoke(ctx, GameService_CreateGame_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

// GetGame reads a game.
func (c *GameServiceClient) GetGame(ctx context.Context, in *GetGameRequest, opts ...grpc.CallOption) (*GameResponse, error) {
	out := new(GameResponse)
	if err := c.invoke(ctx, GameService_GetGame_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

// OpenCell opens one cell.
func (c *GameServiceClient) OpenCell(ctx context.Context, in *CellRequest, opts ...grpc.CallOption) (*GameResponse, error) {
	out := new(GameResponse)
	if err := c.invoke(ctx, GameService_OpenCell_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

// ToggleFlag places or removes a flag.
func (c *GameServiceClient) ToggleFlag(ctx context.Context, in *CellRequest, opts ...grpc.CallOption) (*GameResponse, error) {
	out := new(GameResponse)
	if err := c.invoke(ctx, GameService_ToggleFlag_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

// ForceReveal gives up a game and reveals the board.
func (c *GameServiceClient) ForceReveal(ctx context.Context, in *ForceRevealRequest, opts ...grpc.CallOption) (*GameResponse, error) {
	out := new(GameResponse)
	if err := c.invoke(ctx, GameService_ForceReveal_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

// ListGames pages through games.
func (c *GameServiceClient) ListGames(ctx context.Context, in *ListGamesRequest, opts ...grpc.CallOption) (*ListGamesResponse, error) {
	out := new(ListGamesResponse)
	if err := c.invoke(ctx, GameService_ListGames_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

// ListEvents pages through the audit journal.
func (c *GameServiceClient) ListEvents(ctx context.Context, in *ListEventsRequest, opts ...grpc.CallOption) (*ListEventsResponse, error) {
	out := new(ListEventsResponse)
	if err := c.invoke(ctx, GameService_ListEvents_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}
