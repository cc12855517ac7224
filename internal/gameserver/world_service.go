// Package gameserver exposes the world operations over gRPC. Requests and
// responses are google.protobuf.Struct messages whose shape follows the JSON
// form of the world types.
package gameserver

import (
	"context"
	"encoding/json"
	"maps"
	"slices"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/cory-johannsen/worldbible/internal/game/bible"
	"github.com/cory-johannsen/worldbible/internal/game/worlds"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "worldbible.v1.WorldService"

// Method names.
const (
	MethodGenerateWorld   = "GenerateWorld"
	MethodCreateCharacter = "CreateCharacter"
	MethodReadWorld       = "ReadWorld"
	MethodUpdateCharacter = "UpdateCharacter"
	MethodListWorlds      = "ListWorlds"
)

// WorldServiceServer is the server API for worldbible.v1.WorldService.
type WorldServiceServer interface {
	GenerateWorld(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateCharacter(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ReadWorld(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateCharacter(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListWorlds(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(WorldServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func methodDesc(name string, call unaryMethod) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(WorldServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(name)}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(srv.(WorldServiceServer), ctx, req.(*structpb.Struct))
			})
		},
	}
}

func fullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

// WorldServiceDesc describes worldbible.v1.WorldService for grpc.Server.RegisterService.
var WorldServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*WorldServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		methodDesc(MethodGenerateWorld, WorldServiceServer.GenerateWorld),
		methodDesc(MethodCreateCharacter, WorldServiceServer.CreateCharacter),
		methodDesc(MethodReadWorld, WorldServiceServer.ReadWorld),
		methodDesc(MethodUpdateCharacter, WorldServiceServer.UpdateCharacter),
		methodDesc(MethodListWorlds, WorldServiceServer.ListWorlds),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "worldbible/v1/world_service",
}

// RegisterWorldServiceServer registers srv on s.
func RegisterWorldServiceServer(s grpc.ServiceRegistrar, srv WorldServiceServer) {
	s.RegisterService(&WorldServiceDesc, srv)
}

// WorldServer implements WorldServiceServer on top of the world operations.
type WorldServer struct {
	svc    *worlds.Service
	logger *zap.Logger
}

// NewWorldServer creates a WorldServer.
//
// Precondition: svc and logger must be non-nil.
func NewWorldServer(svc *worlds.Service, logger *zap.Logger) *WorldServer {
	return &WorldServer{svc: svc, logger: logger}
}

// NewGRPCServer builds a grpc.Server serving ws and the standard health service.
//
// Postcondition: Both the overall server and ServiceName report SERVING.
func NewGRPCServer(ws *WorldServer, logger *zap.Logger, opts ...grpc.ServerOption) (*grpc.Server, *health.Server) {
	opts = append([]grpc.ServerOption{grpc.ChainUnaryInterceptor(LoggingInterceptor(logger))}, opts...)
	srv := grpc.NewServer(opts...)
	RegisterWorldServiceServer(srv, ws)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	return srv, hs
}

// LoggingInterceptor logs every unary call with its status code and duration.
func LoggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logger.Debug("grpc call",
			zap.String("method", info.FullMethod),
			zap.String("code", status.Code(err).String()),
			zap.Duration("elapsed", time.Since(start)),
		)
		return resp, err
	}
}

// GenerateWorld handles {"style": string} and returns {"world_id": string}.
func (s *WorldServer) GenerateWorld(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.AsMap()
	if err := onlyKeys(fields, "style"); err != nil {
		return nil, toStatus(err)
	}
	style, _ := fields["style"].(string)
	id, err := s.svc.GenerateWorld(ctx, style)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(map[string]string{"world_id": id})
}

// CreateCharacter handles {"world_id": string, "character": object}.
func (s *WorldServer) CreateCharacter(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.AsMap()
	if err := onlyKeys(fields, "world_id", "character"); err != nil {
		return nil, toStatus(err)
	}
	worldID, err := requireString(fields, "world_id")
	if err != nil {
		return nil, toStatus(err)
	}
	raw, err := requireObject(fields, "character")
	if err != nil {
		return nil, toStatus(err)
	}
	in, err := bible.DecodeCharacter(raw)
	if err != nil {
		return nil, toStatus(err)
	}
	created, err := s.svc.CreateCharacter(ctx, worldID, in)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(created)
}

// ReadWorld handles {"world_id": string} and returns the full world.
func (s *WorldServer) ReadWorld(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.AsMap()
	if err := onlyKeys(fields, "world_id"); err != nil {
		return nil, toStatus(err)
	}
	worldID, err := requireString(fields, "world_id")
	if err != nil {
		return nil, toStatus(err)
	}
	w, err := s.svc.ReadWorld(ctx, worldID)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(w)
}

// UpdateCharacter handles {"world_id": string, "name": string, "patch": object}
// and returns the updated character.
func (s *WorldServer) UpdateCharacter(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.AsMap()
	if err := onlyKeys(fields, "world_id", "name", "patch"); err != nil {
		return nil, toStatus(err)
	}
	worldID, err := requireString(fields, "world_id")
	if err != nil {
		return nil, toStatus(err)
	}
	name, err := requireString(fields, "name")
	if err != nil {
		return nil, toStatus(err)
	}
	raw, err := requireObject(fields, "patch")
	if err != nil {
		return nil, toStatus(err)
	}
	patch, err := bible.DecodeCharacterPatch(raw)
	if err != nil {
		return nil, toStatus(err)
	}
	c, err := s.svc.UpdateCharacter(ctx, worldID, name, patch)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(c)
}

// ListWorlds returns {"worlds": [summary...]}.
func (s *WorldServer) ListWorlds(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := onlyKeys(req.AsMap()); err != nil {
		return nil, toStatus(err)
	}
	list, err := s.svc.ListWorlds(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(map[string]any{"worlds": list})
}

func onlyKeys(fields map[string]any, allowed ...string) error {
	for _, key := range slices.Sorted(maps.Keys(fields)) {
		if !slices.Contains(allowed, key) {
			return bible.NewError(bible.KindUnknownField, "request."+key, "unknown request field %q", key)
		}
	}
	return nil
}

func requireString(fields map[string]any, key string) (string, error) {
	v, ok := fields[key].(string)
	if !ok || v == "" {
		return "", bible.NewError(bible.KindMissingField, key, "%s is required and must be a string", key)
	}
	return v, nil
}

func requireObject(fields map[string]any, key string) (map[string]any, error) {
	v, ok := fields[key].(map[string]any)
	if !ok {
		return nil, bible.NewError(bible.KindMissingField, key, "%s is required and must be an object", key)
	}
	return v, nil
}

// toStruct converts v to a Struct through its JSON encoding.
func toStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encoding response: %v", err)
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(data, out); err != nil {
		return nil, status.Errorf(codes.Internal, "encoding response: %v", err)
	}
	return out, nil
}
