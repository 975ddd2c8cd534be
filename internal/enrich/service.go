package enrich

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	serviceName  = "lyricdex.enrich.v1.Enricher"
	enrichMethod = "/" + serviceName + "/Enrich"
)

// Fields carried in both directions.
const (
	FieldContent = "content"
	FieldSong    = "song"
	FieldAlbum   = "album"
)

var fields = []string{FieldContent, FieldSong, FieldAlbum}

// Converter is the plugin side: convert one string.
type Converter interface {
	Convert(ctx context.Context, text string) (string, error)
}

// ConverterFunc adapts a plain function to Converter.
type ConverterFunc func(ctx context.Context, text string) (string, error)

func (f ConverterFunc) Convert(ctx context.Context, text string) (string, error) { return f(ctx, text) }

// EnricherServer is the handler type registered with grpc.
type EnricherServer interface {
	Enrich(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type server struct{ conv Converter }

// Register exposes conv on s.
func Register(s grpc.ServiceRegistrar, conv Converter) {
	s.RegisterService(&serviceDesc, &server{conv: conv})
}

func (s *server) Enrich(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		v, ok := in.GetFields()[f]
		if !ok {
			continue
		}
		sv, ok := v.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return nil, status.Errorf(codes.InvalidArgument, "field %q: want string", f)
		}
		conv, err := s.conv.Convert(ctx, sv.StringValue)
		if err != nil {
			return nil, status.Errorf(codes.Internal, "convert %s: %v", f, err)
		}
		out[f] = conv
	}
	return structpb.NewStruct(out)
}

func enrichHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(EnricherServer).Enrich(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: enrichMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(EnricherServer).Enrich(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*EnricherServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Enrich", Handler: enrichHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "lyricdex/enrich/v1/enrich.proto",
}
