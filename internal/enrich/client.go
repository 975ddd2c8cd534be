package enrich

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	"lyricdex/internal/lyric"
)

// Client enriches one record at a time. The runner can swap transport
// implementations behind this interface.
type Client interface {
	Enrich(ctx context.Context, r lyric.Record) (lyric.Record, error)
	Close() error
}

// GRPCClient dials a plugin over gRPC.
type GRPCClient struct {
	conn *grpc.ClientConn
}

func NewGRPCClient(target string, opts ...grpc.DialOption) (*GRPCClient, error) {
	if len(opts) == 0 {
		opts = append(opts, grpc.WithTransportCredentials(insecure.NewCredentials()))
	}
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, err
	}
	return &GRPCClient{conn: conn}, nil
}

func (c *GRPCClient) Enrich(ctx context.Context, r lyric.Record) (lyric.Record, error) {
	req, err := request(r)
	if err != nil {
		return r, err
	}
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, enrichMethod, req, out); err != nil {
		return r, err
	}
	return apply(r, out)
}

func (c *GRPCClient) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

func request(r lyric.Record) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		FieldContent: r.Content,
		FieldSong:    r.Song,
		FieldAlbum:   r.Album,
	})
}

// apply copies the converted strings onto a copy of r. Missing fields leave
// the Traditional value empty.
func apply(r lyric.Record, out *structpb.Struct) (lyric.Record, error) {
	get := func(name string) (string, error) {
		v, ok := out.GetFields()[name]
		if !ok {
			return "", nil
		}
		sv, ok := v.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return "", fmt.Errorf("enrich: field %q is not a string", name)
		}
		return sv.StringValue, nil
	}
	var err error
	if r.ContentTraditional, err = get(FieldContent); err != nil {
		return r, err
	}
	if r.SongTraditional, err = get(FieldSong); err != nil {
		return r, err
	}
	if r.AlbumTraditional, err = get(FieldAlbum); err != nil {
		return r, err
	}
	return r, nil
}

// InProcessClient adapts a Converter compiled into the binary.
type InProcessClient struct {
	srv *server
}

func NewInProcessClient(conv Converter) *InProcessClient {
	return &InProcessClient{srv: &server{conv: conv}}
}

func (c *InProcessClient) Enrich(ctx context.Context, r lyric.Record) (lyric.Record, error) {
	req, err := request(r)
	if err != nil {
		return r, err
	}
	out, err := c.srv.Enrich(ctx, req)
	if err != nil {
		return r, err
	}
	return apply(r, out)
}

func (c *InProcessClient) Close() error { return nil }
