package rpc

import (
	"context"

	"google.golang.org/grpc"
)

// RecordStream is the client side of a record stream. Recv returns io.EOF
// once the service has sent every record.
type RecordStream interface {
	Recv() (*RecordResponse, error)
}

// PhoneBookClient is a typed stub over a client connection. The connection
// must apply grpc.ForceCodec(Codec{}) to its calls.
type PhoneBookClient struct {
	cc grpc.ClientConnInterface
}

func NewPhoneBookClient(cc grpc.ClientConnInterface) *PhoneBookClient {
	return &PhoneBookClient{cc: cc}
}

func (c *PhoneBookClient) AddRecord(ctx context.Context, in *RecordRequest, opts ...grpc.CallOption) (*CodeResponse, error) {
	out := new(CodeResponse)
	if err := c.cc.Invoke(ctx, FullMethod(MethodAddRecord), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *PhoneBookClient) DeleteRecordByID(ctx context.Context, in *IDRequest, opts ...grpc.CallOption) (*CodeResponse, error) {
	out := new(CodeResponse)
	if err := c.cc.Invoke(ctx, FullMethod(MethodDeleteRecordByID), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *PhoneBookClient) DeleteRecordByNumber(ctx context.Context, in *TextRequest, opts ...grpc.CallOption) (*CodeResponse, error) {
	out := new(CodeResponse)
	if err := c.cc.Invoke(ctx, FullMethod(MethodDeleteRecordByNumber), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// FindRecord performs one of the single-record lookups (FindRecordById,
// FindRecordByNumber).
func (c *PhoneBookClient) FindRecord(ctx context.Context, method string, in Message, opts ...grpc.CallOption) (*RecordResponse, error) {
	out := new(RecordResponse)
	if err := c.cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// FindRecords opens one of the server-streaming lookups and sends its only
// request.
func (c *PhoneBookClient) FindRecords(ctx context.Context, method string, in *TextRequest, opts ...grpc.CallOption) (RecordStream, error) {
	desc := &grpc.StreamDesc{StreamName: method, ServerStreams: true}
	cs, err := c.cc.NewStream(ctx, desc, FullMethod(method), opts...)
	if err != nil {
		return nil, err
	}
	if err := cs.SendMsg(in); err != nil {
		return nil, err
	}
	if err := cs.CloseSend(); err != nil {
		return nil, err
	}
	return &clientRecordStream{cs: cs}, nil
}

type clientRecordStream struct {
	cs grpc.ClientStream
}

func (s *clientRecordStream) Recv() (*RecordResponse, error) {
	m := new(RecordResponse)
	if err := s.cs.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}
