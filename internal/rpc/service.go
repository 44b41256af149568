package rpc

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "phone_book_proto.PhoneBookConnection"

// Method names as declared in api/connection.proto.
const (
	MethodAddRecord               = "AddRecord"
	MethodDeleteRecordByID        = "DeleteRecordById"
	MethodDeleteRecordByNumber    = "DeleteRecordByNumber"
	MethodFindRecordByID          = "FindRecordById"
	MethodFindRecordByNumber      = "FindRecordByNumber"
	MethodFindRecordsByName       = "FindRecordsByName"
	MethodFindRecordsBySurname    = "FindRecordsBySurname"
	MethodFindRecordsByPatronymic = "FindRecordsByPatronymic"
	MethodFindRecordsByNote       = "FindRecordsByNote"
)

func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// RecordSender is the server side of a record stream.
type RecordSender interface {
	Send(*RecordResponse) error
	Context() context.Context
}

// PhoneBookServer is the service as seen by an implementation. The client
// never implements it; tests do.
type PhoneBookServer interface {
	AddRecord(context.Context, *RecordRequest) (*CodeResponse, error)
	DeleteRecordById(context.Context, *IDRequest) (*CodeResponse, error)
	DeleteRecordByNumber(context.Context, *TextRequest) (*CodeResponse, error)
	FindRecordById(context.Context, *IDRequest) (*RecordResponse, error)
	FindRecordByNumber(context.Context, *TextRequest) (*RecordResponse, error)
	FindRecordsByName(*TextRequest, RecordSender) error
	FindRecordsBySurname(*TextRequest, RecordSender) error
	FindRecordsByPatronymic(*TextRequest, RecordSender) error
	FindRecordsByNote(*TextRequest, RecordSender) error
}

// RegisterPhoneBookServer attaches srv to s. The server must be created
// with grpc.ForceServerCodec(Codec{}).
func RegisterPhoneBookServer(s grpc.ServiceRegistrar, srv PhoneBookServer) {
	s.RegisterService(&serviceDesc, srv)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PhoneBookServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod(MethodAddRecord, func() Message { return new(RecordRequest) },
			func(s PhoneBookServer, ctx context.Context, req Message) (any, error) {
				return s.AddRecord(ctx, req.(*RecordRequest))
			}),
		unaryMethod(MethodDeleteRecordByID, func() Message { return new(IDRequest) },
			func(s PhoneBookServer, ctx context.Context, req Message) (any, error) {
				return s.DeleteRecordById(ctx, req.(*IDRequest))
			}),
		unaryMethod(MethodDeleteRecordByNumber, func() Message { return new(TextRequest) },
			func(s PhoneBookServer, ctx context.Context, req Message) (any, error) {
				return s.DeleteRecordByNumber(ctx, req.(*TextRequest))
			}),
		unaryMethod(MethodFindRecordByID, func() Message { return new(IDRequest) },
			func(s PhoneBookServer, ctx context.Context, req Message) (any, error) {
				return s.FindRecordById(ctx, req.(*IDRequest))
			}),
		unaryMethod(MethodFindRecordByNumber, func() Message { return new(TextRequest) },
			func(s PhoneBookServer, ctx context.Context, req Message) (any, error) {
				return s.FindRecordByNumber(ctx, req.(*TextRequest))
			}),
	},
	Streams: []grpc.StreamDesc{
		recordStream(MethodFindRecordsByName, PhoneBookServer.FindRecordsByName),
		recordStream(MethodFindRecordsBySurname, PhoneBookServer.FindRecordsBySurname),
		recordStream(MethodFindRecordsByPatronymic, PhoneBookServer.FindRecordsByPatronymic),
		recordStream(MethodFindRecordsByNote, PhoneBookServer.FindRecordsByNote),
	},
	Metadata: "connection.proto",
}

func unaryMethod(method string, newReq func() Message, call func(PhoneBookServer, context.Context, Message) (any, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			req := newReq()
			if err := dec(req); err != nil {
				return nil, err
			}
			s := srv.(PhoneBookServer)
			if interceptor == nil {
				return call(s, ctx, req)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
			return interceptor(ctx, req, info, func(ctx context.Context, req any) (any, error) {
				return call(s, ctx, req.(Message))
			})
		},
	}
}

func recordStream(method string, call func(PhoneBookServer, *TextRequest, RecordSender) error) grpc.StreamDesc {
	return grpc.StreamDesc{
		StreamName:    method,
		ServerStreams: true,
		Handler: func(srv any, stream grpc.ServerStream) error {
			req := new(TextRequest)
			if err := stream.RecvMsg(req); err != nil {
				return err
			}
			return call(srv.(PhoneBookServer), req, recordSender{stream})
		},
	}
}

type recordSender struct {
	grpc.ServerStream
}

func (s recordSender) Send(r *RecordResponse) error {
	return s.ServerStream.SendMsg(r)
}
