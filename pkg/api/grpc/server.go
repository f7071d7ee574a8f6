// Package grpcapi serves the calculator over gRPC.
//
// The service is described by a hand-written grpc.ServiceDesc over protobuf
// well-known types, so no generated code is needed on either side:
//
//	service Calculator {
//	  rpc Solve(google.protobuf.StringValue) returns (google.protobuf.DoubleValue);
//	  rpc Postfix(google.protobuf.StringValue) returns (google.protobuf.ListValue);
//	}
package grpcapi

import (
	"context"
	"fmt"
	"net"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/lemonberrylabs/shuntcalc/pkg/config"
	"github.com/lemonberrylabs/shuntcalc/pkg/keypad"
	"github.com/lemonberrylabs/shuntcalc/pkg/shunt"
)

// Service and method names.
const (
	ServiceName   = "shuntcalc.v1.Calculator"
	solveMethod   = "/" + ServiceName + "/Solve"
	postfixMethod = "/" + ServiceName + "/Postfix"

	// ErrorDomain is the errdetails.ErrorInfo domain attached to evaluation
	// errors. The reason is the shunt.ErrorKind name.
	ErrorDomain = "shuntcalc"
)

// CalculatorServer is the server API for the Calculator service.
type CalculatorServer interface {
	Solve(context.Context, *wrapperspb.StringValue) (*wrapperspb.DoubleValue, error)
	Postfix(context.Context, *wrapperspb.StringValue) (*structpb.ListValue, error)
}

// Server implements CalculatorServer.
type Server struct {
	cfg  config.Config
	grpc *grpc.Server
}

// New creates a new gRPC server.
func New(cfg config.Config, opts ...grpc.ServerOption) *Server {
	srv := &Server{cfg: cfg}
	gs := grpc.NewServer(opts...)
	RegisterCalculatorServer(gs, srv)
	srv.grpc = gs
	return srv
}

// Serve starts listening on the given address and serves gRPC requests.
func (s *Server) Serve(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("grpc listen: %w", err)
	}
	return s.grpc.Serve(lis)
}

// ServeListener serves gRPC requests on an existing listener.
func (s *Server) ServeListener(lis net.Listener) error {
	return s.grpc.Serve(lis)
}

// GracefulStop gracefully stops the gRPC server.
func (s *Server) GracefulStop() {
	s.grpc.GracefulStop()
}

// Stop stops the gRPC server immediately.
func (s *Server) Stop() {
	s.grpc.Stop()
}

// Solve evaluates an expression.
func (s *Server) Solve(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.DoubleValue, error) {
	expr, err := s.expression(req)
	if err != nil {
		return nil, err
	}
	v, err := shunt.Solve(expr)
	if err != nil {
		return nil, evalStatus(err)
	}
	return wrapperspb.Double(v), nil
}

// Postfix returns the postfix lexemes of an expression.
func (s *Server) Postfix(ctx context.Context, req *wrapperspb.StringValue) (*structpb.ListValue, error) {
	expr, err := s.expression(req)
	if err != nil {
		return nil, err
	}
	tokens, err := shunt.ShuntString(expr)
	if err != nil {
		return nil, evalStatus(err)
	}
	values := make([]*structpb.Value, len(tokens))
	for i, tok := range tokens {
		values[i] = structpb.NewStringValue(tok.String())
	}
	return &structpb.ListValue{Values: values}, nil
}

func (s *Server) expression(req *wrapperspb.StringValue) (string, error) {
	expr := req.GetValue()
	if len(expr) > s.cfg.MaxExpressionLength {
		return "", status.Errorf(codes.InvalidArgument, "expression exceeds maximum length of %d characters", s.cfg.MaxExpressionLength)
	}
	return keypad.Normalize(expr), nil
}

// evalStatus converts an evaluation error into a gRPC status carrying an
// ErrorInfo detail with the error kind.
func evalStatus(err error) error {
	kind, ok := shunt.KindOf(err)
	if !ok {
		return status.Error(codes.Internal, err.Error())
	}

	code := codes.InvalidArgument
	switch kind {
	case shunt.DivideByZero:
		code = codes.OutOfRange
	case shunt.InternalError:
		code = codes.Internal
	}

	st := status.New(code, err.Error())
	detailed, derr := st.WithDetails(&errdetails.ErrorInfo{
		Reason: kind.String(),
		Domain: ErrorDomain,
	})
	if derr != nil {
		return st.Err()
	}
	return detailed.Err()
}

// RegisterCalculatorServer registers srv on s.
func RegisterCalculatorServer(s grpc.ServiceRegistrar, srv CalculatorServer) {
	s.RegisterService(&calculatorServiceDesc, srv)
}

var calculatorServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CalculatorServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Solve", Handler: solveHandler},
		{MethodName: "Postfix", Handler: postfixHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "shuntcalc/v1/calculator.proto",
}

func solveHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CalculatorServer).Solve(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: solveMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CalculatorServer).Solve(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func postfixHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CalculatorServer).Postfix(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: postfixMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CalculatorServer).Postfix(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}
