package grpcapi

import (
	"context"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Client calls the Calculator service.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps a client connection.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Solve evaluates expr on the server.
func (c *Client) Solve(ctx context.Context, expr string, opts ...grpc.CallOption) (float64, error) {
	out := new(wrapperspb.DoubleValue)
	if err := c.cc.Invoke(ctx, solveMethod, wrapperspb.String(expr), out, opts...); err != nil {
		return 0, err
	}
	return out.GetValue(), nil
}

// Postfix returns the postfix lexemes of expr.
func (c *Client) Postfix(ctx context.Context, expr string, opts ...grpc.CallOption) ([]string, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, postfixMethod, wrapperspb.String(expr), out, opts...); err != nil {
		return nil, err
	}
	lexemes := make([]string, len(out.GetValues()))
	for i, v := range out.GetValues() {
		lexemes[i] = v.GetStringValue()
	}
	return lexemes, nil
}

// ErrorKind returns the evaluation error kind carried by a status error, or
// "" if err has none.
func ErrorKind(err error) string {
	st, ok := status.FromError(err)
	if !ok {
		return ""
	}
	for _, d := range st.Details() {
		if info, ok := d.(*errdetails.ErrorInfo); ok && info.GetDomain() == ErrorDomain {
			return info.GetReason()
		}
	}
	return ""
}
