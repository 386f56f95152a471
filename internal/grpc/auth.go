package grpc

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const serviceTokenHeader = "x-service-token"

// NewServiceAuthUnaryInterceptor rejects calls that do not carry the shared
// service token. Methods listed in public skip the check.
func NewServiceAuthUnaryInterceptor(expectedToken string, public ...string) (grpc.UnaryServerInterceptor, error) {
	if expectedToken == "" {
		return nil, errors.New("service auth token required")
	}
	open := make(map[string]struct{}, len(public))
	for _, method := range public {
		open[method] = struct{}{}
	}
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if _, ok := open[info.FullMethod]; ok {
			return handler(ctx, req)
		}
		token := serviceTokenFromMetadata(ctx)
		if token == "" {
			return nil, status.Error(codes.Unauthenticated, "missing_service_token")
		}
		if subtle.ConstantTimeCompare([]byte(token), []byte(expectedToken)) != 1 {
			ctxlog.From(ctx).Warn("grpc call with invalid service token", "method", info.FullMethod)
			return nil, status.Error(codes.PermissionDenied, "invalid_service_token")
		}
		return handler(ctx, req)
	}, nil
}

func serviceTokenFromMetadata(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get(serviceTokenHeader)
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}
