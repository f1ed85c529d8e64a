package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"ledgerauth/internal/rpcapi"
)

// AccessTokenMetadataKey is the incoming metadata key carrying the caller's
// access token on RPCs that require one.
const AccessTokenMetadataKey = "access_token"

type ctxKey int

const accessTokenCtxKey ctxKey = iota

// methodsRequiringAccessToken lists the RPCs the interceptor guards.
var methodsRequiringAccessToken = map[string]bool{
	rpcapi.Authentication_UpdatePassword_FullMethodName: true,
}

// AccessTokenInterceptor extracts the access token from request metadata
// for guarded methods and stashes it in the context. Requests without the
// metadata key are refused before the handler runs. The token is carried
// opaquely; validation belongs to the service layer.
func AccessTokenInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if !methodsRequiringAccessToken[info.FullMethod] {
			return handler(ctx, req)
		}

		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "missing token")
		}
		values := md.Get(AccessTokenMetadataKey)
		if len(values) == 0 || values[0] == "" {
			return nil, status.Error(codes.Unauthenticated, "missing token")
		}

		return handler(context.WithValue(ctx, accessTokenCtxKey, values[0]), req)
	}
}

// AccessTokenFromContext returns the access token stashed by
// AccessTokenInterceptor.
func AccessTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(accessTokenCtxKey).(string)
	return token, ok
}
