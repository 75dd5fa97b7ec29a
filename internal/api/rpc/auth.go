package rpc

import (
	"context"
	"errors"
	"strings"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/token"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type TokenVerifier interface {
	Verify(tokenString string) (token.Claims, error)
}

type userIDKey struct{}

func WithUserID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, userIDKey{}, id)
}

func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey{}).(int64)
	return id, ok
}

// AuthInterceptor authenticates calls to methods whose full name starts with
// one of the protected prefixes. Other methods pass through untouched.
func AuthInterceptor(verifier TokenVerifier, protected ...string) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if !requiresAuth(info.FullMethod, protected) {
			return handler(ctx, req)
		}

		md, _ := metadata.FromIncomingContext(ctx)
		values := md.Get("authorization")
		if len(values) == 0 || values[0] == "" {
			return nil, status.Error(codes.Unauthenticated, "missing authorization metadata")
		}
		header := values[0]
		if len(header) < 7 || !strings.EqualFold(header[:7], "Bearer ") {
			return nil, status.Error(codes.Unauthenticated, "invalid authorization format")
		}

		claims, err := verifier.Verify(strings.TrimSpace(header[7:]))
		if err != nil {
			if errors.Is(err, domain.ErrTokenExpired) {
				return nil, status.Error(codes.Unauthenticated, "token expired")
			}
			return nil, status.Error(codes.Unauthenticated, "invalid token")
		}
		userID, ok := token.UserID(claims)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "invalid token payload")
		}
		return handler(WithUserID(ctx, userID), req)
	}
}

func requiresAuth(method string, protected []string) bool {
	for _, p := range protected {
		if strings.HasPrefix(method, p) {
			return true
		}
	}
	return false
}
