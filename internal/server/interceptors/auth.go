package interceptors

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"org-access-control-plane/internal/security"
)

const bearerPrefix = "bearer "

// OrgResolverFunc derives the caller's org from their identity when the access
// token carries none (e.g. first membership). Wiring passes rbac.ResolveCallerOrg
// bound to the membership repository. Errors are returned to the client as-is.
type OrgResolverFunc func(ctx context.Context, userID string) (string, error)

// AuthUnary returns a unary server interceptor that validates the Bearer
// (access) token from gRPC metadata and sets user_id and org_id in context for
// protected RPCs. The org scope is established here, server-side, in two
// stages: the token's org claim when present, otherwise resolveOrg. Request
// parameters never feed into it.
// publicMethods is the set of full method names that do not require a Bearer
// token (e.g. health checks, invite acceptance by token).
func AuthUnary(tokens *security.TokenProvider, resolveOrg OrgResolverFunc, publicMethods map[string]bool) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		token := extractBearer(ctx)
		public := publicMethods[info.FullMethod]

		if token == "" {
			if public {
				return handler(ctx, req)
			}
			return nil, status.Error(codes.Unauthenticated, "missing or invalid authorization")
		}

		userID, orgID, err := tokens.Validate(token)
		if err != nil {
			if public {
				return handler(ctx, req)
			}
			return nil, status.Error(codes.Unauthenticated, "missing or invalid authorization")
		}

		if orgID == "" && resolveOrg != nil {
			orgID, err = resolveOrg(ctx, userID)
			if err != nil {
				if public {
					return handler(ctx, req)
				}
				return nil, err
			}
		}

		ctx = WithIdentity(ctx, userID, orgID)
		return handler(ctx, req)
	}
}

// extractBearer returns the Bearer token from ctx metadata, or "" if missing or malformed.
func extractBearer(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	vals := md.Get("authorization")
	if len(vals) == 0 {
		return ""
	}
	v := strings.TrimSpace(vals[0])
	if len(v) < len(bearerPrefix) {
		return ""
	}
	if !strings.EqualFold(v[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(v[len(bearerPrefix):])
}
