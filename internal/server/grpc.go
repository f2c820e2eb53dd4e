// Package server builds the gRPC server shell: the interceptor chain that
// authenticates callers and audits RPCs, OTel instrumentation, and the
// standard health service.
package server

import (
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"org-access-control-plane/internal/audit"
	"org-access-control-plane/internal/security"
	"org-access-control-plane/internal/server/interceptors"
)

// Full method names exempt from Bearer auth: health probes, invite acceptance
// (the invite token is the authorization), and organization bootstrap (signup).
var publicMethods = map[string]bool{
	"/grpc.health.v1.Health/Check":                        true,
	"/grpc.health.v1.Health/Watch":                        true,
	"/oacp.invite.v1.InviteService/AcceptInvite":          true,
	"/oacp.organization.v1.OrganizationService/CreateOrg": true,
}

// Health probes are not audited.
var auditSkipMethods = map[string]bool{
	"/grpc.health.v1.Health/Check": true,
	"/grpc.health.v1.Health/Watch": true,
}

// Deps holds the dependencies of the server shell.
type Deps struct {
	// Tokens validates Bearer tokens. If nil, only public methods are reachable.
	Tokens *security.TokenProvider
	// ResolveOrg derives a caller's org when the token carries none. May be nil.
	ResolveOrg interceptors.OrgResolverFunc
	// Recorder receives an audit event per authenticated RPC. May be nil.
	Recorder audit.Recorder
}

// New builds the gRPC server with the auth and audit interceptor chain and the
// otelgrpc stats handler, registers the standard health service, and returns
// both. Domain services are registered by the caller.
func New(deps Deps, extraOpts ...grpc.ServerOption) (*grpc.Server, *health.Server) {
	opts := []grpc.ServerOption{
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			interceptors.AuthUnary(deps.Tokens, deps.ResolveOrg, publicMethods),
			interceptors.AuditUnary(deps.Recorder, auditSkipMethods),
		),
	}
	opts = append(opts, extraOpts...)
	s := grpc.NewServer(opts...)

	h := health.NewServer()
	h.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(s, h)
	return s, h
}

// PublicMethods returns a copy of the auth-exempt method set, for tests and wiring.
func PublicMethods() map[string]bool {
	out := make(map[string]bool, len(publicMethods))
	for k, v := range publicMethods {
		out[k] = v
	}
	return out
}
