package main

import (
	"context"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"org-access-control-plane/internal/audit"
	auditproducer "org-access-control-plane/internal/audit/producer"
	auditrepo "org-access-control-plane/internal/audit/repository"
	"org-access-control-plane/internal/config"
	"org-access-control-plane/internal/db"
	membershiprepo "org-access-control-plane/internal/membership/repository"
	"org-access-control-plane/internal/platform/rbac"
	"org-access-control-plane/internal/security"
	"org-access-control-plane/internal/server"
	"org-access-control-plane/internal/server/interceptors"
	"org-access-control-plane/internal/telemetry/otel"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	ctx := context.Background()
	providers, err := otel.NewProviders(ctx, cfg.OTLPEndpoint, "oacp-server", cfg.OTLPInsecure)
	if err != nil {
		log.Fatalf("otel: %v", err)
	}
	providers.SetGlobal()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = providers.Shutdown(shutdownCtx)
	}()

	var tokens *security.TokenProvider
	if cfg.JWTPrivateKey != "" && cfg.JWTPublicKey != "" {
		priv, err := security.ParsePrivateKey(cfg.JWTPrivateKey)
		if err != nil {
			log.Fatalf("jwt private key: %v", err)
		}
		pub, err := security.ParsePublicKey(cfg.JWTPublicKey)
		if err != nil {
			log.Fatalf("jwt public key: %v", err)
		}
		tokens = security.NewTokenProvider(priv, pub, cfg.JWTIssuer, cfg.JWTAudience, cfg.AccessTTL())
	} else {
		log.Println("JWT keys not configured; only public methods are reachable")
	}

	memberships := membershiprepo.NewPostgresRepository(conn)
	resolveOrg := func(ctx context.Context, userID string) (string, error) {
		return rbac.ResolveCallerOrg(ctx, memberships, userID)
	}

	kafkaProd, err := auditproducer.NewKafkaProducer(cfg.AuditKafkaBrokersList(), cfg.AuditKafkaTopic)
	if err != nil {
		log.Fatalf("audit kafka: %v", err)
	}
	var prod auditproducer.Producer
	if kafkaProd != nil {
		prod = kafkaProd
		defer kafkaProd.Close()
	} else {
		prod = auditproducer.NewOTelProducer(providers.LoggerProvider)
	}
	recorder := audit.NewLogger(auditrepo.NewPostgresRepository(conn), prod, interceptors.ClientIP)

	s, _ := server.New(server.Deps{
		Tokens:     tokens,
		ResolveOrg: resolveOrg,
		Recorder:   recorder,
	})

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		log.Fatalf("listen: %v", err)
	}
	defer lis.Close()

	go func() {
		log.Printf("gRPC server listening on %s", cfg.GRPCAddr)
		if err := s.Serve(lis); err != nil {
			log.Fatalf("serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down gRPC server...")
	s.GracefulStop()
	// Let in-flight async audit emits finish before the producer closes.
	time.Sleep(audit.ShutdownDrainDuration)
	log.Println("gRPC server stopped")
}
