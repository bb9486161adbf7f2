package main

import (
	"context"
	"expvar"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"waitly/waitlist-service/internal/config"
	"waitly/waitlist-service/internal/httpapi"
	"waitly/waitlist-service/internal/hub"
	"waitly/waitlist-service/internal/store/postgres"
	"waitly/waitlist-service/internal/telemetry"
	"waitly/waitlist-service/web"

	"github.com/google/uuid"
	"github.com/igm/sockjs-go/sockjs"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	cfg := config.Load()
	shutdownTelemetry := telemetry.Setup("waitlist-service")
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTelemetry(ctx)
	}()

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	st := postgres.NewStore(pool)
	h := hub.New()
	handler := httpapi.NewHandler(st, h)
	limiter := httpapi.NewRateLimiter(httpapi.RateLimitConfig{
		IPPerMinute:     cfg.RateLimitPerMinute,
		IPBurst:         cfg.RateLimitBurst,
		TenantPerMinute: cfg.TenantRateLimitPerMinute,
		TenantBurst:     cfg.TenantRateLimitBurst,
	})

	sockjsHandler := sockjs.NewHandler("/realtime", sockjs.DefaultOptions, func(session sockjs.Session) {
		sessionID := sessionIDFromRequest(session.Request())
		if sessionID == "" {
			_ = session.Close(4001, "missing session")
			return
		}
		authSession, err := st.GetSession(context.Background(), sessionID)
		if err != nil {
			_ = session.Close(4002, "invalid session")
			return
		}

		client := &hub.Client{ID: uuid.NewString(), Send: make(chan []byte, cfg.SendBuffer)}
		h.Register(client)
		defer h.Unregister(client)

		go func() {
			for msg := range client.Send {
				_ = session.Send(string(msg))
			}
		}()

		for {
			msg, err := session.Recv()
			if err != nil {
				return
			}
			parsed, ok := hub.ParseSubscribe([]byte(msg))
			if !ok {
				continue
			}
			if parsed.Type == "unsubscribe" {
				h.Subscribe(client, "")
				continue
			}
			tenant, ok := subscribeTenant(parsed.Tenant, authSession.TenantID)
			if !ok {
				_ = session.Close(4003, "tenant mismatch")
				return
			}
			h.Subscribe(client, tenant)
		}
	})

	api := httpapi.AuthMiddleware(st, limiter.Middleware(handler.Routes()))

	root := http.NewServeMux()
	root.Handle("/metrics", expvar.Handler())
	root.Handle("/realtime/", sockjsHandler)
	root.Handle("/healthz", api)
	root.Handle("/api/", api)
	root.Handle("/", web.Handler())

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      otelhttp.NewHandler(httpapi.LoggingMiddleware(root), "waitlist-service"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("waitlist-service listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

// subscribeTenant applies the handshake rule: the tenant always comes from
// the authenticated session; a client-declared tenant is accepted only when
// it matches.
func subscribeTenant(requested, sessionTenant string) (string, bool) {
	if requested != "" && requested != sessionTenant {
		return "", false
	}
	return sessionTenant, true
}

func sessionIDFromRequest(r *http.Request) string {
	if r == nil {
		return ""
	}
	if token := bearerToken(r.Header.Get("Authorization")); token != "" {
		return token
	}
	return strings.TrimSpace(r.URL.Query().Get("session_id"))
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.Fields(header)
	if len(parts) != 2 {
		return ""
	}
	if strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return parts[1]
}
