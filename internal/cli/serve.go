package cli

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/Tydestiny/Incan-Gold/internal/archive"
	"github.com/Tydestiny/Incan-Gold/internal/bus"
	"github.com/Tydestiny/Incan-Gold/internal/config"
	"github.com/Tydestiny/Incan-Gold/internal/game"
	"github.com/Tydestiny/Incan-Gold/internal/handlers"
	"github.com/Tydestiny/Incan-Gold/internal/policy"
	"github.com/Tydestiny/Incan-Gold/internal/rooms"
	"github.com/Tydestiny/Incan-Gold/internal/sse"
	"github.com/Tydestiny/Incan-Gold/internal/store"
	"github.com/Tydestiny/Incan-Gold/internal/telemetry"
)

const shutdownTimeout = 5 * time.Second

// NewServeCommand creates the serve command. Flags override the environment.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	var flags config.Config

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the game server",
		Long: `Serve the HTTP API and event stream. With a NATS URL, room events are
mirrored on <prefix>.room.<code>.<event> and operations are served on
<prefix>.op.<name>. With a database path, finished games are archived.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			applyFlags(cmd, &cfg, flags)
			cfg.Debug = cfg.Debug || rootOpts.Debug

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.Port, "port", "", "HTTP port (INCAN_PORT)")
	f.StringVar(&flags.NATSURL, "nats-url", "", "NATS server URL, empty disables the bus (INCAN_NATS_URL)")
	f.StringVar(&flags.NATSPrefix, "nats-prefix", "", "subject prefix (INCAN_NATS_PREFIX)")
	f.StringVar(&flags.DBPath, "db", "", "SQLite archive path, empty disables it (INCAN_DB_PATH)")
	f.StringVar(&flags.RulesFile, "rules", "", "YAML rules file (INCAN_RULES_FILE)")
	f.StringVar(&flags.Policy, "policy", "", "automated player policy: continue, return, heuristic or remote (INCAN_POLICY)")
	f.StringVar(&flags.PolicySubject, "policy-subject", "", "NATS subject of the remote policy (INCAN_POLICY_SUBJECT)")
	f.StringVar(&flags.OTelEndpoint, "otel-endpoint", "", "OTLP/HTTP endpoint, empty disables tracing (INCAN_OTEL_ENDPOINT)")

	return cmd
}

// applyFlags copies every flag the user set onto cfg
func applyFlags(cmd *cobra.Command, cfg *config.Config, flags config.Config) {
	set := func(name string, dst *string, v string) {
		if cmd.Flags().Changed(name) {
			*dst = v
		}
	}
	set("port", &cfg.Port, flags.Port)
	set("nats-url", &cfg.NATSURL, flags.NATSURL)
	set("nats-prefix", &cfg.NATSPrefix, flags.NATSPrefix)
	set("db", &cfg.DBPath, flags.DBPath)
	set("rules", &cfg.RulesFile, flags.RulesFile)
	set("policy", &cfg.Policy, flags.Policy)
	set("policy-subject", &cfg.PolicySubject, flags.PolicySubject)
	set("otel-endpoint", &cfg.OTelEndpoint, flags.OTelEndpoint)
}

func runServe(ctx context.Context, cfg config.Config) error {
	game.SetDebug(cfg.Debug)
	rooms.SetDebug(cfg.Debug)
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	rules, err := config.LoadRules(cfg.RulesFile)
	if err != nil {
		return err
	}

	shutdownTracing, err := telemetry.Setup(ctx, ServiceName, cfg.OTelEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Printf("serve: flushing traces: %v", err)
		}
	}()

	var nc *nats.Conn
	if cfg.NATSURL != "" {
		nc, err = bus.BrokerConnect(cfg.NATSURL, ServiceName)
		if err != nil {
			return err
		}
		defer nc.Drain()
		log.Printf("serve: connected to NATS at %s", nc.ConnectedUrl())
	}

	policyOpts := policy.Options{Subject: cfg.PolicySubject}
	if nc != nil {
		policyOpts.Requester = nc
	}
	decider, err := policy.New(cfg.Policy, policyOpts)
	if err != nil {
		return err
	}

	hub := sse.NewHub()
	opts := []rooms.Option{
		rooms.WithNotifier(hub),
		rooms.WithErrorReporter(hub),
		rooms.WithCloseHook(hub.CloseRoom),
		rooms.WithSessionOptions(game.WithDecider(decider)),
	}

	var arch *archive.Store
	if cfg.DBPath != "" {
		arch, err = archive.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer arch.Close()
		opts = append(opts, rooms.WithNotifier(arch))
		log.Printf("serve: archiving finished games to %s", cfg.DBPath)
	}

	if nc != nil {
		pub := bus.NewPublisher(nc, cfg.NATSPrefix)
		opts = append(opts, rooms.WithNotifier(pub), rooms.WithErrorReporter(pub))
	}

	manager := rooms.NewManager(store.NewSessionStore(), rules, opts...)

	if nc != nil {
		subs, err := bus.NewServer(manager, cfg.NATSPrefix).Subscribe(nc)
		if err != nil {
			return err
		}
		log.Printf("serve: serving %d operations on %s", len(subs), bus.OpSubject(cfg.NATSPrefix, "*"))
	}

	hctx := &handlers.Context{
		Rooms:     manager,
		Hub:       hub,
		Archive:   arch,
		StartedAt: time.Now(),
	}
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           hctx.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		// request contexts end with ctx so open event streams return on shutdown
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		log.Printf("serve: listening on http://localhost:%s (policy=%s)", cfg.Port, cfg.Policy)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Printf("serve: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
