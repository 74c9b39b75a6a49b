package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/netpong/internal/config"
	"github.com/vovakirdan/netpong/internal/games/pong"
	"github.com/vovakirdan/netpong/internal/platform/tui"
	"github.com/vovakirdan/netpong/internal/service"
	"github.com/vovakirdan/netpong/internal/storage"
	"github.com/vovakirdan/netpong/internal/transport"
	"github.com/vovakirdan/netpong/internal/world"
)

var (
	flagAddr        string
	flagSSHAddr     string
	flagHostKey     string
	flagServeDBPath string
	flagIdleTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the game server",
	Long: `Start the authoritative game server.

Clients connect with a websocket to /ws and send Join once, then Tick every
frame. The first client is Player 1, the second Player 2; the ball launches
when the second player joins. Later clients may call Tick but own no paddle.

Optional extras:
  --ssh <addr>  serve a read-only spectator view over SSH
  --db <path>   record decided matches in an SQLite ledger ("" disables)

Examples:
  pongd serve                        # Listen on :50051
  pongd serve --addr :8080           # Different port
  pongd serve --ssh :23234           # Also let people watch via ssh
  pongd serve --db ./outcomes.db     # Use a specific ledger

Spectators can connect with:
  ssh localhost -p 23234`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "Websocket listen address (host:port)")
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH spectator address (empty disables)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to SSH host key (auto-generated if not specified)")
	serveCmd.Flags().StringVar(&flagServeDBPath, "db", "", "Path to outcome ledger")
	serveCmd.Flags().DurationVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout before disconnecting spectators")
}

func runServe(cmd *cobra.Command, _ []string) {
	cfg := loadConfig(cmd)
	flags := cmd.Flags()
	if flags.Changed("addr") {
		cfg.Server.Addr = flagAddr
	}
	if flags.Changed("ssh") {
		cfg.Server.SSHAddr = flagSSHAddr
	}
	if flags.Changed("host-key") {
		cfg.Server.HostKey = flagHostKey
	}
	if flags.Changed("db") {
		cfg.Server.DBPath = flagServeDBPath
	}
	if flags.Changed("idle-timeout") {
		cfg.Server.IdleTimeout = flagIdleTimeout
	}
	validate(cfg)

	logger := newLogger(cfg.LogLevel)

	svcCfg := serviceConfig(cfg)
	svcCfg.Logger = logger.WithPrefix("service")

	// Open the ledger; the server runs without it if that fails
	var store *storage.Store
	if cfg.Server.DBPath != "" {
		var err error
		store, err = storage.Open(cfg.Server.DBPath)
		if err != nil {
			logger.Warn("could not open outcome ledger", "path", cfg.Server.DBPath, "error", err)
		} else {
			svcCfg.Recorder = store
		}
	}

	svc := service.New(svcCfg)

	wsCfg := transport.DefaultServerConfig()
	wsCfg.Address = cfg.Server.Addr
	ws := transport.NewServer(wsCfg, svc, logger.WithPrefix("ws"))

	var spectators *tui.SSHServer
	if cfg.Server.SSHAddr != "" {
		sshCfg := tui.DefaultSSHServerConfig()
		sshCfg.Address = cfg.Server.SSHAddr
		sshCfg.HostKeyPath = cfg.Server.HostKey
		sshCfg.IdleTimeout = cfg.Server.IdleTimeout

		var err error
		spectators, err = tui.NewSSHServer(sshCfg, svc, logger.WithPrefix("ssh"))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating SSH server: %v\n", err)
			os.Exit(1)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errs := make(chan error, 2)
	go func() { errs <- ws.ListenAndServe() }()
	if spectators != nil {
		go func() { errs <- spectators.ListenAndServe() }()
	}

	fmt.Printf("netpong server listening on %s (websocket path /ws)\n", ws.Addr())
	if spectators != nil {
		fmt.Printf("Spectate with: ssh localhost -p %s\n", portOf(spectators.Addr()))
	}
	fmt.Println("Press Ctrl+C to stop")

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down...")
	case runErr = <-errs:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	shutdownErr := ws.Shutdown(shutdownCtx)
	if spectators != nil {
		shutdownErr = errors.Join(shutdownErr, spectators.Shutdown(shutdownCtx))
	}

	svc.Wait()
	if store != nil {
		shutdownErr = errors.Join(shutdownErr, store.Close())
	}

	if err := errors.Join(runErr, shutdownErr); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

// serviceConfig maps the file settings onto the game service.
func serviceConfig(cfg config.Config) service.Config {
	return service.Config{
		Store: world.StoreConfig{
			PaddleMargin: cfg.Physics.PaddleMargin,
			BallSpeed:    cfg.Physics.BallSpeed,
			Seed:         cfg.Seed,
		},
		Tuning: pong.Tuning{
			PaddleSpeed: cfg.Physics.PaddleSpeed,
			BallAcc:     cfg.Physics.BallAcc,
			PaddleSpin:  cfg.Physics.PaddleSpin,
		},
	}
}

func portOf(addr string) string {
	if _, port, err := net.SplitHostPort(addr); err == nil {
		return port
	}
	return addr
}
