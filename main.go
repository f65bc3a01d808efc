package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/irishlab/qrgen/api"
	"github.com/irishlab/qrgen/config"
	"github.com/irishlab/qrgen/qrgen"
	"github.com/irishlab/qrgen/store"
)

var version = "v0.1.0"

func main() {
	root := &cobra.Command{
		Use:   "qrgen",
		Short: "Generate QR code images for URLs and text",
	}

	// --- generate command ----------------------------------------------------
	var (
		genConfigPath string
		genOutput     string
		genLevel      string
		genSize       int
		genTerminal   bool
	)
	genCmd := &cobra.Command{
		Use:   "generate [target]",
		Short: "Generate a QR code PNG for a target string",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := ""
			if len(args) == 1 {
				target = args[0]
			}
			return runGenerate(cmd, genConfigPath, target, genOutput, genLevel, genSize, genTerminal)
		},
	}
	genCmd.Flags().StringVarP(&genConfigPath, "config", "c", "config.yaml", "Path to config file")
	genCmd.Flags().StringVarP(&genOutput, "output", "o", "", "Output PNG path (default from config)")
	genCmd.Flags().StringVar(&genLevel, "level", "", "Error recovery level: low, medium, high, highest")
	genCmd.Flags().IntVar(&genSize, "size", 0, "Output image edge length in pixels")
	genCmd.Flags().BoolVar(&genTerminal, "terminal", false, "Render to the terminal instead of a file")
	root.AddCommand(genCmd)

	// --- serve command -------------------------------------------------------
	var serveConfigPath string
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the QR generation HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(serveConfigPath)
		},
	}
	serveCmd.Flags().StringVarP(&serveConfigPath, "config", "c", "config.yaml", "Path to config file")
	root.AddCommand(serveCmd)

	// --- history command -----------------------------------------------------
	var (
		historyAddr  string
		historyLimit int
	)
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List recent generations from a running service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(historyAddr, historyLimit)
		},
	}
	historyCmd.Flags().StringVar(&historyAddr, "addr", "http://localhost:8560", "Service HTTP address")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum records to list")
	root.AddCommand(historyCmd)

	// --- status command ------------------------------------------------------
	var statusAddr string
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Check the service status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(statusAddr)
		},
	}
	statusCmd.Flags().StringVar(&statusAddr, "addr", "http://localhost:8560", "Service HTTP address")
	root.AddCommand(statusCmd)

	// --- version command -----------------------------------------------------
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("qrgen %s\n", version)
		},
	})

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// newLogger builds an slog text logger for the configured level and installs
// it as the default.
func newLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(log)
	return log
}

// runGenerate performs a one-shot generation. Flags override config values;
// with no arguments at all it reproduces the default run (the configured
// target written to the configured output filename in the working directory).
func runGenerate(cmd *cobra.Command, configPath, target, output, level string, size int, terminal bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := newLogger(cfg.LogLevel)

	if target == "" {
		target = cfg.DefaultTarget
	}
	if !cmd.Flags().Changed("output") || output == "" {
		output = cfg.DefaultOutput
	}
	if !cmd.Flags().Changed("level") || level == "" {
		level = cfg.Level
	}
	if !cmd.Flags().Changed("size") || size == 0 {
		size = cfg.ImageSize
	}

	gen, err := qrgen.New(level, size, log)
	if err != nil {
		return err
	}

	if terminal {
		gen.Terminal(target, os.Stdout)
		return nil
	}

	n, err := gen.WriteFile(qrgen.Request{Target: target, OutputPath: output})
	if err != nil {
		return err
	}
	fmt.Printf("Saved QR code for %s to %s (%d bytes)\n", target, output, n)
	return nil
}

// runServe is the service entrypoint that wires all components together.
func runServe(configPath string) error {
	// 1. Load config
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := cfg.EnsureDirs(); err != nil {
		return fmt.Errorf("ensure dirs: %w", err)
	}

	// 2. Setup logger
	log := newLogger(cfg.LogLevel)

	log.Info("starting qrgen", "version", version, "port", cfg.Port, "data_dir", cfg.DataDir)

	// 3. Open history store
	dbPath := filepath.Join(cfg.DataDir, "history.db")
	history, err := store.NewHistoryStore(dbPath)
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	defer history.Close()

	// 4. Create generator
	gen, err := qrgen.New(cfg.Level, cfg.ImageSize, log)
	if err != nil {
		return fmt.Errorf("create generator: %w", err)
	}

	// 5. Create webhook notifier
	notifier := qrgen.NewNotifier(cfg.WebhookURL, log)

	// 6. Start retention loop
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	qrgen.StartPurgeLoop(ctx, history, cfg.Retention.Duration, log)

	// 7. Start HTTP server
	srv := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.Port),
		Handler: api.NewRouter(&api.Server{
			Gen:       gen,
			Store:     history,
			Notifier:  notifier,
			OutputDir: cfg.OutputDir,
			Log:       log,
			Version:   version,
			StartTime: time.Now(),
		}),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	log.Info("service is running", "view_url", fmt.Sprintf("http://localhost:%d/view", cfg.Port))

	// 8. Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	log.Info("goodbye")
	return nil
}

// runHistory queries the service history endpoint.
func runHistory(addr string, limit int) error {
	resp, err := http.Get(fmt.Sprintf("%s/history?limit=%d", addr, limit))
	if err != nil {
		return fmt.Errorf("failed to reach service at %s: %w", addr, err)
	}
	defer resp.Body.Close()

	var buf [65536]byte
	n, _ := resp.Body.Read(buf[:])
	fmt.Println(string(buf[:n]))
	return nil
}

// runStatus queries the service HTTP status endpoint.
func runStatus(addr string) error {
	resp, err := http.Get(addr + "/status")
	if err != nil {
		return fmt.Errorf("failed to reach service at %s: %w", addr, err)
	}
	defer resp.Body.Close()

	var buf [4096]byte
	n, _ := resp.Body.Read(buf[:])
	fmt.Println(string(buf[:n]))
	return nil
}
