package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lemonberrylabs/shuntcalc/pkg/api"
	grpcapi "github.com/lemonberrylabs/shuntcalc/pkg/api/grpc"
	"github.com/lemonberrylabs/shuntcalc/pkg/config"
	"github.com/lemonberrylabs/shuntcalc/web"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API, web keypad and gRPC API",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	cmd.Flags().Int("port", config.DefaultPort, "HTTP server port (env PORT)")
	cmd.Flags().Int("grpc-port", config.DefaultGRPCPort, "gRPC server port (env GRPC_PORT)")
	cmd.Flags().String("host", config.DefaultHost, "Bind address (env HOST)")
	cmd.Flags().Int("max-length", config.DefaultMaxExpressionLength, "Maximum expression length in bytes (env MAX_EXPRESSION_LENGTH)")
	cmd.Flags().Int("batch-limit", config.DefaultBatchLimit, "Maximum expressions per batch request (env BATCH_LIMIT)")
	cmd.Flags().Int("workers", 0, "Batch expressions evaluated at once (default GOMAXPROCS, env WORKERS)")
	cmd.Flags().Bool("access-log", true, "Log every HTTP request")
	return cmd
}

// resolveConfig layers flags over the environment over the defaults. Only
// flags set on the command line override.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return config.Config{}, err
	}
	flags := cmd.Flags()
	if flags.Changed("port") {
		cfg.Port, _ = flags.GetInt("port")
	}
	if flags.Changed("grpc-port") {
		cfg.GRPCPort, _ = flags.GetInt("grpc-port")
	}
	if flags.Changed("host") {
		cfg.Host, _ = flags.GetString("host")
	}
	if flags.Changed("max-length") {
		cfg.MaxExpressionLength, _ = flags.GetInt("max-length")
	}
	if flags.Changed("batch-limit") {
		cfg.BatchLimit, _ = flags.GetInt("batch-limit")
	}
	if flags.Changed("workers") {
		cfg.Workers, _ = flags.GetInt("workers")
	}
	return cfg, cfg.Validate()
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	var opts []api.Option
	if v, _ := cmd.Flags().GetBool("access-log"); v {
		opts = append(opts, api.WithAccessLog())
	}
	server := api.New(cfg, opts...)
	web.New(cfg.MaxExpressionLength).Register(server.App())

	grpcServer := grpcapi.New(cfg)
	go func() {
		log.Printf("gRPC server listening on %s", cfg.GRPCAddr())
		if err := grpcServer.Serve(cfg.GRPCAddr()); err != nil {
			log.Fatalf("gRPC server error: %v", err)
		}
	}()

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("Shutting down calculator...")
		grpcServer.GracefulStop()
		if err := server.Shutdown(); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	}()

	log.Printf("Calculator listening on %s (max expression length %d)", cfg.Addr(), cfg.MaxExpressionLength)
	return server.Listen(cfg.Addr())
}
