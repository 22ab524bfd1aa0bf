package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/solstice-labs/swallet-node/api"
	"github.com/solstice-labs/swallet-node/config"
	"github.com/solstice-labs/swallet-node/db"
	werrors "github.com/solstice-labs/swallet-node/errors"
	"github.com/solstice-labs/swallet-node/logger"
	"github.com/solstice-labs/swallet-node/metadata"
	"github.com/solstice-labs/swallet-node/rpcpool"
	"github.com/solstice-labs/swallet-node/svm"
	"github.com/solstice-labs/swallet-node/wallet"
)

// Version info, set at build time via -ldflags.
var (
	Version = "dev"
	Commit  = ""
)

const databaseFilename = "swallet.db"

func InitRootCmd(rootCmd *cobra.Command) {
	rootCmd.AddCommand(startCmd())
	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(initConfigCmd())
}

func startCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the wallet node",
		RunE: func(cmd *cobra.Command, args []string) error {
			home, err := cmd.Flags().GetString(flagHome)
			if err != nil {
				return err
			}

			cfg, err := config.Load(home)
			if err != nil {
				return fmt.Errorf("failed to load config from %s (run `swalletd init-config` first): %w", home, err)
			}

			log := logger.New(cfg.LogLevel, cfg.LogFormat)
			network, err := cfg.ActiveNetwork()
			if err != nil {
				return err
			}

			pool := rpcpool.New(nil, log)
			defer pool.Close()

			rpcClient, err := svm.NewRPCClient(network.RPCURLs, pool, log)
			if err != nil {
				return err
			}

			relayer, err := svm.LoadRelayerKeypair(cfg.RelayerKeyPath)
			if err != nil {
				return err
			}
			submitter, err := svm.NewSubmitter(rpcClient, relayer, log)
			if err != nil {
				return err
			}

			metadataClient, err := metadata.NewClient(cfg.MetadataServiceURL, log)
			if err != nil {
				return err
			}

			dbDir := cfg.DatabaseDir
			if dbDir == "" {
				dbDir = filepath.Join(home, "data")
			}
			database, err := db.OpenFileDB(dbDir, databaseFilename, true)
			if err != nil {
				return err
			}
			defer database.Close()

			policy := werrors.RetryPolicy{
				MaxAttempts:  cfg.RetryMaxAttempts,
				InitialDelay: time.Duration(cfg.RetryInitialDelaySecond) * time.Second,
				MaxDelay:     time.Duration(cfg.RetryMaxDelaySecond) * time.Second,
			}
			budget := svm.ComputeBudget{
				UnitLimit: cfg.ComputeUnitLimit,
				UnitPrice: cfg.ComputeUnitPrice,
			}

			service, err := wallet.NewService(
				rpcClient,
				submitter,
				svm.NewResultExtractor(rpcClient, log),
				metadataClient,
				database,
				network,
				policy,
				budget,
				log,
			)
			if err != nil {
				return err
			}

			server := api.NewServer(service, database, log, cfg.QueryServerPort)
			if err := server.Start(); err != nil {
				return err
			}

			log.Info().
				Str("network", string(cfg.Network)).
				Str("relayer", submitter.Relayer().String()).
				Int("port", cfg.QueryServerPort).
				Msg("wallet node started")

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			<-sigCh

			log.Info().Msg("shutting down")
			return server.Stop()
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print swalletd version info",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Version: %s\n", Version)
			if Commit != "" {
				fmt.Printf("Commit:  %s\n", Commit)
			}
		},
	}
}

func initConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-config",
		Short: "Write the default config file to the home directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			home, err := cmd.Flags().GetString(flagHome)
			if err != nil {
				return err
			}

			cfg, err := config.LoadDefaultConfig()
			if err != nil {
				return err
			}
			if err := config.Save(cfg, home); err != nil {
				return err
			}

			fmt.Printf("wrote default config under %s\n", home)
			return nil
		},
	}
}
