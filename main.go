package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/storyhouse/storyhouse/branch"
	"github.com/storyhouse/storyhouse/chain"
	"github.com/storyhouse/storyhouse/config"
	"github.com/storyhouse/storyhouse/log"
	"github.com/storyhouse/storyhouse/server"
	"github.com/storyhouse/storyhouse/storage"
	"github.com/storyhouse/storyhouse/store"
	"github.com/storyhouse/storyhouse/store/db"
	"github.com/storyhouse/storyhouse/worker"
)

const (
	greetingBanner = `
███████ ████████  ██████  ██████  ██    ██ ██   ██  ██████  ██    ██ ███████ ███████
██         ██    ██    ██ ██   ██  ██  ██  ██   ██ ██    ██ ██    ██ ██      ██
███████    ██    ██    ██ ██████    ████   ███████ ██    ██ ██    ██ ███████ █████
     ██    ██    ██    ██ ██   ██    ██    ██   ██ ██    ██ ██    ██      ██ ██
███████    ██     ██████  ██   ██    ██    ██   ██  ██████   ██████  ███████ ███████
`
)

var (
	configFile string
	dryRun     bool
	cleanup    bool

	rootCmd = &cobra.Command{
		Use:   "storyhouse",
		Short: "StoryHouse core is the ownership and derivative-branching service for serialized books",
		Run: func(cmd *cobra.Command, args []string) {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			s, registry, branches, err := setup(ctx)
			if err != nil {
				log.Error("Error setting up service", zap.Error(err))
				return
			}
			defer s.Close()

			fmt.Print(greetingBanner, "\n")
			if _, err := server.StartServer(ctx, s, branches, registry); err != nil {
				log.Error("Error starting server", zap.Error(err))
				return
			}

			<-ctx.Done()
			log.Info("Shutting down")
		},
	}

	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Merge derivative-authored chapters back into their parent books",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()

			s, _, branches, err := setup(ctx)
			if err != nil {
				log.Error("Error setting up service", zap.Error(err))
				return
			}
			defer s.Close()

			plan, err := branches.DryRun(ctx)
			if err != nil {
				log.Error("Migration scan failed", zap.Error(err))
				return
			}
			if dryRun {
				out, _ := json.MarshalIndent(plan, "", "  ")
				fmt.Println(string(out))
				return
			}

			report := branches.Execute(ctx, plan)
			if cleanup {
				deleted := branches.Cleanup(ctx, plan, report)
				log.Info("Cleanup finished", zap.Int("objects_deleted", deleted))
			}
			out, _ := json.MarshalIndent(report, "", "  ")
			fmt.Println(string(out))
		},
	}
)

func setup(ctx context.Context) (*store.Store, worker.WorkPool, *branch.Manager, error) {
	if _, err := config.GetConfig(); err != nil {
		return nil, nil, nil, err
	}
	if configFile != "" {
		if _, err := config.ParseFile(configFile); err != nil {
			return nil, nil, nil, err
		}
	}
	log.Logger = log.NewLogger()

	var objects storage.ObjectStore
	var err error
	switch config.Opts.StorageBackend {
	case "memory":
		objects = storage.NewMemoryStore()
	default:
		objects, err = storage.NewMinIOStore(config.Opts)
		if err != nil {
			return nil, nil, nil, err
		}
	}

	appDb, err := db.NewDB(config.Opts.DSN)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := appDb.Migrate(ctx); err != nil {
		return nil, nil, nil, err
	}

	s := store.NewStore(objects, appDb.DB)
	chainClient := chain.NewStubClient()
	registry := worker.NewRegistrationPool(s, chainClient, config.Opts.WorkerPoolSize)
	branches := branch.NewManager(s, chainClient)

	return s, registry, branches, nil
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file")
	migrateCmd.Flags().BoolVar(&dryRun, "dry-run", false, "report the migration plan without writing")
	migrateCmd.Flags().BoolVar(&cleanup, "cleanup", false, "delete migrated derivative chapters after success")
	rootCmd.AddCommand(migrateCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Logger.Sync()
}
