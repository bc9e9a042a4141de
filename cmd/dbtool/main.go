package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"delivery-tracking-service/internal/adapters/repositories"
	"delivery-tracking-service/internal/app"
	"delivery-tracking-service/internal/config"
	"delivery-tracking-service/internal/domain"
	"delivery-tracking-service/internal/platform/logging"
	"delivery-tracking-service/internal/services"

	"github.com/spf13/cobra"
)

var configPath string

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "dbtool",
	Short: "Maintain the delivery tracking stores",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(logging.Config{Level: logging.Level(config.Get("LOG_LEVEL", "info"))})
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")

	seedCmd.Flags().StringP("file", "f", "", "seed JSON file (defaults to SEED_PATH)")

	rootCmd.AddCommand(initSchemaCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(reconcileCmd)
}

var initSchemaCmd = &cobra.Command{
	Use:   "init-schema",
	Short: "Create Postgres tables, the counters row and MongoDB indexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBackends(cmd.Context(), func(ctx context.Context, cfg config.Config, b *app.Backends) error {
			log := logging.WithComponent("dbtool")
			if b.SQL != nil {
				if err := repositories.InitSchema(ctx, b.SQL); err != nil {
					return err
				}
				log.Info().Msg("postgres schema ready")
			}
			if b.Mongo != nil {
				if err := repositories.EnsureIndexes(ctx, b.Mongo); err != nil {
					return err
				}
				log.Info().Msg("mongo indexes ready")
			}
			if b.SQL == nil && b.Mongo == nil {
				log.Warn().Msg("no persistent store configured, nothing to initialize")
			}
			return nil
		})
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load drivers and their packages from a JSON file",
	Long: `Load drivers and their packages from a JSON file.

Each driver is created first and its packages are then created against it,
so the seeded data goes through the same validation and counters as the API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		return withBackends(cmd.Context(), func(ctx context.Context, cfg config.Config, b *app.Backends) error {
			if file == "" {
				file = cfg.SeedPath
			}
			seeds, err := repositories.ReadSeedFile(file)
			if err != nil {
				return err
			}

			counters := services.NewCounterService(b.Counters)
			if err := counters.Init(ctx); err != nil {
				return err
			}
			drivers := services.NewDriverService(b.Drivers, b.Packages, counters)
			packages := services.NewPackageService(b.Packages, b.Drivers, counters)

			nd, np, err := seed(ctx, drivers, packages, seeds)
			log := logging.WithComponent("dbtool")
			log.Info().
				Int("drivers", nd).
				Int("packages", np).
				Str("file", file).
				Msg("seeding done")
			return err
		})
	},
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Repair driver/package references left by partial failures",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBackends(cmd.Context(), func(ctx context.Context, cfg config.Config, b *app.Backends) error {
			report, err := services.NewReconciler(b.Drivers, b.Packages).Run(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("dangling references removed: %d\n", report.DanglingRemoved)
			fmt.Printf("orphan packages deleted:     %d\n", report.OrphansDeleted)
			fmt.Printf("packages relinked:           %d\n", report.Relinked)
			return nil
		})
	},
}

func withBackends(ctx context.Context, fn func(context.Context, config.Config, *app.Backends) error) (err error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	b, err := app.OpenBackends(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, b.Close())
	}()

	return fn(ctx, cfg, b)
}

// seed creates every driver and its packages, continuing past failures so one
// bad entry does not block the rest. The returned error joins all failures.
func seed(
	ctx context.Context,
	drivers *services.DriverService,
	packages *services.PackageService,
	seeds []repositories.DriverSeed,
) (nd, np int, err error) {
	var errs []error
	for i, ds := range seeds {
		driver, err := drivers.Create(ctx, domain.DriverInput{
			Name:        ds.Name,
			Department:  ds.Department,
			LicenseCode: ds.LicenseCode,
			IsActive:    &ds.IsActive,
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("driver %d (%s): %w", i, ds.Name, err))
			continue
		}
		nd++

		for j, ps := range ds.Packages {
			_, err := packages.Create(ctx, domain.PackageInput{
				Title:       ps.Title,
				WeightKg:    ps.WeightKg,
				Destination: ps.Destination,
				Description: ps.Description,
				IsAllocated: &ps.IsAllocated,
				DriverID:    driver.ID,
			})
			if err != nil {
				errs = append(errs, fmt.Errorf("driver %d package %d (%s): %w", i, j, ps.Title, err))
				continue
			}
			np++
		}
	}
	return nd, np, errors.Join(errs...)
}
