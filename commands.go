package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"inventory-catalog/assets"
	"inventory-catalog/config"
	"inventory-catalog/geography"
	"inventory-catalog/models"
	"inventory-catalog/publish"
	"inventory-catalog/server"
	"inventory-catalog/services"
	"inventory-catalog/storage"
	"inventory-catalog/utils"
)

type app struct {
	cfg    *config.Config
	logger *utils.Logger
}

func newApp(cfg *config.Config) *app {
	return &app{
		cfg:    cfg,
		logger: utils.NewLoggerTo(utils.ParseLevel(cfg.LogLevel), os.Stdout, os.Stderr),
	}
}

func (a *app) root() *cobra.Command {
	root := &cobra.Command{
		Use:   "inventory-catalog",
		Short: "Export the inventory database to the web catalog",
		Long: `Reads every item from the inventory database, attaches category names,
photos from the items folder and parsed locations, and writes the JSON
catalog the static front-end loads.

Without a subcommand it runs "export".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.logger = utils.NewLoggerTo(utils.ParseLevel(a.cfg.LogLevel), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := a.export(cmd.Context())
			return err
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&a.cfg.DBDriver, "driver", a.cfg.DBDriver, "database driver: sqlite, postgres or mysql")
	f.StringVar(&a.cfg.DBPath, "db", a.cfg.DBPath, "sqlite database file")
	f.StringVar(&a.cfg.ItemsDir, "items", a.cfg.ItemsDir, "folder holding one sub-folder of photos per item")
	f.StringVar(&a.cfg.OutputPath, "out", a.cfg.OutputPath, "catalog JSON output path")
	f.StringVar(&a.cfg.CSVOutputPath, "csv", a.cfg.CSVOutputPath, "also write a flat CSV to this path")
	f.StringVar(&a.cfg.RegionsFile, "regions", a.cfg.RegionsFile, "YAML state→region table (default: built-in US table)")
	f.IntVar(&a.cfg.Concurrency, "concurrency", a.cfg.Concurrency, "items enriched in parallel")
	f.StringVar(&a.cfg.LogLevel, "log-level", a.cfg.LogLevel, "debug, info, warn or error")

	root.AddCommand(
		a.exportCmd(),
		a.publishCmd(),
		a.serveCmd(),
		a.regionsCmd(),
	)
	return root
}

func (a *app) exportCmd() *cobra.Command {
	var quiet bool
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the catalog JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := a.export(cmd.Context())
			if err != nil {
				return err
			}
			if !quiet {
				report := services.NewReportServiceTo(a.logger, cmd.OutOrStdout())
				report.Print(report.Generate(catalog))
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "skip the summary report")
	return cmd
}

func (a *app) publishCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Export, then push the catalog to GitHub or S3",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.ValidatePublish(); err != nil {
				return &publish.Error{Target: a.cfg.PublishTarget, Err: err}
			}
			publisher, err := a.publisher(cmd.Context())
			if err != nil {
				return &publish.Error{Target: a.cfg.PublishTarget, Err: err}
			}

			a.logger.Info("Exporting inventory data...")
			if _, err := a.export(cmd.Context()); err != nil {
				return fmt.Errorf("aborting publish: %w", err)
			}

			content, err := os.ReadFile(a.cfg.OutputPath)
			if err != nil {
				return fmt.Errorf("read exported catalog: %w", err)
			}

			a.logger.Info("Publishing to %s...", publisher.Name())
			out, err := publisher.Publish(cmd.Context(), publish.Input{
				Path:    a.publishPath(),
				Content: content,
				Message: a.cfg.CommitMessage,
			})
			if err != nil {
				return err
			}

			verb := "Updated"
			if out.Created {
				verb = "Created"
			}
			a.logger.Info("%s %s on %s %s", verb, a.publishPath(), publisher.Name(), out.Location)
			return nil
		},
	}
	cmd.Flags().StringVar(&a.cfg.PublishTarget, "target", a.cfg.PublishTarget, "github or s3")
	cmd.Flags().StringVarP(&a.cfg.CommitMessage, "message", "m", a.cfg.CommitMessage, "commit message (github)")
	return cmd
}

func (a *app) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the exported catalog and photos for local preview",
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := server.New(server.Config{
				CatalogPath: a.cfg.OutputPath,
				ItemsDir:    a.cfg.ItemsDir,
			}, a.logger).HTTPServer(a.cfg.ServeAddr)

			errCh := make(chan error, 1)
			go func() {
				a.logger.Info("[serve] Listening on %s", a.cfg.ServeAddr)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return fmt.Errorf("serve: %w", err)
			case <-cmd.Context().Done():
				a.logger.Info("[serve] Shutting down")
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return srv.Shutdown(ctx)
			}
		},
	}
	cmd.Flags().StringVar(&a.cfg.ServeAddr, "addr", a.cfg.ServeAddr, "listen address")
	return cmd
}

func (a *app) regionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "regions",
		Short: "Print the state→region table in use",
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := a.regionTable()
			if err != nil {
				return err
			}
			for _, state := range table.States() {
				region, _ := table.Lookup(state)
				fmt.Fprintf(cmd.OutOrStdout(), "%-20s %s\n", state, region)
			}
			return nil
		},
	}
}

// export runs one export with the current configuration.
func (a *app) export(ctx context.Context) (*models.Catalog, error) {
	if err := a.cfg.Validate(); err != nil {
		return nil, err
	}

	table, err := a.regionTable()
	if err != nil {
		return nil, err
	}

	if info, err := os.Stat(a.cfg.ItemsDir); err != nil || !info.IsDir() {
		a.logger.Warn("Items folder not found at %s — exporting without photos", a.cfg.ItemsDir)
	}

	reader, err := storage.NewSQLReader(ctx, a.cfg.DBDriver, a.cfg.DSN(), storage.SQLOptions{
		Path:        a.sqlitePath(),
		PingRetries: a.cfg.MaxRetries,
		Logger:      a.logger,
	})
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	writers := []storage.CatalogWriter{storage.NewJSONWriter(a.cfg.OutputPath)}
	if a.cfg.CSVOutputPath != "" {
		writers = append(writers, storage.NewCSVWriter(a.cfg.CSVOutputPath))
	}

	builder := services.NewCatalogBuilder(
		assets.NewDirResolver(a.cfg.ItemsDir),
		geography.NewParser(table),
		a.logger,
		a.cfg.Concurrency,
	)

	catalog, err := services.NewExporter(reader, builder, a.logger, writers...).Run(ctx)
	if err != nil {
		return nil, err
	}

	a.logger.Info("Successfully exported %d items to %s", len(catalog.Items), a.cfg.OutputPath)
	a.logger.Info("  Categories: %d | Manufacturers: %d | Locations: %d",
		len(catalog.Categories), len(catalog.Manufacturers), len(catalog.Locations))
	return catalog, nil
}

func (a *app) regionTable() (*geography.RegionTable, error) {
	if a.cfg.RegionsFile == "" {
		return geography.DefaultRegionTable(), nil
	}
	return geography.LoadRegionTable(a.cfg.RegionsFile)
}

func (a *app) sqlitePath() string {
	if a.cfg.DBDriver != config.DriverSQLite {
		return ""
	}
	return a.cfg.DBPath
}

func (a *app) publisher(ctx context.Context) (publish.Publisher, error) {
	switch a.cfg.PublishTarget {
	case config.TargetS3:
		return publish.NewS3Publisher(ctx, publish.S3Config{
			Bucket:    a.cfg.S3Bucket,
			Region:    a.cfg.S3Region,
			Endpoint:  a.cfg.S3Endpoint,
			AccessKey: a.cfg.S3AccessKey,
			SecretKey: a.cfg.S3SecretKey,
			Prefix:    a.cfg.S3Prefix,
		}, a.logger)
	default:
		return publish.NewGitHubPublisher(publish.GitHubConfig{
			Token:      a.cfg.GitHubToken,
			Repo:       a.cfg.GitHubRepo,
			Branch:     a.cfg.GitHubBranch,
			MaxRetries: a.cfg.MaxRetries,
		}, a.logger)
	}
}

func (a *app) publishPath() string {
	if a.cfg.PublishTarget == config.TargetS3 {
		return strings.TrimPrefix(a.cfg.S3Key, "/")
	}
	return strings.TrimPrefix(a.cfg.GitHubPath, "/")
}
