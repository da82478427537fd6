package commands

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/openfroyo/yamlinventory/pkg/inventory"
	"github.com/openfroyo/yamlinventory/pkg/telemetry"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var errNoMode = errors.New("one of --list or --host is required")

// run executes one inventory query. List mode wins when both --list and
// --host are given.
func run(cmd *cobra.Command, opts *options, version string) (err error) {
	if !opts.list && opts.host == "" {
		_ = cmd.Usage()
		return errNoMode
	}

	extra, err := parseExtraVar(opts.extraVars)
	if err != nil {
		return err
	}

	cfg := telemetryConfig(opts, version)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid telemetry configuration: %w", err)
	}

	logger, closeLog, err := telemetry.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = closeLog() }()
	runID := uuid.New().String()
	logger = telemetry.WithRunID(logger, runID)

	tracer, err := telemetry.NewTracer(cfg.Tracing, cfg.ServiceName, cfg.ServiceVersion)
	if err != nil {
		return err
	}
	defer func() {
		if shutdownErr := tracer.Shutdown(context.Background()); shutdownErr != nil {
			logger.Warn().Err(shutdownErr).Msg("Failed to flush traces")
		}
	}()

	metrics := telemetry.NewMetrics(cfg.Metrics)
	mode := "host"
	if opts.list {
		mode = "list"
	}
	defer func() {
		status := "success"
		if err != nil {
			status = "failure"
		}
		metrics.RecordRun(mode, status)
		if writeErr := metrics.WriteTextfile(); writeErr != nil {
			logger.Warn().Err(writeErr).Msg("Failed to write metrics")
		}
	}()

	ctx, span := tracer.Start(cmd.Context(), "inventory.run",
		telemetry.AttrRunID.String(runID),
		telemetry.AttrMode.String(mode),
		telemetry.AttrFile.String(opts.file),
	)
	defer span.End()

	store, err := buildInventory(ctx, tracer, logger, metrics, opts.file)
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	var result map[string]any
	if opts.list {
		result = inventory.List(store).Map()
	} else {
		span.SetAttributes(telemetry.AttrHost.String(opts.host))
		vars, err := inventory.HostVars(store, opts.host)
		if err != nil {
			telemetry.RecordError(span, err)
			return err
		}
		result = map[string]any(vars)
	}
	extra.apply(result)

	if err := writeJSON(cmd.OutOrStdout(), result, opts.pretty); err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	telemetry.RecordSuccess(span)
	logger.Info().
		Str("mode", mode).
		Str("file", opts.file).
		Msg("Inventory written")

	return nil
}

// buildInventory loads the document at path and builds its graph.
func buildInventory(ctx context.Context, tracer *telemetry.Tracer, logger zerolog.Logger, metrics *telemetry.Metrics, path string) (*inventory.Store, error) {
	_, span := tracer.Start(ctx, "inventory.build", telemetry.AttrFile.String(path))
	defer span.End()

	timer := telemetry.NewTimer()

	loader := inventory.NewFileLoader(filepath.Dir(path), logger)
	doc, err := loader.LoadDocument(path)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	store := inventory.NewStore()
	builder := inventory.NewBuilder(store, &countingLoader{VarsLoader: loader, metrics: metrics}, logger)
	if err := builder.Build(doc); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to build inventory from %s: %w", path, err)
	}

	metrics.ObserveBuild(timer.Duration())
	metrics.SetGraphSize(len(store.Groups()), len(store.Hosts()))
	span.SetAttributes(
		telemetry.AttrGroupCount.Int(len(store.Groups())),
		telemetry.AttrHostCount.Int(len(store.Hosts())),
	)
	telemetry.RecordSuccess(span)

	return store, nil
}

// countingLoader counts import_vars reads.
type countingLoader struct {
	inventory.VarsLoader
	metrics *telemetry.Metrics
}

func (l *countingLoader) LoadVars(path string) (inventory.VarList, error) {
	vars, err := l.VarsLoader.LoadVars(path)
	if err == nil {
		l.metrics.IncImportedFiles()
	}
	return vars, err
}

func telemetryConfig(opts *options, version string) *telemetry.Config {
	cfg := telemetry.DefaultConfig()
	cfg.ServiceVersion = version
	cfg.Logging.Level = opts.logLevel
	if opts.verbose {
		cfg.Logging.Level = "debug"
		cfg.Logging.EnableCaller = true
	}
	cfg.Logging.Format = opts.logFormat
	if opts.logFile != "" {
		cfg.Logging.Output = opts.logFile
	}
	cfg.Tracing.Exporter = opts.traceExporter
	cfg.Tracing.Endpoint = opts.traceEndpoint
	cfg.Metrics.TextfilePath = opts.metricsFile
	return cfg
}
