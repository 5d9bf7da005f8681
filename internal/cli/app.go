package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/sysml/internal/config"
	"github.com/aretw0/sysml/internal/presentation/graph"
	"github.com/aretw0/sysml/internal/presentation/tui"
	"github.com/aretw0/sysml/pkg/domain"
	"github.com/aretw0/sysml/pkg/model"
	"github.com/aretw0/sysml/pkg/persistence/middleware"
	"github.com/aretw0/sysml/pkg/ports"
	"github.com/aretw0/sysml/pkg/validator"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Export formats.
const (
	FormatJSON    = "json"
	FormatMermaid = "mermaid"
)

// App holds what every command needs: configuration, logger, the model
// repository and store metrics.
type App struct {
	Config config.Config
	Logger *slog.Logger

	repo     ports.ModelRepository
	locker   ports.DistributedLocker
	closer   io.Closer
	registry *prometheus.Registry
	metrics  *model.Metrics
}

// NewApp connects to the configured storage. Relative paths resolve against dir.
func NewApp(cfg config.Config, dir string, logger *slog.Logger) (*App, error) {
	b, err := createBackend(cfg.Storage, dir)
	if err != nil {
		return nil, err
	}
	reg := prometheus.NewRegistry()
	logger.Debug("storage ready", "driver", cfg.Storage.Driver, "strict", cfg.Storage.Strict)
	return &App{
		Config:   cfg,
		Logger:   logger,
		repo:     middleware.Chain(b.repo, repositoryMiddleware(cfg.Storage, logger)...),
		locker:   b.locker,
		closer:   b.closer,
		registry: reg,
		metrics:  model.NewMetrics(reg),
	}, nil
}

// repositoryMiddleware selects the wrappers enabled by cfg. Logging is
// outermost so rejected saves are logged too.
func repositoryMiddleware(cfg config.Storage, logger *slog.Logger) []middleware.Middleware {
	mws := []middleware.Middleware{middleware.NewLoggingMiddleware(logger)}
	if cfg.Strict {
		mws = append(mws, middleware.NewValidationMiddleware())
	}
	if cfg.StripLayout {
		mws = append(mws, middleware.NewLayoutStripMiddleware())
	}
	return mws
}

// Close releases the storage connection.
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

// NewStore returns an empty store wired to the app's logger, metrics and locker.
func (a *App) NewStore() *model.Store {
	return model.New(
		model.WithLogger(a.Logger),
		model.WithMetrics(a.metrics),
		model.WithLocker(a.locker),
		model.WithHistoryLimit(a.Config.History.Limit),
	)
}

// Open loads the named model.
func (a *App) Open(ctx context.Context, name string) (*model.Store, error) {
	s := a.NewStore()
	if err := s.LoadFrom(ctx, a.repo, name); err != nil {
		return nil, err
	}
	return s, nil
}

// Sample stores the sample vehicle model under name.
func (a *App) Sample(ctx context.Context, name string) error {
	s := a.NewStore()
	if err := s.InitializeSampleModel(); err != nil {
		return err
	}
	return s.SaveTo(ctx, a.repo, name)
}

// Import reads a model document from path and stores it under name.
// Documents that do not decode are rejected; validation findings are not.
func (a *App) Import(ctx context.Context, name, path string) (*model.Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	s := a.NewStore()
	if err := s.LoadModelJSON(data); err != nil {
		return nil, err
	}
	if err := s.SaveTo(ctx, a.repo, name); err != nil {
		return nil, err
	}
	return s, nil
}

// Validation is the outcome of checking a stored model.
type Validation struct {
	Document *domain.Document
	// Err is nil for a valid model, otherwise a *validator.AggregateError.
	Err error
}

// Findings returns the individual findings of v.
func (v Validation) Findings() []*domain.ValidationError {
	return validator.ValidationErrors(v.Err)
}

// Validate loads the named model and checks it. The returned error reports
// failures to load; findings are carried by the Validation.
func (a *App) Validate(ctx context.Context, name string) (*Validation, error) {
	s, err := a.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	doc, err := s.Document()
	if err != nil {
		return nil, err
	}
	return &Validation{Document: doc, Err: s.Validate()}, nil
}

// Export writes the named model to w as JSON or as a Mermaid flowchart.
// Mermaid output marks elements that have validation findings.
func (a *App) Export(ctx context.Context, name, format string, w io.Writer) error {
	s, err := a.Open(ctx, name)
	if err != nil {
		return err
	}

	switch format {
	case FormatJSON:
		data, err := s.ModelJSON()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case FormatMermaid:
		doc, err := s.Document()
		if err != nil {
			return err
		}
		overlay := &graph.Overlay{}
		for _, f := range validator.ValidationErrors(s.Validate()) {
			overlay.Invalid = append(overlay.Invalid, f.ElementID)
		}
		_, err = fmt.Fprint(w, graph.GenerateMermaid(doc, overlay))
		return err
	}
	return fmt.Errorf("unknown export format %q", format)
}

// Report renders a Markdown summary of the named model.
func (a *App) Report(ctx context.Context, name string) (string, error) {
	v, err := a.Validate(ctx, name)
	if err != nil {
		return "", err
	}
	return tui.Report(name, v.Document, v.Err), nil
}

// List returns the stored model names.
func (a *App) List(ctx context.Context) ([]string, error) {
	return a.repo.List(ctx)
}

// Delete removes the named model.
func (a *App) Delete(ctx context.Context, name string) error {
	return a.repo.Delete(ctx, name)
}

// Diff compares two stored models. It returns nil when they are equivalent.
func (a *App) Diff(ctx context.Context, from, to string) (*domain.DocumentDiff, error) {
	before, err := a.repo.Load(ctx, from)
	if err != nil {
		return nil, err
	}
	after, err := a.repo.Load(ctx, to)
	if err != nil {
		return nil, err
	}
	return domain.Diff(before, after)
}

// WriteMetrics dumps the store metrics in the Prometheus text format.
func (a *App) WriteMetrics(w io.Writer) error {
	families, err := a.registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
