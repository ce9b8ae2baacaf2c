// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/invowk/umlgraph/internal/config"
	"github.com/invowk/umlgraph/internal/docfs"
	"github.com/invowk/umlgraph/pkg/codec"
	"github.com/invowk/umlgraph/pkg/delegate"
	"github.com/invowk/umlgraph/pkg/document"
	"github.com/invowk/umlgraph/pkg/elementmap"
	"github.com/invowk/umlgraph/pkg/elements"
	"github.com/invowk/umlgraph/pkg/primitives"
)

type (
	rootFlagsContextKey struct{}

	// rootFlags holds the persistent flags of the root command.
	rootFlags struct {
		verbose    bool
		configPath string
	}

	// App wires CLI services and shared dependencies. It is the composition root for
	// the CLI layer: every Cobra handler receives an App and loads configuration and
	// models through its service interfaces.
	App struct {
		Config ConfigProvider
		Models ModelLoader
		stdout io.Writer
		stderr io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil fields are
	// replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		Models ModelLoader
		Stdout io.Writer
		Stderr io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// ModelLoader reads a document and everything it references into one graph.
	ModelLoader interface {
		Load(ctx context.Context, req LoadRequest) (*LoadedModel, error)
	}

	// LoadRequest captures the inputs of one model load.
	LoadRequest struct {
		// Path is the root document file.
		Path string
		// Format overrides the format of the root file. Zero picks it from the extension.
		Format document.Format
		// Config supplies the codec settings.
		Config *config.Config
		// Logger receives integrity warnings.
		Logger *log.Logger
	}

	// LoadedModel is a document read into a graph.
	LoadedModel struct {
		Path   string
		Root   *document.Document
		Files  []*docfs.File
		Model  *elements.Model
		Reader *document.Reader
	}

	// session is the per-invocation state shared by command handlers.
	session struct {
		cfg     *config.Config
		logger  *log.Logger
		verbose bool
	}

	fsModelLoader struct{}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Models == nil {
		deps.Models = fsModelLoader{}
	}

	return &App{
		Config: deps.Config,
		Models: deps.Models,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
	}, nil
}

func contextWithRootFlags(ctx context.Context, flags *rootFlags) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, rootFlagsContextKey{}, flags)
}

func rootFlagsFromContext(ctx context.Context) *rootFlags {
	if ctx != nil {
		if flags, ok := ctx.Value(rootFlagsContextKey{}).(*rootFlags); ok {
			return flags
		}
	}
	return &rootFlags{}
}

// loadOptions returns the config load options selected by the root flags.
func loadOptions(ctx context.Context) config.LoadOptions {
	return config.LoadOptions{ConfigFilePath: rootFlagsFromContext(ctx).configPath}
}

// newSession loads configuration and builds the logger for one command. A
// configuration that fails to load is reported and replaced by the defaults.
func (a *App) newSession(ctx context.Context) *session {
	flags := rootFlagsFromContext(ctx)
	cfg, err := a.Config.Load(ctx, loadOptions(ctx))
	if err != nil {
		fmt.Fprintln(a.stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, flags.verbose))
		cfg = config.DefaultConfig()
	}
	verbose := flags.verbose || cfg.UI.Verbose
	return &session{
		cfg:     cfg,
		logger:  newLogger(a.stderr, verbose),
		verbose: verbose,
	}
}

// reloadConfig refreshes the session configuration. The previous
// configuration stays in effect when the reload fails.
func (a *App) reloadConfig(ctx context.Context, s *session) {
	cfg, err := a.Config.Load(ctx, loadOptions(ctx))
	if err != nil {
		s.logger.Warn("configuration reload failed, keeping previous settings", "err", err)
		return
	}
	s.cfg = cfg
}

// loadModel reads the document at path through the App's ModelLoader.
func (a *App) loadModel(ctx context.Context, s *session, path string, format document.Format) (*LoadedModel, error) {
	return a.Models.Load(ctx, LoadRequest{
		Path:   path,
		Format: format,
		Config: s.cfg,
		Logger: s.logger,
	})
}

// separator returns the configured qualified name separator.
func (s *session) separator() string {
	if s.cfg.Naming.Separator == "" {
		return config.DefaultSeparator
	}
	return s.cfg.Naming.Separator
}

func newLogger(w io.Writer, verbose bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Prefix: "umlgraph",
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.WarnLevel)
	}
	return logger
}

// Load reads the root document and its local references from the host
// filesystem, then decodes them into a fresh graph.
func (fsModelLoader) Load(ctx context.Context, req LoadRequest) (*LoadedModel, error) {
	cfg := req.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := req.Logger
	if logger == nil {
		logger = elementmap.DefaultLogger()
	}

	res, err := docfs.New(docfs.WithLogger(logger), docfs.WithRootFormat(req.Format)).Load(ctx, req.Path)
	if err != nil {
		return nil, err
	}

	m := elementmap.New(graphOptions(cfg, logger)...)
	reader := document.NewReader(delegate.New(m), document.WithCodecOptions(
		codec.WithApplySorting(cfg.Codec.ApplySorting),
		codec.WithLogger(logger),
	))
	model, err := reader.Read(res.Root)
	if err != nil {
		return nil, err
	}
	return &LoadedModel{
		Path:   req.Path,
		Root:   res.Root,
		Files:  res.Files,
		Model:  model,
		Reader: reader,
	}, nil
}

// graphOptions seeds the primitive types into the index when configured and
// resolves them on demand otherwise.
func graphOptions(cfg *config.Config, logger *log.Logger) []elementmap.Option {
	opts := []elementmap.Option{elementmap.WithLogger(logger)}
	if cfg.Codec.IncludesPrimitives {
		return append(opts, elementmap.WithPrimitives())
	}
	return append(opts, elementmap.WithTypeResolver(primitives.NewResolver(nil)))
}
