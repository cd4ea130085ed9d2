package generate

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-cassie/internal/logging"
	"github.com/goliatone/go-cassie/pkg/naming"
)

const (
	// FileMode is the permission used for configuration files.
	FileMode fs.FileMode = 0o644
	// ScriptMode is the permission used for job scripts.
	ScriptMode fs.FileMode = 0o755
)

// Artifact is one fully rendered output file.
type Artifact struct {
	Path     string          `json:"path"`
	Identity naming.Identity `json:"identity"`
	Content  []byte          `json:"-"`
	Mode     fs.FileMode     `json:"mode"`
}

// Sink persists artifacts.
type Sink interface {
	Write(ctx context.Context, artifact Artifact) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, artifact Artifact) error

// Write calls f.
func (f SinkFunc) Write(ctx context.Context, artifact Artifact) error {
	return f(ctx, artifact)
}

// FileSink writes artifacts to the local filesystem. Parent directories must
// already exist.
type FileSink struct{}

// Write stores the artifact content at its path, replacing any existing file.
func (FileSink) Write(_ context.Context, artifact Artifact) error {
	mode := artifact.Mode
	if mode == 0 {
		mode = FileMode
	}
	if err := os.WriteFile(artifact.Path, artifact.Content, mode); err != nil {
		return fmt.Errorf("write %s: %w", artifact.Path, err)
	}
	return nil
}

// Result summarises a generation pass.
type Result struct {
	Component string     `json:"component"`
	PassID    string     `json:"passId"`
	DryRun    bool       `json:"dryRun"`
	Artifacts []Artifact `json:"artifacts"`
}

// Paths returns the artifact paths in generation order.
func (r Result) Paths() []string {
	out := make([]string, len(r.Artifacts))
	for i, artifact := range r.Artifacts {
		out[i] = artifact.Path
	}
	return out
}

// Option customises a generation pass.
type Option func(*Settings)

// Settings holds the collaborators used while writing artifacts.
type Settings struct {
	Logger *zap.Logger
	Sink   Sink
	DryRun bool
}

// WithLogger overrides the logger taken from the context.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Settings) {
		if logger != nil {
			s.Logger = logger
		}
	}
}

// WithSink replaces the default FileSink.
func WithSink(sink Sink) Option {
	return func(s *Settings) {
		if sink != nil {
			s.Sink = sink
		}
	}
}

// WithDryRun renders every artifact without writing any of them.
func WithDryRun(enabled bool) Option {
	return func(s *Settings) {
		s.DryRun = enabled
	}
}

// NewSettings applies options over the defaults (context logger, FileSink).
func NewSettings(ctx context.Context, options ...Option) Settings {
	s := Settings{
		Logger: logging.FromContext(ctx),
		Sink:   FileSink{},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&s)
	}
	return s
}

// Write persists artifacts in order. The first failure aborts the pass; the
// returned Result still lists the artifacts written before it, and the error
// is a *PartialError when any were.
func Write(ctx context.Context, component string, artifacts []Artifact, settings Settings) (Result, error) {
	if ctx == nil {
		return Result{}, errors.New("generate: context is required")
	}
	if settings.Sink == nil {
		settings.Sink = FileSink{}
	}
	if settings.Logger == nil {
		settings.Logger = zap.NewNop()
	}

	result := Result{
		Component: component,
		PassID:    uuid.NewString(),
		DryRun:    settings.DryRun,
	}
	logger := settings.Logger.With(
		zap.String("component", component),
		zap.String("pass", result.PassID),
	)

	if settings.DryRun {
		result.Artifacts = append(result.Artifacts, artifacts...)
		logger.Info("dry run complete", zap.Int("files", len(artifacts)))
		return result, nil
	}

	written := make([]string, 0, len(artifacts))
	for _, artifact := range artifacts {
		err := ctx.Err()
		if err == nil {
			err = settings.Sink.Write(ctx, artifact)
		}
		if err != nil {
			logger.Error("generation aborted",
				zap.String("path", artifact.Path),
				zap.Int("written", len(written)),
				zap.Error(err),
			)
			if len(written) == 0 {
				return result, fmt.Errorf("%s: %w", component, err)
			}
			return result, &PartialError{
				Component: component,
				Written:   written,
				Total:     len(artifacts),
				Path:      artifact.Path,
				Err:       err,
			}
		}
		written = append(written, artifact.Path)
		result.Artifacts = append(result.Artifacts, artifact)
		logger.Debug("wrote file",
			zap.String("path", artifact.Path),
			zap.String("model", artifact.Identity.Model),
			zap.String("scenario", artifact.Identity.Scenario),
			zap.Int("index", artifact.Identity.Index),
			zap.Int("bytes", len(artifact.Content)),
		)
	}

	logger.Info("generation complete", zap.Int("files", len(written)))
	return result, nil
}

// EnsureDir creates dir and its parents. Generators never call it; callers
// that own the output tree opt in explicitly.
func EnsureDir(dir string) error {
	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Clean(dir), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}
