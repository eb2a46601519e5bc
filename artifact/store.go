package artifact

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/moffa90/go-fwmerge/manifest"
	"github.com/moffa90/go-fwmerge/merger"
	"github.com/viant/afs"
)

// OutputFileMode is the permission of written outputs.
const OutputFileMode os.FileMode = 0o644

// Config holds the store configuration.
type Config struct {
	// SkipMissing drops inputs that do not exist instead of failing
	SkipMissing bool

	// Logger reports skipped inputs and writes (optional)
	Logger merger.Logger
}

// Option is a functional option for configuring the Store.
type Option func(*Config)

// WithSkipMissing makes Read skip missing inputs with a warning.
func WithSkipMissing(skip bool) Option {
	return func(c *Config) {
		c.SkipMissing = skip
	}
}

// WithLogger sets a logger for store operations.
func WithLogger(logger merger.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// Store moves firmware files in and out of the merger.
type Store struct {
	fs     afs.Service
	config Config
}

// New creates a Store backed by afs.New().
func New(opts ...Option) *Store {
	return NewWithService(afs.New(), opts...)
}

// NewWithService creates a Store over an existing afs service.
func NewWithService(fs afs.Service, opts ...Option) *Store {
	s := &Store{fs: fs}
	for _, opt := range opts {
		opt(&s.config)
	}
	return s
}

// Read loads every described input, in order, and resolves its kind.
func (s *Store) Read(ctx context.Context, descs []manifest.Descriptor) ([]merger.Input, error) {
	inputs := make([]merger.Input, 0, len(descs))
	for _, d := range descs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		exists, err := s.fs.Exists(ctx, d.Path)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to stat input: %w", d.Path, err)
		}
		if !exists {
			if s.config.SkipMissing {
				s.logWarn("input not found, skipping", "source", d.Path)
				continue
			}
			return nil, fmt.Errorf("%s: input not found", d.Path)
		}

		data, err := s.fs.DownloadWithURL(ctx, d.Path)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to read input: %w", d.Path, err)
		}

		in := manifest.Resolve(d, data)
		s.logDebug("input read", "source", d.Path, "kind", in.Kind.String(), "bytes", len(data))
		inputs = append(inputs, in)
	}
	return inputs, nil
}

// Write stores a finished output buffer at path.
func (s *Store) Write(ctx context.Context, path string, data []byte) error {
	if err := s.fs.Upload(ctx, path, OutputFileMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("%s: failed to write output: %w", path, err)
	}
	s.logDebug("output written", "path", path, "bytes", len(data))
	return nil
}

func (s *Store) logDebug(msg string, keysAndValues ...interface{}) {
	if s.config.Logger != nil {
		s.config.Logger.Debug(msg, keysAndValues...)
	}
}

func (s *Store) logWarn(msg string, keysAndValues ...interface{}) {
	if s.config.Logger != nil {
		s.config.Logger.Warn(msg, keysAndValues...)
	}
}
