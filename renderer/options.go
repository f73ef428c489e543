package renderer

import "log/slog"

type config struct {
	translator     Translator
	vertexSource   string
	fragmentSource string
	logger         *slog.Logger
}

// Option configures Start.
type Option func(*config)

// WithTranslator translates the fragment stage for the device before it is
// compiled. Without one, the stage is handed to the device as written.
func WithTranslator(t Translator) Option {
	return func(c *config) {
		c.translator = t
	}
}

// WithSources replaces the built-in stage sources. An empty string keeps the
// built-in source for that stage.
func WithSources(vertex, fragment string) Option {
	return func(c *config) {
		c.vertexSource = vertex
		c.fragmentSource = fragment
	}
}

// WithLogger overrides the package logger for one background.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

func newConfig(opts []Option) *config {
	c := &config{}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = Logger()
	}
	return c
}
