package editor

import (
	"fmt"

	"github.com/oracle-Solution/hl7/pkg/config"
	"github.com/oracle-Solution/hl7/pkg/hl7/dictionary"
	hl7errors "github.com/oracle-Solution/hl7/pkg/hl7/errors"
	"github.com/oracle-Solution/hl7/pkg/hl7/mapper"
	"github.com/oracle-Solution/hl7/pkg/hl7/separator"
	"github.com/oracle-Solution/hl7/pkg/hl7/validator"
	"github.com/oracle-Solution/hl7/pkg/telemetry/logging"
	"github.com/oracle-Solution/hl7/pkg/telemetry/metrics"
	"github.com/oracle-Solution/hl7/pkg/telemetry/tracing"
)

// Service runs editor operations. It holds only immutable collaborators and
// is safe for concurrent use; every call re-derives the message, positions
// and findings from the text it is given.
type Service struct {
	registry       *dictionary.Registry
	validator      *validator.Validator
	logger         *logging.Logger
	metrics        *metrics.Collector
	tracer         *tracing.Tracer
	units          mapper.Units
	defaultVersion string
	strict         bool
	maxBytes       int
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *logging.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(collector *metrics.Collector) Option {
	return func(s *Service) {
		s.metrics = collector
	}
}

// WithTracer sets the tracer.
func WithTracer(tracer *tracing.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

// WithUnits sets the unit of caret offsets and spans in requests and results.
func WithUnits(units mapper.Units) Option {
	return func(s *Service) {
		s.units = units
	}
}

// WithDefaultVersion sets the version used when a request names none.
func WithDefaultVersion(version string) Option {
	return func(s *Service) {
		if version != "" {
			s.defaultVersion = version
		}
	}
}

// WithStrict reports every finding as an error.
func WithStrict(strict bool) Option {
	return func(s *Service) {
		s.strict = strict
	}
}

// WithMaxMessageBytes rejects larger messages as malformed. Zero disables
// the limit.
func WithMaxMessageBytes(n int) Option {
	return func(s *Service) {
		s.maxBytes = n
	}
}

// New creates a service over registry. A nil registry means the built-in
// dictionaries.
func New(registry *dictionary.Registry, opts ...Option) *Service {
	if registry == nil {
		registry = dictionary.Default()
	}
	s := &Service{
		registry:       registry,
		logger:         logging.Nop(),
		defaultVersion: config.DefaultVersion,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.validator = validator.New(registry, validator.WithStrict(s.strict))
	return s
}

// FromConfig creates a service from the editor section of the configuration.
func FromConfig(cfg config.EditorConfig, registry *dictionary.Registry, opts ...Option) (*Service, error) {
	units, err := mapper.ParseUnits(cfg.Units)
	if err != nil {
		return nil, fmt.Errorf("editor: %w", err)
	}
	base := []Option{
		WithUnits(units),
		WithDefaultVersion(cfg.DefaultVersion),
		WithStrict(cfg.Strict),
		WithMaxMessageBytes(cfg.MaxMessageBytes),
	}
	return New(registry, append(base, opts...)...), nil
}

// Registry returns the dictionary registry of the service.
func (s *Service) Registry() *dictionary.Registry {
	return s.registry
}

// Units returns the offset unit of the service.
func (s *Service) Units() mapper.Units {
	return s.units
}

// DefaultVersion returns the version used for requests that name none.
func (s *Service) DefaultVersion() string {
	return s.defaultVersion
}

// document is one parsed text with everything derived from it.
type document struct {
	text    string
	version string
	dict    *dictionary.Version
	set     separator.Set
	mapper  *mapper.Mapper
}

// load resolves the version and parses text. Unknown versions fail with a
// plain error; text that cannot be parsed fails with a malformed message
// error.
func (s *Service) load(text, version string) (*document, error) {
	if version == "" {
		version = s.defaultVersion
	}
	if s.maxBytes > 0 && len(text) > s.maxBytes {
		return nil, hl7errors.NewMalformed("message is %d bytes, limit is %d", len(text), s.maxBytes)
	}

	dict, err := s.registry.Version(version)
	if err != nil {
		return nil, err
	}
	if !separator.IsSupported(version) {
		return nil, fmt.Errorf("no separator table for HL7 version %q (supported: %v)", version, separator.Versions())
	}

	set, err := separator.Detect(text, version)
	if err != nil {
		return nil, hl7errors.NewMalformed("%v", err)
	}
	m, err := mapper.New(text, set)
	if err != nil {
		return nil, err
	}
	return &document{text: text, version: version, dict: dict, set: set, mapper: m}, nil
}

// validate runs the validator over the document and converts spans to the
// service units.
func (s *Service) validate(doc *document) ([]validator.Finding, error) {
	findings, err := s.validator.Validate(doc.mapper.Message(), doc.text, doc.set, doc.version)
	if err != nil {
		return nil, err
	}
	if s.units != mapper.UnitsBytes {
		for i := range findings {
			findings[i].Span = s.units.Span(doc.text, findings[i].Span)
		}
	}
	return findings, nil
}

// caret converts a byte caret on text to the service units.
func (s *Service) caret(text string, c mapper.Caret) mapper.Caret {
	return s.units.Caret(text, c)
}
