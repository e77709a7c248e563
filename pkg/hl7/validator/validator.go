package validator

import (
	"fmt"

	"github.com/oracle-Solution/hl7/pkg/hl7/dictionary"
	"github.com/oracle-Solution/hl7/pkg/hl7/mapper"
	"github.com/oracle-Solution/hl7/pkg/hl7/message"
	"github.com/oracle-Solution/hl7/pkg/hl7/separator"
)

// Rule is one independent check. Check reports issues through the context
// and must not modify the message.
type Rule interface {
	// Name identifies the rule in findings, e.g. "required".
	Name() string

	// Check inspects ctx.Message and reports issues with ctx.Report.
	Check(ctx *Context)
}

// Context carries the inputs of one validation pass to the rules.
type Context struct {
	// Message is the message under validation.
	Message *message.Message

	// Dictionary is the dictionary of the requested version.
	Dictionary *dictionary.Version

	// Version is the requested version identifier.
	Version string

	rule   string
	issues []issue
}

type issue struct {
	severity Severity
	rule     string
	pos      message.Position
	message  string
}

// Report records an issue anchored at pos.
func (c *Context) Report(severity Severity, pos message.Position, format string, args ...any) {
	c.issues = append(c.issues, issue{
		severity: severity,
		rule:     c.rule,
		pos:      pos.Normalize(),
		message:  fmt.Sprintf(format, args...),
	})
}

// Error records an ERROR issue.
func (c *Context) Error(pos message.Position, format string, args ...any) {
	c.Report(SeverityError, pos, format, args...)
}

// Info records an INFO issue.
func (c *Context) Info(pos message.Position, format string, args ...any) {
	c.Report(SeverityInfo, pos, format, args...)
}

// Validator runs a list of rules against messages of any known version.
// It holds no per-message state and is safe for concurrent use.
type Validator struct {
	registry *dictionary.Registry
	rules    []Rule
	strict   bool
}

// Option configures a Validator.
type Option func(*Validator)

// WithRules replaces the default rule list.
func WithRules(rules ...Rule) Option {
	return func(v *Validator) {
		v.rules = rules
	}
}

// WithStrict promotes every INFO finding to ERROR.
func WithStrict(strict bool) Option {
	return func(v *Validator) {
		v.strict = strict
	}
}

// New creates a validator over registry. A nil registry means the built-in
// dictionaries.
func New(registry *dictionary.Registry, opts ...Option) *Validator {
	if registry == nil {
		registry = dictionary.Default()
	}
	v := &Validator{
		registry: registry,
		rules:    DefaultRules(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// DefaultRules returns the built-in rules.
func DefaultRules() []Rule {
	return []Rule{
		HeaderRule{},
		SegmentKnownRule{},
		FieldCountRule{},
		RequiredRule{},
		RepeatableRule{},
		MaxLengthRule{},
		DataTypeRule{},
		ConsistencyRule{},
	}
}

// Rules returns the names of the configured rules.
func (v *Validator) Rules() []string {
	names := make([]string, len(v.rules))
	for i, r := range v.rules {
		names[i] = r.Name()
	}
	return names
}

// Validate checks msg against the dictionary of version and returns the
// sorted findings. Spans are taken from rawText, the text msg was parsed
// from, parsed with set. It fails only when the version is unknown or
// rawText cannot be parsed.
func (v *Validator) Validate(msg *message.Message, rawText string, set separator.Set, version string) ([]Finding, error) {
	dict, err := v.registry.Version(version)
	if err != nil {
		return nil, err
	}
	m, err := mapper.New(rawText, set)
	if err != nil {
		return nil, err
	}

	ctx := &Context{Message: msg, Dictionary: dict, Version: version}
	for _, rule := range v.rules {
		ctx.rule = rule.Name()
		rule.Check(ctx)
	}

	findings := make([]Finding, 0, len(ctx.issues))
	for _, is := range ctx.issues {
		sev := is.severity
		if v.strict {
			sev = SeverityError
		}
		findings = append(findings, Finding{
			Severity: sev,
			Rule:     is.rule,
			Message:  is.message,
			Position: is.pos,
			Span:     m.NearestSpan(is.pos),
		})
	}
	Sort(findings)
	return findings, nil
}

// ValidateText parses rawText with the separators it declares and validates
// it against version.
func (v *Validator) ValidateText(rawText, version string) ([]Finding, error) {
	if _, err := v.registry.Version(version); err != nil {
		return nil, err
	}
	msg, err := message.ParseWithVersion(rawText, version)
	if err != nil {
		return nil, err
	}
	return v.Validate(msg, rawText, msg.Separators, version)
}
