// Package composition turns a single federation subgraph schema into a supergraph schema
// that carries the join__ composition markers of one graph.
//
// A source that already is a supergraph is validated and returned as parsed.
package composition

import (
	_ "embed"
	"fmt"

	"github.com/iancoleman/strcase"
	"github.com/jensneuse/abstractlogger"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/validator"

	"github.com/TykTechnologies/graphql-subgraph-extractor/pkg/astparser"
	"github.com/TykTechnologies/graphql-subgraph-extractor/pkg/astvisitor"
	"github.com/TykTechnologies/graphql-subgraph-extractor/pkg/federation/subgraph"
	"github.com/TykTechnologies/graphql-subgraph-extractor/pkg/operationreport"
)

const (
	DefaultGraphName = "subgraph"

	LinkSpecURL = "https://specs.apollo.dev/link/v1.0"
	JoinSpecURL = "https://specs.apollo.dev/join/v0.3"
)

//go:embed federation_subgraph.graphql
var federationSubgraphSchema string

//go:embed join.graphql
var joinSchema string

type options struct {
	graphName string
	graphURL  string
	logger    abstractlogger.Logger
}

type Option func(options *options)

// WithGraphName sets the name of the graph the subgraph schema is registered as.
// The join__Graph enum value is derived from it.
func WithGraphName(name string) Option {
	return func(options *options) {
		options.graphName = name
	}
}

func WithGraphURL(url string) Option {
	return func(options *options) {
		options.graphURL = url
	}
}

func WithLogger(logger abstractlogger.Logger) Option {
	return func(options *options) {
		options.logger = logger
	}
}

type Composer struct {
	options options
}

func NewComposer(opts ...Option) *Composer {
	composer := &Composer{
		options: options{
			graphName: DefaultGraphName,
			logger:    abstractlogger.NoopLogger,
		},
	}
	for _, opt := range opts {
		opt(&composer.options)
	}
	return composer
}

// GraphEnumValue returns the join__Graph value of the configured graph name
func (c *Composer) GraphEnumValue() string {
	return strcase.ToScreamingSnake(c.options.graphName)
}

// Compose parses and composes a schema. A returned error is an operationreport.Report.
func (c *Composer) Compose(sdl string) (*ast.SchemaDocument, error) {
	report := operationreport.Report{}
	document := c.ComposeSource(&ast.Source{Name: astparser.DefaultSourceName, Input: sdl}, &report)
	if report.HasErrors() {
		return nil, report
	}
	return document, nil
}

func (c *Composer) ComposeSource(source *ast.Source, report *operationreport.Report) *ast.SchemaDocument {
	document, parseReport := astparser.ParseGraphqlDocumentSource(source)
	if parseReport.HasErrors() {
		report.Merge(parseReport)
		return nil
	}

	if IsSupergraph(document) {
		c.options.logger.Debug("composition: source is a supergraph",
			abstractlogger.String("source", source.Name),
		)
		if !validateSupergraph(source, document, report) {
			return nil
		}
		return document
	}

	c.options.logger.Debug("composition: composing subgraph",
		abstractlogger.String("source", source.Name),
		abstractlogger.String("graph", c.options.graphName),
	)

	graph := c.GraphEnumValue()
	if !isValidName(graph) {
		report.AddExternalError(operationreport.ErrInvalidGraphName(c.options.graphName))
		return nil
	}

	prelude, err := parsePrelude(federationSubgraphSchema, "federation_subgraph.graphql")
	if err != nil {
		report.AddInternalError(err)
		return nil
	}
	if !validateSubgraph(source, document, prelude, report) {
		return nil
	}

	folded, extended := foldExtensions(document)
	folded = removeFederationDeclarations(folded)
	if !validateKeys(folded, report) {
		return nil
	}

	join, err := parsePrelude(joinSchema, "join.graphql")
	if err != nil {
		report.AddInternalError(err)
		return nil
	}

	walker := astvisitor.NewWalker()
	newJoinAnnotator(c.graph(graph), extended, join, prelude).Register(&walker)
	composed := walker.Walk(folded, report)
	if report.HasErrors() {
		return nil
	}
	if composed == nil {
		report.AddInternalError(fmt.Errorf("compose subgraph '%s': annotation stopped without an error", c.options.graphName))
		return nil
	}
	return composed
}

func (c *Composer) graph(enumValue string) graph {
	return graph{
		name:      c.options.graphName,
		url:       c.options.graphURL,
		enumValue: enumValue,
	}
}

type graph struct {
	name      string
	url       string
	enumValue string
}

// IsSupergraph reports whether document declares the join__type directive
func IsSupergraph(document *ast.SchemaDocument) bool {
	return document.Directives.ForName(subgraph.JoinTypeDirectiveName) != nil
}

func parsePrelude(input, name string) (*ast.SchemaDocument, error) {
	document, report := astparser.ParseGraphqlDocumentSource(&ast.Source{Name: name, Input: input})
	if report.HasErrors() {
		return nil, fmt.Errorf("parse %s: %w", name, report)
	}
	return document, nil
}

func validateSupergraph(source *ast.Source, document *ast.SchemaDocument, report *operationreport.Report) bool {
	for _, extension := range document.Extensions {
		if document.Definitions.ForName(extension.Name) == nil {
			report.AddExternalError(operationreport.ErrExtensionOrphansMustResolveInSupergraph(extension.Name))
			return false
		}
	}

	if _, err := validator.LoadSchema(validator.Prelude, source); err != nil {
		report.AddGQLError(err)
		return false
	}
	return true
}

func isValidName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
