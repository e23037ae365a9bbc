// Package federation builds federation subgraph schemas from schema definition language.
//
// BuildSubgraphSchema accepts both subgraph and supergraph schemas, ExtractSubgraphSchema
// only accepts supergraphs. Builders with a cache can be used to serve repeated requests.
package federation

import (
	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru"
	"github.com/jensneuse/abstractlogger"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/TykTechnologies/graphql-subgraph-extractor/pkg/astparser"
	"github.com/TykTechnologies/graphql-subgraph-extractor/pkg/astprinter"
	"github.com/TykTechnologies/graphql-subgraph-extractor/pkg/federation/composition"
	"github.com/TykTechnologies/graphql-subgraph-extractor/pkg/federation/subgraph"
	"github.com/TykTechnologies/graphql-subgraph-extractor/pkg/operationreport"
)

type options struct {
	composition []composition.Option
	extraction  []subgraph.Option
	summary     *subgraph.Summary
	indent      string
	cacheSize   int
	logger      abstractlogger.Logger
}

type Option func(options *options)

func WithGraphName(name string) Option {
	return func(options *options) {
		options.composition = append(options.composition, composition.WithGraphName(name))
	}
}

func WithGraphURL(url string) Option {
	return func(options *options) {
		options.composition = append(options.composition, composition.WithGraphURL(url))
	}
}

func WithLinkURL(url string) Option {
	return func(options *options) {
		options.extraction = append(options.extraction, subgraph.WithLinkURL(url))
	}
}

func WithMarkerPolicy(policy subgraph.MarkerPolicy) Option {
	return func(options *options) {
		options.extraction = append(options.extraction, subgraph.WithMarkerPolicy(policy))
	}
}

func WithCollisionPolicy(policy subgraph.CollisionPolicy) Option {
	return func(options *options) {
		options.extraction = append(options.extraction, subgraph.WithCollisionPolicy(policy))
	}
}

func WithEmptyEntities(policy subgraph.EmptyEntitiesPolicy) Option {
	return func(options *options) {
		options.extraction = append(options.extraction, subgraph.WithEmptyEntities(policy))
	}
}

// WithSummary stores the summary of the extraction in summary
func WithSummary(summary *subgraph.Summary) Option {
	return func(options *options) {
		options.summary = summary
	}
}

func WithIndent(indent string) Option {
	return func(options *options) {
		options.indent = indent
	}
}

// WithCache keeps the results of the last size schemas built by a Builder
func WithCache(size int) Option {
	return func(options *options) {
		options.cacheSize = size
	}
}

func WithLogger(logger abstractlogger.Logger) Option {
	return func(options *options) {
		options.logger = logger
		options.composition = append(options.composition, composition.WithLogger(logger))
		options.extraction = append(options.extraction, subgraph.WithLogger(logger))
	}
}

// BuildSubgraphSchema returns the federation subgraph schema of a subgraph or supergraph schema
func BuildSubgraphSchema(sdl string, opts ...Option) (string, error) {
	builder, err := NewBuilder(opts...)
	if err != nil {
		return "", err
	}
	return builder.Build(sdl)
}

// ExtractSubgraphSchema returns the federation subgraph schema of a supergraph schema
func ExtractSubgraphSchema(supergraphSDL string, opts ...Option) (string, error) {
	builder, err := NewBuilder(opts...)
	if err != nil {
		return "", err
	}
	return builder.Extract(supergraphSDL)
}

type cachedSchema struct {
	sdl     string
	summary subgraph.Summary
}

type Builder struct {
	options   options
	composer  *composition.Composer
	extractor *subgraph.Extractor
	cache     *lru.Cache
}

func NewBuilder(opts ...Option) (*Builder, error) {
	builder := &Builder{
		options: options{
			indent: astprinter.DefaultIndent,
			logger: abstractlogger.NoopLogger,
		},
	}
	for _, opt := range opts {
		opt(&builder.options)
	}

	builder.composer = composition.NewComposer(builder.options.composition...)
	builder.extractor = subgraph.NewExtractor(builder.options.extraction...)

	if builder.options.cacheSize > 0 {
		cache, err := lru.New(builder.options.cacheSize)
		if err != nil {
			return nil, err
		}
		builder.cache = cache
	}
	return builder, nil
}

// Build composes sdl if it is not a supergraph yet and extracts its subgraph schema.
// A returned error is an operationreport.Report.
func (b *Builder) Build(sdl string) (string, error) {
	return b.build(sdl, false)
}

// Extract is like Build but rejects schemas which are not supergraphs
func (b *Builder) Extract(supergraphSDL string) (string, error) {
	return b.build(supergraphSDL, true)
}

func (b *Builder) build(sdl string, supergraphOnly bool) (string, error) {
	key := cacheKey(sdl, supergraphOnly)
	if cached, ok := b.fromCache(key); ok {
		b.options.logger.Debug("federation: serving subgraph schema from cache",
			abstractlogger.Any("key", key),
		)
		b.setSummary(cached.summary)
		return cached.sdl, nil
	}

	report := operationreport.Report{}
	document := b.compose(sdl, supergraphOnly, &report)
	if report.HasErrors() {
		return "", report
	}

	extracted, summary := b.extractor.ExtractWithReport(document, &report)
	if report.HasErrors() {
		return "", report
	}

	out, err := astprinter.PrintStringIndent(extracted, b.options.indent)
	if err != nil {
		return "", err
	}

	if b.cache != nil {
		b.cache.Add(key, cachedSchema{sdl: out, summary: *summary})
	}
	b.setSummary(*summary)
	return out, nil
}

func (b *Builder) compose(sdl string, supergraphOnly bool, report *operationreport.Report) *ast.SchemaDocument {
	source := &ast.Source{Name: astparser.DefaultSourceName, Input: sdl}
	if !supergraphOnly {
		return b.composer.ComposeSource(source, report)
	}

	document, parseReport := astparser.ParseGraphqlDocumentSource(source)
	if parseReport.HasErrors() {
		report.Merge(parseReport)
		return nil
	}
	if !composition.IsSupergraph(document) {
		report.AddExternalError(operationreport.ErrNotASupergraph())
		return nil
	}
	return b.composer.ComposeSource(source, report)
}

func (b *Builder) fromCache(key uint64) (cachedSchema, bool) {
	if b.cache == nil {
		return cachedSchema{}, false
	}
	value, ok := b.cache.Get(key)
	if !ok {
		return cachedSchema{}, false
	}
	return value.(cachedSchema), true
}

func (b *Builder) setSummary(summary subgraph.Summary) {
	if b.options.summary != nil {
		*b.options.summary = summary
	}
}

func cacheKey(sdl string, supergraphOnly bool) uint64 {
	if supergraphOnly {
		return xxhash.Sum64String("supergraph:" + sdl)
	}
	return xxhash.Sum64String(sdl)
}
