// Package subgraph rewrites a composed supergraph schema into a standalone federation subgraph schema.
//
// The rewrite runs as a fixed sequence of stages, each walking the whole document once:
//
//  1. the schema annotator links the schema to a federation version
//  2. the entity classifier turns join__type markers into @key or @shareable
//  3. the artifact stripper removes all join__ directive usages
//  4. the root sanitizer removes all directives from the root operation types
//  5. the type eliminator removes join__ enums, scalars and directive definitions
//  6. the scaffold assembler declares _Any, FieldSet, _Entity, _entities, @key and @shareable
//
// The input document is never modified.
package subgraph

import (
	"errors"
	"fmt"

	"github.com/jensneuse/abstractlogger"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/TykTechnologies/graphql-subgraph-extractor/pkg/astvisitor"
	"github.com/TykTechnologies/graphql-subgraph-extractor/pkg/operationreport"
)

type Visitor interface {
	Register(walker *astvisitor.Walker)
}

// Summary describes what an extraction changed
type Summary struct {
	Entities                    []string `json:"entities" yaml:"entities"`
	ShareableTypes              []string `json:"shareable_types" yaml:"shareable_types"`
	RemovedTypes                []string `json:"removed_types" yaml:"removed_types"`
	RemovedDirectiveDefinitions []string `json:"removed_directive_definitions" yaml:"removed_directive_definitions"`
	StrippedDirectiveUsages     int      `json:"stripped_directive_usages" yaml:"stripped_directive_usages"`
	ReplacedDeclarations        []string `json:"replaced_declarations,omitempty" yaml:"replaced_declarations,omitempty"`
}

// Extractor holds the configuration of an extraction.
// It keeps no state between calls and may be used concurrently.
type Extractor struct {
	options options
}

func NewExtractor(opts ...Option) *Extractor {
	extractor := &Extractor{
		options: options{
			linkURL:         DefaultLinkURL,
			markerPolicy:    MarkerPolicyFirst,
			collisionPolicy: CollisionPolicyError,
			emptyEntities:   EmptyEntitiesKeep,
			logger:          abstractlogger.NoopLogger,
		},
	}
	for _, opt := range opts {
		opt(&extractor.options)
	}
	return extractor
}

// extraction is the state shared by the stages of a single run
type extraction struct {
	options  options
	registry *EntityRegistry
	summary  *Summary
	logger   abstractlogger.Logger
}

type stage struct {
	name    string
	visitor Visitor
}

func (e *Extractor) setupStages(run *extraction, scaffold *ast.SchemaDocument) []stage {
	return []stage{
		{name: "annotate schema", visitor: newSchemaAnnotator(e.options.linkURL)},
		{name: "classify entities", visitor: newEntityClassifier(run)},
		{name: "strip composition artifacts", visitor: newArtifactStripper(run)},
		{name: "sanitize root types", visitor: newRootSanitizer()},
		{name: "eliminate composition types", visitor: newTypeEliminator(run)},
		{name: "assemble federation scaffold", visitor: newScaffoldAssembler(run, scaffold)},
	}
}

// Extract returns the subgraph schema for a composed document.
// A returned error is an operationreport.Report, use operationreport.IsInternal to tell bad input from a bug.
func (e *Extractor) Extract(document *ast.SchemaDocument) (*ast.SchemaDocument, *Summary, error) {
	report := operationreport.Report{}
	out, summary := e.ExtractWithReport(document, &report)
	if report.HasErrors() {
		return nil, nil, report
	}
	return out, summary, nil
}

// ExtractWithReport is like Extract but collects errors into report
func (e *Extractor) ExtractWithReport(document *ast.SchemaDocument, report *operationreport.Report) (*ast.SchemaDocument, *Summary) {
	if document == nil {
		report.AddInternalError(errors.New("extract subgraph: document must not be nil"))
		return nil, nil
	}
	if len(document.Definitions) == 0 && len(document.Extensions) == 0 {
		report.AddExternalError(operationreport.ErrEmptySchema())
		return nil, nil
	}

	scaffold, err := parseFederationScaffold()
	if err != nil {
		report.AddInternalError(err)
		return nil, nil
	}

	run := &extraction{
		options:  e.options,
		registry: NewEntityRegistry(),
		summary:  &Summary{},
		logger:   e.options.logger,
	}

	for _, stage := range e.setupStages(run, scaffold) {
		run.logger.Debug("subgraph: running stage",
			abstractlogger.String("stage", stage.name),
		)

		walker := astvisitor.NewWalker()
		stage.visitor.Register(&walker)
		document = walker.Walk(document, report)
		if report.HasErrors() {
			return nil, nil
		}
		if document == nil {
			report.AddInternalError(fmt.Errorf("extract subgraph: stage '%s' stopped without an error", stage.name))
			return nil, nil
		}
	}

	run.summary.Entities = run.registry.Names()
	run.logger.Debug("subgraph: extraction finished",
		abstractlogger.Int("entities", len(run.summary.Entities)),
		abstractlogger.Int("shareable_types", len(run.summary.ShareableTypes)),
		abstractlogger.Int("stripped_directive_usages", run.summary.StrippedDirectiveUsages),
	)

	return document, run.summary
}
