package subgraph

import (
	"testing"

	"github.com/jensneuse/abstractlogger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TykTechnologies/graphql-subgraph-extractor/internal/pkg/unsafeparser"
	"github.com/TykTechnologies/graphql-subgraph-extractor/internal/pkg/unsafeprinter"
	"github.com/TykTechnologies/graphql-subgraph-extractor/pkg/astvisitor"
	"github.com/TykTechnologies/graphql-subgraph-extractor/pkg/operationreport"
)

func newTestExtraction(opts ...Option) *extraction {
	extractor := NewExtractor(opts...)
	return &extraction{
		options:  extractor.options,
		registry: NewEntityRegistry(),
		summary:  &Summary{},
		logger:   abstractlogger.NoopLogger,
	}
}

type composeVisitor []Visitor

func (c composeVisitor) Register(walker *astvisitor.Walker) {
	for _, visitor := range c {
		visitor.Register(walker)
	}
}

// walk runs visitor over input and returns the printed result
func walk(t *testing.T, visitor Visitor, input string) (string, operationreport.Report) {
	t.Helper()

	document := unsafeparser.ParseGraphqlDocumentString(input)
	before := unsafeprinter.Print(document)

	report := operationreport.Report{}
	walker := astvisitor.NewWalker()
	visitor.Register(&walker)
	out := walker.Walk(document, &report)

	assert.Equal(t, before, unsafeprinter.Print(document), "the input document must not change")
	if out == nil {
		return "", report
	}
	return unsafeprinter.Print(out), report
}

var run = func(t *testing.T, visitor Visitor, input, expectedOutput string) {
	t.Helper()

	got, report := walk(t, visitor, input)
	require.False(t, report.HasErrors(), report.Error())

	assert.Equal(t, unsafeprinter.Prettify(expectedOutput), got)
}

func mustExtract(t *testing.T, extractor *Extractor, input string) (string, *Summary) {
	t.Helper()

	document := unsafeparser.ParseGraphqlDocumentString(input)
	out, summary, err := extractor.Extract(document)
	require.NoError(t, err)
	return unsafeprinter.Print(out), summary
}
