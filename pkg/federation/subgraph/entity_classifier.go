package subgraph

import (
	"fmt"

	"github.com/jensneuse/abstractlogger"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/TykTechnologies/graphql-subgraph-extractor/pkg/asttransform"
	"github.com/TykTechnologies/graphql-subgraph-extractor/pkg/astvisitor"
)

const (
	keyDirectiveName       = "key"
	shareableDirectiveName = "shareable"
	keyFieldsArgument      = "fields"
)

func newEntityClassifier(run *extraction) *entityClassifier {
	return &entityClassifier{
		run: run,
	}
}

// entityClassifier turns the join__type markers of object types into @key or @shareable.
// The markers stay in place, they are removed by the artifact stripper.
type entityClassifier struct {
	*astvisitor.Walker
	run *extraction
}

func (e *entityClassifier) Register(walker *astvisitor.Walker) {
	e.Walker = walker
	walker.RegisterEnterObjectTypeDefinitionVisitor(e)
}

func (e *entityClassifier) EnterObjectTypeDefinition(definition *ast.Definition) astvisitor.Change[*ast.Definition] {
	markers := joinTypeMarkers(definition.Directives)
	if len(markers) == 0 {
		return astvisitor.NoChange[*ast.Definition]()
	}

	var keys []*ast.Directive
	switch e.run.options.markerPolicy {
	case MarkerPolicyFirst:
		if key := keyFromMarker(markers[0]); key != nil {
			keys = append(keys, key)
		}
	case MarkerPolicyAllKeys:
		keys = distinctKeysFromMarkers(markers)
	default:
		e.StopWithInternalErr(fmt.Errorf("classify type '%s': unknown marker policy %s", definition.Name, e.run.options.markerPolicy))
		return astvisitor.NoChange[*ast.Definition]()
	}

	if len(keys) == 0 {
		e.run.summary.ShareableTypes = append(e.run.summary.ShareableTypes, definition.Name)
		e.run.logger.Debug("subgraph: classified type as shareable",
			abstractlogger.String("type", definition.Name),
		)
		return astvisitor.Replace(asttransform.DefinitionWithDirectives(definition,
			asttransform.AppendDirectives(definition.Directives, asttransform.NewDirective(shareableDirectiveName)),
		))
	}

	e.run.registry.Add(definition.Name)
	e.run.logger.Debug("subgraph: classified type as entity",
		abstractlogger.String("type", definition.Name),
		abstractlogger.Int("keys", len(keys)),
	)
	return astvisitor.Replace(asttransform.DefinitionWithDirectives(definition,
		asttransform.AppendDirectives(definition.Directives, keys...),
	))
}

func joinTypeMarkers(directives ast.DirectiveList) []*ast.Directive {
	var markers []*ast.Directive
	for _, directive := range directives {
		if directive.Name == JoinTypeDirectiveName {
			markers = append(markers, directive)
		}
	}
	return markers
}

// keyFromMarker builds @key(fields: <key>[, resolvable: <resolvable>]) from a marker.
// It returns nil if the marker has no key. Argument values are shared with the marker.
func keyFromMarker(marker *ast.Directive) *ast.Directive {
	arguments := make(map[string]*ast.Argument, len(marker.Arguments))
	for _, argument := range marker.Arguments {
		arguments[argument.Name] = argument
	}

	key, ok := arguments[joinTypeKeyArgument]
	if !ok {
		return nil
	}

	keyArguments := ast.ArgumentList{
		{Name: keyFieldsArgument, Value: key.Value},
	}
	if resolvable, ok := arguments[joinTypeResolvableArgument]; ok {
		keyArguments = append(keyArguments, &ast.Argument{Name: joinTypeResolvableArgument, Value: resolvable.Value})
	}

	return asttransform.NewDirective(keyDirectiveName, keyArguments...)
}

func distinctKeysFromMarkers(markers []*ast.Directive) []*ast.Directive {
	var keys []*ast.Directive
	seen := make(map[string]struct{}, len(markers))
	for _, marker := range markers {
		key := keyFromMarker(marker)
		if key == nil {
			continue
		}
		fields := key.Arguments[0].Value.String()
		if _, ok := seen[fields]; ok {
			continue
		}
		seen[fields] = struct{}{}
		keys = append(keys, key)
	}
	return keys
}
