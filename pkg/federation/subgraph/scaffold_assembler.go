package subgraph

import (
	_ "embed"
	"fmt"

	"github.com/jensneuse/abstractlogger"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/TykTechnologies/graphql-subgraph-extractor/pkg/astparser"
	"github.com/TykTechnologies/graphql-subgraph-extractor/pkg/asttransform"
	"github.com/TykTechnologies/graphql-subgraph-extractor/pkg/astvisitor"
	"github.com/TykTechnologies/graphql-subgraph-extractor/pkg/operationreport"
)

//go:embed federation.graphql
var federationSchema string

const (
	AnyScalarName      = "_Any"
	FieldSetScalarName = "FieldSet"
	EntityUnionName    = "_Entity"
	EntitiesFieldName  = "_entities"
)

// parseFederationScaffold parses the static part of the federation scaffolding.
// Every extraction parses its own copy so that no node is shared between two outputs.
func parseFederationScaffold() (*ast.SchemaDocument, error) {
	document, report := astparser.ParseGraphqlDocumentSource(&ast.Source{
		Name:  "federation.graphql",
		Input: federationSchema,
	})
	if report.HasErrors() {
		return nil, fmt.Errorf("parse federation scaffold: %w", report)
	}
	return document, nil
}

func newScaffoldAssembler(run *extraction, scaffold *ast.SchemaDocument) *scaffoldAssembler {
	return &scaffoldAssembler{
		run:      run,
		scaffold: scaffold,
	}
}

// scaffoldAssembler adds the scalars, the _Entity union, the _entities field and the
// directive definitions a federation subgraph schema is expected to declare.
type scaffoldAssembler struct {
	*astvisitor.Walker
	run      *extraction
	scaffold *ast.SchemaDocument
}

func (s *scaffoldAssembler) Register(walker *astvisitor.Walker) {
	s.Walker = walker
	walker.RegisterLeaveDocumentVisitor(s)
}

func (s *scaffoldAssembler) LeaveDocument(document *ast.SchemaDocument) astvisitor.Change[*ast.SchemaDocument] {
	out := asttransform.CopyDocument(document)
	withEntities := s.run.registry.Len() > 0 || s.run.options.emptyEntities == EmptyEntitiesKeep

	typeNames := []string{AnyScalarName, FieldSetScalarName}
	if withEntities {
		typeNames = append(typeNames, EntityUnionName)
	}
	for _, name := range typeNames {
		if !s.resolveTypeCollision(out, name) {
			return astvisitor.NoChange[*ast.SchemaDocument]()
		}
	}
	for _, name := range []string{keyDirectiveName, shareableDirectiveName} {
		if !s.resolveDirectiveCollision(out, name) {
			return astvisitor.NoChange[*ast.SchemaDocument]()
		}
	}

	out.Definitions = append(out.Definitions,
		s.scaffold.Definitions.ForName(AnyScalarName),
		s.scaffold.Definitions.ForName(FieldSetScalarName),
	)

	if withEntities {
		union, ok := s.entityUnion(out)
		if !ok {
			return astvisitor.NoChange[*ast.SchemaDocument]()
		}
		out.Definitions = append(out.Definitions, union)
		if !s.addEntitiesField(out) {
			return astvisitor.NoChange[*ast.SchemaDocument]()
		}
	} else {
		s.run.logger.Debug("subgraph: no entities, omitting _Entity and _entities")
	}

	out.Directives = append(out.Directives,
		s.scaffold.Directives.ForName(keyDirectiveName),
		s.scaffold.Directives.ForName(shareableDirectiveName),
	)
	if out.Directives.ForName(linkDirectiveName) == nil {
		out.Directives = append(out.Directives, s.scaffold.Directives.ForName(linkDirectiveName))
	}

	return astvisitor.Replace(out)
}

// entityUnion builds the _Entity union from the registry.
// Every member must resolve to an object type of the document.
func (s *scaffoldAssembler) entityUnion(document *ast.SchemaDocument) (*ast.Definition, bool) {
	names := s.run.registry.Names()
	for _, name := range names {
		definition := document.Definitions.ForName(name)
		if definition == nil {
			s.StopWithInternalErr(fmt.Errorf("assemble %s: entity '%s' is not declared by the document", EntityUnionName, name))
			return nil, false
		}
		if definition.Kind != ast.Object {
			s.StopWithInternalErr(fmt.Errorf("assemble %s: entity '%s' is a %s, not an OBJECT", EntityUnionName, name, definition.Kind))
			return nil, false
		}
	}

	return &ast.Definition{
		Kind:  ast.Union,
		Name:  EntityUnionName,
		Types: names,
	}, true
}

// addEntitiesField adds _entities to the query type, declaring the query type if it is missing
func (s *scaffoldAssembler) addEntitiesField(document *ast.SchemaDocument) bool {
	queryName := queryTypeName(document)
	entities := s.scaffold.Extensions.ForName("Query").Fields.ForName(EntitiesFieldName)

	for i, definition := range document.Extensions {
		if definition.Name != queryName || definition.Fields.ForName(EntitiesFieldName) == nil {
			continue
		}
		if !s.mayReplace(operationreport.ErrSynthesizedFieldCollision(queryName, EntitiesFieldName), queryName+"."+EntitiesFieldName) {
			return false
		}
		document.Extensions[i] = asttransform.DefinitionWithFields(definition, withoutField(definition.Fields, EntitiesFieldName))
	}

	for i, definition := range document.Definitions {
		if definition.Name != queryName {
			continue
		}
		if definition.Kind != ast.Object {
			s.StopWithExternalErr(operationreport.ErrSynthesizedTypeKindMismatch(queryName, string(ast.Object), string(definition.Kind)))
			return false
		}

		fields := definition.Fields
		if fields.ForName(EntitiesFieldName) != nil {
			if !s.mayReplace(operationreport.ErrSynthesizedFieldCollision(queryName, EntitiesFieldName), queryName+"."+EntitiesFieldName) {
				return false
			}
			fields = withoutField(fields, EntitiesFieldName)
		}

		extended := make(ast.FieldList, 0, len(fields)+1)
		extended = append(extended, fields...)
		extended = append(extended, entities)
		document.Definitions[i] = asttransform.DefinitionWithFields(definition, extended)
		return true
	}

	s.run.logger.Debug("subgraph: declaring missing query type",
		abstractlogger.String("type", queryName),
	)
	document.Definitions = append(document.Definitions, &ast.Definition{
		Kind:   ast.Object,
		Name:   queryName,
		Fields: ast.FieldList{entities},
	})
	return true
}

// resolveTypeCollision applies the collision policy to declarations of a synthesized type name.
// It returns false if the walk was stopped.
func (s *scaffoldAssembler) resolveTypeCollision(document *ast.SchemaDocument, name string) bool {
	if document.Definitions.ForName(name) == nil && document.Extensions.ForName(name) == nil {
		return true
	}
	if !s.mayReplace(operationreport.ErrSynthesizedTypeCollision(name), name) {
		return false
	}
	document.Definitions = withoutDefinition(document.Definitions, name)
	document.Extensions = withoutDefinition(document.Extensions, name)
	return true
}

func (s *scaffoldAssembler) resolveDirectiveCollision(document *ast.SchemaDocument, name string) bool {
	if document.Directives.ForName(name) == nil {
		return true
	}
	if !s.mayReplace(operationreport.ErrSynthesizedDirectiveCollision(name), "@"+name) {
		return false
	}

	directives := make(ast.DirectiveDefinitionList, 0, len(document.Directives))
	for _, directive := range document.Directives {
		if directive.Name != name {
			directives = append(directives, directive)
		}
	}
	document.Directives = directives
	return true
}

// mayReplace applies the collision policy. It stops the walk with err if the declaration must not be replaced.
func (s *scaffoldAssembler) mayReplace(err operationreport.ExternalError, declaration string) bool {
	switch s.run.options.collisionPolicy {
	case CollisionPolicyReplace:
		s.run.summary.ReplacedDeclarations = append(s.run.summary.ReplacedDeclarations, declaration)
		s.run.logger.Warn("subgraph: replacing declaration of a reserved name",
			abstractlogger.String("declaration", declaration),
		)
		return true
	case CollisionPolicyError:
		s.StopWithExternalErr(err)
		return false
	default:
		s.StopWithInternalErr(fmt.Errorf("resolve collision of '%s': unknown collision policy %s", declaration, s.run.options.collisionPolicy))
		return false
	}
}

func withoutDefinition(definitions ast.DefinitionList, name string) ast.DefinitionList {
	out := make(ast.DefinitionList, 0, len(definitions))
	for _, definition := range definitions {
		if definition.Name != name {
			out = append(out, definition)
		}
	}
	return out
}

func withoutField(fields ast.FieldList, name string) ast.FieldList {
	out := make(ast.FieldList, 0, len(fields))
	for _, field := range fields {
		if field.Name != name {
			out = append(out, field)
		}
	}
	return out
}
