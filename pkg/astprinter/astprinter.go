// Package astprinter renders a schema document as GraphQL schema definition language.
// Directive applications are printed inline with the nodes they are attached to.
package astprinter

import (
	"bytes"
	"io"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
)

// DefaultIndent is the indentation used by Print and PrintString.
const DefaultIndent = "  "

func Print(document *ast.SchemaDocument, out io.Writer) error {
	return PrintIndent(document, DefaultIndent, out)
}

func PrintString(document *ast.SchemaDocument) (string, error) {
	return PrintStringIndent(document, DefaultIndent)
}

func PrintIndent(document *ast.SchemaDocument, indent string, out io.Writer) error {
	printer := Printer{Indent: indent}
	return printer.Print(document, out)
}

func PrintStringIndent(document *ast.SchemaDocument, indent string) (string, error) {
	buff := &bytes.Buffer{}
	err := PrintIndent(document, indent, buff)
	out := buff.String()
	return out, err
}

// Printer prints schema documents. The zero value prints with tabs.
type Printer struct {
	Indent           string
	OmitDescriptions bool
}

func (p *Printer) Print(document *ast.SchemaDocument, out io.Writer) error {
	if document == nil {
		return nil
	}

	var options []formatter.FormatterOption
	if p.Indent != "" {
		options = append(options, formatter.WithIndent(p.Indent))
	}
	if p.OmitDescriptions {
		options = append(options, formatter.WithoutDescription())
	}

	// the formatter swallows write errors, so buffer first and write once
	buff := &bytes.Buffer{}
	formatter.NewFormatter(buff, options...).FormatSchemaDocument(document)

	_, err := out.Write(buff.Bytes())
	return err
}
