package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jensneuse/abstractlogger"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/TykTechnologies/graphql-subgraph-extractor/pkg/federation"
	"github.com/TykTechnologies/graphql-subgraph-extractor/pkg/federation/composition"
	"github.com/TykTechnologies/graphql-subgraph-extractor/pkg/federation/subgraph"
)

const (
	summaryFormatYAML = "yaml"
	summaryFormatJSON = "json"

	stdoutDestination = "-"
)

func newExtractCmd(state *cli) *cobra.Command {
	extractCmd := &cobra.Command{
		Use:   "extract",
		Short: "Writes the subgraph schema for a supergraph or subgraph schema file",
		Example: `  subgraph-extractor extract -s supergraph.graphql -d products.graphql
  subgraph-extractor extract -s products.graphql -d - --graph-name products --summary`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExtract(cmd, state)
		},
	}

	extractCmd.Flags().StringP(sourceFlagName, "s", "", "path of the schema to read")
	extractCmd.Flags().StringP(destinationFlagName, "d", "", "path of the subgraph schema to write, - writes to stdout")
	extractCmd.Flags().String(graphNameFlagName, composition.DefaultGraphName, "name of the graph a plain subgraph schema is composed as")
	extractCmd.Flags().String(graphURLFlagName, "", "routing url of the graph a plain subgraph schema is composed as")
	extractCmd.Flags().String(markerPolicyFlagName, subgraph.MarkerPolicyFirst.String(), "join__type markers used to classify a type, one of first, all-keys")
	extractCmd.Flags().String(onCollisionFlagName, subgraph.CollisionPolicyError.String(), "handling of declarations colliding with synthesized ones, one of error, replace")
	extractCmd.Flags().String(emptyEntitiesFlagName, subgraph.EmptyEntitiesKeep.String(), "scaffolding of a schema without entities, one of keep, omit")
	extractCmd.Flags().String(linkURLFlagName, subgraph.DefaultLinkURL, "url of the federation version the schema links to")
	extractCmd.Flags().Bool(summaryFlagName, false, "print a summary of the extraction to stdout")
	extractCmd.Flags().String(summaryFormatFlagName, summaryFormatYAML, "format of the summary, one of yaml, json")

	cobra.CheckErr(extractCmd.MarkFlagRequired(sourceFlagName))
	cobra.CheckErr(extractCmd.MarkFlagRequired(destinationFlagName))

	return extractCmd
}

func runExtract(cmd *cobra.Command, state *cli) error {
	config := state.config

	opts, err := extractOptions(state)
	if err != nil {
		return err
	}

	source, err := homedir.Expand(config.GetString(sourceFlagName))
	if err != nil {
		return fmt.Errorf("expand source path: %w", err)
	}
	sdl, err := os.ReadFile(source)
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}

	summary := subgraph.Summary{}
	opts = append(opts, federation.WithSummary(&summary))

	state.logger.Info("extracting subgraph schema",
		abstractlogger.String("source", source),
	)
	out, err := federation.BuildSubgraphSchema(string(sdl), opts...)
	if err != nil {
		return err
	}

	if err := writeSchema(cmd.OutOrStdout(), config.GetString(destinationFlagName), out); err != nil {
		return err
	}
	state.logger.Info("subgraph schema written",
		abstractlogger.String("destination", config.GetString(destinationFlagName)),
		abstractlogger.Int("entities", len(summary.Entities)),
	)

	if !config.GetBool(summaryFlagName) {
		return nil
	}
	return printSummary(cmd.OutOrStdout(), config.GetString(summaryFormatFlagName), summary)
}

func extractOptions(state *cli) ([]federation.Option, error) {
	config := state.config

	markerPolicy, err := subgraph.ParseMarkerPolicy(config.GetString(markerPolicyFlagName))
	if err != nil {
		return nil, err
	}
	collisionPolicy, err := subgraph.ParseCollisionPolicy(config.GetString(onCollisionFlagName))
	if err != nil {
		return nil, err
	}
	emptyEntities, err := subgraph.ParseEmptyEntitiesPolicy(config.GetString(emptyEntitiesFlagName))
	if err != nil {
		return nil, err
	}

	format := config.GetString(summaryFormatFlagName)
	if format != summaryFormatYAML && format != summaryFormatJSON {
		return nil, fmt.Errorf("unknown summary format '%s', expected one of yaml, json", format)
	}

	return []federation.Option{
		federation.WithGraphName(config.GetString(graphNameFlagName)),
		federation.WithGraphURL(config.GetString(graphURLFlagName)),
		federation.WithLinkURL(config.GetString(linkURLFlagName)),
		federation.WithMarkerPolicy(markerPolicy),
		federation.WithCollisionPolicy(collisionPolicy),
		federation.WithEmptyEntities(emptyEntities),
		federation.WithLogger(state.logger),
	}, nil
}

func writeSchema(stdout io.Writer, destination, schema string) error {
	if destination == stdoutDestination {
		_, err := io.WriteString(stdout, schema)
		return err
	}

	path, err := homedir.Expand(destination)
	if err != nil {
		return fmt.Errorf("expand destination path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create destination directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(schema), 0o644); err != nil {
		return fmt.Errorf("write destination: %w", err)
	}
	return nil
}

func printSummary(out io.Writer, format string, summary subgraph.Summary) error {
	var (
		content []byte
		err     error
	)
	switch format {
	case summaryFormatJSON:
		content, err = json.MarshalIndent(summary, "", "  ")
		content = append(content, '\n')
	default:
		content, err = yaml.Marshal(summary)
	}
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}

	_, err = out.Write(content)
	return err
}
