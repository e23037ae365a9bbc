package main

import "github.com/TykTechnologies/graphql-subgraph-extractor/cmd"

func main() {
	cmd.Execute()
}
