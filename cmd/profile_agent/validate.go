package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/profile-optimizer/internal/schemas"
)

func newValidateCmd() *cobra.Command {
	var kind string
	var schemaPath string
	cmd := &cobra.Command{
		Use:   "validate FILE...",
		Short: "Validate JSON files against a schema",
		Long: fmt.Sprintf(`Validates JSON files against an embedded schema (--kind: %s)
or an external JSON Schema file (--schema).`, kindList()),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			failed := 0
			for _, path := range args {
				var err error
				if schemaPath != "" {
					err = schemas.ValidateJSON(schemaPath, path)
				} else {
					err = schemas.ValidateFile(schemas.Kind(kind), path)
				}
				if err != nil {
					failed++
					fmt.Fprintf(out, "✗ %s\n%v\n", path, err) //nolint:errcheck
					continue
				}
				fmt.Fprintf(out, "✓ %s\n", path) //nolint:errcheck
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed validation", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", string(schemas.KindProfile), "Embedded schema: "+kindList())
	cmd.Flags().StringVar(&schemaPath, "schema", "", "Path to an external JSON Schema (overrides --kind)")
	return cmd
}

func kindList() string {
	names := make([]string, len(schemas.Kinds))
	for i, k := range schemas.Kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}
