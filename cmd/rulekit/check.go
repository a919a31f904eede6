package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/rulekit/pkg/constraint"
)

type report struct {
	Index      int                         `json:"index"`
	Violations constraint.ValidationErrors `json:"violations"`
}

func newCheckCmd(root *rootFlags) *cobra.Command {
	var (
		entity string
		output string
	)
	cmd := &cobra.Command{
		Use:   "check [file|-]",
		Short: "Validate a JSON object or array of objects",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "text" && output != "json" {
				return fmt.Errorf("unknown output format %q", output)
			}
			cfg, err := root.resolve(cmd)
			if err != nil {
				return err
			}

			objects, err := readObjects(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := newApp(ctx, cfg, newLogger(cfg, cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			defer a.Close(ctx)

			var reports []report
			for i, obj := range objects {
				errs, err := a.engine.Validate(ctx, entity, obj)
				if err != nil {
					return fmt.Errorf("object %d: %w", i, err)
				}
				if len(errs) > 0 {
					reports = append(reports, report{Index: i, Violations: errs})
				}
			}

			if err := writeReports(cmd.OutOrStdout(), output, len(objects), reports); err != nil {
				return err
			}
			if len(reports) > 0 {
				return ErrViolations
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&entity, FlagEntity, "", "Entity - ruleset entity to validate against")
	cmd.Flags().StringVarP(&output, FlagOutput, "o", "text", "Output format - text or json")
	_ = cmd.MarkFlagRequired(FlagEntity)
	return cmd
}

// readObjects decodes a JSON object or an array of objects from the named
// file, or from stdin when the name is "-" or missing.
func readObjects(stdin io.Reader, args []string) ([]map[string]any, error) {
	var (
		data []byte
		err  error
	)
	if len(args) == 0 || args[0] == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return nil, err
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("no input")
	}
	if data[0] == '[' {
		var list []map[string]any
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("decode input: %w", err)
		}
		return list, nil
	}

	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, fmt.Errorf("decode input: %w", err)
	}
	if obj == nil {
		return nil, fmt.Errorf("input must be a JSON object")
	}
	return []map[string]any{obj}, nil
}

func writeReports(w io.Writer, format string, total int, reports []report) error {
	if format == "json" {
		if reports == nil {
			reports = []report{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	}

	for _, r := range reports {
		for _, v := range r.Violations {
			if _, err := fmt.Fprintf(w, "[%d] %s: %s (%s)\n", r.Index, v.Field, v.Message, v.Rule); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintf(w, "%d checked, %d rejected\n", total, len(reports))
	return err
}
