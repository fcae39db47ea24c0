package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formprompt/pkg/engine"
)

func newResolveCmd(a *app) *cobra.Command {
	var (
		format  string
		output  string
		explain bool
		force   bool
	)
	cmd := &cobra.Command{
		Use:   "resolve PROMPT...",
		Short: "Resolve one prompt into a form schema",
		Example: `  formprompt resolve "a contact form without phone"
  formprompt resolve --format html "job application with 3 references" > form.html`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validFormat(format); err != nil {
				return err
			}
			prompt := strings.Join(args, " ")
			if !force {
				if err := engine.CheckPrompt(prompt); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}

			req := engine.Request{Prompt: prompt}
			if explain {
				res, err := a.engine.Explain(cmd.Context(), req)
				if err != nil {
					return err
				}
				return writeJSON(out, res)
			}
			schema, err := a.engine.Resolve(cmd.Context(), req)
			if err != nil {
				return err
			}
			return writeSchema(out, format, prompt, schema)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatJSON, "output format (json, openapi, html)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&explain, "explain", false, "print tokens, spans and dropped signals instead of the schema")
	cmd.Flags().BoolVar(&force, "force", false, "skip the prompt quality check")
	return cmd
}
