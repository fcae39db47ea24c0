package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formprompt"
	"github.com/goliatone/go-formprompt/pkg/engine"
	"github.com/goliatone/go-formprompt/pkg/model"
)

func newInteractiveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Describe forms in a guided session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := a.interactive(cmd)
			if errors.Is(err, errAborted) {
				return nil
			}
			return err
		},
	}
}

func (a *app) interactive(cmd *cobra.Command) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	for {
		prompt, err := a.prompter.Input(ctx, InputConfig{
			Message:   "Describe the form you need:",
			Help:      "For example: a job application with 3 references and no cover letter",
			Validator: engine.CheckPrompt,
		})
		if err != nil {
			return err
		}

		schema, err := a.engine.Resolve(ctx, engine.Request{Prompt: prompt})
		if err != nil {
			return err
		}
		printSummary(out, schema)

		if !schema.Empty() {
			idx, err := a.prompter.Select(ctx, SelectConfig{
				Message: "Output format:",
				Options: formats,
			})
			if err != nil {
				return err
			}
			if idx >= 0 && idx < len(formats) {
				if err := writeSchema(out, formats[idx], prompt, schema); err != nil {
					return err
				}
			}
		}

		again, err := a.prompter.Confirm(ctx, ConfirmConfig{Message: "Describe another form?"})
		if err != nil {
			return err
		}
		if !again {
			return nil
		}
	}
}

func printSummary(w io.Writer, schema model.ResolvedSchema) {
	if schema.Empty() {
		fmt.Fprintln(w, formprompt.NotUnderstoodMessage)
		return
	}
	fmt.Fprintf(w, "%s (%s)\n", formprompt.TitleGenerated, schema.Template)
	for _, f := range schema.Fields {
		marker := " "
		if f.Required() {
			marker = "*"
		}
		line := fmt.Sprintf("  %s %-24s %-10s %s", marker, f.ID, f.Type, f.Label)
		if len(f.Options) > 0 {
			line += " [" + strings.Join(f.Options, ", ") + "]"
		}
		fmt.Fprintln(w, line)
	}
}
