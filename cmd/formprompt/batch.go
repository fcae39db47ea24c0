package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formprompt"
	"github.com/goliatone/go-formprompt/pkg/engine"
)

func newBatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "batch FILE",
		Short: "Resolve prompts from a file, one per line",
		Long: `Resolve every non-empty line of FILE ("-" for stdin) concurrently and print a
JSON array of responses in input order. Lines starting with # are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			prompts, err := readPrompts(in)
			if err != nil {
				return err
			}

			reqs := make([]engine.Request, len(prompts))
			for i, p := range prompts {
				reqs[i] = engine.Request{Prompt: p}
			}
			schemas, err := a.engine.ResolveBatch(cmd.Context(), reqs)
			if err != nil {
				return err
			}

			out := make([]formprompt.Response, len(schemas))
			empty := 0
			for i, schema := range schemas {
				out[i] = formprompt.NewResponse(prompts[i], schema)
				if schema.Empty() {
					empty++
				}
			}
			a.logger.Info("batch resolved", zap.Int("prompts", len(prompts)), zap.Int("empty", empty))
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
}

func readPrompts(r io.Reader) ([]string, error) {
	var out []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read prompts: %w", err)
	}
	return out, nil
}
