package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	htmlsanitizer "github.com/RampantDespair/sanitize-html"
)

func runSanitize(cmd *cobra.Command, args []string) error {
	var in io.Reader = os.Stdin
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening input: %w", err)
		}
		defer f.Close()
		in = f
	}

	policy, err := loadPolicy(policyPath)
	if err != nil {
		return fmt.Errorf("loading policy: %w", err)
	}

	raw, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	out, err := htmlsanitizer.Sanitize(string(raw), policy)
	if err != nil {
		return fmt.Errorf("sanitizing: %w", err)
	}

	_, err = fmt.Fprint(cmd.OutOrStdout(), out)
	return err
}

func loadPolicy(path string) (*htmlsanitizer.Policy, error) {
	if path == "" {
		slog.Info("no --policy given, using DefaultPolicy")
		return htmlsanitizer.DefaultPolicy(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return htmlsanitizer.LoadPolicyJSON(f)
	default:
		return htmlsanitizer.LoadPolicyYAML(f)
	}
}
