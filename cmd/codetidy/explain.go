package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"codetidy/internal/diag"
	"codetidy/internal/source"
	"codetidy/internal/tidy"
)

func newExplainCmd() *cobra.Command {
	explainCmd := &cobra.Command{
		Use:   "explain [flags] <code>",
		Short: "Print the explanation of a registered error code",
		Args:  cobra.ExactArgs(1),
		RunE:  runExplain,
	}
	explainCmd.Flags().String("root", ".", "checkout root used to locate the registry")
	return explainCmd
}

func runExplain(cmd *cobra.Command, args []string) error {
	root, err := cmd.Flags().GetString("root")
	if err != nil {
		return fmt.Errorf("failed to get root flag: %w", err)
	}
	configPath, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	_, opts, err := loadOptions(root, configPath)
	if err != nil {
		return err
	}

	code, ok := opts.Syntax.Parse(args[0])
	if !ok {
		return fmt.Errorf("%q is not a valid error code", args[0])
	}
	// находки реестра здесь не важны
	reg, err := tidy.LoadRegistry(&opts, diag.BagReporter{Bag: diag.NewBag(0)})
	if err != nil {
		return err
	}
	if !reg.Contains(code) {
		return fmt.Errorf("error code %s is not registered in %s", code, opts.RegistryPath)
	}

	path := opts.ExplanationPath(code)
	f, err := source.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("error code %s has no explanation (expected %s)", code, path)
	}
	if err != nil {
		return fmt.Errorf("failed to read explanation: %w", err)
	}
	out := cmd.OutOrStdout()
	if _, err := out.Write(f.Content); err != nil {
		return err
	}
	if len(f.Content) > 0 && f.Content[len(f.Content)-1] != '\n' {
		fmt.Fprintln(out)
	}
	return nil
}
