package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"codetidy/internal/diag"
	"codetidy/internal/errcode"
	"codetidy/internal/tidy"
)

func newCodesCmd() *cobra.Command {
	codesCmd := &cobra.Command{
		Use:   "codes [flags] [root]",
		Short: "List registered error codes",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCodes,
	}
	codesCmd.Flags().Bool("next", false, "print the next free code after the highest registered one")
	codesCmd.Flags().Bool("sorted", false, "list codes in ascending order instead of registry order")
	return codesCmd
}

func runCodes(cmd *cobra.Command, args []string) error {
	next, err := cmd.Flags().GetBool("next")
	if err != nil {
		return fmt.Errorf("failed to get next flag: %w", err)
	}
	sorted, err := cmd.Flags().GetBool("sorted")
	if err != nil {
		return fmt.Errorf("failed to get sorted flag: %w", err)
	}
	configPath, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	root := "."
	if len(args) == 1 {
		root = args[0]
	}
	_, opts, err := loadOptions(root, configPath)
	if err != nil {
		return err
	}

	bag := diag.NewBag(0)
	reg, err := tidy.LoadRegistry(&opts, diag.BagReporter{Bag: bag})
	if err != nil {
		return err
	}
	// битые строки реестра видны, но не мешают списку
	if bag.HasErrors() {
		fmt.Fprintln(cmd.ErrOrStderr(), diag.FormatShort(bag.Items(), diag.ShortOpts{}))
	}

	out := cmd.OutOrStdout()
	if next {
		code, err := nextCode(reg, opts.Syntax)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, code)
		return nil
	}

	codes := reg.Codes()
	if sorted {
		codes = errcode.NewSet(codes...).Sorted()
	}
	for _, c := range codes {
		fmt.Fprintln(out, c)
	}
	return nil
}

// nextCode returns the code after the highest registered one; an empty
// registry starts at <first letter>0001.
func nextCode(reg *tidy.Registry, syntax errcode.Syntax) (errcode.Code, error) {
	highest, ok := reg.Highest()
	if !ok {
		letters := syntax.Letters
		if letters == "" {
			letters = errcode.DefaultLetters
		}
		return errcode.Code(letters[:1] + "0001"), nil
	}
	next, ok := errcode.Next(highest)
	if !ok {
		return "", fmt.Errorf("no free code after %s", highest)
	}
	return next, nil
}
