package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/pkg/errors"
)

// normalize prints a unified diff per rewritten body, one tag per line.
func (cli *commandLine) normalize(ctx context.Context, dryRun bool) error {
	changes, err := cli.contentSvc.NormalizeAll(ctx, dryRun)
	for _, ch := range changes {
		diff, derr := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(splitTags(ch.Before)),
			B:        difflib.SplitLines(splitTags(ch.After)),
			FromFile: ch.ID + " (stored)",
			ToFile:   ch.ID + " (canonical)",
			Context:  1,
		})
		if derr != nil {
			return errors.Wrapf(derr, "diffing content %s", ch.ID)
		}
		fmt.Fprintf(cli.out, "# %s\n%s\n", ch.Title, diff)
	}
	if err != nil {
		return err
	}

	verb := "normalized"
	if dryRun {
		verb = "to normalize"
	}
	fmt.Fprintf(cli.out, "%d content(s) %s\n", len(changes), verb)
	return nil
}

func splitTags(body string) string {
	return strings.ReplaceAll(body, "><", ">\n<") + "\n"
}
