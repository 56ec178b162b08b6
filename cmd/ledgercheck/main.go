// Copyright (C) 2019-2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/conway-ledger/core/cmd/ledgercheck/validate"
	"github.com/conway-ledger/core/cmd/ledgercheck/version"
)

func init() {
	cobra.EnablePrefixMatching = true
}

func main() {
	cmd := &cobra.Command{
		Use:   "ledgercheck",
		Short: "Validates Cardano Conway-era transactions against the rules in this module",
	}
	cmd.AddCommand(
		validate.Command(),
		version.Command(),
	)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "command failed %v\n", err)
		os.Exit(1)
	}
}
