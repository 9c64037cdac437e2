package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pastforward/internal/era"
)

func newErasCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "eras",
		Short:       "List the supported decades",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0, len(era.All()))
			for _, key := range era.All() {
				rows = append(rows, []string{string(key), era.Description(key)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Era", "Description"},
				rows,
				[]columnAlignment{alignLeft, alignLeft},
			))
			return nil
		},
	}
}
