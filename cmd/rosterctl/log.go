package main

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/roster/internal/core"
)

func newLogCommand(a *app) *cobra.Command {
	var (
		teamID int64
		limit  int
	)

	cmd := &cobra.Command{
		Use:     "log",
		Short:   "Show recent team activity, newest first",
		Example: `  rosterctl log --team 9 --limit 10`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := a.service.TeamLog(cmd.Context(), teamID, limit)
			if err != nil {
				return err
			}
			if entries == nil {
				entries = []core.TeamLogEntry{}
			}

			return render(cmd.OutOrStdout(), a.outputFormat(cmd), entries, func() tableData {
				t := tableData{headers: []string{"When", "Action", "Created", "Existing", "Errors", "Batch", "IP"}}
				for _, e := range entries {
					t.rows = append(t.rows, []string{
						e.CreatedAt.Local().Format(time.DateTime),
						string(e.Action),
						strconv.Itoa(e.Details.Count),
						strconv.Itoa(e.Details.ExistingCount),
						strconv.Itoa(e.Details.Errors),
						e.BatchID,
						e.IPAddress,
					})
				}
				return t
			})
		},
	}

	cmd.Flags().Int64VarP(&teamID, "team", "t", 0, "team (constructor) id")
	cmd.Flags().IntVar(&limit, "limit", core.DefaultLogLimit, "maximum number of entries")
	_ = cmd.MarkFlagRequired("team")
	return cmd
}
