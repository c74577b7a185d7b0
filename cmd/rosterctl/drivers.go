package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/roster/internal/core"
)

func newDriversCommand(a *app) *cobra.Command {
	var (
		teamID int64
		name   string
		limit  int
		active bool
	)

	cmd := &cobra.Command{
		Use:   "drivers",
		Short: "Search the drivers of a team",
		Example: `  rosterctl drivers --team 9 --name ham
  rosterctl drivers --team 9 --active`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if active {
				return a.runActiveDrivers(cmd, teamID)
			}
			return a.runSearchDrivers(cmd, teamID, name, limit)
		},
	}

	cmd.Flags().Int64VarP(&teamID, "team", "t", 0, "team (constructor) id")
	cmd.Flags().StringVarP(&name, "name", "n", "", "case-insensitive part of the driver name")
	cmd.Flags().IntVar(&limit, "limit", core.DefaultSearchLimit, "maximum number of drivers")
	cmd.Flags().BoolVar(&active, "active", false, "print the number of drivers for the current year instead")
	_ = cmd.MarkFlagRequired("team")
	return cmd
}

func (a *app) runSearchDrivers(cmd *cobra.Command, teamID int64, name string, limit int) error {
	drivers, err := a.service.SearchTeamDrivers(cmd.Context(), teamID, name, limit)
	if err != nil {
		return err
	}
	if drivers == nil {
		drivers = []core.Driver{}
	}

	return render(cmd.OutOrStdout(), a.outputFormat(cmd), drivers, func() tableData {
		t := tableData{headers: []string{"ID", "Ref", "Number", "Code", "Name", "Born", "Nationality"}}
		for _, d := range drivers {
			born := ""
			if d.BirthDate != nil {
				born = d.BirthDate.Format("2006-01-02")
			}
			t.rows = append(t.rows, []string{
				strconv.FormatInt(d.ID, 10), d.Ref, d.Number, d.Code,
				d.Forename + " " + d.Surname, born, d.Nationality,
			})
		}
		return t
	})
}

func (a *app) runActiveDrivers(cmd *cobra.Command, teamID int64) error {
	n, err := a.service.ActiveDriverCount(cmd.Context(), teamID)
	if err != nil {
		return err
	}

	result := map[string]any{"constructorId": teamID, "count": n}
	return render(cmd.OutOrStdout(), a.outputFormat(cmd), result, func() tableData {
		return tableData{
			headers: []string{"Team", "Active drivers"},
			rows:    [][]string{{strconv.FormatInt(teamID, 10), strconv.Itoa(n)}},
		}
	})
}
