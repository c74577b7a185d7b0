package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/roster/internal/core"
)

func newImportCommand(a *app) *cobra.Command {
	var (
		file   string
		teamID int64
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a driver CSV into a team roster",
		Long: `Import reads a driver CSV (header row with driverRef and optionally number,
code, forename, surname, dob, nationality) and adds every driver to the team
for the current year in a single transaction. Rows that fail are listed; the
rest are kept.`,
		Example: `  rosterctl import --file drivers.csv --team 9
  cat drivers.csv | rosterctl import --file - --team 9 -o yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runImport(cmd, file, teamID)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "CSV file to import, - for stdin")
	cmd.Flags().Int64VarP(&teamID, "team", "t", 0, "team (constructor) id")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("team")
	return cmd
}

func (a *app) runImport(cmd *cobra.Command, file string, teamID int64) error {
	var r io.Reader = cmd.InOrStdin()
	if file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return fmt.Errorf("open %s: %w", file, err)
		}
		defer f.Close()
		r = f
	}

	rows, err := core.ParseDriverCSV(r)
	if err != nil && !errors.Is(err, core.ErrEmptyFile) {
		return fmt.Errorf("read %s: %s", file, userError(err))
	}
	if limit := a.cfg.Import.MaxRows; limit > 0 && len(rows) > limit {
		return fmt.Errorf("%s has %d rows, more than IMPORT_MAX_ROWS (%d)", file, len(rows), limit)
	}

	out, err := a.service.RunBatch(cmd.Context(), rows, teamID)
	if err != nil {
		return errors.New(userError(err))
	}

	return render(cmd.OutOrStdout(), a.outputFormat(cmd), out, func() tableData {
		t := tableData{headers: []string{"Record", "Error"}}
		for _, f := range out.Failures {
			t.rows = append(t.rows, []string{f.RowKey, f.Message})
		}
		t.rows = append(t.rows,
			[]string{"", ""},
			[]string{"batch", out.BatchID},
			[]string{"created", strconv.Itoa(out.Created)},
			[]string{"existing", strconv.Itoa(out.Existing)},
			[]string{"summary", out.Message},
		)
		return t
	})
}

// userError prefers the mapped message and falls back to the raw error.
func userError(err error) string {
	if core.IsUserFacing(err) {
		return core.FormatUserError(err)
	}
	return err.Error()
}
