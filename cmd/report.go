package cmd

import (
	"io"

	"github.com/jaffee/commandeer"
	"github.com/jgrabenstein/RaptureTutorials/report"
	"github.com/spf13/cobra"
)

// ReportMain is wrapped by NewReportCommand and only exported for testing
// purposes.
var ReportMain *report.Main

// NewReportCommand returns a new cobra command wrapping ReportMain.
func NewReportCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	ReportMain = report.NewMain()
	ReportMain.Stderr = stderr
	reportCommand := &cobra.Command{
		Use:   "report",
		Short: "Store a spreadsheet of the most recent prices of some series.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ReportMain.Run()
		},
	}
	err := commandeer.Flags(reportCommand.Flags(), ReportMain)
	if err != nil {
		panic(err)
	}
	return reportCommand
}

func init() {
	subcommandFns["report"] = NewReportCommand
}
