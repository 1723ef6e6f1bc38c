package cmd

import (
	"io"

	"github.com/jaffee/commandeer"
	"github.com/jgrabenstein/RaptureTutorials/intro"
	"github.com/spf13/cobra"
)

// IntroMain is wrapped by NewIntroCommand and only exported for testing
// purposes.
var IntroMain *intro.Main

// NewIntroCommand returns a new cobra command wrapping IntroMain.
func NewIntroCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	IntroMain = intro.NewMain()
	IntroMain.Stderr = stderr
	introCommand := &cobra.Command{
		Use:   "intro",
		Short: "Run the intro tutorial: upload a CSV, translate it to a document, add its prices to series.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return IntroMain.Run()
		},
	}
	err := commandeer.Flags(introCommand.Flags(), IntroMain)
	if err != nil {
		panic(err)
	}
	return introCommand
}

func init() {
	subcommandFns["intro"] = NewIntroCommand
}
