package cmd

import (
	"io"
	"log"
	"time"

	"github.com/jaffee/commandeer"
	"github.com/jgrabenstein/RaptureTutorials/gen"
	"github.com/spf13/cobra"
)

// GenMain is wrapped by NewGenCommand and only exported for testing purposes.
var GenMain *gen.Main

// NewGenCommand returns a new cobra command wrapping GenMain.
func NewGenCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	GenMain = gen.NewMain()
	GenMain.Stdout = stdout
	genCommand := &cobra.Command{
		Use:   "gen",
		Short: "Generate a sample CSV of random-walk prices.",
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			if err := GenMain.Run(); err != nil {
				return err
			}
			log.New(stderr, "", log.LstdFlags).Println("Done: ", time.Since(start))
			return nil
		},
	}
	err := commandeer.Flags(genCommand.Flags(), GenMain)
	if err != nil {
		panic(err)
	}
	return genCommand
}

func init() {
	subcommandFns["gen"] = NewGenCommand
}
