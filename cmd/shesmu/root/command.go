package root

import (
	"flag"

	"github.com/oicr-gsi/shesmu/cli"
	"github.com/oicr-gsi/shesmu/pkg/charm"
)

var Shesmu = &charm.Spec{
	Name:  "shesmu",
	Usage: "shesmu [options] <command> [options] [file ...]",
	Short: "check and run olive files",
	Long: `
The "shesmu" command compiles olive files and runs them against the
records of their input formats, generating deduplicated actions.

An olive file declares its input format with "Input name;" and then
any number of constants, functions, Defines and olives.  Each olive
filters, groups and joins the records of the format into the
parameters of an action it runs.

Input formats are described by a YAML settings file named with
-settings or $PROVENANCE_SETTINGS.
`,
	New: New,
}

type Command struct {
	cli.Flags
}

func New(_ charm.Command, f *flag.FlagSet) (charm.Command, error) {
	c := &Command{}
	c.SetFlags(f)
	return c, nil
}

func (c *Command) Run(args []string) error {
	return charm.NoRun(args)
}
