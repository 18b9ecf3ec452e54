package run

import (
	"errors"
	"flag"
	"os"

	"github.com/oicr-gsi/shesmu/cli/inputflags"
	"github.com/oicr-gsi/shesmu/cli/outputflags"
	"github.com/oicr-gsi/shesmu/cli/queryflags"
	"github.com/oicr-gsi/shesmu/cmd/shesmu/root"
	"github.com/oicr-gsi/shesmu/compiler"
	"github.com/oicr-gsi/shesmu/compiler/dag"
	"github.com/oicr-gsi/shesmu/compiler/definitions"
	"github.com/oicr-gsi/shesmu/pkg/charm"
	"github.com/oicr-gsi/shesmu/runtime/exec"
	"github.com/oicr-gsi/shesmu/service"
	"go.uber.org/zap"
)

var spec = &charm.Spec{
	Name:  "run",
	Usage: "run [ options ] [ file ... ]",
	Short: "run olive files against their inputs",
	Long: `
This command compiles each olive file and reruns it at the interval of
its Frequency pragma until interrupted.  With no files, the olive
source in $SHESMU_SCRIPT is run.

Actions are deduplicated by fingerprint, in memory or in the bbolt file
named by "-actions.db".  With "-once", every file is run a single time
and the actions are printed to stdout as JSON lines.

With "-http.addr", the actions, the latest olive runs, the input
records and Prometheus metrics are served over HTTP at /actions,
/olives, /input/{format} and /metrics.
`,
	New: New,
}

func init() {
	root.Shesmu.Add(spec)
}

type Command struct {
	*root.Command
	inputFlags  inputflags.Flags
	outputFlags outputflags.Flags
	queryFlags  queryflags.Flags
	once        bool
	httpAddr    string
}

func New(parent charm.Command, f *flag.FlagSet) (charm.Command, error) {
	c := &Command{Command: parent.(*root.Command)}
	c.inputFlags.SetFlags(f)
	c.outputFlags.SetFlags(f)
	c.queryFlags.SetFlags(f)
	f.BoolVar(&c.once, "once", false, "run each file once and print the actions")
	f.StringVar(&c.httpAddr, "http.addr", "", "address to serve the HTTP API on")
	return c, nil
}

func (c *Command) Run(args []string) error {
	ctx, cleanup, err := c.Init()
	if err != nil {
		return err
	}
	defer cleanup()
	set, err := c.inputFlags.Open(true)
	if err != nil {
		return err
	}
	reg, err := exec.NewRegistry(set, c.Logger)
	if err != nil {
		return err
	}
	sink, err := c.outputFlags.Open()
	if err != nil {
		return err
	}
	defer sink.Close()
	runners, err := compile(args, reg, func(name string, p *dag.Program) (*exec.Runner, error) {
		return exec.NewRunner(name, p, reg, set, sink, c.Logger, c.queryFlags.Timeout)
	})
	if err != nil {
		return err
	}
	if c.httpAddr != "" {
		core := service.NewCore(service.Config{Inputs: set, Sink: sink, Runners: runners}, c.Logger)
		go func() {
			if err := core.ListenAndServe(ctx, c.httpAddr); err != nil {
				c.Logger.Error("HTTP server", zap.Error(err))
			}
		}()
	}
	if c.once {
		var errs []error
		for _, r := range runners {
			results, err := r.Run(ctx)
			c.queryFlags.PrintStats(os.Stderr, results)
			errs = append(errs, err)
		}
		if err := c.outputFlags.Print(os.Stdout, sink); err != nil {
			return err
		}
		return errors.Join(errs...)
	}
	return exec.NewMaster(nil, c.Logger, runners...).Run(ctx)
}

// compile builds a runner for each file or, with no files, for the
// olive source in $SHESMU_SCRIPT.
func compile(args []string, reg *definitions.Registry, build func(string, *dag.Program) (*exec.Runner, error)) ([]*exec.Runner, error) {
	if len(args) == 0 {
		name, text, ok := queryflags.Script()
		if !ok {
			return nil, charm.NeedHelp
		}
		p, err := compiler.CompileText(name, text, reg, "")
		if err != nil {
			return nil, err
		}
		r, err := build(name, p)
		if err != nil {
			return nil, err
		}
		return []*exec.Runner{r}, nil
	}
	var runners []*exec.Runner
	for _, file := range args {
		p, err := compiler.CompileFiles(reg, "", file)
		if err != nil {
			return nil, err
		}
		r, err := build(file, p)
		if err != nil {
			return nil, err
		}
		runners = append(runners, r)
	}
	return runners, nil
}
