package exec

import (
	"time"

	"github.com/oicr-gsi/shesmu"
	"github.com/oicr-gsi/shesmu/compiler/definitions"
	"github.com/oicr-gsi/shesmu/input"
	"github.com/oicr-gsi/shesmu/runtime/sam/expr/function"
	"github.com/oicr-gsi/shesmu/signature"
	"go.uber.org/zap"
)

// Nothing is the action that does nothing but be counted.
var Nothing = &definitions.Action{
	Name:        "nothing",
	Description: "Does nothing. Useful for checking values with Dump or the action list.",
	Params:      []definitions.Param{{Name: "value", Type: shesmu.TypeString, Required: true}},
}

// NewRegistry returns a registry with the standard functions, constants
// and signatures, the nothing action, a "log" dumper writing to logger
// and the formats of inputs.
func NewRegistry(inputs *input.Set, logger *zap.Logger) (*definitions.Registry, error) {
	reg := definitions.NewRegistry()
	if err := function.Register(reg, time.Now); err != nil {
		return nil, err
	}
	if err := signature.Register(reg); err != nil {
		return nil, err
	}
	if err := reg.AddAction(Nothing); err != nil {
		return nil, err
	}
	if err := reg.AddDumper("log", &LogDumper{Logger: logger}); err != nil {
		return nil, err
	}
	if inputs != nil {
		if err := inputs.Register(reg); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// LogDumper writes each dumped row as a debug log entry.
type LogDumper struct {
	Logger *zap.Logger
}

func (l *LogDumper) Dump(names []string, types []shesmu.Type, values []shesmu.Value) error {
	fields := make([]zap.Field, 0, len(names))
	for i, name := range names {
		fields = append(fields, zap.Any(name, shesmu.ToJSON(types[i], values[i])))
	}
	l.Logger.Debug("dump", fields...)
	return nil
}
