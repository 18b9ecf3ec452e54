package function

import (
	"time"

	"github.com/araddon/dateparse"
	"github.com/lestrrat-go/strftime"
	"github.com/oicr-gsi/shesmu"
)

func dateToSeconds(args []shesmu.Value) shesmu.Value {
	return args[0].(time.Time).Unix()
}

func dateToMillis(args []shesmu.Value) shesmu.Value {
	return args[0].(time.Time).UnixMilli()
}

func startOfDay(args []shesmu.Value) shesmu.Value {
	return args[0].(time.Time).UTC().Truncate(24 * time.Hour)
}

// dateFormat returns the empty string for a bad pattern.
func dateFormat(args []shesmu.Value) shesmu.Value {
	f, err := strftime.New(args[1].(string))
	if err != nil {
		return ""
	}
	return f.FormatString(args[0].(time.Time).UTC())
}

func parseDate(args []shesmu.Value) shesmu.Value {
	t, err := dateparse.ParseIn(args[0].(string), time.UTC)
	if err != nil {
		return shesmu.None
	}
	return shesmu.Some(t.UTC())
}
