package function

import (
	"encoding/json"
	"math"
	"path"
	"strconv"
	"strings"

	"github.com/oicr-gsi/shesmu"
)

func strTrim(args []shesmu.Value) shesmu.Value {
	return strings.TrimSpace(args[0].(string))
}

func strLower(args []shesmu.Value) shesmu.Value {
	return strings.ToLower(args[0].(string))
}

func strUpper(args []shesmu.Value) shesmu.Value {
	return strings.ToUpper(args[0].(string))
}

func strEq(args []shesmu.Value) shesmu.Value {
	return strings.EqualFold(args[0].(string), args[1].(string))
}

func parseInt(args []shesmu.Value) shesmu.Value {
	v, err := strconv.ParseInt(strings.TrimSpace(args[0].(string)), 10, 64)
	if err != nil {
		return shesmu.None
	}
	return shesmu.Some(v)
}

func parseBool(args []shesmu.Value) shesmu.Value {
	switch strings.ToLower(strings.TrimSpace(args[0].(string))) {
	case "true":
		return shesmu.Some(true)
	case "false":
		return shesmu.Some(false)
	}
	return shesmu.None
}

func parseFloat(args []shesmu.Value) shesmu.Value {
	v, err := strconv.ParseFloat(strings.TrimSpace(args[0].(string)), 64)
	if err != nil {
		return shesmu.None
	}
	return shesmu.Some(v)
}

func parseJSON(args []shesmu.Value) shesmu.Value {
	var doc any
	if err := json.Unmarshal([]byte(args[0].(string)), &doc); err != nil {
		return shesmu.None
	}
	return shesmu.Some(shesmu.JSON{V: doc})
}

func jsonObject(args []shesmu.Value) shesmu.Value {
	obj := make(map[string]any)
	for _, e := range args[0].(shesmu.List) {
		pair := e.(shesmu.Tuple)
		obj[pair[0].(string)] = pair[1].(shesmu.JSON).V
	}
	return shesmu.JSON{V: obj}
}

func isInfinite(args []shesmu.Value) shesmu.Value {
	return math.IsInf(args[0].(float64), 0)
}

func isNaN(args []shesmu.Value) shesmu.Value {
	return math.IsNaN(args[0].(float64))
}

func pathFile(args []shesmu.Value) shesmu.Value {
	return shesmu.Path(path.Base(string(args[0].(shesmu.Path))))
}

func pathDir(args []shesmu.Value) shesmu.Value {
	return shesmu.Path(path.Dir(string(args[0].(shesmu.Path))))
}

func pathNormalize(args []shesmu.Value) shesmu.Value {
	return shesmu.Path(path.Clean(string(args[0].(shesmu.Path))))
}

func pathReplaceHome(args []shesmu.Value) shesmu.Value {
	p := string(args[0].(shesmu.Path))
	if p == "~" || strings.HasPrefix(p, "~/") {
		return shesmu.Path(path.Join(args[1].(string), p[1:]))
	}
	return args[0]
}

func versionAtLeast(args []shesmu.Value) shesmu.Value {
	version := args[0].(shesmu.Tuple)
	for i, want := range args[1:] {
		have := version[i].(int64)
		if have != want.(int64) {
			return have > want.(int64)
		}
	}
	return true
}
