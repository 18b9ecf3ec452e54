// Package function is the standard library of functions and constants
// available to every olive.
package function

import (
	"time"

	"github.com/oicr-gsi/shesmu"
	"github.com/oicr-gsi/shesmu/compiler/definitions"
)

var (
	dateT   = shesmu.TypeDate
	floatT  = shesmu.TypeFloat
	intT    = shesmu.TypeInt
	pathT   = shesmu.TypePath
	stringT = shesmu.TypeString
	boolT   = shesmu.TypeBool
	jsonT   = shesmu.TypeJSON
)

func fn(name, description string, result shesmu.Type, impl definitions.Func, params ...shesmu.Type) *definitions.Function {
	return &definitions.Function{
		Name:        name,
		Description: description,
		Params:      params,
		Result:      result,
		Impl:        impl,
	}
}

// Functions returns the standard functions.  now supplies the current
// time to the now function.
func Functions(now func() time.Time) []*definitions.Function {
	return []*definitions.Function{
		fn("date_to_seconds", "Seconds since the epoch.", intT, dateToSeconds, dateT),
		fn("date_to_millis", "Milliseconds since the epoch.", intT, dateToMillis, dateT),
		fn("start_of_day", "Midnight UTC of the same day.", dateT, startOfDay, dateT),
		fn("date_format", "Formats a date with a strftime pattern.", stringT, dateFormat, dateT, stringT),
		fn("now", "The current time.", dateT, func([]shesmu.Value) shesmu.Value { return now().UTC() }),
		fn("is_infinite", "Whether a float is infinite.", boolT, isInfinite, floatT),
		fn("is_nan", "Whether a float is not a number.", boolT, isNaN, floatT),
		fn("json_object", "Builds a JSON object from name and value pairs.", jsonT, jsonObject, shesmu.NewTypeList(shesmu.NewTypeTuple(stringT, jsonT))),
		fn("path_file", "The last element of a path.", pathT, pathFile, pathT),
		fn("path_dir", "Everything but the last element of a path.", pathT, pathDir, pathT),
		fn("path_normalize", "Removes . and .. elements.", pathT, pathNormalize, pathT),
		fn("path_replace_home", "Replaces a leading ~ with a home directory.", pathT, pathReplaceHome, pathT, stringT),
		fn("version_at_least", "Whether a {major, minor, patch} version is at least the one given.", boolT, versionAtLeast,
			shesmu.NewTypeTuple(intT, intT, intT), intT, intT, intT),
		fn("str_trim", "Removes leading and trailing white space.", stringT, strTrim, stringT),
		fn("str_lower", "Converts to lower case.", stringT, strLower, stringT),
		fn("str_upper", "Converts to upper case.", stringT, strUpper, stringT),
		fn("str_eq", "Compares strings ignoring case.", boolT, strEq, stringT, stringT),
		fn("parse_int", "Parses a decimal integer.", shesmu.NewTypeOptional(intT), parseInt, stringT),
		fn("parse_bool", "Parses true or false.", shesmu.NewTypeOptional(boolT), parseBool, stringT),
		fn("parse_float", "Parses a floating point number.", shesmu.NewTypeOptional(floatT), parseFloat, stringT),
		fn("parse_json", "Parses a JSON document.", shesmu.NewTypeOptional(jsonT), parseJSON, stringT),
		fn("parse_date", "Parses a date in any common layout.", shesmu.NewTypeOptional(dateT), parseDate, stringT),
	}
}

func Constants() []*definitions.Constant {
	return []*definitions.Constant{
		{Name: "epoch", Type: dateT, Value: shesmu.Epoch},
	}
}

// Register adds the standard functions and constants to reg.
func Register(reg *definitions.Registry, now func() time.Time) error {
	for _, f := range Functions(now) {
		if err := reg.AddFunction(f); err != nil {
			return err
		}
	}
	for _, c := range Constants() {
		if err := reg.AddConstant(c); err != nil {
			return err
		}
	}
	return nil
}
