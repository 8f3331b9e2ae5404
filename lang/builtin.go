package lang

import (
	"iter"
	"maps"
	"math"
	"slices"
	"strings"
	"sync"
)

// Builtin is an entry of the process-wide builtin registry: either a named
// constant or a native function of fixed arity.
type Builtin struct {
	fn     func(args []float64) (float64, error)
	level  *LogLevel
	Name   string
	Doc    string
	Params []string
	value  Value
	konst  bool
}

// Arity returns the number of arguments the builtin accepts. Constants
// have arity 0.
func (b Builtin) Arity() int { return len(b.Params) }

// IsConst reports whether b is a constant.
func (b Builtin) IsConst() bool { return b.konst }

// IsLogging reports whether b emits a [LogEvent] when called.
func (b Builtin) IsLogging() bool { return b.level != nil }

// Value returns the value of a constant builtin.
func (b Builtin) Value() (Value, bool) { return b.value, b.konst }

// Signature renders the call form of b, such as "atan2[y, x]" or "PI".
func (b Builtin) Signature() string {
	if b.konst {
		return b.Name
	}

	return b.Name + "[" + strings.Join(b.Params, ", ") + "]"
}

// numeric reports whether every argument must be a number.
func (b Builtin) numeric() bool { return b.fn != nil }

// invoke applies b to args, which must already match its arity and kinds.
func (b Builtin) invoke(args []Value, emit func(LogEvent)) (Value, error) {
	switch {
	case b.konst:
		return b.value, nil

	case b.level != nil:
		if emit != nil {
			emit(LogEvent{Level: *b.level, Message: args[0].String()})
		}

		return args[0], nil
	}

	nums := make([]float64, len(args))
	for i, arg := range args {
		nums[i], _ = arg.Float()
	}

	f, err := b.fn(nums)
	if err != nil {
		return Value{}, err
	}

	return NumberValue(f), nil
}

// builtins is built on first use and never mutated afterward.
var builtins = sync.OnceValue(func() map[string]Builtin {
	list := []Builtin{
		constant("PI", math.Pi, "ratio of a circle's circumference to its diameter"),
		constant("TAU", 2*math.Pi, "ratio of a circle's circumference to its radius"),
		constant("E", math.E, "base of the natural logarithm"),
		constant("PHI", math.Phi, "golden ratio"),

		unary("sqrt", math.Sqrt, "square root"),
		unary("cbrt", math.Cbrt, "cube root"),
		unary("sin", math.Sin, "sine of x radians"),
		unary("cos", math.Cos, "cosine of x radians"),
		unary("tan", math.Tan, "tangent of x radians"),
		unary("asin", math.Asin, "arcsine in radians"),
		unary("acos", math.Acos, "arccosine in radians"),
		unary("atan", math.Atan, "arctangent in radians"),
		binary("atan2", math.Atan2, "y", "x", "arctangent of y/x using the signs of both"),
		unary("exp", math.Exp, "e raised to x"),
		unary("ln", math.Log, "natural logarithm"),
		unary("log10", math.Log10, "base-10 logarithm"),
		unary("log2", math.Log2, "base-2 logarithm"),
		binary("pow", math.Pow, "x", "y", "x raised to y"),
		unary("abs", math.Abs, "absolute value"),
		binary("min", math.Min, "x", "y", "smaller of x and y"),
		binary("max", math.Max, "x", "y", "larger of x and y"),
		unary("floor", math.Floor, "greatest integer not above x"),
		unary("ceil", math.Ceil, "least integer not below x"),
		unary("round", math.Round, "nearest integer, halves away from zero"),
		unary("trunc", math.Trunc, "integer part of x"),
		binary("hypot", math.Hypot, "x", "y", "length of the vector (x, y)"),
		{
			Name:   "mod",
			Doc:    "remainder of x/y with the sign of x",
			Params: []string{"x", "y"},
			fn: func(a []float64) (float64, error) {
				if a[1] == 0 {
					return 0, ErrDivideByZero
				}

				return math.Mod(a[0], a[1]), nil
			},
		},
		unary("deg", func(x float64) float64 { return x * 180 / math.Pi }, "radians to degrees"),
		unary("rad", func(x float64) float64 { return x * math.Pi / 180 }, "degrees to radians"),

		logging("info", LogInfo),
		logging("warn", LogWarn),
		logging("error", LogError),
	}

	m := make(map[string]Builtin, len(list))
	for _, b := range list {
		m[b.Name] = b
	}

	return m
})

func constant(name string, f float64, doc string) Builtin {
	return Builtin{Name: name, Doc: doc, value: NumberValue(f), konst: true}
}

func unary(name string, fn func(float64) float64, doc string) Builtin {
	return Builtin{
		Name:   name,
		Doc:    doc,
		Params: []string{"x"},
		fn:     func(a []float64) (float64, error) { return fn(a[0]), nil },
	}
}

func binary(name string, fn func(float64, float64) float64, p, q, doc string) Builtin {
	return Builtin{
		Name:   name,
		Doc:    doc,
		Params: []string{p, q},
		fn:     func(a []float64) (float64, error) { return fn(a[0], a[1]), nil },
	}
}

func logging(name string, level LogLevel) Builtin {
	return Builtin{
		Name:   name,
		Doc:    "emit a " + level.String() + " log event with msg and return msg",
		Params: []string{"msg"},
		level:  &level,
	}
}

// LookupBuiltin returns the builtin registered under name.
func LookupBuiltin(name string) (Builtin, bool) {
	b, ok := builtins()[name]

	return b, ok
}

// Builtins returns an iterator over all registered builtins in name order.
func Builtins() iter.Seq[Builtin] {
	return func(yield func(Builtin) bool) {
		m := builtins()
		for _, name := range slices.Sorted(maps.Keys(m)) {
			if !yield(m[name]) {
				return
			}
		}
	}
}

// BuiltinNames returns the names of all registered builtins in sorted order.
func BuiltinNames() []string {
	return slices.Sorted(maps.Keys(builtins()))
}
