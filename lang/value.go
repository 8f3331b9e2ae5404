package lang

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// ValueKind identifies the variant held by a [Value].
type ValueKind uint8

const (
	ValueNumber ValueKind = iota // number
	ValueString                  // string
)

func (k ValueKind) String() string {
	switch k {
	case ValueNumber:
		return "number"
	case ValueString:
		return "string"
	default:
		return "ValueKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is an immutable runtime value. The zero Value is the number 0.
type Value struct {
	str  string
	num  float64
	kind ValueKind
}

// NumberValue returns a numeric [Value].
func NumberValue(f float64) Value { return Value{kind: ValueNumber, num: f} }

// StringValue returns a string [Value].
func StringValue(s string) Value { return Value{kind: ValueString, str: s} }

// ValueOf converts a host value into a [Value].
//
// Go integer and floating-point kinds and [json.Number] become numbers; a
// [Value] is returned unchanged. A string that spells a decimal number,
// such as "10", "-2.5" or "1e3", also becomes a number, since hosts often
// supply every global as text. Use [StringValue] to keep numeric text as a
// string. Anything else becomes a string rendered with [fmt.Sprint].
//
// Non-finite numbers are converted as is; evaluating a $name reference to
// one fails with a [*DomainError].
func ValueOf(v any) Value {
	switch x := v.(type) {
	case Value:
		return x
	case float64:
		return NumberValue(x)
	case float32:
		return NumberValue(float64(x))
	case int:
		return NumberValue(float64(x))
	case int8:
		return NumberValue(float64(x))
	case int16:
		return NumberValue(float64(x))
	case int32:
		return NumberValue(float64(x))
	case int64:
		return NumberValue(float64(x))
	case uint:
		return NumberValue(float64(x))
	case uint8:
		return NumberValue(float64(x))
	case uint16:
		return NumberValue(float64(x))
	case uint32:
		return NumberValue(float64(x))
	case uint64:
		return NumberValue(float64(x))
	case json.Number:
		if f, err := x.Float64(); err == nil {
			return NumberValue(f)
		}

		return StringValue(x.String())
	case string:
		if f, ok := numericText(x); ok {
			return NumberValue(f)
		}

		return StringValue(x)
	default:
		return StringValue(fmt.Sprint(v))
	}
}

// Kind returns the variant held by v.
func (v Value) Kind() ValueKind { return v.kind }

// Float returns the numeric value of v and whether v is a number.
func (v Value) Float() (float64, bool) { return v.num, v.kind == ValueNumber }

// Text returns the string value of v and whether v is a string.
func (v Value) Text() (string, bool) { return v.str, v.kind == ValueString }

// String returns the canonical text rendering of v.
// Numbers use the shortest decimal representation without an exponent;
// strings are returned verbatim.
func (v Value) String() string {
	if v.kind == ValueString {
		return v.str
	}

	return formatNumber(v.num)
}

// Native returns v as a Go float64 or string.
func (v Value) Native() any {
	if v.kind == ValueString {
		return v.str
	}

	return v.num
}

// finite reports whether v is a string or a finite number.
func (v Value) finite() bool { return v.kind != ValueNumber || finite(v.num) }

// Equal reports whether v and w have the same kind and value.
func (v Value) Equal(w Value) bool {
	if v.kind != w.kind {
		return false
	}

	if v.kind == ValueString {
		return v.str == w.str
	}

	return v.num == w.num
}

// LogValue implements slog.LogValuer.
func (v Value) LogValue() slog.Value {
	if v.kind == ValueString {
		return slog.StringValue(v.str)
	}

	return slog.Float64Value(v.num)
}

// literal renders v as source text that lexes back to the same value.
func (v Value) literal() string {
	if v.kind == ValueString {
		return quoteString(v.str)
	}

	s := formatNumber(v.num)
	if v.num < 0 {
		return "(" + s + ")"
	}

	return s
}

func formatNumber(f float64) string {
	if f == 0 {
		// Render negative zero as "0".
		return "0"
	}

	return strconv.FormatFloat(f, 'f', -1, 64)
}

// numericText parses s as an optionally signed decimal number in the syntax
// of number literals. Hexadecimal, underscores, and non-finite spellings
// such as "Inf" are rejected.
func numericText(s string) (float64, bool) {
	digits := strings.TrimPrefix(strings.TrimPrefix(s, "-"), "+")
	if digits == "" || !(isDigit(digits[0]) || digits[0] == '.') {
		return 0, false
	}

	if strings.IndexFunc(digits, func(r rune) bool {
		return !strings.ContainsRune("0123456789.eE+-", r)
	}) >= 0 {
		return 0, false
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || !finite(f) {
		return 0, false
	}

	return f, true
}
