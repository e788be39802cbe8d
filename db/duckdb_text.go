//go:build !duckdb_arrow

package db

import (
	"fmt"
	"math/big"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/duckdb/duckdb-go/v2"
)

// columnType is a parsed DuckDB type name such as "INTEGER[]",
// "STRUCT(a INTEGER, b VARCHAR)" or "MAP(VARCHAR, INTEGER)". The driver
// scans structs into Go maps, so the field order has to come from here.
type columnType struct {
	name   string
	elem   *columnType
	key    *columnType
	value  *columnType
	fields []typeField
}

type typeField struct {
	name string
	typ  *columnType
}

func (t *columnType) field(name string) *columnType {
	if t == nil {
		return nil
	}
	for _, f := range t.fields {
		if f.name == name {
			return f.typ
		}
	}
	return nil
}

func parseColumnType(name string) *columnType {
	name = strings.TrimSpace(name)

	// T[] and T[n] bind loosest, so the suffix is checked first.
	if strings.HasSuffix(name, "]") {
		if open := lastTopLevel(name, '['); open > 0 {
			return &columnType{name: "LIST", elem: parseColumnType(name[:open])}
		}
	}

	upper := strings.ToUpper(name)
	switch {
	case strings.HasPrefix(upper, "STRUCT(") && strings.HasSuffix(name, ")"):
		return &columnType{name: "STRUCT", fields: parseFields(name[len("STRUCT(") : len(name)-1])}
	case strings.HasPrefix(upper, "UNION(") && strings.HasSuffix(name, ")"):
		return &columnType{name: "UNION", fields: parseFields(name[len("UNION(") : len(name)-1])}
	case strings.HasPrefix(upper, "MAP(") && strings.HasSuffix(name, ")"):
		parts := splitTopLevel(name[len("MAP(") : len(name)-1])
		if len(parts) == 2 {
			return &columnType{name: "MAP", key: parseColumnType(parts[0]), value: parseColumnType(parts[1])}
		}
	case strings.HasPrefix(upper, "DECIMAL"):
		return &columnType{name: "DECIMAL"}
	}
	return &columnType{name: upper}
}

func parseFields(s string) []typeField {
	var fields []typeField
	for _, part := range splitTopLevel(s) {
		part = strings.TrimSpace(part)
		var name, rest string
		if strings.HasPrefix(part, `"`) {
			end := closingQuote(part)
			name = strings.ReplaceAll(part[1:end], `""`, `"`)
			rest = part[end+1:]
		} else {
			name, rest, _ = strings.Cut(part, " ")
		}
		fields = append(fields, typeField{name: name, typ: parseColumnType(rest)})
	}
	return fields
}

// closingQuote returns the index of the quote ending a "..." identifier in
// which embedded quotes are doubled.
func closingQuote(s string) int {
	for i := 1; i < len(s); i++ {
		if s[i] != '"' {
			continue
		}
		if i+1 < len(s) && s[i+1] == '"' {
			i++
			continue
		}
		return i
	}
	return len(s) - 1
}

// splitTopLevel splits on commas outside parentheses, brackets and quoted
// identifiers.
func splitTopLevel(s string) []string {
	var parts []string
	depth, start, quoted := 0, 0, false
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '"':
			quoted = !quoted
		case quoted:
		case c == '(' || c == '[':
			depth++
		case c == ')' || c == ']':
			depth--
		case c == ',' && depth == 0:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	if strings.TrimSpace(s[start:]) != "" {
		parts = append(parts, s[start:])
	}
	return parts
}

func lastTopLevel(s string, target byte) int {
	depth, quoted := 0, false
	pos := -1
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '"':
			quoted = !quoted
		case quoted:
		case c == target && depth == 0:
			pos = i
			depth++
		case c == '(' || c == '[':
			depth++
		case c == ')' || c == ']':
			depth--
		}
	}
	return pos
}

// formatValue renders a scanned value the way DuckDB casts it to VARCHAR.
// Strings nested inside lists, structs and maps are single-quoted.
func formatValue(t *columnType, v any, nested bool) string {
	if t == nil {
		t = &columnType{}
	}

	switch x := v.(type) {
	case nil:
		return "NULL"
	case string:
		if nested {
			return "'" + strings.ReplaceAll(x, "'", "''") + "'"
		}
		return x
	case []byte:
		if t.name == "UUID" && len(x) == 16 {
			var u duckdb.UUID
			copy(u[:], x)
			return u.String()
		}
		return formatBlob(x)
	case duckdb.UUID:
		return x.String()
	case *duckdb.UUID:
		return x.String()
	case duckdb.Decimal:
		return formatDecimal(x)
	case duckdb.Interval:
		return formatInterval(x)
	case duckdb.Union:
		return formatValue(t.field(x.Tag), x.Value, nested)
	case []any:
		items := make([]string, len(x))
		for i, item := range x {
			items[i] = formatValue(t.elem, item, true)
		}
		return "[" + strings.Join(items, ", ") + "]"
	case map[string]any:
		return formatStruct(t, x)
	case duckdb.Map:
		return formatMap(t, x)
	case time.Time:
		return formatTime(t.name, x)
	case *big.Int:
		return x.String()
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(v)
	}
}

func formatStruct(t *columnType, m map[string]any) string {
	names := make([]string, 0, len(m))
	if t != nil && len(t.fields) == len(m) {
		for _, f := range t.fields {
			names = append(names, f.name)
		}
	} else {
		for name := range m {
			names = append(names, name)
		}
		sort.Strings(names)
	}

	parts := make([]string, len(names))
	for i, name := range names {
		key := "'" + strings.ReplaceAll(name, "'", "''") + "'"
		parts[i] = key + ": " + formatValue(t.field(name), m[name], true)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// formatMap sorts entries by rendered key; the driver does not keep the
// insertion order.
func formatMap(t *columnType, m duckdb.Map) string {
	var keyType, valueType *columnType
	if t != nil {
		keyType, valueType = t.key, t.value
	}

	parts := make([]string, 0, len(m))
	for k, v := range m {
		parts = append(parts, formatValue(keyType, k, true)+"="+formatValue(valueType, v, true))
	}
	sort.Strings(parts)
	return "{" + strings.Join(parts, ", ") + "}"
}

func formatDecimal(d duckdb.Decimal) string {
	if d.Value == nil {
		return "NULL"
	}
	digits := new(big.Int).Abs(d.Value).String()
	scale := int(d.Scale)

	sign := ""
	if d.Value.Sign() < 0 {
		sign = "-"
	}
	if scale == 0 {
		return sign + digits
	}
	if len(digits) <= scale {
		digits = strings.Repeat("0", scale-len(digits)+1) + digits
	}
	cut := len(digits) - scale
	return sign + digits[:cut] + "." + digits[cut:]
}

func formatInterval(iv duckdb.Interval) string {
	var parts []string
	unit := func(n int64, name string) {
		if n == 0 {
			return
		}
		if n != 1 {
			name += "s"
		}
		parts = append(parts, strconv.FormatInt(n, 10)+" "+name)
	}
	unit(int64(iv.Months/12), "year")
	unit(int64(iv.Months%12), "month")
	unit(int64(iv.Days), "day")

	if iv.Micros != 0 || len(parts) == 0 {
		parts = append(parts, formatClock(iv.Micros))
	}
	return strings.Join(parts, " ")
}

// formatClock renders microseconds as [-]HH:MM:SS[.ffffff]; hours are not
// wrapped at 24.
func formatClock(micros int64) string {
	sign := ""
	if micros < 0 {
		sign = "-"
		micros = -micros
	}
	secs, frac := micros/1_000_000, micros%1_000_000
	s := fmt.Sprintf("%s%02d:%02d:%02d", sign, secs/3600, secs/60%60, secs%60)
	if frac != 0 {
		s += "." + strings.TrimRight(fmt.Sprintf("%06d", frac), "0")
	}
	return s
}

func formatTime(typeName string, t time.Time) string {
	switch typeName {
	case "DATE":
		return t.Format(time.DateOnly)
	case "TIME":
		return t.Format("15:04:05.999999")
	case "TIMESTAMPTZ", "TIMESTAMP WITH TIME ZONE":
		return t.Format("2006-01-02 15:04:05.999999-07")
	default:
		return t.Format("2006-01-02 15:04:05.999999")
	}
}

// formatBlob escapes bytes outside printable ASCII as \xHH.
func formatBlob(b []byte) string {
	var sb strings.Builder
	for _, c := range b {
		if c >= 0x20 && c < 0x7f && c != '\\' {
			sb.WriteByte(c)
			continue
		}
		fmt.Fprintf(&sb, `\x%02X`, c)
	}
	return sb.String()
}
