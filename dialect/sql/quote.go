package sql

import (
	"strconv"
	"strings"
)

var identStripper = strings.NewReplacer("`", "", `"`, "", "[", "", "]", "")

// QuoteIdentifier wraps name in backticks after removing any backtick,
// double quote or square bracket it contains. "*" is returned unchanged.
// Applying it twice gives the same result as applying it once.
func QuoteIdentifier(name string) string {
	if name == "*" {
		return name
	}
	return "`" + identStripper.Replace(name) + "`"
}

// ParamName turns a column name into a placeholder name by replacing every
// character outside [A-Za-z0-9_] with an underscore.
func ParamName(column string) string {
	return strings.Map(func(r rune) rune {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return '_'
	}, column)
}

// paramNames hands out placeholder names that are unique within one
// statement. Columns mapping to a taken name get a _2, _3, ... suffix.
type paramNames map[string]struct{}

func (n paramNames) next(prefix, column string) string {
	base := prefix + ParamName(column)
	name := base
	for i := 2; ; i++ {
		if _, ok := n[name]; !ok {
			break
		}
		name = base + "_" + strconv.Itoa(i)
	}
	n[name] = struct{}{}
	return name
}
