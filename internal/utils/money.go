package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatCFA renders a franc CFA amount with French thousand grouping,
// e.g. 2500 -> "2 500 CFA". CFA amounts carry no decimals.
func FormatCFA(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return fmt.Sprintf("%s%s CFA", sign, formatThousand(amount))
}

func formatThousand(n int64) string {
	if n == 0 {
		return "0"
	}
	str := strconv.FormatInt(n, 10)
	var out strings.Builder
	for i, c := range str {
		if i != 0 && (len(str)-i)%3 == 0 {
			out.WriteByte(' ')
		}
		out.WriteRune(c)
	}
	return out.String()
}
