package http

import (
	"fmt"
	"net/http"
	"strconv"

	"caixa/internal/core"
)

// parsePeriod extracts the {year}/{month} path pair. Month is the one-based
// month number, mirroring the identity-key format.
func parsePeriod(r *http.Request) (int, core.Month, error) {
	year, err := strconv.Atoi(r.PathValue("year"))
	if err != nil || year < 1900 || year > 3000 {
		return 0, "", fmt.Errorf("invalid year %q", r.PathValue("year"))
	}

	monthNum, err := strconv.Atoi(r.PathValue("month"))
	if err != nil || monthNum < 1 || monthNum > 12 {
		return 0, "", fmt.Errorf("invalid month %q", r.PathValue("month"))
	}

	return year, core.MonthFromIndex(monthNum - 1), nil
}
