package inventory

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mvaldes-dev/stockpile/internal/repo"
)

// RowFailure describes why one import row was not applied.
type RowFailure struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportResult summarizes a bulk stock import. Success is true only when
// every row applied.
type ImportResult struct {
	Success  bool         `json:"success"`
	Message  string       `json:"message"`
	Applied  int          `json:"applied"`
	Failures []RowFailure `json:"failures,omitempty"`
}

// ImportCSV applies a newline-separated list of "SKU,quantity" rows as
// entrance adjustments. Rows are independent: a malformed or unresolvable
// row is reported and skipped while the remaining rows still apply. Rows are
// split on commas with no quoting rules; row numbers are 1-based and blank
// lines are ignored.
func (s *Service) ImportCSV(text string) ImportResult {
	var result ImportResult

	row := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line == "" {
			continue
		}
		row++

		sku, quantity, err := parseRow(line)
		if err != nil {
			result.Failures = append(result.Failures, RowFailure{Row: row, Reason: err.Error()})
			continue
		}

		if _, err := s.AdjustBySKU(sku, quantity, Entrance); err != nil {
			result.Failures = append(result.Failures, RowFailure{Row: row, Reason: rowReason(sku, err)})
			continue
		}
		result.Applied++
	}

	total := result.Applied + len(result.Failures)
	result.Success = len(result.Failures) == 0
	if result.Success {
		result.Message = fmt.Sprintf("all %d rows applied", total)
	} else {
		result.Message = fmt.Sprintf("%d of %d rows applied, %d failed", result.Applied, total, len(result.Failures))
	}
	return result
}

func parseRow(line string) (string, int, error) {
	fields := strings.Split(line, ",")
	if len(fields) != 2 {
		return "", 0, fmt.Errorf("malformed row: want SKU,quantity, got %d fields", len(fields))
	}

	sku := strings.TrimSpace(fields[0])
	if sku == "" {
		return "", 0, errors.New("malformed row: empty SKU")
	}

	quantity, err := strconv.Atoi(strings.TrimSpace(fields[1]))
	if err != nil {
		return "", 0, fmt.Errorf("invalid quantity %q", strings.TrimSpace(fields[1]))
	}
	if quantity <= 0 {
		return "", 0, fmt.Errorf("invalid quantity %d: must be positive", quantity)
	}

	return sku, quantity, nil
}

func rowReason(sku string, err error) string {
	if errors.Is(err, repo.ErrProductNotFound) {
		return fmt.Sprintf("product with SKU %q not found", sku)
	}
	return err.Error()
}
