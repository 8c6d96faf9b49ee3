package storage

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// loadTopicMapsSummaries reads summaries rows: locator, topics, associations, update date
func loadTopicMapsSummaries(rows pgx.Rows) ([]TopicMapSummaryDTO, error) {
	var globalErr error
	result := make([]TopicMapSummaryDTO, 0)
	for rows.Next() {
		var rawSummary []any
		if rawLine, errLine := rows.Values(); errLine != nil {
			globalErr = errors.Join(globalErr, errLine)
			continue
		} else {
			rawSummary = rawLine
		}

		if len(rawSummary) != 4 {
			globalErr = errors.Join(globalErr, fmt.Errorf("expecting 4 columns, got %d", len(rawSummary)))
			continue
		}

		var summary TopicMapSummaryDTO
		if locator, ok := rawSummary[0].(string); !ok {
			globalErr = errors.Join(globalErr, errors.New("invalid locator column"))
			continue
		} else {
			summary.Locator = locator
		}

		summary.Topics = mapAnyToInt(rawSummary[1])
		summary.Associations = mapAnyToInt(rawSummary[2])
		if rawSummary[3] != nil {
			summary.UpdatedAt = rawSummary[3].(string)
		}

		result = append(result, summary)
	}

	return result, errors.Join(globalErr, rows.Err())
}

// mapAnyToInt reads an integer column, 0 for null
func mapAnyToInt(value any) int {
	switch v := value.(type) {
	case int32:
		return int(v)
	case int64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}
