package normalizer

import "strings"

// extractRow builds a pipe-delimited row 120 columns wide with the given cells set.
func extractRow(cells map[int]string) string {
	row := make([]string, 120)
	for idx, v := range cells {
		row[idx] = v
	}

	return strings.Join(row, "|")
}

func extractCells(cells map[int]string) []string {
	return strings.Split(extractRow(cells), "|")
}

const extractHeader = "BOF PUBLIC V2 00000000 20250601 0000003 0000001"
