package sheetdoc

import (
	"strconv"
	"strings"
)

// Value pools for sample generation. Selection is keyed off header
// substrings and cycles deterministically, so regenerating the same table
// yields the same data.
var samplePools = []struct {
	keywords []string
	values   []string
}{
	{[]string{"price", "cost", "amount", "total", "revenue"}, []string{"19.99", "24.50", "7.25", "129.00", "54.10", "9.95"}},
	{[]string{"email"}, []string{"alice@example.com", "bob@example.com", "carol@example.com", "dave@example.com"}},
	{[]string{"name", "customer", "user", "owner"}, []string{"Alice Johnson", "Bob Rivera", "Carol Tanaka", "Dave Osei", "Erin Walsh"}},
	{[]string{"date", "day", "created", "updated"}, []string{"2024-01-15", "2024-02-03", "2024-02-21", "2024-03-09", "2024-03-30"}},
	{[]string{"city", "location", "region"}, []string{"Portland", "Austin", "Denver", "Raleigh", "Madison"}},
	{[]string{"status", "state"}, []string{"active", "pending", "closed"}},
	{[]string{"qty", "quantity", "count", "stock", "units"}, []string{"3", "12", "7", "25", "1", "48"}},
	{[]string{"category", "type", "kind"}, []string{"Hardware", "Software", "Services", "Support"}},
	{[]string{"phone"}, []string{"555-0101", "555-0145", "555-0199", "555-0132"}},
}

// SampleTable synthesizes a table with the given headers and rowCount data
// rows. Headers land in row 0; ID-like columns count up from 1001, other
// columns cycle their matched pool.
func SampleTable(sheetName string, headers []string, rowCount int) *Sheet {
	if sheetName == "" {
		sheetName = DefaultSheetName
	}
	sheet := NewSheet(sheetName)
	for col, h := range headers {
		sheet.Cells.Set(0, col, h)
	}
	for row := 0; row < rowCount; row++ {
		for col, h := range headers {
			sheet.Cells.Set(row+1, col, sampleValue(h, row))
		}
	}
	if rowCount+1 > sheet.Rows.Len {
		sheet.Rows.Len = rowCount + 1
	}
	if len(headers) > sheet.Cols.Len {
		sheet.Cols.Len = len(headers)
	}
	return sheet
}

func sampleValue(header string, row int) string {
	h := strings.ToLower(header)
	if strings.Contains(h, "id") && !strings.Contains(h, "paid") {
		return strconv.Itoa(1001 + row)
	}
	for _, pool := range samplePools {
		for _, kw := range pool.keywords {
			if strings.Contains(h, kw) {
				return pool.values[row%len(pool.values)]
			}
		}
	}
	return "Sample " + strconv.Itoa(row+1)
}
