package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/techbookstore/internal/domain/report"
)

func storedSales(t *testing.T) *report.StoredReport {
	t.Helper()
	content := report.SalesReport{
		StartDate:         "2026-03-01",
		EndDate:           "2026-03-31",
		TotalRevenue:      decimal.RequireFromString("1234567"),
		TotalOrders:       12,
		TotalQuantity:     30,
		AverageOrderValue: decimal.RequireFromString("102880.58"),
		Rankings: []report.RankingItem{
			{Rank: 1, BookID: 9784297, Title: "Go in Practice", Category: "GO", Revenue: decimal.RequireFromString("56000"), Quantity: 20},
		},
	}
	r := &report.DateRange{Start: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), End: time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)}
	sr, err := report.NewStoredReport("March Sales", report.TypeSales, map[string]string{"category": "GO"}, r, content, "admin", time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return sr
}

func TestExporter_CSV(t *testing.T) {
	e := NewExporter("")
	file, err := e.Export(context.Background(), storedSales(t), report.FormatCSV)
	require.NoError(t, err)

	assert.Equal(t, "text/csv; charset=utf-8", file.ContentType)
	assert.Regexp(t, `^sales-[0-9a-f-]{8}\.csv$`, file.Filename)
	require.True(t, bytes.HasPrefix(file.Body, utf8BOM))

	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(file.Body, utf8BOM)))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	require.NoError(t, err)

	values := map[string]string{}
	for _, rec := range records {
		if len(rec) == 2 {
			values[rec[0]] = rec[1]
		}
	}
	assert.Equal(t, "March Sales", values["report"])
	assert.Equal(t, "1,234,567", values["totalRevenue"], "金额按千分位格式化")
	assert.Equal(t, "102,880.58", values["averageOrderValue"])
	assert.Equal(t, "2026-03-01", values["startDate"])
	assert.Equal(t, "GO", values["Param category"])

	var header, first []string
	for i, rec := range records {
		if len(rec) == 1 && rec[0] == "# rankings" {
			header, first = records[i+1], records[i+2]
		}
	}
	require.NotNil(t, header, "对象数组输出为表格")
	assert.Equal(t, []string{"bookId", "category", "quantity", "rank", "revenue", "title"}, header)
	assert.Equal(t, "9784297", first[0], "ID不做千分位")
	assert.Equal(t, "56,000", first[4])
}

func TestExporter_JSON(t *testing.T) {
	sr := storedSales(t)
	file, err := NewExporter("").Export(context.Background(), sr, report.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "application/json", file.ContentType)

	var env struct {
		ID      string             `json:"id"`
		Content report.SalesReport `json:"content"`
	}
	require.NoError(t, json.Unmarshal(file.Body, &env))
	assert.Equal(t, sr.ID, env.ID)
	assert.Equal(t, 12, env.Content.TotalOrders)
}

func TestExporter_PDF(t *testing.T) {
	file, err := NewExporter("").Export(context.Background(), storedSales(t), report.FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, bytes.HasPrefix(file.Body, []byte("%PDF")))
}

func TestExporter_Unsupported(t *testing.T) {
	e := NewExporter("")
	_, err := e.Export(context.Background(), storedSales(t), report.FormatExcel)
	assert.ErrorIs(t, err, report.ErrUnsupportedFormat)

	_, err = e.Export(context.Background(), storedSales(t), "XML")
	assert.ErrorIs(t, err, report.ErrUnsupportedFormat)
}

func TestExporter_EmptyContent(t *testing.T) {
	sr := storedSales(t)
	sr.Content = nil
	file, err := NewExporter("en").Export(context.Background(), sr, report.FormatCSV)
	require.NoError(t, err)
	assert.Contains(t, string(file.Body), "March Sales")
}

func TestIsNumericKey(t *testing.T) {
	assert.True(t, isNumericKey("rankings.revenue"))
	assert.True(t, isNumericKey("storeStock"))
	assert.False(t, isNumericKey("bookId"))
	assert.False(t, isNumericKey("reportDate"))
	assert.False(t, isNumericKey("title"))
}
