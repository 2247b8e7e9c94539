package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/message"

	"github.com/xiebiao/techbookstore/internal/domain/report"
)

// document 报表内容拍平后的结构：标量字段为摘要，对象数组为表格
type document struct {
	Title   string
	Meta    [][2]string
	Summary [][2]string
	Tables  []table
}

type table struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// 金额、数量类字段按千分位格式化；ID、ISBN、日期保持原样
var numericKeyHints = []string{"revenue", "amount", "value", "price", "cost", "total", "quantity", "count", "stock", "spent"}

func flatten(r *report.StoredReport, p *message.Printer) (*document, error) {
	doc := &document{Title: r.Name}
	doc.Meta = append(doc.Meta,
		[2]string{"Report ID", r.ID},
		[2]string{"Type", r.ReportType},
		[2]string{"Created", r.CreatedAt.UTC().Format(time.RFC3339)},
	)
	if r.StartDate != nil && r.EndDate != nil {
		doc.Meta = append(doc.Meta, [2]string{"Period", r.StartDate.Format("2006-01-02") + " ~ " + r.EndDate.Format("2006-01-02")})
	}
	for _, k := range sortedKeys(r.Parameters) {
		doc.Meta = append(doc.Meta, [2]string{"Param " + k, r.Parameters[k]})
	}

	if len(r.Content) == 0 {
		return doc, nil
	}
	var content interface{}
	dec := json.NewDecoder(bytes.NewReader(r.Content))
	dec.UseNumber()
	if err := dec.Decode(&content); err != nil {
		return nil, fmt.Errorf("export: 解析报表内容失败: %w", err)
	}

	walk(doc, "", content, p)
	return doc, nil
}

// walk 嵌套对象的键以"."连接
func walk(doc *document, prefix string, v interface{}, p *message.Printer) {
	switch val := v.(type) {
	case map[string]interface{}:
		for _, k := range sortedKeys(val) {
			walk(doc, join(prefix, k), val[k], p)
		}
	case []interface{}:
		if t, ok := toTable(prefix, val, p); ok {
			doc.Tables = append(doc.Tables, t)
			return
		}
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = format(prefix, item, p)
		}
		doc.Summary = append(doc.Summary, [2]string{prefix, strings.Join(parts, ", ")})
	default:
		doc.Summary = append(doc.Summary, [2]string{orDefault(prefix, "value"), format(prefix, val, p)})
	}
}

// toTable 元素全是对象的数组转为表格，列为所有对象键的并集
func toTable(name string, items []interface{}, p *message.Printer) (table, bool) {
	if len(items) == 0 {
		return table{}, false
	}
	colSet := map[string]struct{}{}
	rows := make([]map[string]interface{}, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			return table{}, false
		}
		rows[i] = obj
		for k, v := range obj {
			if _, nested := v.(map[string]interface{}); nested {
				continue
			}
			colSet[k] = struct{}{}
		}
	}

	t := table{Name: name, Columns: sortedKeys(colSet)}
	for _, obj := range rows {
		cells := make([]string, len(t.Columns))
		for i, c := range t.Columns {
			cells[i] = format(c, obj[c], p)
		}
		t.Rows = append(t.Rows, cells)
	}
	return t, true
}

func format(key string, v interface{}, p *message.Printer) string {
	switch val := v.(type) {
	case nil:
		return ""
	case json.Number:
		return formatNumber(key, val.String(), p)
	case string:
		return formatNumber(key, val, p)
	case bool:
		if val {
			return "true"
		}
		return "false"
	case []interface{}:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = format(key, item, p)
		}
		return strings.Join(parts, ", ")
	default:
		b, _ := json.Marshal(val)
		return string(b)
	}
}

// formatNumber decimal按JSON字符串输出，按字段名判断是否为数值
func formatNumber(key, s string, p *message.Printer) string {
	if !isNumericKey(key) {
		return s
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return s
	}
	if d.IsInteger() {
		return p.Sprintf("%d", d.IntPart())
	}
	f, _ := d.Round(2).Float64()
	return p.Sprintf("%.2f", f)
}

func isNumericKey(key string) bool {
	if i := strings.LastIndex(key, "."); i >= 0 {
		key = key[i+1:]
	}
	k := strings.ToLower(key)
	if strings.HasSuffix(k, "id") || strings.Contains(k, "date") {
		return false
	}
	for _, hint := range numericKeyHints {
		if strings.Contains(k, hint) {
			return true
		}
	}
	return false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
