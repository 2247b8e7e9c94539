package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// utf8BOM Excel打开UTF-8 CSV时需要BOM
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// renderCSV 依次输出元信息、摘要和各表格，区块之间空一行
func renderCSV(doc *document) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(utf8BOM)
	w := csv.NewWriter(&buf)

	records := [][]string{{"report", doc.Title}}
	for _, kv := range doc.Meta {
		records = append(records, []string{kv[0], kv[1]})
	}
	if len(doc.Summary) > 0 {
		records = append(records, nil, []string{"metric", "value"})
		for _, kv := range doc.Summary {
			records = append(records, []string{kv[0], kv[1]})
		}
	}
	for _, t := range doc.Tables {
		records = append(records, nil, []string{"# " + t.Name}, t.Columns)
		records = append(records, t.Rows...)
	}

	for _, rec := range records {
		if rec == nil {
			rec = []string{}
		}
		if err := w.Write(rec); err != nil {
			return nil, fmt.Errorf("export: 写入CSV失败: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("export: 写入CSV失败: %w", err)
	}
	return buf.Bytes(), nil
}
