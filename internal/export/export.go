package export

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

var (
	ErrUnknownTable = errors.New("unknown table")
	ErrEmptyTable   = errors.New("no data in table")
)

// ContentType of the produced workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Tables that may be exported, keyed by name, with their ordering column.
var Tables = map[string]string{
	"client":             "client_id",
	"washroom_records":   "washroom_id",
	"coat_check_records": "check_id",
	"sanctuary_records":  "sanctuary_id",
	"safe_sleep_records": "sleep_id",
	"clinic_records":     "clinic_id",
	"activity_records":   "activity_id",
	"client_activity":    "client_activity_id",
}

const maxSheetName = 31

type File struct {
	Name string
	Rows int
	Data []byte
}

type Exporter struct {
	db  *gorm.DB
	loc *time.Location
}

func NewExporter(db *gorm.DB, loc *time.Location) *Exporter {
	if loc == nil {
		loc = time.UTC
	}
	return &Exporter{db: db, loc: loc}
}

// Export dumps one table into a single-sheet workbook with a bold header row.
func (e *Exporter) Export(ctx context.Context, table string) (*File, error) {
	orderBy, ok := Tables[table]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTable, table)
	}

	rows, err := e.db.WithContext(ctx).Table(table).Order(orderBy + " ASC").Rows()
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns %s: %w", table, err)
	}
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("column types %s: %w", table, err)
	}
	dateOnly := make([]bool, len(types))
	for i, ct := range types {
		dateOnly[i] = strings.EqualFold(ct.DatabaseTypeName(), "date")
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(table)
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if sheet != "Sheet1" {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return nil, fmt.Errorf("failed to drop default sheet: %w", err)
		}
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	for col, name := range columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
	}
	if len(columns) > 0 {
		last, err := excelize.CoordinatesToCellName(len(columns), 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}
	}

	values := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}

	row := 1
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		row++
		for col, v := range values {
			v = e.cellValue(v, dateOnly[col])
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", table, err)
	}
	if row == 1 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyTable, table)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return &File{Name: table + ".xlsx", Rows: row - 1, Data: buf.Bytes()}, nil
}

// cellValue turns a scanned driver value into something excelize renders
// as text a person can read. Timestamps are shown in the center's zone.
func (e *Exporter) cellValue(v any, dateOnly bool) any {
	switch x := v.(type) {
	case nil:
		return nil
	case []byte:
		return string(x)
	case time.Time:
		if dateOnly {
			return x.UTC().Format("2006-01-02")
		}
		return x.In(e.loc).Format("2006-01-02 15:04:05")
	default:
		return x
	}
}

func sheetName(table string) string {
	if len(table) > maxSheetName {
		return table[:maxSheetName]
	}
	return table
}
