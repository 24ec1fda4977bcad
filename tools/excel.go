package tools

import (
	"fmt"
	"reflect"

	"github.com/xuri/excelize/v2"
)

// WriteSheet writes a slice of structs into sheet, one row per element, with a header row
// taken from each exported field's `excel` tag (field name when absent, skipped when "-").
// Embedded structs are flattened. Nil pointer fields become empty cells.
func WriteSheet(f *excelize.File, sheet string, data any) error {
	v := reflect.ValueOf(data)
	if v.Kind() != reflect.Slice {
		return fmt.Errorf("excel: %T is not a slice", data)
	}

	elemType := v.Type().Elem()
	if elemType.Kind() == reflect.Ptr {
		elemType = elemType.Elem()
	}
	if elemType.Kind() != reflect.Struct {
		return fmt.Errorf("excel: %T is not a slice of structs", data)
	}

	if sheet == "" {
		sheet = "Sheet1"
	}
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
	}

	type column struct {
		index  []int
		header string
	}
	var columns []column

	var collect func(t reflect.Type, parent []int)
	collect = func(t reflect.Type, parent []int) {
		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			if !sf.IsExported() {
				continue
			}
			idx := append(append([]int(nil), parent...), i)
			if sf.Anonymous && sf.Type.Kind() == reflect.Struct {
				collect(sf.Type, idx)
				continue
			}
			tag := sf.Tag.Get("excel")
			if tag == "-" {
				continue
			}
			if tag == "" {
				tag = sf.Name
			}
			columns = append(columns, column{index: idx, header: tag})
		}
	}
	collect(elemType, nil)

	header := make([]any, len(columns))
	for i, col := range columns {
		header[i] = col.header
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for row := 0; row < v.Len(); row++ {
		elem := v.Index(row)
		if elem.Kind() == reflect.Ptr {
			if elem.IsNil() {
				continue
			}
			elem = elem.Elem()
		}

		values := make([]any, len(columns))
		for i, col := range columns {
			fv := elem.FieldByIndex(col.index)
			if fv.Kind() == reflect.Ptr {
				if fv.IsNil() {
					values[i] = ""
					continue
				}
				fv = fv.Elem()
			}
			values[i] = fv.Interface()
		}

		cell, err := excelize.CoordinatesToCellName(1, row+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	return nil
}
