// Package export writes the student balance table to CSV or XLSX files for
// offline review. Only list projections are exported; parent contact fields
// never leave the store.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/Jacksonnavigator/School-Fee-Payment-Update/internal/store"

	"github.com/xuri/excelize/v2"
)

// Row is one exported student balance line.
type Row struct {
	ID        uint
	Name      string
	Form      string
	Paid      int64
	Remaining int64
}

// Exporter builds balance rows from the store and the fee structure.
type Exporter struct {
	store *store.Store
	fees  map[string]int64
}

func New(s *store.Store, fees map[string]int64) *Exporter {
	return &Exporter{store: s, fees: fees}
}

// Rows lists every student with the remaining balance for their form. A
// form missing from the fee structure is a configuration error and is
// surfaced, not masked.
func (e *Exporter) Rows() ([]Row, error) {
	students, err := e.store.ListStudents()
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(students))
	for _, st := range students {
		required, ok := e.fees[st.Form]
		if !ok {
			return nil, fmt.Errorf("form %q missing from fee structure", st.Form)
		}
		rows = append(rows, Row{
			ID:        st.ID,
			Name:      st.Name,
			Form:      st.Form,
			Paid:      st.TotalPaid,
			Remaining: required - st.TotalPaid,
		})
	}
	return rows, nil
}

var headers = []string{"ID", "Name", "Form", "Amount Paid", "Remaining"}

// WriteCSV streams the balance table as CSV.
func (e *Exporter) WriteCSV(w io.Writer) error {
	rows, err := e.Rows()
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range rows {
		record := []string{
			strconv.FormatUint(uint64(r.ID), 10),
			r.Name,
			r.Form,
			strconv.FormatInt(r.Paid, 10),
			strconv.FormatInt(r.Remaining, 10),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes the balance table as a single-sheet workbook.
func (e *Exporter) WriteXLSX(w io.Writer) error {
	rows, err := e.Rows()
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	const sheet = "Students"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for i, h := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheet, cell, h)
	}
	for idx, r := range rows {
		row := idx + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), r.ID)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), r.Name)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), r.Form)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), r.Paid)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), r.Remaining)
	}

	f.SetColWidth(sheet, "A", "A", 8)
	f.SetColWidth(sheet, "B", "B", 28)
	f.SetColWidth(sheet, "C", "C", 12)
	f.SetColWidth(sheet, "D", "E", 14)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
