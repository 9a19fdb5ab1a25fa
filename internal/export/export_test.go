package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Jacksonnavigator/School-Fee-Payment-Update/internal/config"
	"github.com/Jacksonnavigator/School-Fee-Payment-Update/internal/crypto"
	"github.com/Jacksonnavigator/School-Fee-Payment-Update/internal/database"
	"github.com/Jacksonnavigator/School-Fee-Payment-Update/internal/store"

	"github.com/xuri/excelize/v2"
)

var fees = map[string]int64{"Form1": 100000, "Form2": 120000}

func newTestExporter(t *testing.T) *Exporter {
	t.Helper()

	db, err := database.Init(config.DatabaseConfig{Path: ":memory:"})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	cipher, _ := crypto.New("test-key")
	s := store.New(db, cipher)

	id, _ := s.AddStudent("Alice", "Form1", "a@example.com", "+255700000001")
	if _, err := s.RecordPayment(id, 40000); err != nil {
		t.Fatalf("payment: %v", err)
	}
	s.AddStudent("Bob", "Form2", "b@example.com", "+255700000002")

	return New(s, fees)
}

func TestRows(t *testing.T) {
	e := newTestExporter(t)

	rows, err := e.Rows()
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("want 2 rows, got %d", len(rows))
	}
	if rows[0].Paid != 40000 || rows[0].Remaining != 60000 {
		t.Errorf("Alice balance: %+v", rows[0])
	}
	if rows[1].Paid != 0 || rows[1].Remaining != 120000 {
		t.Errorf("Bob balance: %+v", rows[1])
	}
}

func TestRowsUnknownForm(t *testing.T) {
	e := newTestExporter(t)
	e.fees = map[string]int64{"Form1": 100000} // Form2 missing

	if _, err := e.Rows(); err == nil {
		t.Error("missing form in fee structure should be surfaced")
	}
}

func TestWriteCSV(t *testing.T) {
	e := newTestExporter(t)

	var buf bytes.Buffer
	if err := e.WriteCSV(&buf); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("want header + 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "ID,Name,Form,Amount Paid,Remaining" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if !strings.Contains(lines[1], "Alice,Form1,40000,60000") {
		t.Errorf("unexpected first row %q", lines[1])
	}
}

func TestWriteXLSX(t *testing.T) {
	e := newTestExporter(t)

	var buf bytes.Buffer
	if err := e.WriteXLSX(&buf); err != nil {
		t.Fatalf("write xlsx: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	name, _ := f.GetCellValue("Students", "B2")
	if name != "Alice" {
		t.Errorf("cell B2: want Alice, got %q", name)
	}
	remaining, _ := f.GetCellValue("Students", "E2")
	if remaining != "60000" {
		t.Errorf("cell E2: want 60000, got %q", remaining)
	}
}
