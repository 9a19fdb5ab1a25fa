// Package receipt renders the fixed single-page payment receipt. Like
// notification, it is an independent failure domain: a failed render never
// rolls back or blocks a committed payment.
package receipt

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/Jacksonnavigator/School-Fee-Payment-Update/internal/util"

	"github.com/jung-kurt/gofpdf"
)

// Generator writes receipt PDFs into a directory, optionally handing them
// to the host's default document viewer.
type Generator struct {
	dir        string
	openViewer bool
	log        *slog.Logger
}

func New(dir string, openViewer bool, log *slog.Logger) *Generator {
	return &Generator{dir: dir, openViewer: openViewer, log: log}
}

// Generate renders one receipt and returns its path. Files are named
// deterministically from the student id and the current timestamp.
func (g *Generator) Generate(studentID uint, name, form string, amount, newTotal, requiredFee int64, reference string) (string, error) {
	if err := os.MkdirAll(g.dir, 0o755); err != nil {
		return "", fmt.Errorf("create receipt dir: %w", err)
	}

	now := time.Now()
	filename := fmt.Sprintf("receipt_%d_%s.pdf", studentID, now.Format("20060102_150405"))
	path := filepath.Join(g.dir, filename)

	pdf := gofpdf.New("P", "mm", "Letter", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(43, 158, 219)
	pdf.CellFormat(0, 12, "School Fee Payment Receipt", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	pdf.SetTextColor(0, 0, 0)

	rule := strings.Repeat("-", 80)
	lines := []string{
		rule,
		fmt.Sprintf("Date: %s", now.Format("2006-01-02 15:04:05")),
		fmt.Sprintf("Receipt No: %s", reference),
		fmt.Sprintf("Student ID: %d", studentID),
		fmt.Sprintf("Student Name: %s", name),
		fmt.Sprintf("Form: %s", form),
		fmt.Sprintf("Amount Paid: %s TSH", util.FormatAmount(amount)),
		fmt.Sprintf("Total Paid: %s TSH", util.FormatAmount(newTotal)),
		fmt.Sprintf("Remaining: %s TSH", util.FormatAmount(requiredFee-newTotal)),
		"",
		"Thank you for your payment!",
		rule,
	}
	for _, line := range lines {
		pdf.CellFormat(0, 8, line, "", 1, "L", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("write receipt: %w", err)
	}

	if g.openViewer {
		// best-effort convenience; the receipt exists either way
		if err := openFile(path); err != nil {
			g.log.Warn("could not open receipt viewer", "path", path, "error", err)
		}
	}
	return path, nil
}

func openFile(path string) error {
	switch runtime.GOOS {
	case "windows":
		return exec.Command("cmd", "/c", "start", "", path).Start()
	case "darwin":
		return exec.Command("open", path).Start()
	default:
		return exec.Command("xdg-open", path).Start()
	}
}
