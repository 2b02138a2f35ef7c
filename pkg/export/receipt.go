package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Receipt describes one completed fee payment.
type Receipt struct {
	Institution   string
	ReceiptNumber string
	IssuedAt      time.Time

	StudentName  string
	StudentEmail string
	StudentID    string

	FeeTitle     string
	FeeType      string
	AcademicYear string
	Semester     string
	Course       string

	Amount        string
	PaymentMethod string
	TransactionID string
	PaymentDate   time.Time
	Notes         string
}

// ReceiptPDF renders a single-page A5 receipt.
func ReceiptPDF(r Receipt) ([]byte, error) {
	if r.ReceiptNumber == "" {
		return nil, fmt.Errorf("receipt number is required")
	}
	pdf := gofpdf.New("P", "mm", "A5", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()

	institution := r.Institution
	if institution == "" {
		institution = "College Administration"
	}
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 8, tr(institution), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, "Fee Payment Receipt", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	line := func(label, value string) {
		if value == "" {
			return
		}
		pdf.SetFont("Arial", "B", 9)
		pdf.CellFormat(40, 6, tr(label), "", 0, "", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		pdf.MultiCell(0, 6, tr(value), "", "", false)
	}

	line("Receipt No.", r.ReceiptNumber)
	line("Issued", formatDate(r.IssuedAt))
	pdf.Ln(2)
	line("Student", r.StudentName)
	line("Student ID", r.StudentID)
	line("Email", r.StudentEmail)
	pdf.Ln(2)
	line("Fee", r.FeeTitle)
	line("Type", r.FeeType)
	line("Academic year", r.AcademicYear)
	line("Semester", r.Semester)
	line("Course", r.Course)
	pdf.Ln(2)
	line("Method", r.PaymentMethod)
	line("Transaction", r.TransactionID)
	line("Paid on", formatDate(r.PaymentDate))
	line("Notes", r.Notes)

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(40, 8, "Amount paid", "T", 0, "", false, 0, "")
	pdf.CellFormat(0, 8, tr(r.Amount), "T", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render receipt %s: %w", r.ReceiptNumber, err)
	}
	return buf.Bytes(), nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("02 Jan 2006")
}
