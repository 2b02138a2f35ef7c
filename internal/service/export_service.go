package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/noah-isme/college-admin-api/internal/models"
	appErrors "github.com/noah-isme/college-admin-api/pkg/errors"
	"github.com/noah-isme/college-admin-api/pkg/export"
)

// Ledger export formats.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

type exportFeeFinder interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.FeeNotice, error)
}

type exportStudentFinder interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Student, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	Institution    string
	CurrencySymbol string
}

// ExportFile is a rendered document ready to send.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders fee receipts and payment ledgers.
type ExportService struct {
	fees     exportFeeFinder
	students exportStudentFinder
	cfg      ExportConfig
	logger   *zap.Logger
	now      func() time.Time
}

// NewExportService wires the export service.
func NewExportService(fees exportFeeFinder, students exportStudentFinder, cfg ExportConfig, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CurrencySymbol == "" {
		cfg.CurrencySymbol = "Rs."
	}
	return &ExportService{fees: fees, students: students, cfg: cfg, logger: logger, now: time.Now}
}

// Receipt renders the PDF receipt of one completed payment.
func (s *ExportService) Receipt(ctx context.Context, feeID, receiptNumber string) (*ExportFile, error) {
	fee, err := s.loadFee(ctx, feeID)
	if err != nil {
		return nil, err
	}
	payment, ok := fee.PaymentByReceipt(strings.TrimSpace(receiptNumber))
	if !ok || payment.Status != models.PaymentCompleted {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Receipt not found")
	}

	receipt := export.Receipt{
		Institution:   s.cfg.Institution,
		ReceiptNumber: payment.ReceiptNumber,
		IssuedAt:      s.now(),
		StudentEmail:  payment.StudentEmail,
		FeeTitle:      fee.Title,
		FeeType:       string(fee.FeeType),
		AcademicYear:  fee.AcademicYear,
		Semester:      fee.Semester,
		Course:        fee.Course,
		Amount:        s.money(payment.Amount),
		PaymentMethod: string(payment.PaymentMethod),
		TransactionID: payment.TransactionID,
		PaymentDate:   payment.PaymentDate,
		Notes:         payment.Notes,
	}
	if student, err := s.students.FindByID(ctx, payment.StudentID); err == nil {
		receipt.StudentName = student.FullName()
		receipt.StudentID = student.StudentID
	} else if !isMissing(err) {
		s.logger.Warn("receipt student lookup failed", zap.String("receipt", payment.ReceiptNumber), zap.Error(err))
	}

	data, err := export.ReceiptPDF(receipt)
	if err != nil {
		return nil, internalError(err, "failed to render receipt")
	}
	return &ExportFile{Filename: payment.ReceiptNumber + ".pdf", ContentType: "application/pdf", Data: data}, nil
}

// Ledger renders every payment recorded on a notice as CSV or PDF.
func (s *ExportService) Ledger(ctx context.Context, feeID, format string) (*ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ExportFormatCSV
	}
	if format != ExportFormatCSV && format != ExportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
	fee, err := s.loadFee(ctx, feeID)
	if err != nil {
		return nil, err
	}

	table := export.Table{
		Title:   fmt.Sprintf("%s | %s sem %s | %s", fee.Title, fee.Course, fee.Semester, fee.AcademicYear),
		Columns: []string{"Receipt", "Student Email", "Amount", "Method", "Transaction", "Date", "Status"},
		Rows:    make([][]string, 0, len(fee.Payments)),
	}
	for _, p := range fee.Payments {
		date := ""
		if !p.PaymentDate.IsZero() {
			date = p.PaymentDate.UTC().Format("2006-01-02 15:04")
		}
		table.Rows = append(table.Rows, []string{
			p.ReceiptNumber,
			p.StudentEmail,
			fmt.Sprintf("%.2f", p.Amount),
			string(p.PaymentMethod),
			p.TransactionID,
			date,
			string(p.Status),
		})
	}

	base := "fee-" + fee.ID.Hex() + "-payments"
	if format == ExportFormatPDF {
		data, err := export.TablePDF(table)
		if err != nil {
			return nil, internalError(err, "failed to render ledger")
		}
		return &ExportFile{Filename: base + ".pdf", ContentType: "application/pdf", Data: data}, nil
	}
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, table); err != nil {
		return nil, internalError(err, "failed to render ledger")
	}
	return &ExportFile{Filename: base + ".csv", ContentType: "text/csv", Data: buf.Bytes()}, nil
}

func (s *ExportService) loadFee(ctx context.Context, feeID string) (*models.FeeNotice, error) {
	oid, err := objectID(feeID, feeNotFound)
	if err != nil {
		return nil, err
	}
	fee, err := s.fees.FindByID(ctx, oid)
	if err != nil {
		return nil, storeError(err, feeNotFound, "failed to load fee notice")
	}
	return fee, nil
}

func (s *ExportService) money(amount float64) string {
	return fmt.Sprintf("%s %.2f", s.cfg.CurrencySymbol, amount)
}
