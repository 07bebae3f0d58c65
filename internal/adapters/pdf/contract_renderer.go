// Package pdf renders loan contracts as PDF documents.
package pdf

import (
	"fmt"
	"io"
	"strconv"

	"github.com/SscSPs/banquito_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/banquito_backend/internal/core/ports/repositories"
	"github.com/SscSPs/banquito_backend/internal/utils"
	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

const (
	contentType = "application/pdf"
	dateLayout  = "02/01/2006"
	lineHeight  = 6.0
)

var periodLabels = map[domain.PaymentPeriod]string{
	domain.Daily:      "Diario",
	domain.Weekly:     "Semanal",
	domain.Biweekly:   "Quincenal",
	domain.Monthly:    "Mensual",
	domain.Quarterly:  "Trimestral",
	domain.Semiannual: "Semestral",
	domain.Annual:     "Anual",
}

// PeriodLabel is the Spanish name of a payment period.
func PeriodLabel(p domain.PaymentPeriod) string {
	if label, ok := periodLabels[p]; ok {
		return label
	}
	return string(p)
}

// ContractRenderer lays out a loan contract on A4 pages using the core fonts.
type ContractRenderer struct{}

func NewContractRenderer() *ContractRenderer {
	return &ContractRenderer{}
}

var _ portsrepo.ContractRenderer = (*ContractRenderer)(nil)

func (r *ContractRenderer) ContentType() string { return contentType }

func (r *ContractRenderer) Render(w io.Writer, data domain.ContractData) error {
	doc := fpdf.New("P", "mm", "A4", "")
	tr := doc.UnicodeTranslatorFromDescriptor("")
	doc.SetTitle(tr("Contrato de préstamo"), false)
	doc.SetMargins(20, 20, 20)
	doc.SetAutoPageBreak(true, 20)
	doc.AliasNbPages("")
	doc.SetFooterFunc(func() {
		doc.SetY(-15)
		doc.SetFont("Helvetica", "I", 8)
		doc.CellFormat(0, 10, tr(fmt.Sprintf("Página %d/{nb}", doc.PageNo())), "", 0, "C", false, 0, "")
	})
	doc.AddPage()

	money := func(amount decimal.Decimal) string { return utils.FormatMoney(amount, data.Currency) }
	lender := lenderName(data.Lender)
	borrower := data.Borrower.FullName()

	doc.SetFont("Helvetica", "B", 16)
	doc.CellFormat(0, 10, tr("CONTRATO DE PRÉSTAMO"), "", 1, "C", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(0, lineHeight, tr("No. "+data.Loan.LoanID), "", 1, "C", false, 0, "")
	doc.Ln(4)

	section(doc, tr, "PARTES")
	paragraph(doc, tr, fmt.Sprintf("EL PRESTAMISTA: %s%s%s.", lender,
		optional(", identificado con cédula ", data.Lender.Cedula),
		optional(", con domicilio en ", joinNonEmpty(data.Lender.Address, data.Lender.City))))
	paragraph(doc, tr, fmt.Sprintf("EL PRESTATARIO: %s%s%s%s.", borrower,
		optional(", identificado con cédula ", data.Borrower.Cedula),
		optional(", con domicilio en ", data.Borrower.Address),
		optional(", teléfono ", data.Borrower.Phone)))

	section(doc, tr, "CONDICIONES DEL PRÉSTAMO")
	terms := [][2]string{
		{"Monto del préstamo", money(data.Loan.Principal)},
		{"Tasa de interés", data.Loan.InterestRate.String() + "% por período"},
		{"Frecuencia de pago", PeriodLabel(data.Loan.PaymentPeriod)},
		{"Número de cuotas", strconv.Itoa(data.Loan.TermPeriods)},
		{"Fecha de inicio", data.Loan.StartDate.Format(dateLayout)},
		{"Fecha de vencimiento", data.Loan.DueDate.Format(dateLayout)},
		{"Interés total", money(data.Figures.TotalInterest)},
		{"Total a pagar", money(data.Figures.TotalDue)},
		{"Valor de la cuota", money(data.Figures.InstallmentAmount)},
		{"Moneda", data.Currency.Name + " (" + data.Currency.CurrencyCode + ")"},
	}
	for _, row := range terms {
		doc.SetFont("Helvetica", "B", 10)
		doc.CellFormat(60, lineHeight, tr(row[0]+":"), "", 0, "L", false, 0, "")
		doc.SetFont("Helvetica", "", 10)
		doc.CellFormat(0, lineHeight, tr(row[1]), "", 1, "L", false, 0, "")
	}
	doc.Ln(2)
	paragraph(doc, tr, fmt.Sprintf("EL PRESTATARIO declara recibir a su entera satisfacción la suma de %s y se obliga a "+
		"devolverla junto con los intereses pactados en %d cuotas de frecuencia %s, conforme al siguiente plan de pagos.",
		utils.FormatMoney(data.Loan.Principal, data.Currency), data.Loan.TermPeriods, PeriodLabel(data.Loan.PaymentPeriod)))

	section(doc, tr, "PLAN DE PAGOS")
	scheduleTable(doc, tr, data)

	doc.Ln(4)
	paragraph(doc, tr, fmt.Sprintf("Firmado en %s, el %s.", placeOr(data.Lender.City), data.IssuedAt.Format(dateLayout)))
	signatures(doc, tr, lender, borrower)

	if err := doc.Error(); err != nil {
		return fmt.Errorf("failed to lay out contract: %w", err)
	}
	return doc.Output(w)
}

func section(doc *fpdf.Fpdf, tr func(string) string, title string) {
	doc.Ln(2)
	doc.SetFont("Helvetica", "B", 12)
	doc.CellFormat(0, 8, tr(title), "B", 1, "L", false, 0, "")
	doc.Ln(2)
}

func paragraph(doc *fpdf.Fpdf, tr func(string) string, text string) {
	doc.SetFont("Helvetica", "", 10)
	doc.MultiCell(0, lineHeight, tr(text), "", "J", false)
	doc.Ln(1)
}

func scheduleTable(doc *fpdf.Fpdf, tr func(string) string, data domain.ContractData) {
	widths := []float64{20, 50, 50, 50}
	headers := []string{"No.", "Fecha", "Cuota", "Acumulado"}
	doc.SetFont("Helvetica", "B", 10)
	doc.SetFillColor(230, 230, 230)
	for i, h := range headers {
		doc.CellFormat(widths[i], 7, tr(h), "1", 0, "C", true, 0, "")
	}
	doc.Ln(-1)

	doc.SetFont("Helvetica", "", 10)
	for _, entry := range data.Schedule {
		doc.CellFormat(widths[0], lineHeight, strconv.Itoa(entry.Number), "1", 0, "C", false, 0, "")
		doc.CellFormat(widths[1], lineHeight, entry.DueDate.Format(dateLayout), "1", 0, "C", false, 0, "")
		doc.CellFormat(widths[2], lineHeight, tr(utils.FormatMoney(entry.Amount, data.Currency)), "1", 0, "R", false, 0, "")
		doc.CellFormat(widths[3], lineHeight, tr(utils.FormatMoney(entry.Cumulative, data.Currency)), "1", 0, "R", false, 0, "")
		doc.Ln(-1)
	}
}

func signatures(doc *fpdf.Fpdf, tr func(string) string, lender, borrower string) {
	doc.Ln(20)
	y := doc.GetY()
	doc.Line(25, y, 90, y)
	doc.Line(120, y, 185, y)
	doc.SetY(y + 2)
	doc.SetFont("Helvetica", "", 10)
	doc.SetX(25)
	doc.CellFormat(65, lineHeight, tr(lender), "", 0, "C", false, 0, "")
	doc.SetX(120)
	doc.CellFormat(65, lineHeight, tr(borrower), "", 1, "C", false, 0, "")
	doc.SetX(25)
	doc.CellFormat(65, lineHeight, "EL PRESTAMISTA", "", 0, "C", false, 0, "")
	doc.SetX(120)
	doc.CellFormat(65, lineHeight, "EL PRESTATARIO", "", 1, "C", false, 0, "")
}

func lenderName(p domain.CompanyProfile) string {
	switch {
	case p.BusinessName != "" && p.OwnerName != "":
		return p.BusinessName + ", representado por " + p.OwnerName
	case p.BusinessName != "":
		return p.BusinessName
	case p.OwnerName != "":
		return p.OwnerName
	}
	return "________________________"
}

func optional(prefix, value string) string {
	if value == "" {
		return ""
	}
	return prefix + value
}

func joinNonEmpty(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	return a + ", " + b
}

func placeOr(city string) string {
	if city == "" {
		return "________________"
	}
	return city
}
