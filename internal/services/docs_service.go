package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"backend/internal/domain"
	"backend/internal/repositories"
	"backend/internal/utils"
)

// DocsService renders the rental voucher and the boleto slip as PDFs.
type DocsService struct {
	SessionRepo  repositories.SessionRepository
	ItemRepo     repositories.SessionItemRepository
	CustomerRepo repositories.CustomerRepository
	VehicleRepo  repositories.VehicleRepository
	PaymentRepo  repositories.PaymentRepository
	RequestID    string
	Loader       func(int64) (voucherData, error)
}

type voucherLine struct {
	Label      string
	Quantity   int
	TotalCents int64
}

type voucherData struct {
	SessionID    int64
	CustomerName string
	CustomerCPF  string
	VehicleLabel string
	VehiclePlate string
	PlanCode     string
	PickupPlace  string
	PickupAt     string
	Lines        []voucherLine
	TotalCents   int64

	PaymentMethod string
	PaymentStatus string
	Barcode       string
	DueDate       string
}

// GenerateVoucher builds the confirmation-step rental voucher.
func (s DocsService) GenerateVoucher(sessionID int64) ([]byte, string, error) {
	data, err := s.loadVoucherData(sessionID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_voucher", fmt.Sprintf("session_id=%d", sessionID))
	return buildVoucherPDF(data)
}

// GenerateBoleto builds a printable slip for a boleto attempt. Fails with
// validation when the latest attempt is not a boleto.
func (s DocsService) GenerateBoleto(sessionID int64) ([]byte, string, error) {
	data, err := s.loadVoucherData(sessionID)
	if err != nil {
		return nil, "", err
	}
	if data.PaymentMethod != "boleto" {
		return nil, "", domain.ValidationError{Field: "payment_method", Msg: "sessão não pagou com boleto"}
	}
	utils.LogEvent(s.RequestID, "docs", "generate_boleto", fmt.Sprintf("session_id=%d", sessionID))
	return buildBoletoPDF(data)
}

func (s DocsService) loadVoucherData(sessionID int64) (voucherData, error) {
	if s.Loader != nil {
		return s.Loader(sessionID)
	}

	var out voucherData
	session, err := s.SessionRepo.GetByID(sessionID)
	if err != nil {
		return out, err
	}
	out.SessionID = session.ID
	out.PlanCode = session.PlanCode
	out.PickupAt = session.PickupAt
	out.TotalCents = session.TotalCents

	place := strings.TrimSpace(session.PickupAddress)
	if session.PickupCity != "" {
		place = strings.TrimSpace(place + ", " + session.PickupCity + "/" + session.PickupState)
	}
	out.PickupPlace = place

	if customer, err := s.CustomerRepo.GetByID(session.CustomerID); err == nil {
		out.CustomerName = customer.Name
		out.CustomerCPF = utils.FormatCPF(customer.CPF)
	}

	if session.VehicleID > 0 {
		if vehicle, err := s.VehicleRepo.GetByID(session.VehicleID); err == nil {
			out.VehicleLabel = vehicle.Brand + " " + vehicle.Model
			out.VehiclePlate = vehicle.Plate
		}
	}

	items, err := s.ItemRepo.ListBySession(sessionID)
	if err != nil {
		return out, err
	}
	for _, it := range items {
		out.Lines = append(out.Lines, voucherLine{Label: it.Label, Quantity: it.Quantity, TotalCents: it.TotalCents})
	}

	if attempt, err := s.PaymentRepo.LatestBySession(sessionID); err == nil {
		out.PaymentMethod = attempt.Method
		out.PaymentStatus = attempt.Status
		if attempt.Payload != "" {
			var payload struct {
				Barcode string `json:"barcode"`
				DueDate string `json:"dueDate"`
			}
			if json.Unmarshal([]byte(attempt.Payload), &payload) == nil {
				out.Barcode = payload.Barcode
				out.DueDate = payload.DueDate
			}
		}
	}

	return out, nil
}

func buildVoucherPDF(d voucherData) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Voucher de Locacao", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "VOUCHER DE LOCACAO")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Reserva       : #%d", d.SessionID),
		fmt.Sprintf("Cliente       : %s", safe(d.CustomerName, "-")),
		fmt.Sprintf("CPF           : %s", safe(d.CustomerCPF, "-")),
		fmt.Sprintf("Veiculo       : %s", safe(d.VehicleLabel, "-")),
		fmt.Sprintf("Placa         : %s", safe(d.VehiclePlate, "-")),
		fmt.Sprintf("Plano         : %s", safe(d.PlanCode, "-")),
		fmt.Sprintf("Retirada      : %s", safe(d.PickupPlace, "-")),
		fmt.Sprintf("Data/Hora     : %s", safe(d.PickupAt, "-")),
		fmt.Sprintf("Pagamento     : %s (%s)", safe(d.PaymentMethod, "-"), safe(d.PaymentStatus, "-")),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Itens:")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	for i, line := range d.Lines {
		pdf.MultiCell(0, 6, fmt.Sprintf("%d) %s x%d - %s", i+1, safe(line.Label, "-"), line.Quantity, utils.FormatCentavos(line.TotalCents)), "", "", false)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Total: "+utils.FormatCentavos(d.TotalCents))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Apresente este voucher e sua CNH na retirada do veiculo.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("VOUCHER_%d_%s.pdf", d.SessionID, safeFilenamePart(d.CustomerName))
	return buf.Bytes(), filename, nil
}

func buildBoletoPDF(d voucherData) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Boleto", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "BOLETO BANCARIO")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, fmt.Sprintf("Reserva      : #%d", d.SessionID))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Pagador      : "+safe(d.CustomerName, "-"))
	pdf.Ln(7)
	pdf.Cell(0, 7, "CPF          : "+safe(d.CustomerCPF, "-"))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Vencimento   : "+safe(d.DueDate, "-"))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Emissao      : "+time.Now().Format("2006-01-02 15:04"))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Valor: "+utils.FormatCentavos(d.TotalCents))
	pdf.Ln(10)

	pdf.SetFont("Courier", "B", 13)
	pdf.MultiCell(0, 8, safe(d.Barcode, "-"), "", "", false)
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Pague em qualquer banco ou lotérica até o vencimento. Após o pagamento, a confirmação chega em até 2 dias úteis.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("BOLETO_%d_%s.pdf", d.SessionID, safeFilenamePart(d.CustomerName))
	return buf.Bytes(), filename, nil
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
