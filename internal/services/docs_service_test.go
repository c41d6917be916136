package services

import (
	"bytes"
	"testing"
)

func TestDocsServiceGenerate(t *testing.T) {
	loader := func(id int64) (voucherData, error) {
		return voucherData{
			SessionID:    id,
			CustomerName: "Ana Souza",
			CustomerCPF:  "529.982.247-25",
			VehicleLabel: "Fiat Argo",
			VehiclePlate: "ABC1D23",
			PlanCode:     "sedan-daily",
			PickupPlace:  "Av. Paulista 1000, São Paulo/SP",
			PickupAt:     "2026-09-10 09:00:00",
			Lines: []voucherLine{
				{Label: "Fiat Argo (Sedan Diária)", Quantity: 1, TotalCents: 45000},
				{Label: "GPS", Quantity: 3, TotalCents: 4500},
			},
			TotalCents:    49500,
			PaymentMethod: "boleto",
			PaymentStatus: "pending",
			Barcode:       "23793.38128 60000.000000 00000.000000 1 99990000049500",
			DueDate:       "2026-09-05",
		}, nil
	}

	svc := DocsService{Loader: loader}

	voucher, name, err := svc.GenerateVoucher(7)
	if err != nil {
		t.Fatalf("GenerateVoucher returned error: %v", err)
	}
	if len(voucher) == 0 || name == "" {
		t.Fatal("GenerateVoucher returned empty data")
	}
	if !bytes.HasPrefix(voucher, []byte("%PDF")) {
		t.Fatal("voucher is not a PDF")
	}

	boleto, boletoName, err := svc.GenerateBoleto(7)
	if err != nil {
		t.Fatalf("GenerateBoleto returned error: %v", err)
	}
	if len(boleto) == 0 || boletoName == "" {
		t.Fatal("GenerateBoleto returned empty data")
	}
}

func TestGenerateBoletoRejectsOtherMethods(t *testing.T) {
	svc := DocsService{Loader: func(id int64) (voucherData, error) {
		return voucherData{SessionID: id, PaymentMethod: "pix"}, nil
	}}

	if _, _, err := svc.GenerateBoleto(3); err == nil {
		t.Fatal("expected error for non-boleto session")
	}
}
