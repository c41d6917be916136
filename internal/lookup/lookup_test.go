package lookup

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"backend/internal/domain"
)

func TestCEPLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ws/01310100/json/":
			json.NewEncoder(w).Encode(viaCEPResponse{
				CEP: "01310-100", Logradouro: "Avenida Paulista", Bairro: "Bela Vista",
				Localidade: "São Paulo", UF: "SP",
			})
		case "/ws/99999999/json/":
			json.NewEncoder(w).Encode(viaCEPResponse{Erro: true})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := NewCEPClient(srv.URL)

	addr, err := client.Lookup(context.Background(), "01310-100")
	if err != nil {
		t.Fatalf("lookup error: %v", err)
	}
	if addr.City != "São Paulo" || addr.State != "SP" || addr.Street != "Avenida Paulista" {
		t.Fatalf("unexpected address: %+v", addr)
	}

	_, err = client.Lookup(context.Background(), "99999-999")
	if !domain.IsNotFound(err) {
		t.Fatalf("unknown cep should be not found, got %v", err)
	}

	_, err = client.Lookup(context.Background(), "123")
	if !domain.IsValidation(err) {
		t.Fatalf("short cep should fail validation, got %v", err)
	}
}

func TestRegistryByPlate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/vehicles/ABC1D23":
			json.NewEncoder(w).Encode(RegistryInfo{Brand: "Fiat", Model: "Argo", ModelYear: 2023, Status: "regular"})
		case "/v1/vehicles/ZZZ9Z99":
			w.WriteHeader(http.StatusNotFound)
		case "/v1/prices":
			q := r.URL.Query()
			if q.Get("brand") != "Fiat" || q.Get("model") != "Argo" || q.Get("year") != "2023" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			json.NewEncoder(w).Encode(PriceReference{Brand: "Fiat", Model: "Argo", ModelYear: 2023, PriceCents: 7850000})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := NewRegistryClient(srv.URL, "key")

	info, err := client.ByPlate(context.Background(), "abc-1d23")
	if err != nil {
		t.Fatalf("plate lookup error: %v", err)
	}
	if info.Plate != "ABC1D23" || info.Brand != "Fiat" {
		t.Fatalf("unexpected info: %+v", info)
	}

	_, err = client.ByPlate(context.Background(), "ZZZ9Z99")
	if !domain.IsNotFound(err) {
		t.Fatalf("missing plate should be not found, got %v", err)
	}

	_, err = client.ByPlate(context.Background(), "AB12")
	if !domain.IsValidation(err) {
		t.Fatalf("malformed plate should fail validation, got %v", err)
	}

	ref, err := client.PriceByModel(context.Background(), "Fiat", "Argo", 2023)
	if err != nil {
		t.Fatalf("price lookup error: %v", err)
	}
	if ref.PriceCents != 7850000 {
		t.Fatalf("unexpected price: %d", ref.PriceCents)
	}
}
