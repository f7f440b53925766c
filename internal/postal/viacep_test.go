package postal

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront-checkout/internal/domain"
)

func TestFindResolvesCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ws/01310100/json/" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		io.WriteString(w, `{
			"cep": "01310-100",
			"logradouro": "Avenida Paulista",
			"complemento": "de 612 a 1510 - lado par",
			"bairro": "Bela Vista",
			"localidade": "São Paulo",
			"uf": "sp"
		}`)
	}))
	defer srv.Close()

	got, err := New(srv.URL).Find(context.Background(), "01310-100")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Street != "Avenida Paulista" {
		t.Fatalf("unexpected street %q", got.Street)
	}
	if got.Neighborhood != "Bela Vista" || got.City != "São Paulo" {
		t.Fatalf("unexpected result %+v", got)
	}
	if got.State != "SP" {
		t.Fatalf("expected uppercased state, got %q", got.State)
	}
}

func TestFindUnknownCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"erro": true}`)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Find(context.Background(), "99999999")
	if !errors.Is(err, domain.ErrPostalNotFound) {
		t.Fatalf("expected ErrPostalNotFound, got %v", err)
	}
}

func TestFindRejectsShortCode(t *testing.T) {
	if _, err := New("http://unused").Find(context.Background(), "1234"); err == nil {
		t.Fatal("expected length error")
	}
}

func TestFindNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	if _, err := New(srv.URL).Find(context.Background(), "01310100"); err == nil {
		t.Fatal("expected status error")
	}
}
