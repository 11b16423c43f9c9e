package httpserver

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"greenville/internal/domain"
	customersvc "greenville/internal/service/customer"
)

func TestCartRoutes_RequireToken(t *testing.T) {
	router := testRouter(t, Deps{})

	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/cart"},
		{http.MethodPost, "/cart/sync"},
		{http.MethodPost, "/cart/merge"},
	} {
		req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(`{"items":[]}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401, got %d", tc.method, tc.path, rec.Code)
		}
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	customerSvc := &stubCustomerService{lookupErr: customersvc.ErrInvalidToken}
	router := testRouter(t, Deps{CustomerSvc: customerSvc})

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set("Authorization", "Bearer stale")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestLoginHandler_Success(t *testing.T) {
	customerSvc := &stubCustomerService{customer: &domain.Customer{ID: "cust-1", Email: "a@b.c"}}
	router := testRouter(t, Deps{CustomerSvc: customerSvc})

	body := `{"email":"a@b.c","password":"Abcdefg1"}`
	req := httptest.NewRequest(http.MethodPost, "/customers/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"accessToken":"access-token"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestLoginHandler_InvalidCredentials(t *testing.T) {
	customerSvc := &stubCustomerService{loginErr: customersvc.ErrInvalidCredentials}
	router := testRouter(t, Deps{CustomerSvc: customerSvc})

	body := `{"email":"a@b.c","password":"nope"}`
	req := httptest.NewRequest(http.MethodPost, "/customers/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRegisterHandler_Created(t *testing.T) {
	customerSvc := &stubCustomerService{customer: &domain.Customer{ID: "cust-1", Email: "a@b.c"}}
	router := testRouter(t, Deps{CustomerSvc: customerSvc})

	body := `{"email":"a@b.c","password":"Abcdefg1","firstName":"Ann"}`
	req := httptest.NewRequest(http.MethodPost, "/customers/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"email":"a@b.c"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestRegisterHandler_Duplicate(t *testing.T) {
	customerSvc := &stubCustomerService{signupErr: domain.ErrAlreadyExists}
	router := testRouter(t, Deps{CustomerSvc: customerSvc})

	body := `{"email":"a@b.c","password":"Abcdefg1"}`
	req := httptest.NewRequest(http.MethodPost, "/customers/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestGetProductHandler_NotFound(t *testing.T) {
	router := testRouter(t, Deps{ProductSvc: &stubProductService{err: domain.ErrNotFound}})

	req := httptest.NewRequest(http.MethodGet, "/products/missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
