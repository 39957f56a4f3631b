package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"centavo.dev/internal/application/usecase"
	"centavo.dev/internal/domain/entity"
	"centavo.dev/internal/infrastructure/events"
	"centavo.dev/internal/infrastructure/logger"
	"centavo.dev/internal/infrastructure/repository"
)

// stubRateSource implements port.RateSource
type stubRateSource struct {
	table   entity.RateTable
	choices []entity.CurrencyChoice
}

func (s *stubRateSource) Fetch(ctx context.Context) (entity.RateTable, []entity.CurrencyChoice) {
	return s.table, s.choices
}

func newTestHandler(t *testing.T, source *stubRateSource) *Handler {
	t.Helper()
	log := logger.NewLogger()
	repo := repository.NewInMemoryLedger(log)
	publisher := events.NewMemoryPublisher(log)

	getBalance := usecase.NewGetBalanceUseCase(repo)
	processTransaction := usecase.NewProcessTransactionUseCase(getBalance, repo, publisher, log)
	getHistory := usecase.NewGetHistoryUseCase(repo)
	convertCurrency := usecase.NewConvertCurrencyUseCase(source)

	return NewHandler(processTransaction, getBalance, getHistory, convertCurrency, log)
}

func doRequest(mux *http.ServeMux, method, path, user, body string) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = &bytes.Buffer{}
	}

	req := httptest.NewRequest(method, path, reader)
	if user != "" {
		req.Header.Set(UserHeader, user)
	}

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestHandler_RequiresAuthenticatedUser(t *testing.T) {
	mux := newTestHandler(t, &stubRateSource{}).SetupRoutes()

	for _, path := range []string{"/balance", "/history", "/rates"} {
		if w := doRequest(mux, http.MethodGet, path, "", ""); w.Code != http.StatusUnauthorized {
			t.Errorf("GET %s without user: status = %d, want 401", path, w.Code)
		}
	}
	if w := doRequest(mux, http.MethodPost, "/transactions", "", `{"kind":"deposit","amount":"1"}`); w.Code != http.StatusUnauthorized {
		t.Errorf("POST /transactions without user: status = %d, want 401", w.Code)
	}
}

func TestHandler_HandleTransaction(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		body       string
		wantStatus int
		wantTx     string
	}{
		{
			name:       "deposit succeeds",
			method:     http.MethodPost,
			body:       `{"kind":"deposit","amount":"100"}`,
			wantStatus: http.StatusOK,
			wantTx:     "success",
		},
		{
			name:       "wrong HTTP method",
			method:     http.MethodGet,
			wantStatus: http.StatusMethodNotAllowed,
		},
		{
			name:       "invalid JSON body",
			method:     http.MethodPost,
			body:       `not json`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed amount",
			method:     http.MethodPost,
			body:       `{"kind":"deposit","amount":"abc"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown kind",
			method:     http.MethodPost,
			body:       `{"kind":"transfer","amount":"10"}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := newTestHandler(t, &stubRateSource{}).SetupRoutes()
			w := doRequest(mux, tt.method, "/transactions", "tom", tt.body)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %q)", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantTx == "" {
				return
			}

			var resp struct {
				Username string  `json:"username"`
				Balance  float64 `json:"balance"`
				Status   string  `json:"status"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to unmarshal response: %v", err)
			}
			if resp.Status != tt.wantTx {
				t.Errorf("transaction status = %q, want %q", resp.Status, tt.wantTx)
			}
			if resp.Username != "tom" {
				t.Errorf("username = %q, want tom", resp.Username)
			}
		})
	}
}

func TestHandler_OverdraftIsRecordedNotErrored(t *testing.T) {
	mux := newTestHandler(t, &stubRateSource{}).SetupRoutes()

	if w := doRequest(mux, http.MethodPost, "/transactions", "tom", `{"kind":"deposit","amount":"50"}`); w.Code != http.StatusOK {
		t.Fatalf("deposit status = %d", w.Code)
	}

	w := doRequest(mux, http.MethodPost, "/transactions", "tom", `{"kind":"withdraw","amount":"100"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("overdraft status = %d, want 200 (business failure, not error)", w.Code)
	}

	var resp struct {
		Balance float64 `json:"balance"`
		Status  string  `json:"status"`
		Message string  `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Status != "failure" {
		t.Errorf("status = %q, want failure", resp.Status)
	}
	if resp.Balance != 50.0 {
		t.Errorf("balance = %v, want 50 unchanged", resp.Balance)
	}
	if resp.Message != usecase.InsufficientBalanceMessage {
		t.Errorf("message = %q", resp.Message)
	}

	// The failed attempt still shows up in history.
	hw := doRequest(mux, http.MethodGet, "/history", "tom", "")
	var history struct {
		Transactions []entity.LedgerEntry `json:"transactions"`
	}
	if err := json.Unmarshal(hw.Body.Bytes(), &history); err != nil {
		t.Fatalf("failed to unmarshal history: %v", err)
	}
	if len(history.Transactions) != 2 {
		t.Fatalf("history has %d entries, want 2", len(history.Transactions))
	}
	if history.Transactions[0].Status != entity.StatusFailure {
		t.Errorf("newest entry status = %v, want failure", history.Transactions[0].Status)
	}
}

func TestHandler_HandleBalance(t *testing.T) {
	mux := newTestHandler(t, &stubRateSource{}).SetupRoutes()

	w := doRequest(mux, http.MethodGet, "/balance", "tom", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		Username string  `json:"username"`
		Balance  float64 `json:"balance"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Balance != 0.0 {
		t.Errorf("balance = %v, want 0 for a fresh user", resp.Balance)
	}
}

func TestHandler_HandleRates(t *testing.T) {
	t.Run("available rates", func(t *testing.T) {
		source := &stubRateSource{
			table: entity.RateTable{"USD": 1.15, "EUR": 1.0},
			choices: []entity.CurrencyChoice{
				entity.NewCurrencyChoice("USD", 1.15),
				entity.NewCurrencyChoice("EUR", 1.0),
			},
		}
		mux := newTestHandler(t, source).SetupRoutes()

		w := doRequest(mux, http.MethodGet, "/rates", "tom", "")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}

		var resp struct {
			Data    map[string]float64 `json:"data"`
			Choices []struct {
				Label string `json:"label"`
			} `json:"choices"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
		if resp.Data["USD"] != 1.15 {
			t.Errorf("data = %v", resp.Data)
		}
		if len(resp.Choices) != 2 || resp.Choices[0].Label != "USD (1.15)" {
			t.Errorf("choices = %v", resp.Choices)
		}
	})

	t.Run("degraded rate service yields nulls", func(t *testing.T) {
		mux := newTestHandler(t, &stubRateSource{}).SetupRoutes()

		w := doRequest(mux, http.MethodGet, "/rates", "tom", "")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 even when degraded", w.Code)
		}

		var resp map[string]json.RawMessage
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
		if string(resp["data"]) != "null" || string(resp["choices"]) != "null" {
			t.Errorf("degraded response = %s", w.Body.String())
		}
	})
}

func TestHandler_HandleConvert(t *testing.T) {
	source := &stubRateSource{
		table:   entity.RateTable{"USD": 1.15},
		choices: []entity.CurrencyChoice{entity.NewCurrencyChoice("USD", 1.15)},
	}

	t.Run("successful conversion", func(t *testing.T) {
		mux := newTestHandler(t, source).SetupRoutes()
		w := doRequest(mux, http.MethodPost, "/convert", "tom", `{"amount":"100","currency":"USD"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}

		var resp struct {
			Amount    *float64 `json:"amount"`
			Currency  *string  `json:"currency"`
			Exchanged *float64 `json:"exchanged_amount"`
			Username  string   `json:"username"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
		if resp.Exchanged == nil || *resp.Exchanged != 115.0 {
			t.Errorf("exchanged = %v, want 115", resp.Exchanged)
		}
		if resp.Username != "tom" {
			t.Errorf("username = %q, want tom", resp.Username)
		}
	})

	t.Run("unparseable amount yields the empty-state sentinel", func(t *testing.T) {
		mux := newTestHandler(t, source).SetupRoutes()
		w := doRequest(mux, http.MethodPost, "/convert", "tom", `{"amount":"abc","currency":"USD"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}

		var resp map[string]json.RawMessage
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
		if string(resp["currency_choices"]) != "[]" {
			t.Errorf("currency_choices = %s, want []", resp["currency_choices"])
		}
		for _, field := range []string{"amount", "currency", "exchanged_amount"} {
			if string(resp[field]) != "null" {
				t.Errorf("%s = %s, want null", field, resp[field])
			}
		}
		if _, present := resp["username"]; present {
			t.Errorf("empty-state sentinel should not carry a username")
		}
	})

	t.Run("missing rate echoes the request", func(t *testing.T) {
		mux := newTestHandler(t, source).SetupRoutes()
		w := doRequest(mux, http.MethodPost, "/convert", "tom", `{"amount":"100","currency":"GBP"}`)

		var resp struct {
			Amount    *float64 `json:"amount"`
			Currency  *string  `json:"currency"`
			Exchanged *float64 `json:"exchanged_amount"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
		if resp.Exchanged != nil {
			t.Errorf("exchanged = %v, want null for a missing rate", *resp.Exchanged)
		}
		if resp.Amount == nil || *resp.Amount != 100.0 {
			t.Errorf("amount = %v, want echoed 100", resp.Amount)
		}
		if resp.Currency == nil || *resp.Currency != "GBP" {
			t.Errorf("currency = %v, want echoed GBP", resp.Currency)
		}
	})
}
