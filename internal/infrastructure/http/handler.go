package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"centavo.dev/internal/application/usecase"
	"centavo.dev/internal/domain/entity"
	"centavo.dev/internal/infrastructure/logger"
)

// Handler holds HTTP handlers and their dependencies
type Handler struct {
	processTransaction *usecase.ProcessTransactionUseCase
	getBalance         *usecase.GetBalanceUseCase
	getHistory         *usecase.GetHistoryUseCase
	convertCurrency    *usecase.ConvertCurrencyUseCase
	logger             logger.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(
	processTransaction *usecase.ProcessTransactionUseCase,
	getBalance *usecase.GetBalanceUseCase,
	getHistory *usecase.GetHistoryUseCase,
	convertCurrency *usecase.ConvertCurrencyUseCase,
	logger logger.Logger,
) *Handler {
	return &Handler{
		processTransaction: processTransaction,
		getBalance:         getBalance,
		getHistory:         getHistory,
		convertCurrency:    convertCurrency,
		logger:             logger,
	}
}

// transactionRequest is the POST /transactions payload
type transactionRequest struct {
	Kind   string `json:"kind"`
	Amount string `json:"amount"`
}

// transactionResponse mirrors the operations context: the projected balance
// plus the recorded outcome of this attempt.
type transactionResponse struct {
	Username string  `json:"username"`
	Balance  float64 `json:"balance"`
	Status   string  `json:"status"`
	Message  string  `json:"message"`
}

// balanceResponse is the GET /balance payload
type balanceResponse struct {
	Username string  `json:"username"`
	Balance  float64 `json:"balance"`
}

// historyResponse is the GET /history payload, entries newest first
type historyResponse struct {
	Username     string               `json:"username"`
	Transactions []entity.LedgerEntry `json:"transactions"`
}

// ratesResponse is the GET /rates payload; both fields are null when the
// rate service is unavailable this request.
type ratesResponse struct {
	Data    entity.RateTable        `json:"data"`
	Choices []entity.CurrencyChoice `json:"choices"`
}

// convertRequest is the POST /convert payload
type convertRequest struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

// convertResponse is the conversion context. Username is omitted in the
// empty state, matching the empty-context sentinel shape.
type convertResponse struct {
	entity.Conversion
	Username string `json:"username,omitempty"`
}

// HandleTransaction handles POST /transactions requests
func (h *Handler) HandleTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestLogger := ctx.Value("logger").(logger.Logger)

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	user := UserFromContext(ctx)

	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		requestLogger.LogError(ctx, "Failed to parse JSON body", err)
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	result, err := h.processTransaction.Execute(ctx, user, req.Kind, req.Amount)
	if err != nil {
		if errors.Is(err, entity.ErrValidation) {
			requestLogger.LogWarning(ctx, "Rejected transaction request", "error", err.Error())
			http.Error(w, fmt.Sprintf("Invalid transaction: %v", err), http.StatusBadRequest)
			return
		}
		requestLogger.LogError(ctx, "Failed to process transaction", err)
		http.Error(w, "Failed to process transaction", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, transactionResponse{
		Username: user,
		Balance:  result.Balance.InexactFloat64(),
		Status:   string(result.Status),
		Message:  result.Message,
	})

	requestLogger.LogInfo(ctx, "Transaction processed",
		"user", user,
		"kind", req.Kind,
		"status", string(result.Status))
}

// HandleBalance handles GET /balance requests
func (h *Handler) HandleBalance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestLogger := ctx.Value("logger").(logger.Logger)

	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	user := UserFromContext(ctx)

	balance, err := h.getBalance.Execute(ctx, user)
	if err != nil {
		requestLogger.LogError(ctx, "Failed to get balance", err)
		http.Error(w, "Failed to get balance", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, balanceResponse{
		Username: user,
		Balance:  balance.InexactFloat64(),
	})
}

// HandleHistory handles GET /history requests
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestLogger := ctx.Value("logger").(logger.Logger)

	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	user := UserFromContext(ctx)

	entries, err := h.getHistory.Execute(ctx, user)
	if err != nil {
		requestLogger.LogError(ctx, "Failed to get history", err)
		http.Error(w, "Failed to get history", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, historyResponse{
		Username:     user,
		Transactions: entries,
	})
}

// HandleRates handles GET /rates requests
func (h *Handler) HandleRates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	data, choices := h.convertCurrency.Rates(r.Context())

	writeJSON(w, http.StatusOK, ratesResponse{
		Data:    data,
		Choices: choices,
	})
}

// HandleConvert handles POST /convert requests
func (h *Handler) HandleConvert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestLogger := ctx.Value("logger").(logger.Logger)

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req convertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		requestLogger.LogError(ctx, "Failed to parse JSON body", err)
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	conversion := h.convertCurrency.Execute(ctx, req.Amount, req.Currency)

	resp := convertResponse{Conversion: conversion}
	if !conversion.IsEmpty() {
		resp.Username = UserFromContext(ctx)
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// SetupRoutes sets up all HTTP routes
func (h *Handler) SetupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	wrap := func(handler http.HandlerFunc) http.HandlerFunc {
		return RequestIDMiddleware(
			LoggingMiddleware(AuthMiddleware(handler), h.logger),
			h.logger,
		)
	}

	mux.HandleFunc("/transactions", wrap(h.HandleTransaction))
	mux.HandleFunc("/balance", wrap(h.HandleBalance))
	mux.HandleFunc("/history", wrap(h.HandleHistory))
	mux.HandleFunc("/rates", wrap(h.HandleRates))
	mux.HandleFunc("/convert", wrap(h.HandleConvert))

	return mux
}
