// internal/api/handlers.go
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-launchpad/internal/launch"
	"github.com/rovshanmuradov/solana-launchpad/internal/storage"
)

type tokenRequest struct {
	Name             string             `json:"name"`
	Symbol           string             `json:"symbol"`
	Decimals         uint8              `json:"decimals"`
	Supply           decimal.Decimal    `json:"supply"`
	Description      string             `json:"description"`
	ImageBase64      []byte             `json:"image_base64"`
	ImageContentType string             `json:"image_content_type"`
	Socials          launch.SocialLinks `json:"socials"`
}

type marketRequest struct {
	BaseMint  solana.PublicKey `json:"base_mint"`
	QuoteMint solana.PublicKey `json:"quote_mint"`
	LotSize   decimal.Decimal  `json:"lot_size"`
	TickSize  decimal.Decimal  `json:"tick_size"`
}

type poolRequest struct {
	MarketID    solana.PublicKey `json:"market_id"`
	BaseAmount  decimal.Decimal  `json:"base_amount"`
	QuoteAmount decimal.Decimal  `json:"quote_amount"`
	StartTime   *time.Time       `json:"start_time"`
}

type errorResponse struct {
	Error string   `json:"error"`
	Kind  string   `json:"kind"`
	Logs  []string `json:"logs,omitempty"`
}

// POST /tokens
func (s *Server) createToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if !s.decode(w, r, &req) {
		return
	}
	ctx, cancel := s.flowContext(r)
	defer cancel()
	res, err := s.launcher.CreateToken(ctx, s.signer, launch.TokenSpec{
		Name:             req.Name,
		Symbol:           req.Symbol,
		Description:      req.Description,
		Decimals:         req.Decimals,
		Supply:           req.Supply,
		Image:            req.ImageBase64,
		ImageContentType: req.ImageContentType,
		Socials:          req.Socials,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// POST /markets
func (s *Server) createMarket(w http.ResponseWriter, r *http.Request) {
	var req marketRequest
	if !s.decode(w, r, &req) {
		return
	}
	ctx, cancel := s.flowContext(r)
	defer cancel()
	res, err := s.launcher.CreateMarket(ctx, s.signer, launch.MarketSpec{
		BaseMint:  req.BaseMint,
		QuoteMint: req.QuoteMint,
		LotSize:   req.LotSize,
		TickSize:  req.TickSize,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// POST /pools
func (s *Server) createPool(w http.ResponseWriter, r *http.Request) {
	var req poolRequest
	if !s.decode(w, r, &req) {
		return
	}
	spec := launch.PoolSpec{
		MarketID:    req.MarketID,
		BaseAmount:  req.BaseAmount,
		QuoteAmount: req.QuoteAmount,
	}
	if req.StartTime != nil {
		spec.StartTime = *req.StartTime
	}
	ctx, cancel := s.flowContext(r)
	defer cancel()
	res, err := s.launcher.CreatePool(ctx, s.signer, spec)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// GET /receipts?flow=&limit=
func (s *Server) listReceipts(w http.ResponseWriter, r *http.Request) {
	limit := storage.DefaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			s.writeError(w, &launch.ValidationError{Field: "limit", Reason: "must be a positive integer"})
			return
		}
		limit = n
	}
	receipts, err := s.receipts.ListReceipts(r.Context(), r.URL.Query().Get("flow"), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, receipts)
}

// GET /receipts/{id}
func (s *Server) getReceipt(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, &launch.ValidationError{Field: "id", Reason: "must be a UUID", Err: err})
		return
	}
	receipt, err := s.receipts.GetReceipt(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error(), Kind: "not_found"})
		return
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeError(w, &launch.ValidationError{Field: "body", Reason: err.Error(), Err: err})
		return false
	}
	return true
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	kind := launch.Kind(err)
	status := statusFor(kind)
	if status >= http.StatusInternalServerError {
		s.logger.Error("Request failed", zap.String("kind", kind), zap.Error(err))
	}
	writeJSON(w, status, errorResponse{
		Error: err.Error(),
		Kind:  kind,
		Logs:  launch.Logs(err),
	})
}

func statusFor(kind string) int {
	switch kind {
	case launch.KindValidation:
		return http.StatusBadRequest
	case launch.KindWallet:
		return http.StatusUnauthorized
	case launch.KindResolution:
		return http.StatusNotFound
	case launch.KindInFlight:
		return http.StatusConflict
	case launch.KindUpload, launch.KindSubmission:
		return http.StatusBadGateway
	case launch.KindCanceled:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
