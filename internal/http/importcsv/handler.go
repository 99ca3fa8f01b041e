package importcsv

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/centavo/internal/http/middleware"
	"github.com/MrJamesThe3rd/centavo/internal/http/render"
	"github.com/MrJamesThe3rd/centavo/internal/importer"
	"github.com/MrJamesThe3rd/centavo/internal/matching"
	"github.com/MrJamesThe3rd/centavo/internal/metrics"
	"github.com/MrJamesThe3rd/centavo/internal/transaction"
)

const maxUploadSize = 10 << 20

type Handler struct {
	importSvc *importer.Service
	txSvc     *transaction.Service
	matchSvc  *matching.Service
	metrics   *metrics.Metrics
}

func NewHandler(importSvc *importer.Service, txSvc *transaction.Service, matchSvc *matching.Service, m *metrics.Metrics) *Handler {
	return &Handler{
		importSvc: importSvc,
		txSvc:     txSvc,
		matchSvc:  matchSvc,
		metrics:   m,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
	r.Post("/confirm", h.confirmImport)
}

type transactionResponse struct {
	ID             uuid.UUID        `json:"id"`
	Amount         int64            `json:"amount"`
	Type           transaction.Type `json:"type"`
	Category       string           `json:"category,omitempty"`
	Description    string           `json:"description"`
	RawDescription string           `json:"raw_description,omitempty"`
	Date           time.Time        `json:"date"`
	CreatedAt      time.Time        `json:"created_at"`
}

type importSuccessResponse struct {
	Imported     int                   `json:"imported"`
	Transactions []transactionResponse `json:"transactions"`
}

type createParamsDTO struct {
	Amount         int64            `json:"amount"`
	Type           transaction.Type `json:"type"`
	Category       string           `json:"category,omitempty"`
	Description    string           `json:"description"`
	RawDescription string           `json:"raw_description"`
	Date           time.Time        `json:"date"`
}

type conflictDTO struct {
	Incoming createParamsDTO     `json:"incoming"`
	Existing transactionResponse `json:"existing"`
}

type importConflictResponse struct {
	New       []createParamsDTO `json:"new"`
	Conflicts []conflictDTO     `json:"conflicts"`
}

type confirmRequest struct {
	Params []createParamsDTO `json:"params"`
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		render.Error(w, http.StatusBadRequest, "failed to parse form: "+err.Error())
		return
	}

	format := importer.Format(r.FormValue("format"))
	if format == "" {
		format = importer.FormatLedger
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		render.Error(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	params, err := h.importSvc.Import(format, file)
	if err != nil {
		h.metrics.CSVImport("parse_error")
		render.Error(w, http.StatusBadRequest, err.Error())

		return
	}

	// Fill gaps from learned mappings; explicit CSV values win.
	for i, p := range params {
		suggestion, err := h.matchSvc.Suggest(r.Context(), userID, p.RawDescription)
		if err != nil {
			continue
		}

		if params[i].Category == "" && suggestion.Category != "" {
			params[i].Category = suggestion.Category
		}

		if suggestion.Description != "" {
			params[i].Description = suggestion.Description
		}
	}

	result, err := h.txSvc.ImportBatch(r.Context(), userID, params)
	if err != nil {
		h.writeImportError(w, err)
		return
	}

	if len(result.Conflicts) > 0 {
		h.metrics.CSVImport("conflicts")

		resp := importConflictResponse{
			New:       make([]createParamsDTO, 0, len(result.New)),
			Conflicts: make([]conflictDTO, 0, len(result.Conflicts)),
		}

		for _, p := range result.New {
			resp.New = append(resp.New, toParamsDTO(p))
		}

		for _, c := range result.Conflicts {
			resp.Conflicts = append(resp.Conflicts, conflictDTO{
				Incoming: toParamsDTO(c.Incoming),
				Existing: toTxResponse(c.Existing),
			})
		}

		render.JSON(w, http.StatusConflict, resp)

		return
	}

	h.metrics.CSVImport("imported")

	render.JSON(w, http.StatusCreated, toSuccessResponse(result.Imported))
}

func (h *Handler) confirmImport(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Error(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	params := make([]transaction.CreateParams, 0, len(req.Params))
	for _, p := range req.Params {
		params = append(params, transaction.CreateParams{
			Amount:         p.Amount,
			Type:           p.Type,
			Category:       p.Category,
			Description:    p.Description,
			RawDescription: p.RawDescription,
			Date:           p.Date,
		})
	}

	txs, err := h.txSvc.CreateBatch(r.Context(), userID, params)
	if err != nil {
		h.writeImportError(w, err)
		return
	}

	h.metrics.CSVImport("confirmed")

	render.JSON(w, http.StatusCreated, toSuccessResponse(txs))
}

func (h *Handler) writeImportError(w http.ResponseWriter, err error) {
	h.metrics.CSVImport("error")

	switch {
	case errors.Is(err, transaction.ErrDateOutsideWindow):
		render.Error(w, http.StatusUnprocessableEntity, err.Error()+"; a longer window needs a plan upgrade")
	case errors.Is(err, transaction.ErrInvalidAmount),
		errors.Is(err, transaction.ErrInvalidType),
		errors.Is(err, transaction.ErrMissingDate):
		render.Error(w, http.StatusBadRequest, err.Error())
	default:
		render.Error(w, http.StatusInternalServerError, "internal error")
	}
}

func toSuccessResponse(txs []*transaction.Transaction) importSuccessResponse {
	responses := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		responses = append(responses, toTxResponse(tx))
	}

	return importSuccessResponse{
		Imported:     len(txs),
		Transactions: responses,
	}
}

func toTxResponse(tx *transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:             tx.ID,
		Amount:         tx.Amount,
		Type:           tx.Type,
		Category:       tx.Category,
		Description:    tx.Description,
		RawDescription: tx.RawDescription,
		Date:           tx.Date,
		CreatedAt:      tx.CreatedAt,
	}
}

func toParamsDTO(p transaction.CreateParams) createParamsDTO {
	return createParamsDTO{
		Amount:         p.Amount,
		Type:           p.Type,
		Category:       p.Category,
		Description:    p.Description,
		RawDescription: p.RawDescription,
		Date:           p.Date,
	}
}
