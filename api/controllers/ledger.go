package controllers

import (
	"net/http"
	"time"

	"github.com/wiryasaputra/gerai-backend/api/responses"
	"github.com/wiryasaputra/gerai-backend/api/validators"
	paymentsvc "github.com/wiryasaputra/gerai-backend/internal/payments"
	"github.com/wiryasaputra/gerai-backend/pkg/enums"
	pkgerrors "github.com/wiryasaputra/gerai-backend/pkg/errors"
	"github.com/wiryasaputra/gerai-backend/pkg/logger"
)

type ledgerEntryRequest struct {
	Type        string     `json:"type" validate:"required,oneof=income expense"`
	Category    string     `json:"category" validate:"required"`
	Amount      int64      `json:"amount" validate:"required,gt=0"`
	Description *string    `json:"description,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
	Method      string     `json:"method,omitempty"`
}

func PostLedgerEntry(svc *paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload ledgerEntryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Post(r.Context(), paymentsvc.PostInput{
			Type:          enums.EntryType(payload.Type),
			Category:      payload.Category,
			Amount:        payload.Amount,
			Description:   payload.Description,
			Date:          payload.Date,
			PaymentMethod: enums.PaymentMethod(payload.Method),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, record)
	}
}

func ListLedgerEntries(svc *paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := paymentsvc.ListQuery{Category: r.URL.Query().Get("category")}

		if raw := r.URL.Query().Get("type"); raw != "" {
			entryType, err := enums.ParseEntryType(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid type"))
				return
			}
			params.Type = &entryType
		}

		var err error
		if params.From, err = validators.QueryDatePtr(r, "from"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if params.To, err = validators.QueryDatePtr(r, "to"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if params.Limit, err = validators.QueryInt(r, "limit", 0); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if params.Offset, err = validators.QueryInt(r, "offset", 0); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
