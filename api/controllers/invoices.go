package controllers

import (
	"net/http"
	"time"

	"github.com/wiryasaputra/gerai-backend/api/responses"
	"github.com/wiryasaputra/gerai-backend/api/validators"
	invoicesvc "github.com/wiryasaputra/gerai-backend/internal/invoices"
	"github.com/wiryasaputra/gerai-backend/pkg/enums"
	pkgerrors "github.com/wiryasaputra/gerai-backend/pkg/errors"
	"github.com/wiryasaputra/gerai-backend/pkg/logger"
)

type issueInvoiceRequest struct {
	DueDate    *time.Time `json:"due_date,omitempty"`
	Notes      *string    `json:"notes,omitempty"`
	TaxPercent *float64   `json:"tax_percent,omitempty" validate:"omitempty,gte=0"`
}

func IssueInvoice(svc *invoicesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.URLParamUint(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payload := issueInvoiceRequest{}
		if r.ContentLength > 0 {
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		invoice, err := svc.Issue(r.Context(), invoicesvc.IssueInput{
			OrderID:    orderID,
			DueDate:    payload.DueDate,
			Notes:      payload.Notes,
			TaxPercent: payload.TaxPercent,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, invoice)
	}
}

func GetInvoice(svc *invoicesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamUint(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		invoice, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, invoice)
	}
}

func VoidInvoice(svc *invoicesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamUint(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		invoice, err := svc.Void(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, invoice)
	}
}

func ListInvoices(svc *invoicesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := invoicesvc.ListQuery{}

		if raw := r.URL.Query().Get("status"); raw != "" {
			status, err := enums.ParseInvoiceStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
				return
			}
			params.Status = &status
		}

		customerID, err := validators.QueryUintPtr(r, "customer_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params.CustomerID = customerID

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
