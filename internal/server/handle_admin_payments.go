package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/itinera/console/internal/itinera"
)

// PaymentView adds the absolute proof URL and the admin commission split to
// a payment record.
type PaymentView struct {
	itinera.Payment
	ProofURL   string            `json:"proofUrl,omitempty"`
	Commission CommissionSummary `json:"commission"`
}

func paymentView(upstream Upstream, p itinera.Payment) PaymentView {
	v := PaymentView{
		Payment:    p,
		Commission: summarizeCommission(p.Amount, adminCommissionRate),
	}
	if p.ProofPath != "" {
		v.ProofURL = upstream.FileURL(p.ProofPath)
	}
	return v
}

func paymentID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "paymentID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "payment id must be a number")
		return 0, false
	}
	return id, true
}

// handlePayment shows one payment for review, proof included.
func handlePayment(upstream Upstream) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := paymentID(w, r)
		if !ok {
			return
		}
		p, err := upstream.Payment(r.Context(), tokenFrom(r), id)
		if err != nil {
			writeUpstreamError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, paymentView(upstream, p))
	}
}

// handleApprovePayment and handleDeclinePayment forward the admin's verdict
// upstream. Neither is retried; a failed verdict is surfaced as-is.
func handleApprovePayment(upstream Upstream) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := paymentID(w, r)
		if !ok {
			return
		}
		p, err := upstream.ApprovePayment(r.Context(), tokenFrom(r), id)
		if err != nil {
			writeUpstreamError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, paymentView(upstream, p))
	}
}

func handleDeclinePayment(upstream Upstream) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := paymentID(w, r)
		if !ok {
			return
		}
		p, err := upstream.DeclinePayment(r.Context(), tokenFrom(r), id)
		if err != nil {
			writeUpstreamError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, paymentView(upstream, p))
	}
}
