package api

import (
	"net/http"
	"strings"

	apperrors "loan-advisor/internal/common/errors"
	"loan-advisor/internal/common/validation"
	"loan-advisor/internal/loan"
	"loan-advisor/internal/models"
)

type emiRequest struct {
	Principal    float64 `json:"principal"`
	AnnualRate   float64 `json:"annualRate"`
	TenureMonths int     `json:"tenureMonths"`
}

type classifyRequest struct {
	Purpose       string  `json:"purpose"`
	Amount        float64 `json:"amount"`
	HasCollateral bool    `json:"hasCollateral"`
}

func (s *Server) handleEMI(w http.ResponseWriter, r *http.Request) {
	var req emiRequest
	if err := s.decode(r, validation.SchemaEMI, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	emi, err := loan.CalculateEMI(req.Principal, req.AnnualRate, req.TenureMonths)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	total := emi * float64(req.TenureMonths)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"emi":           emi,
		"formatted":     loan.FormatCurrency(emi),
		"totalPayable":  total,
		"totalInterest": total - req.Principal,
	})
}

func (s *Server) decodeProfile(r *http.Request) (models.UserProfile, error) {
	var p models.UserProfile
	if err := s.decode(r, validation.SchemaProfile, &p); err != nil {
		return p, err
	}
	return p, p.Validate()
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	profile, err := s.decodeProfile(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	score, err := loan.Score(profile)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"score": score,
		"tier":  loan.TierFor(score),
	})
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	profile, err := s.decodeProfile(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	rec, err := loan.Recommend(profile)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loan.BuildReport(rec, s.lenders))
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := s.decode(r, validation.SchemaClassify, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	rec := s.classifier.Classify(req.Purpose, req.Amount, req.HasCollateral)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"purpose":   s.classifier.ResolvePurpose(req.Purpose),
		"loanType":  rec.LoanType,
		"subtype":   rec.Subtype,
		"documents": loan.RequiredDocuments(rec.LoanType),
		"lenders":   s.lenders.Lookup(rec.LoanType),
	})
}

func loanTypeParam(r *http.Request) (string, error) {
	loanType := strings.TrimSpace(r.URL.Query().Get("type"))
	if loanType == "" {
		return "", apperrors.NewInvalidArgumentError("query parameter type is required")
	}
	return loanType, nil
}

func (s *Server) handleDocuments(w http.ResponseWriter, r *http.Request) {
	loanType, err := loanTypeParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"loanType":  loanType,
		"documents": loan.RequiredDocuments(loanType),
	})
}

func (s *Server) handleLenders(w http.ResponseWriter, r *http.Request) {
	loanType, err := loanTypeParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"loanType": loanType,
		"lenders":  s.lenders.Lookup(loanType),
	})
}
