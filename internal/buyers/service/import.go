package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"yuvna_backend/internal/buyers/transport"
	"yuvna_backend/platform/apperr"
)

// csv column order: full_name,email,phone,country,goal,budget_band,risk_tolerance,horizon_years
const importColumns = 8

// ImportCSV batch-creates buyers from an agent-uploaded CSV. Rows fail
// individually; one bad row never aborts the batch.
func (s *Service) ImportCSV(ctx context.Context, r io.Reader) (transport.ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return transport.ImportResult{}, apperr.Validation("empty CSV file")
	}
	if err != nil {
		return transport.ImportResult{}, apperr.Validation("unreadable CSV file")
	}
	if !isImportHeader(header) {
		return transport.ImportResult{}, apperr.Validation("unexpected CSV header; expected full_name,email,phone,country,goal,budget_band,risk_tolerance,horizon_years")
	}

	result := transport.ImportResult{}
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, transport.ImportRowError{Line: line, Error: "malformed row"})
			continue
		}

		req, err := importRowToRequest(record)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, transport.ImportRowError{Line: line, Error: err.Error()})
			continue
		}

		if _, err := s.Create(ctx, req); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, transport.ImportRowError{Line: line, Error: importErrorMessage(err)})
			continue
		}
		result.Imported++
	}

	return result, nil
}

func isImportHeader(header []string) bool {
	if len(header) < 2 {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(header[0]), "full_name") &&
		strings.EqualFold(strings.TrimSpace(header[1]), "email")
}

func importRowToRequest(record []string) (transport.CreateBuyerRequest, error) {
	get := func(i int) string {
		if i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}

	req := transport.CreateBuyerRequest{
		FullName:      get(0),
		Email:         get(1),
		Phone:         get(2),
		Country:       get(3),
		Goal:          get(4),
		BudgetBand:    get(5),
		RiskTolerance: get(6),
		Source:        "csv-import",
	}
	if req.FullName == "" {
		return transport.CreateBuyerRequest{}, fmt.Errorf("full_name is required")
	}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return transport.CreateBuyerRequest{}, fmt.Errorf("valid email is required")
	}

	if raw := get(7); raw != "" {
		years, err := strconv.Atoi(raw)
		if err != nil || years < 0 || years > 50 {
			return transport.CreateBuyerRequest{}, fmt.Errorf("horizon_years must be a number between 0 and 50")
		}
		req.HorizonYears = &years
	}
	return req, nil
}

func importErrorMessage(err error) string {
	if appErr, ok := err.(*apperr.Error); ok {
		return appErr.Message
	}
	return "could not create buyer"
}
