package service

import "testing"

func TestImportRowToRequest(t *testing.T) {
	req, err := importRowToRequest([]string{"Omar Farouk", "omar@example.com", "0501112222", "UAE", "investment", "1m-2m", "moderate", "5"})
	if err != nil {
		t.Fatalf("importRowToRequest: %v", err)
	}
	if req.FullName != "Omar Farouk" || req.Email != "omar@example.com" {
		t.Fatalf("identity fields: %+v", req)
	}
	if req.HorizonYears == nil || *req.HorizonYears != 5 {
		t.Fatalf("horizon = %v", req.HorizonYears)
	}
	if req.Source != "csv-import" {
		t.Fatalf("source = %q", req.Source)
	}
}

func TestImportRowToRequestShortRow(t *testing.T) {
	req, err := importRowToRequest([]string{"Lena", "lena@example.com"})
	if err != nil {
		t.Fatalf("short row should import with defaults: %v", err)
	}
	if req.Goal != "" || req.HorizonYears != nil {
		t.Fatalf("missing columns should stay empty: %+v", req)
	}
}

func TestImportRowToRequestRejectsBadRows(t *testing.T) {
	cases := []struct {
		name string
		row  []string
	}{
		{"missing name", []string{"", "x@y.com"}},
		{"missing email", []string{"Name", ""}},
		{"bad email", []string{"Name", "not-an-email"}},
		{"bad horizon", []string{"Name", "x@y.com", "", "", "", "", "", "forever"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := importRowToRequest(tc.row); err == nil {
				t.Fatalf("row %v accepted", tc.row)
			}
		})
	}
}

func TestIsImportHeader(t *testing.T) {
	if !isImportHeader([]string{"full_name", "email", "phone"}) {
		t.Fatal("valid header rejected")
	}
	if !isImportHeader([]string{" Full_Name ", "EMAIL"}) {
		t.Fatal("header match should be case-insensitive")
	}
	if isImportHeader([]string{"name", "email"}) {
		t.Fatal("wrong first column accepted")
	}
}
