// Package report writes the classification and outreach files.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"shopscout-engine/internal/domain"
)

var (
	RowHeader      = []string{"ShopID", "AccountName", "BillingCity", "BillingZip", "Website", "HasWebsite", "DirectOrdering", "Note"}
	OutreachHeader = []string{"ShopID", "AccountName", "EmailSubject", "EmailBody", "SmsBody"}
)

// WriteRows writes the classification report. Booleans are written as
// True/False and absent values as empty fields.
func WriteRows(w io.Writer, rows []domain.Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(RowHeader); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.Shop.ShopID,
			r.Shop.AccountName,
			r.Shop.BillingCity,
			r.Shop.BillingZip,
			r.Website,
			formatBool(r.HasWebsite),
			formatBool(r.DirectOrdering),
			r.Note,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteOutreach(w io.Writer, msgs []domain.Outreach) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(OutreachHeader); err != nil {
		return err
	}
	for _, m := range msgs {
		if err := cw.Write([]string{m.ShopID, m.AccountName, m.Subject, m.Body, m.SMS}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile creates path and hands it to write.
func WriteFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return &domain.OpError{Op: "report.create", Kind: domain.KindOutput, Path: path, Err: err}
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return &domain.OpError{Op: "report.write", Kind: domain.KindOutput, Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &domain.OpError{Op: "report.close", Kind: domain.KindOutput, Path: path, Err: err}
	}
	return nil
}

func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// ParseBool reads a boolean written by WriteRows.
func ParseBool(s string) (bool, error) {
	switch s {
	case "True":
		return true, nil
	case "False":
		return false, nil
	}
	return false, fmt.Errorf("report: not a boolean: %q", s)
}
