// Package workbook reads shop lists out of an .xlsx workbook.
package workbook

import (
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"shopscout-engine/internal/domain"
)

const (
	FieldShopID      = "ShopID"
	FieldAccountName = "AccountName"
	FieldBillingCity = "BillingCity"
	FieldBillingZip  = "BillingZip"
)

var canonical = []string{FieldShopID, FieldAccountName, FieldBillingCity, FieldBillingZip}

type Options struct {
	Sheets  []string          // read in this order; absent sheets are skipped
	Columns map[string]string // source header -> canonical field
}

type Result struct {
	Shops      []domain.Shop
	SheetsRead []string
	Duplicates int // rows dropped because the name was already seen
	Unnamed    int // rows with data but no AccountName
}

type Loader struct {
	opts Options
	log  *zap.Logger
}

func NewLoader(opts Options, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{opts: opts, log: log}
}

// Load merges the configured sheets into one list of shops, unique by
// AccountName, first occurrence wins. It fails with domain.ErrSourceNotFound
// when path is not a readable workbook.
func (l *Loader) Load(path string) (Result, error) {
	var res Result

	f, err := excelize.OpenFile(path)
	if err != nil {
		return res, &domain.OpError{Op: "workbook.load", Kind: domain.KindSourceNotFound, Path: path, Err: err}
	}
	defer f.Close()

	present := map[string]bool{}
	for _, s := range f.GetSheetList() {
		present[s] = true
	}

	seen := map[string]bool{}
	for _, sheet := range l.opts.Sheets {
		if !present[sheet] {
			l.log.Debug("sheet missing, skipped", zap.String("sheet", sheet))
			continue
		}
		rows, err := f.GetRows(sheet)
		if err != nil {
			return res, &domain.OpError{Op: "workbook.read_sheet", Kind: domain.KindSourceNotFound, Path: path, Err: err}
		}
		res.SheetsRead = append(res.SheetsRead, sheet)

		shops, unnamed := l.parseSheet(rows)
		res.Unnamed += unnamed
		for _, s := range shops {
			if seen[s.AccountName] {
				res.Duplicates++
				continue
			}
			seen[s.AccountName] = true
			res.Shops = append(res.Shops, s)
		}
		l.log.Debug("sheet read", zap.String("sheet", sheet), zap.Int("rows", len(shops)))
	}

	l.log.Info("workbook loaded",
		zap.String("path", path),
		zap.Strings("sheets", res.SheetsRead),
		zap.Int("shops", len(res.Shops)),
		zap.Int("duplicates", res.Duplicates),
		zap.Int("unnamed", res.Unnamed))
	return res, nil
}

// parseSheet maps the header row to canonical fields and returns the
// non-empty rows. Rows with data but no name are counted, not returned.
func (l *Loader) parseSheet(rows [][]string) (shops []domain.Shop, unnamed int) {
	if len(rows) == 0 {
		return nil, 0
	}

	idx := l.columnIndex(rows[0])
	if len(idx) == 0 {
		return nil, 0
	}

	cell := func(row []string, field string) string {
		i, ok := idx[field]
		if !ok || i >= len(row) {
			return ""
		}
		return cleanText(row[i])
	}

	for _, row := range rows[1:] {
		s := domain.Shop{
			ShopID:      cell(row, FieldShopID),
			AccountName: cell(row, FieldAccountName),
			BillingCity: cell(row, FieldBillingCity),
			BillingZip:  cell(row, FieldBillingZip),
		}
		if s.IsEmpty() {
			continue
		}
		if s.AccountName == "" {
			unnamed++
			continue
		}
		shops = append(shops, s)
	}
	return shops, unnamed
}

// columnIndex returns canonical field -> column position. Canonical names
// are accepted as headers too. The first matching column wins.
func (l *Loader) columnIndex(header []string) map[string]int {
	idx := map[string]int{}
	for i, h := range header {
		h = strings.TrimSpace(h)
		field, ok := l.opts.Columns[h]
		if !ok {
			for _, c := range canonical {
				if h == c {
					field, ok = c, true
					break
				}
			}
		}
		if !ok {
			continue
		}
		if _, dup := idx[field]; !dup {
			idx[field] = i
		}
	}
	return idx
}

func cleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.Join(strings.Fields(s), " ")
}
