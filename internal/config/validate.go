package config

import (
	"fmt"
	"strings"
	"time"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a normalized copy of cfg along with the
// problems found in it.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	trimList := func(xs []string, lower bool) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if lower {
				x = strings.ToLower(x)
			}
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	out.Workbook.Sheets = trimList(out.Workbook.Sheets, false)
	out.Classify.Aggregators = trimList(out.Classify.Aggregators, true)
	out.Places.BaseURL = strings.TrimRight(strings.TrimSpace(out.Places.BaseURL), "/")
	out.Places.Region = strings.TrimSpace(out.Places.Region)
	out.Classify.StripMode = strings.ToLower(strings.TrimSpace(out.Classify.StripMode))
	if out.Classify.StripMode == "" {
		out.Classify.StripMode = StripExact
	}

	cols := make(map[string]string, len(out.Workbook.Columns))
	for src, dst := range out.Workbook.Columns {
		cols[strings.TrimSpace(src)] = strings.TrimSpace(dst)
	}
	out.Workbook.Columns = cols

	if err := Validate(out); err != nil {
		res.addErr("%v", err)
	}

	// ---- Warnings ----

	if len(out.Classify.Aggregators) == 0 {
		res.addWarn("classify.aggregators is empty; every website will count as direct ordering.")
	}
	if out.Places.MinInterval > 0 && out.Places.MinInterval < 50*time.Millisecond {
		res.addWarn("places.min_interval is very low (%s) and may cause rate limits.", out.Places.MinInterval)
	}
	if out.Places.Region == "" {
		res.addWarn("places.region is empty; search queries will be less precise.")
	}
	if out.Classify.StripMode == StripLegacy {
		res.addWarn("classify.strip_mode=legacy trims any leading 'w' or '.' characters from hosts.")
	}

	return out, res
}
