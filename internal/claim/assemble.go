package claim

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/medbridge/claimflow/internal/tableparse"
)

var (
	arrayLiteralRe = regexp.MustCompile(`\[(.*?)\]`)
	quotedWordRe   = regexp.MustCompile(`'([^']+)'`)
	strayCharsRe   = regexp.MustCompile(`[\[\]'",]`)
	wsRe           = regexp.MustCompile(`\s+`)

	fenceTailRe = regexp.MustCompile("```.*")
	dateTailRe  = regexp.MustCompile(`\s+Date.*`)
	ruleTailRe  = regexp.MustCompile(`\s+---.*`)

	// OCR splits word endings across line breaks; reattach the common
	// medical-term suffixes.
	suffixRes = buildSuffixRes()
)

type suffixRule struct {
	re     *regexp.Regexp
	suffix string
}

func buildSuffixRes() []suffixRule {
	suffixes := []string{"um", "er", "ing", "ed", "al", "sis", "tion", "phy", "gram"}
	rules := make([]suffixRule, len(suffixes))
	for i, s := range suffixes {
		rules[i] = suffixRule{re: regexp.MustCompile(`(\w+)\s+` + s + `\b`), suffix: s}
	}
	return rules
}

// Assemble merges the three extraction sources into one record: the
// model-produced baseline, the payer commentary, and the table-decoded
// services. Table data is authoritative for suggestedServices and fully
// replaces whatever the model proposed; payer text is appended to any
// existing payerInfo comment rather than overwriting it.
func Assemble(base *Record, payerInfo string, services []tableparse.ServiceRecord, logger *slog.Logger) *Record {
	if logger == nil {
		logger = slog.Default()
	}

	if payerInfo != "" {
		if base.Contents.PayerInfo == nil {
			base.Contents.PayerInfo = &PayerInfo{Comments: payerInfo}
		} else if base.Contents.PayerInfo.Comments != "" {
			base.Contents.PayerInfo.Comments += " " + payerInfo
		} else {
			base.Contents.PayerInfo.Comments = payerInfo
		}
	}

	if len(services) > 0 {
		entries := make([]ServiceEntry, 0, len(services))
		for _, svc := range services {
			entries = append(entries, formatService(svc))
		}
		base.Contents.SuggestedServices = entries
		logger.Debug("claim.assemble.services_replaced", "count", len(entries))
	}
	return base
}

// formatService remaps decoder field names to the published schema names and
// runs the description cleanup pass.
func formatService(svc tableparse.ServiceRecord) ServiceEntry {
	entry := ServiceEntry{
		Code:              svc.Code,
		Description:       CleanServiceDescription(svc.Description),
		AdditionalCodes:   svc.AdditionalCodes,
		NonStandardCode:   svc.NonStandardCode,
		ServiceType:       svc.Type,
		Status:            svc.Status,
		RequestedQuantity: svc.ReqQty,
		RequestedCost:     svc.ReqCost,
		GrossAmount:       svc.GrossAmount,
		ApprovedQuantity:  svc.AppQty,
		ApprovedCost:      svc.AppCost,
		ApprovedGross:     svc.AppGross,
		Note:              svc.Note,
	}
	if entry.AdditionalCodes == nil {
		entry.AdditionalCodes = []string{}
	}
	return entry
}

// CleanServiceDescription strips OCR list-literal noise from a description,
// reattaches suffixes split across line breaks, and truncates trailing form
// artifacts.
func CleanServiceDescription(desc string) string {
	if strings.Contains(desc, "[") && strings.Contains(desc, "]") {
		var words []string
		for _, m := range arrayLiteralRe.FindAllStringSubmatch(desc, -1) {
			for _, w := range quotedWordRe.FindAllStringSubmatch(m[1], -1) {
				words = append(words, w[1])
			}
		}
		if len(words) > 0 {
			desc = strings.Join(words, " ")
		}
	}

	for _, rule := range suffixRes {
		desc = rule.re.ReplaceAllString(desc, "${1}"+rule.suffix)
	}

	desc = strayCharsRe.ReplaceAllString(desc, "")
	desc = wsRe.ReplaceAllString(desc, " ")
	desc = fenceTailRe.ReplaceAllString(desc, "")
	desc = dateTailRe.ReplaceAllString(desc, "")
	desc = ruleTailRe.ReplaceAllString(desc, "")
	return strings.TrimSpace(desc)
}
