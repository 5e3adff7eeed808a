// Package tableparse locates and decodes the requested-services table inside
// normalized OCR text. Scanned claim forms come in two layouts: FORMAT_A
// prints each service as a parenthesized code with description and a column
// of bare numbers, FORMAT_B prints a header row followed by cell-per-line
// values. The segmenter scores the text for both and the decoders fall back
// between strategies until one yields records.
package tableparse

// TableFormat identifies the service-table layout detected in a document.
type TableFormat string

const (
	FormatA TableFormat = "FORMAT_A"
	FormatB TableFormat = "FORMAT_B"
)

// ServiceRecord is one decoded row of the requested-services table. Numeric
// fields are pointers so an absent or unreadable cell stays distinguishable
// from zero.
type ServiceRecord struct {
	Code            string   `json:"code,omitempty"`
	AdditionalCodes []string `json:"additionalCodes,omitempty"`
	NonStandardCode string   `json:"nonStandardCode,omitempty"`
	Description     string   `json:"description,omitempty"`
	Type            string   `json:"type,omitempty"`
	Status          string   `json:"status,omitempty"`
	ReqQty      *float64 `json:"reqQty,omitempty"`
	ReqCost     *float64 `json:"reqCost,omitempty"`
	GrossAmount *float64 `json:"grossAmount,omitempty"`
	AppQty      *float64 `json:"appQty,omitempty"`
	AppCost     *float64 `json:"appCost,omitempty"`
	AppGross    *float64 `json:"appGross,omitempty"`
	Note        string   `json:"note,omitempty"`
}

// fieldOrder is the positional assignment order for bare numeric lines in
// FORMAT_A chunks and the cyclic field cycle in FORMAT_B.
var fieldOrder = []string{"reqQty", "reqCost", "grossAmount", "appQty", "appCost", "appGross", "note"}

// setField assigns a named field on the record. Numeric fields take the
// parsed value; string fields take the raw text.
func (r *ServiceRecord) setField(name, raw string, num *float64) {
	switch name {
	case "code":
		r.Code = raw
	case "description":
		r.Description = raw
	case "type":
		r.Type = raw
	case "status":
		r.Status = raw
	case "nonStandardCode":
		r.NonStandardCode = raw
	case "note":
		r.Note = raw
	case "reqQty":
		r.ReqQty = num
	case "reqCost":
		r.ReqCost = num
	case "grossAmount":
		r.GrossAmount = num
	case "appQty":
		r.AppQty = num
	case "appCost":
		r.AppCost = num
	case "appGross":
		r.AppGross = num
	}
}

// isNumericField reports whether the named field expects a parsed number.
func isNumericField(name string) bool {
	switch name {
	case "reqQty", "reqCost", "grossAmount", "appQty", "appCost", "appGross":
		return true
	}
	return false
}
