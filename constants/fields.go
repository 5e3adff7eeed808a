package constants

// CheckboxFields are the form fields whose OCR text encodes a tick box,
// either as an explicit Yes/No or as parenthesized mark content.
var CheckboxFields = []string{
	"single", "married", "newVisit", "followUp", "refill", "walkIn",
	"inpatient", "outpatient", "emergencyCase", "chronic", "congenital", "rta",
	"workRelated", "vaccination", "checkUp", "psychiatric", "infertility", "pregnancy",
	"approved", "notApproved",
}

// KeyTokens are label words that should be followed by a colon in
// normalized key-value lines.
var KeyTokens = []string{"Name", "ID", "No", "Date", "Status", "Type", "Sex", "Age", "Class"}

// DescriptionNoisePhrases are form-boilerplate strings that mark the end of a
// service description when OCR bleeds neighboring cells into it.
var DescriptionNoisePhrases = []string{
	// provider / staff boilerplate
	"services Providers", "Providers Approval", "Approval/Coding", "Staff must", "review/code",
	"completethe following", "Completed/Coded", "Signature", "Date", "Medication",
	// table headers that are not part of any description
	"Type Req", "Req. Qty", "Req. Cost", "Gross amount", "App. Qty", "App. Cost", "App. Gross", "Note",
	// catch-alls seen on scanned UCAF forms
	"Providers", "Staff", "Generic", "Coded By",
}

// PayerMarkerPhrases flag free-text lines that belong to the payer comment
// block even without an explicit "Payer:" prefix.
var PayerMarkerPhrases = []string{
	"please note", "amount of", "requested services", "do not require",
	"prior approval", "policy's terms", "kindly provide", "necessary medical services",
}

// TableEndMarkers terminate the service-table scan once a start was found.
var TableEndMarkers = []string{"no data to be shown", "in case management", "i hereby"}
