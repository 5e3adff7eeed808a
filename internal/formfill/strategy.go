// Package formfill drives the portal's patient registration form from an
// assembled claim record. Every form field is declared once in a static
// field table carrying its locators and interaction strategy; the
// orchestrator walks the table in submission order.
package formfill

import (
	"time"

	"github.com/medbridge/claimflow/internal/match"
)

// StrategyKind is the closed set of ways a field can be written. The
// orchestrator switches over it exhaustively; adding a member means teaching
// the switch about it.
type StrategyKind int

const (
	// StrategyFill writes plain text into an input.
	StrategyFill StrategyKind = iota
	// StrategyClick presses a button, no value involved.
	StrategyClick
	// StrategyTypeEnter types into a combo box and submits with Enter.
	StrategyTypeEnter
	// StrategyArrowSelect opens the list via its arrow and clicks an
	// exactly-matching option.
	StrategyArrowSelect
	// StrategyDropdown runs the fuzzy dropdown resolver.
	StrategyDropdown
	// StrategyModality runs the word-match modality resolver.
	StrategyModality
	// StrategyServiceDesc runs the service-description resolver with its
	// acronym fast path.
	StrategyServiceDesc
	// StrategyDateOfBirth types a date into a three-segment picker.
	StrategyDateOfBirth
	// StrategyICDCodes enters diagnosis codes one at a time, confirming
	// each with Enter.
	StrategyICDCodes
	// StrategyIdentity sets the ID-type dropdown then fills the document
	// number.
	StrategyIdentity
	// StrategyUpload walks the document upload dialog.
	StrategyUpload
)

// FieldSpec declares how one logical field maps onto the page.
type FieldSpec struct {
	Name     string
	Strategy StrategyKind

	// Input is the main input/button locator; Fallback a second chance.
	Input    string
	Fallback string
	// Arrow and ListID locate the dropdown widgets for list strategies.
	Arrow  string
	ListID string
	// Kind selects the resolver profile for StrategyDropdown.
	Kind match.Kind

	// Extra locators for the composite strategies.
	SecondInput    string
	SecondFallback string

	// PostWait is an extra settle pause after the field is processed.
	PostWait time.Duration
}

// fieldSpecs is every field the filler knows, keyed by name. Order of
// submission lives in fieldOrder below.
var fieldSpecs = map[string]FieldSpec{
	"first_name": {
		Name: "first_name", Strategy: StrategyFill,
		Input: `//input[@id="GName"]`, Fallback: `//input[@name="GName"]`,
	},
	"middle_name": {
		Name: "middle_name", Strategy: StrategyFill,
		Input: `//input[@id="MName"]`, Fallback: `//input[@name="MName"]`,
	},
	"last_name": {
		Name: "last_name", Strategy: StrategyFill,
		Input: `//input[@id="FName"]`, Fallback: `//input[@name="FName"]`,
	},
	"gender": {
		Name: "gender", Strategy: StrategyTypeEnter,
		Input: `//input[@name="GenderId_input"]`,
	},
	"dob": {
		Name: "dob", Strategy: StrategyDateOfBirth,
		Input: `//input[@id="DateTimeOfBirth"]`,
	},
	"identity": {
		Name: "identity", Strategy: StrategyIdentity,
		Arrow:  `//span[@aria-controls='IdentityTypeId_listbox']`,
		ListID: "IdentityTypeId_listbox",
		SecondInput:    `//input[@id="SsnNumber"]`,
		SecondFallback: `//input[@name="SsnNumber"]`,
	},
	"mobile_number": {
		Name: "mobile_number", Strategy: StrategyFill,
		Input: `//input[@id="PersonalMobileNumber"]`, Fallback: `//input[@name="PersonalMobileNumber"]`,
	},
	"nationality": {
		Name: "nationality", Strategy: StrategyArrowSelect,
		Arrow: `//span[@aria-controls='NationalityId_listbox']`, ListID: "NationalityId_listbox",
	},
	"more_patient_controls": {
		Name: "more_patient_controls", Strategy: StrategyClick,
		Input: `//*[@id="morepatientcontrolsbtn"]`, Fallback: `//button[contains(text(), "More Patient Controls")]`,
	},
	"marital_status": {
		Name: "marital_status", Strategy: StrategyArrowSelect,
		Arrow: `//span[@aria-controls='MaritalStatusId_listbox']`, ListID: "MaritalStatusId_listbox",
	},
	"modality": {
		Name: "modality", Strategy: StrategyModality,
		Arrow:  `//span[@aria-controls='VisitLocationID_listbox']`,
		Input:  `//input[@aria-owns="VisitLocationID_listbox"]`,
		ListID: "VisitLocationID_listbox",
	},
	"referring": {
		Name: "referring", Strategy: StrategyDropdown, Kind: match.KindReferring,
		Input: `//input[@name="Referring_input"]`, ListID: "Referring_listbox",
		PostWait: 1500 * time.Millisecond,
	},
	"visit_type": {
		Name: "visit_type", Strategy: StrategyDropdown, Kind: match.KindVisitType,
		Input: `//input[@aria-owns="VisitAdmissionTypeID_listbox"]`, ListID: "VisitAdmissionTypeID_listbox",
		PostWait: 1500 * time.Millisecond,
	},
	"icd10_codes": {
		Name: "icd10_codes", Strategy: StrategyICDCodes,
		Input: `//input[@aria-controls="Icd10_listbox"]`,
	},
	"more_visit_info": {
		Name: "more_visit_info", Strategy: StrategyClick,
		Input: `//*[@id="visitreg_morevisitinfobtn"]`, Fallback: `//a[contains(text(), "Hide")]`,
	},
	"patient_class": {
		Name: "patient_class", Strategy: StrategyArrowSelect,
		Arrow: `//span[@aria-controls='PatientClassID_listbox']`, ListID: "PatientClassID_listbox",
	},
	"chief_complaint": {
		Name: "chief_complaint", Strategy: StrategyTypeEnter,
		Input: `//input[@aria-owns="chiefcomplaint_listbox"]`,
	},
	"carrier_type": {
		Name: "carrier_type", Strategy: StrategyDropdown, Kind: match.KindCarrierType,
		Input: `//input[@name="OrganizationId_input"]`, ListID: "OrganizationId_listbox",
		Arrow:    `//span[@aria-controls='OrganizationId_listbox']`,
		PostWait: 3300 * time.Millisecond,
	},
	"carrier": {
		Name: "carrier", Strategy: StrategyDropdown, Kind: match.KindCarrier,
		Input: `//input[@name="ContractId_input"]`, ListID: "ContractId_listbox",
		Arrow:    `//span[@aria-controls='ContractId_listbox']`,
		PostWait: 1500 * time.Millisecond,
	},
	"policy_no": {
		Name: "policy_no", Strategy: StrategyFill,
		Input: `//input[@id="MemberName"]`, Fallback: `//input[@name="MemberName"]`,
	},
	"membership_no": {
		Name: "membership_no", Strategy: StrategyFill,
		Input: `//input[@id="InsuranceNumber"]`, Fallback: `//input[@name="InsuranceNumber"]`,
	},
	"approval_no": {
		Name: "approval_no", Strategy: StrategyFill,
		Input: `//input[@id="DocumentNumber"]`, Fallback: `//input[@name="DocumentNumber"]`,
	},
	"service_desc": {
		Name: "service_desc", Strategy: StrategyServiceDesc,
		Arrow:  `//span[@aria-controls='ServiceNameId_listbox']`,
		Input:  `//input[@aria-owns="ServiceNameId_listbox"]`,
		ListID: "ServiceNameId_listbox",
	},
	"status": {
		Name: "status", Strategy: StrategyTypeEnter,
		Input: `//input[@aria-owns='ServiceStatus_listbox']`,
	},
	"upload_document": {
		Name: "upload_document", Strategy: StrategyUpload,
		Input: `//button[@id="uploadDocsForService"]`,
	},
	"patient_value": {
		Name: "patient_value", Strategy: StrategyFill,
		Input: `//input[@id="visitreg_patientvaluetext"]`, Fallback: `//input[@name="visitreg_patientvaluetext"]`,
	},
	"more_services_info": {
		Name: "more_services_info", Strategy: StrategyClick,
		Input: `//*[@id="visitreg_moreserviceinfobtn"]`, Fallback: `//button[contains(text(), "More")]`,
	},
	"notes_additional": {
		Name: "notes_additional", Strategy: StrategyFill,
		Input: `//textarea[@id="Description"]`,
	},
	"add_service": {
		Name: "add_service", Strategy: StrategyClick,
		Input: `//*[@id="visitreg_addservice"]`, Fallback: `//button[contains(text(), "Add Service")]`,
	},
	"save": {
		Name: "save", Strategy: StrategyClick,
		Input: `//*[@id="visitreg_savevisit"]`, Fallback: `//button[contains(text(), "Save")]`,
	},
}

// fieldOrder is the submission sequence. It matters: later widgets only
// exist after the expander buttons earlier in the list were clicked.
var fieldOrder = []string{
	"first_name",
	"middle_name",
	"last_name",
	"gender",
	"dob",
	"identity",
	"mobile_number",
	"nationality",
	"more_patient_controls",
	"marital_status",
	"modality",
	"referring",
	"visit_type",
	"icd10_codes",
	"more_visit_info",
	"patient_class",
	"chief_complaint",
	"carrier_type",
	"carrier",
	"policy_no",
	"membership_no",
	"approval_no",
	"service_desc",
	"status",
	"upload_document",
	"patient_value",
	"more_services_info",
	"notes_additional",
	"add_service",
	"save",
}

// SpecFor looks up a field declaration by name.
func SpecFor(name string) (FieldSpec, bool) {
	spec, ok := fieldSpecs[name]
	return spec, ok
}
