package formfill

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/medbridge/claimflow/internal/claim"
)

// Payload carries the portal-ready values derived from a claim record.
type Payload struct {
	FirstName      string
	MiddleName     string
	LastName       string
	Gender         string
	DateOfBirth    string
	DocumentID     string
	IDType         string
	MobileNumber   string
	Nationality    string
	MaritalStatus  string
	Modality       string
	Referring      string
	VisitType      string
	ICD10Codes     []string
	PatientClass   string
	ChiefComplaint string
	CarrierType    string
	Carrier        string
	PolicyNo       string
	MembershipNo   string
	ApprovalNo     string
	ServiceDesc    string
	Status         string
	DocumentPath   string
	DocumentType   string
	PatientValue   string
	Notes          string
}

const (
	defaultVisitYear = 2025
	// the portal requires a mobile number; scanned forms never carry one
	placeholderMobile = "9876543210"
)

// BuildPayload derives every form value from an assembled record. Missing
// source fields degrade to empty values, never errors; the orchestrator skips
// empties with a warning.
func BuildPayload(rec *claim.Record, pdfPath string) Payload {
	c := rec.Contents

	var insuredName, nationalID, policyNo, membershipNo, approvalNo string
	if c.Insured != nil {
		insuredName = c.Insured.InsuredName
		nationalID = c.Insured.NationalID
		policyNo = c.Insured.PolicyNo
		membershipNo = c.Insured.IDCardNo
		approvalNo = c.Insured.ApprovalReferrenceNumber
	}
	first, middle, last := SplitName(insuredName)

	var sex, age string
	if c.Patient != nil {
		sex = c.Patient.Sex
		if sex == "" {
			sex = c.Patient.Gender
		}
		age = c.Patient.Age
	}

	var visitDate, providerName, insuranceCompany string
	var single, married *bool
	if c.Provider != nil {
		visitDate = c.Provider.DateOfVisit
		providerName = c.Provider.ProviderName
		insuranceCompany = c.Provider.InsuranceCompanyName
		single = c.Provider.Single
		married = c.Provider.Married
	}

	serviceText := ""
	if len(c.SuggestedServices) > 0 {
		svc := c.SuggestedServices[0]
		serviceText = strings.TrimSpace(strings.TrimSpace(svc.Description) + " " + strings.TrimSpace(svc.Note))
	}

	var chiefComplaint string
	var inpatient, outpatient *bool
	if c.VisitDetails != nil {
		chiefComplaint = c.VisitDetails.ChiefComplaints
		inpatient = c.VisitDetails.Inpatient
		outpatient = c.VisitDetails.Outpatient
	}

	var notes string
	if c.PayerInfo != nil {
		notes = c.PayerInfo.Comments
	}

	referral := CleanReferralName(providerName)

	return Payload{
		FirstName:      first,
		MiddleName:     middle,
		LastName:       last,
		Gender:         GenderCode(sex),
		DateOfBirth:    DateOfBirth(visitDate, ParseAge(age)),
		DocumentID:     nationalID,
		IDType:         IDTypeFor(nationalID),
		MobileNumber:   placeholderMobile,
		Nationality:    NationalityFor(nationalID),
		MaritalStatus:  MaritalStatus(single, married),
		Modality:       serviceText,
		Referring:      referral,
		VisitType:      referral,
		ICD10Codes:     ICDCodes(c.Diagnosis),
		PatientClass:   PatientClass(inpatient, outpatient),
		ChiefComplaint: CleanChiefComplaint(chiefComplaint),
		CarrierType:    insuranceCompany,
		Carrier:        insuranceCompany,
		PolicyNo:       policyNo,
		MembershipNo:   membershipNo,
		ApprovalNo:     approvalNo,
		ServiceDesc:    serviceText,
		Status:         "Arrived",
		DocumentPath:   pdfPath,
		DocumentType:   "History",
		PatientValue:   "0.0",
		Notes:          notes,
	}
}

// SplitName breaks a full name into first, middle, and last parts. Two-word
// names have no middle; everything beyond the second word joins the surname.
func SplitName(full string) (first, middle, last string) {
	words := strings.Fields(full)
	switch {
	case len(words) == 0:
		return "", "", ""
	case len(words) == 1:
		return words[0], "", ""
	case len(words) == 2:
		return words[0], "", words[1]
	default:
		return words[0], words[1], strings.Join(words[2:], " ")
	}
}

// GenderCode maps a form sex value to the portal's single-letter code.
func GenderCode(sex string) string {
	switch strings.ToLower(strings.TrimSpace(sex)) {
	case "male":
		return "M"
	case "female":
		return "F"
	default:
		return "O"
	}
}

// ParseAge reads a numeric age out of text like "34 years old".
func ParseAge(raw string) int {
	s := strings.ToLower(strings.TrimSpace(raw))
	for _, suffix := range []string{"years old", "years", "year"} {
		s = strings.TrimSpace(strings.ReplaceAll(s, suffix, ""))
	}
	age, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return age
}

var visitDateLayouts = []string{
	"02/01/2006 03:04:05 PM",
	"2006-01-02",
	"02-01-2006 03:04 PM",
	"02/01/2006",
}

// VisitYear parses the visit date in the handful of formats the forms use.
func VisitYear(raw string) int {
	for _, layout := range visitDateLayouts {
		if t, err := time.Parse(layout, strings.TrimSpace(raw)); err == nil {
			return t.Year()
		}
	}
	return defaultVisitYear
}

// DateOfBirth estimates a birth date from visit year and age. Forms carry no
// birth date, so January first of the computed year stands in.
func DateOfBirth(visitDate string, age int) string {
	year := VisitYear(visitDate)
	if age > 0 {
		year -= age
	}
	return fmt.Sprintf("01/01/%d", year)
}

// NationalityFor infers nationality from the national ID prefix: Saudi IDs
// start with 1, Iqama numbers with 2.
func NationalityFor(nationalID string) string {
	switch {
	case strings.HasPrefix(nationalID, "1"):
		return "Saudi"
	case strings.HasPrefix(nationalID, "2"):
		return "Foreigner"
	default:
		return ""
	}
}

// IDTypeFor picks the matching identity document type.
func IDTypeFor(nationalID string) string {
	switch {
	case strings.HasPrefix(nationalID, "1"):
		return "ID"
	case strings.HasPrefix(nationalID, "2"):
		return "Iqama"
	default:
		return ""
	}
}

// MaritalStatus resolves the checkbox pair, married winning when both are
// somehow ticked.
func MaritalStatus(single, married *bool) string {
	switch {
	case married != nil && *married:
		return "Married"
	case single != nil && *single:
		return "Single"
	default:
		return "Unknown"
	}
}

// PatientClass maps the visit checkboxes to the portal's class list.
func PatientClass(inpatient, outpatient *bool) string {
	switch {
	case outpatient != nil && *outpatient:
		return "Outpatient"
	case inpatient != nil && *inpatient:
		return "Inpatient"
	default:
		return "Unknown"
	}
}

// ICDCodes collects the up-to-six diagnosis codes in order, skipping blanks.
func ICDCodes(d *claim.DiagnosisInfo) []string {
	if d == nil {
		return nil
	}
	var codes []string
	for _, code := range []string{
		d.PrincipalCode, d.SecondCode, d.ThirdCode, d.FourthCode, d.FifthCode, d.SixthCode,
	} {
		if code != "" {
			codes = append(codes, code)
		}
	}
	return codes
}

// CleanReferralName removes digits and separator punctuation from a provider
// name so it can be typed into the referring dropdown.
func CleanReferralName(providerName string) string {
	if providerName == "" {
		return ""
	}
	s := strings.NewReplacer("-", " ", ",", " ").Replace(providerName)
	var kept []string
	for _, word := range strings.Fields(s) {
		if _, err := strconv.Atoi(word); err != nil {
			kept = append(kept, word)
		}
	}
	return strings.Join(kept, " ")
}

// CleanChiefComplaint strips ICD-style code prefixes from each " - "
// separated segment of a complaint, keeping the descriptive text.
func CleanChiefComplaint(raw string) string {
	if raw == "" {
		return ""
	}
	var cleaned []string
	for _, part := range strings.Split(raw, " - ") {
		part = strings.Trim(part, "()")
		if i := strings.Index(part, "-"); i > 0 && isCodeToken(part[:i]) {
			cleaned = append(cleaned, strings.TrimSpace(part[i+1:]))
		} else {
			cleaned = append(cleaned, strings.TrimSpace(part))
		}
	}
	return strings.Join(cleaned, " ")
}

// isCodeToken reports whether text before a hyphen looks like a diagnosis
// code rather than a word of the complaint.
func isCodeToken(s string) bool {
	s = strings.ReplaceAll(strings.TrimSpace(s), ".", "")
	if s == "" {
		return false
	}
	hasDigit := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
		default:
			return false
		}
	}
	return hasDigit
}
