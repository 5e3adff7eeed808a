// Package claim defines the structured claim record extracted from UCAF
// approval forms, the JSON Schema it is validated against, and the assembler
// that merges the language-model baseline with table-decoded services and
// payer commentary.
package claim

// ProviderInfo is the provider header section of the form.
type ProviderInfo struct {
	ProviderName         string `json:"providerName,omitempty"`
	InsuranceCompanyName string `json:"insuranceCompanyName,omitempty"`
	TPACompanyName       string `json:"tpaCompanyName,omitempty"`
	PatientFileNumber    string `json:"patientFileNumber,omitempty"`
	Dept                 string `json:"dept,omitempty"`
	Single               *bool  `json:"single,omitempty"`
	Married              *bool  `json:"married,omitempty"`
	PlanType             string `json:"planType,omitempty"`
	DateOfVisit          string `json:"dateOfVisit,omitempty"`
	NewVisit             *bool  `json:"newVisit,omitempty"`
	FollowUp             *bool  `json:"followUp,omitempty"`
	Refill               *bool  `json:"refill,omitempty"`
	WalkIn               *bool  `json:"walkIn,omitempty"`
	Referral             *bool  `json:"referral,omitempty"`
	ApprovalDateTime     string `json:"approvalDateTime,omitempty"`
	ApprovalValidity     string `json:"approvalValidity,omitempty"`
}

// InsuredInfo covers the insured member section, including approval metadata
// stamped by the payer.
type InsuredInfo struct {
	InsuredName               string `json:"insuredName,omitempty"`
	DocumentID                string `json:"documentId,omitempty"`
	IDCardNo                  string `json:"idCardNo,omitempty"`
	NationalID                string `json:"nationalId,omitempty"`
	PolicyNo                  string `json:"policyNo,omitempty"`
	MemberSince               string `json:"memberSince,omitempty"`
	MemberType                string `json:"memberType,omitempty"`
	ExpiryDate                string `json:"expiryDate,omitempty"`
	PolicyHolder              string `json:"policyHolder,omitempty"`
	Class                     string `json:"class,omitempty"`
	Approval                  string `json:"approval,omitempty"`
	ApprovalReferrenceNumber  string `json:"approvalReferrenceNumber,omitempty"`
	ApprovalStatus            string `json:"approvalStatus,omitempty"`
	ApprovalType              string `json:"approvalType,omitempty"`
	Message                   string `json:"message,omitempty"`
	AdjudicationPayer         string `json:"adjudicationPayer,omitempty"`
	Payer                     string `json:"payer,omitempty"`
}

type PatientInfo struct {
	Sex    string `json:"sex,omitempty"`
	Age    string `json:"age,omitempty"`
	Gender string `json:"gender,omitempty"`
}

// VisitDetails is the attending-physician section.
type VisitDetails struct {
	Inpatient               *bool  `json:"inpatient,omitempty"`
	Outpatient              *bool  `json:"outpatient,omitempty"`
	EmergencyCase           *bool  `json:"emergencyCase,omitempty"`
	EmergencyCareLevel      string `json:"emergencyCareLevel,omitempty"`
	PhysicianName           string `json:"physicianName,omitempty"`
	BP                      string `json:"bp,omitempty"`
	Pulse                   string `json:"pulse,omitempty"`
	Temperature             string `json:"temperature,omitempty"`
	Weight                  string `json:"weight,omitempty"`
	Height                  string `json:"height,omitempty"`
	RR                      string `json:"rr,omitempty"`
	DurationOfIllness       string `json:"durationOfIllness,omitempty"`
	ChiefComplaints         string `json:"chiefComplaints,omitempty"`
	SignificantSigns        string `json:"significantSigns,omitempty"`
	PossibleLineOfTreatment string `json:"possibleLineOfTreatment,omitempty"`
	OtherConditions         string `json:"otherConditions,omitempty"`
}

type DiagnosisInfo struct {
	Diagnosis     string `json:"diagnosis,omitempty"`
	PrincipalCode string `json:"principalCode,omitempty"`
	SecondCode    string `json:"secondCode,omitempty"`
	ThirdCode     string `json:"thirdCode,omitempty"`
	FourthCode    string `json:"fourthCode,omitempty"`
	FifthCode     string `json:"fifthCode,omitempty"`
	SixthCode     string `json:"sixthCode,omitempty"`
}

type ManagementInfo struct {
	Chronic     *bool  `json:"chronic,omitempty"`
	Congenital  *bool  `json:"congenital,omitempty"`
	RTA         *bool  `json:"rta,omitempty"`
	WorkRelated *bool  `json:"workRelated,omitempty"`
	Vaccination *bool  `json:"vaccination,omitempty"`
	CheckUp     *bool  `json:"checkUp,omitempty"`
	Psychiatric *bool  `json:"psychiatric,omitempty"`
	Infertility *bool  `json:"infertility,omitempty"`
	Pregnancy   *bool  `json:"pregnancy,omitempty"`
	IndicateLMP string `json:"indicateLmp,omitempty"`
}

// ServiceEntry is the externally-published shape of one requested service,
// with the long field names the downstream portal expects.
type ServiceEntry struct {
	Code              string   `json:"code"`
	Description       string   `json:"description"`
	AdditionalCodes   []string `json:"additionalCodes"`
	NonStandardCode   string   `json:"nonStandardCode,omitempty"`
	ServiceType       string   `json:"serviceType,omitempty"`
	Status            string   `json:"status,omitempty"`
	RequestedQuantity *float64 `json:"requestedQuantity,omitempty"`
	RequestedCost     *float64 `json:"requestedCost,omitempty"`
	GrossAmount       *float64 `json:"grossAmount,omitempty"`
	ApprovedQuantity  *float64 `json:"approvedQuantity,omitempty"`
	ApprovedCost      *float64 `json:"approvedCost,omitempty"`
	ApprovedGross     *float64 `json:"approvedGross,omitempty"`
	Note              string   `json:"note,omitempty"`
}

type MedicationInfo struct {
	MedicationName string   `json:"medicationName,omitempty"`
	Type           string   `json:"type,omitempty"`
	ReqQty         *float64 `json:"reqQty,omitempty"`
	ReqCost        *float64 `json:"reqCost,omitempty"`
	GrossAmount    *float64 `json:"grossAmount,omitempty"`
	AppQty         *float64 `json:"appQty,omitempty"`
	AppCost        *float64 `json:"appCost,omitempty"`
	AppGross       *float64 `json:"appGross,omitempty"`
	Note           string   `json:"note,omitempty"`
}

type CaseManagementForm struct {
	CaseManagementFormIncluded *bool    `json:"caseManagementFormIncluded,omitempty"`
	PossibleLineOfManagement   string   `json:"possibleLineOfManagement,omitempty"`
	ExpectedDateOfAdmission    string   `json:"expectedDateOfAdmission,omitempty"`
	EstimatedCost              *float64 `json:"estimatedCost,omitempty"`
	EstimatedGross             *float64 `json:"estimatedGross,omitempty"`
	TotalApprovedCost          *float64 `json:"totalApprovedCost,omitempty"`
	EstimatedLengthOfStay      string   `json:"estimatedLengthOfStay,omitempty"`
	ApprovedLengthOfStay       string   `json:"approvedLengthOfStay,omitempty"`
	ProviderComments           string   `json:"providerComments,omitempty"`
}

type CertificationInfo struct {
	PhysicianCertification string `json:"physicianCertification,omitempty"`
	PhysicianSignature     *bool  `json:"physicianSignature,omitempty"`
	PhysicianSignatureDate string `json:"physicianSignatureDate,omitempty"`
	PatientCertification   string `json:"patientCertification,omitempty"`
	PatientSignature       *bool  `json:"patientSignature,omitempty"`
	PatientSignatureDate   string `json:"patientSignatureDate,omitempty"`
	PatientRelationship    string `json:"patientRelationship,omitempty"`
}

type InsuranceApproval struct {
	Approved               *bool  `json:"approved,omitempty"`
	NotApproved            *bool  `json:"notApproved,omitempty"`
	ApprovalNo             string `json:"approvalNo,omitempty"`
	ApprovalValidity       string `json:"approvalValidity,omitempty"`
	Comments               string `json:"comments,omitempty"`
	ApprovedDisapprovedBy  string `json:"approvedDisapprovedBy,omitempty"`
	Signature              string `json:"signature,omitempty"`
	Date                   string `json:"date,omitempty"`
}

// PayerInfo holds free-text payer commentary recovered outside the table.
type PayerInfo struct {
	Comments string `json:"comments,omitempty"`
}

type CompletedByInfo struct {
	ProviderApproval string `json:"providerApproval,omitempty"`
	CompletedCodedBy string `json:"completedCodedBy,omitempty"`
	Signature        string `json:"signature,omitempty"`
	Date             string `json:"date,omitempty"`
}

// FormContent is the full nested claim-form payload.
type FormContent struct {
	Provider           *ProviderInfo       `json:"provider,omitempty"`
	Insured            *InsuredInfo        `json:"insured,omitempty"`
	Patient            *PatientInfo        `json:"patient,omitempty"`
	VisitDetails       *VisitDetails       `json:"visitDetails,omitempty"`
	Diagnosis          *DiagnosisInfo      `json:"diagnosis,omitempty"`
	Management         *ManagementInfo     `json:"management,omitempty"`
	SuggestedServices  []ServiceEntry      `json:"suggestedServices,omitempty"`
	CompletedBy        *CompletedByInfo    `json:"completedBy,omitempty"`
	Medications        []MedicationInfo    `json:"medications,omitempty"`
	CaseManagementForm *CaseManagementForm `json:"caseManagementForm,omitempty"`
	Certification      *CertificationInfo  `json:"certification,omitempty"`
	InsuranceApproval  *InsuranceApproval  `json:"insuranceApproval,omitempty"`
	PayerInfo          *PayerInfo          `json:"payerInfo,omitempty"`
}

// Record is the top-level extraction result persisted per document.
type Record struct {
	FileName            string      `json:"file_name"`
	Topics              []string    `json:"topics,omitempty"`
	Languages           []string    `json:"languages,omitempty"`
	Contents            FormContent `json:"ocr_contents"`
	DocumentType        string      `json:"document_type,omitempty"`
	ConfidenceScore     *float64    `json:"confidence_score,omitempty"`
	ProcessingTime      *float64    `json:"processing_time,omitempty"`
	PageCount           *int        `json:"page_count,omitempty"`
	ExtractedTextLength *int        `json:"extracted_text_length,omitempty"`
}
