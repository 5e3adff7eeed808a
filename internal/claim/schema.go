package claim

import (
	"bytes"
	"encoding/json"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/medbridge/claimflow/internal/common"
)

// BuildSchema returns the JSON Schema the model output must satisfy before a
// record is accepted. Sub-objects are permissive about extra keys since the
// forms vary, but typed fields must carry the right primitive type.
func BuildSchema() map[string]any {
	boolField := map[string]any{"type": []string{"boolean", "null"}}
	strField := map[string]any{"type": []string{"string", "null"}}
	numField := map[string]any{"type": []string{"number", "null"}}

	checkSection := func(props map[string]any) map[string]any {
		return map[string]any{"type": "object", "properties": props}
	}

	serviceEntry := checkSection(map[string]any{
		"code":              strField,
		"description":       strField,
		"additionalCodes":   map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		"nonStandardCode":   strField,
		"serviceType":       strField,
		"status":            strField,
		"requestedQuantity": numField,
		"requestedCost":     numField,
		"grossAmount":       numField,
		"approvedQuantity":  numField,
		"approvedCost":      numField,
		"approvedGross":     numField,
		"note":              strField,
	})

	contents := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"provider": checkSection(map[string]any{
				"providerName":         strField,
				"insuranceCompanyName": strField,
				"patientFileNumber":    strField,
				"dateOfVisit":          strField,
				"single":               boolField,
				"married":              boolField,
				"newVisit":             boolField,
				"followUp":             boolField,
				"refill":               boolField,
				"walkIn":               boolField,
			}),
			"insured": checkSection(map[string]any{
				"insuredName": strField,
				"nationalId":  strField,
				"idCardNo":    strField,
				"policyNo":    strField,
				"class":       strField,
				"payer":       strField,
			}),
			"patient": checkSection(map[string]any{
				"sex":    strField,
				"age":    strField,
				"gender": strField,
			}),
			"visitDetails": checkSection(map[string]any{
				"inpatient":       boolField,
				"outpatient":      boolField,
				"emergencyCase":   boolField,
				"physicianName":   strField,
				"chiefComplaints": strField,
			}),
			"diagnosis": checkSection(map[string]any{
				"diagnosis":     strField,
				"principalCode": strField,
				"secondCode":    strField,
				"thirdCode":     strField,
				"fourthCode":    strField,
				"fifthCode":     strField,
				"sixthCode":     strField,
			}),
			"management": checkSection(map[string]any{
				"chronic":     boolField,
				"congenital":  boolField,
				"rta":         boolField,
				"workRelated": boolField,
				"vaccination": boolField,
				"checkUp":     boolField,
				"psychiatric": boolField,
				"infertility": boolField,
				"pregnancy":   boolField,
			}),
			"suggestedServices": map[string]any{"type": "array", "items": serviceEntry},
			"payerInfo": checkSection(map[string]any{
				"comments": strField,
			}),
			"insuranceApproval": checkSection(map[string]any{
				"approved":    boolField,
				"notApproved": boolField,
				"approvalNo":  strField,
				"comments":    strField,
			}),
		},
		"required": []string{},
	}

	return map[string]any{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type":    "object",
		"properties": map[string]any{
			"file_name":    map[string]any{"type": "string"},
			"topics":       map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"languages":    map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"ocr_contents": contents,
		},
		"required": []string{"file_name", "ocr_contents"},
	}
}

// ValidateJSONAgainstSchema checks raw JSON against a schema document given
// as a plain map.
func ValidateJSONAgainstSchema(data []byte, schema map[string]any) error {
	b, err := json.Marshal(schema)
	if err != nil {
		return common.WrapError(err, "marshal claim schema")
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return common.WrapError(err, "add schema resource")
	}
	sch, err := compiler.Compile("schema.json")
	if err != nil {
		return common.WrapError(err, "compile claim schema")
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return common.NewAppError("INVALID_JSON", "response is not valid JSON", err)
	}
	if err := sch.Validate(v); err != nil {
		return common.NewAppError("SCHEMA_VALIDATION", "claim record failed schema validation", err)
	}
	return nil
}

// ValidateRecord round-trips a record through JSON and validates it against
// the claim schema.
func ValidateRecord(rec *Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return common.WrapError(err, "marshal claim record")
	}
	return ValidateJSONAgainstSchema(data, BuildSchema())
}
