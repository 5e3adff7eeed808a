package llm

import (
	"fmt"
	"strings"
)

// BuildSystemPrompt returns the system message. The rules about Arabic text
// matter: insured names and policy holders are frequently Arabic, and any
// transliteration breaks downstream matching against the portal.
func BuildSystemPrompt() string {
	return strings.Join([]string{
		"You are a medical claim form parser that converts OCR text from UCAF",
		"claim forms to structured JSON. Important guidelines:",
		"- Pay special attention to field types: only use boolean true/false for checkbox fields.",
		"- Use strings for text fields like signatures and names.",
		"- PRESERVE ALL ARABIC TEXT EXACTLY AS IT APPEARS - DO NOT TRANSLATE.",
		"- Keep Arabic text in its original form, especially in fields like Policy Holder.",
		"- Do not transliterate or modify any Arabic text.",
		"- For mixed Arabic/English text, preserve both languages exactly as they appear.",
	}, "\n")
}

// tableInstructions teaches the model the two service-table layouts the
// forms use. The table is decoded separately and merged over the model's
// answer, but a correct baseline still reduces downstream repair work.
const tableInstructions = `
IMPORTANT INSTRUCTIONS:
1. Only convert parentheses to true/false for checkbox fields (single, married, newVisit, inpatient, and similar). For other fields like signature, keep the original text.
2. PRESERVE ALL ARABIC TEXT EXACTLY AS IT APPEARS - DO NOT TRANSLATE:
   - Policy Holder field may contain Arabic text
   - Names may contain Arabic text
   - Any other field may contain Arabic text
3. For fields containing Arabic text keep the exact Arabic characters, do not transliterate to English, and do not modify the text in any way.
4. If a field contains mixed Arabic and English, preserve both exactly as they appear.
5. The suggested services table appears in ONE of TWO formats:
   - If the first header is [code] the headers are: code, nonStandardCode, description, type, totalQuantity, cost, approvedQuantity, approvedCost, status.
   - If the first header is [(code) service] the headers are: codeService, type, reqQty, reqCost, grossAmount, appQty, appCost, appGross, note.
   - In the OCR text all the headers are listed first, followed by all the values consecutively.
   - A single header may appear as two stacked words; combine them into one header:
     [Req.] [Qty] = ReqQty, [App.] [Qty] = AppQty, [Req.] [Cost] = ReqCost,
     [App.] [Cost] = AppCost, [Gross] [Amount] = GrossAmount, [App.] [Gross] = AppGross.
   - The codeService value is a code in parentheses followed by a description. Several (code) description pairs can appear in one value, spanning multiple lines. If the value ends with an incomplete word, its completion may appear after the other values are listed.
6. In the certification section, the name and relationship field refers to the patient or the guardian. Physician name is the first item in that section and may be preceded by Dr.`

// BuildUserPrompt packages the normalized OCR text with the schema
// instructions.
func BuildUserPrompt(req ExtractRequest) string {
	var b strings.Builder
	b.WriteString("Convert the following claim form OCR text to JSON matching the provided schema.")
	if req.PageCount > 1 {
		fmt.Fprintf(&b, " This is page %d of %d of document %s.", req.PageIndex+1, req.PageCount, req.FileName)
	}
	b.WriteString("\n")
	b.WriteString(tableInstructions)
	b.WriteString("\n\nHere's the OCR text:\n\n")
	b.WriteString(req.OCRText)
	return b.String()
}
