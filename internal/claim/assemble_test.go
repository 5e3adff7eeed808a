package claim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medbridge/claimflow/internal/tableparse"
)

func f64(v float64) *float64 { return &v }

func TestAssembleReplacesServices(t *testing.T) {
	base := &Record{
		FileName: "claim.pdf",
		Contents: FormContent{
			SuggestedServices: []ServiceEntry{{Code: "model-guess", Description: "wrong"}},
		},
	}
	services := []tableparse.ServiceRecord{
		{Code: "73510-00-00", Description: "Hip X-ray", Type: "Imaging", ReqQty: f64(1), ReqCost: f64(150.5)},
	}

	out := Assemble(base, "", services, nil)
	require.Len(t, out.Contents.SuggestedServices, 1)
	got := out.Contents.SuggestedServices[0]
	assert.Equal(t, "73510-00-00", got.Code)
	assert.Equal(t, "Imaging", got.ServiceType)
	require.NotNil(t, got.RequestedQuantity)
	assert.Equal(t, 1.0, *got.RequestedQuantity)
	require.NotNil(t, got.RequestedCost)
	assert.Equal(t, 150.5, *got.RequestedCost)
}

func TestAssembleKeepsModelServicesWhenTableEmpty(t *testing.T) {
	base := &Record{
		Contents: FormContent{
			SuggestedServices: []ServiceEntry{{Code: "model-guess"}},
		},
	}
	out := Assemble(base, "", nil, nil)
	require.Len(t, out.Contents.SuggestedServices, 1)
	assert.Equal(t, "model-guess", out.Contents.SuggestedServices[0].Code)
}

func TestAssembleAppendsPayerComments(t *testing.T) {
	base := &Record{
		Contents: FormContent{PayerInfo: &PayerInfo{Comments: "existing"}},
	}
	out := Assemble(base, "please note approval required", nil, nil)
	assert.Equal(t, "existing please note approval required", out.Contents.PayerInfo.Comments)
}

func TestAssembleCreatesPayerInfo(t *testing.T) {
	out := Assemble(&Record{}, "Bupa Arabia", nil, nil)
	require.NotNil(t, out.Contents.PayerInfo)
	assert.Equal(t, "Bupa Arabia", out.Contents.PayerInfo.Comments)
}

func TestCleanServiceDescriptionArrayLiteral(t *testing.T) {
	got := CleanServiceDescription("['MRI' 'brain' 'with' 'contrast']")
	assert.Equal(t, "MRI brain with contrast", got)
}

func TestCleanServiceDescriptionSuffixReattachment(t *testing.T) {
	assert.Equal(t, "stenosis", CleanServiceDescription("steno sis"))
	assert.Equal(t, "computerised", CleanServiceDescription("computeris ed"))
	assert.Equal(t, "mammogram", CleanServiceDescription("mammo gram"))
	assert.Equal(t, "tomography", CleanServiceDescription("tomogra phy"))
}

func TestCleanServiceDescriptionTrailingArtifacts(t *testing.T) {
	assert.Equal(t, "CT head", CleanServiceDescription("CT head ``` leftover"))
	assert.Equal(t, "CT head", CleanServiceDescription("CT head Date 2024-01-01"))
	assert.Equal(t, "CT head", CleanServiceDescription("CT head --- rule"))
}

func TestCleanServiceDescriptionWhitespace(t *testing.T) {
	assert.Equal(t, "a b c", CleanServiceDescription("a   b \t c"))
}

func TestValidateRecord(t *testing.T) {
	rec := &Record{
		FileName: "claim.pdf",
		Contents: FormContent{
			Patient: &PatientInfo{Sex: "M", Age: "34"},
			SuggestedServices: []ServiceEntry{
				{Code: "1", Description: "CT head", AdditionalCodes: []string{}, RequestedCost: f64(300)},
			},
		},
	}
	assert.NoError(t, ValidateRecord(rec))
}

func TestValidateJSONAgainstSchemaRejectsWrongType(t *testing.T) {
	bad := []byte(`{"file_name": 42, "ocr_contents": {}}`)
	assert.Error(t, ValidateJSONAgainstSchema(bad, BuildSchema()))
}

func TestValidateJSONAgainstSchemaRejectsMissingRequired(t *testing.T) {
	assert.Error(t, ValidateJSONAgainstSchema([]byte(`{}`), BuildSchema()))
}
