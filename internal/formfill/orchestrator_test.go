package formfill

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medbridge/claimflow/internal/common"
)

// fakeDriver records every interaction and serves a fixed option list for
// any dropdown.
type fakeDriver struct {
	options     []string
	failURLWait int

	navigations []string
	urlWaits    int
	clicks      []string
	fills       map[string]string
	pressed     []string
	typedSlow   []string
	setFiles    []string
}

func newFakeDriver(options []string) *fakeDriver {
	return &fakeDriver{options: options, fills: map[string]string{}}
}

func (f *fakeDriver) Navigate(_ context.Context, url string, _ time.Duration) error {
	f.navigations = append(f.navigations, url)
	return nil
}

func (f *fakeDriver) WaitForURL(_ context.Context, _ string, _ time.Duration) error {
	f.urlWaits++
	if f.urlWaits <= f.failURLWait {
		return errors.New("timed out waiting for url")
	}
	return nil
}

func (f *fakeDriver) Click(_ context.Context, selector string) error {
	f.clicks = append(f.clicks, selector)
	return nil
}

func (f *fakeDriver) ClickAt(_ context.Context, selector string, _, _ float64) error {
	f.clicks = append(f.clicks, selector)
	return nil
}

func (f *fakeDriver) Fill(_ context.Context, selector, text string) error {
	f.fills[selector] = text
	return nil
}

func (f *fakeDriver) TypeSlow(_ context.Context, _ string, text string, _ time.Duration) error {
	f.typedSlow = append(f.typedSlow, text)
	return nil
}

func (f *fakeDriver) Press(_ context.Context, _ string, key string) error {
	f.pressed = append(f.pressed, key)
	return nil
}

func (f *fakeDriver) WaitVisible(context.Context, string, time.Duration) bool { return true }

func (f *fakeDriver) Texts(context.Context, string) ([]string, error) { return f.options, nil }

func (f *fakeDriver) SetInputFiles(_ context.Context, _ string, path string) error {
	f.setFiles = append(f.setFiles, path)
	return nil
}

func (f *fakeDriver) Sleep(context.Context, time.Duration) {}

func (f *fakeDriver) Close() error { return nil }

func testPortal() common.PortalConfig {
	return common.PortalConfig{
		LoginURL:   "https://portal.example/login",
		PanelURL:   "https://portal.example/panel",
		Username:   "reg-user",
		Password:   "secret",
		LoginTries: 3,
	}
}

func TestFieldOrderFullyMapped(t *testing.T) {
	for _, name := range fieldOrder {
		spec, ok := SpecFor(name)
		require.True(t, ok, "field %q has no spec", name)
		assert.Equal(t, name, spec.Name)
	}
	assert.Len(t, fieldSpecs, len(fieldOrder))
}

func TestLoginRetriesThenSucceeds(t *testing.T) {
	drv := newFakeDriver(nil)
	drv.failURLWait = 2
	o := NewOrchestrator(drv, testPortal(), nil, nil)

	require.NoError(t, o.Login(context.Background()))
	assert.Len(t, drv.navigations, 3)
	assert.Equal(t, "reg-user", drv.fills[`//input[@id="username"]`])
	assert.Equal(t, "secret", drv.fills[`//input[@id="password"]`])
}

func TestLoginExhaustsTries(t *testing.T) {
	drv := newFakeDriver(nil)
	drv.failURLWait = 10
	o := NewOrchestrator(drv, testPortal(), nil, nil)

	err := o.Login(context.Background())
	require.Error(t, err)
	assert.Len(t, drv.navigations, 3)
}

func portalOptions() []string {
	return []string{
		"1 - 100 - Tawuniya",
		"ID",
		"Iqama",
		"Saudi",
		"Married",
		"Outpatient",
		"History",
		"CT SCAN - Radiology",
		"120034-CT BRAIN",
	}
}

func TestRunFillsEveryField(t *testing.T) {
	pdf := filepath.Join(t.TempDir(), "a_alghamdi.pdf")
	require.NoError(t, os.WriteFile(pdf, []byte("%PDF-1.4"), 0o644))

	p := Payload{
		FirstName:      "Ahmed",
		MiddleName:     "Saleh",
		LastName:       "Al Ghamdi",
		Gender:         "M",
		DateOfBirth:    "01/01/1990",
		DocumentID:     "1034567890",
		IDType:         "ID",
		MobileNumber:   placeholderMobile,
		Nationality:    "Saudi",
		MaritalStatus:  "Married",
		Modality:       "CT BRAIN WITH CONTRAST",
		Referring:      "King Fahd Hospital",
		VisitType:      "King Fahd Hospital",
		ICD10Codes:     []string{"J02.9"},
		PatientClass:   "Outpatient",
		ChiefComplaint: "Acute pharyngitis",
		CarrierType:    "Tawuniya",
		Carrier:        "Tawuniya",
		PolicyNo:       "POL-9921",
		MembershipNo:   "MEM-4410",
		ApprovalNo:     "APR-2210",
		ServiceDesc:    "CT BRAIN WITH CONTRAST",
		Status:         "Arrived",
		DocumentPath:   pdf,
		DocumentType:   "History",
		PatientValue:   "0.0",
		Notes:          "approved by payer",
	}

	drv := newFakeDriver(portalOptions())
	o := NewOrchestrator(drv, testPortal(), nil, nil)

	unresolved := o.Run(context.Background(), p)
	assert.Zero(t, unresolved)

	assert.Equal(t, "Ahmed", drv.fills[`//input[@id="GName"]`])
	assert.Equal(t, "Saleh", drv.fills[`//input[@id="MName"]`])
	assert.Equal(t, "Al Ghamdi", drv.fills[`//input[@id="FName"]`])
	assert.Equal(t, "1034567890", drv.fills[`//input[@id="SsnNumber"]`])
	assert.Equal(t, placeholderMobile, drv.fills[`//input[@id="PersonalMobileNumber"]`])
	assert.Equal(t, "POL-9921", drv.fills[`//input[@id="MemberName"]`])
	assert.Equal(t, "MEM-4410", drv.fills[`//input[@id="InsuranceNumber"]`])
	assert.Equal(t, "APR-2210", drv.fills[`//input[@id="DocumentNumber"]`])
	assert.Equal(t, "0.0", drv.fills[`//input[@id="visitreg_patientvaluetext"]`])
	assert.Equal(t, "approved by payer", drv.fills[`//textarea[@id="Description"]`])

	// exact-match dropdowns clicked their options
	assert.Contains(t, drv.clicks, "//ul[@id='NationalityId_listbox']/li[text()='Saudi']")
	assert.Contains(t, drv.clicks, "//ul[@id='MaritalStatusId_listbox']/li[text()='Married']")
	assert.Contains(t, drv.clicks, "//ul[@id='IdentityTypeId_listbox']/li[text()='ID']")
	assert.Contains(t, drv.clicks, "//ul[@id='PatientClassID_listbox']/li[text()='Outpatient']")

	// buttons in the submission flow
	assert.Contains(t, drv.clicks, `//*[@id="morepatientcontrolsbtn"]`)
	assert.Contains(t, drv.clicks, `//*[@id="visitreg_addservice"]`)
	assert.Contains(t, drv.clicks, `//*[@id="visitreg_savevisit"]`)

	// diagnosis code typed and the document attached
	assert.Contains(t, drv.typedSlow, "J02.9")
	assert.Equal(t, []string{pdf}, drv.setFiles)
}

func TestRunSkipsEmptyValues(t *testing.T) {
	pdf := filepath.Join(t.TempDir(), "doc.pdf")
	require.NoError(t, os.WriteFile(pdf, []byte("%PDF-1.4"), 0o644))

	drv := newFakeDriver(portalOptions())
	o := NewOrchestrator(drv, testPortal(), nil, nil)

	p := Payload{DocumentPath: pdf, DocumentType: "History"}
	unresolved := o.Run(context.Background(), p)
	assert.Zero(t, unresolved)

	// no value fields were touched, only the buttons and the upload
	assert.Empty(t, drv.fills)
	assert.Contains(t, drv.clicks, `//*[@id="visitreg_savevisit"]`)
	assert.Equal(t, []string{pdf}, drv.setFiles)
}
