package formfill

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/medbridge/claimflow/internal/browser"
	"github.com/medbridge/claimflow/internal/common"
)

const (
	keystrokeDelay = 200 * time.Millisecond
	segmentSettle  = 2 * time.Second
)

// setDateOfBirth types a MM/DD/YYYY date into the portal's segmented date
// picker. Each segment needs its own click at a horizontal offset because
// the widget is one input with three internal cursors.
func setDateOfBirth(ctx context.Context, drv browser.Driver, spec FieldSpec, date string) error {
	t, err := time.Parse("01/02/2006", date)
	if err != nil {
		return common.WrapError(err, "parse date of birth")
	}
	segments := []struct {
		offset float64
		text   string
	}{
		{5, fmt.Sprintf("%02d", int(t.Month()))},
		{30, fmt.Sprintf("%02d", t.Day())},
		{60, fmt.Sprintf("%d", t.Year())},
	}

	if err := drv.Click(ctx, spec.Input); err != nil {
		return common.WrapError(err, "focus date of birth")
	}
	drv.Sleep(ctx, segmentSettle)

	for _, seg := range segments {
		if err := drv.ClickAt(ctx, spec.Input, seg.offset, 5); err != nil {
			return common.WrapError(err, "select date segment")
		}
		drv.Sleep(ctx, segmentSettle)
		if err := drv.TypeSlow(ctx, spec.Input, seg.text, keystrokeDelay); err != nil {
			return common.WrapError(err, "type date segment")
		}
		drv.Sleep(ctx, segmentSettle)
	}
	return nil
}

// inputICDCodes types diagnosis codes one at a time, trimming descriptive
// tails, and confirms each with Enter so the widget registers it as a chip.
func inputICDCodes(ctx context.Context, drv browser.Driver, spec FieldSpec, codes []string) error {
	if err := drv.Click(ctx, spec.Input); err != nil {
		return common.WrapError(err, "focus diagnosis input")
	}
	drv.Sleep(ctx, time.Second)

	for _, code := range codes {
		code = strings.TrimSpace(strings.SplitN(code, "-", 2)[0])
		if i := strings.Index(code, " "); i >= 0 {
			code = strings.TrimSpace(code[:i])
		}
		if code == "" {
			continue
		}
		if err := drv.TypeSlow(ctx, spec.Input, code, keystrokeDelay); err != nil {
			return common.WrapError(err, "type diagnosis code "+code)
		}
		drv.Sleep(ctx, 4*time.Second)
		if err := drv.Press(ctx, spec.Input, "Enter"); err != nil {
			return common.WrapError(err, "confirm diagnosis code "+code)
		}
		drv.Sleep(ctx, time.Second)
	}
	return nil
}

const (
	uploadDialogXPath   = `//div[@id="UploadDocsForServiceWindow"]`
	uploadTypeArrow     = `//span[@aria-controls="documenttypeforService_visitreg_listbox"]`
	uploadTypeListID    = "documenttypeforService_visitreg_listbox"
	uploadFileInput     = `//input[@id="filesvisitregForServcie"]`
	uploadCloseButton   = `//button[contains(@onclick, "closeuploadDocsForServicewindow")]`
)

// uploadDocument walks the attachment dialog: open, pick the document type
// from its dropdown, attach the file, close.
func uploadDocument(ctx context.Context, drv browser.Driver, spec FieldSpec, docType, path string) error {
	if path == "" {
		return common.NewAppError("NO_DOCUMENT", "no document to upload", nil)
	}
	if _, err := os.Stat(path); err != nil {
		return common.WrapError(err, "document file missing")
	}

	if err := drv.Click(ctx, spec.Input); err != nil {
		return common.WrapError(err, "open upload dialog")
	}
	drv.Sleep(ctx, 2*time.Second)
	if !drv.WaitVisible(ctx, uploadDialogXPath, 50*time.Second) {
		return common.NewAppError("UPLOAD_DIALOG", "upload dialog never appeared", nil)
	}

	typeSpec := FieldSpec{Arrow: uploadTypeArrow, ListID: uploadTypeListID}
	if err := selectExactOption(ctx, drv, typeSpec, docType); err != nil {
		return common.WrapError(err, "select document type")
	}

	if err := drv.SetInputFiles(ctx, uploadFileInput, path); err != nil {
		return common.WrapError(err, "attach file")
	}
	drv.Sleep(ctx, 15*time.Second)

	if err := drv.Click(ctx, uploadCloseButton); err != nil {
		return common.WrapError(err, "close upload dialog")
	}
	drv.Sleep(ctx, 2*time.Second)
	return nil
}

// selectExactOption opens a dropdown by its arrow and clicks the option whose
// text matches value exactly. Used for small fixed lists where fuzzy
// matching would be overkill.
func selectExactOption(ctx context.Context, drv browser.Driver, spec FieldSpec, value string) error {
	if value == "" {
		return common.NewAppError("NO_VALUE", "no value for dropdown", nil)
	}
	if err := drv.Click(ctx, spec.Arrow); err != nil {
		return common.WrapError(err, "open dropdown")
	}
	drv.Sleep(ctx, time.Second)

	listXPath := fmt.Sprintf("//ul[@id='%s']", spec.ListID)
	if !drv.WaitVisible(ctx, listXPath, 20*time.Second) {
		return common.NewAppError("LIST_HIDDEN", "dropdown list never appeared", nil)
	}
	options, err := drv.Texts(ctx, listXPath+"/li")
	if err != nil {
		return common.WrapError(err, "read dropdown options")
	}
	for _, opt := range options {
		if opt == value {
			optXPath := fmt.Sprintf("%s/li[text()='%s']", listXPath, value)
			if err := drv.Click(ctx, optXPath); err != nil {
				return common.WrapError(err, "click option "+value)
			}
			drv.Sleep(ctx, 3*time.Second)
			return nil
		}
	}
	return common.NewAppError("OPTION_MISSING", fmt.Sprintf("option %q not in list", value), nil)
}
