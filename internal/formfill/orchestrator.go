package formfill

import (
	"context"
	"log/slog"
	"time"

	"github.com/medbridge/claimflow/internal/browser"
	"github.com/medbridge/claimflow/internal/common"
	"github.com/medbridge/claimflow/internal/match"
)

const (
	loginTimeout = 80 * time.Second
	loginBackoff = 5 * time.Second
)

// Orchestrator fills the portal's registration form from a payload, one
// field at a time in the declared order. A field that cannot be resolved is
// logged and skipped; only login failure aborts the run.
type Orchestrator struct {
	drv      browser.Driver
	portal   common.PortalConfig
	resolver *match.Resolver
	logger   *slog.Logger
}

func NewOrchestrator(drv browser.Driver, portal common.PortalConfig, resolver *match.Resolver, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	if resolver == nil {
		resolver = match.NewResolver(match.DefaultConfig(), logger)
	}
	return &Orchestrator{drv: drv, portal: portal, resolver: resolver, logger: logger}
}

// Login signs into the portal, retrying on timeout before giving up.
func (o *Orchestrator) Login(ctx context.Context) error {
	tries := o.portal.LoginTries
	if tries <= 0 {
		tries = 1
	}
	var lastErr error
	for attempt := 1; attempt <= tries; attempt++ {
		o.logger.Info("formfill.login.attempt", "attempt", attempt, "of", tries)
		lastErr = o.loginOnce(ctx)
		if lastErr == nil {
			o.logger.Info("formfill.login.ok")
			return nil
		}
		o.logger.Error("formfill.login.failed", "attempt", attempt, "error", lastErr)
		if attempt < tries {
			o.drv.Sleep(ctx, loginBackoff)
		}
	}
	return common.WrapError(lastErr, "all login attempts failed")
}

func (o *Orchestrator) loginOnce(ctx context.Context) error {
	if err := o.drv.Navigate(ctx, o.portal.LoginURL, loginTimeout); err != nil {
		return err
	}
	if err := o.drv.Fill(ctx, `//input[@id="username"]`, o.portal.Username); err != nil {
		return err
	}
	o.drv.Sleep(ctx, time.Second)
	if err := o.drv.Fill(ctx, `//input[@id="password"]`, o.portal.Password); err != nil {
		return err
	}
	o.drv.Sleep(ctx, time.Second)
	if err := o.drv.Click(ctx, `//button[@type="submit"]`); err != nil {
		return err
	}
	return o.drv.WaitForURL(ctx, o.portal.PanelURL, loginTimeout)
}

// Run fills the whole form from the payload, in submission order, and
// returns the count of fields that ended unresolved.
func (o *Orchestrator) Run(ctx context.Context, p Payload) int {
	unresolvedCount := 0
	for _, name := range fieldOrder {
		spec, ok := SpecFor(name)
		if !ok {
			o.logger.Warn("formfill.field.unmapped", "field", name)
			continue
		}
		if err := ctx.Err(); err != nil {
			o.logger.Error("formfill.run.cancelled", "field", name, "error", err)
			return unresolvedCount
		}
		if !o.processField(ctx, spec, p) {
			unresolvedCount++
		}
		if spec.PostWait > 0 {
			o.drv.Sleep(ctx, spec.PostWait)
		}
	}
	o.logger.Info("formfill.run.done", "unresolved", unresolvedCount)
	return unresolvedCount
}

// processField dispatches one field to its strategy. Returns false when the
// field value could not be set.
func (o *Orchestrator) processField(ctx context.Context, spec FieldSpec, p Payload) bool {
	value := o.valueFor(spec.Name, p)
	if value == "" && valueRequired(spec.Strategy) {
		o.logger.Warn("formfill.field.empty", "field", spec.Name)
		return true
	}

	switch spec.Strategy {
	case StrategyFill:
		return o.fill(ctx, spec, value)

	case StrategyClick:
		if err := o.drv.Click(ctx, spec.Input); err != nil {
			if spec.Fallback == "" || o.drv.Click(ctx, spec.Fallback) != nil {
				o.logger.Error("formfill.click.failed", "field", spec.Name, "error", err)
				return false
			}
		}
		o.drv.Sleep(ctx, 2*time.Second)
		return true

	case StrategyTypeEnter:
		ctl := newKendoControl(o.drv, spec)
		res := o.resolver.TypeAndSubmit(ctx, ctl, value)
		o.logResolution(spec.Name, value, res)
		return res.Outcome != match.OutcomeUnresolved

	case StrategyArrowSelect:
		if err := selectExactOption(ctx, o.drv, spec, value); err != nil {
			o.logger.Error("formfill.arrow_select.failed", "field", spec.Name, "value", value, "error", err)
			return false
		}
		o.logger.Info("formfill.arrow_select.ok", "field", spec.Name, "value", value)
		return true

	case StrategyDropdown:
		ctl := newKendoControl(o.drv, spec)
		res := o.resolver.Resolve(ctx, spec.Kind, value, ctl)
		o.logResolution(spec.Name, value, res)
		return res.Outcome != match.OutcomeUnresolved

	case StrategyModality:
		ctl := newKendoControl(o.drv, spec)
		res := o.resolver.ResolveModality(ctx, value, ctl)
		o.logResolution(spec.Name, value, res)
		return res.Outcome != match.OutcomeUnresolved

	case StrategyServiceDesc:
		ctl := newKendoControl(o.drv, spec)
		res := o.resolver.ResolveServiceDesc(ctx, value, ctl)
		o.logResolution(spec.Name, value, res)
		return res.Outcome != match.OutcomeUnresolved

	case StrategyDateOfBirth:
		if err := setDateOfBirth(ctx, o.drv, spec, value); err != nil {
			o.logger.Error("formfill.dob.failed", "value", value, "error", err)
			return false
		}
		o.logger.Info("formfill.dob.ok", "value", value)
		return true

	case StrategyICDCodes:
		if len(p.ICD10Codes) == 0 {
			o.logger.Warn("formfill.icd.empty")
			return true
		}
		if err := inputICDCodes(ctx, o.drv, spec, p.ICD10Codes); err != nil {
			o.logger.Error("formfill.icd.failed", "error", err)
			return false
		}
		return true

	case StrategyIdentity:
		return o.fillIdentity(ctx, spec, p)

	case StrategyUpload:
		if err := uploadDocument(ctx, o.drv, spec, p.DocumentType, p.DocumentPath); err != nil {
			o.logger.Error("formfill.upload.failed", "path", p.DocumentPath, "error", err)
			return false
		}
		o.logger.Info("formfill.upload.ok", "type", p.DocumentType)
		return true
	}
	// unreachable while the enum stays closed
	o.logger.Error("formfill.strategy.unknown", "field", spec.Name)
	return false
}

func (o *Orchestrator) fill(ctx context.Context, spec FieldSpec, value string) bool {
	if err := o.drv.Fill(ctx, spec.Input, value); err != nil {
		if spec.Fallback == "" || o.drv.Fill(ctx, spec.Fallback, value) != nil {
			o.logger.Error("formfill.fill.failed", "field", spec.Name, "error", err)
			return false
		}
	}
	o.drv.Sleep(ctx, time.Second)
	o.logger.Info("formfill.fill.ok", "field", spec.Name, "value", value)
	return true
}

// fillIdentity sets the ID type from its dropdown, then the document number.
func (o *Orchestrator) fillIdentity(ctx context.Context, spec FieldSpec, p Payload) bool {
	if p.DocumentID == "" {
		o.logger.Warn("formfill.identity.empty")
		return true
	}
	typeSpec := FieldSpec{Arrow: spec.Arrow, ListID: spec.ListID}
	if err := selectExactOption(ctx, o.drv, typeSpec, p.IDType); err != nil {
		o.logger.Error("formfill.identity.type_failed", "id_type", p.IDType, "error", err)
		return false
	}
	if err := o.drv.Fill(ctx, spec.SecondInput, p.DocumentID); err != nil {
		if spec.SecondFallback == "" || o.drv.Fill(ctx, spec.SecondFallback, p.DocumentID) != nil {
			o.logger.Error("formfill.identity.fill_failed", "error", err)
			return false
		}
	}
	o.drv.Sleep(ctx, time.Second)
	o.logger.Info("formfill.identity.ok", "id_type", p.IDType)
	return true
}

func (o *Orchestrator) logResolution(field, value string, res match.Resolution) {
	switch res.Outcome {
	case match.OutcomeUnresolved:
		o.logger.Warn("formfill.resolve.unresolved", "field", field, "value", value)
	default:
		o.logger.Info("formfill.resolve.ok",
			"field", field, "value", value, "outcome", res.Outcome.String(),
			"selected", res.Value, "score", res.Score)
	}
}

// valueFor maps a field name to its payload value.
func (o *Orchestrator) valueFor(name string, p Payload) string {
	switch name {
	case "first_name":
		return p.FirstName
	case "middle_name":
		return p.MiddleName
	case "last_name":
		return p.LastName
	case "gender":
		return p.Gender
	case "dob":
		return p.DateOfBirth
	case "identity":
		return p.DocumentID
	case "mobile_number":
		return p.MobileNumber
	case "nationality":
		return p.Nationality
	case "marital_status":
		return p.MaritalStatus
	case "modality":
		return p.Modality
	case "referring":
		return p.Referring
	case "visit_type":
		return p.VisitType
	case "icd10_codes":
		if len(p.ICD10Codes) > 0 {
			return p.ICD10Codes[0]
		}
		return ""
	case "patient_class":
		return p.PatientClass
	case "chief_complaint":
		return p.ChiefComplaint
	case "carrier_type":
		return p.CarrierType
	case "carrier":
		return p.Carrier
	case "policy_no":
		return p.PolicyNo
	case "membership_no":
		return p.MembershipNo
	case "approval_no":
		return p.ApprovalNo
	case "service_desc":
		return p.ServiceDesc
	case "status":
		return p.Status
	case "upload_document":
		return p.DocumentPath
	case "patient_value":
		return p.PatientValue
	case "notes_additional":
		return p.Notes
	default:
		return ""
	}
}

// valueRequired reports whether a strategy needs a non-empty value.
func valueRequired(s StrategyKind) bool {
	switch s {
	case StrategyClick, StrategyUpload:
		return false
	}
	return true
}
