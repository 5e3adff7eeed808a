package formfill

import (
	"context"
	"fmt"
	"time"

	"github.com/medbridge/claimflow/internal/browser"
)

// kendoControl adapts one dropdown widget on the page to the resolver's
// control interface.
type kendoControl struct {
	drv  browser.Driver
	spec FieldSpec
}

func newKendoControl(drv browser.Driver, spec FieldSpec) *kendoControl {
	return &kendoControl{drv: drv, spec: spec}
}

func (k *kendoControl) listXPath() string {
	return fmt.Sprintf("//ul[@id='%s']", k.spec.ListID)
}

func (k *kendoControl) Focus(ctx context.Context) error {
	return k.drv.Click(ctx, k.spec.Input)
}

func (k *kendoControl) TypeText(ctx context.Context, text string) error {
	if err := k.drv.Press(ctx, k.spec.Input, "Control+a"); err != nil {
		return err
	}
	if err := k.drv.Press(ctx, k.spec.Input, "Backspace"); err != nil {
		return err
	}
	return k.drv.Fill(ctx, k.spec.Input, text)
}

func (k *kendoControl) OpenList(ctx context.Context) error {
	if k.spec.Arrow != "" {
		return k.drv.Click(ctx, k.spec.Arrow)
	}
	if err := k.drv.Click(ctx, k.spec.Input); err != nil {
		return err
	}
	return k.drv.Press(ctx, k.spec.Input, "ArrowDown")
}

func (k *kendoControl) VisibleOptions(ctx context.Context) ([]string, error) {
	if !k.drv.WaitVisible(ctx, k.listXPath(), 10*time.Second) {
		return nil, nil
	}
	return k.drv.Texts(ctx, k.listXPath()+"/li")
}

func (k *kendoControl) PressArrowDown(ctx context.Context) error {
	return k.drv.Press(ctx, k.spec.Input, "ArrowDown")
}

func (k *kendoControl) PressEnter(ctx context.Context) error {
	return k.drv.Press(ctx, k.spec.Input, "Enter")
}

func (k *kendoControl) PressTab(ctx context.Context) error {
	return k.drv.Press(ctx, k.spec.Input, "Tab")
}

func (k *kendoControl) Sleep(ctx context.Context, d time.Duration) {
	k.drv.Sleep(ctx, d)
}
