package browser

import (
	"context"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/medbridge/claimflow/internal/common"
)

// PlaywrightDriver drives a Chromium page through Playwright.
type PlaywrightDriver struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	page    playwright.Page
}

// NewPlaywright launches Chromium and opens a fresh page.
func NewPlaywright(headless bool) (*PlaywrightDriver, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, common.WrapError(err, "start playwright")
	}
	br, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(headless),
	})
	if err != nil {
		pw.Stop()
		return nil, common.WrapError(err, "launch chromium")
	}
	page, err := br.NewPage()
	if err != nil {
		br.Close()
		pw.Stop()
		return nil, common.WrapError(err, "open page")
	}
	return &PlaywrightDriver{pw: pw, browser: br, page: page}, nil
}

func ms(d time.Duration) *float64 {
	v := float64(d.Milliseconds())
	return &v
}

// sel normalizes an XPath selector into the engine prefix form.
func sel(selector string) string {
	if strings.HasPrefix(selector, "//") || strings.HasPrefix(selector, "/html") {
		return "xpath=" + selector
	}
	return selector
}

func (d *PlaywrightDriver) Navigate(_ context.Context, url string, timeout time.Duration) error {
	if _, err := d.page.Goto(url, playwright.PageGotoOptions{Timeout: ms(timeout)}); err != nil {
		return common.WrapError(err, "goto "+url)
	}
	return d.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateNetworkidle,
		Timeout: ms(timeout),
	})
}

func (d *PlaywrightDriver) WaitForURL(_ context.Context, url string, timeout time.Duration) error {
	return d.page.WaitForURL(url, playwright.PageWaitForURLOptions{Timeout: ms(timeout)})
}

func (d *PlaywrightDriver) Click(_ context.Context, selector string) error {
	return d.page.Click(sel(selector), playwright.PageClickOptions{})
}

func (d *PlaywrightDriver) ClickAt(_ context.Context, selector string, x, y float64) error {
	return d.page.Click(sel(selector), playwright.PageClickOptions{
		Position: &playwright.Position{X: x, Y: y},
	})
}

func (d *PlaywrightDriver) Fill(_ context.Context, selector, text string) error {
	return d.page.Fill(sel(selector), text)
}

func (d *PlaywrightDriver) TypeSlow(_ context.Context, selector, text string, perKey time.Duration) error {
	return d.page.Type(sel(selector), text, playwright.PageTypeOptions{Delay: ms(perKey)})
}

func (d *PlaywrightDriver) Press(_ context.Context, selector, key string) error {
	return d.page.Press(sel(selector), key)
}

func (d *PlaywrightDriver) WaitVisible(_ context.Context, selector string, timeout time.Duration) bool {
	_, err := d.page.WaitForSelector(sel(selector), playwright.PageWaitForSelectorOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: ms(timeout),
	})
	return err == nil
}

func (d *PlaywrightDriver) Texts(_ context.Context, selector string) ([]string, error) {
	locators, err := d.page.Locator(sel(selector)).All()
	if err != nil {
		return nil, common.WrapError(err, "list elements "+selector)
	}
	var texts []string
	for _, loc := range locators {
		text, err := loc.InnerText()
		if err != nil {
			continue
		}
		if t := strings.TrimSpace(text); t != "" {
			texts = append(texts, t)
		}
	}
	return texts, nil
}

func (d *PlaywrightDriver) SetInputFiles(_ context.Context, selector, path string) error {
	return d.page.SetInputFiles(sel(selector), []string{path})
}

func (d *PlaywrightDriver) Sleep(ctx context.Context, dur time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(dur):
	}
}

func (d *PlaywrightDriver) Close() error {
	if err := d.browser.Close(); err != nil {
		d.pw.Stop()
		return err
	}
	return d.pw.Stop()
}
