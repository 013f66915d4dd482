package helpers

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/kronos-qa/kronos-e2e/tests/e2e/config"
)

// BrowserHelper provides browser setup and teardown for device tests
type BrowserHelper struct {
	Playwright *playwright.Playwright
	Browser    playwright.Browser
	Context    playwright.BrowserContext
	Page       playwright.Page
	Config     *config.TestConfig
	t          *testing.T
}

// NewBrowserHelper creates a new browser helper instance
func NewBrowserHelper(t *testing.T) *BrowserHelper {
	return &BrowserHelper{
		Config: config.GetConfig(),
		t:      t,
	}
}

// Setup initializes the browser and creates a new page. Devices serve
// self-signed certificates, so certificate errors are ignored at both the
// browser and context level.
func (b *BrowserHelper) Setup() error {
	var pw *playwright.Playwright
	var err error
	if os.Getenv("PLAYWRIGHT_PREINSTALLED") != "1" {
		if err = playwright.Install(); err != nil {
			return fmt.Errorf("could not install playwright browsers: %w", err)
		}
	}
	pw, err = playwright.Run()
	if err != nil {
		// Fallback: attempt install driver explicitly then retry
		_ = playwright.Install()
		pw, err = playwright.Run()
		if err != nil {
			return fmt.Errorf("could not start playwright after retry: %w", err)
		}
	}
	b.Playwright = pw

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(b.Config.Headless),
		SlowMo:   playwright.Float(float64(b.Config.SlowMo)),
		Args: []string{
			"--ignore-certificate-errors",
			"--disable-web-security",
		},
	})
	if err != nil {
		return fmt.Errorf("could not launch browser: %w", err)
	}
	b.Browser = browser

	context, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  1280,
			Height: 720,
		},
		IgnoreHttpsErrors: playwright.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("could not create context: %w", err)
	}
	b.Context = context

	page, err := context.NewPage()
	if err != nil {
		return fmt.Errorf("could not create page: %w", err)
	}
	b.Page = page

	page.SetDefaultTimeout(float64(b.Config.Timeout.Milliseconds()))

	return nil
}

// TearDown closes the browser and cleans up resources
func (b *BrowserHelper) TearDown() {
	// Take screenshot on failure
	if b.t.Failed() && b.Config.Screenshots && b.Page != nil {
		screenshotPath := fmt.Sprintf("./test-results/screenshots/%s_%d.png",
			b.t.Name(), time.Now().Unix())
		b.Page.Screenshot(playwright.PageScreenshotOptions{
			Path: playwright.String(screenshotPath),
		})
	}

	if b.Page != nil {
		b.Page.Close()
	}
	if b.Context != nil {
		b.Context.Close()
	}
	if b.Browser != nil {
		b.Browser.Close()
	}
	if b.Playwright != nil {
		b.Playwright.Stop()
	}
}

// NavigateTo navigates to a path relative to the device base URL
func (b *BrowserHelper) NavigateTo(path string) error {
	_, err := b.Page.Goto(b.Config.BaseURL + path)
	return err
}
