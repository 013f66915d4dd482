package pages

import (
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/kronos-qa/kronos-e2e/internal/capabilities"
)

// dashboardTableCount is the fixed table layout the status dashboard
// renders: time sync, GNSS, device info, satellites. The tables carry no
// semantic attributes, so extraction is positional.
const dashboardTableCount = 4

// DashboardPage reads the status dashboard. It is the one page object that
// can be constructed before the model is known, since its main job is
// finding out what the model is.
type DashboardPage struct {
	Base
}

func NewDashboardPage(page playwright.Page, model string) *DashboardPage {
	return &DashboardPage{Base: newBase(page, model, "dashboard")}
}

// VerifyLoaded waits for the table layout to settle. The satellite table
// populates asynchronously, so the count is polled rather than asserted
// once. Fewer than four tables after the deadline is reported but tolerated;
// extraction degrades per table.
func (p *DashboardPage) VerifyLoaded() error {
	tables := p.Page.Locator("table")
	deadline := time.Now().Add(time.Duration(p.Timeout(DefaultTimeout)) * time.Millisecond)
	count := 0
	for time.Now().Before(deadline) {
		n, err := tables.Count()
		if err != nil {
			return fmt.Errorf("count dashboard tables: %w", err)
		}
		count = n
		if count >= dashboardTableCount {
			return nil
		}
		p.Page.WaitForTimeout(1000)
	}
	if count == 0 {
		return fmt.Errorf("dashboard tables: %w", ErrElementMissing)
	}
	p.log.Warn().Int("tables", count).Msg("dashboard rendered fewer tables than expected")
	return nil
}

// DeviceInfo is the parsed device identification table.
type DeviceInfo struct {
	Model      string
	Serial     string
	Firmware   string
	Identifier string
	Location   string
	Contact    string
	Fields     map[string]string
}

// DeviceInfo extracts the device identification table (positionally the
// third table). Missing rows leave fields empty; only driver failures are
// errors. When the extracted model is a known one, it is expected to match
// the model the page object was constructed with.
func (p *DashboardPage) DeviceInfo() (DeviceInfo, error) {
	info := DeviceInfo{Fields: map[string]string{}}

	tables := p.Page.Locator("table")
	n, err := tables.Count()
	if err != nil {
		return info, fmt.Errorf("count dashboard tables: %w", err)
	}
	if n < 3 {
		return info, fmt.Errorf("device info table: %w", ErrElementMissing)
	}

	rows, err := extractTable(tables.Nth(2))
	if err != nil {
		return info, err
	}
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(row[0]))
		value := strings.TrimSpace(row[1])
		if value == "" {
			continue
		}
		info.Fields[key] = value
		switch key {
		case "model", "device model", "hardware":
			if info.Model == "" {
				info.Model = value
			}
		case "serial", "serial number":
			info.Serial = value
		case "firmware", "software version", "version":
			info.Firmware = value
		case "identifier", "device id":
			info.Identifier = value
		case "location":
			info.Location = value
		case "contact":
			info.Contact = value
		}
	}

	if info.Model != "" && p.Model != "" && info.Model != p.Model {
		p.log.Warn().Str("expected", p.Model).Str("reported", info.Model).
			Msg("dashboard reports a different model")
	}
	return info, nil
}

// DetectModel resolves the device model, preferring the dashboard's own
// report and falling back to serial number lookup against the capability
// store. An empty string means the device could not be identified; callers
// typically skip rather than fail.
func (p *DashboardPage) DetectModel() (string, error) {
	info, err := p.DeviceInfo()
	if err != nil {
		return "", err
	}
	if info.Model != "" && capabilities.Known(info.Model) {
		return info.Model, nil
	}
	if info.Serial != "" {
		if model, ok := capabilities.ModelBySerial(info.Serial); ok {
			p.log.Info().Str("serial", info.Serial).Str("model", model).
				Msg("model resolved from serial number")
			return model, nil
		}
	}
	if info.Model != "" {
		p.log.Warn().Str("model", info.Model).Msg("dashboard model not in capability store")
		return info.Model, nil
	}
	return "", nil
}

// TimeSync is the parsed time status table.
type TimeSync struct {
	Source string
	Status string
	Fields map[string]string
}

// TimeSync extracts the time status table (positionally the first table).
func (p *DashboardPage) TimeSync() (TimeSync, error) {
	sync := TimeSync{Fields: map[string]string{}}
	tables := p.Page.Locator("table")
	n, err := tables.Count()
	if err != nil {
		return sync, fmt.Errorf("count dashboard tables: %w", err)
	}
	if n < 1 {
		return sync, fmt.Errorf("time sync table: %w", ErrElementMissing)
	}
	rows, err := extractTable(tables.Nth(0))
	if err != nil {
		return sync, err
	}
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(row[0]))
		value := strings.TrimSpace(row[1])
		sync.Fields[key] = value
		switch {
		case strings.Contains(key, "source"):
			sync.Source = value
		case strings.Contains(key, "status") || strings.Contains(key, "sync"):
			sync.Status = value
		}
	}
	return sync, nil
}

// GNSSStatus extracts the GNSS status table (positionally the second table)
// as raw key/value pairs.
func (p *DashboardPage) GNSSStatus() (map[string]string, error) {
	tables := p.Page.Locator("table")
	n, err := tables.Count()
	if err != nil {
		return nil, fmt.Errorf("count dashboard tables: %w", err)
	}
	if n < 2 {
		return nil, fmt.Errorf("gnss table: %w", ErrElementMissing)
	}
	rows, err := extractTable(tables.Nth(1))
	if err != nil {
		return nil, err
	}
	out := map[string]string{}
	for _, row := range rows {
		if len(row) >= 2 {
			out[strings.ToLower(strings.TrimSpace(row[0]))] = strings.TrimSpace(row[1])
		}
	}
	return out, nil
}

// extractTable reads every row of a table into cell text. Cell reads that
// fail individually, as they do mid-refresh, yield empty strings rather
// than aborting the row.
func extractTable(table playwright.Locator) ([][]string, error) {
	rows := table.Locator("tr")
	rowCount, err := rows.Count()
	if err != nil {
		return nil, fmt.Errorf("count table rows: %w", err)
	}
	out := make([][]string, 0, rowCount)
	for i := 0; i < rowCount; i++ {
		cells := rows.Nth(i).Locator("td, th")
		cellCount, err := cells.Count()
		if err != nil {
			return nil, fmt.Errorf("count cells in row %d: %w", i, err)
		}
		if cellCount == 0 {
			continue
		}
		row := make([]string, 0, cellCount)
		for j := 0; j < cellCount; j++ {
			text, err := cells.Nth(j).TextContent()
			if err != nil {
				text = ""
			}
			row = append(row, text)
		}
		out = append(out, row)
	}
	return out, nil
}
