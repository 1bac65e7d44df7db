package agenda

import (
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

// Month abbreviations as the calendar header renders them, e.g. "MAR - 2025".
var monthAbbrev = map[time.Month]string{
	time.January: "JAN", time.February: "FEV", time.March: "MAR",
	time.April: "ABR", time.May: "MAI", time.June: "JUN",
	time.July: "JUL", time.August: "AGO", time.September: "SET",
	time.October: "OUT", time.November: "NOV", time.December: "DEZ",
}

// monthHeaderFor formats the header text the calendar shows for a month.
func monthHeaderFor(t time.Time) string {
	return fmt.Sprintf("%s - %d", monthAbbrev[t.Month()], t.Year())
}

// navigateToDate drives the month calendar to the target date and leaves the
// open-slots filter in the requested state. Returns false on any failure; the
// caller decides whether to try another date. Bounded to twelve month
// advances (one year of lookahead).
func (s *DefaultAgendaService) navigateToDate(page playwright.Page, target time.Time, openOnly bool) bool {
	if _, err := page.WaitForSelector(selCalendar, playwright.PageWaitForSelectorOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: playwright.Float(20000),
	}); err != nil {
		s.Logger.Warn("Calendar widget never appeared", zap.Error(err))
		return false
	}

	want := monthHeaderFor(target)
	for i := 0; i < 12; i++ {
		current, ok := s.currentMonthHeader(page)
		if !ok {
			s.Logger.Warn("Could not identify the displayed calendar month")
			return false
		}
		if current == want {
			return s.selectDay(page, target, openOnly)
		}
		if !s.advanceMonth(page) {
			s.Logger.Warn("Next-month control not found", zap.String("wanted", want))
			return false
		}
	}
	s.Logger.Warn("Target month not reached within one year of lookahead", zap.String("wanted", want))
	return false
}

// currentMonthHeader reads the header cell carrying the "MMM - YYYY" label.
// The calendar renders several th cells; only the month label contains " - ".
func (s *DefaultAgendaService) currentMonthHeader(page playwright.Page) (string, bool) {
	headers, err := page.QuerySelectorAll(selCalendarHeaders)
	if err != nil {
		return "", false
	}
	for _, th := range headers {
		text, err := th.TextContent()
		if err != nil {
			continue
		}
		text = strings.TrimSpace(text)
		if strings.Contains(text, " - ") {
			return strings.ToUpper(text), true
		}
	}
	return "", false
}

// advanceMonth clicks the right-arrow header cell wired to changeMonth. The
// click goes through JS because the cell sits outside the viewport on small
// layouts.
func (s *DefaultAgendaService) advanceMonth(page playwright.Page) bool {
	buttons, err := page.QuerySelectorAll(selNextMonthButton)
	if err != nil {
		return false
	}
	for _, btn := range buttons {
		onclick, err := btn.GetAttribute("onclick")
		if err != nil || !strings.Contains(onclick, "changeMonth") {
			continue
		}
		if _, err := page.Evaluate("el => el.click()", btn); err != nil {
			return false
		}
		settle(1500 * time.Millisecond)
		return true
	}
	return false
}

// selectDay clicks the calendar cell whose element id is the target date in
// DD/MM/YYYY form, then applies the filter state.
func (s *DefaultAgendaService) selectDay(page playwright.Page, target time.Time, openOnly bool) bool {
	dateID := target.Format(dateLayout)
	// The id contains slashes, so an attribute selector is required.
	cell, err := page.WaitForSelector(fmt.Sprintf("[id='%s']", dateID), playwright.PageWaitForSelectorOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(20000),
	})
	if err != nil {
		s.Logger.Warn("Calendar cell for date not clickable", zap.String("date", dateID), zap.Error(err))
		return false
	}
	if err := cell.ScrollIntoViewIfNeeded(); err != nil {
		return false
	}
	if err := cell.Click(); err != nil {
		s.Logger.Warn("Failed to click calendar cell", zap.String("date", dateID), zap.Error(err))
		return false
	}
	s.Logger.Debug("Calendar date selected", zap.String("date", dateID))
	settle(1500 * time.Millisecond)

	if s.justLoggedIn {
		// The first navigation after a fresh login needs extra settling
		// before the filter widget reacts. Empirical, not a real state.
		settle(1500 * time.Millisecond)
		s.justLoggedIn = false
	}

	return s.ensureFilter(page, openOnly)
}

// ensureFilter leaves the "only open slots" checkbox in the wanted state.
// The first JS click forces the widget's AJAX refresh even when the state is
// already correct; the grid does not reliably repaint without it.
func (s *DefaultAgendaService) ensureFilter(page playwright.Page, openOnly bool) bool {
	checkbox, err := page.WaitForSelector(selOpenOnlyFilter, playwright.PageWaitForSelectorOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: playwright.Float(20000),
	})
	if err != nil {
		s.Logger.Warn("Open-slots filter checkbox not found after date click", zap.Error(err))
		return false
	}
	if err := checkbox.ScrollIntoViewIfNeeded(); err != nil {
		return false
	}
	if _, err := page.Evaluate("el => el.click()", checkbox); err != nil {
		return false
	}
	settle(1 * time.Second)

	checked, err := checkbox.IsChecked()
	if err != nil {
		return false
	}
	if checked != openOnly {
		if _, err := page.Evaluate("el => el.click()", checkbox); err != nil {
			return false
		}
		settle(1 * time.Second)
	}
	s.Logger.Debug("Open-slots filter set", zap.Bool("openOnly", openOnly))
	return true
}

// waitForScheduleTable blocks until the schedule grid renders. Navigation is
// only considered successful once the table exists.
func (s *DefaultAgendaService) waitForScheduleTable(page playwright.Page) bool {
	if _, err := page.WaitForSelector(selScheduleTable, playwright.PageWaitForSelectorOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: playwright.Float(20000),
	}); err != nil {
		return false
	}
	// Push the grid fully right so every practitioner column is rendered.
	if _, err := page.Evaluate(scrollGridScript); err != nil {
		s.Logger.Debug("Grid scroll script failed", zap.Error(err))
	}
	return true
}
