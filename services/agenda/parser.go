package agenda

import (
	"strings"
	"unicode"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/acgeners/amor-saude/models"
)

var dropMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

// extractBlocks scrapes every practitioner block from the schedule grid.
// Blocks without a title panel are column padding and are skipped. A scrape
// failure on one block never aborts the pass; the block is dropped and the
// rest still counts.
func (s *DefaultAgendaService) extractBlocks(page playwright.Page) []models.ScheduleBlock {
	cells, err := page.QuerySelectorAll(selPractitionerBlocks)
	if err != nil {
		s.Logger.Warn("Schedule grid query failed", zap.Error(err))
		return nil
	}

	blocks := make([]models.ScheduleBlock, 0, len(cells))
	for _, cell := range cells {
		title, err := cell.QuerySelector(selBlockTitle)
		if err != nil || title == nil {
			continue
		}
		raw, err := title.TextContent()
		if err != nil {
			continue
		}
		name, specialty, ok := parseTitlePanel(raw)
		if !ok {
			continue
		}
		blocks = append(blocks, models.ScheduleBlock{
			Practitioner: name,
			Specialty:    specialty,
			Times:        s.collectTimes(cell),
			Room:         s.extractRoom(cell),
		})
	}
	s.Logger.Debug("Schedule blocks extracted", zap.Int("count", len(blocks)))
	return blocks
}

// parseTitlePanel splits the block title into practitioner name and
// specialty. The panel renders the name on the first line and the specialty
// on the second; panels without a second line keep the block with an empty
// specialty, which a named search then never matches.
func parseTitlePanel(raw string) (name, specialty string, ok bool) {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return "", "", false
	}
	if len(lines) == 1 {
		return lines[0], "", true
	}
	return lines[0], lines[1], true
}

// collectTimes gathers the clickable time buttons in a block. Buttons that
// lost their visibility are already-taken slots mid-repaint and are skipped.
func (s *DefaultAgendaService) collectTimes(cell playwright.ElementHandle) []string {
	buttons, err := cell.QuerySelectorAll(selSlotButton)
	if err != nil {
		return nil
	}
	times := make([]string, 0, len(buttons))
	for _, btn := range buttons {
		visible, err := btn.IsVisible()
		if err != nil || !visible {
			continue
		}
		text, err := btn.TextContent()
		if err != nil {
			continue
		}
		text = strings.TrimSpace(text)
		if text != "" {
			times = append(times, text)
		}
	}
	return times
}

// extractRoom walks up to the block's row and back to the nearest header row
// naming the room. Rooms are optional; a miss returns empty.
func (s *DefaultAgendaService) extractRoom(cell playwright.ElementHandle) string {
	row, err := cell.QuerySelector("xpath=./ancestor::tr[1]")
	if err != nil || row == nil {
		return ""
	}
	header, err := row.QuerySelector("xpath=preceding-sibling::tr[td[contains(@class,'nomeProf')]]")
	if err != nil || header == nil {
		return ""
	}
	text, err := header.TextContent()
	if err != nil {
		return ""
	}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			return line
		}
	}
	return ""
}

// matchesSpecialty reports whether a block's specialty satisfies the request:
// the block's specialty must contain the requested one, accent-insensitively.
// The test is one-directional; a block labeled only "Geral" must not claim a
// search for "Clinico Geral".
func matchesSpecialty(blockSpecialty, wanted string) bool {
	a := foldForMatch(blockSpecialty)
	b := foldForMatch(wanted)
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b)
}

// foldForMatch lowercases and strips accents so DOM text and request text
// compare on equal footing.
func foldForMatch(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if ascii, _, err := transform.String(dropMarks, s); err == nil {
		return ascii
	}
	return s
}
