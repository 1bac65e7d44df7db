package agenda

import (
	"context"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/acgeners/amor-saude/models"
)

// selectContainingScript picks the first option of a select element whose
// text contains the given fragment (case-insensitive) and fires the change
// event the page listens on.
const selectContainingScript = `([el, fragment]) => {
	const wanted = fragment.toLowerCase();
	for (const opt of el.options) {
		if (opt.text.toLowerCase().includes(wanted)) {
			el.value = opt.value;
			el.dispatchEvent(new Event('change', { bubbles: true }));
			return opt.text;
		}
	}
	return '';
}`

// selectedTextScript reads the visible text of a select's current choice.
const selectedTextScript = `el => {
	const opt = el.options[el.selectedIndex];
	return opt ? opt.text : '';
}`

// BookAppointment confirms a previously offered slot: it re-locates the slot
// in the grid, opens its booking form, attaches the patient, fills the
// remaining fields, submits, and verifies the grid reflects the booking.
func (s *DefaultAgendaService) BookAppointment(ctx context.Context, req models.AppointmentRequest) (booking *models.Booking, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.Logger.Error("Booking panicked", zap.Any("panic", r))
			booking, err = nil, newErrorf(CodeInternal, "Erro interno no agendamento: %v", r)
		}
	}()

	date, perr := time.ParseInLocation(dateLayout, req.Date, s.Location)
	if perr != nil {
		return nil, newErrorf(CodeInput, "Data inválida: %q (esperado DD/MM/AAAA).", req.Date)
	}
	if _, terr := time.Parse(timeLayout, req.Time); terr != nil {
		return nil, newErrorf(CodeInput, "Horário inválido: %q (esperado HH:MM).", req.Time)
	}

	page, release, err := s.Browser.Acquire(ctx)
	if err != nil {
		s.Logger.Error("Browser session unavailable", zap.Error(err))
		return nil, NewError(CodeNavigation, "Navegador indisponível no momento.")
	}
	defer release()

	if err := s.openAgenda(page); err != nil {
		return nil, err
	}

	// The grid must show all slots here: the booking form opens from the
	// same button the search saw, and the filtered grid can reshuffle
	// columns between the offer and the confirmation.
	if !s.navigateToDate(page, date, false) {
		return nil, NewError(CodeNavigation, "Não foi possível abrir a agenda na data solicitada.")
	}
	if !s.waitForScheduleTable(page) {
		return nil, NewError(CodeNavigation, "A grade de horários não carregou.")
	}

	button, err := s.locateSlotButton(page, req)
	if err != nil {
		return nil, err
	}
	if _, err := page.Evaluate("el => el.click()", button); err != nil {
		return nil, NewError(CodeNavigation, "Falha ao abrir o formulário de agendamento.")
	}
	settle(1500 * time.Millisecond)

	if err := s.resolvePatient(page, req); err != nil {
		return nil, err
	}
	if err := s.fillAuxiliary(page, req); err != nil {
		return nil, err
	}
	if err := s.submitBooking(page); err != nil {
		return nil, err
	}

	verified := s.verifyBooking(page, date, req)
	if !verified {
		return nil, NewError(CodeVerify, "O agendamento não pôde ser confirmado na agenda.")
	}

	s.Logger.Info("Appointment booked",
		zap.String("practitioner", req.Practitioner),
		zap.String("date", req.Date),
		zap.String("time", req.Time),
	)
	return &models.Booking{
		Specialty:    req.Specialty,
		Practitioner: req.Practitioner,
		Date:         req.Date,
		Time:         req.Time,
		PatientName:  req.PatientName,
		Verified:     true,
	}, nil
}

// findPractitionerBlock picks the block holding the requested slot: exact
// practitioner match, matching specialty, and the requested time still in the
// open list. A miss means the slot was taken since it was offered and yields
// the structured slot-taken error before any form is touched.
func findPractitionerBlock(blocks []models.ScheduleBlock, req models.AppointmentRequest) (int, error) {
	for i, b := range blocks {
		if !matchPractitioner(b.Practitioner, req.Practitioner) || !matchesSpecialty(b.Specialty, req.Specialty) {
			continue
		}
		for _, t := range b.Times {
			if t == req.Time {
				return i, nil
			}
		}
	}
	return -1, newErrorf(CodeSlotTaken, "O horário %s de %s em %s não está mais disponível.", req.Time, req.Practitioner, req.Date)
}

// locateSlotButton re-scrapes the grid and returns the time button for the
// requested slot.
func (s *DefaultAgendaService) locateSlotButton(page playwright.Page, req models.AppointmentRequest) (playwright.ElementHandle, error) {
	cells, err := page.QuerySelectorAll(selPractitionerBlocks)
	if err != nil {
		return nil, NewError(CodeNavigation, "Falha ao ler a grade de horários.")
	}

	// Parse each cell into its block record, keeping the cells aligned so
	// the chosen block maps back to its DOM node.
	var (
		blocks     []models.ScheduleBlock
		blockCells []playwright.ElementHandle
	)
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
		})
		blockCells = append(blockCells, cell)
	}

	idx, err := findPractitionerBlock(blocks, req)
	if err != nil {
		return nil, err
	}

	buttons, err := blockCells[idx].QuerySelectorAll(selSlotButton)
	if err == nil {
		for _, btn := range buttons {
			text, terr := btn.TextContent()
			if terr != nil {
				continue
			}
			if strings.TrimSpace(text) == req.Time {
				if visible, _ := btn.IsVisible(); visible {
					return btn, nil
				}
			}
		}
	}
	return nil, newErrorf(CodeSlotTaken, "O horário %s de %s em %s não está mais disponível.", req.Time, req.Practitioner, req.Date)
}

// matchPractitioner compares practitioner names ignoring case, accents and
// surrounding whitespace. Unlike specialty matching this is exact: "Dr. Ana"
// must not claim "Dr. Ana Paula"'s column.
func matchPractitioner(blockName, wanted string) bool {
	return foldForMatch(blockName) == foldForMatch(wanted)
}

// fillAuxiliary completes the booking form's channel, payment and procedure
// fields. Channel and payment are best-effort; the procedure is required and
// its failure aborts the booking.
func (s *DefaultAgendaService) fillAuxiliary(page playwright.Page, req models.AppointmentRequest) error {
	s.selectSubChannel(page)
	s.selectPaymentTable(page, req.MembershipID != nil && *req.MembershipID != "")
	return s.selectProcedure(page)
}

// selectSubChannel sets the contact channel to whatsapp when the field is
// still on its placeholder. An already-chosen channel is left alone.
func (s *DefaultAgendaService) selectSubChannel(page playwright.Page) {
	field, err := page.QuerySelector(selSubChannel)
	if err != nil || field == nil {
		s.Logger.Warn("Sub-channel select not found, leaving as is")
		return
	}
	current, err := page.Evaluate(selectedTextScript, field)
	if err != nil {
		return
	}
	text, _ := current.(string)
	if !strings.Contains(foldForMatch(text), "selecione") {
		return
	}
	picked, err := page.Evaluate(selectContainingScript, []any{field, "whatsapp"})
	if err != nil {
		s.Logger.Warn("Failed to set sub-channel", zap.Error(err))
		return
	}
	s.Logger.Debug("Sub-channel selected", zap.Any("option", picked))
}

// selectPaymentTable picks the price table matching the patient's plan.
func (s *DefaultAgendaService) selectPaymentTable(page playwright.Page, hasMembership bool) {
	field, err := page.QuerySelector(selPaymentTable)
	if err != nil || field == nil {
		s.Logger.Warn("Payment table select not found, leaving as is")
		return
	}
	fragment := "particular"
	if hasMembership {
		fragment = "cartão de todos"
	}
	picked, err := page.Evaluate(selectContainingScript, []any{field, fragment})
	if err != nil {
		s.Logger.Warn("Failed to set payment table", zap.Error(err))
		return
	}
	if text, _ := picked.(string); text == "" {
		s.Logger.Warn("No payment table option matched", zap.String("fragment", fragment))
		return
	}
	s.Logger.Debug("Payment table selected", zap.Any("option", picked))
}

// selectProcedure picks the "consulta" procedure through its select2 widget.
// Without a procedure the save button silently does nothing, so a failure
// here is fatal.
func (s *DefaultAgendaService) selectProcedure(page playwright.Page) error {
	field, err := page.QuerySelector(selProcedureField)
	if err != nil || field == nil {
		return NewError(CodeProcedure, "Campo de procedimento não encontrado no formulário.")
	}
	if err := field.Click(); err != nil {
		return NewError(CodeProcedure, "Falha ao abrir a lista de procedimentos.")
	}

	var target playwright.ElementHandle
	done, perr := pollUntil(func() (bool, error) {
		items, qerr := page.QuerySelectorAll(selSelect2Options)
		if qerr != nil {
			return false, nil
		}
		for _, it := range items {
			visible, verr := it.IsVisible()
			if verr != nil || !visible {
				continue
			}
			text, terr := it.TextContent()
			if terr != nil {
				continue
			}
			folded := foldForMatch(text)
			if strings.Contains(folded, "procurando") || strings.Contains(folded, "searching") {
				return false, nil
			}
			if strings.Contains(folded, "consulta") {
				target = it
				return true, nil
			}
		}
		return false, nil
	}, 500*time.Millisecond, 10)
	if perr != nil || !done || target == nil {
		return NewError(CodeProcedure, "Procedimento 'consulta' não encontrado na lista.")
	}
	if err := target.Click(); err != nil {
		return NewError(CodeProcedure, "Falha ao selecionar o procedimento.")
	}
	settle(500 * time.Millisecond)
	return nil
}

// submitBooking clicks save and races the two signals the page may emit: an
// error popup or the booking modal closing. Seeing neither within the wait
// window is inconclusive and falls through to verification.
func (s *DefaultAgendaService) submitBooking(page playwright.Page) error {
	save, err := page.WaitForSelector(selSaveButton, playwright.PageWaitForSelectorOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(20000),
	})
	if err != nil {
		return NewError(CodeSubmit, "Botão de salvar o agendamento não apareceu.")
	}
	if err := save.ScrollIntoViewIfNeeded(); err != nil {
		return NewError(CodeSubmit, "Falha ao acessar o botão de salvar.")
	}
	if err := save.Click(); err != nil {
		return NewError(CodeSubmit, "Falha ao clicar em salvar.")
	}

	var popupErr error
	done, perr := pollUntil(func() (bool, error) {
		if popup, _ := page.QuerySelector(selErrorPopup); popup != nil {
			if visible, _ := popup.IsVisible(); visible {
				title, msg := "", ""
				if h, _ := popup.QuerySelector("h2"); h != nil {
					t, _ := h.TextContent()
					title = strings.TrimSpace(t)
				}
				if p, _ := popup.QuerySelector("p"); p != nil {
					t, _ := p.TextContent()
					msg = strings.TrimSpace(t)
				}
				popupErr = newErrorf(CodeSubmit, "O site recusou o agendamento: %s %s", title, msg)
				return true, nil
			}
		}
		modal, _ := page.QuerySelector(selBookingModal)
		if modal == nil {
			return true, nil
		}
		if visible, verr := modal.IsVisible(); verr == nil && !visible {
			return true, nil
		}
		return false, nil
	}, 500*time.Millisecond, 30)
	if perr != nil {
		return perr
	}
	if popupErr != nil {
		return popupErr
	}
	if !done {
		s.Logger.Warn("No submit feedback within the wait window, proceeding to verification")
	}
	settle(1 * time.Second)
	return nil
}

// verifyBooking re-reads the grid with all slots visible and confirms the
// requested time now belongs to the patient: the row for the time exists,
// carries the patient's name and no longer offers an open-slot button.
func (s *DefaultAgendaService) verifyBooking(page playwright.Page, date time.Time, req models.AppointmentRequest) bool {
	if !s.ensureFilter(page, false) {
		s.Logger.Warn("Could not reset filter for verification")
		return false
	}
	if !s.waitForScheduleTable(page) {
		return false
	}

	row, err := page.WaitForSelector("tr[id*='"+slotRowID(req.Time)+"']", playwright.PageWaitForSelectorOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: playwright.Float(15000),
	})
	if err != nil || row == nil {
		s.Logger.Warn("Booked row not found during verification",
			zap.String("date", date.Format(dateLayout)),
			zap.String("time", req.Time),
		)
		return false
	}
	text, err := row.TextContent()
	if err != nil {
		return false
	}
	if !strings.Contains(foldForMatch(text), foldForMatch(req.PatientName)) {
		return false
	}
	if btn, _ := row.QuerySelector(selSlotButton); btn != nil {
		if visible, _ := btn.IsVisible(); visible {
			return false
		}
	}
	return true
}

// slotRowID derives the fragment the grid embeds in a booked row's element
// id from the slot time: the colon is dropped ("09:30" appears as "0930").
func slotRowID(clock string) string {
	return strings.ReplaceAll(clock, ":", "")
}
