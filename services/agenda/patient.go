package agenda

import (
	"regexp"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/acgeners/amor-saude/models"
)

// Outcomes of the patient lookup dropdown once it stops loading.
const (
	suggestionSearching = iota
	suggestionMissing
	suggestionExisting
)

var birthDatePattern = regexp.MustCompile(`\b\d{2}/\d{2}/\d{4}\b`)

// resolvePatient attaches a patient to the booking form: looks the document
// up through the select2 widget, registers the patient when the site does not
// know them, and retries the lookup once after registering.
func (s *DefaultAgendaService) resolvePatient(page playwright.Page, req models.AppointmentRequest) error {
	state, item, err := s.lookupPatient(page, req.DocumentID)
	if err != nil {
		return err
	}

	if state == suggestionMissing {
		s.Logger.Info("Patient not registered, creating record", zap.String("name", req.PatientName))
		if rerr := s.registerPatient(page, req); rerr != nil {
			return rerr
		}
		state, item, err = s.lookupPatient(page, req.DocumentID)
		if err != nil {
			return err
		}
		if state != suggestionExisting {
			return NewError(CodePatient, "Paciente não encontrado e não foi possível cadastrá-lo.")
		}
	}
	if state != suggestionExisting || item == nil {
		return NewError(CodePatient, "Paciente não encontrado na busca.")
	}

	text, _ := item.TextContent()
	hasBirthDate := birthDatePattern.MatchString(text)

	if err := item.Click(); err != nil {
		return NewError(CodePatient, "Falha ao selecionar o paciente na lista.")
	}
	settle(1 * time.Second)

	return s.fillPatientDetails(page, req, hasBirthDate)
}

// lookupPatient opens the select2 patient field, types the document and
// waits for the dropdown to settle on a definitive answer.
func (s *DefaultAgendaService) lookupPatient(page playwright.Page, document string) (int, playwright.ElementHandle, error) {
	field, err := page.WaitForSelector(selPatientField, playwright.PageWaitForSelectorOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(20000),
	})
	if err != nil {
		return suggestionSearching, nil, NewError(CodePatient, "Campo de paciente não apareceu no formulário.")
	}
	if err := field.Click(); err != nil {
		return suggestionSearching, nil, NewError(CodePatient, "Falha ao abrir a busca de paciente.")
	}

	input, err := page.WaitForSelector(selSelect2Input, playwright.PageWaitForSelectorOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(10000),
	})
	if err != nil {
		return suggestionSearching, nil, NewError(CodePatient, "Campo de busca de paciente não apareceu.")
	}
	if err := input.Fill(document); err != nil {
		return suggestionSearching, nil, NewError(CodePatient, "Falha ao digitar o CPF na busca.")
	}

	// The dropdown flips through "searching" states while its AJAX request
	// runs; poll until the content stabilizes on a real answer.
	var (
		state = suggestionSearching
		item  playwright.ElementHandle
	)
	done, perr := pollUntil(func() (bool, error) {
		items, qerr := page.QuerySelectorAll(selSelect2Options)
		if qerr != nil {
			return false, nil
		}
		registerVisible := false
		if btn, _ := page.QuerySelector(selRegisterButton); btn != nil {
			if visible, _ := btn.IsVisible(); visible {
				registerVisible = true
			}
		}
		st, it := classifyDropdown(items, registerVisible)
		if st == suggestionSearching {
			return false, nil
		}
		state, item = st, it
		return true, nil
	}, 500*time.Millisecond, 10)
	if perr != nil {
		return suggestionSearching, nil, perr
	}
	if !done {
		return suggestionSearching, nil, NewError(CodePatient, "A busca de paciente não respondeu a tempo.")
	}
	return state, item, nil
}

// classifyDropdown inspects the rendered suggestion items and decides what
// the lookup resolved to. The first item carrying real patient text wins.
func classifyDropdown(items []playwright.ElementHandle, registerVisible bool) (int, playwright.ElementHandle) {
	for _, it := range items {
		visible, err := it.IsVisible()
		if err != nil || !visible {
			continue
		}
		text, err := it.TextContent()
		if err != nil {
			continue
		}
		switch classifySuggestion(text, registerVisible) {
		case suggestionSearching:
			return suggestionSearching, nil
		case suggestionMissing:
			return suggestionMissing, nil
		case suggestionExisting:
			return suggestionExisting, it
		}
	}
	if registerVisible {
		return suggestionMissing, nil
	}
	return suggestionSearching, nil
}

// classifySuggestion maps one dropdown item's text to a lookup outcome.
func classifySuggestion(text string, registerVisible bool) int {
	folded := foldForMatch(text)
	switch {
	case folded == "":
		return suggestionSearching
	case strings.Contains(folded, "searching"), strings.Contains(folded, "procurando"), strings.Contains(folded, "buscando"):
		return suggestionSearching
	case strings.Contains(folded, "nenhum resultado"), registerVisible:
		return suggestionMissing
	default:
		return suggestionExisting
	}
}

// registerPatient works through the quick-registration modal the site offers
// when a document has no match: name, document, submit, wait for the modal
// to close.
func (s *DefaultAgendaService) registerPatient(page playwright.Page, req models.AppointmentRequest) error {
	button, err := page.WaitForSelector(selRegisterClick, playwright.PageWaitForSelectorOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(10000),
	})
	if err != nil {
		return NewError(CodePatient, "Botão de cadastro de paciente não apareceu.")
	}
	if err := button.Click(); err != nil {
		return NewError(CodePatient, "Falha ao abrir o cadastro de paciente.")
	}

	nameInput, err := page.WaitForSelector(selRegisterName, playwright.PageWaitForSelectorOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(10000),
	})
	if err != nil {
		return NewError(CodePatient, "Formulário de cadastro de paciente não carregou.")
	}
	if err := nameInput.Fill(req.PatientName); err != nil {
		return NewError(CodePatient, "Falha ao preencher o nome do paciente.")
	}
	docInput, err := page.QuerySelector(selRegisterDocument)
	if err != nil || docInput == nil {
		return NewError(CodePatient, "Campo de CPF do cadastro não encontrado.")
	}
	if err := docInput.Fill(req.DocumentID); err != nil {
		return NewError(CodePatient, "Falha ao preencher o CPF do paciente.")
	}

	submit, err := page.QuerySelector(selRegisterSubmit)
	if err != nil || submit == nil {
		return NewError(CodePatient, "Botão de confirmação do cadastro não encontrado.")
	}
	if err := submit.Click(); err != nil {
		return NewError(CodePatient, "Falha ao confirmar o cadastro do paciente.")
	}

	if _, err := page.WaitForSelector(selRegisterName, playwright.PageWaitForSelectorOptions{
		State:   playwright.WaitForSelectorStateHidden,
		Timeout: playwright.Float(15000),
	}); err != nil {
		return NewError(CodePatient, "O cadastro do paciente não foi concluído.")
	}
	s.Logger.Info("Patient registered", zap.String("name", req.PatientName))
	settle(1 * time.Second)
	return nil
}

// fillPatientDetails completes birth date and contact phone after the
// patient is selected. Both are fill-if-empty: the site pre-populates them
// for known patients and overwriting would clobber the canonical record.
// hasBirthDate skips the birth field when the suggestion already carried one.
func (s *DefaultAgendaService) fillPatientDetails(page playwright.Page, req models.AppointmentRequest, hasBirthDate bool) error {
	if req.BirthDate != "" && !hasBirthDate {
		if err := s.fillIfEmpty(page, selBirthDate, req.BirthDate); err != nil {
			s.Logger.Warn("Could not fill birth date", zap.Error(err))
		}
	}
	if req.Contact != "" {
		if err := s.fillIfEmpty(page, selContactPhone, req.Contact); err != nil {
			s.Logger.Warn("Could not fill contact phone", zap.Error(err))
		}
	}
	return nil
}

func (s *DefaultAgendaService) fillIfEmpty(page playwright.Page, selector, value string) error {
	field, err := page.QuerySelector(selector)
	if err != nil || field == nil {
		return newErrorf(CodeInternal, "campo %s não encontrado", selector)
	}
	current, err := field.InputValue()
	if err != nil {
		return err
	}
	if strings.TrimSpace(current) != "" {
		return nil
	}
	return field.Fill(value)
}
