package agenda

import (
	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

// isAuthenticated inspects the current page: a visible login field means the
// session is gone; otherwise the logout link confirms an active session.
func isAuthenticated(page playwright.Page) bool {
	if field, _ := page.QuerySelector(selLoginUser); field != nil {
		return false
	}
	logoff, _ := page.QuerySelector(selLogoffLink)
	return logoff != nil
}

// login fills the credentials into the login form and submits it. A timeout
// waiting for the form aborts the current operation but is not fatal to the
// process; the next request retries from scratch.
func (s *DefaultAgendaService) login(page playwright.Page) error {
	userInput, err := page.WaitForSelector(selLoginUser, playwright.PageWaitForSelectorOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(20000),
	})
	if err != nil {
		s.Logger.Warn("Login form never appeared", zap.Error(err))
		return NewError(CodeNavigation, "Não foi possível carregar o formulário de login.")
	}
	passInput, err := page.WaitForSelector(selLoginPassword, playwright.PageWaitForSelectorOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(20000),
	})
	if err != nil {
		s.Logger.Warn("Password field never appeared", zap.Error(err))
		return NewError(CodeNavigation, "Não foi possível carregar o formulário de login.")
	}

	// Fill clears any stale value first.
	if err := userInput.Fill(s.Credentials.User); err != nil {
		return NewError(CodeNavigation, "Falha ao preencher usuário no login.")
	}
	if err := passInput.Fill(s.Credentials.Password); err != nil {
		return NewError(CodeNavigation, "Falha ao preencher senha no login.")
	}

	submit, err := page.WaitForSelector(selLoginSubmit, playwright.PageWaitForSelectorOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(20000),
	})
	if err != nil {
		return NewError(CodeNavigation, "Botão de login não encontrado.")
	}
	if err := submit.Click(); err != nil {
		return NewError(CodeNavigation, "Falha ao enviar o formulário de login.")
	}

	s.justLoggedIn = true
	s.Logger.Info("Logged in to scheduling site")
	return nil
}

// openAgenda navigates to the schedule page and guarantees an authenticated
// session before any calendar work starts.
func (s *DefaultAgendaService) openAgenda(page playwright.Page) error {
	if _, err := page.Goto(s.BaseURL); err != nil {
		s.Logger.Warn("Failed to load scheduling page", zap.Error(err))
		return NewError(CodeNavigation, "Não foi possível acessar a página de agendamento.")
	}
	if isAuthenticated(page) {
		s.Logger.Debug("Session already authenticated")
		return nil
	}
	return s.login(page)
}
