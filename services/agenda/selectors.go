package agenda

// CSS selectors for the scheduling page. The site ships no stable contract;
// everything below was observed from the rendered DOM and is expected to
// drift between site revisions. Keep all of them here so a drift is a
// one-file fix.
const (
	// Login page.
	selLoginUser     = "#User"
	selLoginPassword = "#password"
	selLoginSubmit   = "button[type='submit']"
	selLogoffLink    = "a[href*='logoff']"

	// Month calendar widget.
	selCalendar        = "#tblCalendario"
	selCalendarHeaders = "#tblCalendario th"
	selNextMonthButton = "table#tblCalendario th.hand.text-right"

	// Schedule grid.
	selOpenOnlyFilter = "#HVazios"
	selScheduleTable  = "table.table-hover"
	selPractitionerBlocks = "td[id^='pf']"
	selBlockTitle     = ".panel-title"
	selSlotButton     = ".btn-info"

	// Booking form: patient lookup (select2 widget).
	selPatientField     = "span.select2-selection--single[aria-labelledby='select2-PacienteID-container']"
	selSelect2Input     = "input.select2-search__field"
	selSelect2Options   = "ul.select2-results__options li"
	selRegisterButton   = ".btn-inserir-si"
	selRegisterClick    = "button.btn-inserir-si"
	selRegisterName     = "#modal-nome"
	selRegisterDocument = "#modal-cpf"
	selRegisterSubmit   = "button.components-modal-submit-btn"

	// Booking form: auxiliary fields.
	selBirthDate      = "#ageNascimento"
	selContactPhone   = "#ageCel1"
	selSubChannel     = "#SubCanal"
	selPaymentTable   = "#Tabela"
	selProcedureField = "span.select2-selection--single[aria-labelledby='select2-ProcedimentoID-container']"

	// Submit and feedback.
	selSaveButton   = "#btnSalvarAgenda"
	selBookingModal = ".modal-content"
	selErrorPopup   = ".sweet-alert.visible"
)

// scrollGridScript pushes the schedule container fully to the right so every
// practitioner column is rendered before scraping.
const scrollGridScript = `() => {
	const el = document.getElementById('contQuadro');
	if (el) {
		el.scrollLeft = el.scrollWidth;
	}
}`
