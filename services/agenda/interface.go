package agenda

import (
	"context"
	"fmt"
	"time"

	"github.com/acgeners/amor-saude/browser"
	"github.com/acgeners/amor-saude/database/repository/ledger"
	"github.com/acgeners/amor-saude/models"

	"go.uber.org/zap"
)

// Date and time layouts used by the scheduling page.
const (
	dateLayout = "02/01/2006"
	timeLayout = "15:04"
)

// Service is the public surface of the agenda automation engine.
type Service interface {
	FindEarliestSlot(ctx context.Context, req models.SlotRequest) (*models.SlotCandidate, error)
	BookAppointment(ctx context.Context, req models.AppointmentRequest) (*models.Booking, error)
}

// Credentials are the scheduling-site login credentials.
type Credentials struct {
	User     string
	Password string
}

// DefaultAgendaService is the production implementation. All browser work is
// serialized by the browser manager's operation lock; fields mutated during
// an operation (justLoggedIn) are therefore never accessed concurrently.
type DefaultAgendaService struct {
	Browser     *browser.Manager
	Ledger      ledger.Ledger
	Logger      *zap.Logger
	BaseURL     string
	Credentials Credentials
	Location    *time.Location

	// WindowDays bounds the forward search from the base date.
	WindowDays int

	// DedupTTL is the fixed ledger expiry; TTLUntilMidnight switches to the
	// seconds-remaining-until-local-midnight policy instead.
	DedupTTL         time.Duration
	TTLUntilMidnight bool

	// justLoggedIn flags that the next calendar navigation is the first one
	// after a fresh login, which needs an extra settling delay before the
	// filter checkbox reacts reliably.
	justLoggedIn bool
}

func NewDefaultAgendaService(
	browserMgr *browser.Manager,
	ledgerRepo ledger.Ledger,
	logger *zap.Logger,
	baseURL string,
	creds Credentials,
	loc *time.Location,
	windowDays int,
	dedupTTL time.Duration,
	ttlUntilMidnight bool,
) (*DefaultAgendaService, error) {
	if browserMgr == nil || ledgerRepo == nil || logger == nil {
		return nil, fmt.Errorf("agenda service initialization error: one or more dependencies are nil")
	}
	if windowDays <= 0 {
		windowDays = 30
	}
	return &DefaultAgendaService{
		Browser:          browserMgr,
		Ledger:           ledgerRepo,
		Logger:           logger,
		BaseURL:          baseURL,
		Credentials:      creds,
		Location:         loc,
		WindowDays:       windowDays,
		DedupTTL:         dedupTTL,
		TTLUntilMidnight: ttlUntilMidnight,
	}, nil
}
