package agenda

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/acgeners/amor-saude/database/repository/ledger"
	"github.com/acgeners/amor-saude/models"
)

// FindEarliestSlot walks the calendar forward from the base date and returns
// the earliest slot matching the requested specialty that this requester has
// not been offered yet. The walk is greedy: the first date with an eligible
// slot wins, candidates on later dates are never compared against it.
func (s *DefaultAgendaService) FindEarliestSlot(ctx context.Context, req models.SlotRequest) (candidate *models.SlotCandidate, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.Logger.Error("Slot search panicked", zap.Any("panic", r))
			candidate, err = nil, newErrorf(CodeInternal, "Erro interno na busca de horários: %v", r)
		}
	}()

	now := time.Now().In(s.Location)

	threshold := time.Duration(0)
	if req.MinutesAhead != nil && *req.MinutesAhead > 0 {
		threshold = time.Duration(*req.MinutesAhead) * time.Minute
	}

	baseDate := now
	if req.Date != nil && *req.Date != "" {
		parsed, perr := time.ParseInLocation(dateLayout, *req.Date, s.Location)
		if perr != nil {
			return nil, newErrorf(CodeInput, "Data inválida: %q (esperado DD/MM/AAAA).", *req.Date)
		}
		baseDate = parsed
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

	for offset := 0; offset < s.WindowDays; offset++ {
		if ctx.Err() != nil {
			return nil, NewError(CodeInternal, "Busca cancelada.")
		}
		date := baseDate.AddDate(0, 0, offset)

		if !s.navigateToDate(page, date, true) {
			s.Logger.Warn("Skipping date after navigation failure", zap.String("date", date.Format(dateLayout)))
			continue
		}
		if !s.waitForScheduleTable(page) {
			s.Logger.Debug("No schedule rendered for date", zap.String("date", date.Format(dateLayout)))
			continue
		}

		blocks := s.extractBlocks(page)
		tuples := flattenBlocks(blocks, req.Specialty)
		if len(tuples) == 0 {
			continue
		}

		offered := func(t slotTuple) bool {
			seen, lerr := s.Ledger.AlreadyOffered(ctx, ledger.Key{
				RequesterID:  req.RequesterID,
				Specialty:    req.Specialty,
				Date:         date.Format(dateLayout),
				Time:         t.Time,
				Practitioner: t.Practitioner,
			})
			if lerr != nil {
				// A ledger outage must not block the search; worst case a
				// slot is offered twice.
				s.Logger.Warn("Ledger lookup failed", zap.Error(lerr))
				return false
			}
			return seen
		}

		best, instant, ok := selectEarliest(tuples, date, now, threshold, s.Location, offered)
		if !ok {
			continue
		}

		entry := ledger.Entry{
			Specialty:    req.Specialty,
			Date:         date.Format(dateLayout),
			Time:         best.Time,
			RequesterID:  req.RequesterID,
			Practitioner: best.Practitioner,
			Room:         best.Room,
			RegisteredAt: now.Format(time.RFC3339),
		}
		ttl := ledger.TTLForEntry(now, s.DedupTTL, s.TTLUntilMidnight)
		if lerr := s.Ledger.Register(ctx, entry, ttl); lerr != nil {
			s.Logger.Warn("Failed to record offered slot", zap.Error(lerr))
		}

		s.Logger.Info("Slot found",
			zap.String("specialty", req.Specialty),
			zap.String("practitioner", best.Practitioner),
			zap.Time("instant", instant),
		)
		return &models.SlotCandidate{
			Date:         date.Format(dateLayout),
			Time:         best.Time,
			Practitioner: best.Practitioner,
			Room:         best.Room,
		}, nil
	}

	return nil, newErrorf(CodeNotFound, "Nenhum horário encontrado nos próximos %d dias.", s.WindowDays)
}
