package service

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	librarydto "smartlib/internal/modules/library/dto"
	libraryin "smartlib/internal/modules/library/port/in"
	"smartlib/internal/modules/reading/domain"
	readingout "smartlib/internal/modules/reading/port/out"
	"smartlib/internal/platform/clock"
	apperrors "smartlib/internal/platform/errors"
)

// Engine is the single timed reading session of the signed-in user.
//
// Idle -> Active on Start, Active -> StoppingPending on RequestStop, StoppingPending -> Idle on
// ConfirmStop (after the record is saved) and StoppingPending -> Active on CancelStop. Abandon
// returns to Idle from anywhere without saving.
type Engine struct {
	clock   clock.Clock
	api     readingout.SessionAPI
	library libraryin.Usecase
	journal readingout.Journal
	logger  *slog.Logger

	mu        sync.Mutex
	phase     domain.Phase
	entryID   int64
	bookID    int64
	bookTitle string
	startedAt time.Time
	proposed  int
	previous  int
	// saved is the record created by a ConfirmStop whose status update failed. A retry only
	// repeats the status update.
	saved *domain.Record
	loop  *tickLoop
	known map[int64]int
}

func NewEngine(clk clock.Clock, api readingout.SessionAPI, library libraryin.Usecase, journal readingout.Journal, logger *slog.Logger) *Engine {
	return &Engine{
		clock:   clk,
		api:     api,
		library: library,
		journal: journal,
		logger:  logger,
		known:   map[int64]int{},
	}
}

// tickLoop counts seconds for one Active period. It is halted exactly once.
type tickLoop struct {
	ticker  clock.Ticker
	stop    chan struct{}
	done    chan struct{}
	once    sync.Once
	elapsed atomic.Int64
}

func startTickLoop(clk clock.Clock) *tickLoop {
	l := &tickLoop{
		ticker: clk.NewTicker(time.Second),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go func() {
		defer close(l.done)
		for {
			select {
			case <-l.stop:
				return
			case <-l.ticker.C():
				l.elapsed.Add(1)
			}
		}
	}()
	return l
}

func (l *tickLoop) halt() {
	l.once.Do(func() {
		close(l.stop)
		l.ticker.Stop()
	})
	<-l.done
}

func (e *Engine) Start(entryID, bookID int64, bookTitle string) (domain.Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != domain.Idle {
		if e.entryID == entryID {
			return e.snapshotLocked(), nil
		}
		return e.snapshotLocked(), apperrors.Conflict(domain.StartConflictMessage)
	}
	e.phase = domain.Active
	e.entryID = entryID
	e.bookID = bookID
	e.bookTitle = bookTitle
	e.startedAt = e.clock.Now()
	e.proposed, e.previous = 0, 0
	e.saved = nil
	e.loop = startTickLoop(e.clock)
	e.logger.Info("reading session started", "entry_id", entryID, "book_id", bookID)
	return e.snapshotLocked(), nil
}

// RequestStop reads the progress cursor and parks the session awaiting the current page.
// The timer keeps running until the stop is confirmed.
func (e *Engine) RequestStop(ctx context.Context, entryID int64) (domain.Snapshot, error) {
	e.mu.Lock()
	if e.phase != domain.Active || e.entryID != entryID {
		e.mu.Unlock()
		return e.Snapshot(), apperrors.Conflict("No active reading session for this book.")
	}
	bookID := e.bookID
	e.mu.Unlock()

	cursor, err := e.Cursor(ctx, bookID)
	if err != nil {
		return e.Snapshot(), err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != domain.Active || e.entryID != entryID {
		return e.snapshotLocked(), apperrors.Conflict("Reading session changed while stopping.")
	}
	if known := e.known[bookID]; known > cursor {
		cursor = known
	}
	e.phase = domain.StoppingPending
	e.proposed = cursor
	e.previous = cursor
	return e.snapshotLocked(), nil
}

func (e *Engine) CancelStop() (domain.Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != domain.StoppingPending {
		return e.snapshotLocked(), apperrors.Conflict("No pending stop to cancel.")
	}
	e.phase = domain.Active
	return e.snapshotLocked(), nil
}

// ConfirmStop saves the session and marks the entry READING. On any failure the session stays
// pending with its elapsed time so the user can retry.
func (e *Engine) ConfirmStop(ctx context.Context, currentPage int) (domain.Reconciliation, []librarydto.EntryOutput, error) {
	e.mu.Lock()
	if e.phase != domain.StoppingPending {
		e.mu.Unlock()
		return domain.Reconciliation{}, nil, apperrors.Conflict("No reading session is waiting for a page number.")
	}
	if err := domain.ValidateCurrentPage(currentPage, e.previous); err != nil {
		e.mu.Unlock()
		return domain.Reconciliation{}, nil, err
	}
	entryID, bookID, previous := e.entryID, e.bookID, e.previous
	startedAt := e.startedAt
	saved := e.saved
	elapsed := e.loop.elapsed.Load()
	e.mu.Unlock()

	now := e.clock.Now()
	if saved != nil {
		currentPage = previous + saved.PagesRead
	} else {
		record, err := e.api.Create(ctx, domain.NewRecord{
			BookID:      bookID,
			SessionDate: now.Format(clock.DateLayout),
			MinutesRead: domain.MinutesFromSeconds(elapsed),
			PagesRead:   currentPage - previous,
			Note:        domain.TimerNote,
		})
		if err != nil {
			return domain.Reconciliation{}, nil, err
		}
		saved = &record
		e.mu.Lock()
		e.saved = saved
		e.mu.Unlock()
	}

	reading := "READING"
	entries, err := e.library.Update(ctx, librarydto.UpdateInput{EntryID: entryID, Status: &reading})
	if err != nil {
		return domain.Reconciliation{}, nil, err
	}

	e.mu.Lock()
	if e.phase != domain.StoppingPending || e.entryID != entryID {
		// abandoned while saving; the record exists but the state is already gone
		e.mu.Unlock()
		return domain.Reconciliation{Record: *saved, PreviousPage: previous, CurrentPage: currentPage, StartedAt: startedAt, EndedAt: now}, entries, nil
	}
	loop := e.resetLocked()
	e.known[bookID] = currentPage
	e.mu.Unlock()
	loop.halt()

	rec := domain.Reconciliation{Record: *saved, PreviousPage: previous, CurrentPage: currentPage, StartedAt: startedAt, EndedAt: now}
	e.logger.Info("reading session saved", "book_id", bookID, "minutes", rec.Record.MinutesRead, "pages", rec.Record.PagesRead)
	return rec, entries, nil
}

// Journal records rec locally. Failures are logged only.
func (e *Engine) Journal(ctx context.Context, rec domain.Reconciliation) string {
	if e.journal == nil {
		return ""
	}
	path, err := e.journal.Write(ctx, rec)
	if err != nil {
		e.logger.Warn("write reading journal", "book_id", rec.Record.BookID, "error", err)
		return ""
	}
	return path
}

// JournalNotes reads the local journal; it is empty when journaling is off.
func (e *Engine) JournalNotes(ctx context.Context, from, to string) ([]domain.JournalNote, error) {
	if e.journal == nil {
		return []domain.JournalNote{}, nil
	}
	return e.journal.List(ctx, from, to)
}

// Abandon discards any session without saving it. Cached page cursors belong to the signed-in
// account and are dropped as well.
func (e *Engine) Abandon() {
	e.mu.Lock()
	clear(e.known)
	if e.phase == domain.Idle {
		e.mu.Unlock()
		return
	}
	entryID := e.entryID
	loop := e.resetLocked()
	e.mu.Unlock()
	loop.halt()
	e.logger.Info("reading session abandoned", "entry_id", entryID)
}

func (e *Engine) Finish(ctx context.Context, entryID int64) ([]librarydto.EntryOutput, error) {
	return e.changeStatus(ctx, entryID, "FINISHED")
}

func (e *Engine) Drop(ctx context.Context, entryID int64) ([]librarydto.EntryOutput, error) {
	return e.changeStatus(ctx, entryID, "DROPPED")
}

func (e *Engine) changeStatus(ctx context.Context, entryID int64, status string) ([]librarydto.EntryOutput, error) {
	if e.Snapshot().Holds(entryID) {
		return nil, apperrors.Conflict(domain.ChangeConflictMessage)
	}
	return e.library.Update(ctx, librarydto.UpdateInput{EntryID: entryID, Status: &status})
}

func (e *Engine) Cursor(ctx context.Context, bookID int64) (int, error) {
	records, err := e.api.List(ctx, "", "")
	if err != nil {
		return 0, err
	}
	return domain.Cursor(records, bookID), nil
}

func (e *Engine) Snapshot() domain.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() domain.Snapshot {
	s := domain.Snapshot{Phase: e.phase}
	if e.phase == domain.Idle {
		return s
	}
	s.EntryID = e.entryID
	s.BookID = e.bookID
	s.BookTitle = e.bookTitle
	s.StartedAt = e.startedAt
	s.ProposedPage = e.proposed
	s.PreviousPage = e.previous
	if e.loop != nil {
		s.ElapsedSeconds = e.loop.elapsed.Load()
	}
	return s
}

// resetLocked returns to Idle and hands back the tick loop for the caller to halt outside the lock.
func (e *Engine) resetLocked() *tickLoop {
	loop := e.loop
	e.phase = domain.Idle
	e.entryID, e.bookID, e.bookTitle = 0, 0, ""
	e.startedAt = time.Time{}
	e.proposed, e.previous = 0, 0
	e.saved = nil
	e.loop = nil
	return loop
}
