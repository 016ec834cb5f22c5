package backup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"moneta/internal/api"
	"moneta/internal/config"
	"moneta/internal/core"
	"moneta/internal/events"
	"moneta/internal/storage"
)

// State is the engine's import lifecycle position. Transitions happen only
// through exported methods: Stage moves to StateStaged, Apply moves through
// StateApplying to StateDone or StateFailed, Cancel returns to StateIdle.
type State string

const (
	StateIdle     State = "idle"
	StateStaged   State = "staged"
	StateApplying State = "applying"
	StateDone     State = "done"
	StateFailed   State = "failed"
)

var (
	ErrNothingStaged = errors.New("no pending import staged")
	ErrApplyInFlight = errors.New("an import is already being applied")
)

// Progress reports one restored record during apply: the phase currently
// running and how many records of the fixed total are done.
type Progress struct {
	Phase string
	Done  int
	Total int
}

// Engine exports, stages and restores backup documents against the remote
// store. The archive and publisher are optional; a nil value disables the
// corresponding side channel.
type Engine struct {
	store   api.Store
	prefs   config.Preferences
	archive *storage.Archive
	pub     *events.Publisher
	now     func() time.Time

	mu      sync.Mutex
	state   State
	pending *Document
	// busy is held for the full duration of Apply and ClearAll so the two
	// destructive operations cannot interleave their deletes.
	busy bool
}

func NewEngine(store api.Store, prefs config.Preferences, archive *storage.Archive, pub *events.Publisher) *Engine {
	return &Engine{
		store:   store,
		prefs:   prefs,
		archive: archive,
		pub:     pub,
		now:     time.Now,
		state:   StateIdle,
	}
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Pending reports the staged document's record counts, if one is staged.
func (e *Engine) Pending() (Counts, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pending == nil {
		return Counts{}, false
	}
	return e.pending.Counts(), true
}

// Export reads all three record sets concurrently and wraps them in a
// document with the current preferences as metadata. Any failing read
// aborts the whole export; no partial document is ever produced. Export
// never mutates remote state.
func (e *Engine) Export(ctx context.Context) (*Document, error) {
	started := e.now()
	doc := &Document{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		expenses, err := e.store.ListExpenses(gctx)
		if err != nil {
			return fmt.Errorf("fetch expenses: %w", err)
		}
		doc.Expenses = expenses
		return nil
	})
	g.Go(func() error {
		budgets, err := e.store.ListBudgets(gctx)
		if err != nil {
			return fmt.Errorf("fetch budgets: %w", err)
		}
		doc.Budgets = budgets
		return nil
	})
	g.Go(func() error {
		savings, err := e.store.ListSavings(gctx)
		if err != nil {
			return fmt.Errorf("fetch savings: %w", err)
		}
		doc.Savings = savings
		return nil
	})
	if err := g.Wait(); err != nil {
		e.recordRun(ctx, events.KindExport, Counts{}, started, err)
		return nil, err
	}

	doc.Meta = &Meta{
		ExportedAt:   e.now().UTC(),
		Currency:     e.prefs.Currency,
		DateFormat:   e.prefs.DateFormat,
		NumberFormat: e.prefs.NumberFormat,
		FirstDay:     e.prefs.FirstDay,
		App:          "moneta",
	}

	e.recordRun(ctx, events.KindExport, doc.Counts(), started, nil)
	return doc, nil
}

// ExportJSON serializes a fresh export for download. Callers that need both
// the document and its serialized form should call Export once and encode
// the result with Document.JSON, not run two exports.
func (e *Engine) ExportJSON(ctx context.Context) ([]byte, error) {
	doc, err := e.Export(ctx)
	if err != nil {
		return nil, err
	}
	return doc.JSON()
}

// Stage validates a candidate document and holds it as the pending import.
// Nothing is applied until an explicit Apply; an invalid document is
// rejected here with zero remote calls made.
func (e *Engine) Stage(data []byte) (Counts, error) {
	doc, err := Parse(data)
	if err != nil {
		return Counts{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.busy {
		return Counts{}, ErrApplyInFlight
	}
	e.pending = doc
	e.state = StateStaged
	return doc.Counts(), nil
}

// Cancel discards the pending import.
func (e *Engine) Cancel() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.busy {
		return ErrApplyInFlight
	}
	e.pending = nil
	e.state = StateIdle
	return nil
}

// Apply replaces all remote records with the pending document: every
// current record is deleted (concurrently per category), then the
// document's records are recreated sequentially in the order expenses,
// budgets, savings. onProgress, when non-nil, is invoked after every
// restored record; the total is fixed before recreation starts.
//
// There is no rollback. A failure partway leaves the remote data in a mixed
// state; the error names the failing phase, the run halts and the pending
// document is kept so the user can retry after resolving the cause. Only a
// completed apply clears the pending document.
func (e *Engine) Apply(ctx context.Context, onProgress func(Progress)) error {
	e.mu.Lock()
	if e.busy {
		e.mu.Unlock()
		return ErrApplyInFlight
	}
	if e.pending == nil {
		e.mu.Unlock()
		return ErrNothingStaged
	}
	doc := e.pending
	e.busy = true
	e.state = StateApplying
	e.mu.Unlock()

	started := e.now()
	err := e.restore(ctx, doc, onProgress)

	e.mu.Lock()
	e.busy = false
	if err != nil {
		e.state = StateFailed
	} else {
		e.pending = nil
		e.state = StateDone
	}
	e.mu.Unlock()

	e.recordRun(ctx, events.KindImport, doc.Counts(), started, err)
	return err
}

func (e *Engine) restore(ctx context.Context, doc *Document, onProgress func(Progress)) error {
	if _, err := e.deleteAll(ctx); err != nil {
		return err
	}

	total := doc.Counts().Total()
	done := 0
	advance := func(phase string) {
		done++
		if onProgress != nil {
			onProgress(Progress{Phase: phase, Done: done, Total: total})
		}
	}

	// Only the recognized fields are carried over; IDs are reassigned by
	// the server and anything else the document contained is dropped.
	for _, x := range doc.Expenses {
		rec := core.Expense{
			Date:        x.Date,
			Category:    x.Category,
			Description: x.Description,
			Amount:      x.Amount,
		}
		if _, err := e.store.CreateExpense(ctx, rec); err != nil {
			return fmt.Errorf("restore expenses: %w", err)
		}
		advance("expenses")
	}

	for _, b := range doc.Budgets {
		rec := core.Budget{Category: b.Category, Limit: b.Limit}
		if _, err := e.store.CreateBudget(ctx, rec); err != nil {
			return fmt.Errorf("restore budgets: %w", err)
		}
		advance("budgets")
	}

	// Savings need the freshly assigned ID for the follow-up progress
	// update, which forces this phase to stay sequential.
	for _, s := range doc.Savings {
		created, err := e.store.CreateSaving(ctx, core.Saving{Name: s.Name, Target: s.Target})
		if err != nil {
			return fmt.Errorf("restore savings: %w", err)
		}
		restored := created
		restored.Current = s.Current
		restored = restored.ClampCurrent()
		if restored.Current.IsPositive() {
			if err := e.store.UpdateSaving(ctx, restored); err != nil {
				return fmt.Errorf("restore savings: %w", err)
			}
		}
		advance("savings")
	}
	return nil
}

// ClearAll deletes every remote record with no restore step. Confirmation
// is the caller's responsibility; the engine just does the work. ClearAll
// and Apply are mutually exclusive for their whole duration.
func (e *Engine) ClearAll(ctx context.Context) error {
	e.mu.Lock()
	if e.busy {
		e.mu.Unlock()
		return ErrApplyInFlight
	}
	e.busy = true
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		e.busy = false
		e.mu.Unlock()
	}()

	started := e.now()
	deleted, err := e.deleteAll(ctx)
	e.recordRun(ctx, events.KindClear, deleted, started, err)
	return err
}

// deleteAll removes every current record. The three categories run
// concurrently with no ordering among them; within a category, records go
// one by one in whatever order the listing returned. A failure leaves a
// mixed state by design: the error is surfaced and nothing is rolled back.
func (e *Engine) deleteAll(ctx context.Context) (Counts, error) {
	var deleted Counts

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		expenses, err := e.store.ListExpenses(gctx)
		if err != nil {
			return fmt.Errorf("fetch expenses: %w", err)
		}
		for _, x := range expenses {
			if err := e.store.DeleteExpense(gctx, x.ID); err != nil {
				return fmt.Errorf("delete expenses: %w", err)
			}
			deleted.Expenses++
		}
		return nil
	})
	g.Go(func() error {
		budgets, err := e.store.ListBudgets(gctx)
		if err != nil {
			return fmt.Errorf("fetch budgets: %w", err)
		}
		for _, b := range budgets {
			if err := e.store.DeleteBudget(gctx, b.ID); err != nil {
				return fmt.Errorf("delete budgets: %w", err)
			}
			deleted.Budgets++
		}
		return nil
	})
	g.Go(func() error {
		savings, err := e.store.ListSavings(gctx)
		if err != nil {
			return fmt.Errorf("fetch savings: %w", err)
		}
		for _, s := range savings {
			if err := e.store.DeleteSaving(gctx, s.ID); err != nil {
				return fmt.Errorf("delete savings: %w", err)
			}
			deleted.Savings++
		}
		return nil
	})
	err := g.Wait()
	return deleted, err
}

// recordRun writes the run to the local archive and publishes a lifecycle
// message. Both are advisory; failures are logged and never affect the
// operation's outcome.
func (e *Engine) recordRun(ctx context.Context, kind string, counts Counts, started time.Time, runErr error) {
	status := events.StatusCompleted
	errText := ""
	if runErr != nil {
		status = events.StatusFailed
		errText = runErr.Error()
	}

	if e.archive != nil {
		run := storage.Run{
			Kind:       kind,
			Status:     status,
			Expenses:   counts.Expenses,
			Budgets:    counts.Budgets,
			Savings:    counts.Savings,
			Error:      errText,
			StartedAt:  started,
			FinishedAt: e.now(),
		}
		if err := e.archive.RecordRun(ctx, run); err != nil {
			slog.WarnContext(ctx, "Failed to record backup run", "kind", kind, "error", err)
		}
	}

	if e.pub != nil {
		msg := events.NewRunMessage(kind, status)
		msg.Expenses = counts.Expenses
		msg.Budgets = counts.Budgets
		msg.Savings = counts.Savings
		msg.Error = errText
		if err := e.pub.PublishRun(ctx, msg); err != nil {
			slog.WarnContext(ctx, "Failed to publish run message", "kind", kind, "error", err)
		}
	}
}
