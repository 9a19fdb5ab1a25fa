// Package workflow orchestrates a single payment event across the record
// store, the notification dispatcher and the receipt generator. The ledger
// write is the durability boundary: it alone is transactional, and the two
// downstream steps are best-effort flags that can never roll it back.
package workflow

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Jacksonnavigator/School-Fee-Payment-Update/internal/store"
)

// ErrUnknownForm means a committed payment references a form that is not
// in the fee structure. That is a configuration error and is surfaced
// together with the committed outcome, never masked.
var ErrUnknownForm = errors.New("form not present in fee structure")

// PersistenceError wraps a storage failure during the payment write. The
// payment did NOT happen; the operator may safely retry the whole workflow.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("payment not recorded: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Notifier is the parent-notification side channel.
type Notifier interface {
	Notify(name, form, email string, amount, newTotal, requiredFee int64) bool
}

// ReceiptWriter renders the payment receipt document.
type ReceiptWriter interface {
	Generate(studentID uint, name, form string, amount, newTotal, requiredFee int64, reference string) (string, error)
}

// Outcome is the composite result of one payment invocation. Committed
// reflects the durable state; Notified and ReceiptGenerated are the
// independent side-effect flags the caller must present as a partial
// success when false.
type Outcome struct {
	Committed        bool
	Notified         bool
	ReceiptGenerated bool
	NewTotal         int64
	RemainingBalance int64
	Reference        string
	ReceiptPath      string
}

// Processor is a stateless orchestrator; every invocation works on values
// fetched from and written to the store.
type Processor struct {
	store    *store.Store
	notifier Notifier
	receipts ReceiptWriter
	fees     map[string]int64
	log      *slog.Logger
}

func NewProcessor(s *store.Store, n Notifier, r ReceiptWriter, fees map[string]int64, log *slog.Logger) *Processor {
	return &Processor{store: s, notifier: n, receipts: r, fees: fees, log: log}
}

// ProcessPayment runs the linear payment sequence.
//
// Before the ledger write, every failure means nothing happened: unknown
// student (store.ErrNotFound), bad amount (store.ErrInvalidAmount) and
// storage faults (*PersistenceError) all leave the store untouched. Once
// the write succeeds the payment is committed regardless of what the
// notification or receipt steps do; their failures are logged and turned
// into flags on the outcome. It is not restartable mid-way: re-invoking
// the workflow after a committed payment would double-charge, so the
// operator retries only the failed downstream step.
func (p *Processor) ProcessPayment(studentID uint, amount int64) (*Outcome, error) {
	student, err := p.store.GetStudent(studentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, &PersistenceError{Err: err}
	}

	if amount <= 0 {
		return nil, store.ErrInvalidAmount
	}

	res, err := p.store.RecordPayment(studentID, amount)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrInvalidAmount) {
			return nil, err
		}
		return nil, &PersistenceError{Err: err}
	}

	out := &Outcome{
		Committed: true,
		NewTotal:  res.NewTotal,
		Reference: res.Reference,
	}

	required, ok := p.fees[student.Form]
	if !ok {
		p.log.Error("form missing from fee structure", "form", student.Form, "student_id", studentID)
		return out, fmt.Errorf("%w: %q", ErrUnknownForm, student.Form)
	}
	out.RemainingBalance = required - res.NewTotal

	out.Notified = p.notifier.Notify(student.Name, student.Form, student.ParentEmail, amount, res.NewTotal, required)
	if !out.Notified {
		p.log.Warn("payment committed but notification failed", "student_id", studentID, "reference", res.Reference)
	}

	path, err := p.receipts.Generate(studentID, student.Name, student.Form, amount, res.NewTotal, required, res.Reference)
	if err != nil {
		p.log.Warn("payment committed but receipt generation failed", "student_id", studentID, "reference", res.Reference, "error", err)
	} else {
		out.ReceiptGenerated = true
		out.ReceiptPath = path
	}

	return out, nil
}
