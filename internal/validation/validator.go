// Package validation implements the debounced uniqueness checks that gate
// the radio creation form: a field's check is rescheduled on every keystroke
// after a quiet period, and only the check for the most recent input may
// update the field's state.
package validation

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode"
)

// Status is the tri-state (plus idle) outcome of a field check.
type Status string

const (
	StatusIdle     Status = "idle"
	StatusChecking Status = "checking"
	StatusValid    Status = "valid"
	StatusInvalid  Status = "invalid"
)

// DefaultQuietPeriod is the debounce window between the last keystroke and
// the lookup.
const DefaultQuietPeriod = 500 * time.Millisecond

// Result is the field state consumed by the form.
type Result struct {
	Status  Status `json:"status"`
	Message string `json:"message"`
}

// Messages hold the user-facing strings per field.
type Messages struct {
	Checking    string
	Available   string
	InUse       string
	CheckFailed string
}

// RadioIDMessages are the strings for the four-digit ID field.
var RadioIDMessages = Messages{
	Checking:    "Controleren...",
	Available:   "ID is beschikbaar",
	InUse:       "Dit ID is al in gebruik",
	CheckFailed: "Fout bij controleren",
}

// SerialMessages are the strings for the serial-number field.
var SerialMessages = Messages{
	Checking:    "Controleren...",
	Available:   "Serienummer is beschikbaar",
	InUse:       "Dit serienummer is al in gebruik",
	CheckFailed: "Fout bij controleren",
}

// Lookup reports whether a record with the candidate value already exists.
type Lookup func(ctx context.Context, value string) (found bool, err error)

// Check performs one synchronous uniqueness check. An existing record means
// invalid; a transport failure is also invalid (fail-closed).
func Check(ctx context.Context, lookup Lookup, value string, msgs Messages) Result {
	found, err := lookup(ctx, value)
	if err != nil {
		return Result{Status: StatusInvalid, Message: msgs.CheckFailed}
	}
	if found {
		return Result{Status: StatusInvalid, Message: msgs.InUse}
	}
	return Result{Status: StatusValid, Message: msgs.Available}
}

// NormalizeRadioID keeps only digits and truncates to four characters,
// mirroring the form's input constraint.
func NormalizeRadioID(value string) string {
	var b strings.Builder
	for _, r := range value {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
		if b.Len() == 4 {
			break
		}
	}
	return b.String()
}

// AcceptRadioID requires exactly four digits before a check is scheduled.
func AcceptRadioID(value string) bool { return len(value) == 4 }

// NormalizeSerial uppercases the input; serials are stored and compared in
// uppercase form.
func NormalizeSerial(value string) string { return strings.ToUpper(strings.TrimSpace(value)) }

// AcceptSerial schedules a check for any non-empty serial.
func AcceptSerial(value string) bool { return value != "" }

// FieldValidator is the per-field state machine:
// idle → checking → {valid|invalid}, back to idle when the input is cleared
// or too short. Each Input call increments a generation counter; a completing
// lookup applies its result only if its captured generation still matches,
// so a stale in-flight check can never overwrite a newer state.
type FieldValidator struct {
	lookup    Lookup
	normalize func(string) string
	accept    func(string) bool
	msgs      Messages
	quiet     time.Duration
	notify    func(Result)

	mu         sync.Mutex
	generation uint64
	timer      *time.Timer
	state      Result
	closed     bool
}

// Config assembles a FieldValidator.
type Config struct {
	Lookup    Lookup
	Normalize func(string) string
	Accept    func(string) bool
	Messages  Messages
	Quiet     time.Duration // DefaultQuietPeriod when zero
	Notify    func(Result)  // called on every state change, may be nil
}

func NewFieldValidator(cfg Config) *FieldValidator {
	if cfg.Quiet == 0 {
		cfg.Quiet = DefaultQuietPeriod
	}
	if cfg.Normalize == nil {
		cfg.Normalize = func(s string) string { return s }
	}
	if cfg.Accept == nil {
		cfg.Accept = func(s string) bool { return s != "" }
	}
	return &FieldValidator{
		lookup:    cfg.Lookup,
		normalize: cfg.Normalize,
		accept:    cfg.Accept,
		msgs:      cfg.Messages,
		quiet:     cfg.Quiet,
		notify:    cfg.Notify,
		state:     Result{Status: StatusIdle},
	}
}

// Input feeds a keystroke's resulting value. The normalized value is
// returned so the form can echo the constrained input. A pending check for a
// superseded value is cancelled.
func (v *FieldValidator) Input(value string) string {
	normalized := v.normalize(value)

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return normalized
	}

	v.generation++
	gen := v.generation
	if v.timer != nil {
		v.timer.Stop()
		v.timer = nil
	}

	if !v.accept(normalized) {
		v.setStateLocked(Result{Status: StatusIdle})
		return normalized
	}

	v.timer = time.AfterFunc(v.quiet, func() {
		v.run(gen, normalized)
	})
	return normalized
}

// State returns the current field state.
func (v *FieldValidator) State() Result {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Close cancels any pending debounce timer; called when the owning form is
// torn down. An already-issued lookup is not cancelled, its result is
// discarded by the generation check.
func (v *FieldValidator) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed = true
	if v.timer != nil {
		v.timer.Stop()
		v.timer = nil
	}
}

func (v *FieldValidator) run(gen uint64, value string) {
	v.mu.Lock()
	if v.closed || gen != v.generation {
		v.mu.Unlock()
		return
	}
	v.setStateLocked(Result{Status: StatusChecking, Message: v.msgs.Checking})
	v.mu.Unlock()

	result := Check(context.Background(), v.lookup, value, v.msgs)

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed || gen != v.generation {
		return
	}
	v.setStateLocked(result)
}

func (v *FieldValidator) setStateLocked(r Result) {
	v.state = r
	if v.notify != nil {
		v.notify(r)
	}
}
