package contact

import (
	"context"
	"errors"
	"time"
)

// Status texts shown after a submission.
const (
	StatusSent   = "MESSAGE SENT SUCCESSFULLY"
	StatusFailed = "FAILED TO SEND. TRY AGAIN."
)

// StatusDisplayTime is how long a status stays visible.
const StatusDisplayTime = 5 * time.Second

// ErrNoSender is reported by Submit on a form created without a Sender.
var ErrNoSender = errors.New("form has no sender")

// Sender delivers a submission. *Client implements it.
type Sender interface {
	Send(ctx context.Context, s Submission) (*Response, error)
}

// Form is the contact form state. It is owned by the game loop: Submit and
// Poll must be called from the same goroutine. The only concurrency is the
// request goroutine started by Submit, which hands its result back through
// a buffered channel read by Poll.
type Form struct {
	Email   string
	Message string

	sender     Sender
	submitting bool
	result     chan error

	// waited holds a result already received by Wait but not yet applied.
	waited    bool
	waitedErr error

	status  string
	ok      bool
	shownAt time.Time
	lastErr error
}

// NewForm creates an empty form that submits through sender.
func NewForm(sender Sender) *Form {
	return &Form{sender: sender}
}

// Submitting reports whether a request is in flight. The submit control is
// disabled while this is true.
func (f *Form) Submitting() bool {
	return f.submitting
}

// Status returns the visible status text and whether it reports success.
// The text is empty when no status is shown.
func (f *Form) Status() (text string, ok bool) {
	return f.status, f.ok
}

// LastError returns the error behind the most recent failure status.
func (f *Form) LastError() error {
	return f.lastErr
}

// Submit validates the fields. On failure it shows the failure status
// immediately and makes no request, as it does when the form has no
// Sender. Otherwise it starts the request on a goroutine and returns true. Submit is ignored while a request is in
// flight.
func (f *Form) Submit(ctx context.Context, now time.Time) bool {
	if f.submitting {
		return false
	}
	sub := Submission{Email: f.Email, Message: f.Message}
	if err := sub.Validate(); err != nil {
		f.show(StatusFailed, false, err, now)
		return false
	}
	if f.sender == nil {
		f.show(StatusFailed, false, ErrNoSender, now)
		return false
	}

	f.submitting = true
	f.result = make(chan error, 1)
	sender := f.sender
	go func(ch chan<- error) {
		_, err := sender.Send(ctx, sub)
		ch <- err
	}(f.result)
	return true
}

// Poll applies a finished request, if any, and hides a status that has been
// shown for StatusDisplayTime. Call once per frame.
func (f *Form) Poll(now time.Time) {
	if f.submitting {
		switch {
		case f.waited:
			f.finish(f.waitedErr, now)
		default:
			select {
			case err := <-f.result:
				f.finish(err, now)
			default:
			}
		}
	}
	if f.status != "" && now.Sub(f.shownAt) >= StatusDisplayTime {
		f.status = ""
	}
}

// Wait blocks until the in-flight request, if any, has finished. The result
// is applied by the next Poll.
func (f *Form) Wait() {
	if !f.submitting || f.waited {
		return
	}
	f.waitedErr = <-f.result
	f.waited = true
}

func (f *Form) finish(err error, now time.Time) {
	f.submitting = false
	f.waited = false
	f.waitedErr = nil
	f.result = nil
	if err != nil {
		f.show(StatusFailed, false, err, now)
		return
	}
	f.Email = ""
	f.Message = ""
	f.show(StatusSent, true, nil, now)
}

func (f *Form) show(text string, ok bool, err error, now time.Time) {
	f.status = text
	f.ok = ok
	f.lastErr = err
	f.shownAt = now
}
