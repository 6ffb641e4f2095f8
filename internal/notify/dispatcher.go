package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"badbaado/internal/platform/metrics"
	"badbaado/internal/user"
)

const (
	outcomeSent    = "sent"
	outcomeFailed  = "failed"
	outcomeDropped = "dropped"
)

// Recipient is an addressable party outside the donor pool, such as an admin.
type Recipient struct {
	ID    uuid.UUID
	Phone string
}

// Dispatcher routes notifications to the outbound transport and records inbox
// entries for recipients with accounts. Donor and requester sends are
// synchronous because callers report their outcome; admin sends go through the
// outbox channel and a background worker.
type Dispatcher struct {
	sender  Sender
	store   Store
	breaker *CircuitBreaker
	outbox  chan Message
	workers int
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewDispatcher(sender Sender, store Store, breaker *CircuitBreaker, bufferSize, workers int, m *metrics.Metrics, logger *slog.Logger) *Dispatcher {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	if workers <= 0 {
		workers = 4
	}
	return &Dispatcher{
		sender:  sender,
		store:   store,
		breaker: breaker,
		outbox:  make(chan Message, bufferSize),
		workers: workers,
		metrics: m,
		logger:  logger,
	}
}

// NotifyDonors fans a match alert out to every eligible donor. Each donor gets
// an independent outcome; one failed send never blocks the rest.
func (d *Dispatcher) NotifyDonors(ctx context.Context, req RequestInfo, donors []*user.User) []DonorResult {
	results := make([]DonorResult, len(donors))
	body := donorMatchBody(req)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workers)
	for i, donor := range donors {
		g.Go(func() error {
			msg := Message{
				Recipient: donor.Phone,
				Body:      body,
				Kind:      KindDonorMatch,
				UserID:    donor.ID,
			}
			err := d.deliver(gctx, msg)
			results[i] = DonorResult{
				DonorID: donor.ID,
				Phone:   donor.Phone,
				Success: err == nil,
			}
			if err != nil {
				results[i].ErrorMsg = err.Error()
			}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// NotifyRequester tells the requester their request was approved. The return
// flag feeds the approval response; a failed send does not fail the approval.
func (d *Dispatcher) NotifyRequester(ctx context.Context, req RequestInfo) bool {
	msg := Message{
		Recipient: req.Phone,
		Body:      approvalBody(req),
		Kind:      KindApproval,
	}
	if err := d.deliver(ctx, msg); err != nil {
		d.logger.WarnContext(ctx, "requester notification failed",
			"request_id", req.ID, "error", err)
		return false
	}
	return true
}

// NotifyDonorResponse tells the requester a donor accepted, sharing the
// donor's contact details.
func (d *Dispatcher) NotifyDonorResponse(ctx context.Context, donor *user.User, req RequestInfo) bool {
	msg := Message{
		Recipient: req.Phone,
		Body:      donorResponseBody(donor, req),
		Kind:      KindDonorResponse,
	}
	if err := d.deliver(ctx, msg); err != nil {
		d.logger.WarnContext(ctx, "donor response notification failed",
			"request_id", req.ID, "donor_id", donor.ID, "error", err)
		return false
	}
	return true
}

// NotifyAdmins queues a new-request alert for every admin. Queuing never
// blocks request creation: when the outbox is full the message is dropped and
// counted.
func (d *Dispatcher) NotifyAdmins(ctx context.Context, req RequestInfo, admins []Recipient) {
	body := newRequestBody(req)
	for _, a := range admins {
		msg := Message{
			Recipient: a.Phone,
			Body:      body,
			Kind:      KindNewRequest,
			UserID:    a.ID,
		}
		select {
		case d.outbox <- msg:
		default:
			d.metrics.NotificationsSent.WithLabelValues(string(msg.Kind), outcomeDropped).Inc()
			d.logger.WarnContext(ctx, "notification outbox full, dropping",
				"recipient", a.Phone, "kind", string(msg.Kind))
		}
	}
}

// Run consumes the outbox until ctx is cancelled, then drains whatever is
// already queued before returning.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return d.drain()
		case msg := <-d.outbox:
			d.sendQueued(msg)
		}
	}
}

func (d *Dispatcher) drain() error {
	for {
		select {
		case msg := <-d.outbox:
			d.sendQueued(msg)
		default:
			return nil
		}
	}
}

func (d *Dispatcher) sendQueued(msg Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := d.deliver(ctx, msg); err != nil {
		d.logger.Warn("queued notification failed",
			"recipient", msg.Recipient, "kind", string(msg.Kind), "error", err)
	}
}

// deliver sends one message through the breaker and records an inbox entry
// for recipients with an account. Inbox writes are best effort.
func (d *Dispatcher) deliver(ctx context.Context, msg Message) error {
	if !d.breaker.Allow() {
		d.metrics.NotificationsSent.WithLabelValues(string(msg.Kind), outcomeDropped).Inc()
		return ErrCircuitOpen
	}

	if err := d.sender.Send(ctx, msg); err != nil {
		d.breaker.RecordFailure()
		d.metrics.NotificationsSent.WithLabelValues(string(msg.Kind), outcomeFailed).Inc()
		return err
	}
	d.breaker.RecordSuccess()
	d.metrics.NotificationsSent.WithLabelValues(string(msg.Kind), outcomeSent).Inc()

	if msg.UserID != uuid.Nil {
		n := &Notification{
			ID:        uuid.New(),
			UserID:    msg.UserID,
			Title:     titleFor(msg.Kind),
			Body:      msg.Body,
			Kind:      msg.Kind,
			CreatedAt: time.Now(),
		}
		if err := d.store.Create(ctx, n); err != nil {
			d.logger.WarnContext(ctx, "inbox record failed",
				"user_id", msg.UserID, "error", err)
		}
	}
	return nil
}

func titleFor(kind Kind) string {
	switch kind {
	case KindNewRequest:
		return "New blood request"
	case KindDonorMatch:
		return "Blood donation needed"
	case KindApproval:
		return "Request approved"
	case KindDonorResponse:
		return "Donor accepted your request"
	default:
		return "Notification"
	}
}
