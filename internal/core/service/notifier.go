package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/trinv/stockroom/internal/core/domain"
	"github.com/trinv/stockroom/internal/port"
)

const notifierPersistTimeout = 5 * time.Second

// Notifier persists notifications off the request path. Producers publish
// onto a buffered queue and a small worker pool writes the records; the
// component is created in main and shut down with the process, so there is
// no package-level channel state.
type Notifier struct {
	repo  port.NotificationRepository
	log   *logrus.Logger
	queue chan domain.Notification
	wg    sync.WaitGroup
}

func NewNotifier(repo port.NotificationRepository, log *logrus.Logger, workers, queueSize int) *Notifier {
	if workers < 1 {
		workers = 1
	}
	n := &Notifier{
		repo:  repo,
		log:   log,
		queue: make(chan domain.Notification, queueSize),
	}
	for i := 0; i < workers; i++ {
		n.wg.Add(1)
		go func(id int) {
			defer n.wg.Done()
			n.workerLoop(id)
		}(i)
	}
	return n
}

// Publish enqueues a notification. It never blocks the caller: when the
// queue is full the notification is dropped with a warning, since losing a
// low-stock alert is preferable to stalling a sale.
func (n *Notifier) Publish(notif domain.Notification) {
	if notif.ID == "" {
		notif.ID = uuid.NewString()
	}
	if notif.CreatedAt.IsZero() {
		notif.CreatedAt = time.Now()
	}

	select {
	case n.queue <- notif:
	default:
		n.log.WithFields(logrus.Fields{
			"type":   notif.Type,
			"itemId": notif.ItemID,
		}).Warn("notification queue full, dropping")
	}
}

// Close stops accepting notifications and waits for the workers to drain
// what is already queued.
func (n *Notifier) Close() {
	close(n.queue)
	n.wg.Wait()
}

func (n *Notifier) workerLoop(id int) {
	for notif := range n.queue {
		ctx, cancel := context.WithTimeout(context.Background(), notifierPersistTimeout)
		if err := n.repo.Create(ctx, &notif); err != nil {
			n.log.WithFields(logrus.Fields{
				"worker": id,
				"type":   notif.Type,
				"itemId": notif.ItemID,
			}).WithError(err).Error("failed to persist notification")
		}
		cancel()
	}
}
