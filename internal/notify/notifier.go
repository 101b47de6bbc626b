package notify

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/willowmere/hearth/internal/model"
	"github.com/willowmere/hearth/internal/push"
	"github.com/willowmere/hearth/internal/store"
)

// Sender delivers a single push message to one device subscription.
type Sender interface {
	Send(sub *model.DeviceSubscription, payload push.Payload) error
}

// Notifier runs an hourly sweep over due chores and pushes a reminder to each
// assignee's registered devices.
type Notifier struct {
	chores  *store.ChoreStore
	devices *store.DeviceStore
	push    Sender
	cron    *cron.Cron
	loc     *time.Location
	logger  *slog.Logger
	now     func() time.Time
}

func NewNotifier(chores *store.ChoreStore, devices *store.DeviceStore, pushSvc Sender, loc *time.Location, logger *slog.Logger) *Notifier {
	if loc == nil {
		loc = time.Local
	}
	return &Notifier{
		chores:  chores,
		devices: devices,
		push:    pushSvc,
		cron:    cron.New(cron.WithLocation(loc)),
		loc:     loc,
		logger:  logger.With("component", "notifier"),
		now:     time.Now,
	}
}

// Start schedules the hourly sweep. The first run happens at the top of the
// next hour.
func (n *Notifier) Start() error {
	if _, err := n.cron.AddFunc("0 * * * *", n.Sweep); err != nil {
		return err
	}
	n.cron.Start()
	n.logger.Info("notification sweep scheduled", "timezone", n.loc.String())
	return nil
}

// Stop halts the cron scheduler and waits for a running sweep to finish.
func (n *Notifier) Stop() {
	ctx := n.cron.Stop()
	<-ctx.Done()
}

// Sweep finds chores due within the current reminder window and sends one
// reminder per chore. A chore is skipped when it has no assignee or was
// already notified in this window. Chores are processed concurrently and a
// failure on one never blocks the others.
func (n *Notifier) Sweep() {
	now := n.now().In(n.loc)
	window := Classify(now)

	due, err := n.chores.ListDueBetween(window.Start, window.End)
	if err != nil {
		n.logger.Error("list due chores", "error", err)
		return
	}

	var wg sync.WaitGroup
	for i := range due {
		c := &due[i]
		if c.AssignedTo == nil {
			continue
		}
		if c.LastNotifiedAt != nil && !c.LastNotifiedAt.Before(window.Start) {
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			n.notifyChore(c, window, now)
		}()
	}
	wg.Wait()
}

func (n *Notifier) notifyChore(c *model.Chore, window Window, now time.Time) {
	subs, err := n.devices.ListByUser(*c.AssignedTo)
	if err != nil {
		n.logger.Error("list devices", "user", *c.AssignedTo, "error", err)
		return
	}
	if len(subs) == 0 {
		return
	}

	title, body := window.Message(c.Title)
	payload := push.Payload{
		Title: title,
		Body:  body,
		Data: push.PayloadData{
			ChoreID: c.ID,
			Window:  window.Label,
		},
	}

	sent := 0
	for i := range subs {
		if err := n.push.Send(&subs[i], payload); err != nil {
			if errors.Is(err, push.ErrExpired) {
				if derr := n.devices.DeleteByEndpoint(subs[i].Endpoint); derr != nil {
					n.logger.Error("prune expired subscription", "error", derr)
				}
				continue
			}
			n.logger.Error("send reminder", "chore", c.ID, "error", err)
			continue
		}
		sent++
	}

	if sent > 0 {
		if err := n.chores.StampNotified(c.ID, now); err != nil {
			n.logger.Error("stamp notified", "chore", c.ID, "error", err)
		}
		n.logger.Info("reminder sent", "chore", c.ID, "window", window.Label, "devices", sent)
	}
}
