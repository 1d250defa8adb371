package notification

import (
	"context"
	"strings"
	"time"

	"ifitness/api/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Notifier renders and sends the transactional emails. Delivery is best
// effort: failures are logged and counted, never returned.
type Notifier interface {
	Welcome(ctx context.Context, user *domain.User)
	Suspended(ctx context.Context, user *domain.User, reason string)
	Unsuspended(ctx context.Context, user *domain.User)
	EventInvite(ctx context.Context, users []domain.User, event *domain.Event) int
	EventReminder(ctx context.Context, users []domain.User, event *domain.Event) int
	EventJoined(ctx context.Context, user *domain.User, event *domain.Event)
}

type notifier struct {
	mailer Mailer
	appURL string
	sent   *prometheus.CounterVec // labels: template, result; may be nil
	logger *zap.Logger
}

// NewNotifier creates a Notifier. appURL is the SPA origin used in links.
func NewNotifier(mailer Mailer, appURL string, sent *prometheus.CounterVec, logger *zap.Logger) Notifier {
	return &notifier{
		mailer: mailer,
		appURL: strings.TrimRight(appURL, "/"),
		sent:   sent,
		logger: logger.Named("notifier"),
	}
}

type userData struct {
	Name   string
	AppURL string
	Reason string
}

type eventData struct {
	Name      string
	AppURL    string
	Event     *domain.Event
	KindLabel string
	Start     string
	End       string
	EventURL  string
}

const eventTimeLayout = "Mon, Jan 2 2006 15:04 MST"

func (n *notifier) eventData(user *domain.User, event *domain.Event) eventData {
	path := "/bootcamps/"
	if event.Kind == domain.KindOutdoor {
		path = "/outdoor-activities/"
	}
	return eventData{
		Name:      user.Name,
		AppURL:    n.appURL,
		Event:     event,
		KindLabel: event.Kind.Label(),
		Start:     event.StartTime.UTC().Format(eventTimeLayout),
		End:       event.EndTime.UTC().Format(eventTimeLayout),
		EventURL:  n.appURL + path + event.ID.Hex(),
	}
}

func (n *notifier) send(ctx context.Context, template, to string, data any) bool {
	msg, err := Render(template, to, data)
	if err == nil {
		// Don't let a slow provider hold the request for long.
		sendCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		err = n.mailer.Send(sendCtx, msg)
		cancel()
	}

	result := "ok"
	if err != nil {
		result = "error"
		n.logger.Warn("Failed to send email", zap.String("template", template), zap.String("to", to), zap.Error(err))
	}
	if n.sent != nil {
		n.sent.WithLabelValues(template, result).Inc()
	}
	return err == nil
}

func (n *notifier) Welcome(ctx context.Context, user *domain.User) {
	n.send(ctx, TemplateWelcome, user.Email, userData{Name: user.Name, AppURL: n.appURL})
}

func (n *notifier) Suspended(ctx context.Context, user *domain.User, reason string) {
	n.send(ctx, TemplateSuspended, user.Email, userData{Name: user.Name, AppURL: n.appURL, Reason: reason})
}

func (n *notifier) Unsuspended(ctx context.Context, user *domain.User) {
	n.send(ctx, TemplateUnsuspended, user.Email, userData{Name: user.Name, AppURL: n.appURL})
}

func (n *notifier) EventJoined(ctx context.Context, user *domain.User, event *domain.Event) {
	n.send(ctx, TemplateEventJoined, user.Email, n.eventData(user, event))
}

func (n *notifier) EventInvite(ctx context.Context, users []domain.User, event *domain.Event) int {
	return n.broadcast(ctx, TemplateEventInvite, users, event)
}

func (n *notifier) EventReminder(ctx context.Context, users []domain.User, event *domain.Event) int {
	return n.broadcast(ctx, TemplateEventReminder, users, event)
}

// broadcast sends one email per user and returns how many were delivered.
func (n *notifier) broadcast(ctx context.Context, template string, users []domain.User, event *domain.Event) int {
	delivered := 0
	for i := range users {
		if ctx.Err() != nil {
			break
		}
		if n.send(ctx, template, users[i].Email, n.eventData(&users[i], event)) {
			delivered++
		}
	}
	n.logger.Info("Broadcast finished",
		zap.String("template", template),
		zap.String("event_id", event.ID.Hex()),
		zap.Int("recipients", len(users)),
		zap.Int("delivered", delivered))
	return delivered
}
