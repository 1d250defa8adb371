package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"ifitness/api/internal/domain"
	"ifitness/api/internal/events"
	"ifitness/api/internal/notification"
	"ifitness/api/internal/platform/metrics"
	"ifitness/api/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var (
	ErrEventNotFound  = errors.New("event not found")
	ErrAlreadyJoined  = errors.New("you have already accepted this event")
	ErrEventFull      = errors.New("event is full")
	ErrEventClosed    = errors.New("event has already ended or was cancelled")
	ErrEventCancelled = errors.New("event is cancelled")
)

// EventInput holds the admin-editable event fields.
type EventInput struct {
	Title           string
	Description     string
	Location        string
	Difficulty      string
	StartTime       time.Time
	EndTime         time.Time
	MaxParticipants int
}

// EventView is an event with its lifecycle state computed at response time.
type EventView struct {
	domain.Event
	Status        domain.EventStatus `json:"status"`
	AcceptedCount int                `json:"acceptedCount"`
}

// EventService manages bootcamps and outdoor activities. Every method is
// scoped to one kind, so an ID of the other kind is not found.
type EventService interface {
	List(ctx context.Context, kind domain.EventKind, status domain.EventStatus) ([]EventView, error)
	// Current returns the active event, else the next upcoming one, else nil.
	Current(ctx context.Context, kind domain.EventKind) (*EventView, error)
	Mine(ctx context.Context, kind domain.EventKind, userID primitive.ObjectID) ([]EventView, error)
	Get(ctx context.Context, kind domain.EventKind, id primitive.ObjectID) (*EventView, error)

	Create(ctx context.Context, kind domain.EventKind, adminID primitive.ObjectID, in EventInput) (*EventView, error)
	Update(ctx context.Context, kind domain.EventKind, id primitive.ObjectID, in EventInput) (*EventView, error)
	Delete(ctx context.Context, kind domain.EventKind, id primitive.ObjectID) error
	Cancel(ctx context.Context, kind domain.EventKind, id primitive.ObjectID) (*EventView, error)

	Accept(ctx context.Context, kind domain.EventKind, id, userID primitive.ObjectID) (*EventView, error)
	Decline(ctx context.Context, kind domain.EventKind, id, userID primitive.ObjectID) (*EventView, error)

	// Invite emails every active user and returns how many were reached.
	Invite(ctx context.Context, kind domain.EventKind, id primitive.ObjectID) (int, error)
	// Remind emails the accepted participants and returns how many were reached.
	Remind(ctx context.Context, kind domain.EventKind, id primitive.ObjectID) (int, error)
}

type eventService struct {
	eventRepo repository.EventRepository
	userRepo  repository.UserRepository
	notifier  notification.Notifier
	publisher events.Publisher
	metrics   *metrics.Manager
	logger    *zap.Logger
	now       func() time.Time
}

func NewEventService(
	eventRepo repository.EventRepository,
	userRepo repository.UserRepository,
	notifier notification.Notifier,
	publisher events.Publisher,
	m *metrics.Manager,
	logger *zap.Logger,
) EventService {
	return &eventService{
		eventRepo: eventRepo,
		userRepo:  userRepo,
		notifier:  notifier,
		publisher: publisher,
		metrics:   m,
		logger:    logger.Named("event_service"),
		now:       time.Now,
	}
}

func (s *eventService) view(e domain.Event, now time.Time) EventView {
	if e.Participants == nil {
		e.Participants = []domain.Participant{}
	}
	return EventView{Event: e, Status: e.StatusAt(now), AcceptedCount: e.AcceptedCount()}
}

func (s *eventService) views(list []domain.Event) []EventView {
	now := s.now()
	out := make([]EventView, 0, len(list))
	for _, e := range list {
		out = append(out, s.view(e, now))
	}
	return out
}

func (s *eventService) load(ctx context.Context, kind domain.EventKind, id primitive.ObjectID) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id, kind)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

func (s *eventService) List(ctx context.Context, kind domain.EventKind, status domain.EventStatus) ([]EventView, error) {
	if status != "" && !domain.IsValidEventStatus(status) {
		return nil, validationError("unknown status %q", status)
	}
	list, err := s.eventRepo.List(ctx, domain.EventFilter{Kind: kind})
	if err != nil {
		return nil, err
	}
	all := s.views(list)
	if status == "" {
		return all, nil
	}
	filtered := make([]EventView, 0, len(all))
	for _, v := range all {
		if v.Status == status {
			filtered = append(filtered, v)
		}
	}
	return filtered, nil
}

func (s *eventService) Current(ctx context.Context, kind domain.EventKind) (*EventView, error) {
	list, err := s.eventRepo.List(ctx, domain.EventFilter{Kind: kind})
	if err != nil {
		return nil, err
	}
	now := s.now()
	current := domain.CurrentEvent(list, now)
	if current == nil {
		return nil, nil
	}
	v := s.view(*current, now)
	return &v, nil
}

func (s *eventService) Mine(ctx context.Context, kind domain.EventKind, userID primitive.ObjectID) ([]EventView, error) {
	list, err := s.eventRepo.List(ctx, domain.EventFilter{Kind: kind, ParticipantID: &userID})
	if err != nil {
		return nil, err
	}
	return s.views(list), nil
}

func (s *eventService) Get(ctx context.Context, kind domain.EventKind, id primitive.ObjectID) (*EventView, error) {
	event, err := s.load(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	v := s.view(*event, s.now())
	return &v, nil
}

func (in *EventInput) validate() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Difficulty = strings.ToLower(strings.TrimSpace(in.Difficulty))
	switch {
	case in.Title == "":
		return validationError("title is required")
	case in.StartTime.IsZero() || in.EndTime.IsZero():
		return validationError("startTime and endTime are required")
	case !in.EndTime.After(in.StartTime):
		return validationError("endTime must be after startTime")
	case in.MaxParticipants < 0:
		return validationError("maxParticipants cannot be negative")
	case in.Difficulty != "" && !domain.IsValidDifficulty(in.Difficulty):
		return validationError("difficulty must be one of beginner, intermediate, advanced")
	}
	return nil
}

func (s *eventService) Create(ctx context.Context, kind domain.EventKind, adminID primitive.ObjectID, in EventInput) (*EventView, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	event := &domain.Event{
		Kind:            kind,
		Title:           in.Title,
		Description:     in.Description,
		Location:        in.Location,
		Difficulty:      in.Difficulty,
		StartTime:       in.StartTime.UTC(),
		EndTime:         in.EndTime.UTC(),
		MaxParticipants: in.MaxParticipants,
		Participants:    []domain.Participant{},
		CreatedBy:       adminID,
	}
	if _, err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	s.logger.Info("Event created", zap.String("kind", string(kind)), zap.String("event_id", event.ID.Hex()))
	publish(ctx, s.publisher, s.logger, events.SubjectEventCreated, events.GroupEvent{
		EventID: event.ID.Hex(),
		Kind:    string(kind),
		Title:   event.Title,
	})
	v := s.view(*event, s.now())
	return &v, nil
}

func (s *eventService) Update(ctx context.Context, kind domain.EventKind, id primitive.ObjectID, in EventInput) (*EventView, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	event, err := s.load(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if event.Cancelled {
		return nil, ErrEventCancelled
	}
	if in.MaxParticipants > 0 && in.MaxParticipants < event.AcceptedCount() {
		return nil, validationError("maxParticipants is below the %d users who already accepted", event.AcceptedCount())
	}

	event.Title = in.Title
	event.Description = in.Description
	event.Location = in.Location
	event.Difficulty = in.Difficulty
	event.StartTime = in.StartTime.UTC()
	event.EndTime = in.EndTime.UTC()
	event.MaxParticipants = in.MaxParticipants

	if err := s.eventRepo.Update(ctx, event); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	v := s.view(*event, s.now())
	return &v, nil
}

func (s *eventService) Delete(ctx context.Context, kind domain.EventKind, id primitive.ObjectID) error {
	if err := s.eventRepo.Delete(ctx, id, kind); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrEventNotFound
		}
		return err
	}
	return nil
}

func (s *eventService) Cancel(ctx context.Context, kind domain.EventKind, id primitive.ObjectID) (*EventView, error) {
	if err := s.eventRepo.SetCancelled(ctx, id, kind); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return s.Get(ctx, kind, id)
}

// Accept rejects closed and full events up front. The repository repeats the
// duplicate and capacity checks atomically for concurrent accepts.
func (s *eventService) Accept(ctx context.Context, kind domain.EventKind, id, userID primitive.ObjectID) (*EventView, error) {
	event, err := s.load(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if !event.IsOpenAt(now) {
		return nil, ErrEventClosed
	}
	if p := event.Participant(userID); p != nil && p.Status == domain.ParticipantAccepted {
		return nil, ErrAlreadyJoined
	}
	if event.IsFull() {
		return nil, ErrEventFull
	}

	if err := s.eventRepo.AddAcceptance(ctx, id, kind, userID, now); err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return nil, ErrAlreadyJoined
		case errors.Is(err, repository.ErrCapacity):
			return nil, ErrEventFull
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	s.metrics.EventJoins.WithLabelValues(string(kind)).Inc()
	publish(ctx, s.publisher, s.logger, events.SubjectEventJoined, events.GroupEvent{
		EventID: id.Hex(),
		Kind:    string(kind),
		Title:   event.Title,
		UserID:  userID.Hex(),
	})
	if user, err := s.userRepo.GetByID(ctx, userID); err == nil {
		s.notifier.EventJoined(ctx, user, event)
	} else {
		s.logger.Warn("Could not load user for join confirmation", zap.String("user_id", userID.Hex()), zap.Error(err))
	}

	return s.Get(ctx, kind, id)
}

func (s *eventService) Decline(ctx context.Context, kind domain.EventKind, id, userID primitive.ObjectID) (*EventView, error) {
	event, err := s.load(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if !event.IsOpenAt(now) {
		return nil, ErrEventClosed
	}
	if err := s.eventRepo.SetDecline(ctx, id, kind, userID, now); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return s.Get(ctx, kind, id)
}

func (s *eventService) Invite(ctx context.Context, kind domain.EventKind, id primitive.ObjectID) (int, error) {
	event, err := s.load(ctx, kind, id)
	if err != nil {
		return 0, err
	}
	if !event.IsOpenAt(s.now()) {
		return 0, ErrEventClosed
	}
	users, err := s.userRepo.ListActive(ctx)
	if err != nil {
		return 0, err
	}
	return s.notifier.EventInvite(ctx, users, event), nil
}

func (s *eventService) Remind(ctx context.Context, kind domain.EventKind, id primitive.ObjectID) (int, error) {
	event, err := s.load(ctx, kind, id)
	if err != nil {
		return 0, err
	}
	if !event.IsOpenAt(s.now()) {
		return 0, ErrEventClosed
	}
	users, err := s.userRepo.GetByIDs(ctx, event.AcceptedUserIDs())
	if err != nil {
		return 0, err
	}
	active := users[:0]
	for _, u := range users {
		if !u.Suspended {
			active = append(active, u)
		}
	}
	return s.notifier.EventReminder(ctx, active, event), nil
}
