package leave

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"leavemgmt/internal/domain/listing"
	"leavemgmt/internal/domain/policy"
	"leavemgmt/internal/platform/apperror"
)

const recentLimit = 5

// Recorder receives leave lifecycle events for metrics.
type Recorder interface {
	LeaveCreated(leaveType string)
	LeaveDecided(status string)
	LeaveDeleted()
}

type nopRecorder struct{}

func (nopRecorder) LeaveCreated(string) {}
func (nopRecorder) LeaveDecided(string) {}
func (nopRecorder) LeaveDeleted()       {}

type Service struct {
	store    StoreAPI
	policy   *policy.Policy
	recorder Recorder
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(store StoreAPI, p *policy.Policy, recorder Recorder, logger *zap.Logger) *Service {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if logger == nil {
		logger = zap.L()
	}
	return &Service{
		store:    store,
		policy:   p,
		recorder: recorder,
		logger:   logger.Named("leave.service"),
		now:      time.Now,
	}
}

type ListPage struct {
	Leaves     []Leave            `json:"leaves"`
	Pagination listing.Pagination `json:"pagination"`
}

func (s *Service) List(ctx context.Context, actor policy.Actor, filter listing.Filter, page listing.Page) (ListPage, error) {
	if err := s.policy.Can(actor, policy.LeaveList, nil); err != nil {
		return ListPage{}, err
	}
	// Validate after scoping so ignored fields cannot fail the request.
	filter = policy.ScopeLeaves(actor, filter)
	if err := filter.Validate(); err != nil {
		return ListPage{}, err
	}
	result, err := s.store.List(ctx, filter, page)
	if err != nil {
		return ListPage{}, s.unexpected("Failed to fetch leaves", err)
	}
	return ListPage{Leaves: result.Leaves, Pagination: listing.NewPagination(page, result.Total)}, nil
}

// Create files a leave for the actor. The owner is always the actor.
func (s *Service) Create(ctx context.Context, actor policy.Actor, input CreateInput) (Leave, error) {
	if err := s.policy.Can(actor, policy.LeaveCreate, nil); err != nil {
		return Leave{}, err
	}
	// The stored reason is the one that was measured.
	input.Reason = strings.TrimSpace(input.Reason)

	// Reject obviously bad payloads before taking the owner lock.
	now := s.now()
	if _, err := ValidateCreate(input, now, nil); err != nil {
		return Leave{}, err
	}

	created, err := s.store.CreateExclusive(ctx, actor.ID, func(active []Period) (Leave, error) {
		days, err := ValidateCreate(input, now, active)
		if err != nil {
			return Leave{}, err
		}
		return Leave{
			ID:        uuid.NewString(),
			UserID:    actor.ID,
			LeaveType: input.LeaveType,
			StartDate: NewDate(input.StartDate),
			EndDate:   NewDate(input.EndDate),
			TotalDays: days,
			Reason:    input.Reason,
			Status:    StatusPending,
			CreatedAt: now.UTC(),
			UpdatedAt: now.UTC(),
		}, nil
	})
	if err != nil {
		var appErr *apperror.Error
		if errors.As(err, &appErr) {
			return Leave{}, err
		}
		return Leave{}, s.unexpected("Failed to submit leave request", err)
	}

	s.recorder.LeaveCreated(string(created.LeaveType))
	s.logger.Info("leave created",
		zap.String("leave_id", created.ID),
		zap.String("user_id", created.UserID),
		zap.String("leave_type", string(created.LeaveType)),
		zap.Int("total_days", created.TotalDays),
	)
	return created, nil
}

func (s *Service) Get(ctx context.Context, actor policy.Actor, id string) (Leave, error) {
	l, err := s.load(ctx, id, "Failed to fetch leave details")
	if err != nil {
		return Leave{}, err
	}
	if err := s.policy.Can(actor, policy.LeaveView, targetOf(l)); err != nil {
		return Leave{}, err
	}
	return l, nil
}

// Decide approves or rejects a pending leave. The write is conditional on
// the row still being pending, so a racing second decision fails.
func (s *Service) Decide(ctx context.Context, actor policy.Actor, id string, input DecideInput) (Leave, error) {
	if err := s.policy.Can(actor, policy.LeaveDecide, nil); err != nil {
		return Leave{}, err
	}
	if err := ValidateDecision(input); err != nil {
		return Leave{}, err
	}
	l, err := s.load(ctx, id, "Failed to update leave status")
	if err != nil {
		return Leave{}, err
	}
	if err := Decide(&l, actor.ID, input, s.now()); err != nil {
		return Leave{}, err
	}

	if err := s.store.SaveDecision(ctx, l); err != nil {
		if errors.Is(err, ErrStale) {
			return Leave{}, apperror.InvalidState(alreadyProcessed)
		}
		return Leave{}, s.unexpected("Failed to update leave status", err)
	}

	s.recorder.LeaveDecided(string(l.Status))
	s.logger.Info("leave decided",
		zap.String("leave_id", l.ID),
		zap.String("status", string(l.Status)),
		zap.String("approved_by", actor.ID),
	)

	decided, err := s.store.Get(ctx, l.ID)
	if err != nil {
		s.logger.Warn("reload decided leave failed", zap.String("leave_id", l.ID), zap.Error(err))
		return l, nil
	}
	return decided, nil
}

func (s *Service) Delete(ctx context.Context, actor policy.Actor, id string) error {
	// Role gate before the lookup: admins are denied whatever the record.
	if err := s.policy.Can(actor, policy.LeaveDelete, &policy.Target{OwnerID: actor.ID, Pending: true}); err != nil {
		return err
	}
	l, err := s.load(ctx, id, "Failed to delete leave request")
	if err != nil {
		return err
	}
	if err := s.policy.Can(actor, policy.LeaveDelete, targetOf(l)); err != nil {
		return err
	}

	if err := s.store.DeletePending(ctx, l.ID); err != nil {
		if errors.Is(err, ErrStale) {
			return apperror.Unauthorized("delete this leave request")
		}
		return s.unexpected("Failed to delete leave request", err)
	}

	s.recorder.LeaveDeleted()
	s.logger.Info("leave deleted", zap.String("leave_id", l.ID), zap.String("user_id", actor.ID))
	return nil
}

func (s *Service) Statistics(ctx context.Context, actor policy.Actor) (Statistics, error) {
	if err := s.policy.Can(actor, policy.LeaveStatistics, nil); err != nil {
		return Statistics{}, err
	}
	rows, err := s.store.Summaries(ctx)
	if err != nil {
		return Statistics{}, s.unexpected("Failed to fetch statistics", err)
	}
	employees, err := s.store.CountEmployees(ctx)
	if err != nil {
		return Statistics{}, s.unexpected("Failed to fetch statistics", err)
	}
	stats := Summarize(rows, s.now().UTC().Year())
	stats.Overview.TotalEmployees = employees
	return stats, nil
}

// StatisticsPDF writes the statistics overview as a PDF document.
func (s *Service) StatisticsPDF(ctx context.Context, actor policy.Actor, w io.Writer) error {
	stats, err := s.Statistics(ctx, actor)
	if err != nil {
		return err
	}
	if err := RenderStatisticsPDF(w, stats, s.now()); err != nil {
		return s.unexpected("Failed to render statistics report", err)
	}
	return nil
}

// OwnerSummary returns the per-owner counts and most recent leaves shown on
// a user profile. Callers authorize access to the user first.
func (s *Service) OwnerSummary(ctx context.Context, ownerID string) (OwnerCounts, []Leave, error) {
	counts, err := s.store.OwnerCounts(ctx, ownerID)
	if err != nil {
		return OwnerCounts{}, nil, s.unexpected("Failed to fetch user details", err)
	}
	recent, err := s.store.RecentByOwner(ctx, ownerID, recentLimit)
	if err != nil {
		return OwnerCounts{}, nil, s.unexpected("Failed to fetch user details", err)
	}
	return counts, recent, nil
}

func (s *Service) load(ctx context.Context, id, failure string) (Leave, error) {
	if uuid.Validate(id) != nil {
		return Leave{}, apperror.NotFound("Leave request")
	}
	l, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Leave{}, apperror.NotFound("Leave request")
		}
		return Leave{}, s.unexpected(failure, err)
	}
	return l, nil
}

func (s *Service) unexpected(message string, err error) error {
	s.logger.Error(message, zap.Error(err))
	return apperror.Unexpected(message, err)
}

func targetOf(l Leave) *policy.Target {
	return &policy.Target{OwnerID: l.UserID, Pending: l.Pending()}
}
