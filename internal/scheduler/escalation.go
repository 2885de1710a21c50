package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"citizenconnect_backend/internal/email"
	identitydomain "citizenconnect_backend/internal/identity/domain"
	identityrepo "citizenconnect_backend/internal/identity/repository"
	"citizenconnect_backend/internal/notification/inapp"
	"citizenconnect_backend/platform/config"
	"citizenconnect_backend/platform/logger"
)

// StaleReader finds complaints eligible for escalation.
type StaleReader interface {
	FindStale(ctx context.Context, raisedBefore, progressBefore time.Time) ([]StaleComplaint, error)
}

// Directory looks up escalation recipients.
type Directory interface {
	List(ctx context.Context, filter identityrepo.ListFilter) ([]identityrepo.User, error)
}

// Notifier delivers in-app notifications.
type Notifier interface {
	Send(ctx context.Context, params inapp.SendParams) error
}

// Escalator notifies department admins about complaints stuck beyond
// the configured thresholds. Complaints without a department escalate
// to city admins instead.
type Escalator struct {
	repo      StaleReader
	directory Directory
	notifier  Notifier
	emailer   email.Sender
	cfg       config.EscalationConfig
	log       *logger.Logger
}

// NewEscalator creates a new escalator.
func NewEscalator(repo StaleReader, directory Directory, notifier Notifier, emailer email.Sender, cfg config.EscalationConfig, log *logger.Logger) *Escalator {
	if emailer == nil {
		emailer = email.NoopSender{}
	}
	return &Escalator{
		repo:      repo,
		directory: directory,
		notifier:  notifier,
		emailer:   emailer,
		cfg:       cfg,
		log:       log,
	}
}

// Run performs one escalation scan.
func (e *Escalator) Run(ctx context.Context) error {
	now := time.Now()
	raisedBefore := now.Add(-e.cfg.GetUnacknowledgedAfter())
	progressBefore := now.Add(-e.cfg.GetInProgressOverdueAfter())

	stale, err := e.repo.FindStale(ctx, raisedBefore, progressBefore)
	if err != nil {
		return err
	}
	if len(stale) == 0 {
		return nil
	}

	byDepartment := make(map[string][]StaleComplaint)
	for _, sc := range stale {
		dept := ""
		if sc.Department != nil {
			dept = *sc.Department
		}
		byDepartment[dept] = append(byDepartment[dept], sc)
	}

	departments := make([]string, 0, len(byDepartment))
	for dept := range byDepartment {
		departments = append(departments, dept)
	}
	sort.Strings(departments)

	var errs []error
	for _, dept := range departments {
		if err := e.escalateDepartment(ctx, dept, byDepartment[dept], now); err != nil {
			errs = append(errs, err)
		}
	}

	e.log.Info("escalation scan complete",
		"staleComplaints", len(stale),
		"departments", len(departments),
	)
	return errors.Join(errs...)
}

func (e *Escalator) escalateDepartment(ctx context.Context, dept string, stale []StaleComplaint, now time.Time) error {
	filter := identityrepo.ListFilter{Role: identitydomain.RoleDepartmentAdmin, Department: dept}
	if dept == "" {
		filter = identityrepo.ListFilter{Role: identitydomain.RoleCityAdmin}
	}

	recipients, err := e.directory.List(ctx, filter)
	if err != nil {
		return fmt.Errorf("list escalation recipients for %q: %w", dept, err)
	}
	if len(recipients) == 0 {
		e.log.Warn("no escalation recipients", "department", dept, "staleComplaints", len(stale))
		return nil
	}

	digest := email.EscalationDigest{Department: dept}
	for _, sc := range stale {
		digest.Items = append(digest.Items, email.EscalationItem{
			ComplaintID: sc.ID.String(),
			Title:       sc.Title,
			Status:      sc.Status,
			Age:         formatAge(now.Sub(sc.StaleSince)),
			Reason:      staleReason(sc.Status),
		})
	}

	var errs []error
	message := fmt.Sprintf("%d complaint(s) have been waiting too long without progress", len(stale))
	for _, recipient := range recipients {
		if err := e.notifier.Send(ctx, inapp.SendParams{
			UserID:    recipient.ID,
			Message:   message,
			EventType: "escalation",
		}); err != nil {
			errs = append(errs, err)
		}
		if err := e.emailer.SendEscalationDigest(ctx, recipient.Email, digest); err != nil {
			// Email failures must not block the in-app path.
			e.log.Error("failed to send escalation digest",
				"recipient", recipient.Email,
				"department", dept,
				"error", err,
			)
		}
	}
	return errors.Join(errs...)
}

func staleReason(status string) string {
	if status == "Raised" {
		return "not acknowledged"
	}
	return "in progress too long"
}

// formatAge renders a stale duration in the largest sensible unit.
func formatAge(d time.Duration) string {
	hours := int(d.Hours())
	if hours < 24 {
		return fmt.Sprintf("%d hour(s)", hours)
	}
	return fmt.Sprintf("%d day(s)", hours/24)
}
