package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	accountdomain "github.com/cloudlens/cloudlens/internal/account/domain"
	alertdomain "github.com/cloudlens/cloudlens/internal/alert/domain"
	"github.com/cloudlens/cloudlens/internal/clock"
	"github.com/cloudlens/cloudlens/internal/providers/email"
	"github.com/cloudlens/cloudlens/internal/providers/webhook"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Clock       clock.Clock
	Repo        alertdomain.Repository
	AccountRepo accountdomain.Repository
	Email       email.Provider
	Webhook     webhook.Provider
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	repo        alertdomain.Repository
	accountRepo accountdomain.Repository
	genID       *snowflake.Node
	clock       clock.Clock
	email       email.Provider
	webhook     webhook.Provider
}

func New(p Params) alertdomain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("alert.service"),
		repo:        p.Repo,
		accountRepo: p.AccountRepo,
		genID:       p.GenID,
		clock:       p.Clock,
		email:       p.Email,
		webhook:     p.Webhook,
	}
}

func (s *Service) Send(ctx context.Context, req alertdomain.SendRequest) (*alertdomain.Alert, error) {
	if req.Type == "" {
		return nil, alertdomain.ErrInvalidType
	}
	if req.Severity == "" {
		return nil, alertdomain.ErrInvalidSeverity
	}

	alert := &alertdomain.Alert{
		ID:              s.genID.Generate(),
		AlertType:       req.Type,
		Severity:        req.Severity,
		Title:           strings.TrimSpace(req.Title),
		Message:         req.Message,
		ResourceID:      req.ResourceID,
		BudgetID:        req.BudgetID,
		BudgetThreshold: req.BudgetThreshold,
		Metadata:        req.Metadata,
		CreatedAt:       s.clock.Now(),
	}

	// Persistence is guaranteed; notification delivery is best-effort and
	// must never unwind the stored alert.
	if err := s.repo.Insert(ctx, s.db, alert); err != nil {
		return nil, err
	}

	if alert.Severity == alertdomain.AlertSeverityHigh || alert.Severity == alertdomain.AlertSeverityCritical {
		s.notify(ctx, alert)
	}

	return alert, nil
}

func (s *Service) notify(ctx context.Context, alert *alertdomain.Alert) {
	var delivered []string

	text := "[" + strings.ToUpper(string(alert.Severity)) + "] " + alert.Title + ": " + alert.Message
	if err := s.webhook.PostMessage(ctx, text); err != nil {
		s.log.Warn("webhook notification failed",
			zap.String("alert_id", alert.ID.String()),
			zap.Error(err),
		)
	} else {
		delivered = append(delivered, "webhook")
	}

	emails, err := s.accountRepo.ListActiveEmails(ctx, s.db)
	if err != nil {
		s.log.Warn("listing admin recipients failed",
			zap.String("alert_id", alert.ID.String()),
			zap.Error(err),
		)
	} else {
		sent := false
		for _, to := range emails {
			if err := s.email.Send(ctx, []string{to}, alert.Title, alert.Message); err != nil {
				s.log.Warn("email notification failed",
					zap.String("alert_id", alert.ID.String()),
					zap.String("to", to),
					zap.Error(err),
				)
				continue
			}
			sent = true
		}
		if sent {
			delivered = append(delivered, "email")
		}
	}

	if len(delivered) == 0 {
		return
	}
	alert.NotifiedChannels = delivered
	if err := s.repo.SetNotifiedChannels(ctx, s.db, alert.ID, delivered); err != nil {
		s.log.Warn("recording notified channels failed",
			zap.String("alert_id", alert.ID.String()),
			zap.Error(err),
		)
	}
}

func (s *Service) MarkRead(ctx context.Context, id snowflake.ID) error {
	alert, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if alert == nil {
		return alertdomain.ErrNotFound
	}
	return s.repo.MarkRead(ctx, s.db, id)
}

func (s *Service) Resolve(ctx context.Context, id snowflake.ID) error {
	alert, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if alert == nil {
		return alertdomain.ErrNotFound
	}
	return s.repo.MarkResolved(ctx, s.db, id, s.clock.Now())
}

func (s *Service) ListUnresolved(ctx context.Context, limit int) ([]alertdomain.Alert, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.ListUnresolved(ctx, s.db, limit)
}
