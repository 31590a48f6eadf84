package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	resourcedomain "github.com/cloudlens/cloudlens/internal/resource/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Resource types carrying this prefix are eligible for utilization sampling.
const computeTypePrefix = "compute"

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  resourcedomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  resourcedomain.Repository
	genID *snowflake.Node
}

func New(p Params) resourcedomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("resource.service"),
		repo:  p.Repo,
		genID: p.GenID,
	}
}

func (s *Service) Upsert(ctx context.Context, req resourcedomain.UpsertRequest) (*resourcedomain.Resource, error) {
	externalID := strings.TrimSpace(req.ExternalID)
	if externalID == "" {
		return nil, resourcedomain.ErrInvalidExternalID
	}
	if req.SubscriptionID == 0 {
		return nil, resourcedomain.ErrInvalidSubscription
	}

	status := req.Status
	if status == "" {
		status = resourcedomain.ResourceStatusStopped
	}

	now := time.Now().UTC()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var groupID *snowflake.ID
		groupName := strings.TrimSpace(req.GroupName)
		if groupName != "" {
			group := &resourcedomain.ResourceGroup{
				ID:             s.genID.Generate(),
				SubscriptionID: req.SubscriptionID,
				Name:           groupName,
				Location:       req.Location,
				Tags:           req.Tags,
				CreatedAt:      now,
				UpdatedAt:      now,
			}
			if err := s.repo.UpsertGroup(ctx, tx, group); err != nil {
				return err
			}
			existing, err := s.repo.FindGroup(ctx, tx, req.SubscriptionID, groupName)
			if err != nil {
				return err
			}
			if existing != nil {
				groupID = &existing.ID
			}
		}

		res := &resourcedomain.Resource{
			ID:              s.genID.Generate(),
			ExternalID:      externalID,
			Name:            strings.TrimSpace(req.Name),
			ResourceType:    strings.TrimSpace(req.ResourceType),
			Location:        req.Location,
			ResourceGroupID: groupID,
			SubscriptionID:  req.SubscriptionID,
			SKU:             req.SKU,
			Status:          status,
			Tags:            req.Tags,
			Properties:      req.Properties,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		return s.repo.Upsert(ctx, tx, res)
	})
	if err != nil {
		return nil, err
	}

	return s.repo.FindByExternalID(ctx, s.db, externalID)
}

func (s *Service) ListRunningCompute(ctx context.Context, limit int) ([]resourcedomain.Resource, error) {
	if limit <= 0 {
		return nil, nil
	}
	return s.repo.ListRunningByTypePrefix(ctx, s.db, computeTypePrefix, limit)
}
