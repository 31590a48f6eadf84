package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type ResourceStatus string

const (
	ResourceStatusRunning     ResourceStatus = "running"
	ResourceStatusStopped     ResourceStatus = "stopped"
	ResourceStatusDeallocated ResourceStatus = "deallocated"
)

// ResourceGroup is a logical container scoped to one subscription,
// unique by (subscription, name).
type ResourceGroup struct {
	ID             snowflake.ID      `gorm:"primaryKey"`
	SubscriptionID snowflake.ID      `gorm:"not null;uniqueIndex:ux_resource_groups_sub_name,priority:1"`
	Name           string            `gorm:"type:text;not null;uniqueIndex:ux_resource_groups_sub_name,priority:2"`
	Location       string            `gorm:"type:text;not null"`
	Tags           datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt      time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt      time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (ResourceGroup) TableName() string { return "resource_groups" }

// Resource is a billable or monitorable unit, unique by its upstream
// resource identifier. Rows are upserted on every sync.
type Resource struct {
	ID              snowflake.ID      `gorm:"primaryKey"`
	ExternalID      string            `gorm:"type:text;not null;uniqueIndex:ux_resources_external_id"`
	Name            string            `gorm:"type:text;not null"`
	ResourceType    string            `gorm:"type:text;not null"`
	Location        string            `gorm:"type:text;not null"`
	ResourceGroupID *snowflake.ID     `gorm:"index"`
	SubscriptionID  snowflake.ID      `gorm:"not null;index"`
	SKU             string            `gorm:"column:sku;type:text;not null"`
	Status          ResourceStatus    `gorm:"type:text;not null;default:stopped"`
	Tags            datatypes.JSONMap `gorm:"type:jsonb"`
	Properties      datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt       time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt       time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Resource) TableName() string { return "resources" }
