package domain

import (
	"strings"

	recommendationdomain "github.com/cloudlens/cloudlens/internal/recommendation/domain"
	resourcedomain "github.com/cloudlens/cloudlens/internal/resource/domain"
)

// powerStates maps upstream provisioning/power states onto the stored
// status enum. Anything unknown or failed lands on stopped, never running.
var powerStates = map[string]resourcedomain.ResourceStatus{
	"running":      resourcedomain.ResourceStatusRunning,
	"starting":     resourcedomain.ResourceStatusRunning,
	"succeeded":    resourcedomain.ResourceStatusRunning,
	"stopped":      resourcedomain.ResourceStatusStopped,
	"stopping":     resourcedomain.ResourceStatusStopped,
	"deallocated":  resourcedomain.ResourceStatusDeallocated,
	"deallocating": resourcedomain.ResourceStatusDeallocated,
}

func MapPowerState(state string) resourcedomain.ResourceStatus {
	if mapped, ok := powerStates[strings.ToLower(strings.TrimSpace(state))]; ok {
		return mapped
	}
	return resourcedomain.ResourceStatusStopped
}

var advisorImpacts = map[string]recommendationdomain.RecommendationImpact{
	"low":    recommendationdomain.RecommendationImpactLow,
	"medium": recommendationdomain.RecommendationImpactMedium,
	"high":   recommendationdomain.RecommendationImpactHigh,
}

func MapAdvisorImpact(impact string) recommendationdomain.RecommendationImpact {
	if mapped, ok := advisorImpacts[strings.ToLower(strings.TrimSpace(impact))]; ok {
		return mapped
	}
	return recommendationdomain.RecommendationImpactLow
}
