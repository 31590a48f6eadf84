package domain

import (
	"testing"

	recommendationdomain "github.com/cloudlens/cloudlens/internal/recommendation/domain"
	resourcedomain "github.com/cloudlens/cloudlens/internal/resource/domain"
	"github.com/stretchr/testify/assert"
)

func TestMapPowerState(t *testing.T) {
	cases := []struct {
		state string
		want  resourcedomain.ResourceStatus
	}{
		{"running", resourcedomain.ResourceStatusRunning},
		{"Starting", resourcedomain.ResourceStatusRunning},
		{"SUCCEEDED", resourcedomain.ResourceStatusRunning},
		{"stopped", resourcedomain.ResourceStatusStopped},
		{"stopping", resourcedomain.ResourceStatusStopped},
		{"deallocated", resourcedomain.ResourceStatusDeallocated},
		{"Deallocating", resourcedomain.ResourceStatusDeallocated},
		{" running ", resourcedomain.ResourceStatusRunning},
		// Unknown and failed states never count as running.
		{"failed", resourcedomain.ResourceStatusStopped},
		{"", resourcedomain.ResourceStatusStopped},
		{"unknown", resourcedomain.ResourceStatusStopped},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, MapPowerState(tc.state), "state %q", tc.state)
	}
}

func TestMapAdvisorImpact(t *testing.T) {
	assert.Equal(t, recommendationdomain.RecommendationImpactHigh, MapAdvisorImpact("High"))
	assert.Equal(t, recommendationdomain.RecommendationImpactMedium, MapAdvisorImpact("medium"))
	assert.Equal(t, recommendationdomain.RecommendationImpactLow, MapAdvisorImpact("low"))
	assert.Equal(t, recommendationdomain.RecommendationImpactLow, MapAdvisorImpact("catastrophic"))
	assert.Equal(t, recommendationdomain.RecommendationImpactLow, MapAdvisorImpact(""))
}
