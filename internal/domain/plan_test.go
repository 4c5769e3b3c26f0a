package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func pendingPlan() *PlanRequest {
	return &PlanRequest{
		ID:         1,
		OwnerEmail: "owner@example.com",
		Status:     PlanStatusPending,
	}
}

func TestPlanRequest_ReviewOutcome(t *testing.T) {
	testCases := []struct {
		name       string
		plan       *PlanRequest
		reviewer   string
		decision   ReviewDecision
		motivation string
		target     PlanStatus
		err        error
	}{
		{
			name:     "approve without motivation",
			plan:     pendingPlan(),
			reviewer: "reviewer@example.com",
			decision: ReviewApprove,
			target:   PlanStatusApproved,
		},
		{
			name:       "reject with motivation",
			plan:       pendingPlan(),
			reviewer:   "reviewer@example.com",
			decision:   ReviewReject,
			motivation: "route crosses a military area",
			target:     PlanStatusRejected,
		},
		{
			name:       "owner cannot review own plan",
			plan:       pendingPlan(),
			reviewer:   "owner@example.com",
			decision:   ReviewApprove,
			motivation: "",
			err:        ErrForbiddenOwnership,
		},
		{
			name:     "non-pending plan",
			plan:     &PlanRequest{OwnerEmail: "owner@example.com", Status: PlanStatusApproved},
			reviewer: "reviewer@example.com",
			decision: ReviewApprove,
			err:      ErrForbiddenTransition,
		},
		{
			name:       "approve with motivation",
			plan:       pendingPlan(),
			reviewer:   "reviewer@example.com",
			decision:   ReviewApprove,
			motivation: "looks fine",
			err:        ErrForbiddenTransition,
		},
		{
			name:     "reject without motivation",
			plan:     pendingPlan(),
			reviewer: "reviewer@example.com",
			decision: ReviewReject,
			err:      ErrForbiddenTransition,
		},
		{
			name:       "reject with short motivation",
			plan:       pendingPlan(),
			reviewer:   "reviewer@example.com",
			decision:   ReviewReject,
			motivation: "bad",
			err:        ErrForbiddenTransition,
		},
		{
			name:       "reject with oversized motivation",
			plan:       pendingPlan(),
			reviewer:   "reviewer@example.com",
			decision:   ReviewReject,
			motivation: strings.Repeat("x", MotivationMaxLen+1),
			err:        ErrForbiddenTransition,
		},
		{
			name:       "motivation at bounds",
			plan:       pendingPlan(),
			reviewer:   "reviewer@example.com",
			decision:   ReviewReject,
			motivation: strings.Repeat("x", MotivationMaxLen),
			target:     PlanStatusRejected,
		},
		{
			name:     "unknown decision",
			plan:     pendingPlan(),
			reviewer: "reviewer@example.com",
			decision: ReviewDecision("defer"),
			err:      ErrForbiddenTransition,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			target, err := tc.plan.ReviewOutcome(tc.reviewer, tc.decision, tc.motivation)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.target, target)
		})
	}
}

func TestPlanRequest_CancelBy(t *testing.T) {
	plan := pendingPlan()

	assert.ErrorIs(t, plan.CancelBy("other@example.com"), ErrForbiddenOwnership)
	assert.NoError(t, plan.CancelBy("owner@example.com"))

	plan.Status = PlanStatusCancelled
	assert.ErrorIs(t, plan.CancelBy("owner@example.com"), ErrForbiddenTransition)
}

func TestPlanStatus_Terminal(t *testing.T) {
	assert.False(t, PlanStatusPending.Terminal())
	assert.True(t, PlanStatusApproved.Terminal())
	assert.True(t, PlanStatusRejected.Terminal())
	assert.True(t, PlanStatusCancelled.Terminal())
}

func TestValidVehicleID(t *testing.T) {
	assert.True(t, ValidVehicleID("DJI4021X9A"))
	assert.True(t, ValidVehicleID("0123456789"))
	assert.False(t, ValidVehicleID("SHORT"))
	assert.False(t, ValidVehicleID("DJI4021X9AB"))
	assert.False(t, ValidVehicleID("DJI-4021X9"))
	assert.False(t, ValidVehicleID(""))
}
