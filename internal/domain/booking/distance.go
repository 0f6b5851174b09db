package booking

import (
	"strings"

	"github.com/dtapi/booking-api/internal/domain/model"
)

// DistancePlan lists the writes a distance feed requires.
type DistancePlan struct {
	Outcome  model.DistanceFeedOutcome
	Distance *model.DistanceUpdate
	Admin    *model.AdminFieldsUpdate
}

// PlanDistanceFeed decides which updates a distance feed performs.
// A flagged job without an admin comment is rejected before any write.
func PlanDistanceFeed(req model.DistanceFeedRequest) DistancePlan {
	distance := strings.TrimSpace(req.Distance)
	travel := strings.TrimSpace(req.Time)
	session := strings.TrimSpace(req.SessionTime)
	comment := strings.TrimSpace(req.AdminComment)

	if req.Flagged.Bool() && comment == "" {
		return DistancePlan{Outcome: model.DistanceFeedNeedsComment}
	}

	var plan DistancePlan
	if distance != "" || travel != "" {
		plan.Distance = &model.DistanceUpdate{Distance: distance, Time: travel}
	}
	if RequestsAdminFields(req) {
		plan.Admin = &model.AdminFieldsUpdate{
			AdminComments:   comment,
			Flagged:         req.Flagged.Bool(),
			SessionTime:     session,
			ManuallyHandled: req.ManuallyHandled.Bool(),
			ByAdmin:         req.ByAdmin.Bool(),
		}
	}

	if plan.Distance == nil && plan.Admin == nil {
		plan.Outcome = model.DistanceFeedNoChanges
	} else {
		plan.Outcome = model.DistanceFeedUpdated
	}
	return plan
}

// RequestsAdminFields reports whether req writes any administrator bookkeeping field.
func RequestsAdminFields(req model.DistanceFeedRequest) bool {
	return strings.TrimSpace(req.AdminComment) != "" ||
		strings.TrimSpace(req.SessionTime) != "" ||
		req.Flagged.Bool() ||
		req.ManuallyHandled.Bool() ||
		req.ByAdmin.Bool()
}
