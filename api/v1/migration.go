package v1 // import "github.com/storyhouse/storyhouse/api/v1"

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/storyhouse/storyhouse/http/request"
	"github.com/storyhouse/storyhouse/http/response"
	"github.com/storyhouse/storyhouse/log"
	"github.com/storyhouse/storyhouse/model"
)

// runMigration merges derivative chapters back into their parents. With
// dry_run=true it returns the plan without writing anything. Zero migrated
// chapters is a valid outcome.
func (h *Handler) runMigration(w http.ResponseWriter, r *http.Request) {
	dryRun := request.QueryBoolParam(r, "dry_run", false)
	cleanup := request.QueryBoolParam(r, "cleanup", false)

	plan, err := h.branches.DryRun(r.Context())
	if err != nil {
		log.Error("Migration scan failed", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}

	if dryRun {
		response.OK(w, r, map[string]interface{}{
			"plan":   plan,
			"report": &model.MigrationReport{RunID: plan.RunID, DryRun: true},
		})
		return
	}

	report := h.branches.Execute(r.Context(), plan)
	if cleanup {
		deleted := h.branches.Cleanup(r.Context(), plan, report)
		log.Info("Migration cleanup finished",
			zap.String("run_id", plan.RunID),
			zap.Int("objects_deleted", deleted))
	}

	response.OK(w, r, map[string]interface{}{
		"plan":   plan,
		"report": report,
	})
}
