package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/atmn/internal/configfile"
	plandomain "github.com/smallbiznis/atmn/internal/plan/domain"
	"github.com/smallbiznis/atmn/internal/pushplan"
)

type Request struct {
	Path string
	// Yes approves deletions, archives and plan versions without asking.
	Yes bool
	// DryRun analyzes without writing anything.
	DryRun bool
}

type Result struct {
	Analysis    *pushplan.PushAnalysis           `json:"analysis"`
	Approvals   pushplan.Approvals               `json:"approvals"`
	Executed    []pushplan.Step                  `json:"executed"`
	DryRun      bool                             `json:"dry_run"`
	Ambiguities []configfile.ParseAmbiguityError `json:"ambiguities,omitempty"`
}

// Confirmer asks the user before destructive or versioning writes. Each
// question is only asked when it applies.
type Confirmer interface {
	ConfirmDeletion(ctx context.Context, features []pushplan.FeatureDeletion, plans []pushplan.PlanDeletion) (bool, error)
	ConfirmArchive(ctx context.Context, features []pushplan.FeatureDeletion, plans []pushplan.PlanDeletion) (bool, error)
	ConfirmVersion(ctx context.Context, plans []plandomain.Plan) (bool, error)
}

type Service interface {
	Push(ctx context.Context, req Request) (*Result, error)
}

var (
	ErrInvalidPath    = errors.New("invalid_config_path")
	ErrConfigNotFound = errors.New("config_not_found")
)
