package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/atmn/internal/configfile"
	"github.com/smallbiznis/atmn/internal/merge"
)

type Request struct {
	Path string
	// Force regenerates the whole file instead of merging.
	Force bool
}

type Mode string

const (
	// ModeGenerated means the file was written from scratch.
	ModeGenerated Mode = "generated"
	ModeMerged    Mode = "merged"
	// ModeUnchanged means the merge produced the existing text.
	ModeUnchanged Mode = "unchanged"
)

type Result struct {
	Path   string             `json:"path"`
	Mode   Mode               `json:"mode"`
	Update merge.UpdateResult `json:"update"`
	// Candidates are local entities missing remotely. They are kept in the
	// file unless the deletion was confirmed.
	Candidates []merge.Candidate `json:"candidates"`
	Deleted    bool              `json:"deleted"`
	// FallbackReason is set when a failed merge was replaced by a full
	// regeneration.
	FallbackReason string                           `json:"fallback_reason,omitempty"`
	Ambiguities    []configfile.ParseAmbiguityError `json:"ambiguities,omitempty"`
}

// Confirmer asks the user before local blocks are removed.
type Confirmer interface {
	ConfirmLocalDeletion(ctx context.Context, candidates []merge.Candidate) (bool, error)
}

type Service interface {
	Pull(ctx context.Context, req Request) (*Result, error)
}

var ErrInvalidPath = errors.New("invalid_config_path")
