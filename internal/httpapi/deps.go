package httpapi

import (
	"sync/atomic"

	"talentflow-engine/internal/areas"
	"talentflow-engine/internal/events"
	"talentflow-engine/internal/leadflow"
	"talentflow-engine/internal/store"
	"talentflow-engine/internal/workflow"
)

type Deps struct {
	DB *store.DB

	Hub   *events.Hub
	Leads *leadflow.Manager
	Flow  *workflow.Engine
	Areas *areas.Resolver

	// Atomic store for config.Config
	CfgVal *atomic.Value

	UserCfgPath string

	AdminToken  string
	RatePerMin  float64
	RateBurst   int
	MaxUploadMB int
}
