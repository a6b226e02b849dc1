package registry

import (
	"github.com/flowgraph-io/flowgraph/pkg/nodes/ai"
	"github.com/flowgraph-io/flowgraph/pkg/nodes/array"
	"github.com/flowgraph-io/flowgraph/pkg/nodes/code"
	"github.com/flowgraph-io/flowgraph/pkg/nodes/database"
	"github.com/flowgraph-io/flowgraph/pkg/nodes/delay"
	"github.com/flowgraph-io/flowgraph/pkg/nodes/email"
	"github.com/flowgraph-io/flowgraph/pkg/nodes/file"
	"github.com/flowgraph-io/flowgraph/pkg/nodes/httprequest"
	"github.com/flowgraph-io/flowgraph/pkg/nodes/ifnode"
	"github.com/flowgraph-io/flowgraph/pkg/nodes/merge"
	"github.com/flowgraph-io/flowgraph/pkg/nodes/set"
	"github.com/flowgraph-io/flowgraph/pkg/nodes/slack"
	"github.com/flowgraph-io/flowgraph/pkg/nodes/switchnode"
	"github.com/flowgraph-io/flowgraph/pkg/nodes/trigger"
	"github.com/flowgraph-io/flowgraph/pkg/persistence"
)

// Deps carries the collaborators some node factories need.
type Deps struct {
	Files persistence.FileStore
}

// RegisterDefaultNodes registers all built-in node factories.
func (r *Registry) RegisterDefaultNodes(deps Deps) {
	// Trigger family
	r.RegisterNode(trigger.NewManualTriggerNodeFactory())
	r.RegisterNode(trigger.NewWebhookTriggerNodeFactory())
	r.RegisterNode(trigger.NewScheduleTriggerNodeFactory())

	// Data
	r.RegisterNode(httprequest.NewHTTPRequestNodeFactory())
	r.RegisterNode(database.NewDatabaseNodeFactory())

	// Transform
	r.RegisterNode(code.NewCodeNodeFactory())
	r.RegisterNode(code.NewFunctionNodeFactory())
	r.RegisterNode(set.NewSetNodeFactory())
	r.RegisterNode(array.NewFilterNodeFactory())
	r.RegisterNode(array.NewSortNodeFactory())
	r.RegisterNode(array.NewLimitNodeFactory())
	r.RegisterNode(merge.NewMergeNodeFactory())

	// Logic and flow
	r.RegisterNode(ifnode.NewIfNodeFactory())
	r.RegisterNode(switchnode.NewSwitchNodeFactory())
	r.RegisterNode(delay.NewDelayNodeFactory())

	// Communication
	r.RegisterNode(email.NewEmailNodeFactory())
	r.RegisterNode(slack.NewSlackNodeFactory())

	// AI
	r.RegisterNode(ai.NewChatNodeFactory())
	r.RegisterNode(ai.NewTextGenerationNodeFactory())
	r.RegisterNode(ai.NewImageAnalysisNodeFactory())
	r.RegisterNode(ai.NewSentimentNodeFactory())

	// Files
	r.RegisterNode(file.NewReadFileNodeFactory())
	r.RegisterNode(file.NewUploadFileNodeFactory(deps.Files))
}
