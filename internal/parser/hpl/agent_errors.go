package hpl

import (
	"fmt"

	"github.com/stackfold/pkg/model"
)

// agentErrors lists the fixed error reasons the sampling agent reports
// in place of a stack. Index i corresponds to a trace-start record with
// frame count -i; the synthetic method id is -1-i.
var agentErrors = []string{
	"No Java Frames[ERR=0]",
	"No class load[ERR=-1]",
	"GC Active[ERR=-2]",
	"Unknown not Java[ERR=-3]",
	"Not walkable not Java[ERR=-4]",
	"Unknown Java[ERR=-5]",
	"Not walkable Java[ERR=-6]",
	"Unknown state[ERR=-7]",
	"Thread exit[ERR=-8]",
	"Deopt[ERR=-9]",
	"Safepoint[ERR=-10]",
}

// errorClassName is the pseudo class under which agent errors are
// filed. It is stored in the same wrapped form as real class names so
// the display formatter treats it uniformly.
const errorClassName = "/Error/"

// seedAgentErrors pre-registers the synthetic error methods so that
// agent-error traces resolve without a symbol declaration record.
func seedAgentErrors(methods model.MethodTable) {
	for i, name := range agentErrors {
		id := int64(-1 - i)
		methods[id] = model.Method{
			ID:         id,
			ClassName:  errorClassName,
			MethodName: name,
		}
	}
}

// unknownAgentError builds a synthetic method for an error reason
// outside the known range.
func unknownAgentError(frameCount int32) model.Method {
	id := int64(frameCount) - 1
	return model.Method{
		ID:         id,
		ClassName:  errorClassName,
		MethodName: fmt.Sprintf("Unknown err[ERR=%d]", frameCount),
	}
}
