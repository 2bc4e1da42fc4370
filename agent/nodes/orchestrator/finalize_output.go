package orchestratornode

import (
	"fmt"
	"time"

	contractx "github.com/tanpawarit/agentic-workflow/agent/contract"
)

func FinalizeOutput(in *GraphState, nowFn func() time.Time) (GraphOutput, error) {
	if in == nil || in.Run == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph run is nil", contractx.ErrValidation)
	}

	in.Run.Finish(nowFn())
	if err := in.Run.Validate(); err != nil {
		return GraphOutput{}, err
	}
	return GraphOutput{Output: in.Run.FinalOutput(), Run: in.Run}, nil
}
