// Command decorators runs small sample functions under each decorator so
// their console output and failure modes can be seen end to end.
//
//	decorators retry --retries 3 --fail 2
//	decorators policy --file policies.yaml --name fetch
//	decorators pick
package main

import (
	"context"
	"os"

	"github.com/amp-labs/amp-decorators/shutdown"
)

func main() {
	ctx := shutdown.SetupHandler(context.Background())

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
