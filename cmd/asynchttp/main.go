// Command asynchttp drives the async HTTP facade against its fixture
// dispatcher: replaying the synchronous and asynchronous request scenarios
// and running a small load test on the worker pool.
package main

import (
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
