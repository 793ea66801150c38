package main

import (
	"autocamp/cmd/autocamp/commands"
	"autocamp/lib/osutil"
)

func main() {
	ctx, stop := osutil.SignalContext()
	defer stop()
	commands.ExecuteContext(ctx)
}
