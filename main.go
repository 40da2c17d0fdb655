package main

import (
	"os"

	"github.com/Louisamayh/browseragentB-HInd/cmd"
)

// main is the program entry point.
// It delegates to cmd.Execute() and exits with the status it returns.
//
// callm bootstraps and starts the CallM_BH desktop application:
//   - `callm setup` probes for a Python interpreter (falling back through a configured chain),
//     recreates the isolated environment from scratch, installs the dependency manifest with pip,
//     optionally stores the API key in a single-line .env file, and registers a desktop shortcut
//   - `callm launch` refuses to start unless the environment and the .env file both exist,
//     then runs launcher.py with the environment's interpreter and exits with its status
//   - `callm check` reports each artifact without changing anything
//
// Every fatal condition (missing interpreter, missing manifest, failed install, missing
// launch preconditions) stops the command with a message and a non-zero exit status.
func main() {
	os.Exit(cmd.Execute())
}
