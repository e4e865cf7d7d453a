// Package commands implements the restd subcommands.
//
// Every command implements Runner: Init parses the command flags and loads the
// configuration, Run does the work, Name is the subcommand used for routing.
//
//   - serve: run the HTTP server until SIGINT or SIGTERM
//   - routes: print the action table of every resource
//   - check-config: validate the configuration and print its hash
//
// Example:
//
//	cmd := commands.CreateRoutesCommand()
//	ctx := &commands.AppContext{ConfigPath: "restd.toml"}
//	if err := cmd.Init(nil, ctx); err != nil {
//	    log.Fatal(err)
//	}
//	if err := cmd.Run(); err != nil {
//	    log.Fatal(err)
//	}
package commands
