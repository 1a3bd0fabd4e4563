/*
Package cli provides output and error helpers shared by the ruleengine
subcommands.

Output Formatting:

Rules and trees render as go-pretty tables by default, or as JSON with
--output json:

	format, err := cli.ParseFormat(outputFlag)
	if err != nil {
		return err
	}
	return cli.RenderRules(cmd.OutOrStdout(), rules, format)

Errors:

Commands wrap failures in CommandError; bad flags or configuration are
ConfigError. ExitCode maps either to the process exit status.

Signal Handling:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
*/
package cli
