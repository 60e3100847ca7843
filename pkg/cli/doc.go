/*
Package cli provides helpers shared by the valvemap commands.

Output Formatting:

Results are written as text, JSON, YAML or CSV. Types that implement Table
get aligned columns in text mode and are the only ones CSV accepts; types
that implement TextRenderer control their own text layout:

	format, err := cli.ParseFormat(flagValue)
	if err != nil {
		return err
	}
	return cli.NewFormatter(format).FormatTo(os.Stdout, result)

Exit Codes:

Commands return a *CommandError and main exits with ExitCode(err): 1 when
the command found problems, 2 for usage or configuration errors and 3 for
runtime failures.

Signal Handling:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
*/
package cli
