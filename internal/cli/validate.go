package cli

// ValidateCmd audits stored habits and check-ins and prints every problem
// found.
type ValidateCmd struct{}

func (cmd *ValidateCmd) Run(ctx *Context) error {
	ctx.println("Validating habits and check-ins...")

	report, err := ctx.Service.Audit(ctx.Context())
	if err != nil {
		return err
	}

	ctx.println()
	ctx.println(report.FormatReport())
	return nil
}
