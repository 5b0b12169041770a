// Package ui renders the non-interactive output of the formwiz commands:
// header and result boxes, step lines, schema outlines, submission
// summaries and gateway lists.
//
// The interactive wizard lives in internal/wizard/tui; this package is for
// commands that print and exit. Everything renders through lipgloss, which
// drops colour on its own when the output is not a terminal.
//
// Example:
//
//	p := ui.NewPrinter(os.Stdout)
//	p.PrintHeader("Schema", "formwiz schema 21CS042", ui.Param{Key: "Gateway", Value: endpoint})
//	p.PrintStep("Registering user", err)
//	p.Println(ui.RenderSchemaOutline(form))
package ui
