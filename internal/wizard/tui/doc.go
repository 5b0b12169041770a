// Package tui implements the terminal user interface for the form wizard.
//
// The wizard logs a student in against a form gateway, loads the
// multi-section form served for their roll number and walks them through
// it one section at a time. Built on Bubble Tea, it follows the Elm
// architecture with Model-Update-View and async work done in tea.Cmds.
//
// # Architecture
//
// The TUI has four screens:
//   - Login: roll number and full name, then register + fetch
//   - Form: one section at a time, driven by a form.Orchestrator
//   - Submitted: confirmation after the last section is accepted
//   - Schema missing: the gateway answered without a form
//
// All screens use RenderApplicationContainer for a consistent layout with
// header, content area and context-sensitive footer.
//
// # Fields
//
// Each field is drawn by a widget chosen from its type: text inputs
// (text, tel, email, date), a text area, a dropdown, radio and checkbox
// lists and a single toggle. Unknown types show a notice and cannot be
// focused. Widgets report value changes and the form screen forwards
// them to the orchestrator keyed by field ID.
//
// # Key Bindings
//
//   - Login: tab/shift+tab move between inputs, enter logs in, esc quits
//   - Form: tab/shift+tab move between fields, space toggles, ↑/↓ pick
//     options, ctrl+n/pgdown next or submit, ctrl+p/pgup previous
//   - Schema missing: enter goes back to login
//   - Everywhere: ctrl+c quits
//
// # Usage Example
//
//	shell := session.New(client)
//	app := tui.NewAppModel(shell, form.NewJSONSubmitter(&buf, ""))
//	program := tea.NewProgram(app, tea.WithAltScreen())
//	if _, err := program.Run(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// All model updates occur on Bubble Tea's update goroutine. The only work
// done elsewhere is the login command, which goes through session.Shell
// and reports back with a message.
package tui
