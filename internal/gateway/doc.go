// Package gateway is the HTTP client for the form gateway: the remote
// service that registers a user and hands back the form schema they have
// to fill.
//
// The gateway speaks JSON over two endpoints:
//
//	POST /create-user            {"rollNumber": "...", "name": "..."}
//	GET  /get-form?rollNumber=…  {"message": "...", "form": {...}}
//
// Failures come back as *GatewayError values carrying an ErrorType, so
// callers can tell a rejected request from an unreachable host. UserMessage
// turns any of them into the one-line text shown in the wizard.
//
// Basic usage:
//
//	client := gateway.NewClient(gateway.DefaultEndpoint)
//	if _, err := client.RegisterUser(ctx, gateway.Identity{ID: "21CS042", Name: "Ada"}); err != nil {
//	    fmt.Println(gateway.UserMessage(err))
//	}
//	form, err := client.FetchSchema(ctx, "21CS042")
package gateway
