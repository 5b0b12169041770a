// Package devgateway is a local stand-in for the form gateway, used to
// develop and demo the wizard without the hosted service.
//
// It loads form definitions from a directory (YAML or JSON in the same
// shape the gateway sends), keeps registered users in memory and serves
// the two gateway endpoints:
//
//	POST /create-user   register a roll number and name
//	GET  /get-form      the configured form for a registered roll number
//
// With Advertise set the server registers a "_formwiz._tcp" mDNS service
// so `formwiz --discover` can find it.
package devgateway
