// Package discovery finds form gateways on the local network over mDNS.
//
// Gateways started with `formwiz serve --advertise` register a
// "_formwiz._tcp" service whose TXT records carry the URL path and the id
// of the form they serve. Scan collects every gateway that answers within
// the timeout; FindFirst returns as soon as one does.
//
//	scanner := discovery.NewScanner()
//	gw, err := scanner.FindFirst(ctx)
//	if err != nil {
//	    return err
//	}
//	client := gateway.NewClient(gw.BaseURL())
//
// Discovery needs multicast on the local segment (UDP 5353).
package discovery
