/*
Package hposconfig validates HoloPort configuration documents (hpos-config.json).

Validation is structural: a schema is a tree of field maps, list patterns,
type tags, predicates and literals (see package schema), and a document is
accepted when every declared key is present and every leaf matches. Keys the
schema does not mention are ignored. The first failure is reported as a
*schema.Error carrying its kind and a path such as
"hpos-config.json: .v1.settings.admin.email".

# Usage

	if err := hposconfig.CheckJSON(text); err != nil {
		var verr *schema.Error
		if errors.As(err, &verr) {
			log.Printf("%s at %s", verr.Kind, verr.Path)
		}
		return err
	}

	cfg, err := hposconfig.Load("/etc/hpos-config.json")
	if err != nil {
		return err
	}
	fmt.Println(cfg.V1.Settings.Admin.Email)

A Service wraps the same check with logging, metrics and a report store; it
backs the HTTP and MCP adapters and the hpos-config command.
*/
package hposconfig
