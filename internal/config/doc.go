// Package config provides user configuration management for formwiz.
//
// Settings live in a YAML file at a platform-appropriate location:
//   - Linux: $XDG_CONFIG_HOME/formwiz/config.yaml or $HOME/.config/formwiz/config.yaml
//   - macOS: $HOME/.config/formwiz/config.yaml
//   - Windows: %LOCALAPPDATA%\formwiz\config.yaml
//
// A missing file is not an error: Load returns defaults. Values are layered
// as defaults, then the file, then FORMWIZ_* environment variables; command
// line flags are applied on top by the CLI.
//
// # Usage Example
//
//	settings, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client := settings.Gateway.NewGatewayClient()
//
// Save writes atomically through a temporary file and rename.
package config
