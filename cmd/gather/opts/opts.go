package opts

// RootOpts contains shared options used by all commands
type RootOpts struct {
	ConfigFile string
	Debug      bool
	Version    string // build label, recorded in pipeline metadata
}
