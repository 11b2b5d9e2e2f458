package config

import "time"

// Built-in defaults, matching the layout of the firmware tooling checkout.
const (
	DefaultWorkspace      = "fmpp/build"
	DefaultEngineBinary   = "fmpp"
	DefaultEngineConfig   = "fmpp/config.fmpp"
	DefaultRepositoryPath = "fmpp/build/crypto_v4"
	DefaultRepositoryURL  = "https://bitbucket.microchip.com/scm/mh3/crypto_v4.git"
	DefaultAppsRoot       = "../dspic33ak512mps512"
	DefaultLibraryName    = "libcam05346-dspic33a.a"
	DefaultWatchDebounce  = 300 * time.Millisecond
)

// Defaults returns a Config holding only built-in defaults.
func Defaults() *Config {
	return &Config{
		Workspace: DefaultWorkspace,
		Engine: EngineConfig{
			Binary: DefaultEngineBinary,
			Config: DefaultEngineConfig,
		},
		Repository: RepositoryConfig{
			Path: DefaultRepositoryPath,
			URL:  DefaultRepositoryURL,
			VCS:  VCSGoGit,
		},
		AppsRoot: DefaultAppsRoot,
		Library:  LibraryConfig{Name: DefaultLibraryName},
		Watch:    WatchConfig{Debounce: DefaultWatchDebounce},
	}
}

// applyDefaults fills fields a config file left blank.
func applyDefaults(c *Config) {
	d := Defaults()
	setIfEmpty(&c.Workspace, d.Workspace)
	setIfEmpty(&c.Engine.Binary, d.Engine.Binary)
	setIfEmpty(&c.Engine.Config, d.Engine.Config)
	setIfEmpty(&c.Repository.Path, d.Repository.Path)
	setIfEmpty(&c.Repository.URL, d.Repository.URL)
	setIfEmpty(&c.Repository.VCS, d.Repository.VCS)
	setIfEmpty(&c.AppsRoot, d.AppsRoot)
	setIfEmpty(&c.Library.Name, d.Library.Name)
	if c.Watch.Debounce <= 0 {
		c.Watch.Debounce = d.Watch.Debounce
	}
}

func setIfEmpty(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}
