package main

import (
	"os/user"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"pastforward/internal/config"
	"pastforward/internal/engine"
	"pastforward/internal/gen"
	"pastforward/internal/gen/gemini"
	"pastforward/internal/logging"
	"pastforward/internal/notifications"
	"pastforward/internal/session"
)

type commandContext struct {
	configFlag *string
	userFlag   *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, userFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		userFlag:   userFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) userID() string {
	if c.userFlag != nil {
		if id := strings.TrimSpace(*c.userFlag); id != "" {
			return id
		}
	}
	if current, err := user.Current(); err == nil && current.Username != "" {
		return current.Username
	}
	return "default"
}

// withStore opens the session store for direct access and closes it after fn.
func (c *commandContext) withStore(fn func(*session.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := session.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

// withEngine assembles the full generation stack around the store and tears
// it down after fn, draining queued mirror writes.
func (c *commandContext) withEngine(fn func(*engine.Engine, *gen.KeyAuthorizer) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return err
	}
	store, err := session.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	invoker := gemini.NewClient(cfg, gemini.WithLogger(logger))
	notifier := notifications.NewService(cfg)
	auth := gen.NewKeyAuthorizer(cfg.Gemini.APIKey)
	player := gen.NewFilePlayer(cfg.Paths.MediaDir)

	eng := engine.New(cfg, logger, store, invoker, notifier, auth, player)
	defer eng.Close()
	return fn(eng, auth)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
