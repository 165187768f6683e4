// Package config handles input from etc/*.toml files
package config

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/BurntSushi/toml"

	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/auth"
)

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var (
		c             Config
		JSONConfigEnv string
		err           error
	)

	// Read main configuration
	if path == "" {
		path = "./etc/"
	}

	if _, err = toml.DecodeFile(path+"main.toml", &c); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	// override it from env
	JSONConfigEnv = os.Getenv("GO_SAFEQ_ADMIN_CONFIG_JSON")

	if JSONConfigEnv != "" {
		c, err = decodeAndMergeConfig(c, JSONConfigEnv)
		if err != nil {
			return c, err
		}
	}

	return c, validate(&c)
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	err := json.Unmarshal([]byte(configAsJSON), &c)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	return c, nil
}

// DumpConfig config as TOML String.
func DumpConfig(c Config) (string, error) {
	var buffer bytes.Buffer
	t := toml.NewEncoder(&buffer)

	if err := t.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate minimal config settings and fill defaults.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	if c.SafeQ.ServerURL == "" {
		return errors.Wrap(ErrEmptySafeQURL, invalidErrMessage)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = 5 // set default of 5 seconds
	}

	// deployment defaults for the role-group mapping table
	if c.RoleGroups.SuperAdmin == "" {
		c.RoleGroups.SuperAdmin = "SafeQ-SuperAdmin"
	}

	if c.RoleGroups.Admin == "" {
		c.RoleGroups.Admin = "SafeQ-Admin"
	}

	if c.RoleGroups.Support == "" {
		c.RoleGroups.Support = "SafeQ-Support"
	}

	if c.RoleGroups.Viewer == "" {
		c.RoleGroups.Viewer = "SafeQ-View"
	}

	if c.Auth.CloudLocal.RequiredGroup == "" {
		c.Auth.CloudLocal.RequiredGroup = auth.DefaultRequiredGroup
	}

	return nil
}

// AuthRoleGroups converts the configured mapping table into the auth
// package's form.
func (c *Config) AuthRoleGroups() auth.RoleGroups {
	return auth.RoleGroups{
		SuperAdmin: c.RoleGroups.SuperAdmin,
		Admin:      c.RoleGroups.Admin,
		Support:    c.RoleGroups.Support,
		Viewer:     c.RoleGroups.Viewer,
	}
}
