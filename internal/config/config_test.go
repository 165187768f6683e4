package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func testConfigPath(t *testing.T) string {
	t.Helper()

	projectRoot, err := filepath.Abs("../../")
	if err != nil {
		t.Fatalf("failed to get project root: %v", err)
	}

	return filepath.Join(projectRoot, "etc") + string(filepath.Separator)
}

func TestReadConfig(t *testing.T) {
	cfg, err := ReadConfig(testConfigPath(t))
	if err != nil {
		t.Fatalf("ReadConfig() error = %v", err)
	}

	if cfg.Title == "" {
		t.Error("Config.Title should not be empty")
	}

	if cfg.Webserver.Port == 0 {
		t.Error("Webserver.Port should not be 0")
	}

	if cfg.Webserver.URL == "" {
		t.Error("Webserver.URL should not be empty")
	}

	if cfg.DB.Host == "" {
		t.Error("DB.Host should not be empty")
	}

	if cfg.SafeQ.ServerURL == "" {
		t.Error("SafeQ.ServerURL should not be empty")
	}

	// role-group defaults must end up populated even if the file omits them
	if cfg.RoleGroups.SuperAdmin == "" || cfg.RoleGroups.Viewer == "" {
		t.Errorf("RoleGroups not populated: %+v", cfg.RoleGroups)
	}

	if cfg.Auth.CloudLocal.RequiredGroup == "" {
		t.Error("Auth.CloudLocal.RequiredGroup should have a default")
	}
}

func TestConfigValidation(t *testing.T) {
	valid := Config{
		Webserver: Webserver{
			Port: 8080,
			URL:  "http://localhost:8080",
		},
		SafeQ: SafeQ{ServerURL: "https://safeq.example.com"},
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid config", func(*Config) {}, false},
		{"missing port", func(c *Config) { c.Webserver.Port = 0 }, true},
		{"missing URL", func(c *Config) { c.Webserver.URL = "" }, true},
		{"missing SafeQ URL", func(c *Config) { c.SafeQ.ServerURL = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)

			err := validate(&cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigValidation_FillsDefaults(t *testing.T) {
	cfg := Config{
		Webserver: Webserver{Port: 8080, URL: "http://localhost:8080"},
		SafeQ:     SafeQ{ServerURL: "https://safeq.example.com"},
	}

	if err := validate(&cfg); err != nil {
		t.Fatalf("validate() error = %v", err)
	}

	if cfg.Webserver.ShutDownTime != 5 {
		t.Errorf("ShutDownTime = %d, want default 5", cfg.Webserver.ShutDownTime)
	}

	if cfg.RoleGroups.SuperAdmin != "SafeQ-SuperAdmin" ||
		cfg.RoleGroups.Admin != "SafeQ-Admin" ||
		cfg.RoleGroups.Support != "SafeQ-Support" ||
		cfg.RoleGroups.Viewer != "SafeQ-View" {
		t.Errorf("RoleGroups defaults not applied: %+v", cfg.RoleGroups)
	}

	if cfg.Auth.CloudLocal.RequiredGroup != "Reports-View" {
		t.Errorf("RequiredGroup = %q, want Reports-View", cfg.Auth.CloudLocal.RequiredGroup)
	}
}

func TestReadConfigWithJSONOverride(t *testing.T) {
	jsonOverride := `{"Title":"Test Override","Webserver":{"Port":9090}}`
	t.Setenv("GO_SAFEQ_ADMIN_CONFIG_JSON", jsonOverride)

	cfg, err := ReadConfig(testConfigPath(t))
	if err != nil {
		t.Fatalf("ReadConfig() error = %v", err)
	}

	if cfg.Title != "Test Override" {
		t.Errorf("Title = %v, want %v", cfg.Title, "Test Override")
	}

	if cfg.Webserver.Port != 9090 {
		t.Errorf("Webserver.Port = %v, want %v", cfg.Webserver.Port, 9090)
	}
}

func TestAuthRoleGroups(t *testing.T) {
	cfg := Config{
		RoleGroups: RoleGroups{
			SuperAdmin: "SA",
			Admin:      "AD",
			Support:    "SU",
			Viewer:     "VI",
		},
	}

	mapping := cfg.AuthRoleGroups()

	if mapping.SuperAdmin != "SA" || mapping.Admin != "AD" ||
		mapping.Support != "SU" || mapping.Viewer != "VI" {
		t.Errorf("AuthRoleGroups() = %+v", mapping)
	}
}

func TestDumpConfig(t *testing.T) {
	cfg := Config{
		Title:   "Test",
		DevMode: true,
		Webserver: Webserver{
			Port: 8080,
			URL:  "http://localhost:8080",
		},
	}

	tomlStr, err := DumpConfig(cfg)
	if err != nil {
		t.Fatalf("DumpConfig() error = %v", err)
	}

	if !strings.Contains(tomlStr, "Test") {
		t.Error("DumpConfig() output should contain Title")
	}
}

func TestDumpConfigJSON(t *testing.T) {
	cfg := Config{
		Title: "Test",
		Webserver: Webserver{
			Port: 8080,
			URL:  "http://localhost:8080",
		},
	}

	jsonStr, err := DumpConfigJSON(cfg)
	if err != nil {
		t.Fatalf("DumpConfigJSON() error = %v", err)
	}

	if !strings.Contains(jsonStr, "Test") {
		t.Error("DumpConfigJSON() output should contain Title")
	}
}
