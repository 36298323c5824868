package persistence

import (
	"os"
	"path/filepath"

	"github.com/mongodb/marian/config"
)

const adminConfigFile = "admin_config.gob"

// SaveAdminConfig snapshots cfg to dataDir/admin_config.gob.
func SaveAdminConfig(dataDir string, cfg config.AdminConfig) error {
	return SaveGob(filepath.Join(dataDir, adminConfigFile), cfg)
}

// LoadAdminConfig loads the snapshot from dataDir/admin_config.gob. A
// missing snapshot (fresh deployment) returns a zero AdminConfig and no
// error.
func LoadAdminConfig(dataDir string) (config.AdminConfig, error) {
	var cfg config.AdminConfig
	err := LoadGob(filepath.Join(dataDir, adminConfigFile), &cfg)
	if err == os.ErrNotExist {
		return config.AdminConfig{}, nil
	}
	return cfg, err
}
