// Package config loads optional TOML run configuration for adsheet.
//
// The configuration file supplies the same values as the generate command's
// flags; explicitly set flags always win over file values. A minimal file:
//
//	images_dir = "covers"
//	inventory  = "inventory.json"
//	output_dir = "ads"
//	mode       = "genre"
//	tile       = 192
//	min_bucket = 36
//
//	[catalog]
//	backend    = "json"
//
//	[cache]
//	backend    = "file"
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// File mirrors the TOML configuration file.
type File struct {
	ImagesDir string `toml:"images_dir"`
	Inventory string `toml:"inventory"`
	OutputDir string `toml:"output_dir"`
	Mode      string `toml:"mode"`
	TilePx    int    `toml:"tile"`
	MinBucket int    `toml:"min_bucket"`
	Rows      int    `toml:"rows"`
	Cols      int    `toml:"cols"`
	Format    string `toml:"format"`
	Workers   int    `toml:"workers"`

	Catalog Catalog `toml:"catalog"`
	Cache   Cache   `toml:"cache"`
}

// Catalog selects where inventory records come from.
type Catalog struct {
	// Backend is "json" (inventory file) or "mongo".
	Backend    string `toml:"backend"`
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Cache selects the thumbnail cache backend.
type Cache struct {
	// Backend is "file", "redis", or "none".
	Backend       string `toml:"backend"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// Load reads and decodes a TOML configuration file.
// Unknown keys are rejected so typos surface immediately.
func Load(path string) (*File, error) {
	var f File
	meta, err := toml.DecodeFile(path, &f)
	if err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown config key %q in %s", undecoded[0].String(), path)
	}
	return &f, nil
}
