package drmshow

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vidmode/drmshow/drm"
)

// Config selects the device, the output port and the scanout format.
type Config struct {
	// Device is the DRI device path.
	Device string `yaml:"device"`

	// Connector is the output port name, e.g. "HDMI-A-1".
	Connector string `yaml:"connector"`

	// Depth is the color depth of the registered framebuffer.
	Depth uint8 `yaml:"depth"`

	// BPP is the bits per pixel of the allocated buffer.
	BPP uint8 `yaml:"bpp"`

	// Logf receives verbose diagnostics when set. It replaces a process-wide
	// verbosity switch; leave nil to keep the lifecycle silent.
	Logf func(format string, args ...interface{}) `yaml:"-"`
}

// DefaultConfig are the default configuration values.
var DefaultConfig = Config{
	Device:    drm.DefaultPath,
	Connector: "HDMI-A-1",
	Depth:     24,
	BPP:       32,
}

// LoadConfig reads a YAML configuration file on top of the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := new(Config)
	*config = DefaultConfig
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("drmshow: parse config %s: %w", path, err)
	}
	return config.withDefaults(), nil
}

// withDefaults fills zero values from DefaultConfig.
func (c *Config) withDefaults() *Config {
	if c == nil {
		config := new(Config)
		*config = DefaultConfig
		return config
	}
	if c.Device == "" {
		c.Device = DefaultConfig.Device
	}
	if c.Connector == "" {
		c.Connector = DefaultConfig.Connector
	}
	if c.Depth == 0 {
		c.Depth = DefaultConfig.Depth
	}
	if c.BPP == 0 {
		c.BPP = DefaultConfig.BPP
	}
	return c
}

func (c *Config) logf(format string, args ...interface{}) {
	if c.Logf != nil {
		c.Logf(format, args...)
	}
}
