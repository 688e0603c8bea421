package as

import (
	"encoding/json"
	"fmt"
	"os"

	"cashlink/types"
	"cashlink/x/strx"
)

// Config is the account server's full configuration: where to find its
// link, where to store data, and the monetary ceilings applied to
// withdrawals, deposits and transfers. It loads from JSON with flag
// overrides layered on top.
type Config struct {
	Transport TransportConfig `json:"transport"`
	DataDir  string     `json:"data_dir"`

	AdminPassword string `json:"admin_password"`
	// ExitPassword is the reserved password for which Operator.Authenticate
	// returns ErrExit. It is distinct from AdminPassword so a deployment can
	// rotate the normal password without touching the panic exit. The
	// account-server command does not prompt for a password, so nothing in
	// it terminates on this value.
	ExitPassword string `json:"exit_password"`

	WithdrawDepositCeiling float64 `json:"withdraw_deposit_ceiling"`
	TransferCeiling    float64 `json:"transfer_ceiling"`

	Log LogConfig `json:"-"`
}

// TransportConfig selects and configures the link transport.
type TransportConfig struct {
	Type  string `json:"type"` // "serial" or "pipe"
	Device string `json:"device,omitempty"`
}

// DefaultConfig returns the baseline ceilings: 30,000 for
// withdraw/deposit, 100,000 for operator transfer, both strict boundaries.
func DefaultConfig() Config {
	return Config{
		Transport:       TransportConfig{Type: "serial", Device: "/dev/ttyUSB0"},
		DataDir:        ".",
		AdminPassword:     "admin",
		ExitPassword:      "shutdown",
		WithdrawDepositCeiling: 30_000,
		TransferCeiling:    100_000,
		Log:          DefaultLogConfig(),
	}
}

// LoadConfig reads JSON config from path over DefaultConfig(); a missing
// file is not an error, so a fresh install runs on defaults alone.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("as: read config %s: %w", path, err)
	}
	if err := json.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("as: parse config %s: %w", path, err)
	}
	// A config file may omit or blank these without meaning to disable
	// them; fall back to the default rather than running with an empty
	// data directory or device path.
	cfg.DataDir = strx.Coalesce(cfg.DataDir, DefaultConfig().DataDir)
	cfg.Transport.Device = strx.Coalesce(cfg.Transport.Device, DefaultConfig().Transport.Device)
	return cfg, nil
}

// SerialFormat is the fixed line format the transport must configure,
// regardless of config.
func SerialFormat() types.SerialFormat { return types.DefaultSerialFormat }
