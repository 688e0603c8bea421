package as

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.json"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	want := DefaultConfig()
	if cfg.WithdrawDepositCeiling != want.WithdrawDepositCeiling || cfg.TransferCeiling != want.TransferCeiling {
		t.Fatalf("LoadConfig on a missing file = %+v, want defaults %+v", cfg, want)
	}
}

func TestLoadConfig_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Fatalf("LoadConfig(\"\") = %+v, want DefaultConfig()", cfg)
	}
}

func TestLoadConfig_OverridesCeilingsLeavesDataDirDefaulted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	const body = `{"withdraw_deposit_ceiling": 5000, "data_dir": ""}`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.WithdrawDepositCeiling != 5000 {
		t.Fatalf("WithdrawDepositCeiling = %v, want 5000", cfg.WithdrawDepositCeiling)
	}
	if cfg.DataDir != DefaultConfig().DataDir {
		t.Fatalf("blank data_dir should fall back to the default, got %q", cfg.DataDir)
	}
}

func TestLoadConfig_UnreadableJSONErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected an error parsing malformed JSON")
	}
}
