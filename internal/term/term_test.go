package term

import (
	"os"
	"testing"

	"github.com/nujievik/mux-media-sub000/internal/config"
)

func TestConfigureAlwaysEnables(t *testing.T) {
	Configure(config.ColorAlways)
	if !Enabled() {
		t.Error("ColorAlways should enable colors")
	}
}

func TestConfigureNeverDisables(t *testing.T) {
	Configure(config.ColorNever)
	if Enabled() {
		t.Error("ColorNever should disable colors")
	}
}

func TestConfigureAutoRespectsNoColor(t *testing.T) {
	old, hadOld := os.LookupEnv("NO_COLOR")
	os.Setenv("NO_COLOR", "1")
	defer func() {
		if hadOld {
			os.Setenv("NO_COLOR", old)
		} else {
			os.Unsetenv("NO_COLOR")
		}
	}()

	Configure(config.ColorAuto)
	if Enabled() {
		t.Error("NO_COLOR=1 should disable colors even in auto mode")
	}
}

func TestIsTerminalNilFile(t *testing.T) {
	if IsTerminal(nil) {
		t.Error("IsTerminal(nil) should be false")
	}
}
